package router

import (
	"github.com/gin-gonic/gin"

	mdw "doggy-rescue/internal/transport/http/middleware"
)

// mountAdmin puts every admin module behind the admin guard. Admin routes
// share the public path space, so they live on the same engine.
func mountAdmin(r *gin.Engine, reg *Registry) {
	admin := r.Group("")
	admin.Use(mdw.RequireAdmin())
	reg.MountAdmin(admin)
}
