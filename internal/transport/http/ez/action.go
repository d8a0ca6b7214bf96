package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/core/auth"
	resp "doggy-rescue/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON  Binder = "json"  // JSON body
	BindQuery Binder = "query" // ?a=b
	BindAuto  Binder = "auto"  // JSON or form, by Content-Type
	BindNone  Binder = "none"  // handler reads c.Param / form itself
)

// Action is a single endpoint: I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method   string
	Path     string
	Binder   Binder
	Auth     bool   // requires an authenticated identity
	Admin    bool   // requires the admin flag
	Status   int    // success status, 200 when zero
	Redirect string // browsers are sent here with 303 on success
	Handler  func(c *gin.Context, id auth.Identity, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		id := auth.IdentityFromContext(c.Request.Context())
		switch {
		case a.Admin:
			if err := auth.RequireAdmin(id); err != nil {
				Abort(c, err)
				return
			}
		case a.Auth:
			if err := auth.RequireAuthenticated(id); err != nil {
				Abort(c, err)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindAuto:
			bindErr = c.ShouldBind(&in)
		}
		if bindErr != nil {
			Abort(c, BadRequest(bindErr.Error()))
			return
		}

		out, err := a.Handler(c, id, &in)
		if err != nil {
			Abort(c, err)
			return
		}
		if c.Writer.Written() {
			return
		}
		if a.Redirect != "" && WantsHTML(c) {
			c.Redirect(http.StatusSeeOther, a.Redirect)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
