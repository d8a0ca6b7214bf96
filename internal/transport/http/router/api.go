package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/core/server"
	"doggy-rescue/internal/transport/http/ez"
	mdw "doggy-rescue/internal/transport/http/middleware"
)

type Deps struct {
	Log           *zap.Logger
	Resolver      *auth.Resolver
	Modules       *Registry
	App           config.App
	TokenCookie   string
	SessionCookie string
	UploadDir     string // served under UploadURL when set
	UploadURL     string
}

func NewAPIEngine(d Deps) *gin.Engine {
	h := d.App.HTTP
	r := server.NewEngine(server.Options{
		Mode:        server.ModeFor(d.App.Env),
		CORSOrigins: h.CORSOrigins,
	})

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst),
		mdw.ConcurrencyLimit(h.MaxConcurrent),
		mdw.MaxBodyBytes(h.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(h.RequestTimeoutSec)*time.Second),
		mdw.Recovery(d.Log),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
		ez.WithLoginPath(d.App.LoginPath),
		mdw.Authenticate(d.Resolver, d.TokenCookie, d.SessionCookie),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if d.UploadDir != "" && strings.HasPrefix(d.UploadURL, "/") {
		r.Static(d.UploadURL, d.UploadDir)
	}

	public := r.Group("")
	public.Use(onPrefix("/auth/", mdw.RateLimitPerIP(rate.Limit(h.AuthRPS), h.AuthBurst)))

	authed := r.Group("")
	authed.Use(mdw.RequireAuthenticated())

	d.Modules.MountAPI(public, authed)
	mountAdmin(r, d.Modules)
	return r
}

// onPrefix runs mw only for routes under prefix.
func onPrefix(prefix string, mw gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.FullPath(), prefix) {
			mw(c)
			return
		}
		c.Next()
	}
}
