package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Mode        string // gin mode: debug | release | test
	CORSOrigins []string
}

// NewEngine returns a bare engine with CORS applied. An empty origin list
// keeps the permissive cors.Default behaviour without credentials.
func NewEngine(o Options) *gin.Engine {
	if o.Mode != "" {
		gin.SetMode(o.Mode)
	}
	r := gin.New()
	if len(o.CORSOrigins) == 0 {
		r.Use(cors.Default())
		return r
	}
	cc := cors.DefaultConfig()
	cc.AllowOrigins = o.CORSOrigins
	cc.AllowCredentials = true
	cc.AddAllowHeaders("Authorization", "X-Request-ID")
	cc.MaxAge = 12 * time.Hour
	r.Use(cors.New(cc))
	return r
}

// ModeFor maps an app environment onto a gin mode.
func ModeFor(env string) string {
	switch env {
	case "prod", "production", "staging":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	}
	return gin.DebugMode
}

func StartHTTP(srv *http.Server, l *zap.Logger) error {
	l.Info("http starting", zap.String("addr", srv.Addr))
	return srv.ListenAndServe()
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
