package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type recMod struct {
	name     string
	priority int
	log      *[]string
}

func (m recMod) MountAPI(_, _ *gin.RouterGroup) { *m.log = append(*m.log, "api:"+m.name) }
func (m recMod) MountAdmin(*gin.RouterGroup)    { *m.log = append(*m.log, "admin:"+m.name) }
func (m recMod) Priority() int                  { return m.priority }

type apiOnly struct{ log *[]string }

func (m apiOnly) MountAPI(_, _ *gin.RouterGroup) { *m.log = append(*m.log, "api:plain") }

func TestRegistryMountsByPriority(t *testing.T) {
	var log []string
	reg := NewRegistry(
		apiOnly{log: &log},
		recMod{name: "late", priority: 200, log: &log},
		recMod{name: "early", priority: 1, log: &log},
	)
	g := gin.New().Group("")

	reg.MountAPI(g, g)
	reg.MountAdmin(g)

	assert.Equal(t, []string{"api:early", "api:plain", "api:late", "admin:early", "admin:late"}, log)
}

func TestOnPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hits := 0
	mw := onPrefix("/auth/", func(c *gin.Context) { hits++; c.Next() })

	r := gin.New()
	r.Use(mw)
	r.GET("/auth/login", func(c *gin.Context) {})
	r.GET("/dogs/pending", func(c *gin.Context) {})

	for _, p := range []string{"/auth/login", "/dogs/pending"} {
		r.ServeHTTP(nopWriter(), newGet(p))
	}
	assert.Equal(t, 1, hits)
}

func nopWriter() *httptest.ResponseRecorder { return httptest.NewRecorder() }

func newGet(path string) *http.Request { return httptest.NewRequest(http.MethodGet, path, nil) }
