package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.9:1234"
	assert.Equal(t, http.StatusNoContent, serve(r, other).Code)
}

func TestTimeoutAnswers503(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(4))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRecoveryAndAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)
	r := gin.New()
	r.Use(RequestID(), AccessLog(l), Recovery(l))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic?password=hunter2", nil)
	w := serve(r, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))

	entries := logs.FilterMessage("HTTP").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.NotContains(t, fmt.Sprint(entries[0].ContextMap()["query"]), "hunter2")
}

type oneUser struct{ u domain.User }

func (o oneUser) FindByID(_ context.Context, id string) (*domain.User, error) {
	if id == o.u.ID {
		u := o.u
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (o oneUser) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if email == o.u.Email {
		u := o.u
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func TestAuthenticateAndGuards(t *testing.T) {
	jwter := &auth.JWTer{Secret: []byte("k"), Issuer: "t", TTL: time.Hour}
	resolver := auth.NewResolver(oneUser{domain.User{ID: "u1", Email: "a@x.io"}}, jwter, nil, nil)

	r := gin.New()
	r.Use(Authenticate(resolver, "token", "sid"))
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, auth.IdentityFromContext(c.Request.Context()).UserID)
	})
	r.GET("/private", RequireAuthenticated(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tok, err := jwter.Issue("u1", "a@x.io")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: tok})
	assert.Equal(t, "u1", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	// a stale cookie degrades to anonymous
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}
