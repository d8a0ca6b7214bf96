package ez

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	resp "doggy-rescue/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func TestFromError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.Invalid("dogAge", "not a number"), resp.CodeBadRequest},
		{domain.ErrInvalidCredentials, resp.CodeUnauthorized},
		{domain.ErrForbidden, resp.CodeForbidden},
		{fmt.Errorf("load: %w", domain.ErrNotFound), resp.CodeNotFound},
		{domain.ErrDuplicateRequest, resp.CodeConflict},
		{domain.ErrReferentialConflict, resp.CodeConflict},
		{domain.ErrAlreadyDecided, resp.CodeConflict},
		{domain.ErrUploadFailed, resp.CodeBadGateway},
		{domain.Unavailable(errors.New("dial tcp")), resp.CodeUnavailable},
		{errors.New("boom"), resp.CodeServerError},
		{NotFound("no such dog"), resp.CodeNotFound},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, FromError(tc.err).Code, tc.err.Error())
	}
	assert.Equal(t, "invalid dogAge: not a number", FromError(domain.Invalid("dogAge", "not a number")).Msg)
	assert.Equal(t, "Internal Server Error", FromError(errors.New("secret dsn")).Msg)
}

type echoIn struct {
	Name string `json:"name" form:"name" binding:"required"`
}

func newEngine(id auth.Identity) *gin.Engine {
	r := gin.New()
	r.Use(WithLoginPath("/login"), func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.ContextWithIdentity(c.Request.Context(), id))
	})
	e := New(r.Group(""))
	RegisterAction(e, Action[echoIn, string]{
		Method: http.MethodPost, Path: "/echo", Binder: BindAuto, Status: http.StatusCreated, Redirect: "/done",
		Handler: func(_ *gin.Context, _ auth.Identity, in *echoIn) (string, error) { return in.Name, nil },
	})
	RegisterAction(e, Action[struct{}, string]{
		Method: http.MethodGet, Path: "/admin", Binder: BindNone, Admin: true,
		Handler: func(*gin.Context, auth.Identity, *struct{}) (string, error) { return "ok", nil },
	})
	return r
}

func TestRegisterActionBindsAndResponds(t *testing.T) {
	r := newEngine(auth.Anonymous)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"name":"rex"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":"rex"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("name=rex"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/done", w.Header().Get("Location"))
}

func TestRegisterActionGuards(t *testing.T) {
	w := httptest.NewRecorder()
	newEngine(auth.Anonymous).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Accept", "text/html")
	newEngine(auth.Anonymous).ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	newEngine(auth.Identity{Kind: auth.KindUser, UserID: "u1"}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	newEngine(auth.Identity{Kind: auth.KindUser, UserID: "u1", IsAdmin: true}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
