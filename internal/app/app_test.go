package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"doggy-rescue/internal/core/config"
	"doggy-rescue/internal/domain"
)

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		App: config.App{
			Name:      "doggy-rescue",
			Env:       "test",
			BaseURL:   "http://example.test",
			LoginPath: "/auth/login-page",
			HTTP: config.HTTP{
				RequestTimeoutSec: 5,
				MaxBodyMB:         4,
				RateLimitRPS:      1000,
				RateLimitBurst:    1000,
				AuthRPS:           1000,
				AuthBurst:         1000,
				MaxConcurrent:     100,
			},
		},
		JWT:     config.JWT{Secret: "test-secret", Issuer: "doggy-rescue", AccessTokenTTLMin: 60, Cookie: "token"},
		Session: config.Session{Store: "db", Cookie: "sid", TTLHours: 1},
		DB:      config.DB{Driver: "memory"},
		Cache:   config.Cache{TTLSec: 60},
		SMTP:    config.SMTP{TimeoutSec: 1, MaxInFlight: 2},
		Media: config.Media{
			Driver:       "local",
			LocalDir:     t.TempDir(),
			LocalBaseURL: "/uploads",
			MaxSizeMB:    1,
		},
	}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type harness struct {
	t   *testing.T
	app *App
}

func newHarness(t *testing.T) *harness {
	a, err := New(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		a.Close(ctx)
	})
	return &harness{t: t, app: a}
}

func (h *harness) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.app.Engine.ServeHTTP(w, req)
	return w
}

func (h *harness) call(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), w.Body.String())
	return out
}

type credential struct {
	User  domain.User `json:"user"`
	Kind  string      `json:"kind"`
	Token string      `json:"token"`
}

func (h *harness) register(email string) credential {
	w := h.call(http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "password": "pw-" + email, "firstName": "Test",
	})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[credential](h.t, w)
}

func (h *harness) admin() string {
	c := h.register("admin@example.com")
	require.NoError(h.t, h.app.Users.SetAdmin(context.Background(), c.User.ID, true))
	return c.Token
}

func (h *harness) createDog(token, name string, withPhoto bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"dogName":         name,
		"dogAge":          "3",
		"dogWeight":       "12,5",
		"dogBreed":        "Mixed",
		"suitableForKids": "on",
	} {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	if withPhoto {
		fw, err := mw.CreateFormFile("dogPhotoURL", "rex.png")
		require.NoError(h.t, err)
		_, err = fw.Write(pngBytes)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/create-new-dog", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.send(req, token)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusOK, h.call(http.MethodGet, "/health", "", nil).Code)
	w := h.call(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestAdoptionFlowOverHTTP(t *testing.T) {
	h := newHarness(t)
	adminTok := h.admin()
	alice := h.register("alice@example.com")
	bob := h.register("bob@example.com")

	w := h.createDog(adminTok, "Rex", true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dog := decode[domain.Dog](t, w)
	assert.Equal(t, 12.5, dog.Weight)
	assert.True(t, dog.SuitableForKids)
	assert.True(t, strings.HasPrefix(dog.PhotoURL, "/uploads/"))

	photo := h.call(http.MethodGet, dog.PhotoURL, "", nil)
	assert.Equal(t, http.StatusOK, photo.Code)

	pending := decode[[]domain.Dog](t, h.call(http.MethodGet, "/dogs/pending", "", nil))
	require.Len(t, pending, 1)

	q := map[string]any{
		"adopterAge":     "30",
		"dailyHoursAway": "6",
		"monthlyMoney":   "200",
		"numberOfPeople": "2",
		"hasGarden":      true,
		"hasKids":        false,
	}
	w = h.call(http.MethodPost, "/request-dog/"+dog.ID, alice.Token, q)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	req := decode[domain.AdoptionRequest](t, w)
	assert.True(t, req.HasGarden)
	assert.False(t, req.HasKids)
	assert.Nil(t, req.RequestApproved)

	assert.Equal(t, http.StatusConflict, h.call(http.MethodPost, "/request-dog/"+dog.ID, alice.Token, q).Code)
	require.Equal(t, http.StatusCreated, h.call(http.MethodPost, "/request-dog/"+dog.ID, bob.Token, q).Code)

	list := decode[[]domain.AdoptionRequest](t, h.call(http.MethodGet, "/adoption-requests/pending", adminTok, nil))
	assert.Len(t, list, 2)

	key := req.Key().String()
	assert.Equal(t, http.StatusForbidden, h.call(http.MethodPut, "/adoption-requests/approve/"+key, alice.Token, nil).Code)
	require.Equal(t, http.StatusOK, h.call(http.MethodPut, "/adoption-requests/approve/"+key, adminTok, nil).Code)
	assert.Equal(t, http.StatusConflict, h.call(http.MethodPut, "/adoption-requests/deny/"+key, adminTok, nil).Code)

	assert.Empty(t, decode[[]domain.Dog](t, h.call(http.MethodGet, "/dogs/pending", "", nil)))
	adopted := decode[[]domain.Dog](t, h.call(http.MethodGet, "/dogs/adopted", "", nil))
	require.Len(t, adopted, 1)
	assert.True(t, adopted[0].Adopted)

	mine := decode[domain.AdoptionRequest](t, h.call(http.MethodGet, "/my-adoption-requests/"+key, alice.Token, nil))
	require.NotNil(t, mine.RequestApproved)
	assert.True(t, *mine.RequestApproved)
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/my-adoption-requests/"+key, bob.Token, nil).Code)

	assert.Equal(t, http.StatusConflict, h.call(http.MethodDelete, "/dog/delete/"+dog.ID, adminTok, nil).Code)
}

func TestGuardsAndBrowserRedirects(t *testing.T) {
	h := newHarness(t)
	alice := h.register("alice@example.com")

	assert.Equal(t, http.StatusUnauthorized, h.call(http.MethodGet, "/my-adoption-requests", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.createDog(alice.Token, "Rex", false).Code)

	req := httptest.NewRequest(http.MethodGet, "/my-adoption-requests", nil)
	req.Header.Set("Accept", "text/html")
	w := h.send(req, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login-page", w.Header().Get("Location"))

	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/dog/missing", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.call(http.MethodGet, "/auth/google", "", nil).Code)
}

func TestSessionLoginAndLogout(t *testing.T) {
	h := newHarness(t)
	h.register("alice@example.com")

	form := url.Values{"email": {"alice@example.com"}, "password": {"pw-alice@example.com"}, "session": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := h.send(req, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "session", decode[credential](t, w).Kind)

	var sid *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "sid" && c.Value != "" {
			sid = c
		}
	}
	require.NotNil(t, sid)

	withSession := func(method, path string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, path, nil)
		r.AddCookie(sid)
		return h.send(r, "")
	}
	me := withSession(http.MethodGet, "/me")
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "alice@example.com", decode[domain.User](t, me).Email)

	assert.Equal(t, http.StatusOK, withSession(http.MethodGet, "/auth/logout").Code)
	assert.Equal(t, http.StatusUnauthorized, withSession(http.MethodGet, "/me").Code)

	bad := url.Values{"email": {"alice@example.com"}, "password": {"wrong"}}
	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(bad.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnauthorized, h.send(req, "").Code)
}

func TestAdminManagesUsers(t *testing.T) {
	h := newHarness(t)
	adminTok := h.admin()
	alice := h.register("alice@example.com")

	type page struct {
		Items []domain.User `json:"items"`
		Total int64         `json:"total"`
	}
	p := decode[page](t, h.call(http.MethodGet, "/users?q=alice&limit=10", adminTok, nil))
	assert.Equal(t, int64(1), p.Total)

	u := decode[domain.User](t, h.call(http.MethodPut, "/user/give-admin/"+alice.User.ID, adminTok, nil))
	assert.True(t, u.IsAdmin)
	u = decode[domain.User](t, h.call(http.MethodPut, "/user/remove-admin/"+alice.User.ID, adminTok, nil))
	assert.False(t, u.IsAdmin)

	u = decode[domain.User](t, h.call(http.MethodPut, "/user/update/"+alice.User.ID, adminTok, map[string]any{"firstName": "Alicia"}))
	assert.Equal(t, "Alicia", u.FirstName)

	assert.Equal(t, http.StatusBadRequest, h.call(http.MethodGet, "/users?limit=500", adminTok, nil).Code)
}

func TestUnknownDrivers(t *testing.T) {
	cfg := testConfig(t)
	cfg.Media.Driver = "ftp"
	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Session.Store = "redis"
	_, err = New(cfg, zap.NewNop())
	assert.Error(t, err)
}
