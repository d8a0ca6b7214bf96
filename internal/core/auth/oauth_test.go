package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestGoogleOAuthExchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
		case "/userinfo":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"sub":"g1","email":"a@x.io","email_verified":true,"given_name":"Ana","family_name":"Diaz","picture":"http://p/a.png"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	g := NewGoogleOAuth("cid", "secret", "http://localhost/cb")
	g.cfg.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	g.UserInfoURL = srv.URL + "/userinfo"
	require.True(t, g.Enabled())
	assert.Contains(t, g.AuthCodeURL("st"), "state=st")

	a, err := g.Exchange(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "google", a.Provider)
	assert.Equal(t, "a@x.io", a.Email)
	assert.True(t, a.EmailVerified)
	assert.Equal(t, "Ana", a.FirstName)
}

func TestGoogleOAuthDisabled(t *testing.T) {
	var g *GoogleOAuth
	assert.False(t, g.Enabled())
	assert.False(t, NewGoogleOAuth("", "", "").Enabled())
}
