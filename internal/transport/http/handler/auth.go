package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/service"
	"doggy-rescue/internal/transport/http/ez"
	"doggy-rescue/internal/transport/http/form"
)

const oauthStateCookie = "oauth_state"

type Cookies struct {
	Token   string
	Session string
	Secure  bool
}

type AuthHandler struct {
	Identity  *service.IdentityService
	Resolver  *auth.Resolver
	Google    *auth.GoogleOAuth
	Cookies   Cookies
	MaxMemory int64
	Log       *zap.Logger
}

type credentialOut struct {
	User      *domain.User `json:"user"`
	Kind      string       `json:"kind"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.Cookies.Secure, true)
}

// issue sets the cookie for a fresh credential and clears the other kind,
// since a token cookie takes precedence over a session cookie.
func (h *AuthHandler) issue(c *gin.Context, u *domain.User, session bool) (credentialOut, error) {
	cred, err := h.Identity.IssueCredential(c.Request.Context(), u, session)
	if err != nil {
		return credentialOut{}, err
	}
	name, other := h.Cookies.Token, h.Cookies.Session
	if cred.Kind == "session" {
		name, other = other, name
	}
	h.setCookie(c, name, cred.Value, int(time.Until(cred.ExpiresAt).Seconds()))
	h.setCookie(c, other, "", -1)
	return credentialOut{User: u, Kind: cred.Kind, Token: cred.Value, ExpiresAt: cred.ExpiresAt}, nil
}

func (h *AuthHandler) MountAPI(public, authed *gin.RouterGroup) {
	pub := ez.New(public)

	type registerIn struct {
		Email       string `json:"email" form:"email" binding:"required"`
		Password    string `json:"password" form:"password" binding:"required"`
		FirstName   string `json:"firstName" form:"firstName"`
		LastName    string `json:"lastName" form:"lastName"`
		PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	}
	ez.RegisterAction(pub, ez.Action[registerIn, credentialOut]{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Binder:   ez.BindAuto,
		Status:   http.StatusCreated,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, _ auth.Identity, in *registerIn) (credentialOut, error) {
			u, err := h.Identity.Register(c.Request.Context(), service.RegisterInput{
				Email:       in.Email,
				Password:    in.Password,
				FirstName:   in.FirstName,
				LastName:    in.LastName,
				PhoneNumber: in.PhoneNumber,
			})
			if err != nil {
				return credentialOut{}, err
			}
			return h.issue(c, u, false)
		},
	})

	// session is a checkbox: present means a server-side session instead of a token.
	ez.RegisterAction(pub, ez.Action[struct{}, credentialOut]{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Binder:   ez.BindNone,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (credentialOut, error) {
			v, err := form.Parse(c, h.MaxMemory)
			if err != nil {
				return credentialOut{}, err
			}
			u, err := h.Identity.Authenticate(c.Request.Context(), v.String("email"), v.String("password"))
			if err != nil {
				return credentialOut{}, err
			}
			return h.issue(c, u, v.Checked("session"))
		},
	})

	type loggedInOut struct {
		LoggedIn bool         `json:"loggedIn"`
		User     *domain.User `json:"user"`
	}
	ez.RegisterAction(pub, ez.Action[struct{}, loggedInOut]{
		Method: http.MethodGet,
		Path:   "/auth/logged-in",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (loggedInOut, error) {
			if !id.Authenticated() {
				return loggedInOut{}, nil
			}
			u, err := h.Identity.Me(c.Request.Context(), id)
			if err != nil {
				return loggedInOut{}, err
			}
			return loggedInOut{LoggedIn: true, User: u}, nil
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, struct{}]{
		Method: http.MethodGet,
		Path:   "/auth/google",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (struct{}, error) {
			if !h.Google.Enabled() {
				return struct{}{}, ez.NotFound("google sign-in is not configured")
			}
			state, err := auth.NewSessionID()
			if err != nil {
				return struct{}{}, err
			}
			h.setCookie(c, oauthStateCookie, state, 600)
			c.Redirect(http.StatusFound, h.Google.AuthCodeURL(state))
			return struct{}{}, nil
		},
	})

	ez.RegisterAction(pub, ez.Action[struct{}, credentialOut]{
		Method:   http.MethodGet,
		Path:     "/auth/google/callback",
		Binder:   ez.BindNone,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (credentialOut, error) {
			if !h.Google.Enabled() {
				return credentialOut{}, ez.NotFound("google sign-in is not configured")
			}
			state, err := c.Cookie(oauthStateCookie)
			h.setCookie(c, oauthStateCookie, "", -1)
			if err != nil || state == "" || state != c.Query("state") {
				return credentialOut{}, domain.ErrUnauthenticated
			}
			assertion, err := h.Google.Exchange(c.Request.Context(), c.Query("code"))
			if err != nil {
				h.Log.Warn("google exchange failed", zap.Error(err))
				return credentialOut{}, domain.ErrUnauthenticated
			}
			id, err := h.Resolver.Resolve(c.Request.Context(), assertion)
			if err != nil {
				return credentialOut{}, err
			}
			u, err := h.Identity.Me(c.Request.Context(), id)
			if err != nil {
				return credentialOut{}, err
			}
			return h.issue(c, u, true)
		},
	})

	user := ez.New(authed)

	ez.RegisterAction(user, ez.Action[struct{}, struct{}]{
		Method:   http.MethodGet,
		Path:     "/auth/logout",
		Binder:   ez.BindNone,
		Auth:     true,
		Redirect: "/dogs/pending",
		Handler: func(c *gin.Context, _ auth.Identity, _ *struct{}) (struct{}, error) {
			if sid, err := c.Cookie(h.Cookies.Session); err == nil {
				if err := h.Identity.Logout(c.Request.Context(), sid); err != nil {
					return struct{}{}, err
				}
			}
			h.setCookie(c, h.Cookies.Token, "", -1)
			h.setCookie(c, h.Cookies.Session, "", -1)
			return struct{}{}, nil
		},
	})

	ez.RegisterAction(user, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.User, error) {
			return h.Identity.Me(c.Request.Context(), id)
		},
	})

	ez.RegisterAction(user, ez.Action[struct{}, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, id auth.Identity, _ *struct{}) (*domain.User, error) {
			return updateProfile(c, h.Identity, id, id.UserID, h.MaxMemory)
		},
	})
}

// updateProfile reads a profile form and applies it to userID.
func updateProfile(c *gin.Context, identity *service.IdentityService, actor auth.Identity, userID string, maxMemory int64) (*domain.User, error) {
	v, err := form.Parse(c, maxMemory)
	if err != nil {
		return nil, err
	}
	photo, closePhoto, err := v.File("userPhotoURL")
	if err != nil {
		return nil, err
	}
	defer closePhoto()
	return identity.UpdateProfile(c.Request.Context(), actor, userID, service.ProfilePatch{
		Email:       v.Optional("email"),
		Password:    v.Optional("password"),
		FirstName:   v.Optional("firstName"),
		LastName:    v.Optional("lastName"),
		PhoneNumber: v.Optional("phoneNumber"),
		Photo:       photo,
	})
}
