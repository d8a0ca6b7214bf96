package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/core/auth"
	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/transport/http/ez"
)

const KeyUserID = "uid"

// credentialFrom prefers a bearer token, then the token cookie, then the session cookie.
func credentialFrom(c *gin.Context, tokenCookie, sessionCookie string) auth.Credential {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return auth.TokenCredential{Token: strings.TrimPrefix(ah, "Bearer ")}
	}
	if tok, err := c.Cookie(tokenCookie); err == nil && tok != "" {
		return auth.TokenCredential{Token: tok}
	}
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return auth.SessionCredential{SessionID: sid}
	}
	return nil
}

// Authenticate attaches the caller's identity to the request context. A
// credential that does not check out leaves the caller anonymous; the route
// guards decide whether that is acceptable.
func Authenticate(r *auth.Resolver, tokenCookie, sessionCookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := r.Resolve(c.Request.Context(), credentialFrom(c, tokenCookie, sessionCookie))
		if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			ez.Abort(c, err)
			return
		}
		if id.Authenticated() {
			c.Set(KeyUserID, id.UserID)
		}
		c.Request = c.Request.WithContext(auth.ContextWithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireAuthenticated(auth.IdentityFromContext(c.Request.Context())); err != nil {
			ez.Abort(c, err)
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireAdmin(auth.IdentityFromContext(c.Request.Context())); err != nil {
			ez.Abort(c, err)
			return
		}
		c.Next()
	}
}
