package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/domain"
	resp "doggy-rescue/internal/transport/http/response"
)

// AErr carries the envelope code for a failed action.
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

var taxonomy = []struct {
	target error
	code   int
}{
	{domain.ErrValidation, resp.CodeBadRequest},
	{domain.ErrInvalidCredentials, resp.CodeUnauthorized},
	{domain.ErrUnauthenticated, resp.CodeUnauthorized},
	{domain.ErrForbidden, resp.CodeForbidden},
	{domain.ErrNotFound, resp.CodeNotFound},
	{domain.ErrDuplicateEmail, resp.CodeConflict},
	{domain.ErrDuplicateRequest, resp.CodeConflict},
	{domain.ErrReferentialConflict, resp.CodeConflict},
	{domain.ErrAlreadyDecided, resp.CodeConflict},
	{domain.ErrDogAdopted, resp.CodeConflict},
	{domain.ErrUploadFailed, resp.CodeBadGateway},
	{domain.ErrServiceUnavailable, resp.CodeUnavailable},
}

// FromError maps domain errors onto envelope codes. Internal details of
// unexpected errors are not exposed to the client.
func FromError(err error) *AErr {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae
	}
	for _, t := range taxonomy {
		if errors.Is(err, t.target) {
			msg := t.target.Error()
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				msg = ve.Error()
			}
			return &AErr{Code: t.code, Msg: msg, Err: err}
		}
	}
	return &AErr{Code: resp.CodeServerError, Msg: resp.CodeMsgMap[resp.CodeServerError], Err: err}
}

// KeyLoginPath holds the page HTML clients are sent to when a request needs a login.
const KeyLoginPath = "ez.loginPath"

func WithLoginPath(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(KeyLoginPath, path)
		c.Next()
	}
}

// WantsHTML reports a browser navigation rather than an API call.
func WantsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// Abort writes err as an envelope and stops the chain. Browsers hitting a
// login-only route are redirected to the login page instead.
func Abort(c *gin.Context, err error) {
	ae := FromError(err)
	if ae.Code >= resp.CodeServerError {
		_ = c.Error(err)
	}
	if ae.Code == resp.CodeUnauthorized && WantsHTML(c) {
		if path := c.GetString(KeyLoginPath); path != "" {
			c.Redirect(http.StatusSeeOther, path)
			c.Abort()
			return
		}
	}
	c.AbortWithStatusJSON(resp.HTTPStatus(ae.Code), resp.Error(ae.Code, ae.Error()))
}
