// Package form reads HTML form submissions (urlencoded or multipart) and
// JSON objects into one key/value view.
package form

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"doggy-rescue/internal/domain"
	"doggy-rescue/internal/media"
)

type Values struct {
	vals  url.Values
	files map[string][]*multipart.FileHeader
}

// Parse reads the request body. In JSON bodies a boolean true becomes a
// present checkbox and false or null leaves the key absent.
func Parse(c *gin.Context, maxMemory int64) (Values, error) {
	ct := c.ContentType()
	switch {
	case ct == "application/json":
		var raw map[string]any
		if err := json.NewDecoder(c.Request.Body).Decode(&raw); err != nil {
			return Values{}, domain.Invalid("body", "malformed JSON")
		}
		return Values{vals: fromJSON(raw)}, nil
	case ct == "multipart/form-data":
		if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
			return Values{}, parseErr(err)
		}
		return Values{vals: c.Request.PostForm, files: c.Request.MultipartForm.File}, nil
	default:
		if err := c.Request.ParseForm(); err != nil {
			return Values{}, parseErr(err)
		}
		return Values{vals: c.Request.PostForm}, nil
	}
}

func parseErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return domain.Invalid("body", "request body too large")
	}
	return domain.Invalid("body", err.Error())
}

func fromJSON(raw map[string]any) url.Values {
	out := url.Values{}
	for k, v := range raw {
		switch t := v.(type) {
		case nil:
		case bool:
			if t {
				out.Set(k, "on")
			}
		case string:
			out.Set(k, t)
		case float64:
			out.Set(k, fmt.Sprint(t))
		default:
			b, _ := json.Marshal(t)
			out.Set(k, string(b))
		}
	}
	return out
}

// Checked implements checkbox semantics: a submitted key is true whatever its value.
func (v Values) Checked(key string) bool {
	_, ok := v.vals[key]
	return ok
}

func (v Values) String(key string) string { return strings.TrimSpace(v.vals.Get(key)) }

// Optional is nil when key was not submitted.
func (v Values) Optional(key string) *string {
	if _, ok := v.vals[key]; !ok {
		return nil
	}
	s := v.vals.Get(key)
	return &s
}

// File returns the uploaded image under key, or nil when none was sent.
// The caller closes the returned closer.
func (v Values) File(key string) (*media.Image, func(), error) {
	fhs := v.files[key]
	if len(fhs) == 0 || fhs[0].Size == 0 {
		return nil, func() {}, nil
	}
	fh := fhs[0]
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, domain.Invalid(key, "unreadable upload")
	}
	return &media.Image{Body: f, Filename: fh.Filename, Size: fh.Size}, func() { _ = f.Close() }, nil
}
