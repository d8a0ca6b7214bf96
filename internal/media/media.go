// Package media stores uploaded dog and profile photos and returns their public URL.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"doggy-rescue/internal/domain"
)

type Image struct {
	Body     io.Reader
	Filename string
	Size     int64
}

type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// readImage buffers the payload and checks its sniffed type, not the
// client-supplied one.
func readImage(img Image, maxSize int64) ([]byte, *mimetype.MIME, error) {
	if img.Body == nil {
		return nil, nil, domain.Invalid("photo", "empty upload")
	}
	if maxSize > 0 && img.Size > maxSize {
		return nil, nil, domain.Invalid("photo", "image too large")
	}
	r := img.Body
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read upload: %v", domain.ErrUploadFailed, err)
	}
	if len(data) == 0 {
		return nil, nil, domain.Invalid("photo", "empty upload")
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, nil, domain.Invalid("photo", "image too large")
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if allowedTypes[m.String()] {
			return data, mt, nil
		}
	}
	return nil, nil, domain.Invalid("photo", "unsupported image type "+mt.String())
}

func uploadFailed(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Unavailable(err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
}

func newReader(b []byte) io.Reader { return bytes.NewReader(b) }
