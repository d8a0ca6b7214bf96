package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalUploader writes images under Dir and serves them from BaseURL.
type LocalUploader struct {
	Dir     string
	BaseURL string
	MaxSize int64
}

func NewLocal(dir, baseURL string, maxSize int64) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/"), MaxSize: maxSize}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, img Image) (string, error) {
	data, mt, err := readImage(img, u.MaxSize)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", uploadFailed(ctx, err)
	}
	name := uuid.NewString() + mt.Extension()
	if err := os.WriteFile(filepath.Join(u.Dir, name), data, 0o644); err != nil {
		return "", uploadFailed(ctx, err)
	}
	return u.BaseURL + "/" + name, nil
}
