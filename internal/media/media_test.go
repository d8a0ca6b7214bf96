package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doggy-rescue/internal/domain"
)

// smallest valid PNG header plus IHDR chunk, enough for sniffing
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

func TestLocalUploaderStoresImage(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocal(dir, "/uploads/", 1<<20)
	require.NoError(t, err)

	url, err := u.Upload(context.Background(), Image{Body: bytes.NewReader(pngBytes), Filename: "rex.png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	assert.NoError(t, err)
}

func TestRejectsNonImages(t *testing.T) {
	u, err := NewLocal(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), Image{Body: strings.NewReader("#!/bin/sh\necho hi\n"), Filename: "rex.png"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = u.Upload(context.Background(), Image{Body: strings.NewReader("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRejectsOversizedImages(t *testing.T) {
	u, err := NewLocal(t.TempDir(), "/uploads", 8)
	require.NoError(t, err)
	_, err = u.Upload(context.Background(), Image{Body: bytes.NewReader(pngBytes)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCancelledUploadIsFailure(t *testing.T) {
	u, err := NewLocal(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = u.Upload(ctx, Image{Body: bytes.NewReader(pngBytes)})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}
