package media

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"doggy-rescue/internal/domain"
)

type CloudinaryUploader struct {
	cld     *cloudinary.Cloudinary
	Folder  string
	Timeout time.Duration
	MaxSize int64
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string, timeout time.Duration, maxSize int64) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, Folder: folder, Timeout: timeout, MaxSize: maxSize}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, img Image) (string, error) {
	data, _, err := readImage(img, u.MaxSize)
	if err != nil {
		return "", err
	}
	if u.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.Timeout)
		defer cancel()
	}
	res, err := u.cld.Upload.Upload(ctx, newReader(data), uploader.UploadParams{Folder: u.Folder})
	if err != nil {
		return "", uploadFailed(ctx, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", domain.ErrUploadFailed, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: empty url", domain.ErrUploadFailed)
	}
	return res.SecureURL, nil
}
