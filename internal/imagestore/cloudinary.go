package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"campus-event-portal/config"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStore 活動圖片的外部儲存，回傳可公開存取的 URL 作為 imageRef
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader) (string, error)
	Delete(ctx context.Context, imageRef string) error
}

const (
	uploadTimeout = 60 * time.Second
	deleteTimeout = 30 * time.Second
)

type CloudinaryImageStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryImageStore(cfg config.CloudinaryConfig) (ImageStore, error) {
	if !cfg.Enabled() {
		return nil, apperrors.ErrImageStoreUnavailable
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryImageStore{cld: cld, folder: cfg.Folder}, nil
}

func (s *CloudinaryImageStore) Upload(ctx context.Context, file io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload: %w", apperrors.ErrImageStoreUnavailable, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: upload: %s", apperrors.ErrImageStoreUnavailable, resp.Error.Message)
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryImageStore) Delete(ctx context.Context, imageRef string) error {
	publicID, err := ExtractPublicID(imageRef)
	if err != nil {
		return fmt.Errorf("extract public id: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("%w: destroy: %w", apperrors.ErrImageStoreUnavailable, err)
	}
	return nil
}

// ExtractPublicID
//
//	https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg -> events/abc123
func ExtractPublicID(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(parts)-1 {
		return "", fmt.Errorf("invalid cloudinary URL: %s", imageURL)
	}

	rest := parts[idx+1:]
	if len(rest) > 1 && isVersionSegment(rest[0]) {
		rest = rest[1:]
	}

	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	return strings.Join(rest, "/"), nil
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
