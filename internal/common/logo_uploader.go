package common

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var logoExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// DiskLogoUploader writes clan logos under dir and serves them from baseURL.
type DiskLogoUploader struct {
	dir     string
	baseURL string
}

func NewDiskLogoUploader(dir, baseURL string) *DiskLogoUploader {
	return &DiskLogoUploader{dir: dir, baseURL: baseURL}
}

// Upload stores the image under a fresh name so cached URLs never point at new bytes.
func (u *DiskLogoUploader) Upload(ctx context.Context, clanID, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, ok := logoExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported logo content type %q", contentType)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create logo dir: %w", err)
	}

	name := clanID + "-" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write logo: %w", err)
	}
	return u.urlPrefix() + name, nil
}

// Delete removes a logo previously returned by Upload. A missing file is not an error.
func (u *DiskLogoUploader) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimPrefix(url, u.urlPrefix())
	if name == url || name == "" || path.Base(name) != name {
		return fmt.Errorf("logo %q was not issued by this uploader", url)
	}

	if err := os.Remove(filepath.Join(u.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove logo: %w", err)
	}
	return nil
}

func (u *DiskLogoUploader) urlPrefix() string {
	return strings.TrimSuffix(u.baseURL, "/") + "/"
}
