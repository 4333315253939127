package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskLogoUploader_Upload(t *testing.T) {
	dir := t.TempDir()
	u := NewDiskLogoUploader(dir, "/static/logos")

	url, err := u.Upload(context.Background(), "clan-1", "image/png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/static/logos/clan-1-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestDiskLogoUploader_Delete(t *testing.T) {
	dir := t.TempDir()
	u := NewDiskLogoUploader(dir, "/static/logos/")
	ctx := context.Background()

	url, err := u.Upload(ctx, "clan-1", "image/webp", []byte("webp"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/logos/clan-1-"))

	require.NoError(t, u.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, u.Delete(ctx, url))

	assert.Error(t, u.Delete(ctx, "/elsewhere/clan-1.png"))
	assert.Error(t, u.Delete(ctx, "/static/logos/../secrets.png"))
}

func TestDiskLogoUploader_RejectsUnknownType(t *testing.T) {
	u := NewDiskLogoUploader(t.TempDir(), "/static/logos")

	_, err := u.Upload(context.Background(), "clan-1", "image/gif", []byte("gif"))
	assert.Error(t, err)
}
