// Package storage uploads auction images to the backend's file store
// and builds the stable public URLs they are served from.
package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	storage_go "github.com/supabase-community/storage-go"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/config"
)

type Client struct {
	api     *storage_go.Client
	baseURL string
	bucket  string
}

func NewClient(cfg *config.Config) *Client {
	api := storage_go.NewClient(cfg.StorageURL(), cfg.SupabaseAnonKey, nil)
	return &Client{
		api:     api,
		baseURL: cfg.SupabaseURL,
		bucket:  cfg.StorageBucket,
	}
}

// UploadImage stores the image under a fresh object name derived from
// the original filename's extension and returns the stored path.
func (c *Client) UploadImage(name string, data io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	objectName := uuid.New().String() + ext

	_, err := c.api.UploadFile(c.bucket, objectName, data)
	if err != nil {
		return "", auctionerrors.Wrap(auctionerrors.Unknown, err.Error(), err)
	}
	return objectName, nil
}

// PublicURL returns the stable URL an auction image is addressable by,
// keyed by bucket and stored path.
func (c *Client) PublicURL(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path)
}
