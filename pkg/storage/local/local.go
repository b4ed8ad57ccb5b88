package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/farmansunasara/sparehub-b2b-platform/pkg/config"
	"github.com/farmansunasara/sparehub-b2b-platform/pkg/logger"
)

// Client writes uploaded files under a local directory and hands back the
// public URL path they are served from.
type Client struct {
	root    string
	baseURL string
}

// New prepares the upload directory.
func New(ctx context.Context, cfg config.UploadConfig, logg *logger.Logger) (*Client, error) {
	if cfg.Dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "upload_dir", cfg.Dir), "upload storage ready")
	}
	return &Client{root: cfg.Dir, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}, nil
}

// Save streams the reader to disk under the given subdirectory and returns
// the URL path of the stored file. A random prefix keeps names unique.
func (c *Client) Save(ctx context.Context, subdir, filename string, r io.Reader) (string, error) {
	name := sanitizeFilename(filename)
	if name == "" {
		return "", errors.New("filename is required")
	}
	stored := uuid.NewString() + "_" + name

	dir := filepath.Join(c.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload subdirectory: %w", err)
	}

	dest, err := os.Create(filepath.Join(dir, stored))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, r); err != nil {
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	return path.Join(c.baseURL, subdir, stored), nil
}

// Remove deletes a previously stored file by its URL path. Missing files are
// not an error.
func (c *Client) Remove(ctx context.Context, urlPath string) error {
	rel := strings.TrimPrefix(urlPath, c.baseURL)
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || strings.Contains(rel, "..") {
		return errors.New("invalid file path")
	}
	err := os.Remove(filepath.Join(c.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the root directory for static file serving.
func (c *Client) Dir() string {
	return c.root
}

// BaseURL exposes the mount point files are served under.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func sanitizeFilename(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
