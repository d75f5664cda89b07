// Package localfs stores uploaded objects on the local filesystem and serves
// them from /uploads/. Default when no Cloudinary URL is configured.
package localfs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Storage struct {
	dir     string
	baseURL string
}

func New(dir, baseURL string) *Storage {
	return &Storage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Storage) Upload(ctx context.Context, bucket, path string, r io.Reader) (string, error) {
	name := sanitize(path)
	dir := filepath.Join(s.dir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return s.baseURL + "/uploads/" + bucket + "/" + name, nil
}

func sanitize(path string) string {
	name := filepath.Base(path)
	name = strings.ReplaceAll(name, " ", "-")
	return name
}
