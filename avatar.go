package main

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStore is the binary object boundary for avatar images: write some
// bytes under a path, get back the URL the frontend can render.
type ObjectStore interface {
	Upload(ctx context.Context, name string, data []byte) (publicURL string, err error)
}

// fsObjectStore keeps uploads on local disk under a directory the router
// serves at /uploads/.
type fsObjectStore struct {
	dir     string
	baseURL string
}

func NewFSObjectStore(dir, baseURL string) (ObjectStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &fsObjectStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *fsObjectStore) Upload(ctx context.Context, name string, data []byte) (string, error) {
	// Normalize and refuse anything that would escape the upload dir.
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if clean == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", validationErr("bad upload path %q", name)
	}
	dst := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload subdir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.baseURL + "/uploads/" + clean, nil
}
