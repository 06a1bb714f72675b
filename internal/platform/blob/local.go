package blob

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on the local filesystem.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory when missing.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob: root directory required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: create root: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes r to key. The file only becomes visible once fully written.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Object, error) {
	target, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("blob: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("blob: create temp: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return Object{}, fmt.Errorf("blob: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("blob: close: %w", err)
	}
	mode := os.FileMode(0o600)
	if opts.Public {
		mode = 0o644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return Object{}, fmt.Errorf("blob: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return Object{}, fmt.Errorf("blob: rename: %w", err)
	}

	obj := Object{Key: key, ContentType: opts.ContentType, Size: size}
	if opts.Public {
		obj.URL = s.baseURL + "/" + escapeKey(key)
	}
	return obj, nil
}

// Handler serves public blobs read-only. Mount it under the base URL prefix.
func (s *LocalStore) Handler(prefix string) http.Handler {
	files := http.StripPrefix(prefix, http.FileServer(http.Dir(s.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}

func (s *LocalStore) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == "." || strings.HasPrefix(cleaned, "../") || cleaned == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), nil
}

// escapeKey escapes each segment of key so the URL path decodes back to key.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

var _ Store = (*LocalStore)(nil)
