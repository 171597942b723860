// Package objects stores uploaded files on the local filesystem and serves them under a public base URL.
package objects

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

var ErrInvalidKey = errors.New("invalid object key")

// FileSystemStore keeps objects as files below a base directory.
type FileSystemStore struct {
	basedir string
	baseURL string
}

// NewFileSystemStore creates basedir when missing.
func NewFileSystemStore(basedir, baseURL string) (*FileSystemStore, error) {
	if err := os.MkdirAll(basedir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir all: %w", err)
	}
	return &FileSystemStore{
		basedir: basedir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Dir returns the base directory, for serving files over HTTP.
func (s *FileSystemStore) Dir() string {
	return s.basedir
}

func (s *FileSystemStore) filename(key string) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if key == "" || clean != key || strings.HasPrefix(key, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.basedir, filepath.FromSlash(clean)), nil
}

// Put writes data under key and refuses to overwrite an existing object.
func (s *FileSystemStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("mkdir all: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return core.ErrObjectExists
		}
		return fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	if n, err := file.Write(data); err != nil {
		_ = os.Remove(filename)
		return fmt.Errorf("write: %w", err)
	} else if n != len(data) {
		_ = os.Remove(filename)
		return fmt.Errorf("write: expected %d bytes, wrote %d", len(data), n)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Delete removes the object; a missing object is not an error.
func (s *FileSystemStore) Delete(ctx context.Context, key string) error {
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func (s *FileSystemStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL takes the last two path segments of a public URL, the avatar folder and file name.
func (s *FileSystemStore) KeyFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, rawURL)
	}
	key := strings.Join(parts[len(parts)-2:], "/")
	if _, err := s.filename(key); err != nil {
		return "", err
	}
	return key, nil
}
