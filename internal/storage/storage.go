// Package storage persists uploaded images on the local filesystem and builds
// the public URLs under which they are served.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxUploadBytes bounds a single image upload.
const maxUploadBytes = 2 << 20

// Store writes uploaded files into a directory and resolves their URLs.
type Store struct {
	dir     string
	baseURL string
}

// New creates the upload directory if needed and returns a Store.
func New(dir, baseURL string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes one multipart file under a random name and returns the stored
// filename. The original filename only contributes its extension.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxUploadBytes {
		return "", fmt.Errorf("the file is too large")
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return name, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// URL resolves a stored filename to its public URL. An empty name resolves to
// nil, which renders as JSON null in the views.
func (s *Store) URL(name string) *string {
	if name == "" {
		return nil
	}
	url := s.baseURL + "/uploads/" + name
	return &url
}
