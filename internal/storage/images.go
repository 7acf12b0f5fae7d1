package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrDisallowedExtension = errors.New("file extension not allowed")
	ErrEmptyFilename       = errors.New("empty filename")
)

// allowedExtensions is the image upload allowlist.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ImageStore saves uploaded product images under a single directory.
type ImageStore struct {
	dir string
}

// NewImageStore creates the upload directory if needed and returns a store
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory the store writes into
func (s *ImageStore) Dir() string {
	return s.dir
}

// Allowed reports whether the filename carries an allowlisted image
// extension (png, jpg, jpeg, gif, webp).
func Allowed(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Sanitize strips any path components and unsafe characters from an
// uploaded filename.
func Sanitize(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	return unsafeChars.ReplaceAllString(filename, "_")
}

// Save writes an uploaded image and returns the stored filename.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", ErrDisallowedExtension
	}

	name := Sanitize(filename)
	if name == "" || name == "." {
		return "", ErrEmptyFilename
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return name, nil
}
