// Package storage keeps attachment files on an afero filesystem
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/securitylessons/backend/internal/models"
	"github.com/spf13/afero"
)

// ErrInvalidKey is returned for keys that are absolute or escape the storage root
var ErrInvalidKey = errors.New("invalid storage key")

// fileStorage stores files under slash separated keys
type fileStorage struct {
	fs afero.Fs
}

// NewStorage creates a storage on top of any afero filesystem
func NewStorage(fs afero.Fs) *fileStorage {
	return &fileStorage{fs: fs}
}

// NewLocalStorage creates a storage rooted at a directory of the local filesystem
func NewLocalStorage(root string) (*fileStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return NewStorage(afero.NewBasePathFs(afero.NewOsFs(), root)), nil
}

// Fs returns the underlying filesystem
func (s *fileStorage) Fs() afero.Fs {
	return s.fs
}

// Save writes the content of r under key and returns the number of bytes written
func (s *fileStorage) Save(key string, r io.Reader) (int64, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return 0, err
	}

	if err := s.fs.MkdirAll(path.Dir(clean), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := s.fs.Create(clean)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		return n, fmt.Errorf("failed to write file: %w", err)
	}
	return n, nil
}

// Open opens the file stored under key. Missing files are reported as models.ErrNotFound.
func (s *fileStorage) Open(key string) (afero.File, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(clean)
	if errors.Is(err, os.ErrNotExist) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, models.ErrNotFound
	}

	return f, nil
}

// Exists reports whether a file is stored under key
func (s *fileStorage) Exists(key string) (bool, error) {
	clean, err := CleanKey(key)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, clean)
}

// Delete removes the file stored under key
func (s *fileStorage) Delete(key string) error {
	clean, err := CleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// CleanKey normalizes a key and rejects absolute keys and keys that leave the storage root
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}

	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// DocumentKey builds the storage key of an attachment of record parentID.
// Predictable keys keep the uploaded filename (<prefix>/<parentID>/<filename>);
// otherwise the filename is replaced by a random UUID keeping the extension.
func DocumentKey(prefix string, parentID int, filename string, predictable bool) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if !predictable {
		name = GenerateFileName(filepath.Ext(name))
	}
	return path.Join(prefix, strconv.Itoa(parentID), name)
}

// GenerateFileName generates a new file name based on the file extension
// It creates a UUID-based filename with the provided extension
func GenerateFileName(extension string) string {
	newUUID := uuid.New().String()
	// Ensure extension starts with a dot if it doesn't already
	if extension != "" && extension[0] != '.' {
		return newUUID + "." + extension
	}
	return newUUID + extension
}
