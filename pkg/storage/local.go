package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFilename = errors.New("invalid filename")
)

// FileStore keeps prompt attachments.
type FileStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Delete(filename string) error
	Path(filename string) (string, error)
}

// LocalStorage writes attachments into a single flat directory served under /uploads.
type LocalStorage struct {
	dir      string
	maxBytes int64
}

func NewLocalStorage(dir string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalStorage{dir: dir, maxBytes: maxBytes}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save stores the upload as <uuid><ext> and returns that name.
func (s *LocalStorage) Save(file *multipart.FileHeader) (string, error) {
	if s.maxBytes > 0 && file.Size > s.maxBytes {
		return "", fmt.Errorf("%w (max %d bytes)", ErrFileTooLarge, s.maxBytes)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(filepath.Base(file.Filename)))
	filename := uuid.NewString() + ext
	dstPath := filepath.Join(s.dir, filename)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", err
	}
	return filename, nil
}

// Delete removes an attachment. A file that is already gone is not an error.
func (s *LocalStorage) Delete(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Path resolves a stored name inside the upload dir. Anything that is not a bare
// file name is rejected.
func (s *LocalStorage) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || filename == "." || filename == ".." {
		return "", ErrInvalidFilename
	}
	return filepath.Join(s.dir, filename), nil
}
