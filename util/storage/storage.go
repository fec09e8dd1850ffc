// Package storage writes uploaded listing images to the local uploads
// directory served statically under /uploads. Files are flushed to disk
// before the database row referencing them is inserted.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedType is returned for anything that is not a PNG or JPEG.
var ErrUnsupportedType = errors.New("unsupported image type")

type Store struct {
	dir string
}

// New ensures the upload directory exists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// ValidateImage checks extension and sniffed content of an upload without
// writing anything, so a bad file rejects the whole request before any
// bytes land on disk.
func ValidateImage(fh *multipart.FileHeader) error {
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".png", ".jpg", ".jpeg":
	default:
		return ErrUnsupportedType
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return err
	}
	switch http.DetectContentType(head[:n]) {
	case "image/png", "image/jpeg":
		return nil
	}
	return ErrUnsupportedType
}

// SaveImage writes the upload under a timestamped name and returns the
// public path stored in the listing row (e.g. "uploads/1712345.png").
// The file is synced before returning so the row never references
// bytes that are not durable yet.
func (s *Store) SaveImage(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Sync(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return path.Join("uploads", name), nil
}

// Remove deletes a previously saved image, used to clean up when the
// insert referencing it fails. Best effort.
func (s *Store) Remove(publicPath string) {
	os.Remove(filepath.Join(s.dir, path.Base(publicPath)))
}
