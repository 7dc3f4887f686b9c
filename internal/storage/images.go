// Package storage stores uploaded post images on the local filesystem.
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

var allowedExtensions = map[string]bool{
	".gif":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".webp": true,
}

// ErrUnsupportedImage is returned for uploads with an extension outside
// the allow-list.
var ErrUnsupportedImage = fmt.Errorf("storage: unsupported image type")

// ImageStore writes uploads under Dir and hands back the relative path
// stored on the post. Files are served from the media route.
type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "posts"), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create media dir: %w", err)
	}
	return &ImageStore{Dir: dir}, nil
}

// Save copies the uploaded file into the media dir under a fresh name.
func (s *ImageStore) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	rel := filepath.Join("posts", uuid.New().String()+ext)
	dst, err := os.Create(filepath.Join(s.Dir, rel))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
