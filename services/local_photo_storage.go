package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/bigfoot-cleaning/bigfoot-api/utils"
)

// LocalPhotoStorage keeps quote photos on the local filesystem, served by GET /api/uploads/:filename
type LocalPhotoStorage struct {
	dir string
}

// NewLocalPhotoStorage creates a storage rooted at dir
func NewLocalPhotoStorage(dir string) *LocalPhotoStorage {
	return &LocalPhotoStorage{dir: dir}
}

// Dir returns the directory photos are written to
func (s *LocalPhotoStorage) Dir() string {
	return s.dir
}

func (s *LocalPhotoStorage) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	name := newPhotoName(utils.ImageExtension(fileHeader.Filename))
	if err := utils.SaveUploadedFile(fileHeader, s.dir, name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *LocalPhotoStorage) URL(ctx context.Context, key string) (string, error) {
	return utils.GetImageURL(key), nil
}

func (s *LocalPhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if !utils.IsSafeFilename(key) {
		return fmt.Errorf("invalid photo key %q", key)
	}

	err := os.Remove(filepath.Join(s.dir, key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
