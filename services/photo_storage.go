package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/google/uuid"
)

// PhotoStorage stores photos attached to quotes
type PhotoStorage interface {
	// Upload validates and stores an image file, returns the storage key
	Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error)

	// URL returns a URL a browser can load the photo from
	URL(ctx context.Context, key string) (string, error)

	// Delete removes a photo; deleting an empty key is a no-op
	Delete(ctx context.Context, key string) error
}

var photoStorageInstance PhotoStorage

// InitPhotoStorage builds the backend selected by cfg.StorageType and installs it
func InitPhotoStorage(ctx context.Context, cfg *config.Config) (PhotoStorage, error) {
	var (
		storage PhotoStorage
		err     error
	)
	switch cfg.StorageType {
	case "s3":
		storage, err = NewS3PhotoStorage(ctx, cfg)
	case "local", "":
		storage = NewLocalPhotoStorage(cfg.UploadDir)
	default:
		err = fmt.Errorf("unknown storage type: %s", cfg.StorageType)
	}
	if err != nil {
		return nil, err
	}

	photoStorageInstance = storage
	return storage, nil
}

// GetPhotoStorage returns the installed photo storage, nil when none is configured
func GetPhotoStorage() PhotoStorage {
	return photoStorageInstance
}

// SetPhotoStorage sets the photo storage instance (primarily for testing)
func SetPhotoStorage(storage PhotoStorage) {
	photoStorageInstance = storage
}

// newPhotoName returns a collision-free object name keeping the original extension
func newPhotoName(ext string) string {
	return uuid.NewString() + ext
}
