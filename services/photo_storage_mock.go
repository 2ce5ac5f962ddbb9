package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/bigfoot-cleaning/bigfoot-api/utils"
)

// MockPhotoStorage is an in-memory PhotoStorage for testing
type MockPhotoStorage struct {
	photos map[string][]byte // map of storage key to file content
	mu     sync.RWMutex
}

// NewMockPhotoStorage creates a new mock photo storage
func NewMockPhotoStorage() *MockPhotoStorage {
	return &MockPhotoStorage{
		photos: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global photo storage instance for testing
func (m *MockPhotoStorage) SetAsMockForTesting() {
	SetPhotoStorage(m)
}

// Upload simulates storing a photo
func (m *MockPhotoStorage) Upload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("quotes/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.photos[key] = content
	m.mu.Unlock()

	return key, nil
}

// URL returns a fake URL for a stored photo
func (m *MockPhotoStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.photos[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("photo not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://photos.test/%s?mock=true", key), nil
}

// Delete simulates removing a photo
func (m *MockPhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.photos, key)
	m.mu.Unlock()

	return nil
}

// Exists checks if a photo exists in mock storage
func (m *MockPhotoStorage) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.photos[key]
	return exists
}

// Count returns the number of stored photos
func (m *MockPhotoStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.photos)
}
