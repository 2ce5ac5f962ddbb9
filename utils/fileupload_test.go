package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="photo"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)

	if len(form.File["photo"]) > 0 {
		fileHeader := form.File["photo"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile(t *testing.T) {
	content := []byte("fake image content")

	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"png accepted", "gutter.png", int64(len(content)), ""},
		{"jpg accepted", "gutter.jpg", int64(len(content)), ""},
		{"jpeg accepted", "gutter.jpeg", int64(len(content)), ""},
		{"uppercase extension accepted", "gutter.PNG", int64(len(content)), ""},
		{"gif rejected", "gutter.gif", int64(len(content)), "INVALID_FILE_FORMAT"},
		{"no extension rejected", "gutter", int64(len(content)), "INVALID_FILE_FORMAT"},
		{"too large rejected", "gutter.png", 11 * 1024 * 1024, "FILE_TOO_LARGE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := createTestFileHeader(tt.filename, tt.size, content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			var fileErr *FileUploadError
			require.ErrorAs(t, err, &fileErr)
			assert.Equal(t, tt.wantCode, fileErr.Code)
		})
	}
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("a.png"))
	assert.Equal(t, "image/jpeg", ImageContentType("a.JPG"))
	assert.Equal(t, "", ImageContentType("a.bmp"))
}

func TestIsSafeFilename(t *testing.T) {
	assert.True(t, IsSafeFilename("quote_1.png"))
	assert.False(t, IsSafeFilename(""))
	assert.False(t, IsSafeFilename("../etc/passwd"))
	assert.False(t, IsSafeFilename("nested/file.png"))
	assert.False(t, IsSafeFilename(`nested\file.png`))
}

func TestSaveUploadedFile(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("house.png", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	dir := filepath.Join(t.TempDir(), "uploads")
	require.NoError(t, SaveUploadedFile(fileHeader, dir, "saved.png"))

	saved, err := os.ReadFile(filepath.Join(dir, "saved.png"))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestSaveUploadedFileRejectsTraversal(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("house.png", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	err := SaveUploadedFile(fileHeader, t.TempDir(), "../escape.png")
	assert.Error(t, err)
}

func TestGetImageURL(t *testing.T) {
	assert.Equal(t, "/api/uploads/a.png", GetImageURL("a.png"))
	assert.Equal(t, "", GetImageURL(""))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
