package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/middleware"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/bigfoot-cleaning/bigfoot-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UploadQuotePhoto handles POST /api/quote/photo?id= - attaches a photo to a quote.
// Users may only attach photos to their own quotes; staff may attach to any.
func UploadQuotePhoto(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	quoteID, ok := quoteIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var quote models.Quote
	if err := db.First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "QUOTE_NOT_FOUND", "Quote not found")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch quote", err)
		return
	}

	if !identity.IsStaff() && (quote.UserID == nil || *quote.UserID != identity.ID) {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "You can only add photos to your own quotes")
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "A photo file is required in the 'photo' field")
		return
	}

	storage := services.GetPhotoStorage()
	if storage == nil {
		respondInternalError(c, "STORAGE_UNAVAILABLE", "Photo storage is not configured", errors.New("no photo storage installed"))
		return
	}

	key, err := storage.Upload(c.Request.Context(), fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		respondInternalError(c, "UPLOAD_FAILED", "Failed to store photo", err)
		return
	}

	previous := quote.PhotoKey
	if err := db.Model(&quote).Update("photo_key", key).Error; err != nil {
		if delErr := storage.Delete(c.Request.Context(), key); delErr != nil {
			zap.L().Warn("failed to remove orphaned photo", zap.String("key", key), zap.Error(delErr))
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to attach photo", err)
		return
	}
	quote.PhotoKey = &key

	if previous != nil && *previous != key {
		if err := storage.Delete(c.Request.Context(), *previous); err != nil {
			zap.L().Warn("failed to delete replaced photo", zap.Uint("quote_id", quote.ID), zap.Error(err))
		}
	}

	attachPhotoURL(c.Request.Context(), storage, &quote)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quote,
	})
}

// GetUploadedImage handles GET /api/uploads/:filename - serves locally stored quote photos
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	// Security: Prevent directory traversal attacks
	if !utils.IsSafeFilename(filename) {
		respondError(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType := utils.ImageContentType(filename)
	if contentType == "" {
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only PNG and JPEG files are supported")
		return
	}

	local, ok := services.GetPhotoStorage().(*services.LocalPhotoStorage)
	if !ok {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	filePath := filepath.Join(local.Dir(), filename)
	if _, err := os.Stat(filePath); err != nil {
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
