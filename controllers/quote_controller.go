package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/metrics"
	"github.com/bigfoot-cleaning/bigfoot-api/middleware"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/bigfoot-cleaning/bigfoot-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateQuoteRequest represents the request body of the quote form
type CreateQuoteRequest struct {
	FullName          string  `json:"fullName" binding:"required,min=2"`
	Email             string  `json:"email" binding:"required,email"`
	Phone             string  `json:"phone" binding:"required,min=10"`
	Address           string  `json:"address" binding:"required,min=5"`
	Zip               string  `json:"zip" binding:"required,min=5"`
	ServiceType       string  `json:"serviceType" binding:"required,min=3"`
	PreferredDate     string  `json:"preferredDate" binding:"required"`
	AdditionalDetails *string `json:"additionalDetails"`
}

// CreateQuote handles POST /api/quote/create - stores a quote for a signed-in user or a guest
func CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	preferredDate, err := utils.ParseFormDate(req.PreferredDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE", "preferredDate is not a valid date")
		return
	}

	quote := models.Quote{
		FullName:          req.FullName,
		Email:             utils.NormalizeEmail(req.Email),
		Phone:             req.Phone,
		Address:           req.Address,
		Zip:               req.Zip,
		ServiceType:       req.ServiceType,
		PreferredDate:     preferredDate,
		AdditionalDetails: req.AdditionalDetails,
	}

	db := config.GetDB()
	if identity := middleware.OptionalIdentity(c); identity != nil && identity.Role == models.RoleUser {
		userID := identity.ID
		quote.UserID = &userID
	} else {
		guest, err := resolveGuest(db, quote.Email, req.FullName)
		if err != nil {
			respondInternalError(c, "DATABASE_ERROR", "Failed to resolve guest", err)
			return
		}
		quote.GuestID = &guest.ID
	}

	if err := db.Create(&quote).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to create quote", err)
		return
	}

	metrics.RecordQuoteSubmitted(quote.OwnerKind())
	if err := services.GetNotifier().QuoteSubmitted(c.Request.Context(), &quote); err != nil {
		zap.L().Warn("failed to publish quote event", zap.Uint("quote_id", quote.ID), zap.Error(err))
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    quote,
	})
}

// resolveGuest returns the guest for email, creating it on first use. When a
// concurrent request creates the same guest first, the unique index rejects
// our insert and the winning row is returned instead.
func resolveGuest(db *gorm.DB, email, name string) (*models.Guest, error) {
	var guest models.Guest
	err := db.Where("email = ?", email).First(&guest).Error
	if err == nil {
		return &guest, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest = models.Guest{Email: email, Name: name}
	if err := db.Create(&guest).Error; err != nil {
		if !isUniqueViolation(err) {
			return nil, err
		}
		var existing models.Guest
		if err := db.Where("email = ?", email).First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	return &guest, nil
}

// ListQuotes handles GET /api/quote/get.
// Staff sessions see every quote, user sessions see their own, and anonymous
// callers look up guest quotes with ?email=.
func ListQuotes(c *gin.Context) {
	db := config.GetDB()
	quotes := []models.Quote{}
	identity := middleware.OptionalIdentity(c)

	switch {
	case identity.IsStaff():
		if err := db.Preload("User").Preload("Guest").Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
			respondInternalError(c, "DATABASE_ERROR", "Failed to fetch quotes", err)
			return
		}
	case identity != nil:
		if err := db.Where("user_id = ?", identity.ID).Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
			respondInternalError(c, "DATABASE_ERROR", "Failed to fetch quotes", err)
			return
		}
	default:
		email := utils.NormalizeEmail(c.Query("email"))
		if email == "" {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email is required")
			return
		}

		var guest models.Guest
		if err := db.Where("email = ?", email).First(&guest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, http.StatusNotFound, "GUEST_NOT_FOUND", "No records found for this email")
				return
			}
			respondInternalError(c, "DATABASE_ERROR", "Failed to fetch guest", err)
			return
		}
		if err := db.Where("guest_id = ?", guest.ID).Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
			respondInternalError(c, "DATABASE_ERROR", "Failed to fetch quotes", err)
			return
		}
	}

	attachPhotoURLs(c.Request.Context(), quotes)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    quotes,
		"count":   len(quotes),
	})
}

// DeleteQuote handles DELETE /api/quote/delete?id= - removes a quote (staff only)
func DeleteQuote(c *gin.Context) {
	quoteID, ok := quoteIDParam(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var quote models.Quote
	if err := db.Preload("User").Preload("Guest").First(&quote, quoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "QUOTE_NOT_FOUND", "Quote not found")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch quote", err)
		return
	}

	if err := db.Delete(&quote).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to delete quote", err)
		return
	}

	if quote.PhotoKey != nil {
		if storage := services.GetPhotoStorage(); storage != nil {
			if err := storage.Delete(c.Request.Context(), *quote.PhotoKey); err != nil {
				zap.L().Warn("failed to delete quote photo", zap.Uint("quote_id", quote.ID), zap.Error(err))
			}
		}
		quote.PhotoKey = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Quote deleted successfully",
		"data":    quote,
	})
}

// quoteIDParam parses the id query parameter, writing a 400 response when it is missing or malformed
func quoteIDParam(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing quote id")
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid quote id")
		return 0, false
	}
	return uint(id), true
}

// attachPhotoURLs fills PhotoURL for quotes that carry a photo
func attachPhotoURLs(ctx context.Context, quotes []models.Quote) {
	storage := services.GetPhotoStorage()
	if storage == nil {
		return
	}
	for i := range quotes {
		attachPhotoURL(ctx, storage, &quotes[i])
	}
}

func attachPhotoURL(ctx context.Context, storage services.PhotoStorage, quote *models.Quote) {
	if quote.PhotoKey == nil {
		return
	}
	url, err := storage.URL(ctx, *quote.PhotoKey)
	if err != nil {
		zap.L().Warn("failed to build photo url", zap.Uint("quote_id", quote.ID), zap.Error(err))
		return
	}
	quote.PhotoURL = &url
}
