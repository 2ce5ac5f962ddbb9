package controllers

import (
	"errors"
	"net/http"

	"github.com/bigfoot-cleaning/bigfoot-api/config"
	"github.com/bigfoot-cleaning/bigfoot-api/middleware"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileRequest represents the request body for creating or updating a profile
type ProfileRequest struct {
	Firstname string `json:"firstname" binding:"required,min=2"`
	Lastname  string `json:"lastname" binding:"required,min=2"`
	State     string `json:"state" binding:"required,min=2"`
	City      string `json:"city" binding:"required,min=2"`
	Zip       string `json:"zip" binding:"required,min=5"`
	Phone     string `json:"phone" binding:"omitempty,min=10"`
}

// CreateProfile handles POST /api/profile/create - creates the caller's profile
func CreateProfile(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var existing models.Profile
	if err := db.Where("user_id = ?", identity.ID).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "PROFILE_EXISTS", "Profile already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, "DATABASE_ERROR", "Failed to check existing profile", err)
		return
	}

	profile := models.Profile{
		UserID:    identity.ID,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		State:     req.State,
		City:      req.City,
		Zip:       req.Zip,
		Phone:     req.Phone,
	}
	if err := db.Create(&profile).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "PROFILE_EXISTS", "Profile already exists")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to create profile", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Profile created successfully",
		"data":    profile,
	})
}

// GetProfile handles GET /api/profile/get - returns the caller's profile
func GetProfile(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	profile, ok := findProfile(c, identity.ID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfile handles PUT /api/profile/put - replaces the caller's profile fields
func UpdateProfile(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	profile, ok := findProfile(c, identity.ID)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"firstname": req.Firstname,
		"lastname":  req.Lastname,
		"state":     req.State,
		"city":      req.City,
		"zip":       req.Zip,
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	db := config.GetDB()
	if err := db.Model(profile).Updates(updates).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to update profile", err)
		return
	}

	// Fetch updated profile to return
	if err := db.First(profile, profile.ID).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch updated profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// findProfile loads the profile of userID, writing a 404 or 500 response when it cannot
func findProfile(c *gin.Context, userID uint) (*models.Profile, bool) {
	var profile models.Profile
	if err := config.GetDB().Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "You don't have a profile yet. Create one first.")
			return nil, false
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch profile", err)
		return nil, false
	}
	return &profile, true
}
