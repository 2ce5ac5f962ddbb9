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

// GetCurrentUser handles GET /api/user - returns the caller's user record with its profile
func GetCurrentUser(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Preload("Profile").First(&user, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetCurrentEmployee handles GET /api/employee - returns the caller's employee record
func GetCurrentEmployee(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract employee information")
		return
	}

	db := config.GetDB()
	var employee models.Employee
	if err := db.First(&employee, identity.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "EMPLOYEE_NOT_FOUND", "Employee not found")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to fetch employee", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    employee,
	})
}
