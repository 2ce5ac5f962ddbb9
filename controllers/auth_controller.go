package controllers

import (
	"errors"
	"net/http"
	"time"

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

// SignUpRequest represents the request body for creating a user account
type SignUpRequest struct {
	Username string `json:"username" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// EmployeeSignUpRequest represents the request body for creating an employee account
type EmployeeSignUpRequest struct {
	Username  string `json:"username" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Position  string `json:"position" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=EMPLOYEE ADMIN"`
	StartDate string `json:"startDate" binding:"required"` // e.g. "2024-07-07"
}

// LoginRequest represents the request body for user and employee login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthController issues and clears session cookies
type AuthController struct {
	tokens        *services.TokenService
	secureCookies bool
}

// NewAuthController creates an AuthController; secureCookies should be set in production
func NewAuthController(tokens *services.TokenService, secureCookies bool) *AuthController {
	return &AuthController{tokens: tokens, secureCookies: secureCookies}
}

func (a *AuthController) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(a.tokens.TTL().Seconds()), "/", "", a.secureCookies, true)
}

func (a *AuthController) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", a.secureCookies, true)
}

// SignUp handles POST /api/signup - creates a user account
func (a *AuthController) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	email := utils.NormalizeEmail(req.Email)
	db := config.GetDB()

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "USER_EXISTS", "User already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, "DATABASE_ERROR", "Failed to check existing user", err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondInternalError(c, "INTERNAL_ERROR", "Failed to hash password", err)
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "USER_EXISTS", "User already exists")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to create user", err)
		return
	}

	zap.L().Info("user signed up", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User created successfully",
		"data":    user,
	})
}

// Login handles POST /api/login - verifies credentials and sets the session cookie
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordLogin("user", "unknown_account")
			respondError(c, http.StatusBadRequest, "USER_NOT_FOUND", "User does not exist")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to look up user", err)
		return
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		metrics.RecordLogin("user", "invalid_password")
		respondError(c, http.StatusBadRequest, "INVALID_PASSWORD", "Invalid password")
		return
	}

	token, err := a.tokens.Issue(user.ID, user.Email, models.RoleUser)
	if err != nil {
		respondInternalError(c, "INTERNAL_ERROR", "Failed to issue session", err)
		return
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"is_online":     true,
		"last_login_at": time.Now(),
	}).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to record login", err)
		return
	}
	syncOnlineUsers(db)

	metrics.RecordLogin("user", "success")
	a.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"username": user.Username,
		"email":    user.Email,
	})
}

// EmployeeSignUp handles POST /api/employeeSignUp - creates an employee account.
// Callers need an ADMIN session once any employee exists.
func (a *AuthController) EmployeeSignUp(c *gin.Context) {
	var req EmployeeSignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	if !authorizeEmployeeSignUp(c, db, models.Role(req.Role)) {
		return
	}

	startDate, err := utils.ParseFormDate(req.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_DATE", "startDate is not a valid date")
		return
	}

	email := utils.NormalizeEmail(req.Email)

	var existing models.Employee
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "EMPLOYEE_EXISTS", "Employee already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondInternalError(c, "DATABASE_ERROR", "Failed to check existing employee", err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondInternalError(c, "INTERNAL_ERROR", "Failed to hash password", err)
		return
	}

	employee := models.Employee{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Position:     req.Position,
		Role:         models.Role(req.Role),
		StartDate:    startDate,
	}
	if err := db.Create(&employee).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, http.StatusBadRequest, "EMPLOYEE_EXISTS", "Employee already exists")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to create employee", err)
		return
	}

	zap.L().Info("employee signed up", zap.Uint("employee_id", employee.ID), zap.String("role", string(employee.Role)))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Employee created successfully",
		"data":    employee,
	})
}

func syncOnlineUsers(db *gorm.DB) {
	if err := metrics.SyncOnlineUsers(db); err != nil {
		zap.L().Warn("failed to refresh online user gauge", zap.Error(err))
	}
}

// authorizeEmployeeSignUp lets an ADMIN session create employee accounts.
// Without a session, only the first account may be created and it must be an ADMIN.
func authorizeEmployeeSignUp(c *gin.Context, db *gorm.DB, role models.Role) bool {
	if identity := middleware.OptionalIdentity(c); identity != nil {
		if identity.Role == models.RoleAdmin {
			return true
		}
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only admins can create employee accounts")
		return false
	}

	var count int64
	if err := db.Model(&models.Employee{}).Count(&count).Error; err != nil {
		respondInternalError(c, "DATABASE_ERROR", "Failed to check existing employees", err)
		return false
	}
	if count > 0 {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "An admin session is required to create employee accounts")
		return false
	}
	if role != models.RoleAdmin {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "The first employee account must be an ADMIN")
		return false
	}

	zap.L().Info("bootstrapping first admin account")
	return true
}

// EmployeeLogin handles POST /api/employeeLogin - verifies employee credentials and sets the session cookie
func (a *AuthController) EmployeeLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var employee models.Employee
	if err := db.Where("email = ?", utils.NormalizeEmail(req.Email)).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.RecordLogin("employee", "unknown_account")
			respondError(c, http.StatusBadRequest, "EMPLOYEE_NOT_FOUND", "Employee does not exist")
			return
		}
		respondInternalError(c, "DATABASE_ERROR", "Failed to look up employee", err)
		return
	}

	if !utils.CheckPassword(req.Password, employee.PasswordHash) {
		metrics.RecordLogin("employee", "invalid_password")
		respondError(c, http.StatusBadRequest, "INVALID_PASSWORD", "Invalid password")
		return
	}

	token, err := a.tokens.Issue(employee.ID, employee.Email, employee.Role)
	if err != nil {
		respondInternalError(c, "INTERNAL_ERROR", "Failed to issue session", err)
		return
	}

	metrics.RecordLogin("employee", "success")
	a.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Login successful",
		"username": employee.Username,
		"email":    employee.Email,
		"role":     employee.Role,
	})
}

// Logout handles POST/DELETE /api/logout - clears the session cookie and the user's online flag
func (a *AuthController) Logout(c *gin.Context) {
	if identity := middleware.OptionalIdentity(c); identity != nil && identity.Role == models.RoleUser {
		db := config.GetDB()
		result := db.Model(&models.User{}).
			Where("id = ? AND is_online = ?", identity.ID, true).
			Update("is_online", false)
		if result.Error != nil {
			zap.L().Warn("failed to clear online flag", zap.Uint("user_id", identity.ID), zap.Error(result.Error))
		} else if result.RowsAffected > 0 {
			syncOnlineUsers(db)
		}
	}

	a.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}
