package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/middleware"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/bigfoot-cleaning/bigfoot-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TestTokenSecret signs every token issued by NewTokenService
const TestTokenSecret = "bigfoot-test-secret"

// NewTokenService creates a token service with the shared test secret
func NewTokenService(t *testing.T) *services.TokenService {
	t.Helper()

	tokens, err := services.NewTokenService(services.TokenConfig{Secret: TestTokenSecret})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	return tokens
}

// SessionCookie issues a session token and wraps it in the session cookie
func SessionCookie(t *testing.T, tokens *services.TokenService, id uint, email string, role models.Role) *http.Cookie {
	t.Helper()

	token, err := tokens.Issue(id, email, role)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookieName, Value: token}
}

// MockIdentity is a middleware that authenticates every request as the given identity
func MockIdentity(id uint, email string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, &middleware.Identity{ID: id, Email: email, Role: role})
		c.Next()
	}
}

// CreateUser stores a user with a hashed password
func CreateUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{Username: username, Email: utils.NormalizeEmail(email), PasswordHash: hash, Role: models.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// CreateEmployee stores an employee with a hashed password
func CreateEmployee(t *testing.T, db *gorm.DB, username, email, password string, role models.Role) *models.Employee {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	employee := &models.Employee{
		Username:     username,
		Email:        utils.NormalizeEmail(email),
		PasswordHash: hash,
		Position:     "Crew Lead",
		Role:         role,
		StartDate:    time.Now().UTC().Truncate(24 * time.Hour),
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("Failed to create employee: %v", err)
	}
	return employee
}
