package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 24 * time.Hour

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed structure, wrong algorithm, expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret is returned when no signing secret is configured
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

// SessionClaims is the claim set carried in the session cookie
type SessionClaims struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenService
type TokenConfig struct {
	Secret string
	TTL    time.Duration    // defaults to SessionTTL
	Now    func() time.Time // defaults to time.Now
}

// TokenService signs and verifies HS256 session tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service from cfg
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = SessionTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    cfg.Now,
	}, nil
}

// TTL returns the lifetime given to issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity
func (s *TokenService) Issue(id uint, email string, role models.Role) (string, error) {
	now := s.now()
	claims := SessionClaims{
		ID:    id,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its claims.
// Every failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.ID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
