package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/bigfoot-cleaning/bigfoot-api/models"
	"github.com/bigfoot-cleaning/bigfoot-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

const identityKey = "identity"

// Identity is the caller resolved from a verified session token
type Identity struct {
	ID    uint
	Email string
	Role  models.Role
}

// IsStaff reports whether the caller is an employee or admin
func (i *Identity) IsStaff() bool {
	return i != nil && i.Role.IsStaff()
}

// TokenVerifier verifies session tokens
type TokenVerifier interface {
	Verify(tokenString string) (*services.SessionClaims, error)
}

// Authenticator resolves session cookies into identities
type Authenticator struct {
	tokens   TokenVerifier
	required *jwtmiddleware.JWTMiddleware
	optional *jwtmiddleware.JWTMiddleware
}

// NewAuthenticator creates an authenticator backed by tokens
func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	a := &Authenticator{tokens: tokens}

	a.required = jwtmiddleware.New(
		a.validateToken,
		jwtmiddleware.WithTokenExtractor(cookieTokenExtractor),
		jwtmiddleware.WithErrorHandler(requiredErrorHandler),
	)
	a.optional = jwtmiddleware.New(
		a.validateToken,
		jwtmiddleware.WithTokenExtractor(cookieTokenExtractor),
		jwtmiddleware.WithCredentialsOptional(true),
		jwtmiddleware.WithErrorHandler(optionalErrorHandler),
	)

	return a
}

// validateToken adapts the token service to the jwtmiddleware validator signature
func (a *Authenticator) validateToken(ctx context.Context, token string) (interface{}, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if !claims.Role.Valid() {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

// cookieTokenExtractor reads the session cookie; a missing cookie is not an error
func cookieTokenExtractor(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

func requiredErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	code, message := "INVALID_TOKEN", "Session is invalid or has expired"
	if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
		code, message = "UNAUTHORIZED", "Authentication required"
	} else {
		zap.L().Debug("rejected session token", zap.String("path", r.URL.Path), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, writeErr := w.Write([]byte(`{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`)); writeErr != nil {
		zap.L().Warn("failed to write error response", zap.Error(writeErr))
	}
}

func optionalErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Debug("ignoring invalid session token", zap.String("path", r.URL.Path), zap.Error(err))
}

// RequireSession rejects requests without a valid session cookie with 401
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return a.handler(a.required, false)
}

// OptionalSession resolves the caller when a valid session cookie is present and
// lets every request through; an invalid cookie is treated as anonymous
func (a *Authenticator) OptionalSession() gin.HandlerFunc {
	return a.handler(a.optional, true)
}

func (a *Authenticator) handler(mw *jwtmiddleware.JWTMiddleware, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		proceeded := false
		var next http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			proceeded = true
			c.Request = r
			if claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*services.SessionClaims); ok {
				c.Set(identityKey, identityFromClaims(claims))
			}
			c.Next()
		}

		mw.CheckJWT(next).ServeHTTP(c.Writer, c.Request)

		if proceeded {
			return
		}
		if optional {
			c.Next()
			return
		}
		c.Abort()
	}
}

// Identify resolves the session cookie on r without writing a response.
// It returns nil, nil when no cookie is present.
func (a *Authenticator) Identify(r *http.Request) (*Identity, error) {
	token, err := cookieTokenExtractor(r)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}

	claims, err := a.validateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(claims.(*services.SessionClaims)), nil
}

func identityFromClaims(claims *services.SessionClaims) *Identity {
	return &Identity{ID: claims.ID, Email: claims.Email, Role: claims.Role}
}

// SetIdentity stores identity in the gin context (primarily for testing)
func SetIdentity(c *gin.Context, identity *Identity) {
	c.Set(identityKey, identity)
}

// GetIdentity extracts the authenticated caller from the Gin context
func GetIdentity(c *gin.Context) (*Identity, error) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_IDENTITY", Message: "Identity not found in context"}
	}

	identity, ok := value.(*Identity)
	if !ok || identity == nil {
		return nil, &AuthError{Code: "INVALID_IDENTITY", Message: "Identity is not in the expected format"}
	}

	return identity, nil
}

// OptionalIdentity returns the caller or nil for anonymous requests
func OptionalIdentity(c *gin.Context) *Identity {
	identity, err := GetIdentity(c)
	if err != nil {
		return nil
	}
	return identity
}

// RequireRole is a middleware that admits only callers holding one of roles.
// It must run after RequireSession.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to access this resource",
			},
		})
		c.Abort()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
