package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Token lifetimes
const (
	AccessTokenTTL = 30 * 24 * time.Hour // Login tokens are valid for 30 days
	ResetTokenTTL  = 15 * time.Minute    // Reset-scoped tokens are short-lived
)

// PurposeReset marks a token as usable only for password resets
const PurposeReset = "password_reset"

// JWT Claims
type Claims struct {
	UserID               uint   `json:"user_id"`           // Custom claim for user ID
	Email                string `json:"email,omitempty"`   // Bound email, reset tokens only
	Purpose              string `json:"purpose,omitempty"` // Token purpose, empty for login tokens
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateJWT creates a login token carrying only the user ID and a fixed expiry
func GenerateJWT(userID uint, secret string) (string, error) {
	// Set token claims
	claims := Claims{
		UserID: userID, // Custom claim for user ID
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)), // Fixed 30-day expiry
			IssuedAt:  jwt.NewNumericDate(time.Now()),                     // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// GenerateResetJWT creates a short-lived token bound to an email address,
// accepted only by the reset-password endpoint.
func GenerateResetJWT(email, secret string) (string, error) {
	claims := Claims{
		Email:   email,        // Bind the token to the verified email
		Purpose: PurposeReset, // Scope it to password resets
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ResetTokenTTL)), // 15-minute expiry
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
