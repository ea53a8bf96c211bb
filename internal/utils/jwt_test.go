package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(42, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user_id = %d, want 42", claims.UserID)
	}
	if claims.Purpose != "" || claims.Email != "" {
		t.Errorf("login token carries reset claims: purpose=%q email=%q", claims.Purpose, claims.Email)
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < AccessTokenTTL-time.Minute || remaining > AccessTokenTTL {
		t.Errorf("expiry in %v, want about %v", remaining, AccessTokenTTL)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, testSecret)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestGenerateResetJWT(t *testing.T) {
	token, err := GenerateResetJWT("user@example.com", testSecret)
	if err != nil {
		t.Fatalf("GenerateResetJWT: %v", err)
	}
	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Purpose != PurposeReset {
		t.Errorf("purpose = %q, want %q", claims.Purpose, PurposeReset)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("email = %q, want the bound address", claims.Email)
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining > ResetTokenTTL {
		t.Errorf("reset token expiry in %v, want at most %v", remaining, ResetTokenTTL)
	}
}
