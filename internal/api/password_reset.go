package api

import (
	"net/http"                  // HTTP status codes
	"strings"                   // String manipulation
	"travelhub/internal/auth"   // Reset-code store
	"travelhub/internal/domain" // Importing domain models
	"travelhub/internal/utils"  // Token and mail utilities

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// ForgotPasswordRequest asks for a reset code to be mailed
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"` // Account email
}

// VerifyResetCodeRequest redeems a mailed code for a reset-scoped token
type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"` // Account email
	Code  string `json:"code" binding:"required,len=6"`  // 6-digit code
}

// ResetPasswordRequest sets a new password using a reset-scoped token
type ResetPasswordRequest struct {
	ResetToken  string `json:"reset_token" binding:"required"`        // Token from verify-reset-code
	NewPassword string `json:"new_password" binding:"required,min=8"` // New password
}

// ForgotPasswordHandler generates a 6-digit code, stores it with a 5-minute
// expiry and mails it. Unknown emails get the same success response so the
// endpoint cannot be used to probe for accounts.
func ForgotPasswordHandler(db *gorm.DB, store auth.CodeStore, mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		var user domain.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			// No such account; respond as if a code was sent
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the email exists, a reset code has been sent"})
			return
		}
		code, err := auth.GenerateCode() // Random 6-digit code
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate reset code")
			return
		}
		// Store before sending so a delivered code is always redeemable
		if err := store.Put(c.Request.Context(), email, code); err != nil {
			logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("Failed to store reset code")
			fail(c, http.StatusInternalServerError, "Failed to generate reset code")
			return
		}
		if err := mailer.SendResetCode(email, code); err != nil {
			logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("Failed to send reset code")
			fail(c, http.StatusInternalServerError, "Failed to send reset code")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the email exists, a reset code has been sent"})
	}
}

// VerifyResetCodeHandler checks code match and freshness, consumes the code
// and issues a short-lived reset-scoped token bound to the email.
func VerifyResetCodeHandler(store auth.CodeStore, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyResetCodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		ok, err := store.Consume(c.Request.Context(), email, req.Code)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to verify reset code")
			return
		}
		// Expired, already used or mismatched codes all read the same
		if !ok {
			fail(c, http.StatusBadRequest, "Invalid or expired reset code")
			return
		}
		token, err := utils.GenerateResetJWT(email, jwtSecret)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to generate reset token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reset_token": token})
	}
}

// ResetPasswordHandler validates the reset token's binding to the email,
// rehashes and persists the new password.
func ResetPasswordHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			failValidation(c, err)
			return
		}
		claims, err := utils.ParseJWT(req.ResetToken, jwtSecret)
		// Only reset-scoped tokens are accepted here
		if err != nil || claims.Purpose != utils.PurposeReset || claims.Email == "" {
			fail(c, http.StatusUnauthorized, "Invalid or expired reset token")
			return
		}
		var user domain.User
		if err := db.Where("email = ?", claims.Email).First(&user).Error; err != nil {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Failed to hash password")
			return
		}
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			fail(c, http.StatusInternalServerError, "Failed to reset password")
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password reset")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
	}
}
