package api

import (
	"errors"
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/go-playground/validator/v10" // Binding validation errors
)

// fieldError is a single field-level validation failure
type fieldError struct {
	Field   string `json:"field"`   // Offending field
	Message string `json:"message"` // Human-readable message
}

// fail writes a failure envelope with the given status and message
func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// failValidation writes a 400 with a field-level error array. Binding errors
// from gin carry validator.ValidationErrors; anything else becomes a single
// generic entry.
func failValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Validation failed", "errors": out})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "errors": []fieldError{{Field: "body", Message: err.Error()}}})
}

// validationMessage maps common validator tags to readable messages
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "is too short (minimum " + fe.Param() + ")"
	case "max":
		return "is too long (maximum " + fe.Param() + ")"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
