package domain

import "time"

// PaymentMethod Model. CardNumber only ever holds the last 4 digits;
// the full number is truncated at write time and never stored.
type PaymentMethod struct {
	ID             uint      `gorm:"primaryKey" json:"id"`             // Primary key
	UserID         uint      `gorm:"index;not null" json:"user_id"`    // Owner reference
	CardNumber     string    `gorm:"size:4" json:"card_number"`        // Last 4 digits only
	CardType       string    `gorm:"size:20" json:"card_type"`         // Network: visa, mastercard, amex, discover
	CardholderName string    `gorm:"size:100" json:"cardholder_name"`  // Name on card
	ExpiryMonth    int       `json:"expiry_month"`                     // Expiry month 1-12
	ExpiryYear     int       `json:"expiry_year"`                      // Expiry year (four digits)
	IsDefault      bool      `gorm:"default:false" json:"is_default"`  // Default method flag
	IsActive       bool      `json:"is_active"`                        // Soft-delete flag, set explicitly on create
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"` // Creation timestamp
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"` // Last update timestamp
}
