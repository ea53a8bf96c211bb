package domain

import "time"

// Hotel booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusFailed    = "failed"
)

// ValidBookingStatus reports whether s is one of the known booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusFailed:
		return true
	}
	return false
}

// HotelBooking Model. Stores a snapshot of the hotel offer at booking time
// plus guest and payment details. Status is set directly by API callers.
type HotelBooking struct {
	ID              uint      `gorm:"primaryKey" json:"id"`                           // Primary key
	UserID          uint      `gorm:"index;not null" json:"user_id"`                  // Owner reference
	Reference       string    `gorm:"size:20;uniqueIndex;not null" json:"reference"`  // Unique booking reference
	HotelName       string    `gorm:"size:200;not null" json:"hotel_name"`            // Hotel name snapshot
	Location        string    `gorm:"size:200" json:"location"`                       // Hotel location snapshot
	CheckIn         string    `gorm:"size:10" json:"check_in"`                        // Check-in date (YYYY-MM-DD)
	CheckOut        string    `gorm:"size:10" json:"check_out"`                       // Check-out date (YYYY-MM-DD)
	Guests          int       `gorm:"default:1" json:"guests"`                        // Guest count
	RoomType        string    `gorm:"size:100" json:"room_type"`                      // Room type snapshot
	TotalAmount     float64   `gorm:"type:decimal(10,2)" json:"total_amount"`         // Total price snapshot
	PaymentMethodID *uint     `json:"payment_method_id,omitempty"`                    // Optional payment method used
	Status          string    `gorm:"size:20;default:pending;index" json:"status"`    // pending, confirmed, cancelled, failed
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`         // Creation timestamp
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`               // Last update timestamp
}
