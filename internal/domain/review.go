package domain

import "time"

// Review Model. A user may review a given target (destination or package slug)
// at most once, enforced by the composite unique index.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                              // Primary key
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_user_target" json:"user_id"` // Owner reference
	Target    string    `gorm:"size:100;uniqueIndex:idx_user_target" json:"target"`        // Reviewed destination/package
	Rating    int       `gorm:"not null" json:"rating"`                            // Rating 1-5
	Title     string    `gorm:"size:200" json:"title"`                             // Review title
	Comment   string    `gorm:"type:text" json:"comment"`                          // Free-text comment
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`            // Creation timestamp
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`                  // Last update timestamp
}
