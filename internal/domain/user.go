package domain

import "time"

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`              // Primary key
	Name         string    `gorm:"not null" json:"name"`              // Display name
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // Unique email
	Phone        string    `json:"phone"`                             // Phone number
	Password     string    `gorm:"not null" json:"-"`                 // Bcrypt hash, never serialized
	Role         string    `gorm:"default:user" json:"role"`          // Role: user or admin
	Avatar       string    `json:"avatar"`                            // Avatar image URL
	Bio          string    `gorm:"type:text" json:"bio"`              // Profile bio
	Location     string    `json:"location"`                          // Profile location
	RewardPoints int       `gorm:"default:0" json:"reward_points"`    // Accumulated reward points
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`  // Creation timestamp
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`  // Last update timestamp
}
