package models

import (
	"time"
)

// User defines the administrator account model based on the 'users' table
type User struct {
	ID          int64     `json:"id" db:"id" example:"1"`                         // Unique identifier for the user
	Username    string    `json:"username" db:"username" example:"admin"`         // Login name
	Email       string    `json:"email" db:"email" example:"admin@alumnihub.app"` // User's email address
	Password    string    `json:"-" db:"password"`                                // Hashed password (excluded from JSON)
	DisplayName string    `json:"displayName" db:"display_name" example:"Admin"`  // Name shown in the UI
	RoleType    RoleType  `json:"roleType" db:"role_type" example:"ADMIN"`        // User's role
	Disabled    bool      `json:"disabled" db:"disabled" example:"false"`         // Whether the account is disabled
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`                      // Timestamp when the user was created
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`                      // Timestamp when the user was last updated
}
