package models

import "time"

// Role is the closed set of principal roles.
type Role string

const (
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleProvider || r == RoleAdmin
}

// User is an authenticated principal. Providers are users with
// role "provider"; they cannot be booked until an admin approves them.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         Role      `bson:"role" json:"role"`
	TimeZone     string    `bson:"timeZone" json:"timeZone"`
	IsApproved   bool      `bson:"isApproved" json:"isApproved"`
	About        string    `bson:"about,omitempty" json:"about,omitempty"`
	ServiceIDs   []string  `bson:"serviceIds,omitempty" json:"serviceIds,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// ProviderProfile is the slice of a provider record the reservation
// engine consumes.
type ProviderProfile struct {
	ID         string `bson:"id" json:"id"`
	TimeZone   string `bson:"timeZone" json:"timeZone"`
	IsApproved bool   `bson:"isApproved" json:"isApproved"`
}

// RegisterRequest defines the signup payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role"`
	TimeZone string `json:"timeZone" binding:"required"`
}

// LoginRequest defines the signin payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
