package user

import (
	"time"

	"github.com/FrigaaAbdou/show-backend/internal/auth"
)

// User is a credential store record. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Update carries the optional fields of a user update. Nil means unchanged.
type Update struct {
	Username *string
	Email    *string
	Password *string
	Role     *auth.Role
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	Role        auth.Role
	AdminSecret string
}

// Session is returned by register and login.
type Session struct {
	Token string
	User  User
}
