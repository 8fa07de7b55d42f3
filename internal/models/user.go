package models

import "time"

// UserRole represents user roles in the system
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User represents a registered customer or admin
type User struct {
	ID               string    `json:"id" db:"id"`
	Username         string    `json:"username" db:"username"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	RefreshTokenHash *string   `json:"-" db:"refresh_token_hash"`
	TokenVersion     int       `json:"-" db:"token_version"`
	Role             UserRole  `json:"role" db:"role"`
	IsBlocked        bool      `json:"isBlocked" db:"is_blocked"`
	IsVerified       bool      `json:"isVerified" db:"is_verified"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin checks if the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Address represents a saved shipping address
type Address struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	FullName  string    `json:"fullName" db:"full_name"`
	Phone     string    `json:"phone" db:"phone"`
	Street    string    `json:"street" db:"street"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Pincode   string    `json:"pincode" db:"pincode"`
	IsDefault bool      `json:"isDefault" db:"is_default"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// MaxAddressesPerUser caps the address book size
const MaxAddressesPerUser = 5

// UserRegistration represents user registration data
type UserRegistration struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// UserLogin represents user login data
type UserLogin struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPVerification represents an email verification attempt
type OTPVerification struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// TokenRefresh represents a refresh token exchange request
type TokenRefresh struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// UsernameUpdate represents a username change request
type UsernameUpdate struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
}

// AddressCreation represents a new address book entry
type AddressCreation struct {
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Street   string `json:"street" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
}

// TokenPair holds an access/refresh token pair issued at login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
