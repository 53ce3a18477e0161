package dto

import (
	"regexp"
	"unicode"
)

// RegisterRequest creates a new dashboard user.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=2"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates the email beyond gin's binding check.
func (r *RegisterRequest) ValidateEmail() (bool, string) {
	if !emailRegex.MatchString(r.Email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePassword enforces password strength: length 8-72, at least one
// uppercase, lowercase, digit, and special character.
func (r *RegisterRequest) ValidatePassword() (bool, string) {
	password := r.Password

	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 72 {
		return false, "Password must not exceed 72 characters"
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	if !hasDigit {
		return false, "Password must contain at least one digit"
	}
	if !hasSpecial {
		return false, "Password must contain at least one special character"
	}

	return true, ""
}

// LoginRequest authenticates a user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest carries a refresh token for the refresh and logout
// endpoints.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateProfileRequest updates the caller's profile.
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// Validate checks the update payload.
func (r *UpdateProfileRequest) Validate() (bool, string) {
	if r.Name != "" && len(r.Name) < 2 {
		return false, "Name must be at least 2 characters"
	}
	return true, ""
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LogoutAllResponse reports how many sessions were revoked.
type LogoutAllResponse struct {
	Revoked int    `json:"revoked"`
	Message string `json:"message"`
}
