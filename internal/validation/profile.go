// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

var reservedHandles = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"auth":    {},
	"feeds":   {},
	"follows": {},
	"login":   {},
	"me":      {},
	"metrics": {},
	"signup":  {},
	"swagger": {},
	"threads": {},
	"users":   {},
	"votes":   {},
}

// ValidateHandle validates handle format and reserved names.
func ValidateHandle(handle string) error {
	if !handleRegex.MatchString(handle) {
		return fmt.Errorf("handle must be 3-24 characters and contain only lowercase letters, numbers, and underscores")
	}

	if strings.HasPrefix(handle, "_") || strings.HasSuffix(handle, "_") {
		return fmt.Errorf("handle cannot start or end with an underscore")
	}

	if _, exists := reservedHandles[handle]; exists {
		return fmt.Errorf("handle is reserved")
	}

	return nil
}

// ValidateDisplayName checks display name length.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > 50 {
		return fmt.Errorf("name must not exceed 50 characters")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters long")
	}

	// Prevent unreasonable inputs
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidateBio checks bio length.
func ValidateBio(bio string) error {
	if len(bio) > 500 {
		return fmt.Errorf("bio must not exceed 500 characters")
	}
	return nil
}
