// internal/app/system/authutil/password.go
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password constraints. bcrypt ignores input past 72 bytes, so longer
// passwords are rejected rather than silently truncated.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	BcryptCost        = 12
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordCommon   = errors.New("password is too common")
)

var commonPasswords = map[string]bool{
	"12345678":   true,
	"123456789":  true,
	"1234567890": true,
	"password":   true,
	"password1":  true,
	"qwerty123":  true,
	"iloveyou":   true,
	"sunshine":   true,
	"football":   true,
	"baseball":   true,
	"superman":   true,
	"letmein1":   true,
	"welcome1":   true,
	"changeme":   true,
	"admin123":   true,
	"adminadmin": true,
	"superadmin": true,
}

// ValidatePassword checks a password against the length limits and the
// common-password list (case-insensitive).
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
