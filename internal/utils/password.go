package utils

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrWeakPassword is wrapped by every password policy violation.
var ErrWeakPassword = errors.New("weak password")

var (
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters long", ErrWeakPassword, MinPasswordLength)
	ErrPasswordNoLetter = fmt.Errorf("%w: password must contain at least one letter", ErrWeakPassword)
	ErrPasswordNoDigit  = fmt.Errorf("%w: password must contain at least one digit", ErrWeakPassword)
)

const MinPasswordLength = 8

// ValidatePassword checks the registration password policy.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if !hasLetter {
		return ErrPasswordNoLetter
	}
	if !hasDigit {
		return ErrPasswordNoDigit
	}
	return nil
}
