package http

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
)

const minPasswordLength = 8

// validatePassword enforces the complexity rule: at least 8 characters
// drawing on at least 3 of the 4 character classes (lower, upper,
// digit, symbol).
func validatePassword(path, pw string) *domain.Error {
	if len(pw) < minPasswordLength {
		return domain.ErrValidation(path, "password_too_short")
	}

	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	classes := 0
	for _, ok := range []bool{lower, upper, digit, symbol} {
		if ok {
			classes++
		}
	}
	if classes < 3 {
		return domain.ErrValidation(path, "password_too_weak")
	}
	return nil
}

// validateEmail checks the address parses as a bare RFC 5322 address.
func validateEmail(path, email string) *domain.Error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.ErrValidation(path, "invalid_email")
	}
	return nil
}

// requireNonEmpty reports the first blank field as a validation error.
func requireNonEmpty(fields map[string]string, order ...string) *domain.Error {
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			return domain.ErrValidation(name, "required")
		}
	}
	return nil
}
