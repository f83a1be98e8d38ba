// Package passwords validates and hashes user passwords
package passwords

import (
	"strings"
	"unicode"
)

// MinLength is the minimum accepted password length
const MinLength = 12

const recommendedLength = 16

// Validation error codes
const (
	CodeLength          = "length"
	CodeRequiresLetter  = "requires_letter"
	CodeRequiresDigit   = "requires_digit"
	CodeRequiresSpecial = "requires_special"
)

// Validation warning codes
const (
	WarnShortPassphrase = "short_passphrase"
	WarnCommonPassword  = "common_password"
)

var commonPasswords = map[string]struct{}{
	"password":      {},
	"password123":   {},
	"password123!":  {},
	"qwerty123456":  {},
	"qwerty123!":    {},
	"123456789012":  {},
	"letmein12345!": {},
	"welcome123!":   {},
	"administrator": {},
	"adminadmin1!":  {},
	"iloveyou123!":  {},
	"p@ssw0rd1234":  {},
	"changeme123!":  {},
}

// ValidationResult describes the outcome of a password policy check
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks a password against the password policy:
// at least MinLength characters with a letter, a digit and a special character.
// Warnings never make a password invalid.
func Validate(password string) ValidationResult {
	result := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	length := len([]rune(password))
	if length < MinLength {
		result.Errors = append(result.Errors, CodeLength)
	}

	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasLetter {
		result.Errors = append(result.Errors, CodeRequiresLetter)
	}
	if !hasDigit {
		result.Errors = append(result.Errors, CodeRequiresDigit)
	}
	if !hasSpecial {
		result.Errors = append(result.Errors, CodeRequiresSpecial)
	}

	if length >= MinLength && length < recommendedLength {
		result.Warnings = append(result.Warnings, WarnShortPassphrase)
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		result.Warnings = append(result.Warnings, WarnCommonPassword)
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
