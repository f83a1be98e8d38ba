package passwords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name             string
		password         string
		expectedValid    bool
		expectedErrors   []string
		expectedWarnings []string
	}{
		{
			name:             "strong passphrase",
			password:         "correct-horse-42-battery",
			expectedValid:    true,
			expectedErrors:   []string{},
			expectedWarnings: []string{},
		},
		{
			name:             "valid but short",
			password:         "Abcdefgh12#x",
			expectedValid:    true,
			expectedErrors:   []string{},
			expectedWarnings: []string{WarnShortPassphrase},
		},
		{
			name:             "too short",
			password:         "Ab1!",
			expectedValid:    false,
			expectedErrors:   []string{CodeLength},
			expectedWarnings: []string{},
		},
		{
			name:             "digits only",
			password:         "123456789012",
			expectedValid:    false,
			expectedErrors:   []string{CodeRequiresLetter, CodeRequiresSpecial},
			expectedWarnings: []string{WarnShortPassphrase, WarnCommonPassword},
		},
		{
			name:             "letters only",
			password:         "abcdefghijklmnop",
			expectedValid:    false,
			expectedErrors:   []string{CodeRequiresDigit, CodeRequiresSpecial},
			expectedWarnings: []string{},
		},
		{
			name:             "empty",
			password:         "",
			expectedValid:    false,
			expectedErrors:   []string{CodeLength, CodeRequiresLetter, CodeRequiresDigit, CodeRequiresSpecial},
			expectedWarnings: []string{},
		},
		{
			name:             "common password is only a warning",
			password:         "P@ssw0rd1234",
			expectedValid:    true,
			expectedErrors:   []string{},
			expectedWarnings: []string{WarnShortPassphrase, WarnCommonPassword},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.password)

			assert.Equal(t, tt.expectedValid, result.IsValid)
			assert.Equal(t, tt.expectedErrors, result.Errors)
			assert.Equal(t, tt.expectedWarnings, result.Warnings)
		})
	}
}
