package fields

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "prontuario/pkg/domain-errors"
)

func TestFormatTaxID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare 11 digits", "12345678901", "123.456.789-01"},
		{"already formatted", "123.456.789-01", "123.456.789-01"},
		{"mixed separators", "123 456-789/01", "123.456.789-01"},
		{"letters interleaved", "1a2b3c4d5e6f7g8h9i0j1", "123.456.789-01"},
		{"too few digits stays stripped", "1234567890", "1234567890"},
		{"too many digits stays stripped", "123456789012", "123456789012"},
		{"empty", "", ""},
		{"no digits", "abc-.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTaxID(tt.raw))
		})
	}
}

func TestFormatTaxIDPreservesDigitsInOrder(t *testing.T) {
	canonical := regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

	inputs := []string{"98765432100", "000.000.000-00", "111 222 333 44"}
	for _, raw := range inputs {
		formatted := FormatTaxID(raw)
		require.Regexp(t, canonical, formatted)
		assert.Equal(t, Digits(raw), Digits(formatted), "digits must survive formatting in order")
	}
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"11 digits mobile", "11987654321", "(11) 98765-4321"},
		{"10 digits landline", "1133334444", "(11) 3333-4444"},
		{"formatted input normalizes", "(11) 98765-4321", "(11) 98765-4321"},
		{"9 digits stays stripped", "987654321", "987654321"},
		{"12 digits stays stripped", "119876543210", "119876543210"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPhone(tt.raw))
		})
	}
}

func TestFormatPhoneShape(t *testing.T) {
	canonical := regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	for _, raw := range []string{"11987654321", "1133334444"} {
		formatted := FormatPhone(raw)
		require.Regexp(t, canonical, formatted)
		assert.Equal(t, Digits(raw), Digits(formatted))
	}
}

func TestValidateFullName(t *testing.T) {
	assert.NoError(t, ValidateFullName("Maria Silva"))

	err := ValidateFullName("   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Contains(t, err.Error(), "required")

	err = ValidateFullName(strings.Repeat("a", 256))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "255")

	assert.NoError(t, ValidateFullName(strings.Repeat("a", 255)))
}

func TestValidateBirthDate(t *testing.T) {
	assert.NoError(t, ValidateBirthDate("1990-05-17"))

	err := ValidateBirthDate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	err = ValidateBirthDate("17/05/1990")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	// No range validation: ancient and future dates pass.
	assert.NoError(t, ValidateBirthDate("1800-01-01"))
	assert.NoError(t, ValidateBirthDate("2999-12-31"))
}

func TestValidateTaxID(t *testing.T) {
	assert.NoError(t, ValidateTaxID("123.456.789-01"))

	err := ValidateTaxID("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	// Bare digits are rejected; validation expects the canonical form.
	err = ValidateTaxID("12345678901")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000.000.000-00")
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone(""), "phone is optional")
	assert.NoError(t, ValidatePhone("(11) 98765-4321"))
	assert.NoError(t, ValidatePhone("(11) 3333-4444"))

	err := ValidatePhone("987654321")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress(""))
	assert.NoError(t, ValidateAddress(strings.Repeat("r", 1000)))

	err := ValidateAddress(strings.Repeat("r", 1001))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1000")
}
