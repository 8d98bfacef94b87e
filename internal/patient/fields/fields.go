// Package fields normalizes and validates the structured text fields of a
// patient record. Formatting and validation are pure functions: formatters
// produce the canonical display value, validators run against that canonical
// value and report a human-readable message on failure.
package fields

import (
	"regexp"
	"strings"
	"time"

	dErrors "prontuario/pkg/domain-errors"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

var (
	taxIDPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// FormatTaxID canonicalizes a tax ID (CPF). Exactly 11 digits are formatted
// as DDD.DDD.DDD-DD; any other digit count is returned as the bare stripped
// digit string. No partial formatting.
func FormatTaxID(raw string) string {
	digits := Digits(raw)
	if len(digits) != 11 {
		return digits
	}
	var b strings.Builder
	b.WriteString(digits[0:3])
	b.WriteByte('.')
	b.WriteString(digits[3:6])
	b.WriteByte('.')
	b.WriteString(digits[6:9])
	b.WriteByte('-')
	b.WriteString(digits[9:11])
	return b.String()
}

// FormatPhone canonicalizes a phone number. 11 digits become
// (DD) DDDDD-DDDD, 10 digits become (DD) DDDD-DDDD; any other digit count is
// returned as the bare stripped digit string.
func FormatPhone(raw string) string {
	digits := Digits(raw)
	switch len(digits) {
	case 11:
		return "(" + digits[0:2] + ") " + digits[2:7] + "-" + digits[7:11]
	case 10:
		return "(" + digits[0:2] + ") " + digits[2:6] + "-" + digits[6:10]
	default:
		return digits
	}
}

// ValidateFullName enforces the required and max-length rules for the name.
func ValidateFullName(v string) error {
	if strings.TrimSpace(v) == "" {
		return dErrors.New(dErrors.CodeValidation, "full name is required")
	}
	if len(v) > 255 {
		return dErrors.New(dErrors.CodeValidation, "full name must be at most 255 characters")
	}
	return nil
}

// ValidateBirthDate enforces presence and the YYYY-MM-DD format. No range
// checks are applied.
func ValidateBirthDate(v string) error {
	if strings.TrimSpace(v) == "" {
		return dErrors.New(dErrors.CodeValidation, "birth date is required")
	}
	if _, err := time.Parse(DateLayout, v); err != nil {
		return dErrors.New(dErrors.CodeValidation, "birth date must be a valid date in the format YYYY-MM-DD")
	}
	return nil
}

// ValidateTaxID enforces presence and the canonical CPF format. Run it on the
// FormatTaxID output.
func ValidateTaxID(v string) error {
	if strings.TrimSpace(v) == "" {
		return dErrors.New(dErrors.CodeValidation, "tax ID is required")
	}
	if !taxIDPattern.MatchString(v) {
		return dErrors.New(dErrors.CodeValidation, "tax ID must use the format 000.000.000-00")
	}
	return nil
}

// ValidatePhone accepts an empty value; a present value must match one of the
// two canonical phone formats. Run it on the FormatPhone output.
func ValidatePhone(v string) error {
	if v == "" {
		return nil
	}
	if !phonePattern.MatchString(v) {
		return dErrors.New(dErrors.CodeValidation, "phone must use the format (00) 00000-0000 or (00) 0000-0000")
	}
	return nil
}

// ValidateAddress accepts an empty value and bounds the length otherwise.
func ValidateAddress(v string) error {
	if len(v) > 1000 {
		return dErrors.New(dErrors.CodeValidation, "address must be at most 1000 characters")
	}
	return nil
}
