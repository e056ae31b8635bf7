package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidatePositive rejects zero, negative and non-finite configuration values.
// The field name is reported in the error so the offending key can be found.
func ValidatePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", field, v).In(PhaseConfig, "")
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", field, v).In(PhaseConfig, "")
	}
	return nil
}

// ValidateNonNegative rejects negative and non-finite configuration values.
func ValidateNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", field, v).In(PhaseConfig, "")
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s must not be negative, got %v", field, v).In(PhaseConfig, "")
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values (angles may be any sign).
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number, got %v", field, v).In(PhaseConfig, "")
	}
	return nil
}

// ValidateNodeName validates a node type identifier.
//
// The rules are conservative:
//   - No empty names
//   - No control characters
//   - No leading or trailing whitespace
//   - Maximum length of 64 characters
func ValidateNodeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "node type name cannot be empty").In(PhaseModel, "")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidConfig, "node type name too long (max 64 characters)").In(PhaseModel, name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "node type name contains control characters").In(PhaseModel, name)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeInvalidConfig, "node type name has surrounding whitespace").In(PhaseModel, name)
	}

	return nil
}
