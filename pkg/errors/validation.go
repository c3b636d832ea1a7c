package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds type and relation names in a schema.
const maxNameLength = 256

// ValidateName validates a schema name (node type or relation).
//
// Names end up as tab-separated fields in input records, so the rules are:
//   - No empty names
//   - No control characters (tabs and newlines included)
//   - No leading or trailing whitespace
//   - Maximum length of 256 bytes
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeSchema, "%s name cannot be empty", kind)
	}

	if len(name) > maxNameLength {
		return New(ErrCodeSchema, "%s name too long (max %d characters)", kind, maxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeSchema, "%s name %q contains control characters", kind, name)
		}
	}

	if strings.TrimSpace(name) != name {
		return New(ErrCodeSchema, "%s name %q has surrounding whitespace", kind, name)
	}

	return nil
}

// ValidatePositive checks that a numeric option is strictly positive.
func ValidatePositive(option string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %d", option, v)
	}
	return nil
}

// ValidateUnitInterval checks that an optional threshold lies in [0, 1].
func ValidateUnitInterval(option string, v *float64) error {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be within [0, 1], got %g", option, *v)
	}
	return nil
}
