package errors

import (
	"math"
	"unicode"
)

// ValidateLineName validates a display name for a line.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateLineName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "line name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "line name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "line name contains control characters")
		}
	}

	return nil
}

// ValidateCoordinates checks that a lat/lng pair is representable.
// Range checking against geodetic bounds is deliberately out of scope;
// only NaN and infinities are rejected because they do not survive JSON
// serialization.
func ValidateCoordinates(lat, lng float64) error {
	for _, v := range [...]float64{lat, lng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return New(ErrCodeInvalidInput, "coordinates must be finite numbers")
		}
	}
	return nil
}
