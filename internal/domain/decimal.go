package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses a user-locale decimal string. Both "." and "," are
// accepted as the decimal separator; thousands separators are not.
func ParseDecimal(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, Invalid(field, "is required")
	}
	if strings.Contains(s, ".") && strings.Contains(s, ",") {
		return 0, Invalid(field, "ambiguous decimal separator in "+strconv.Quote(raw))
	}
	if strings.Count(s, ",") > 1 {
		return 0, Invalid(field, "not a number: "+strconv.Quote(raw))
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, Invalid(field, "not a number: "+strconv.Quote(raw))
	}
	return f, nil
}

// ParseOptionalDecimal returns nil for blank input.
func ParseOptionalDecimal(field, raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	f, err := ParseDecimal(field, raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseNonNegative is ParseDecimal restricted to values >= 0.
func ParseNonNegative(field, raw string) (float64, error) {
	f, err := ParseDecimal(field, raw)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, Invalid(field, "must not be negative")
	}
	return f, nil
}

// ParseCoordinate parses an optional latitude/longitude bounded by limit degrees.
func ParseCoordinate(field, raw string, limit float64) (*float64, error) {
	f, err := ParseOptionalDecimal(field, raw)
	if err != nil || f == nil {
		return f, err
	}
	if *f < -limit || *f > limit {
		return nil, Invalid(field, "out of range")
	}
	return f, nil
}
