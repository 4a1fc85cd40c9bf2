package payments

import "math"

// MinorUnits converts a major-unit amount to the gateway's minor-unit
// convention (paise/cents). Fixed two-decimal currency assumption; not
// generalized to zero-decimal currencies.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// MajorUnits converts a minor-unit gateway amount back to major units.
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}
