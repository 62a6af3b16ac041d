package negdi

import "math"

// Currencies without a minor unit. Everything else, MNT included, uses two
// decimal digits.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
	"VND": {},
}

func minorUnitFactor(currency string) float64 {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 1
	}
	return 100
}

// ToMinorUnits converts a major-unit amount to the integer minor-unit value
// the gateway expects.
func ToMinorUnits(amount float64, currency string) int64 {
	return int64(math.Round(amount * minorUnitFactor(currency)))
}

func FromMinorUnits(minor int64, currency string) float64 {
	return float64(minor) / minorUnitFactor(currency)
}
