package app

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cart and server amounts travel in the minor unit (paise); discount math
// and some display amounts use the major unit (rupees). These two helpers
// are the only place the 100x conversion happens, so it stays visible at
// every boundary that crosses it.

var minorPerMajor = decimal.NewFromInt(100)

// MinorToMajor converts a paise decimal string to rupees ("12550" -> "125.50").
func MinorToMajor(minor string) (string, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "", fmt.Errorf("invalid minor amount %q: %w", minor, err)
	}
	return d.Div(minorPerMajor).StringFixed(2), nil
}

// MajorToMinor converts a rupee decimal string to paise ("125.50" -> "12550.00").
func MajorToMinor(major string) (string, error) {
	d, err := decimal.NewFromString(major)
	if err != nil {
		return "", fmt.Errorf("invalid major amount %q: %w", major, err)
	}
	return d.Mul(minorPerMajor).StringFixed(2), nil
}
