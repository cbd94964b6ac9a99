package domain

import (
	"math"
	"strings"
)

const DefaultCurrency = "INR"

// ISO 4217 currencies that do not use two decimal places. Everything
// else converts with exponent 2 (paise, cents).
var minorUnitExponent = map[string]int{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0,
	"KMF": 0, "KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "UYI": 0,
	"VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// MinorUnits converts a major-unit amount to the smallest denomination
// the gateway expects, rounding to the nearest integer.
func MinorUnits(amount float64, currency string) int64 {
	exp := 2
	if e, ok := minorUnitExponent[strings.ToUpper(currency)]; ok {
		exp = e
	}
	return int64(math.Round(amount * math.Pow10(exp)))
}
