// Package money holds the fixed-point helpers shared by the ledger.
//
// Amounts are shopspring decimals in memory and integer cents at rest.
// Rounding is half away from zero to two places (decimal.Round), applied
// at every point a share or settlement amount is produced.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places kept for currency amounts.
const Places = 2

// Tolerance is the largest difference still considered "equal" when
// comparing sums, and the dust threshold below which a settlement is
// not worth suggesting.
var Tolerance = decimal.New(1, -Places)

// Hundred is 100 as a decimal, used for percentage arithmetic.
var Hundred = decimal.NewFromInt(100)

// Round rounds d to currency precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// ToCents converts an amount to integer minor units after rounding.
func ToCents(d decimal.Decimal) int64 {
	return Round(d).Shift(Places).IntPart()
}

// FromCents converts integer minor units back into an amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Places)
}

// NearlyEqual reports whether a and b differ by at most Tolerance.
func NearlyEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}

// IsDust reports whether d is within Tolerance of zero.
func IsDust(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Tolerance)
}

// Sum adds up amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
