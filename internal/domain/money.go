package domain

import "github.com/shopspring/decimal"

// Epsilon is the tolerance for monetary comparisons. Amounts carry two
// fractional digits, so anything within one cent of zero counts as zero.
var Epsilon = decimal.NewFromFloat(0.01)

// AmountsEqual reports whether two amounts are equal within Epsilon
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// AmountIsZero reports whether an amount is zero within Epsilon
func AmountIsZero(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(Epsilon)
}

// AmountIsNegative reports whether an amount is strictly below -Epsilon
func AmountIsNegative(d decimal.Decimal) bool {
	return d.LessThan(Epsilon.Neg())
}

// AmountIsPositive reports whether an amount is strictly above Epsilon
func AmountIsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Epsilon)
}
