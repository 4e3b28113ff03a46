package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountIsZero(t *testing.T) {
	assert.True(t, AmountIsZero(decimal.Zero))
	assert.True(t, AmountIsZero(decimal.NewFromFloat(0.01)))
	assert.True(t, AmountIsZero(decimal.NewFromFloat(-0.01)))
	assert.False(t, AmountIsZero(decimal.NewFromFloat(0.02)))
	assert.False(t, AmountIsZero(decimal.NewFromFloat(-0.02)))
}

func TestAmountIsNegative(t *testing.T) {
	assert.False(t, AmountIsNegative(decimal.Zero))
	assert.False(t, AmountIsNegative(decimal.NewFromFloat(-0.01)))
	assert.True(t, AmountIsNegative(decimal.NewFromFloat(-0.02)))
	assert.False(t, AmountIsNegative(decimal.NewFromInt(5)))
}

func TestAmountIsPositive(t *testing.T) {
	assert.False(t, AmountIsPositive(decimal.Zero))
	assert.False(t, AmountIsPositive(decimal.NewFromFloat(0.01)))
	assert.True(t, AmountIsPositive(decimal.NewFromFloat(0.02)))
	assert.False(t, AmountIsPositive(decimal.NewFromInt(-5)))
}

func TestAmountsEqual(t *testing.T) {
	assert.True(t, AmountsEqual(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.01)))
	assert.False(t, AmountsEqual(decimal.NewFromFloat(100.00), decimal.NewFromFloat(100.02)))
}
