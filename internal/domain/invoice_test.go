package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoice_IsCreditNote(t *testing.T) {
	assert.True(t, (&Invoice{InvoiceNumber: "INV-100", TotalAmount: decimal.NewFromInt(-500)}).IsCreditNote())
	assert.True(t, (&Invoice{InvoiceNumber: "CN-100", TotalAmount: decimal.NewFromInt(500)}).IsCreditNote())
	assert.False(t, (&Invoice{InvoiceNumber: "INV-100", TotalAmount: decimal.NewFromInt(500)}).IsCreditNote())
}
