package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CreditNotePrefix is the conventional invoice-number prefix for credit notes
const CreditNotePrefix = "CN-"

// Invoice is an external billing record, consumed read-only. Credit notes
// carry a negative total.
type Invoice struct {
	ID            int32           `json:"id"`
	ContractID    int32           `json:"contractId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// IsCreditNote reports whether the invoice is a credit note
func (i *Invoice) IsCreditNote() bool {
	return i.TotalAmount.IsNegative() || strings.HasPrefix(i.InvoiceNumber, CreditNotePrefix)
}

// InvoiceRepository provides read-only access to a contract's invoices
type InvoiceRepository interface {
	ListByContract(contractID int32) ([]*Invoice, error)
}
