package postgres

import (
	"context"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InvoiceRepository implements domain.InvoiceRepository using PostgreSQL
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// ListByContract retrieves all invoices of a contract ordered by invoice date
func (r *InvoiceRepository) ListByContract(contractID int32) ([]*domain.Invoice, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT id, contract_id, invoice_number, invoice_date, total_amount,
			created_at
		FROM invoices
		WHERE contract_id = $1
		ORDER BY invoice_date, id`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*domain.Invoice
	for rows.Next() {
		var (
			inv     domain.Invoice
			date    pgtype.Date
			total   pgtype.Numeric
			created pgtype.Timestamptz
		)
		if err := rows.Scan(&inv.ID, &inv.ContractID, &inv.InvoiceNumber,
			&date, &total, &created); err != nil {
			return nil, err
		}
		inv.InvoiceDate = date.Time
		inv.TotalAmount = pgNumericToDecimal(total)
		inv.CreatedAt = created.Time
		invoices = append(invoices, &inv)
	}
	return invoices, rows.Err()
}
