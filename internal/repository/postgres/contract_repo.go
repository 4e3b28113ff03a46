package postgres

import (
	"context"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContractRepository implements domain.ContractRepository using PostgreSQL
type ContractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository creates a new ContractRepository
func NewContractRepository(pool *pgxpool.Pool) *ContractRepository {
	return &ContractRepository{pool: pool}
}

const contractColumns = `
	c.id, c.client_id, c.program_id, c.contract_date, c.amount, c.currency,
	c.status, c.created_at, c.updated_at,
	p.id, p.name, p.total_sessions, p.sessions_per_week, p.created_at, p.updated_at`

const contractFrom = `
	FROM contracts c
	JOIN programs p ON p.id = c.program_id`

// GetByID retrieves a contract with its program preloaded
func (r *ContractRepository) GetByID(id int32) (*domain.Contract, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT`+contractColumns+contractFrom+` WHERE c.id = $1`, id)
	contract, err := scanContract(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}
	return contract, nil
}

// ListAccrualCandidates retrieves all contracts signed on or before monthEnd,
// ordered by id for deterministic batch runs
func (r *ContractRepository) ListAccrualCandidates(monthEnd time.Time) ([]*domain.Contract, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT`+contractColumns+contractFrom+`
		WHERE c.contract_date <= $1
		ORDER BY c.id`, timeToPgDate(monthEnd))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []*domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, contract)
	}
	return contracts, rows.Err()
}

// UpdateStatusTx updates a contract's status within the caller's transaction
func (r *ContractRepository) UpdateStatusTx(tx interface{}, id int32, status domain.ContractStatus) error {
	ctx := context.Background()
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}
	tag, err := pgxTx.Exec(ctx,
		`UPDATE contracts SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

func scanContract(row pgx.Row) (*domain.Contract, error) {
	var (
		c        domain.Contract
		p        domain.Program
		date     pgtype.Date
		amount   pgtype.Numeric
		cCreated pgtype.Timestamptz
		cUpdated pgtype.Timestamptz
		pCreated pgtype.Timestamptz
		pUpdated pgtype.Timestamptz
	)
	err := row.Scan(
		&c.ID, &c.ClientID, &c.ProgramID, &date, &amount, &c.Currency,
		&c.Status, &cCreated, &cUpdated,
		&p.ID, &p.Name, &p.TotalSessions, &p.SessionsPerWeek, &pCreated, &pUpdated,
	)
	if err != nil {
		return nil, err
	}
	c.ContractDate = date.Time
	c.Amount = pgNumericToDecimal(amount)
	c.CreatedAt = cCreated.Time
	c.UpdatedAt = cUpdated.Time
	p.CreatedAt = pCreated.Time
	p.UpdatedAt = pUpdated.Time
	c.Program = &p
	return &c, nil
}
