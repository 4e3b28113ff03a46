package postgres

import (
	"context"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// GetByID retrieves a client with its external ids preloaded
func (r *ClientRepository) GetByID(id int32) (*domain.Client, error) {
	ctx := context.Background()

	var (
		c       domain.Client
		created pgtype.Timestamptz
		updated pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, created_at, updated_at
		FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &created, &updated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	c.CreatedAt = created.Time
	c.UpdatedAt = updated.Time

	rows, err := r.pool.Query(ctx,
		`SELECT system, external_id FROM client_external_ids WHERE client_id = $1`,
		id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.ExternalIDs = make(map[string]string)
	for rows.Next() {
		var system, externalID string
		if err := rows.Scan(&system, &externalID); err != nil {
			return nil, err
		}
		c.ExternalIDs[system] = externalID
	}
	return &c, rows.Err()
}
