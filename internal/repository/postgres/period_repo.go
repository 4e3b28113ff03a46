package postgres

import (
	"context"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ServicePeriodRepository implements domain.ServicePeriodRepository using
// PostgreSQL
type ServicePeriodRepository struct {
	pool *pgxpool.Pool
}

// NewServicePeriodRepository creates a new ServicePeriodRepository
func NewServicePeriodRepository(pool *pgxpool.Pool) *ServicePeriodRepository {
	return &ServicePeriodRepository{pool: pool}
}

// GetByContract retrieves all service periods of a contract ordered by start
// date
func (r *ServicePeriodRepository) GetByContract(contractID int32) ([]*domain.ServicePeriod, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT id, contract_id, external_id, name, start_date, end_date,
			status, status_change_date, created_at, updated_at
		FROM service_periods
		WHERE contract_id = $1
		ORDER BY start_date, id`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*domain.ServicePeriod
	for rows.Next() {
		var (
			p          domain.ServicePeriod
			start      pgtype.Date
			end        pgtype.Date
			changeDate pgtype.Date
			created    pgtype.Timestamptz
			updated    pgtype.Timestamptz
		)
		if err := rows.Scan(&p.ID, &p.ContractID, &p.ExternalID, &p.Name,
			&start, &end, &p.Status, &changeDate, &created, &updated); err != nil {
			return nil, err
		}
		p.StartDate = start.Time
		p.EndDate = end.Time
		p.StatusChangeDate = pgDateToTimePtr(changeDate)
		p.CreatedAt = created.Time
		p.UpdatedAt = updated.Time
		periods = append(periods, &p)
	}
	return periods, rows.Err()
}
