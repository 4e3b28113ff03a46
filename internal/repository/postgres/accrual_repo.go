package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContractAccrualRepository implements domain.ContractAccrualRepository using
// PostgreSQL
type ContractAccrualRepository struct {
	pool *pgxpool.Pool
}

// NewContractAccrualRepository creates a new ContractAccrualRepository
func NewContractAccrualRepository(pool *pgxpool.Pool) *ContractAccrualRepository {
	return &ContractAccrualRepository{pool: pool}
}

const accrualColumns = `
	id, contract_id, total_amount_to_accrue, total_amount_accrued,
	remaining_amount_to_accrue, total_sessions_to_accrue,
	total_sessions_accrued, sessions_remaining_to_accrue, status,
	created_at, updated_at`

// GetByContract retrieves the accrual aggregate of a contract
func (r *ContractAccrualRepository) GetByContract(contractID int32) (*domain.ContractAccrual, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT`+accrualColumns+` FROM contract_accruals WHERE contract_id = $1`,
		contractID)
	accrual, err := scanAccrual(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAccrualNotFound
		}
		return nil, err
	}
	return accrual, nil
}

// CreateTx inserts a new accrual aggregate within the caller's transaction
func (r *ContractAccrualRepository) CreateTx(tx interface{}, accrual *domain.ContractAccrual) (*domain.ContractAccrual, error) {
	ctx := context.Background()
	pgxTx, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	totalAmount, err := decimalToPgNumeric(accrual.TotalAmountToAccrue)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	accrued, err := decimalToPgNumeric(accrual.TotalAmountAccrued)
	if err != nil {
		return nil, fmt.Errorf("invalid accrued amount: %w", err)
	}
	remaining, err := decimalToPgNumeric(accrual.RemainingAmountToAccrue)
	if err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}

	row := pgxTx.QueryRow(ctx,
		`INSERT INTO contract_accruals (
			contract_id, total_amount_to_accrue, total_amount_accrued,
			remaining_amount_to_accrue, total_sessions_to_accrue,
			total_sessions_accrued, sessions_remaining_to_accrue, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING`+accrualColumns,
		accrual.ContractID, totalAmount, accrued, remaining,
		accrual.TotalSessionsToAccrue, accrual.TotalSessionsAccrued,
		accrual.SessionsRemainingToAccrue, string(accrual.Status))
	return scanAccrual(row)
}

// UpdateTx persists the aggregate's running totals and status within the
// caller's transaction
func (r *ContractAccrualRepository) UpdateTx(tx interface{}, accrual *domain.ContractAccrual) error {
	ctx := context.Background()
	pgxTx, err := txFrom(tx)
	if err != nil {
		return err
	}

	accrued, err := decimalToPgNumeric(accrual.TotalAmountAccrued)
	if err != nil {
		return fmt.Errorf("invalid accrued amount: %w", err)
	}
	remaining, err := decimalToPgNumeric(accrual.RemainingAmountToAccrue)
	if err != nil {
		return fmt.Errorf("invalid remaining amount: %w", err)
	}

	tag, err := pgxTx.Exec(ctx,
		`UPDATE contract_accruals SET
			total_amount_accrued = $2,
			remaining_amount_to_accrue = $3,
			total_sessions_accrued = $4,
			sessions_remaining_to_accrue = $5,
			status = $6,
			updated_at = now()
		WHERE id = $1`,
		accrual.ID, accrued, remaining,
		accrual.TotalSessionsAccrued, accrual.SessionsRemainingToAccrue,
		string(accrual.Status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccrualNotFound
	}
	return nil
}

const accruedPeriodColumns = `
	id, contract_accrual_id, service_period_id, accrual_date, accrued_amount,
	accrual_portion, status, sessions_in_period, total_contract_amount,
	status_change_date, created_at`

// CreateAccruedPeriodTx inserts an immutable accrued period row within the
// caller's transaction
func (r *ContractAccrualRepository) CreateAccruedPeriodTx(tx interface{}, ap *domain.AccruedPeriod) (*domain.AccruedPeriod, error) {
	ctx := context.Background()
	pgxTx, err := txFrom(tx)
	if err != nil {
		return nil, err
	}

	amount, err := decimalToPgNumeric(ap.AccruedAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid accrued amount: %w", err)
	}
	portion, err := decimalToPgNumeric(ap.AccrualPortion)
	if err != nil {
		return nil, fmt.Errorf("invalid accrual portion: %w", err)
	}
	contractAmount, err := decimalToPgNumeric(ap.TotalContractAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid contract amount: %w", err)
	}

	row := pgxTx.QueryRow(ctx,
		`INSERT INTO accrued_periods (
			contract_accrual_id, service_period_id, accrual_date,
			accrued_amount, accrual_portion, status, sessions_in_period,
			total_contract_amount, status_change_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING`+accruedPeriodColumns,
		ap.ContractAccrualID, ap.ServicePeriodID, timeToPgDate(ap.AccrualDate),
		amount, portion, string(ap.Status), ap.SessionsInPeriod,
		contractAmount, timePtrToPgDate(ap.StatusChangeDate))
	return scanAccruedPeriod(row)
}

// ListAccruedPeriods retrieves all accrued period rows of an aggregate in
// accrual-date order
func (r *ContractAccrualRepository) ListAccruedPeriods(accrualID int32) ([]*domain.AccruedPeriod, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT`+accruedPeriodColumns+`
		FROM accrued_periods
		WHERE contract_accrual_id = $1
		ORDER BY accrual_date, id`, accrualID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.AccruedPeriod
	for rows.Next() {
		ap, err := scanAccruedPeriod(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ap)
	}
	return result, rows.Err()
}

// PeriodAccrualExists reports whether a row exists for (accrual, period,
// month)
func (r *ContractAccrualRepository) PeriodAccrualExists(accrualID, periodID int32, accrualDate time.Time) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM accrued_periods
			WHERE contract_accrual_id = $1
			AND service_period_id = $2
			AND accrual_date = $3
		)`, accrualID, periodID, timeToPgDate(accrualDate)).Scan(&exists)
	return exists, err
}

// RemainderAccrualExists reports whether a full-remainder row exists for
// (accrual, month)
func (r *ContractAccrualRepository) RemainderAccrualExists(accrualID int32, accrualDate time.Time) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM accrued_periods
			WHERE contract_accrual_id = $1
			AND service_period_id IS NULL
			AND accrual_date = $2
		)`, accrualID, timeToPgDate(accrualDate)).Scan(&exists)
	return exists, err
}

// HasAccruedPeriods reports whether the aggregate has any accrued period rows
func (r *ContractAccrualRepository) HasAccruedPeriods(accrualID int32) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM accrued_periods WHERE contract_accrual_id = $1
		)`, accrualID).Scan(&exists)
	return exists, err
}

func scanAccrual(row pgx.Row) (*domain.ContractAccrual, error) {
	var (
		a         domain.ContractAccrual
		total     pgtype.Numeric
		accrued   pgtype.Numeric
		remaining pgtype.Numeric
		created   pgtype.Timestamptz
		updated   pgtype.Timestamptz
	)
	err := row.Scan(&a.ID, &a.ContractID, &total, &accrued, &remaining,
		&a.TotalSessionsToAccrue, &a.TotalSessionsAccrued,
		&a.SessionsRemainingToAccrue, &a.Status, &created, &updated)
	if err != nil {
		return nil, err
	}
	a.TotalAmountToAccrue = pgNumericToDecimal(total)
	a.TotalAmountAccrued = pgNumericToDecimal(accrued)
	a.RemainingAmountToAccrue = pgNumericToDecimal(remaining)
	a.CreatedAt = created.Time
	a.UpdatedAt = updated.Time
	return &a, nil
}

func scanAccruedPeriod(row pgx.Row) (*domain.AccruedPeriod, error) {
	var (
		ap             domain.AccruedPeriod
		accrualDate    pgtype.Date
		amount         pgtype.Numeric
		portion        pgtype.Numeric
		contractAmount pgtype.Numeric
		changeDate     pgtype.Date
		created        pgtype.Timestamptz
	)
	err := row.Scan(&ap.ID, &ap.ContractAccrualID, &ap.ServicePeriodID,
		&accrualDate, &amount, &portion, &ap.Status, &ap.SessionsInPeriod,
		&contractAmount, &changeDate, &created)
	if err != nil {
		return nil, err
	}
	ap.AccrualDate = accrualDate.Time
	ap.AccruedAmount = pgNumericToDecimal(amount)
	ap.AccrualPortion = pgNumericToDecimal(portion)
	ap.TotalContractAmount = pgNumericToDecimal(contractAmount)
	ap.StatusChangeDate = pgDateToTimePtr(changeDate)
	ap.CreatedAt = created.Time
	return &ap, nil
}
