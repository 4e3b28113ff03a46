package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccrualStatus is the lifecycle status of a contract's accrual aggregate
type AccrualStatus string

const (
	AccrualStatusActive    AccrualStatus = "ACTIVE"
	AccrualStatusPaused    AccrualStatus = "PAUSED"
	AccrualStatusCompleted AccrualStatus = "COMPLETED"
)

// ContractAccrual is the per-contract aggregate tracking how much of the
// contract's value has been recognized. Exactly one per contract, created
// lazily on first processing, never destroyed.
//
// RemainingAmountToAccrue tracks TotalAmountToAccrue - TotalAmountAccrued
// exactly, except that a value that would go negative is clamped to zero in
// the same step that moves the aggregate to COMPLETED. TotalAmountAccrued is
// never clamped: it must always equal the sum of the accrued period rows.
type ContractAccrual struct {
	ID                        int32           `json:"id"`
	ContractID                int32           `json:"contractId"`
	TotalAmountToAccrue       decimal.Decimal `json:"totalAmountToAccrue"`
	TotalAmountAccrued        decimal.Decimal `json:"totalAmountAccrued"`
	RemainingAmountToAccrue   decimal.Decimal `json:"remainingAmountToAccrue"`
	TotalSessionsToAccrue     int             `json:"totalSessionsToAccrue"`
	TotalSessionsAccrued      int             `json:"totalSessionsAccrued"`
	SessionsRemainingToAccrue int             `json:"sessionsRemainingToAccrue"`
	Status                    AccrualStatus   `json:"accrualStatus"`
	CreatedAt                 time.Time       `json:"createdAt"`
	UpdatedAt                 time.Time       `json:"updatedAt"`
}

// AccruedPeriod is an immutable accrual fact: the recognition of part of a
// contract's value in one month. ServicePeriodID is nil for full-remainder
// accruals.
type AccruedPeriod struct {
	ID                  int32           `json:"id"`
	ContractAccrualID   int32           `json:"contractAccrualId"`
	ServicePeriodID     *int32          `json:"servicePeriodId,omitempty"`
	AccrualDate         time.Time       `json:"accrualDate"`
	AccruedAmount       decimal.Decimal `json:"accruedAmount"`
	AccrualPortion      decimal.Decimal `json:"accrualPortion"`
	Status              PeriodStatus    `json:"status"`
	SessionsInPeriod    int             `json:"sessionsInPeriod"`
	TotalContractAmount decimal.Decimal `json:"totalContractAmount"`
	StatusChangeDate    *time.Time      `json:"statusChangeDate,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// ContractAccrualRepository provides access to accrual aggregates and their
// accrued period rows. Tx variants participate in the caller's transaction.
type ContractAccrualRepository interface {
	GetByContract(contractID int32) (*ContractAccrual, error)
	CreateTx(tx interface{}, accrual *ContractAccrual) (*ContractAccrual, error)
	UpdateTx(tx interface{}, accrual *ContractAccrual) error

	CreateAccruedPeriodTx(tx interface{}, ap *AccruedPeriod) (*AccruedPeriod, error)
	ListAccruedPeriods(accrualID int32) ([]*AccruedPeriod, error)
	// PeriodAccrualExists reports whether a row exists for
	// (accrual, period, month)
	PeriodAccrualExists(accrualID, periodID int32, accrualDate time.Time) (bool, error)
	// RemainderAccrualExists reports whether a full-remainder row (null
	// period) exists for (accrual, month)
	RemainderAccrualExists(accrualID int32, accrualDate time.Time) (bool, error)
	HasAccruedPeriods(accrualID int32) (bool, error)
}

// TxManager runs a function inside one database transaction. The opaque tx
// value is handed to repository Tx variants.
type TxManager interface {
	WithinTx(fn func(tx interface{}) error) error
}
