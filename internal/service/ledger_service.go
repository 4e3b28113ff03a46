package service

import (
	"errors"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
	"github.com/shopspring/decimal"
)

// LedgerService owns the accrual aggregate: it creates it lazily, applies
// accrual deltas, and cascades contract status when the aggregate completes.
// All mutating methods take the caller's transaction; one call to the accrual
// processor commits exactly once.
type LedgerService struct {
	accrualRepo  domain.ContractAccrualRepository
	contractRepo domain.ContractRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(accrualRepo domain.ContractAccrualRepository, contractRepo domain.ContractRepository) *LedgerService {
	return &LedgerService{
		accrualRepo:  accrualRepo,
		contractRepo: contractRepo,
	}
}

// EnsureAccrual fetches the contract's aggregate, creating it on first
// processing from the contract amount and the program's session count.
func (s *LedgerService) EnsureAccrual(tx interface{}, contract *domain.Contract) (*domain.ContractAccrual, error) {
	accrual, err := s.accrualRepo.GetByContract(contract.ID)
	if err == nil {
		return accrual, nil
	}
	if !errors.Is(err, domain.ErrAccrualNotFound) {
		return nil, err
	}

	totalSessions := 0
	if contract.Program != nil {
		totalSessions = contract.Program.TotalSessions
	}
	accrual = &domain.ContractAccrual{
		ContractID:                contract.ID,
		TotalAmountToAccrue:       contract.Amount,
		TotalAmountAccrued:        decimal.Zero,
		RemainingAmountToAccrue:   contract.Amount,
		TotalSessionsToAccrue:     totalSessions,
		TotalSessionsAccrued:      0,
		SessionsRemainingToAccrue: totalSessions,
		Status:                    domain.AccrualStatusActive,
	}
	return s.accrualRepo.CreateTx(tx, accrual)
}

// AccruePortion recognizes portion * remaining for the given period in the
// target month. Sessions written are clamped to the aggregate's remaining
// sessions so earlier under-counting never over-allocates later months.
// Returns ErrDuplicateAccrual when the month already has a row for this
// period.
func (s *LedgerService) AccruePortion(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, period *domain.ServicePeriod, portion decimal.Decimal, sessionsInOverlap int, target time.Time) (*domain.AccruedPeriod, error) {
	if domain.AmountIsZero(accrual.RemainingAmountToAccrue) {
		return nil, domain.ErrNothingRemaining
	}
	if accrual.SessionsRemainingToAccrue < 0 {
		return nil, domain.ErrSessionsInvariant
	}

	accrualDate := util.MonthStart(target)
	exists, err := s.accrualRepo.PeriodAccrualExists(accrual.ID, period.ID, accrualDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateAccrual
	}

	amount := accrual.RemainingAmountToAccrue.Mul(portion).Round(2)
	sessions := sessionsInOverlap
	if accrual.SessionsRemainingToAccrue < sessions {
		sessions = accrual.SessionsRemainingToAccrue
	}

	periodID := period.ID
	accrued := &domain.AccruedPeriod{
		ContractAccrualID:   accrual.ID,
		ServicePeriodID:     &periodID,
		AccrualDate:         accrualDate,
		AccruedAmount:       amount,
		AccrualPortion:      portion,
		Status:              period.Status,
		SessionsInPeriod:    sessions,
		TotalContractAmount: contract.Amount,
		StatusChangeDate:    period.StatusChangeDate,
	}
	created, err := s.accrualRepo.CreateAccruedPeriodTx(tx, accrued)
	if err != nil {
		return nil, err
	}

	accrual.TotalAmountAccrued = accrual.TotalAmountAccrued.Add(amount)
	accrual.TotalSessionsAccrued += sessions
	accrual.SessionsRemainingToAccrue -= sessions
	if accrual.SessionsRemainingToAccrue < 0 {
		accrual.SessionsRemainingToAccrue = 0
	}

	remaining := accrual.TotalAmountToAccrue.Sub(accrual.TotalAmountAccrued)
	if remaining.IsNegative() {
		// The overshoot stays visible in TotalAmountAccrued so the row sum
		// invariant holds; only the displayed remainder is clamped
		accrual.RemainingAmountToAccrue = decimal.Zero
	} else {
		accrual.RemainingAmountToAccrue = remaining
	}
	completed := remaining.LessThanOrEqual(domain.Epsilon)
	if completed {
		accrual.Status = domain.AccrualStatusCompleted
	}
	if err := s.accrualRepo.UpdateTx(tx, accrual); err != nil {
		return nil, err
	}
	if completed {
		if err := s.CascadeContractStatus(tx, contract, accrual); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// AccrueRemainder recognizes the entire remaining amount in one
// full-remainder row (null period, portion 1, status ENDED) dated
// accrualDate, and completes the aggregate. Skips silently, returning
// (nil, nil), when the month already has a full-remainder row.
func (s *LedgerService) AccrueRemainder(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, accrualDate time.Time) (*domain.AccruedPeriod, error) {
	if accrual.SessionsRemainingToAccrue < 0 {
		return nil, domain.ErrSessionsInvariant
	}

	exists, err := s.accrualRepo.RemainderAccrualExists(accrual.ID, accrualDate)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, nil
	}

	amount := accrual.RemainingAmountToAccrue
	sessions := accrual.SessionsRemainingToAccrue
	accrued := &domain.AccruedPeriod{
		ContractAccrualID:   accrual.ID,
		ServicePeriodID:     nil,
		AccrualDate:         accrualDate,
		AccruedAmount:       amount,
		AccrualPortion:      decimal.NewFromInt(1),
		Status:              domain.PeriodStatusEnded,
		SessionsInPeriod:    sessions,
		TotalContractAmount: contract.Amount,
	}
	created, err := s.accrualRepo.CreateAccruedPeriodTx(tx, accrued)
	if err != nil {
		return nil, err
	}

	accrual.TotalAmountAccrued = accrual.TotalAmountAccrued.Add(amount)
	accrual.RemainingAmountToAccrue = decimal.Zero
	accrual.TotalSessionsAccrued += sessions
	accrual.SessionsRemainingToAccrue = 0
	accrual.Status = domain.AccrualStatusCompleted
	if err := s.accrualRepo.UpdateTx(tx, accrual); err != nil {
		return nil, err
	}
	if err := s.CascadeContractStatus(tx, contract, accrual); err != nil {
		return nil, err
	}
	return created, nil
}

// CompleteAggregate marks the aggregate COMPLETED without writing a row and
// cascades contract status. Used when nothing remains to accrue.
func (s *LedgerService) CompleteAggregate(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual) error {
	if accrual.Status != domain.AccrualStatusCompleted {
		accrual.Status = domain.AccrualStatusCompleted
		if err := s.accrualRepo.UpdateTx(tx, accrual); err != nil {
			return err
		}
	}
	return s.CascadeContractStatus(tx, contract, accrual)
}

// Pause moves an ACTIVE aggregate to PAUSED (postponement handling)
func (s *LedgerService) Pause(tx interface{}, accrual *domain.ContractAccrual) error {
	if accrual.Status != domain.AccrualStatusActive {
		return nil
	}
	accrual.Status = domain.AccrualStatusPaused
	return s.accrualRepo.UpdateTx(tx, accrual)
}

// HasAccruals reports whether the aggregate already has accrued period rows
func (s *LedgerService) HasAccruals(accrual *domain.ContractAccrual) (bool, error) {
	return s.accrualRepo.HasAccruedPeriods(accrual.ID)
}

// CascadeContractStatus moves an ACTIVE contract to CLOSED (positive total)
// or CANCELED (zero or negative total) once its aggregate completed. A
// non-ACTIVE status set explicitly earlier in the same decision is never
// overridden.
func (s *LedgerService) CascadeContractStatus(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual) error {
	if contract.Status != domain.ContractStatusActive {
		return nil
	}
	status := domain.ContractStatusCanceled
	if domain.AmountIsPositive(accrual.TotalAmountToAccrue) {
		status = domain.ContractStatusClosed
	}
	if err := s.contractRepo.UpdateStatusTx(tx, contract.ID, status); err != nil {
		return err
	}
	contract.Status = status
	return nil
}
