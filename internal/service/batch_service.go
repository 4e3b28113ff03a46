package service

import (
	"errors"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// BatchService drives one accrual run: it selects the candidate contracts
// for a target month, processes each independently and collects the
// per-contract outcomes plus the batch's notifications into one report.
type BatchService struct {
	contractRepo domain.ContractRepository
	accrualRepo  domain.ContractAccrualRepository
	periodRepo   domain.ServicePeriodRepository
	processor    *AccrualProcessor
}

// NewBatchService creates a new BatchService
func NewBatchService(contractRepo domain.ContractRepository, accrualRepo domain.ContractAccrualRepository, periodRepo domain.ServicePeriodRepository, processor *AccrualProcessor) *BatchService {
	return &BatchService{
		contractRepo: contractRepo,
		accrualRepo:  accrualRepo,
		periodRepo:   periodRepo,
		processor:    processor,
	}
}

// Run processes all candidate contracts for the month containing
// periodStart. Settled and stale contracts are filtered out before
// processing and do not appear in the report. A contract failure is
// recorded and never stops the batch.
func (s *BatchService) Run(periodStart time.Time) (*domain.BatchReport, error) {
	monthStart, monthEnd := util.MonthBounds(periodStart)

	contracts, err := s.contractRepo.ListAccrualCandidates(monthEnd)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("target_month", monthStart.Format("2006-01-02")).
		Int("candidates", len(contracts)).
		Msg("Starting accrual batch")

	notes := &domain.NotificationLog{}
	report := &domain.BatchReport{
		PeriodStartDate:   monthStart,
		ProcessingResults: make([]domain.ProcessResult, 0, len(contracts)),
	}

	for _, contract := range contracts {
		ok, err := s.isCandidate(contract, monthStart, monthEnd)
		if err != nil {
			report.ProcessingResults = append(report.ProcessingResults, domain.ProcessResult{
				ContractID: contract.ID,
				Status:     domain.ResultFailed,
				Message:    err.Error(),
			})
			report.Summary.TotalProcessed++
			report.Summary.Failed++
			continue
		}
		if !ok {
			continue
		}

		result := s.processor.Process(contract, monthStart, notes)
		report.ProcessingResults = append(report.ProcessingResults, result)
		report.Summary.TotalProcessed++
		switch result.Status {
		case domain.ResultSuccess:
			report.Summary.Successful++
		case domain.ResultSkipped:
			report.Summary.Skipped++
		case domain.ResultFailed:
			report.Summary.Failed++
		}
	}

	report.Notifications = notes.Items()

	log.Info().
		Str("target_month", monthStart.Format("2006-01-02")).
		Int("processed", report.Summary.TotalProcessed).
		Int("successful", report.Summary.Successful).
		Int("skipped", report.Summary.Skipped).
		Int("failed", report.Summary.Failed).
		Int("notifications", len(report.Notifications)).
		Msg("Accrual batch finished")

	return report, nil
}

// isCandidate applies the finer candidate rules on top of the repository's
// contract-date cut:
//   - settled contracts (CLOSED or CANCELED with a COMPLETED aggregate) are
//     out, unless a zero-amount contract still owes its one audit row;
//   - stale ACTIVE contracts (signed before the target year, with periods
//     that all miss the target month) are out.
func (s *BatchService) isCandidate(contract *domain.Contract, monthStart, monthEnd time.Time) (bool, error) {
	switch contract.Status {
	case domain.ContractStatusClosed, domain.ContractStatusCanceled:
		accrual, err := s.accrualRepo.GetByContract(contract.ID)
		if errors.Is(err, domain.ErrAccrualNotFound) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if accrual.Status != domain.AccrualStatusCompleted {
			return true, nil
		}
		if domain.AmountIsZero(contract.Amount) {
			has, err := s.accrualRepo.HasAccruedPeriods(accrual.ID)
			if err != nil {
				return false, err
			}
			return !has, nil
		}
		return false, nil

	case domain.ContractStatusActive:
		if contract.ContractDate.Year() >= monthStart.Year() {
			return true, nil
		}
		periods, err := s.periodRepo.GetByContract(contract.ID)
		if err != nil {
			return false, err
		}
		if len(periods) == 0 {
			return true, nil
		}
		overlaps := lo.SomeBy(periods, func(p *domain.ServicePeriod) bool {
			return p.Overlaps(monthStart, monthEnd)
		})
		return overlaps, nil
	}
	return true, nil
}
