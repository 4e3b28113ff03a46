package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// lateBillingMinMonths is how many whole months must separate the last
// period end from the contract date before the late-billing override applies
const lateBillingMinMonths = 6

// crmGraceDays is how close to month end a contract may be signed before a
// missing LMS profile is treated as resignation rather than CRM lag
const crmGraceDays = 15

var one = decimal.NewFromInt(1)

// AccrualProcessor decides, per (contract, target month), how much revenue
// to recognize: it classifies the contract, arbitrates its periods,
// reconciles the LMS view and commits exactly one accrual delta (or a
// reasoned skip) through the ledger, all inside one transaction.
type AccrualProcessor struct {
	ledger       *LedgerService
	contractRepo domain.ContractRepository
	periodRepo   domain.ServicePeriodRepository
	invoiceRepo  domain.InvoiceRepository
	clientRepo   domain.ClientRepository
	enrollment   *EnrollmentService
	txm          domain.TxManager
}

// NewAccrualProcessor creates a new AccrualProcessor
func NewAccrualProcessor(
	ledger *LedgerService,
	contractRepo domain.ContractRepository,
	periodRepo domain.ServicePeriodRepository,
	invoiceRepo domain.InvoiceRepository,
	clientRepo domain.ClientRepository,
	enrollment *EnrollmentService,
	txm domain.TxManager,
) *AccrualProcessor {
	return &AccrualProcessor{
		ledger:       ledger,
		contractRepo: contractRepo,
		periodRepo:   periodRepo,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		enrollment:   enrollment,
		txm:          txm,
	}
}

// Process runs the accrual decision for one contract and one target month.
// The whole decision commits in a single transaction; any error rolls it
// back and surfaces as a FAILED result, leaving other contracts untouched.
func (p *AccrualProcessor) Process(contract *domain.Contract, target time.Time, notes *domain.NotificationLog) domain.ProcessResult {
	var result domain.ProcessResult
	err := p.txm.WithinTx(func(tx interface{}) error {
		r, err := p.process(tx, contract, target, notes)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		log.Error().
			Err(err).
			Int32("contract_id", contract.ID).
			Str("target_month", util.MonthStart(target).Format("2006-01-02")).
			Msg("Contract accrual failed")
		return domain.ProcessResult{
			ContractID: contract.ID,
			Status:     domain.ResultFailed,
			Message:    err.Error(),
		}
	}
	return result
}

func (p *AccrualProcessor) process(tx interface{}, contract *domain.Contract, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	accrual, err := p.ledger.EnsureAccrual(tx, contract)
	if err != nil {
		return domain.ProcessResult{}, fmt.Errorf("failed to ensure accrual aggregate: %w", err)
	}

	switch contract.Status {
	case domain.ContractStatusActive:
		return p.processActive(tx, contract, accrual, target, notes)
	case domain.ContractStatusCanceled:
		return p.processCanceled(tx, contract, accrual, target, notes)
	case domain.ContractStatusClosed:
		return p.processClosed(tx, contract, accrual, target, notes)
	default:
		return domain.ProcessResult{}, fmt.Errorf("unknown contract status %q", contract.Status)
	}
}

func (p *AccrualProcessor) processActive(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	if accrual.Status == domain.AccrualStatusCompleted {
		if err := p.ledger.CascadeContractStatus(tx, contract, accrual); err != nil {
			return domain.ProcessResult{}, err
		}
		return p.skip(contract, nil, "accrual already completed"), nil
	}

	periods, err := p.periodRepo.GetByContract(contract.ID)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	if domain.AmountIsZero(accrual.RemainingAmountToAccrue) {
		if len(periods) == 0 {
			return p.processWithoutPeriods(tx, contract, accrual, target, notes)
		}
		return p.autoComplete(tx, contract, accrual, target)
	}
	if domain.AmountIsNegative(accrual.RemainingAmountToAccrue) {
		return p.accrueNegativeRemainder(tx, contract, accrual, target, "negative remainder accrued; contract canceled")
	}

	if len(periods) > 0 {
		return p.processWithPeriods(tx, contract, accrual, periods, target, notes)
	}
	return p.processWithoutPeriods(tx, contract, accrual, target, notes)
}

func (p *AccrualProcessor) processCanceled(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	if accrual.Status == domain.AccrualStatusCompleted {
		return p.settleCompleted(tx, contract, accrual, target)
	}

	periods, err := p.periodRepo.GetByContract(contract.ID)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	if domain.AmountIsZero(accrual.RemainingAmountToAccrue) {
		if len(periods) == 0 {
			return p.processWithoutPeriods(tx, contract, accrual, target, notes)
		}
		return p.autoComplete(tx, contract, accrual, target)
	}
	if domain.AmountIsNegative(accrual.RemainingAmountToAccrue) {
		return p.accrueNegativeRemainder(tx, contract, accrual, target, "negative remainder accrued")
	}

	if len(periods) == 0 {
		return p.processWithoutPeriods(tx, contract, accrual, target, notes)
	}

	// A canceled contract should carry only dropped or postponed periods
	incongruent := lo.SomeBy(periods, func(pd *domain.ServicePeriod) bool {
		return pd.Status == domain.PeriodStatusActive || pd.Status == domain.PeriodStatusEnded
	})
	if incongruent {
		notes.Add(domain.NotificationNotCongruentStatus,
			fmt.Sprintf("contract %d: canceled contract has active or ended periods", contract.ID))
		return p.skip(contract, nil, "canceled contract with active or ended periods"), nil
	}

	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if accrued == nil {
		return p.skip(contract, nil, "remainder already accrued for this month"), nil
	}
	return p.success(contract, nil, "canceled contract: full remainder accrued"), nil
}

func (p *AccrualProcessor) processClosed(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	if accrual.Status == domain.AccrualStatusCompleted {
		return p.settleCompleted(tx, contract, accrual, target)
	}
	if domain.AmountIsZero(accrual.RemainingAmountToAccrue) {
		return p.autoComplete(tx, contract, accrual, target)
	}
	if domain.AmountIsNegative(accrual.RemainingAmountToAccrue) {
		return p.accrueNegativeRemainder(tx, contract, accrual, target, "negative remainder accrued")
	}

	periods, err := p.periodRepo.GetByContract(contract.ID)
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if len(periods) == 0 {
		return p.processWithoutPeriods(tx, contract, accrual, target, notes)
	}

	// A closed contract with an unfinished aggregate keeps accruing as if it
	// were active, so stalled contracts can finish
	return p.processWithPeriods(tx, contract, accrual, periods, target, notes)
}

func (p *AccrualProcessor) processWithPeriods(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, periods []*domain.ServicePeriod, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	monthStart, monthEnd := util.MonthBounds(target)

	if result, ok, err := p.lateBillingOverride(tx, contract, accrual, periods, target); err != nil {
		return domain.ProcessResult{}, err
	} else if ok {
		return result, nil
	}

	period := ResolveAccrualPeriod(periods, target)
	if period == nil {
		return p.skip(contract, nil, "no period overlaps target month"), nil
	}

	if period.StatusChangeDate != nil && !period.StatusChangeDate.After(monthEnd) {
		switch period.Status {
		case domain.PeriodStatusPostponed:
			return p.accruePostponed(tx, contract, accrual, period, target)
		case domain.PeriodStatusDropped:
			return p.accrueDropped(tx, contract, accrual, period, target)
		case domain.PeriodStatusEnded:
			return p.accrueEnded(tx, contract, accrual, period, target)
		}
		// Status change recorded but the period is still active; accrue the
		// regular monthly portion
	} else if naturallyCompleted(period, monthStart, monthEnd) {
		// The period ran past its planned end and the natural end falls in
		// this month; recognize the remainder here
		if period.Status == domain.PeriodStatusDropped {
			return p.accrueDropped(tx, contract, accrual, period, target)
		}
		return p.accrueEnded(tx, contract, accrual, period, target)
	}

	return p.accrueMonthlyPortion(tx, contract, accrual, period, target)
}

// lateBillingOverride handles contracts invoiced long after service ended:
// every period is ENDED, the last one ended at least six whole months before
// the contract date, and the contract was signed in the target month.
func (p *AccrualProcessor) lateBillingOverride(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, periods []*domain.ServicePeriod, target time.Time) (domain.ProcessResult, bool, error) {
	if !util.SameMonth(contract.ContractDate, target) {
		return domain.ProcessResult{}, false, nil
	}
	allEnded := lo.EveryBy(periods, func(pd *domain.ServicePeriod) bool {
		return pd.Status == domain.PeriodStatusEnded
	})
	if !allEnded {
		return domain.ProcessResult{}, false, nil
	}
	latest := lo.MaxBy(periods, func(a, b *domain.ServicePeriod) bool {
		return a.EndDate.After(b.EndDate)
	})
	if util.MonthsElapsed(latest.EndDate, contract.ContractDate) < lateBillingMinMonths {
		return domain.ProcessResult{}, false, nil
	}
	invoices, err := p.invoiceRepo.ListByContract(contract.ID)
	if err != nil {
		return domain.ProcessResult{}, false, err
	}
	if len(invoices) == 0 {
		return domain.ProcessResult{}, false, nil
	}

	if err := p.setContractStatus(tx, contract, domain.ContractStatusClosed); err != nil {
		return domain.ProcessResult{}, false, err
	}
	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, false, err
	}
	if accrued == nil {
		return p.skip(contract, nil, "remainder already accrued for this month"), true, nil
	}
	return p.success(contract, nil, "late-billed contract: full remainder accrued"), true, nil
}

func (p *AccrualProcessor) accrueDropped(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, period *domain.ServicePeriod, target time.Time) (domain.ProcessResult, error) {
	if domain.AmountIsNegative(accrual.RemainingAmountToAccrue) && domain.AmountIsZero(accrual.TotalAmountAccrued) {
		return p.accrueNegativeRemainder(tx, contract, accrual, target, "period dropped before accrual: negative remainder accrued")
	}
	if err := p.setContractStatusIfActive(tx, contract, domain.ContractStatusCanceled); err != nil {
		return domain.ProcessResult{}, err
	}
	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if accrued == nil {
		return p.skip(contract, &period.ID, "remainder already accrued for this month"), nil
	}
	return p.success(contract, &period.ID, "period dropped: full remainder accrued"), nil
}

func (p *AccrualProcessor) accrueEnded(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, period *domain.ServicePeriod, target time.Time) (domain.ProcessResult, error) {
	if err := p.setContractStatusIfActive(tx, contract, domain.ContractStatusClosed); err != nil {
		return domain.ProcessResult{}, err
	}
	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if accrued == nil {
		return p.skip(contract, &period.ID, "remainder already accrued for this month"), nil
	}
	return p.success(contract, &period.ID, "period ended: full remainder accrued"), nil
}

// accruePostponed recognizes the part of the month served before the
// postponement date and pauses the aggregate until a continuing period
// takes over.
func (p *AccrualProcessor) accruePostponed(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, period *domain.ServicePeriod, target time.Time) (domain.ProcessResult, error) {
	monthStart, monthEnd := util.MonthBounds(target)
	changeDate := util.ToDay(*period.StatusChangeDate)

	from := util.MaxDate(period.StartDate, monthStart)
	to := util.MinDate(period.EndDate, monthEnd)
	if !changeDate.Before(monthStart) && !changeDate.After(monthEnd) {
		// Handover inside the month: accrue up to the postponement date
		to = changeDate
	} else if changeDate.Before(period.EndDate) {
		to = util.MinDate(changeDate, monthEnd)
	}

	if to.Before(from) {
		// Postponement consumed the whole month; nothing to recognize
		if err := p.ledger.Pause(tx, accrual); err != nil {
			return domain.ProcessResult{}, err
		}
		return p.success(contract, &period.ID, "period postponed: nothing to accrue this month"), nil
	}

	sessions := p.sessionsFor(contract, period, from, to)
	portion := portionOfRemaining(accrual, sessions)
	_, err := p.ledger.AccruePortion(tx, contract, accrual, period, portion, sessions, target)
	if errors.Is(err, domain.ErrDuplicateAccrual) {
		return p.skip(contract, &period.ID, "already accrued for this month"), nil
	}
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if !changeDate.After(monthEnd) {
		if err := p.ledger.Pause(tx, accrual); err != nil {
			return domain.ProcessResult{}, err
		}
	}
	return p.success(contract, &period.ID, "postponement: accrued portion up to status change"), nil
}

func (p *AccrualProcessor) accrueMonthlyPortion(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, period *domain.ServicePeriod, target time.Time) (domain.ProcessResult, error) {
	monthStart, monthEnd := util.MonthBounds(target)

	effectiveEnd := period.EndDate
	if period.Status == domain.PeriodStatusPostponed && period.StatusChangeDate != nil && period.StatusChangeDate.Before(period.EndDate) {
		effectiveEnd = util.ToDay(*period.StatusChangeDate)
	}

	from := util.MaxDate(period.StartDate, monthStart)
	to := util.MinDate(effectiveEnd, monthEnd)
	if to.Before(from) {
		return p.success(contract, &period.ID, "no accruable days in target month"), nil
	}

	sessions := p.sessionsFor(contract, period, from, to)
	portion := portionOfRemaining(accrual, sessions)
	_, err := p.ledger.AccruePortion(tx, contract, accrual, period, portion, sessions, target)
	if errors.Is(err, domain.ErrDuplicateAccrual) {
		return p.skip(contract, &period.ID, "already accrued for this month"), nil
	}
	if err != nil {
		return domain.ProcessResult{}, err
	}
	return p.success(contract, &period.ID, "monthly portion accrued"), nil
}

// processWithoutPeriods reconciles a period-less contract against the LMS.
// An unreachable or resigned client releases the full remainder; anything
// else is surfaced as a congruence notification.
func (p *AccrualProcessor) processWithoutPeriods(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, notes *domain.NotificationLog) (domain.ProcessResult, error) {
	monthEnd := util.MonthEnd(target)

	var enrollment *EnrollmentStatus
	client, err := p.clientRepo.GetByID(contract.ClientID)
	if err != nil && !errors.Is(err, domain.ErrClientNotFound) {
		return domain.ProcessResult{}, err
	}
	if client != nil {
		enrollment, err = p.enrollment.Lookup(client)
		if err != nil {
			// An unreachable LMS is indistinguishable from a missing record
			log.Warn().
				Err(err).
				Int32("contract_id", contract.ID).
				Int32("client_id", contract.ClientID).
				Msg("LMS lookup failed; treating record as missing")
			enrollment = nil
		}
	}

	if enrollment == nil {
		if contract.ContractDate.After(monthEnd.AddDate(0, 0, -crmGraceDays)) {
			notes.Add(domain.NotificationNotCongruentStatus,
				fmt.Sprintf("contract %d: client possibly missing in CRM", contract.ID))
			return p.skip(contract, nil, "client not found in LMS; contract too recent to resign"), nil
		}
		return p.resign(tx, contract, accrual, target, domain.ContractStatusCanceled, "client unreachable in external systems")
	}

	switch enrollment.Class {
	case domain.EnrollmentDropped:
		if enrollment.StatusChangeDate != nil && enrollment.StatusChangeDate.After(monthEnd) {
			return p.skip(contract, nil, "drop change date after month end"), nil
		}
		return p.resign(tx, contract, accrual, target, domain.ContractStatusCanceled, "client dropped")
	case domain.EnrollmentEnded:
		if enrollment.StatusChangeDate != nil && enrollment.StatusChangeDate.After(monthEnd) {
			return p.skip(contract, nil, "end change date after month end"), nil
		}
		return p.resign(tx, contract, accrual, target, domain.ContractStatusClosed, "client ended")
	default:
		if contract.ContractDate.Year() >= target.Year() {
			return p.skip(contract, nil, "active client without period; recent contract"), nil
		}
		notes.Add(domain.NotificationNotCongruentStatus,
			fmt.Sprintf("contract %d: client without period in CRM", contract.ID))
		return p.skip(contract, nil, "active client without period in CRM"), nil
	}
}

// resign releases the full remaining amount because the client is gone.
// Zero-amount contracts without prior accruals still get one audit row,
// dated by the latest credit note when one exists.
func (p *AccrualProcessor) resign(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, endStatus domain.ContractStatus, context string) (domain.ProcessResult, error) {
	if domain.AmountIsZero(accrual.TotalAmountToAccrue) {
		has, err := p.ledger.HasAccruals(accrual)
		if err != nil {
			return domain.ProcessResult{}, err
		}
		if !has {
			accrualDate, err := p.zeroAccrualDate(contract, target)
			if err != nil {
				return domain.ProcessResult{}, err
			}
			accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, accrualDate)
			if err != nil {
				return domain.ProcessResult{}, err
			}
			if accrued == nil {
				return p.skip(contract, nil, "remainder already accrued for this month"), nil
			}
			return p.success(contract, nil, context+": zero amount accrual recorded"), nil
		}
	}

	if err := p.setContractStatusIfActive(tx, contract, endStatus); err != nil {
		return domain.ProcessResult{}, err
	}
	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if accrued == nil {
		return p.skip(contract, nil, "remainder already accrued for this month"), nil
	}
	return p.success(contract, nil, context+": full remainder accrued"), nil
}

// autoComplete finishes an aggregate with nothing left to accrue. Zero-amount
// contracts without an accrual trail still get their audit row.
func (p *AccrualProcessor) autoComplete(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time) (domain.ProcessResult, error) {
	if domain.AmountIsZero(accrual.TotalAmountToAccrue) {
		has, err := p.ledger.HasAccruals(accrual)
		if err != nil {
			return domain.ProcessResult{}, err
		}
		if !has {
			accrualDate, err := p.zeroAccrualDate(contract, target)
			if err != nil {
				return domain.ProcessResult{}, err
			}
			if _, err := p.ledger.AccrueRemainder(tx, contract, accrual, accrualDate); err != nil {
				return domain.ProcessResult{}, err
			}
			return p.skip(contract, nil, "zero amount contract: audit accrual recorded; aggregate completed"), nil
		}
	}
	if err := p.ledger.CompleteAggregate(tx, contract, accrual); err != nil {
		return domain.ProcessResult{}, err
	}
	return p.skip(contract, nil, "nothing remaining to accrue; aggregate completed"), nil
}

// settleCompleted handles a settled contract whose aggregate already
// completed. A zero-amount contract that never produced a row still gets its
// one audit row; everything else is a plain skip.
func (p *AccrualProcessor) settleCompleted(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time) (domain.ProcessResult, error) {
	if domain.AmountIsZero(accrual.TotalAmountToAccrue) {
		has, err := p.ledger.HasAccruals(accrual)
		if err != nil {
			return domain.ProcessResult{}, err
		}
		if !has {
			accrualDate, err := p.zeroAccrualDate(contract, target)
			if err != nil {
				return domain.ProcessResult{}, err
			}
			if _, err := p.ledger.AccrueRemainder(tx, contract, accrual, accrualDate); err != nil {
				return domain.ProcessResult{}, err
			}
			return p.skip(contract, nil, "zero amount contract: audit accrual recorded"), nil
		}
	}
	return p.skip(contract, nil, "accrual already completed"), nil
}

func (p *AccrualProcessor) accrueNegativeRemainder(tx interface{}, contract *domain.Contract, accrual *domain.ContractAccrual, target time.Time, message string) (domain.ProcessResult, error) {
	accrued, err := p.ledger.AccrueRemainder(tx, contract, accrual, util.MonthStart(target))
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if accrued == nil {
		return p.skip(contract, nil, "remainder already accrued for this month"), nil
	}
	return p.success(contract, nil, message), nil
}

// zeroAccrualDate picks the accrual month for a zero-amount audit row: the
// month of the latest credit note when one exists, else the target month,
// else the current month.
func (p *AccrualProcessor) zeroAccrualDate(contract *domain.Contract, target time.Time) (time.Time, error) {
	invoices, err := p.invoiceRepo.ListByContract(contract.ID)
	if err != nil {
		return time.Time{}, err
	}
	creditNotes := lo.Filter(invoices, func(inv *domain.Invoice, _ int) bool {
		return inv.IsCreditNote()
	})
	if len(creditNotes) > 0 {
		latest := lo.MaxBy(creditNotes, func(a, b *domain.Invoice) bool {
			return a.InvoiceDate.After(b.InvoiceDate)
		})
		return util.MonthStart(latest.InvoiceDate), nil
	}
	if !target.IsZero() {
		return util.MonthStart(target), nil
	}
	return util.MonthStart(time.Now().UTC()), nil
}

func (p *AccrualProcessor) sessionsFor(contract *domain.Contract, period *domain.ServicePeriod, from, to time.Time) int {
	sessionsPerWeek, totalSessions := 0, 0
	if contract.Program != nil {
		sessionsPerWeek = contract.Program.SessionsPerWeek
		totalSessions = contract.Program.TotalSessions
	}
	return SessionsInRange(period, from, to, sessionsPerWeek, totalSessions)
}

// portionOfRemaining converts sessions in the month's overlap into the share
// of the remaining amount to recognize. Deriving from the remainder rather
// than the contract total lets the final month absorb rounding residue.
func portionOfRemaining(accrual *domain.ContractAccrual, sessionsInOverlap int) decimal.Decimal {
	remaining := accrual.SessionsRemainingToAccrue
	if remaining <= 0 {
		return decimal.Zero
	}
	portion := decimal.NewFromInt(int64(sessionsInOverlap)).Div(decimal.NewFromInt(int64(remaining)))
	if portion.GreaterThan(one) {
		return one
	}
	return portion
}

func naturallyCompleted(period *domain.ServicePeriod, monthStart, monthEnd time.Time) bool {
	if period.Status != domain.PeriodStatusEnded && period.Status != domain.PeriodStatusDropped {
		return false
	}
	if period.StatusChangeDate == nil || !period.StatusChangeDate.After(period.EndDate) {
		return false
	}
	return !period.EndDate.Before(monthStart) && !period.EndDate.After(monthEnd)
}

func (p *AccrualProcessor) setContractStatus(tx interface{}, contract *domain.Contract, status domain.ContractStatus) error {
	if contract.Status == status {
		return nil
	}
	if err := p.contractRepo.UpdateStatusTx(tx, contract.ID, status); err != nil {
		return err
	}
	contract.Status = status
	return nil
}

func (p *AccrualProcessor) setContractStatusIfActive(tx interface{}, contract *domain.Contract, status domain.ContractStatus) error {
	if contract.Status != domain.ContractStatusActive {
		return nil
	}
	return p.setContractStatus(tx, contract, status)
}

func (p *AccrualProcessor) skip(contract *domain.Contract, periodID *int32, message string) domain.ProcessResult {
	return domain.ProcessResult{
		ContractID: contract.ID,
		PeriodID:   periodID,
		Status:     domain.ResultSkipped,
		Message:    message,
	}
}

func (p *AccrualProcessor) success(contract *domain.Contract, periodID *int32, message string) domain.ProcessResult {
	return domain.ProcessResult{
		ContractID: contract.ID,
		PeriodID:   periodID,
		Status:     domain.ResultSuccess,
		Message:    message,
	}
}
