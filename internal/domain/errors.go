package domain

import "errors"

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrContractNotFound = errors.New("contract not found")
	ErrAccrualNotFound  = errors.New("contract accrual not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrProgramNotFound  = errors.New("program not found")
	ErrInternalError    = errors.New("internal error")

	// ErrDuplicateAccrual is returned when an accrued period already exists
	// for the same aggregate, period and month
	ErrDuplicateAccrual = errors.New("accrued period already exists for this month")

	// ErrNothingRemaining is returned when an accrual primitive is invoked
	// on an aggregate whose remaining amount is zero
	ErrNothingRemaining = errors.New("nothing remaining to accrue")

	// ErrSessionsInvariant signals a programming error: the aggregate's
	// sessions_remaining_to_accrue dropped below zero
	ErrSessionsInvariant = errors.New("invariant violated: sessions_remaining_to_accrue is negative")
)
