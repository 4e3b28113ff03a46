package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractStatus is the lifecycle status of a contract
type ContractStatus string

const (
	ContractStatusActive   ContractStatus = "ACTIVE"
	ContractStatusCanceled ContractStatus = "CANCELED"
	ContractStatusClosed   ContractStatus = "CLOSED"
)

// Contract is an educational service contract. Its amount is signed: credit
// corrections produce zero or negative contracts that still need an accrual
// trail.
type Contract struct {
	ID           int32           `json:"id"`
	ClientID     int32           `json:"clientId"`
	ProgramID    int32           `json:"programId"`
	ContractDate time.Time       `json:"contractDate"`
	Amount       decimal.Decimal `json:"contractAmount"`
	Currency     string          `json:"currency"`
	Status       ContractStatus  `json:"status"`
	Program      *Program        `json:"program,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Program describes the educational service sold by a contract: how many
// sessions it includes and at what weekly cadence they are delivered.
type Program struct {
	ID              int32     `json:"id"`
	Name            string    `json:"name"`
	TotalSessions   int       `json:"totalSessions"`
	SessionsPerWeek int       `json:"sessionsPerWeek"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ContractRepository provides access to contracts
type ContractRepository interface {
	GetByID(id int32) (*Contract, error)
	// ListAccrualCandidates returns contracts whose contract_date is on or
	// before monthEnd, with their program preloaded. Finer candidate
	// filtering happens in the batch driver.
	ListAccrualCandidates(monthEnd time.Time) ([]*Contract, error)
	UpdateStatusTx(tx interface{}, id int32, status ContractStatus) error
}
