package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ResultStatus is the per-contract outcome of one processing attempt
type ResultStatus string

const (
	ResultSuccess ResultStatus = "SUCCESS"
	ResultSkipped ResultStatus = "SKIPPED"
	ResultFailed  ResultStatus = "FAILED"
)

// ProcessResult is the outcome of processing one contract for one month
type ProcessResult struct {
	ContractID int32        `json:"contractId"`
	PeriodID   *int32       `json:"periodId,omitempty"`
	Status     ResultStatus `json:"status"`
	Message    string       `json:"message"`
}

// NotificationType classifies batch notifications
type NotificationType string

// NotificationNotCongruentStatus flags disagreement between internal records
// and the external systems (missing CRM profile, status mismatch, canceled
// contract with live periods)
const NotificationNotCongruentStatus NotificationType = "not_congruent_status"

// Notification surfaces an external-data inconsistency found while
// processing. Surfacing it is the only action taken; nothing is retried.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// NotificationLog is the append-only, batch-scoped list of notifications.
// Guarded by a mutex so batches may fan out across contracts.
type NotificationLog struct {
	mu    sync.Mutex
	items []Notification
}

// Add appends a notification to the log
func (l *NotificationLog) Add(t NotificationType, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, Notification{
		ID:        uuid.New(),
		Type:      t,
		Message:   message,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	})
}

// Items returns a copy of the collected notifications
func (l *NotificationLog) Items() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Notification, len(l.items))
	copy(out, l.items)
	return out
}

// BatchSummary aggregates per-contract outcomes of one batch run
type BatchSummary struct {
	TotalProcessed int `json:"totalProcessed"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`
}

// BatchReport is the full result of one process-contracts run
type BatchReport struct {
	PeriodStartDate   time.Time       `json:"periodStartDate"`
	Summary           BatchSummary    `json:"summary"`
	ProcessingResults []ProcessResult `json:"processingResults"`
	Notifications     []Notification  `json:"notifications"`
}
