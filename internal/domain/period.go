package domain

import (
	"strings"
	"time"
)

// PeriodStatus is the status of a service period
type PeriodStatus string

const (
	PeriodStatusActive    PeriodStatus = "ACTIVE"
	PeriodStatusPostponed PeriodStatus = "POSTPONED"
	PeriodStatusDropped   PeriodStatus = "DROPPED"
	PeriodStatusEnded     PeriodStatus = "ENDED"
)

// EnrollmentClass groups LMS statuses into the three classes the accrual
// decision tree cares about
type EnrollmentClass string

const (
	EnrollmentActive  EnrollmentClass = "active"
	EnrollmentEnded   EnrollmentClass = "ended"
	EnrollmentDropped EnrollmentClass = "dropped"
)

// ServicePeriod is one contiguous enrollment in the LMS. A postponement
// creates a second period that takes over on the postponement date, so a
// contract's periods may overlap.
type ServicePeriod struct {
	ID               int32        `json:"id"`
	ContractID       int32        `json:"contractId"`
	ExternalID       string       `json:"externalId"`
	Name             string       `json:"name"`
	StartDate        time.Time    `json:"startDate"`
	EndDate          time.Time    `json:"endDate"`
	Status           PeriodStatus `json:"status"`
	StatusChangeDate *time.Time   `json:"statusChangeDate,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Overlaps reports whether the period's [start, end] intersects [from, to]
func (p *ServicePeriod) Overlaps(from, to time.Time) bool {
	return !p.StartDate.After(to) && !p.EndDate.Before(from)
}

// Contains reports whether d falls within [start, end]
func (p *ServicePeriod) Contains(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// lmsStatusMap maps normalized LMS educational statuses to period statuses.
// Anything unknown is treated as ACTIVE.
var lmsStatusMap = map[string]PeriodStatus{
	"ACTIVE":          PeriodStatusActive,
	"GRADUATED":       PeriodStatusEnded,
	"NOT_COMPLETING":  PeriodStatusEnded,
	"ENDED":           PeriodStatusEnded,
	"POSTPONED":       PeriodStatusPostponed,
	"EARLY_POSTPONED": PeriodStatusPostponed,
	"DROPPED":         PeriodStatusDropped,
	"EARLY_DROPPED":   PeriodStatusDropped,
	"SUSPENDED":       PeriodStatusDropped,
}

// NormalizeLMSStatus uppercases an LMS status string and collapses
// whitespace into underscores ("early postponed" -> "EARLY_POSTPONED")
func NormalizeLMSStatus(raw string) string {
	fields := strings.Fields(strings.ToUpper(strings.TrimSpace(raw)))
	return strings.Join(fields, "_")
}

// PeriodStatusFromLMS maps an LMS educational status to a period status
func PeriodStatusFromLMS(raw string) PeriodStatus {
	if status, ok := lmsStatusMap[NormalizeLMSStatus(raw)]; ok {
		return status
	}
	return PeriodStatusActive
}

// ClassifyPeriodStatus buckets a period status into the resignation classes
func ClassifyPeriodStatus(status PeriodStatus) EnrollmentClass {
	switch status {
	case PeriodStatusEnded:
		return EnrollmentEnded
	case PeriodStatusDropped:
		return EnrollmentDropped
	default:
		return EnrollmentActive
	}
}

// ServicePeriodRepository provides access to a contract's service periods
type ServicePeriodRepository interface {
	GetByContract(contractID int32) ([]*ServicePeriod, error)
}
