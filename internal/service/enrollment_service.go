package service

import (
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
)

// EnrollmentStatus is the reconciled view of a client's LMS record
type EnrollmentStatus struct {
	RawStatus        string
	PeriodStatus     domain.PeriodStatus
	Class            domain.EnrollmentClass
	StatusChangeDate *time.Time
}

// EnrollmentService reconciles a client against the LMS: it locates the
// client's page and extracts the educational status and its change date.
type EnrollmentService struct {
	gateway           domain.LMSGateway
	clientsDatabaseID string
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(gateway domain.LMSGateway, clientsDatabaseID string) *EnrollmentService {
	return &EnrollmentService{
		gateway:           gateway,
		clientsDatabaseID: clientsDatabaseID,
	}
}

// Lookup fetches the client's LMS record by its stored external id. Only
// clients without a linked id are queried by email; a linked id that resolves
// to nothing means the record is gone, not mislinked. Returns (nil, nil) when
// the client cannot be located.
func (s *EnrollmentService) Lookup(client *domain.Client) (*EnrollmentStatus, error) {
	if client == nil {
		return nil, nil
	}

	var record *domain.LMSRecord
	if externalID, ok := client.ExternalID(domain.ExternalSystemLMS); ok {
		r, err := s.gateway.FetchPageByExternalID(externalID)
		if err != nil {
			return nil, err
		}
		record = r
	} else if client.Email != "" {
		r, err := s.gateway.FetchPageByEmail(s.clientsDatabaseID, client.Email)
		if err != nil {
			return nil, err
		}
		record = r
	}
	if record == nil {
		return nil, nil
	}

	normalized := domain.NormalizeLMSStatus(record.EducationalStatus)
	periodStatus := domain.PeriodStatusFromLMS(normalized)

	// Drop date wins over the certification date when both are present
	raw := record.DropDate
	if raw == nil {
		raw = record.CertificatedAt
	}
	var changeDate *time.Time
	if raw != nil {
		d := util.ToDay(*raw)
		changeDate = &d
	}

	return &EnrollmentStatus{
		RawStatus:        normalized,
		PeriodStatus:     periodStatus,
		Class:            domain.ClassifyPeriodStatus(periodStatus),
		StatusChangeDate: changeDate,
	}, nil
}
