package domain

import "time"

// External system keys for client external ids
const (
	ExternalSystemLMS = "lms"
	ExternalSystemCRM = "crm"
)

// Client is the person or organization behind a contract. ExternalIDs maps
// an external system name to the client's id in that system.
type Client struct {
	ID          int32             `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	ExternalIDs map[string]string `json:"externalIds,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ExternalID returns the client's id in the given external system
func (c *Client) ExternalID(system string) (string, bool) {
	id, ok := c.ExternalIDs[system]
	return id, ok && id != ""
}

// ClientRepository provides access to clients
type ClientRepository interface {
	GetByID(id int32) (*Client, error)
}

// LMSRecord is the slice of an LMS page the accrual pipeline consumes: the
// educational status select value and the two candidate status-change dates.
type LMSRecord struct {
	EducationalStatus string
	DropDate          *time.Time
	CertificatedAt    *time.Time
}

// LMSGateway fetches enrollment pages from the learning-management system.
// Both lookups return (nil, nil) when no page matches.
type LMSGateway interface {
	FetchPageByExternalID(id string) (*LMSRecord, error)
	FetchPageByEmail(databaseID, email string) (*LMSRecord, error)
}
