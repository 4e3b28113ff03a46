package testutil

import (
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
)

// MockContractRepository is a mock implementation of domain.ContractRepository
type MockContractRepository struct {
	Contracts      map[int32]*domain.Contract
	StatusUpdates  []domain.ContractStatus
	CandidatesErr  error
	UpdateStatusFn func(id int32, status domain.ContractStatus) error
}

// NewMockContractRepository creates a new MockContractRepository
func NewMockContractRepository() *MockContractRepository {
	return &MockContractRepository{Contracts: make(map[int32]*domain.Contract)}
}

// GetByID retrieves a contract by ID
func (m *MockContractRepository) GetByID(id int32) (*domain.Contract, error) {
	if contract, ok := m.Contracts[id]; ok {
		return contract, nil
	}
	return nil, domain.ErrContractNotFound
}

// ListAccrualCandidates retrieves contracts signed on or before monthEnd
func (m *MockContractRepository) ListAccrualCandidates(monthEnd time.Time) ([]*domain.Contract, error) {
	if m.CandidatesErr != nil {
		return nil, m.CandidatesErr
	}
	var result []*domain.Contract
	for _, contract := range m.Contracts {
		if !contract.ContractDate.After(monthEnd) {
			result = append(result, contract)
		}
	}
	return result, nil
}

// UpdateStatusTx updates a contract's status
func (m *MockContractRepository) UpdateStatusTx(tx interface{}, id int32, status domain.ContractStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(id, status)
	}
	contract, ok := m.Contracts[id]
	if !ok {
		return domain.ErrContractNotFound
	}
	contract.Status = status
	m.StatusUpdates = append(m.StatusUpdates, status)
	return nil
}

// MockServicePeriodRepository is a mock implementation of
// domain.ServicePeriodRepository
type MockServicePeriodRepository struct {
	Periods map[int32][]*domain.ServicePeriod
}

// NewMockServicePeriodRepository creates a new MockServicePeriodRepository
func NewMockServicePeriodRepository() *MockServicePeriodRepository {
	return &MockServicePeriodRepository{Periods: make(map[int32][]*domain.ServicePeriod)}
}

// GetByContract retrieves a contract's periods
func (m *MockServicePeriodRepository) GetByContract(contractID int32) ([]*domain.ServicePeriod, error) {
	return m.Periods[contractID], nil
}

// MockContractAccrualRepository is a mock implementation of
// domain.ContractAccrualRepository
type MockContractAccrualRepository struct {
	Accruals       map[int32]*domain.ContractAccrual
	AccruedPeriods map[int32][]*domain.AccruedPeriod
	nextAccrualID  int32
	nextPeriodID   int32
}

// NewMockContractAccrualRepository creates a new MockContractAccrualRepository
func NewMockContractAccrualRepository() *MockContractAccrualRepository {
	return &MockContractAccrualRepository{
		Accruals:       make(map[int32]*domain.ContractAccrual),
		AccruedPeriods: make(map[int32][]*domain.AccruedPeriod),
	}
}

// GetByContract retrieves the accrual aggregate of a contract
func (m *MockContractAccrualRepository) GetByContract(contractID int32) (*domain.ContractAccrual, error) {
	for _, accrual := range m.Accruals {
		if accrual.ContractID == contractID {
			return accrual, nil
		}
	}
	return nil, domain.ErrAccrualNotFound
}

// CreateTx inserts a new accrual aggregate
func (m *MockContractAccrualRepository) CreateTx(tx interface{}, accrual *domain.ContractAccrual) (*domain.ContractAccrual, error) {
	m.nextAccrualID++
	accrual.ID = m.nextAccrualID
	m.Accruals[accrual.ID] = accrual
	return accrual, nil
}

// UpdateTx persists the aggregate's totals and status
func (m *MockContractAccrualRepository) UpdateTx(tx interface{}, accrual *domain.ContractAccrual) error {
	if _, ok := m.Accruals[accrual.ID]; !ok {
		return domain.ErrAccrualNotFound
	}
	m.Accruals[accrual.ID] = accrual
	return nil
}

// CreateAccruedPeriodTx inserts an accrued period row
func (m *MockContractAccrualRepository) CreateAccruedPeriodTx(tx interface{}, ap *domain.AccruedPeriod) (*domain.AccruedPeriod, error) {
	m.nextPeriodID++
	ap.ID = m.nextPeriodID
	m.AccruedPeriods[ap.ContractAccrualID] = append(m.AccruedPeriods[ap.ContractAccrualID], ap)
	return ap, nil
}

// ListAccruedPeriods retrieves an aggregate's accrued period rows
func (m *MockContractAccrualRepository) ListAccruedPeriods(accrualID int32) ([]*domain.AccruedPeriod, error) {
	return m.AccruedPeriods[accrualID], nil
}

// PeriodAccrualExists reports whether a row exists for (accrual, period,
// month)
func (m *MockContractAccrualRepository) PeriodAccrualExists(accrualID, periodID int32, accrualDate time.Time) (bool, error) {
	for _, ap := range m.AccruedPeriods[accrualID] {
		if ap.ServicePeriodID != nil && *ap.ServicePeriodID == periodID && ap.AccrualDate.Equal(accrualDate) {
			return true, nil
		}
	}
	return false, nil
}

// RemainderAccrualExists reports whether a full-remainder row exists for
// (accrual, month)
func (m *MockContractAccrualRepository) RemainderAccrualExists(accrualID int32, accrualDate time.Time) (bool, error) {
	for _, ap := range m.AccruedPeriods[accrualID] {
		if ap.ServicePeriodID == nil && ap.AccrualDate.Equal(accrualDate) {
			return true, nil
		}
	}
	return false, nil
}

// HasAccruedPeriods reports whether the aggregate has any rows
func (m *MockContractAccrualRepository) HasAccruedPeriods(accrualID int32) (bool, error) {
	return len(m.AccruedPeriods[accrualID]) > 0, nil
}

// MockInvoiceRepository is a mock implementation of domain.InvoiceRepository
type MockInvoiceRepository struct {
	Invoices map[int32][]*domain.Invoice
}

// NewMockInvoiceRepository creates a new MockInvoiceRepository
func NewMockInvoiceRepository() *MockInvoiceRepository {
	return &MockInvoiceRepository{Invoices: make(map[int32][]*domain.Invoice)}
}

// ListByContract retrieves a contract's invoices
func (m *MockInvoiceRepository) ListByContract(contractID int32) ([]*domain.Invoice, error) {
	return m.Invoices[contractID], nil
}

// MockClientRepository is a mock implementation of domain.ClientRepository
type MockClientRepository struct {
	Clients map[int32]*domain.Client
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{Clients: make(map[int32]*domain.Client)}
}

// GetByID retrieves a client by ID
func (m *MockClientRepository) GetByID(id int32) (*domain.Client, error) {
	if client, ok := m.Clients[id]; ok {
		return client, nil
	}
	return nil, domain.ErrClientNotFound
}

// MockLMSGateway is a mock implementation of domain.LMSGateway
type MockLMSGateway struct {
	ByExternalID map[string]*domain.LMSRecord
	ByEmail      map[string]*domain.LMSRecord
	Err          error
}

// NewMockLMSGateway creates a new MockLMSGateway
func NewMockLMSGateway() *MockLMSGateway {
	return &MockLMSGateway{
		ByExternalID: make(map[string]*domain.LMSRecord),
		ByEmail:      make(map[string]*domain.LMSRecord),
	}
}

// FetchPageByExternalID fetches a record by external id
func (m *MockLMSGateway) FetchPageByExternalID(id string) (*domain.LMSRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByExternalID[id], nil
}

// FetchPageByEmail fetches a record by email
func (m *MockLMSGateway) FetchPageByEmail(databaseID, email string) (*domain.LMSRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ByEmail[email], nil
}

// MockTxManager is a mock implementation of domain.TxManager that runs the
// callback with a nil transaction handle
type MockTxManager struct {
	Err error
}

// WithinTx runs fn immediately
func (m *MockTxManager) WithinTx(fn func(tx interface{}) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(nil)
}
