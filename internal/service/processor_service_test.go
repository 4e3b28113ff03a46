package service

import (
	"testing"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type processorFixture struct {
	processor    *AccrualProcessor
	contractRepo *testutil.MockContractRepository
	periodRepo   *testutil.MockServicePeriodRepository
	accrualRepo  *testutil.MockContractAccrualRepository
	invoiceRepo  *testutil.MockInvoiceRepository
	clientRepo   *testutil.MockClientRepository
	gateway      *testutil.MockLMSGateway
}

func newProcessorFixture() *processorFixture {
	contractRepo := testutil.NewMockContractRepository()
	periodRepo := testutil.NewMockServicePeriodRepository()
	accrualRepo := testutil.NewMockContractAccrualRepository()
	invoiceRepo := testutil.NewMockInvoiceRepository()
	clientRepo := testutil.NewMockClientRepository()
	gateway := testutil.NewMockLMSGateway()

	ledger := NewLedgerService(accrualRepo, contractRepo)
	enrollment := NewEnrollmentService(gateway, "db-1")
	processor := NewAccrualProcessor(ledger, contractRepo, periodRepo, invoiceRepo, clientRepo, enrollment, &testutil.MockTxManager{})

	return &processorFixture{
		processor:    processor,
		contractRepo: contractRepo,
		periodRepo:   periodRepo,
		accrualRepo:  accrualRepo,
		invoiceRepo:  invoiceRepo,
		clientRepo:   clientRepo,
		gateway:      gateway,
	}
}

func (f *processorFixture) addContract(contract *domain.Contract, periods ...*domain.ServicePeriod) {
	f.contractRepo.Contracts[contract.ID] = contract
	f.periodRepo.Periods[contract.ID] = periods
	f.clientRepo.Clients[contract.ClientID] = &domain.Client{
		ID: contract.ClientID, Email: "student@example.com",
	}
}

func (f *processorFixture) accrualRows(t *testing.T, contractID int32) []*domain.AccruedPeriod {
	t.Helper()
	accrual, err := f.accrualRepo.GetByContract(contractID)
	require.NoError(t, err)
	rows, err := f.accrualRepo.ListAccruedPeriods(accrual.ID)
	require.NoError(t, err)
	return rows
}

func TestProcess_ActivePeriodAccruesMonthByMonth(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status: domain.PeriodStatusActive,
	})
	notes := &domain.NotificationLog{}

	jan := f.processor.Process(contract, day(2024, 1, 1), notes)
	require.Equal(t, domain.ResultSuccess, jan.Status)

	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "1080.00", rows[0].AccruedAmount.StringFixed(2))
	assert.Equal(t, 27, rows[0].SessionsInPeriod)
	assert.Equal(t, day(2024, 1, 1), rows[0].AccrualDate)

	feb := f.processor.Process(contract, day(2024, 2, 1), notes)
	require.Equal(t, domain.ResultSuccess, feb.Status)

	rows = f.accrualRows(t, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, "1000.00", rows[1].AccruedAmount.StringFixed(2))
	assert.Equal(t, 25, rows[1].SessionsInPeriod)

	accrual, _ := f.accrualRepo.GetByContract(1)
	assert.Equal(t, "2720.00", accrual.RemainingAmountToAccrue.StringFixed(2))
	assert.Empty(t, notes.Items())
}

func TestProcess_ReprocessingSameMonthIsSkipped(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status: domain.PeriodStatusActive,
	})
	notes := &domain.NotificationLog{}

	first := f.processor.Process(contract, day(2024, 1, 1), notes)
	require.Equal(t, domain.ResultSuccess, first.Status)

	second := f.processor.Process(contract, day(2024, 1, 1), notes)
	assert.Equal(t, domain.ResultSkipped, second.Status)
	assert.Len(t, f.accrualRows(t, 1), 1)
}

func TestProcess_PostponementAccruesUpToChangeDateAndPauses(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2024, 12, 1)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 12, 1), EndDate: day(2025, 4, 30),
		Status:           domain.PeriodStatusPostponed,
		StatusChangeDate: datePtr(2025, 1, 15),
	})
	notes := &domain.NotificationLog{}

	jan := f.processor.Process(contract, day(2025, 1, 1), notes)
	require.Equal(t, domain.ResultSuccess, jan.Status)

	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "480.00", rows[0].AccruedAmount.StringFixed(2))
	assert.Equal(t, 12, rows[0].SessionsInPeriod)

	accrual, _ := f.accrualRepo.GetByContract(1)
	assert.Equal(t, domain.AccrualStatusPaused, accrual.Status)
	assert.Equal(t, domain.ContractStatusActive, contract.Status)
}

func TestProcess_MonthsAfterPostponementProduceNoRows(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2024, 12, 1)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 12, 1), EndDate: day(2025, 4, 30),
		Status:           domain.PeriodStatusPostponed,
		StatusChangeDate: datePtr(2025, 1, 15),
	})
	notes := &domain.NotificationLog{}

	require.Equal(t, domain.ResultSuccess, f.processor.Process(contract, day(2025, 1, 1), notes).Status)

	feb := f.processor.Process(contract, day(2025, 2, 1), notes)
	assert.Equal(t, domain.ResultSuccess, feb.Status)

	mar := f.processor.Process(contract, day(2025, 3, 1), notes)
	assert.Equal(t, domain.ResultSuccess, mar.Status)

	assert.Len(t, f.accrualRows(t, 1), 1)
}

func TestProcess_DroppedPeriodAccruesRemainderAndCancels(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 12, 1)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status:           domain.PeriodStatusDropped,
		StatusChangeDate: datePtr(2024, 2, 10),
	})
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 2, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ServicePeriodID)
	assert.Equal(t, "4800.00", rows[0].AccruedAmount.StringFixed(2))
	// The explicit cancellation wins over the positive-amount cascade
	assert.Equal(t, domain.ContractStatusCanceled, contract.Status)
}

func TestProcess_EndedPeriodAccruesRemainderAndCloses(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 12, 1)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status:           domain.PeriodStatusEnded,
		StatusChangeDate: datePtr(2024, 4, 20),
	})
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 4, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	assert.Equal(t, domain.ContractStatusClosed, contract.Status)

	accrual, _ := f.accrualRepo.GetByContract(1)
	assert.Equal(t, domain.AccrualStatusCompleted, accrual.Status)
	assert.True(t, accrual.RemainingAmountToAccrue.IsZero())
}

func TestProcess_LateBilledContractClosesImmediately(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2024, 6, 29)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2022, 9, 1), EndDate: day(2022, 12, 31),
		Status: domain.PeriodStatusEnded,
	})
	f.invoiceRepo.Invoices[1] = []*domain.Invoice{
		{ID: 1, ContractID: 1, InvoiceNumber: "INV-1", InvoiceDate: day(2024, 6, 29), TotalAmount: decimal.NewFromInt(4800)},
	}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 6, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	assert.Equal(t, domain.ContractStatusClosed, contract.Status)

	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "4800.00", rows[0].AccruedAmount.StringFixed(2))
	assert.Equal(t, day(2024, 6, 1), rows[0].AccrualDate)
}

func TestProcess_CanceledContractWithDroppedPeriods(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.Status = domain.ContractStatusCanceled
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status:           domain.PeriodStatusDropped,
		StatusChangeDate: datePtr(2024, 1, 20),
	})
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 2, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "4800.00", rows[0].AccruedAmount.StringFixed(2))
	assert.Empty(t, notes.Items())
}

func TestProcess_CanceledContractWithLivePeriodsNotifies(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.Status = domain.ContractStatusCanceled
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status: domain.PeriodStatusActive,
	})
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 2, 1), notes)

	assert.Equal(t, domain.ResultSkipped, result.Status)
	items := notes.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationNotCongruentStatus, items[0].Type)
	assert.Empty(t, f.accrualRows(t, 1))
}

func TestProcess_NoPeriodsUnknownClientRecentContract(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2024, 1, 25)
	f.addContract(contract)
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	assert.Equal(t, domain.ResultSkipped, result.Status)
	require.Len(t, notes.Items(), 1)
	assert.Empty(t, f.accrualRows(t, 1))
	assert.Equal(t, domain.ContractStatusActive, contract.Status)
}

func TestProcess_NoPeriodsUnknownClientOldContractResigns(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	assert.Equal(t, domain.ContractStatusCanceled, contract.Status)
	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "4800.00", rows[0].AccruedAmount.StringFixed(2))
}

func TestProcess_NoPeriodsDroppedClientResigns(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	drop := day(2023, 12, 10)
	f.gateway.ByEmail["student@example.com"] = &domain.LMSRecord{
		EducationalStatus: "early dropped",
		DropDate:          &drop,
	}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	assert.Equal(t, domain.ContractStatusCanceled, contract.Status)
}

func TestProcess_NoPeriodsGraduatedClientCloses(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	f.gateway.ByEmail["student@example.com"] = &domain.LMSRecord{EducationalStatus: "graduated"}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	assert.Equal(t, domain.ContractStatusClosed, contract.Status)
}

func TestProcess_NoPeriodsActiveClientNotifies(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	f.gateway.ByEmail["student@example.com"] = &domain.LMSRecord{EducationalStatus: "active"}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	assert.Equal(t, domain.ResultSkipped, result.Status)
	require.Len(t, notes.Items(), 1)
	assert.Equal(t, domain.ContractStatusActive, contract.Status)
}

func TestProcess_ZeroAmountContractDatedByCreditNote(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 0)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	drop := day(2023, 12, 10)
	f.gateway.ByEmail["student@example.com"] = &domain.LMSRecord{
		EducationalStatus: "dropped",
		DropDate:          &drop,
	}
	f.invoiceRepo.Invoices[1] = []*domain.Invoice{
		{ID: 1, ContractID: 1, InvoiceNumber: "CN-7", InvoiceDate: day(2023, 11, 20), TotalAmount: decimal.NewFromInt(-4800)},
	}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].AccruedAmount.IsZero())
	assert.Equal(t, day(2023, 11, 1), rows[0].AccrualDate)
	assert.Equal(t, domain.ContractStatusCanceled, contract.Status)
}

func TestProcess_NegativeAmountContractCancels(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, -300)
	contract.ContractDate = day(2023, 6, 1)
	f.addContract(contract)
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	require.Equal(t, domain.ResultSuccess, result.Status)
	rows := f.accrualRows(t, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "-300.00", rows[0].AccruedAmount.StringFixed(2))
	assert.Equal(t, domain.ContractStatusCanceled, contract.Status)
}

func TestProcess_CompletedAggregateIsSkipped(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.Status = domain.ContractStatusClosed
	f.addContract(contract)
	accrual := &domain.ContractAccrual{
		ContractID:          1,
		TotalAmountToAccrue: decimal.NewFromInt(4800),
		TotalAmountAccrued:  decimal.NewFromInt(4800),
		Status:              domain.AccrualStatusCompleted,
	}
	_, err := f.accrualRepo.CreateTx(nil, accrual)
	require.NoError(t, err)
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 1, 1), notes)

	assert.Equal(t, domain.ResultSkipped, result.Status)
	assert.Empty(t, f.accrualRows(t, 1))
}

func TestProcess_SettledZeroAmountContractGetsAuditRow(t *testing.T) {
	for _, status := range []domain.ContractStatus{domain.ContractStatusCanceled, domain.ContractStatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			f := newProcessorFixture()
			contract := activeContract(1, 0)
			contract.Status = status
			contract.ContractDate = day(2023, 3, 1)
			f.addContract(contract)
			accrual := &domain.ContractAccrual{
				ContractID:          1,
				TotalAmountToAccrue: decimal.Zero,
				TotalAmountAccrued:  decimal.Zero,
				Status:              domain.AccrualStatusCompleted,
			}
			_, err := f.accrualRepo.CreateTx(nil, accrual)
			require.NoError(t, err)
			notes := &domain.NotificationLog{}

			result := f.processor.Process(contract, day(2024, 1, 1), notes)

			assert.Equal(t, domain.ResultSkipped, result.Status)
			rows := f.accrualRows(t, 1)
			require.Len(t, rows, 1)
			assert.True(t, rows[0].AccruedAmount.IsZero())
			assert.Equal(t, day(2024, 1, 1), rows[0].AccrualDate)

			// Reprocessing the same month never duplicates the audit row
			again := f.processor.Process(contract, day(2024, 1, 1), notes)
			assert.Equal(t, domain.ResultSkipped, again.Status)
			assert.Len(t, f.accrualRows(t, 1), 1)
		})
	}
}

func TestProcess_RepositoryErrorSurfacesAsFailed(t *testing.T) {
	f := newProcessorFixture()
	contract := activeContract(1, 4800)
	contract.ContractDate = day(2023, 12, 1)
	f.addContract(contract, &domain.ServicePeriod{
		ID: 10, ContractID: 1,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 4, 30),
		Status:           domain.PeriodStatusDropped,
		StatusChangeDate: datePtr(2024, 2, 10),
	})
	f.contractRepo.UpdateStatusFn = func(id int32, status domain.ContractStatus) error {
		return domain.ErrInternalError
	}
	notes := &domain.NotificationLog{}

	result := f.processor.Process(contract, day(2024, 2, 1), notes)

	assert.Equal(t, domain.ResultFailed, result.Status)
	assert.NotEmpty(t, result.Message)
}
