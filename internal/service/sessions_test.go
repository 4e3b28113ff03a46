package service

import (
	"testing"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSessionsInRange_FullMonths(t *testing.T) {
	// 121-day period at 6 sessions/week: 104 scheduled sessions under the
	// 120-session program cap
	period := &domain.ServicePeriod{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 4, 30),
	}

	jan := SessionsInRange(period, day(2024, 1, 1), day(2024, 1, 31), 6, 120)
	assert.Equal(t, 27, jan)

	feb := SessionsInRange(period, day(2024, 2, 1), day(2024, 2, 29), 6, 120)
	assert.Equal(t, 25, feb)
}

func TestSessionsInRange_ProgramCapApplies(t *testing.T) {
	// 151-day period at 6 sessions/week schedules 129 sessions; the program
	// only sells 120, so the cap binds
	period := &domain.ServicePeriod{
		StartDate: day(2024, 12, 1),
		EndDate:   day(2025, 4, 30),
	}

	sessions := SessionsInRange(period, day(2025, 1, 1), day(2025, 1, 15), 6, 120)
	assert.Equal(t, 12, sessions)
}

func TestSessionsInRange_EmptyRange(t *testing.T) {
	period := &domain.ServicePeriod{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 4, 30),
	}

	assert.Equal(t, 0, SessionsInRange(period, day(2024, 2, 2), day(2024, 2, 1), 6, 120))
}

func TestSessionsInRange_SingleDay(t *testing.T) {
	period := &domain.ServicePeriod{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 4, 30),
	}

	// 104 * 1/121 rounds to 1
	assert.Equal(t, 1, SessionsInRange(period, day(2024, 3, 1), day(2024, 3, 1), 6, 120))
}

func TestSessionsInRange_WholePeriodEqualsCap(t *testing.T) {
	period := &domain.ServicePeriod{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 4, 30),
	}

	total := SessionsInRange(period, day(2024, 1, 1), day(2024, 4, 30), 6, 120)
	assert.Equal(t, 104, total)
}

func TestSessionsInRange_DegeneratePeriodBounds(t *testing.T) {
	// End before start: fall back to the cadence estimate for the range
	period := &domain.ServicePeriod{
		StartDate: day(2024, 2, 1),
		EndDate:   day(2024, 1, 1),
	}

	// 14 days at 2/week
	assert.Equal(t, 4, SessionsInRange(period, day(2024, 3, 1), day(2024, 3, 14), 2, 100))
}

func TestSessionsInRange_ZeroCadence(t *testing.T) {
	period := &domain.ServicePeriod{
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 3, 31),
	}

	assert.Equal(t, 0, SessionsInRange(period, day(2024, 1, 1), day(2024, 1, 31), 0, 120))
}
