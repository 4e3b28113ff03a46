package service

import (
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
	"github.com/shopspring/decimal"
)

var seven = decimal.NewFromInt(7)

// SessionsInRange computes how many sessions a period delivers within the
// civil date range [from, to], honoring the program's weekly cadence and the
// period-wide session cap. The cap spreads the period's scheduled sessions
// proportionally over its days, so holiday gaps average out across months.
// Returns 0 when from > to.
func SessionsInRange(period *domain.ServicePeriod, from, to time.Time, sessionsPerWeek, totalSessions int) int {
	days := util.DaysInclusive(from, to)
	if days == 0 {
		return 0
	}

	perWeek := decimal.NewFromInt(int64(sessionsPerWeek))
	weeks := decimal.NewFromInt(int64(days)).Div(seven)
	provisional := int(weeks.Mul(perWeek).Round(0).IntPart())

	totalDays := util.DaysInclusive(period.StartDate, period.EndDate)
	if totalDays == 0 {
		// degenerate period bounds; fall back to the cadence estimate
		return provisional
	}

	totalWeeks := decimal.NewFromInt(int64(totalDays)).Div(seven)
	periodCap := int(totalWeeks.Mul(perWeek).Round(0).IntPart())
	if totalSessions < periodCap {
		periodCap = totalSessions
	}

	sessions := decimal.NewFromInt(int64(periodCap)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(totalDays))).
		Round(0)
	if sessions.IsNegative() {
		return 0
	}
	return int(sessions.IntPart())
}
