package service

import (
	"sort"
	"time"

	"github.com/brightpath/ledger-backend/internal/domain"
	"github.com/brightpath/ledger-backend/internal/util"
	"github.com/samber/lo"
)

// ResolveAccrualPeriod selects the period that is authoritative for the
// month containing target, or nil when none overlaps it.
//
// When several periods overlap the month the contract is mid-postponement:
// the original period hands service over to a continuing period on the
// postponement date. A postponement landing in the first half of the month
// gives the month to the continuing period; in the second half the original
// period keeps it.
func ResolveAccrualPeriod(periods []*domain.ServicePeriod, target time.Time) *domain.ServicePeriod {
	monthStart, monthEnd := util.MonthBounds(target)

	overlapping := lo.Filter(periods, func(p *domain.ServicePeriod, _ int) bool {
		return p.Overlaps(monthStart, monthEnd)
	})
	if len(overlapping) == 0 {
		return nil
	}
	if len(overlapping) == 1 {
		return overlapping[0]
	}

	// Postponement transitions are considered over all periods, not only the
	// overlapping ones: an old postponed period may govern a month it no
	// longer touches.
	postponed := lo.Filter(periods, func(p *domain.ServicePeriod, _ int) bool {
		return p.Status == domain.PeriodStatusPostponed && p.StatusChangeDate != nil
	})
	sort.Slice(postponed, func(i, j int) bool {
		return postponed[i].StatusChangeDate.Before(*postponed[j].StatusChangeDate)
	})

	for _, pp := range postponed {
		changeDate := util.ToDay(*pp.StatusChangeDate)
		switch {
		case monthEnd.Before(changeDate):
			// Postponement has not happened yet in this month
			if lo.Contains(overlapping, pp) {
				return pp
			}
		case !changeDate.Before(monthStart) && !changeDate.After(monthEnd):
			// Handover happens inside this month
			cp := continuingPeriod(periods, overlapping, pp, changeDate, monthStart, monthEnd)
			if cp == nil {
				continue
			}
			if periodsOverlapInTime(pp, cp) {
				if !changeDate.After(util.MidMonth(target)) {
					return cp
				}
				if lo.Contains(overlapping, pp) {
					return pp
				}
			}
			return cp
		default:
			// Handover happened in an earlier month
			if cp := continuingPeriod(periods, overlapping, pp, changeDate, monthStart, monthEnd); cp != nil {
				return cp
			}
		}
	}

	actives := lo.Filter(overlapping, func(p *domain.ServicePeriod, _ int) bool {
		return p.Status == domain.PeriodStatusActive
	})
	if len(actives) > 0 {
		return latestStarting(actives)
	}
	return latestStarting(overlapping)
}

// continuingPeriod finds the period that takes over service delivery after
// pp's postponement date.
func continuingPeriod(all, overlapping []*domain.ServicePeriod, pp *domain.ServicePeriod, changeDate, monthStart, monthEnd time.Time) *domain.ServicePeriod {
	eligible := func(p *domain.ServicePeriod) bool {
		if p.ID == pp.ID {
			return false
		}
		switch p.Status {
		case domain.PeriodStatusActive, domain.PeriodStatusEnded, domain.PeriodStatusDropped:
			return true
		}
		return false
	}

	containing := lo.Filter(overlapping, func(p *domain.ServicePeriod, _ int) bool {
		return eligible(p) && p.Contains(changeDate)
	})
	if len(containing) > 0 {
		actives := lo.Filter(containing, func(p *domain.ServicePeriod, _ int) bool {
			return p.Status == domain.PeriodStatusActive
		})
		if len(actives) > 0 {
			return latestStarting(actives)
		}
		return latestStarting(containing)
	}

	// No period spans the handover date; take the first one that starts
	// after it and still touches the target month
	later := lo.Filter(all, func(p *domain.ServicePeriod, _ int) bool {
		return eligible(p) && p.StartDate.After(changeDate) && p.Overlaps(monthStart, monthEnd)
	})
	if len(later) == 0 {
		return nil
	}
	return lo.MinBy(later, func(a, b *domain.ServicePeriod) bool {
		return a.StartDate.Before(b.StartDate)
	})
}

func latestStarting(periods []*domain.ServicePeriod) *domain.ServicePeriod {
	return lo.MaxBy(periods, func(a, b *domain.ServicePeriod) bool {
		return a.StartDate.After(b.StartDate)
	})
}

func periodsOverlapInTime(a, b *domain.ServicePeriod) bool {
	return !a.StartDate.After(b.EndDate) && !b.StartDate.After(a.EndDate)
}
