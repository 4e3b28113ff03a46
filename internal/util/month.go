package util

import "time"

// MonthStart returns the first civil day of the month containing d
func MonthStart(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last civil day of the month containing d (28-31)
func MonthEnd(d time.Time) time.Time {
	// Day 0 of the next month is the last day of this one
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last civil day of the month containing d
func MonthBounds(d time.Time) (time.Time, time.Time) {
	return MonthStart(d), MonthEnd(d)
}

// MidMonth returns the mid-month pivot used for postponement arbitration
// (month start plus 15 days)
func MidMonth(d time.Time) time.Time {
	return MonthStart(d).AddDate(0, 0, 15)
}

// SameMonth returns true if a and b fall in the same year and month
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ToDay truncates a timestamp to its civil date at UTC midnight
func ToDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysInclusive returns the number of civil days in [a, b], or 0 when a > b
func DaysInclusive(a, b time.Time) int {
	if a.After(b) {
		return 0
	}
	return int(ToDay(b).Sub(ToDay(a)).Hours()/24) + 1
}

// MonthsElapsed returns the number of whole months between from and to.
// Returns 0 when to is before from.
func MonthsElapsed(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// MaxDate returns the later of a and b
func MaxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b
func MinDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
