package service

import (
	"time"

	"github.com/SANJIKS/sos-backend-sub001/internal/model"
)

func scheduleMonths(t model.DonationType) int {
	switch t {
	case model.DonationTypeMonthly:
		return 1
	case model.DonationTypeQuarterly:
		return 3
	case model.DonationTypeYearly:
		return 12
	default:
		return 0
	}
}

// AddBillingInterval returns the payment date one billing period after from.
// Returns false for non-recurring types.
func AddBillingInterval(t model.DonationType, from time.Time) (time.Time, bool) {
	months := scheduleMonths(t)
	if months == 0 {
		return time.Time{}, false
	}

	return addMonthsClamped(from, months), true
}

// NextChargeDate advances the schedule after a successful charge. The next
// date is anchored to the scheduled date, not the processing time, so a late
// charge does not drift the cadence. Periods missed entirely (a paused worker,
// a long outage) are skipped rather than billed twice.
func NextChargeDate(t model.DonationType, scheduled, chargedAt time.Time) (time.Time, bool) {
	months := scheduleMonths(t)
	if months == 0 {
		return time.Time{}, false
	}

	next := addMonthsClamped(scheduled, months)
	for !next.After(chargedAt) {
		next = addMonthsClamped(next, months)
	}

	return next, true
}

// addMonthsClamped adds calendar months, clamping the day to the end of the
// target month. Jan 31 plus one month is Feb 28 (29 in leap years), never
// Mar 2. time.AddDate would normalize the overflow instead of clamping.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()

	m := int(month) + months
	year += (m - 1) / 12
	month = time.Month((m-1)%12 + 1)

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	hour, minute, sec := t.Clock()

	return time.Date(year, month, day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
