package billing

import (
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidPeriod indicates that a period's end doesn't fall after its start.
	ErrInvalidPeriod = errors.New("the period end must fall after the period start")

	// ErrInvalidPeriodType indicates that a period type isn't one of the accepted types.
	ErrInvalidPeriodType = errors.New("unrecognized period type")
)

// PeriodBounds returns the canonical aggregation bucket containing the given instant. Hourly and daily buckets align
// with wall-clock hour and day boundaries in the given location; monthly buckets align with calendar month
// boundaries in the given location. A nil location defaults to UTC.
func PeriodBounds(periodType string, t time.Time, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)

	var start, end time.Time
	switch periodType {
	case model.PeriodTypeHourly:
		start = time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
		end = start.Add(time.Hour)
	case model.PeriodTypeDaily:
		start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)
	case model.PeriodTypeMonthly:
		start = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriodType
	}

	return start, end, nil
}

// Period represents one canonical aggregation bucket as a half-open interval.
type Period struct {
	Start time.Time
	End   time.Time
}

// SplitRange expands a time range into the list of canonical buckets that cover it. The first and last buckets may
// extend beyond the range so that every bucket has canonical boundaries.
func SplitRange(periodType string, rangeStart, rangeEnd time.Time, loc *time.Location) ([]Period, error) {
	if !rangeEnd.After(rangeStart) {
		return nil, ErrInvalidPeriod
	}

	var periods []Period
	start, end, err := PeriodBounds(periodType, rangeStart, loc)
	if err != nil {
		return nil, err
	}
	for start.Before(rangeEnd) {
		periods = append(periods, Period{Start: start, End: end})
		start = end
		_, end, err = PeriodBounds(periodType, start, loc)
		if err != nil {
			return nil, err
		}
	}

	return periods, nil
}
