package billing

import (
	"testing"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodBounds(t *testing.T) {
	instant := time.Date(2026, time.March, 10, 14, 35, 12, 0, time.UTC)

	start, end, err := PeriodBounds(model.PeriodTypeHourly, instant, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC), end)

	start, end, err = PeriodBounds(model.PeriodTypeDaily, instant, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), end)

	start, end, err = PeriodBounds(model.PeriodTypeMonthly, instant, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestPeriodBoundsTimezone(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 2026-03-31 23:30 UTC is already April in Madrid, so the monthly bucket is April's.
	instant := time.Date(2026, time.March, 31, 23, 30, 0, 0, time.UTC)
	start, end, err := PeriodBounds(model.PeriodTypeMonthly, instant, madrid)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, madrid).UTC(), start.UTC())
	assert.Equal(t, time.Date(2026, time.May, 1, 0, 0, 0, 0, madrid).UTC(), end.UTC())
}

func TestPeriodBoundsNilLocation(t *testing.T) {
	instant := time.Date(2026, time.March, 10, 14, 35, 12, 0, time.UTC)

	start, _, err := PeriodBounds(model.PeriodTypeDaily, instant, nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), start)
}

func TestPeriodBoundsInvalidType(t *testing.T) {
	_, _, err := PeriodBounds("weekly", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidPeriodType)
}

func TestSplitRange(t *testing.T) {
	rangeStart := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	periods, err := SplitRange(model.PeriodTypeMonthly, rangeStart, rangeEnd, time.UTC)
	require.NoError(t, err)

	// January through March, with the outer buckets extended to canonical boundaries.
	require.Len(t, periods, 3)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), periods[0].Start)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), periods[1].Start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), periods[2].End)
}

func TestSplitRangeInvalid(t *testing.T) {
	instant := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := SplitRange(model.PeriodTypeDaily, instant, instant, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
