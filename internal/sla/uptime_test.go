package sla

import (
	"context"
	"testing"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var periodStart = time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

func minute(offset int) time.Time {
	return periodStart.Add(time.Duration(offset) * time.Minute)
}

func incident(startOffset int, endOffset *int) model.SlaIncident {
	inc := model.SlaIncident{StartedAt: minute(startOffset), Status: model.IncidentStatusOpen}
	if endOffset != nil {
		resolved := minute(*endOffset)
		inc.ResolvedAt = &resolved
		inc.Status = model.IncidentStatusResolved
	}
	return inc
}

func at(offset int) *int {
	return &offset
}

// stubIncidentSource returns a preset incident list regardless of the query period.
type stubIncidentSource struct {
	incidents []model.SlaIncident
	err       error
}

func (s *stubIncidentSource) ListIncidentsIntersecting(
	_ context.Context, _ string, _, _ time.Time,
) ([]model.SlaIncident, error) {
	return s.incidents, s.err
}

// stubAgreementSource returns a preset agreement.
type stubAgreementSource struct {
	agreement *model.SlaAgreement
	err       error
}

func (s *stubAgreementSource) GetActiveAgreement(_ context.Context, _ string) (*model.SlaAgreement, error) {
	return s.agreement, s.err
}

func testCalculator(target float64, incidents ...model.SlaIncident) *Calculator {
	calculator := NewCalculator(
		&stubIncidentSource{incidents: incidents},
		&stubAgreementSource{agreement: &model.SlaAgreement{UptimeTarget: target}},
	)
	calculator.Now = func() time.Time { return minute(44640) }
	return calculator
}

func TestMergeIntervals(t *testing.T) {
	merged := MergeIntervals([]Interval{
		{Start: minute(30), End: minute(90)},
		{Start: minute(0), End: minute(60)},
		{Start: minute(200), End: minute(210)},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, minute(0), merged[0].Start)
	assert.Equal(t, minute(90), merged[0].End)
	assert.Equal(t, minute(200), merged[1].Start)
}

func TestCalculateUptimeNoIncidents(t *testing.T) {
	calculator := testCalculator(99.9)

	// A 31-day period with no incidents is fully up.
	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(44640))
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.UptimePct)
	assert.Zero(t, report.DowntimeMinutes)
	assert.Equal(t, 44640.0, report.TotalMinutes)
	assert.True(t, report.SlaMet)
	assert.True(t, report.HasAgreement)
}

func TestCalculateUptimeSingleIncident(t *testing.T) {
	calculator := testCalculator(99.9, incident(100, at(160)))

	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(44640))
	require.NoError(t, err)
	assert.Equal(t, 60.0, report.DowntimeMinutes)
	assert.Equal(t, 99.8656, report.UptimePct)
	assert.False(t, report.SlaMet)
}

func TestCalculateUptimeOverlappingIncidents(t *testing.T) {
	// Two incidents covering [0, 60) and [30, 90) merge to 90 minutes, not 120.
	calculator := testCalculator(99.9, incident(0, at(60)), incident(30, at(90)))

	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(1000))
	require.NoError(t, err)
	assert.Equal(t, 90.0, report.DowntimeMinutes)
}

func TestCalculateUptimeOpenIncident(t *testing.T) {
	calculator := testCalculator(99.9, incident(500, nil))
	calculator.Now = func() time.Time { return minute(800) }

	// An open incident accrues downtime until now.
	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(1000))
	require.NoError(t, err)
	assert.Equal(t, 300.0, report.DowntimeMinutes)

	// An open incident is clipped to the period end when now falls beyond it.
	report, err = calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(600))
	require.NoError(t, err)
	assert.Equal(t, 100.0, report.DowntimeMinutes)
}

func TestCalculateUptimeIncidentSpanningPeriod(t *testing.T) {
	calculator := testCalculator(99.9, incident(-100, at(50)))

	// Only the portion of the incident inside the period counts.
	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(1000))
	require.NoError(t, err)
	assert.Equal(t, 50.0, report.DowntimeMinutes)
}

func TestCalculateUptimeFullOutage(t *testing.T) {
	calculator := testCalculator(99.9, incident(-10, at(2000)))

	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(1000))
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.UptimePct)
	assert.False(t, report.SlaMet)
}

func TestCalculateUptimeNoAgreement(t *testing.T) {
	calculator := NewCalculator(&stubIncidentSource{}, &stubAgreementSource{})

	// With no agreement there's no target to violate; the report flags the absence.
	report, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, minute(1000))
	require.NoError(t, err)
	assert.True(t, report.SlaMet)
	assert.False(t, report.HasAgreement)
}

func TestCalculateUptimeInvalidPeriod(t *testing.T) {
	calculator := testCalculator(99.9)

	_, err := calculator.CalculateUptime(context.Background(), "tenant-a", periodStart, periodStart)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = calculator.CalculateUptime(context.Background(), "tenant-a", minute(100), minute(50))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}
