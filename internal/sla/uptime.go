// Package sla computes uptime percentages and service credits from incident history.
package sla

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "sla"})

// ErrInvalidPeriod indicates that a report period's end doesn't fall after its start.
var ErrInvalidPeriod = errors.New("the period end must fall after the period start")

// Interval is a half-open time interval.
type Interval struct {
	Start time.Time
	End   time.Time
}

// MergeIntervals returns the union of a set of intervals, combining any that overlap or touch. Merging before
// summing keeps overlapping incidents from being counted as downtime twice.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, interval := range sorted[1:] {
		last := &merged[len(merged)-1]
		if interval.Start.After(last.End) {
			merged = append(merged, interval)
			continue
		}
		if interval.End.After(last.End) {
			last.End = interval.End
		}
	}

	return merged
}

// IncidentSource lists the incidents for a tenant whose intervals intersect a time period.
type IncidentSource interface {
	ListIncidentsIntersecting(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) ([]model.SlaIncident, error)
}

// AgreementSource looks up a tenant's currently active service level agreement. A nil agreement with a nil error
// means that no agreement is defined for the tenant.
type AgreementSource interface {
	GetActiveAgreement(ctx context.Context, tenantID string) (*model.SlaAgreement, error)
}

// UptimeReport describes a tenant's availability over one report period.
type UptimeReport struct {
	// The uptime percentage, rounded to four decimal places
	UptimePct float64 `json:"uptime_pct"`

	// The merged downtime within the period, in minutes
	DowntimeMinutes float64 `json:"downtime_minutes"`

	// The length of the period, in minutes
	TotalMinutes float64 `json:"total_minutes"`

	// Whether or not the uptime meets the agreement target; true by convention when no agreement exists
	SlaMet bool `json:"sla_met"`

	// Whether or not the tenant has an active agreement
	HasAgreement bool `json:"has_agreement"`

	// The agreement's uptime target, absent when no agreement exists
	UptimeTarget float64 `json:"uptime_target,omitempty"`
}

// Calculator computes uptime reports for tenants from their incident history.
type Calculator struct {
	Incidents  IncidentSource
	Agreements AgreementSource
	Now        func() time.Time
}

// NewCalculator returns a new uptime calculator backed by the given sources.
func NewCalculator(incidents IncidentSource, agreements AgreementSource) *Calculator {
	return &Calculator{Incidents: incidents, Agreements: agreements, Now: time.Now}
}

// clipIncident clips an incident's interval to a report period. Incidents that are still open run until now. The
// second return value is false when nothing of the incident falls within the period.
func (c *Calculator) clipIncident(incident *model.SlaIncident, periodStart, periodEnd time.Time) (Interval, bool) {
	start := incident.StartedAt
	if start.Before(periodStart) {
		start = periodStart
	}

	end := c.Now()
	if incident.ResolvedAt != nil {
		end = *incident.ResolvedAt
	}
	if end.After(periodEnd) {
		end = periodEnd
	}

	if !end.After(start) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// CalculateUptime computes the uptime percentage and downtime minutes for a tenant over a report period.
func (c *Calculator) CalculateUptime(ctx context.Context, tenantID string, periodStart, periodEnd time.Time) (*UptimeReport, error) {
	wrapMsg := "unable to calculate the uptime report"

	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}

	log := log.WithFields(logrus.Fields{"tenant": tenantID})

	// Gather the incident intervals that intersect the period.
	incidents, err := c.Incidents.ListIncidentsIntersecting(ctx, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	intervals := make([]Interval, 0, len(incidents))
	for i := range incidents {
		if interval, ok := c.clipIncident(&incidents[i], periodStart, periodEnd); ok {
			intervals = append(intervals, interval)
		}
	}

	// Sum the merged downtime.
	var downtime time.Duration
	for _, interval := range MergeIntervals(intervals) {
		downtime += interval.End.Sub(interval.Start)
	}

	totalMinutes := periodEnd.Sub(periodStart).Minutes()
	downtimeMinutes := downtime.Minutes()

	uptimePct := 100 * (totalMinutes - downtimeMinutes) / totalMinutes
	uptimePct = math.Max(0, math.Min(100, uptimePct))
	uptimePct = math.Round(uptimePct*10000) / 10000

	log.Debugf("downtime is %f of %f minutes, uptime %f%%", downtimeMinutes, totalMinutes, uptimePct)

	report := &UptimeReport{
		UptimePct:       uptimePct,
		DowntimeMinutes: downtimeMinutes,
		TotalMinutes:    totalMinutes,
	}

	// Compare against the agreement target if the tenant has one. With no agreement there's no target to violate,
	// so the report says the SLA was met but flags the absence for the caller.
	agreement, err := c.Agreements.GetActiveAgreement(ctx, tenantID)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	if agreement == nil {
		report.SlaMet = true
		return report, nil
	}

	report.HasAgreement = true
	report.UptimeTarget = agreement.UptimeTarget
	report.SlaMet = uptimePct >= agreement.UptimeTarget

	return report, nil
}
