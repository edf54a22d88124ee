package billing

import (
	"context"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/logging"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "billing"})

// EventSummary holds the totals for the usage events matching one tenant, metric and period.
type EventSummary struct {
	TotalQuantity float64
	EventCount    int64
}

// EventSummarizer summarizes the usage events recorded for a tenant and metric within a half-open time interval.
type EventSummarizer interface {
	SummarizeEvents(ctx context.Context, tenantID, metricName string, periodStart, periodEnd time.Time) (*EventSummary, error)
}

// AggregateUpserter writes a usage aggregate, overwriting any existing aggregate for the same key.
type AggregateUpserter interface {
	UpsertAggregate(ctx context.Context, aggregate *model.UsageAggregate) error
}

// Aggregator rolls raw usage events into per-period usage aggregates. Re-running an aggregation for the same key is
// idempotent as long as the underlying events are unchanged, which they always are because events are append-only.
type Aggregator struct {
	Events     EventSummarizer
	Aggregates AggregateUpserter
}

// NewAggregator returns a new aggregator backed by the given stores.
func NewAggregator(events EventSummarizer, aggregates AggregateUpserter) *Aggregator {
	return &Aggregator{Events: events, Aggregates: aggregates}
}

// Aggregate materializes the usage aggregate for one tenant, metric and period. A period with no matching events
// still produces an aggregate row with zero totals so that callers can tell "no usage" apart from "not yet
// aggregated". No writes are performed when the period boundaries are invalid.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	tenantID, metricName, periodType string,
	periodStart, periodEnd time.Time,
) (*model.UsageAggregate, error) {
	wrapMsg := "unable to aggregate usage events"

	if !model.ValidPeriodType(periodType) {
		return nil, ErrInvalidPeriodType
	}
	if !periodEnd.After(periodStart) {
		return nil, ErrInvalidPeriod
	}

	log := log.WithFields(logrus.Fields{
		"tenant":      tenantID,
		"metric":      metricName,
		"periodType":  periodType,
		"periodStart": periodStart,
	})

	// Sum the matching events.
	summary, err := a.Events.SummarizeEvents(ctx, tenantID, metricName, periodStart, periodEnd)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	log.Debugf("summarized %d events totaling %f", summary.EventCount, summary.TotalQuantity)

	// Materialize the aggregate.
	aggregate := &model.UsageAggregate{
		TenantID:      &tenantID,
		MetricName:    metricName,
		PeriodType:    periodType,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		TotalQuantity: summary.TotalQuantity,
		EventCount:    summary.EventCount,
	}
	err = a.Aggregates.UpsertAggregate(ctx, aggregate)
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return aggregate, nil
}

// AggregateRange materializes every canonical bucket of the given period type needed to cover a time range. The
// buckets for different keys are independent, so failures are reported per-bucket only after the preceding buckets
// have been materialized.
func (a *Aggregator) AggregateRange(
	ctx context.Context,
	tenantID, metricName, periodType string,
	rangeStart, rangeEnd time.Time,
	loc *time.Location,
) ([]*model.UsageAggregate, error) {
	periods, err := SplitRange(periodType, rangeStart, rangeEnd, loc)
	if err != nil {
		return nil, err
	}

	aggregates := make([]*model.UsageAggregate, 0, len(periods))
	for _, period := range periods {
		aggregate, err := a.Aggregate(ctx, tenantID, metricName, periodType, period.Start, period.End)
		if err != nil {
			return aggregates, err
		}
		aggregates = append(aggregates, aggregate)
	}

	return aggregates, nil
}
