package db

import (
	"context"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/billing"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddUsageEvent inserts a new usage event into the database. Usage events are append-only, so there is deliberately
// no update counterpart to this function.
func AddUsageEvent(ctx context.Context, db *gorm.DB, event *model.UsageEvent) error {
	wrapMsg := "unable to record the usage event"

	err := db.WithContext(ctx).Create(event).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// ListUsageEvents lists the usage events recorded for a tenant and metric within a half-open time interval, in the
// order they were recorded.
func ListUsageEvents(
	ctx context.Context, db *gorm.DB, tenantID, metricName string, periodStart, periodEnd time.Time,
) ([]model.UsageEvent, error) {
	wrapMsg := "unable to list usage events"
	var err error

	events := make([]model.UsageEvent, 0)
	err = db.WithContext(ctx).Debug().
		Where("tenant_id = ?", tenantID).
		Where("metric_name = ?", metricName).
		Where("recorded_at >= ? AND recorded_at < ?", periodStart, periodEnd).
		Order("recorded_at asc").
		Find(&events).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return events, nil
}

// SummarizeUsageEvents computes the total quantity and event count for a tenant and metric within a half-open time
// interval. The sums are computed by the database so the events never have to be loaded into memory.
func SummarizeUsageEvents(
	ctx context.Context, db *gorm.DB, tenantID, metricName string, periodStart, periodEnd time.Time,
) (*billing.EventSummary, error) {
	wrapMsg := "unable to summarize usage events"
	var err error

	var summary billing.EventSummary
	err = db.WithContext(ctx).Debug().
		Model(&model.UsageEvent{}).
		Select("COALESCE(SUM(quantity), 0) AS total_quantity, COUNT(*) AS event_count").
		Where("tenant_id = ?", tenantID).
		Where("metric_name = ?", metricName).
		Where("recorded_at >= ? AND recorded_at < ?", periodStart, periodEnd).
		Scan(&summary).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &summary, nil
}
