package db

import (
	"context"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertUsageAggregate either inserts a new usage aggregate into the database or overwrites an existing one for the
// same tenant, metric, period type and period start. The conflict clause serializes concurrent aggregation runs for
// the same key, which keeps re-aggregation idempotent.
func UpsertUsageAggregate(ctx context.Context, db *gorm.DB, aggregate *model.UsageAggregate) error {
	return db.WithContext(ctx).Debug().Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{
				Name: "tenant_id",
			},
			{
				Name: "metric_name",
			},
			{
				Name: "period_type",
			},
			{
				Name: "period_start",
			},
		},
		UpdateAll: true,
	}).Create(&aggregate).Error
}

// GetUsageAggregate looks up the aggregate for one tenant, metric, period type and period start. A nil aggregate
// with a nil error means that the period hasn't been materialized yet.
func GetUsageAggregate(
	ctx context.Context, db *gorm.DB, tenantID, metricName, periodType string, periodStart time.Time,
) (*model.UsageAggregate, error) {
	wrapMsg := "unable to look up the usage aggregate"
	var err error

	var aggregate model.UsageAggregate
	err = db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("metric_name = ?", metricName).
		Where("period_type = ?", periodType).
		Where("period_start = ?", periodStart).
		First(&aggregate).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &aggregate, nil
}

// UsageAggregateListingParams represents the parameters that can be used to customize an aggregate listing.
type UsageAggregateListingParams struct {
	MetricName  string
	PeriodType  string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// ListUsageAggregates lists the materialized aggregates for a tenant, optionally filtered by metric, period type
// and period range.
func ListUsageAggregates(
	ctx context.Context, db *gorm.DB, tenantID string, params *UsageAggregateListingParams,
) ([]model.UsageAggregate, error) {
	wrapMsg := "unable to list usage aggregates"
	var err error

	query := db.WithContext(ctx).Debug().Where("tenant_id = ?", tenantID)
	if params != nil {
		if params.MetricName != "" {
			query = query.Where("metric_name = ?", params.MetricName)
		}
		if params.PeriodType != "" {
			query = query.Where("period_type = ?", params.PeriodType)
		}
		if params.PeriodStart != nil {
			query = query.Where("period_start >= ?", *params.PeriodStart)
		}
		if params.PeriodEnd != nil {
			query = query.Where("period_start < ?", *params.PeriodEnd)
		}
	}

	aggregates := make([]model.UsageAggregate, 0)
	err = query.Order("metric_name asc, period_start asc").Find(&aggregates).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return aggregates, nil
}
