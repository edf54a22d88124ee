package model

import "time"

// Period type constants.
const (
	PeriodTypeHourly  = "hourly"
	PeriodTypeDaily   = "daily"
	PeriodTypeMonthly = "monthly"
)

// PeriodTypes lists the accepted aggregation period types.
var PeriodTypes = []string{PeriodTypeHourly, PeriodTypeDaily, PeriodTypeMonthly}

// ValidPeriodType determines whether or not the given period type is one of the accepted types.
func ValidPeriodType(periodType string) bool {
	for _, t := range PeriodTypes {
		if t == periodType {
			return true
		}
	}
	return false
}

// UsageAggregate defines the structure for a rollup of usage events for one tenant, metric and period. At most one
// aggregate exists per (tenant, metric, period type, period start); the existence of the row indicates that the
// period has been materialized, even when no usage was recorded in it.
//
// swagger:model
type UsageAggregate struct {
	// The usage aggregate identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The name of the aggregated metric
	MetricName string `gorm:"not null;index:aggregate_tenant_metric_period,unique" json:"metric_name"`

	// The aggregation period type
	PeriodType string `gorm:"not null;index:aggregate_tenant_metric_period,unique" json:"period_type"`

	// The beginning of the aggregation period, inclusive
	PeriodStart time.Time `gorm:"not null;index:aggregate_tenant_metric_period,unique" json:"period_start"`

	// The end of the aggregation period, exclusive
	PeriodEnd time.Time `gorm:"not null" json:"period_end"`

	// The sum of the quantities of the matching usage events
	TotalQuantity float64 `gorm:"not null" json:"total_quantity"`

	// The number of matching usage events
	EventCount int64 `gorm:"not null" json:"event_count"`

	// The tenant identifier
	TenantID *string `gorm:"type:uuid;not null;index:aggregate_tenant_metric_period,unique" json:"-"`

	// The tenant the aggregate belongs to
	Tenant *Tenant `json:"tenant,omitempty"`

	// The date and time the aggregate was last materialized
	LastModifiedAt *time.Time `gorm:"->" json:"last_modified_at,omitempty"`
}
