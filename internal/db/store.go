package db

import (
	"context"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/billing"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"gorm.io/gorm"
)

// Store binds the database functions in this package to the narrow interfaces that the billing and SLA calculators
// depend on, keeping the calculators free of any direct database coupling.
type Store struct {
	GORMDB *gorm.DB
}

// NewStore returns a new store backed by the given database connection.
func NewStore(gormdb *gorm.DB) *Store {
	return &Store{GORMDB: gormdb}
}

// SummarizeEvents implements billing.EventSummarizer.
func (s *Store) SummarizeEvents(
	ctx context.Context, tenantID, metricName string, periodStart, periodEnd time.Time,
) (*billing.EventSummary, error) {
	return SummarizeUsageEvents(ctx, s.GORMDB, tenantID, metricName, periodStart, periodEnd)
}

// UpsertAggregate implements billing.AggregateUpserter.
func (s *Store) UpsertAggregate(ctx context.Context, aggregate *model.UsageAggregate) error {
	return UpsertUsageAggregate(ctx, s.GORMDB, aggregate)
}

// ResolveActiveRule implements billing.RuleResolver.
func (s *Store) ResolveActiveRule(ctx context.Context, tenantID, metricName string) (*model.PricingRule, error) {
	return GetActivePricingRule(ctx, s.GORMDB, tenantID, metricName)
}

// ListIncidentsIntersecting implements sla.IncidentSource.
func (s *Store) ListIncidentsIntersecting(
	ctx context.Context, tenantID string, periodStart, periodEnd time.Time,
) ([]model.SlaIncident, error) {
	return ListIncidentsIntersecting(ctx, s.GORMDB, tenantID, periodStart, periodEnd)
}

// GetActiveAgreement implements sla.AgreementSource.
func (s *Store) GetActiveAgreement(ctx context.Context, tenantID string) (*model.SlaAgreement, error) {
	return GetActiveAgreement(ctx, s.GORMDB, tenantID, time.Now())
}
