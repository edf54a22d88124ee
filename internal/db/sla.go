package db

import (
	"context"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddIncident saves a new service incident in the database.
func AddIncident(ctx context.Context, db *gorm.DB, incident *model.SlaIncident) error {
	wrapMsg := "unable to add the incident"
	var err error

	err = db.WithContext(ctx).Create(incident).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// GetIncident looks up an incident by ID, returning nil if the incident doesn't exist.
func GetIncident(ctx context.Context, db *gorm.DB, incidentID string) (*model.SlaIncident, error) {
	wrapMsg := "unable to look up the incident"
	var err error

	var incident model.SlaIncident
	err = db.WithContext(ctx).Preload("Tenant").Where("id = ?", incidentID).First(&incident).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &incident, nil
}

// ResolveIncident marks an incident as resolved at the given time, returning the updated incident. A nil incident
// with a nil error means that the incident doesn't exist.
func ResolveIncident(
	ctx context.Context, db *gorm.DB, incidentID string, resolvedAt time.Time,
) (*model.SlaIncident, error) {
	wrapMsg := "unable to resolve the incident"
	var err error

	incident, err := GetIncident(ctx, db, incidentID)
	if err != nil {
		return nil, err
	}
	if incident == nil {
		return nil, nil
	}

	err = db.WithContext(ctx).
		Model(incident).
		Updates(map[string]interface{}{
			"resolved_at": resolvedAt,
			"status":      model.IncidentStatusResolved,
		}).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	incident.ResolvedAt = &resolvedAt
	incident.Status = model.IncidentStatusResolved

	return incident, nil
}

// ListIncidents lists the incidents recorded for a tenant, most recent first.
func ListIncidents(ctx context.Context, db *gorm.DB, tenantID string) ([]model.SlaIncident, error) {
	wrapMsg := "unable to list incidents"
	var err error

	incidents := make([]model.SlaIncident, 0)
	err = db.WithContext(ctx).Debug().
		Where("tenant_id = ?", tenantID).
		Order("started_at desc").
		Find(&incidents).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return incidents, nil
}

// ListIncidentsIntersecting lists the incidents for a tenant whose downtime overlaps the given reporting period. An
// incident still open at query time has no resolution timestamp, so the end-of-overlap check treats a null
// resolved_at as extending past the period end.
func ListIncidentsIntersecting(
	ctx context.Context, db *gorm.DB, tenantID string, periodStart, periodEnd time.Time,
) ([]model.SlaIncident, error) {
	wrapMsg := "unable to list incidents for the reporting period"
	var err error

	incidents := make([]model.SlaIncident, 0)
	err = db.WithContext(ctx).Debug().
		Where("tenant_id = ?", tenantID).
		Where("started_at < ?", periodEnd).
		Where("resolved_at is null or resolved_at > ?", periodStart).
		Order("started_at asc").
		Find(&incidents).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return incidents, nil
}

// AddAgreement saves a new service level agreement, along with its credit policy, in the database.
func AddAgreement(ctx context.Context, db *gorm.DB, agreement *model.SlaAgreement) error {
	wrapMsg := "unable to add the service level agreement"
	var err error

	err = db.WithContext(ctx).Create(agreement).Error
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// GetActiveAgreement looks up the agreement covering a tenant at the given time. A nil agreement with a nil error
// means that the tenant has no agreement in effect.
func GetActiveAgreement(
	ctx context.Context, db *gorm.DB, tenantID string, at time.Time,
) (*model.SlaAgreement, error) {
	wrapMsg := "unable to look up the service level agreement"
	var err error

	var agreement model.SlaAgreement
	err = db.WithContext(ctx).
		Preload("CreditPolicy", func(db *gorm.DB) *gorm.DB {
			return db.Order("credit_policy_tiers.threshold desc")
		}).
		Where("tenant_id = ?", tenantID).
		Where("effective_start_date is null or effective_start_date <= ?", at).
		Where("effective_end_date is null or effective_end_date > ?", at).
		Order("effective_start_date desc").
		First(&agreement).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &agreement, nil
}

// ListAgreements lists the agreements recorded for a tenant.
func ListAgreements(ctx context.Context, db *gorm.DB, tenantID string) ([]model.SlaAgreement, error) {
	wrapMsg := "unable to list service level agreements"
	var err error

	agreements := make([]model.SlaAgreement, 0)
	err = db.WithContext(ctx).Debug().
		Preload("CreditPolicy", func(db *gorm.DB) *gorm.DB {
			return db.Order("credit_policy_tiers.threshold desc")
		}).
		Where("tenant_id = ?", tenantID).
		Order("effective_start_date desc").
		Find(&agreements).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return agreements, nil
}
