package db

import (
	"context"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddPricingRule saves a new pricing rule, along with its tiers, in the database. Any previously active rule covering
// the same metric and scope is deactivated first so that at most one rule per scope is active at a time.
func AddPricingRule(ctx context.Context, db *gorm.DB, rule *model.PricingRule) error {
	wrapMsg := "unable to add the pricing rule"
	var err error

	err = db.Transaction(func(tx *gorm.DB) error {
		query := tx.WithContext(ctx).
			Model(&model.PricingRule{}).
			Where("metric_name = ?", rule.MetricName).
			Where("status = ?", model.PricingRuleStatusActive)
		if rule.TenantID == nil {
			query = query.Where("tenant_id is null")
		} else {
			query = query.Where("tenant_id = ?", *rule.TenantID)
		}
		err = query.Update("status", model.PricingRuleStatusInactive).Error
		if err != nil {
			return err
		}

		return tx.WithContext(ctx).Create(rule).Error
	})
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	return nil
}

// GetPricingRule looks up a pricing rule by ID, returning nil if the rule doesn't exist.
func GetPricingRule(ctx context.Context, db *gorm.DB, ruleID string) (*model.PricingRule, error) {
	wrapMsg := "unable to look up the pricing rule"
	var err error

	var rule model.PricingRule
	err = db.WithContext(ctx).
		Preload("Tenant").
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("pricing_tiers.tier_from asc")
		}).
		Where("id = ?", ruleID).
		First(&rule).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &rule, nil
}

// GetActivePricingRule looks up the active pricing rule for a tenant and metric. Tenant-specific rules take
// precedence over global defaults; a nil rule with a nil error means that no rule covers the metric.
func GetActivePricingRule(ctx context.Context, db *gorm.DB, tenantID, metricName string) (*model.PricingRule, error) {
	wrapMsg := "unable to look up the active pricing rule"
	var err error

	lookup := func(scope func(*gorm.DB) *gorm.DB) (*model.PricingRule, error) {
		var rule model.PricingRule
		err = scope(db.WithContext(ctx)).
			Preload("Tiers", func(db *gorm.DB) *gorm.DB {
				return db.Order("pricing_tiers.tier_from asc")
			}).
			Where("metric_name = ?", metricName).
			Where("status = ?", model.PricingRuleStatusActive).
			Where("effective_date <= now()").
			Order("effective_date desc").
			First(&rule).Error
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		} else if err != nil {
			return nil, errors.Wrap(err, wrapMsg)
		}
		return &rule, nil
	}

	// Check for a tenant-specific rule first.
	rule, err := lookup(func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	})
	if err != nil {
		return nil, err
	}
	if rule != nil {
		return rule, nil
	}

	// Fall back to the global default.
	return lookup(func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id is null")
	})
}

// PricingRuleListingParams represents the parameters that can be used to customize a pricing rule listing.
type PricingRuleListingParams struct {
	MetricName string
	TenantID   *string
	ActiveOnly bool
}

// ListPricingRules lists the pricing rules in the database, optionally filtered by metric, tenant and status.
func ListPricingRules(
	ctx context.Context, db *gorm.DB, params *PricingRuleListingParams,
) ([]model.PricingRule, error) {
	wrapMsg := "unable to list pricing rules"
	var err error

	query := db.WithContext(ctx).Debug().
		Preload("Tenant").
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("pricing_tiers.tier_from asc")
		})
	if params != nil {
		if params.MetricName != "" {
			query = query.Where("metric_name = ?", params.MetricName)
		}
		if params.TenantID != nil {
			query = query.Where("tenant_id = ?", *params.TenantID)
		}
		if params.ActiveOnly {
			query = query.Where("status = ?", model.PricingRuleStatusActive)
		}
	}

	rules := make([]model.PricingRule, 0)
	err = query.Order("metric_name asc, effective_date desc").Find(&rules).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return rules, nil
}

// DeactivatePricingRule marks a pricing rule as inactive, returning the updated rule. A nil rule with a nil error
// means that the rule doesn't exist.
func DeactivatePricingRule(ctx context.Context, db *gorm.DB, ruleID string) (*model.PricingRule, error) {
	wrapMsg := "unable to deactivate the pricing rule"
	var err error

	rule, err := GetPricingRule(ctx, db, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, nil
	}

	err = db.WithContext(ctx).
		Model(rule).
		Update("status", model.PricingRuleStatusInactive).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	rule.Status = model.PricingRuleStatusInactive

	return rule, nil
}
