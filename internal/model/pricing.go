package model

import (
	"fmt"
	"time"
)

// Pricing model constants.
const (
	PricingModelFlat    = "flat"
	PricingModelTiered  = "tiered"
	PricingModelPerUnit = "per_unit"
	PricingModelPackage = "package"
)

// PricingModels lists the accepted pricing models.
var PricingModels = []string{PricingModelFlat, PricingModelTiered, PricingModelPerUnit, PricingModelPackage}

// ValidPricingModel determines whether or not the given pricing model is one of the accepted models.
func ValidPricingModel(pricingModel string) bool {
	for _, m := range PricingModels {
		if m == pricingModel {
			return true
		}
	}
	return false
}

// Pricing rule status constants.
const (
	PricingRuleStatusActive   = "active"
	PricingRuleStatusInactive = "inactive"
)

// PricingRule defines the structure for a rule describing how a metric converts to cost. Rules are deactivated
// rather than deleted so that historical pricing remains auditable.
//
// swagger:model
type PricingRule struct {
	// The pricing rule identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The pricing rule name
	//
	// required: true
	Name string `gorm:"not null" json:"name,omitempty"`

	// The name of the metric the rule prices
	//
	// required: true
	MetricName string `gorm:"not null;index" json:"metric_name,omitempty"`

	// The pricing model
	//
	// required: true
	PricingModel string `gorm:"not null" json:"pricing_model,omitempty"`

	// The unit price, used by the flat, per_unit and package models
	UnitPrice float64 `gorm:"type:decimal(20,10)" json:"unit_price"`

	// The package size used by the package model; a zero value is treated as a package size of one
	PackageSize float64 `gorm:"type:decimal(20,10)" json:"package_size,omitempty"`

	// The ISO 4217 currency code for the computed cost
	//
	// required: true
	Currency string `gorm:"not null" json:"currency,omitempty"`

	// The tenant the rule applies to; a null tenant marks the rule as a global default
	TenantID *string `gorm:"type:uuid;index" json:"-"`

	// The tenant associated with the rule, if any
	Tenant *Tenant `json:"tenant,omitempty"`

	// The rule status
	Status string `gorm:"not null;default:active" json:"status,omitempty"`

	// The date the rule takes effect
	EffectiveDate time.Time `json:"effective_date,omitempty"`

	// The ordered quantity tiers, used by the tiered model
	Tiers []PricingTier `json:"tiers,omitempty"`
}

// Active determines whether or not the rule is currently active.
func (r *PricingRule) Active() bool {
	return r.Status == PricingRuleStatusActive
}

// ValidateTiers verifies that the rule's tiers are sorted in ascending order, contiguous and non-overlapping, with
// the first tier starting at zero. Only the last tier may be unbounded.
func (r *PricingRule) ValidateTiers() error {
	if len(r.Tiers) == 0 {
		return fmt.Errorf("a tiered pricing rule requires at least one tier")
	}

	expectedFrom := 0.0
	for i, tier := range r.Tiers {
		if tier.TierFrom != expectedFrom {
			return fmt.Errorf("tier %d starts at %g; expected %g", i, tier.TierFrom, expectedFrom)
		}
		if tier.TierTo == nil {
			if i != len(r.Tiers)-1 {
				return fmt.Errorf("only the last tier may be unbounded")
			}
			break
		}
		if *tier.TierTo <= tier.TierFrom {
			return fmt.Errorf("tier %d has an empty range [%g, %g)", i, tier.TierFrom, *tier.TierTo)
		}
		expectedFrom = *tier.TierTo
	}

	return nil
}

// PricingTier defines one quantity sub-range of a tiered pricing rule. The range covers [TierFrom, TierTo); a null
// TierTo marks the tier as unbounded.
//
// swagger:model
type PricingTier struct {
	// The pricing tier identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The pricing rule ID
	PricingRuleID *string `gorm:"type:uuid;not null" json:"-"`

	// The beginning of the quantity range, inclusive
	TierFrom float64 `gorm:"not null" json:"from"`

	// The end of the quantity range, exclusive; null marks an unbounded tier
	TierTo *float64 `json:"to,omitempty"`

	// The price per unit of quantity falling in this tier
	Rate float64 `gorm:"type:decimal(20,10)" json:"rate"`
}
