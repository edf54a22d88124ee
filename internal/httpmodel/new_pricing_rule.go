package httpmodel

import (
	"fmt"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/ecosistema-jaraba/metering/utils"
)

// NewPricingRule
//
// swagger:model
type NewPricingRule struct {

	// The pricing rule name
	//
	// required: true
	Name string `json:"name"`

	// The name of the tenant the rule applies to; omit to create a global default
	Tenant string `json:"tenant"`

	// The name of the metric the rule prices
	//
	// required: true
	MetricName string `json:"metric_name"`

	// The pricing model
	//
	// required: true
	PricingModel string `json:"pricing_model"`

	// The unit price, used by the flat, per_unit and package models
	UnitPrice float64 `json:"unit_price"`

	// The package size used by the package model
	PackageSize float64 `json:"package_size"`

	// The ISO 4217 currency code for the computed cost
	//
	// required: true
	Currency string `json:"currency"`

	// The date the rule takes effect; defaults to the time the rule is created
	EffectiveDate timestamp.Timestamp `json:"effective_date"`

	// The quantity tiers, used by the tiered model
	Tiers []NewPricingTier `json:"tiers"`
}

// Validate verifies that all the required fields in a new pricing rule are present and that the tier configuration
// is well formed for the tiered model.
func (r NewPricingRule) Validate() error {
	var err error

	// The rule name, metric name and currency are all required.
	if r.Name == "" {
		return fmt.Errorf("a pricing rule name is required")
	}
	if r.MetricName == "" {
		return fmt.Errorf("a metric name is required")
	}
	if r.Currency == "" {
		return fmt.Errorf("a currency code is required")
	}

	// The pricing model has to be one of the accepted models.
	if !model.ValidPricingModel(r.PricingModel) {
		return fmt.Errorf("invalid pricing model: %s", r.PricingModel)
	}

	// The unit price can't be negative.
	if r.UnitPrice < 0 {
		return fmt.Errorf("the unit price must not be less than zero")
	}

	// Validate each of the tiers, then the tier configuration as a whole.
	if r.PricingModel == model.PricingModelTiered {
		for _, t := range r.Tiers {
			err = t.Validate()
			if err != nil {
				return err
			}
		}
		rule := r.ToDBModel()
		err = rule.ValidateTiers()
		if err != nil {
			return err
		}
	}

	return nil
}

// ToDBModel converts a pricing rule to its equivalent database model.
func (r NewPricingRule) ToDBModel() model.PricingRule {

	// Default the effective date to now.
	effectiveDate := r.EffectiveDate.Time()
	if r.EffectiveDate.IsZero() {
		effectiveDate = time.Now()
	}

	// Convert each of the tiers.
	tiers := make([]model.PricingTier, len(r.Tiers))
	for i, tier := range r.Tiers {
		tiers[i] = tier.ToDBModel()
	}

	return model.PricingRule{
		Name:          r.Name,
		MetricName:    utils.NormalizeMetricName(r.MetricName),
		PricingModel:  r.PricingModel,
		UnitPrice:     r.UnitPrice,
		PackageSize:   r.PackageSize,
		Currency:      r.Currency,
		Status:        model.PricingRuleStatusActive,
		EffectiveDate: effectiveDate,
		Tiers:         tiers,
	}
}

// NewPricingTier
//
// swagger:model
type NewPricingTier struct {

	// The beginning of the quantity range, inclusive
	TierFrom float64 `json:"from"`

	// The end of the quantity range, exclusive; omit to mark the tier as unbounded
	TierTo *float64 `json:"to"`

	// The price per unit of quantity falling in this tier
	//
	// required: true
	Rate float64 `json:"rate"`
}

// Validate verifies that all tier fields are valid.
func (t NewPricingTier) Validate() error {

	// The rate can't be negative.
	if t.Rate < 0 {
		return fmt.Errorf("tier rates must not be less than zero")
	}

	return nil
}

// ToDBModel converts a pricing tier to its equivalent database model.
func (t NewPricingTier) ToDBModel() model.PricingTier {
	return model.PricingTier{
		TierFrom: t.TierFrom,
		TierTo:   t.TierTo,
		Rate:     t.Rate,
	}
}
