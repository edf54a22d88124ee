package httpmodel

import (
	"testing"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func validTieredRule() NewPricingRule {
	return NewPricingRule{
		Name:         "api-calls-tiered",
		MetricName:   "api_calls",
		PricingModel: model.PricingModelTiered,
		Currency:     "EUR",
		Tiers: []NewPricingTier{
			{TierFrom: 0, TierTo: floatPtr(1000), Rate: 0.10},
			{TierFrom: 1000, TierTo: floatPtr(5000), Rate: 0.05},
			{TierFrom: 5000, Rate: 0.01},
		},
	}
}

func TestNewPricingRuleValidate(t *testing.T) {
	assert.NoError(t, validTieredRule().Validate())
}

func TestNewPricingRuleRequiredFields(t *testing.T) {
	rule := validTieredRule()
	rule.Name = ""
	assert.Error(t, rule.Validate())

	rule = validTieredRule()
	rule.MetricName = ""
	assert.Error(t, rule.Validate())

	rule = validTieredRule()
	rule.Currency = ""
	assert.Error(t, rule.Validate())
}

func TestNewPricingRuleRejectsUnknownModels(t *testing.T) {
	rule := validTieredRule()
	rule.PricingModel = "freemium"
	assert.Error(t, rule.Validate())
}

func TestNewPricingRuleRejectsNegativeUnitPrices(t *testing.T) {
	rule := NewPricingRule{
		Name:         "storage-flat",
		MetricName:   "storage_gb",
		PricingModel: model.PricingModelFlat,
		UnitPrice:    -1,
		Currency:     "EUR",
	}
	assert.Error(t, rule.Validate())
}

func TestNewPricingRuleRejectsMalformedTiers(t *testing.T) {

	// A gap between tiers.
	rule := validTieredRule()
	rule.Tiers = []NewPricingTier{
		{TierFrom: 0, TierTo: floatPtr(1000), Rate: 0.10},
		{TierFrom: 2000, Rate: 0.05},
	}
	assert.Error(t, rule.Validate())

	// The first tier doesn't start at zero.
	rule = validTieredRule()
	rule.Tiers = []NewPricingTier{
		{TierFrom: 100, Rate: 0.10},
	}
	assert.Error(t, rule.Validate())

	// No tiers at all.
	rule = validTieredRule()
	rule.Tiers = nil
	assert.Error(t, rule.Validate())

	// A negative rate.
	rule = validTieredRule()
	rule.Tiers[0].Rate = -0.10
	assert.Error(t, rule.Validate())
}

func TestNewPricingRuleToDBModel(t *testing.T) {
	converted := validTieredRule().ToDBModel()

	assert.Equal(t, model.PricingRuleStatusActive, converted.Status)
	assert.False(t, converted.EffectiveDate.IsZero())
	require.Len(t, converted.Tiers, 3)
	assert.Nil(t, converted.Tiers[2].TierTo)
}

func TestNewPricingRuleToDBModelNormalizesMetricNames(t *testing.T) {
	rule := validTieredRule()
	rule.MetricName = "API Calls"

	converted := rule.ToDBModel()
	assert.Equal(t, "api_calls", converted.MetricName)
}
