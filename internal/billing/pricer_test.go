package billing

import (
	"context"
	"testing"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundary(v float64) *float64 {
	return &v
}

func tieredRule(tiers ...model.PricingTier) *model.PricingRule {
	return &model.PricingRule{
		Name:         "tiered rule",
		MetricName:   "api_calls",
		PricingModel: model.PricingModelTiered,
		Currency:     "EUR",
		Status:       model.PricingRuleStatusActive,
		Tiers:        tiers,
	}
}

func TestEvaluateFlat(t *testing.T) {
	rule := &model.PricingRule{PricingModel: model.PricingModelFlat, UnitPrice: 50.0, Currency: "EUR"}

	for _, quantity := range []float64{0, 1, 1000000} {
		evaluation, err := EvaluateRule(rule, quantity)
		require.NoError(t, err)
		assert.Equal(t, 50.0, evaluation.Cost)
		assert.Equal(t, "EUR", evaluation.Currency)
	}
}

func TestEvaluatePerUnit(t *testing.T) {
	rule := &model.PricingRule{PricingModel: model.PricingModelPerUnit, UnitPrice: 0.0015, Currency: "EUR"}

	evaluation, err := EvaluateRule(rule, 10000)
	require.NoError(t, err)
	assert.Equal(t, 15.0, evaluation.Cost)

	// The invoice-facing cost is rounded to two decimals half-up.
	evaluation, err = EvaluateRule(rule, 10003)
	require.NoError(t, err)
	assert.Equal(t, 15.0, evaluation.Cost)

	evaluation, err = EvaluateRule(rule, 10037)
	require.NoError(t, err)
	assert.Equal(t, 15.06, evaluation.Cost)
}

func TestEvaluateTiered(t *testing.T) {
	rule := tieredRule(
		model.PricingTier{TierFrom: 0, TierTo: boundary(1000), Rate: 0.10},
		model.PricingTier{TierFrom: 1000, TierTo: boundary(5000), Rate: 0.08},
		model.PricingTier{TierFrom: 5000, Rate: 0.05},
	)

	evaluation, err := EvaluateRule(rule, 6000)
	require.NoError(t, err)
	assert.Equal(t, 470.0, evaluation.Cost)

	require.Len(t, evaluation.Breakdown, 3)
	assert.Equal(t, 1000.0, evaluation.Breakdown[0].Quantity)
	assert.Equal(t, 100.0, evaluation.Breakdown[0].Subtotal)
	assert.Equal(t, 4000.0, evaluation.Breakdown[1].Quantity)
	assert.Equal(t, 320.0, evaluation.Breakdown[1].Subtotal)
	assert.Equal(t, 1000.0, evaluation.Breakdown[2].Quantity)
	assert.Equal(t, 50.0, evaluation.Breakdown[2].Subtotal)
}

func TestEvaluateTieredPartial(t *testing.T) {
	rule := tieredRule(
		model.PricingTier{TierFrom: 0, TierTo: boundary(1000), Rate: 0.10},
		model.PricingTier{TierFrom: 1000, Rate: 0.08},
	)

	// A quantity inside the first tier contributes nothing to later tiers.
	evaluation, err := EvaluateRule(rule, 500)
	require.NoError(t, err)
	assert.Equal(t, 50.0, evaluation.Cost)
	assert.Len(t, evaluation.Breakdown, 1)
}

func TestEvaluateTieredMatchesPerUnitForSingleTier(t *testing.T) {
	rate := 0.0375
	tiered := tieredRule(model.PricingTier{TierFrom: 0, Rate: rate})
	perUnit := &model.PricingRule{PricingModel: model.PricingModelPerUnit, UnitPrice: rate, Currency: "EUR"}

	for _, quantity := range []float64{0, 1, 999.5, 123456} {
		tieredResult, err := EvaluateRule(tiered, quantity)
		require.NoError(t, err)
		perUnitResult, err := EvaluateRule(perUnit, quantity)
		require.NoError(t, err)
		assert.Equal(t, perUnitResult.Cost, tieredResult.Cost, "quantity %f", quantity)
	}
}

func TestEvaluateTieredMonotonic(t *testing.T) {
	rule := tieredRule(
		model.PricingTier{TierFrom: 0, TierTo: boundary(100), Rate: 0.5},
		model.PricingTier{TierFrom: 100, TierTo: boundary(1000), Rate: 0.25},
		model.PricingTier{TierFrom: 1000, Rate: 0.1},
	)

	previous := -1.0
	for _, quantity := range []float64{0, 50, 100, 150, 999, 1000, 5000, 100000} {
		evaluation, err := EvaluateRule(rule, quantity)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, evaluation.Cost, previous, "quantity %f", quantity)
		previous = evaluation.Cost
	}
}

func TestEvaluateTieredInvalidConfig(t *testing.T) {
	testCases := []struct {
		name  string
		tiers []model.PricingTier
	}{
		{
			name: "gap between tiers",
			tiers: []model.PricingTier{
				{TierFrom: 0, TierTo: boundary(100), Rate: 0.5},
				{TierFrom: 200, Rate: 0.25},
			},
		},
		{
			name: "overlapping tiers",
			tiers: []model.PricingTier{
				{TierFrom: 0, TierTo: boundary(100), Rate: 0.5},
				{TierFrom: 50, Rate: 0.25},
			},
		},
		{
			name: "first tier does not start at zero",
			tiers: []model.PricingTier{
				{TierFrom: 10, Rate: 0.5},
			},
		},
		{
			name: "unbounded tier before the last",
			tiers: []model.PricingTier{
				{TierFrom: 0, Rate: 0.5},
				{TierFrom: 100, Rate: 0.25},
			},
		},
		{
			name:  "no tiers",
			tiers: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateRule(tieredRule(tc.tiers...), 1000)
			assert.ErrorIs(t, err, ErrInvalidTierConfig)
		})
	}
}

func TestEvaluatePackage(t *testing.T) {
	rule := &model.PricingRule{
		PricingModel: model.PricingModelPackage,
		UnitPrice:    5.0,
		PackageSize:  1000,
		Currency:     "EUR",
	}

	evaluation, err := EvaluateRule(rule, 6000)
	require.NoError(t, err)
	assert.Equal(t, 30.0, evaluation.Cost)

	// A partial package is charged as a whole one.
	evaluation, err = EvaluateRule(rule, 6001)
	require.NoError(t, err)
	assert.Equal(t, 35.0, evaluation.Cost)

	evaluation, err = EvaluateRule(rule, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, evaluation.Cost)
}

func TestEvaluatePackageDefaultSize(t *testing.T) {
	rule := &model.PricingRule{PricingModel: model.PricingModelPackage, UnitPrice: 0.25, Currency: "EUR"}

	// With no package size the model degenerates to per-unit pricing.
	evaluation, err := EvaluateRule(rule, 12)
	require.NoError(t, err)
	assert.Equal(t, 3.0, evaluation.Cost)
}

// stubRuleResolver simulates rule resolution with preset rules per tenant.
type stubRuleResolver struct {
	tenantRules map[string]*model.PricingRule
	globalRule  *model.PricingRule
	err         error
}

func (s *stubRuleResolver) ResolveActiveRule(_ context.Context, tenantID, _ string) (*model.PricingRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rule, ok := s.tenantRules[tenantID]; ok {
		return rule, nil
	}
	return s.globalRule, nil
}

func TestPricerEvaluate(t *testing.T) {
	tenantRule := &model.PricingRule{PricingModel: model.PricingModelFlat, UnitPrice: 100, Currency: "EUR"}
	globalRule := &model.PricingRule{PricingModel: model.PricingModelFlat, UnitPrice: 25, Currency: "EUR"}
	pricer := NewPricer(&stubRuleResolver{
		tenantRules: map[string]*model.PricingRule{"tenant-a": tenantRule},
		globalRule:  globalRule,
	})

	// A tenant-specific rule wins over the global default.
	evaluation, err := pricer.Evaluate(context.Background(), "tenant-a", "api_calls", 10)
	require.NoError(t, err)
	assert.Equal(t, 100.0, evaluation.Cost)

	evaluation, err = pricer.Evaluate(context.Background(), "tenant-b", "api_calls", 10)
	require.NoError(t, err)
	assert.Equal(t, 25.0, evaluation.Cost)
}

func TestPricerEvaluateNoRule(t *testing.T) {
	pricer := NewPricer(&stubRuleResolver{})

	_, err := pricer.Evaluate(context.Background(), "tenant-a", "api_calls", 10)
	assert.ErrorIs(t, err, ErrNoPricingRule)
}
