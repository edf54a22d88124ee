package sla

import (
	"testing"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardPolicy() []model.CreditPolicyTier {
	return []model.CreditPolicyTier{
		{Threshold: 99.9, CreditPct: 0},
		{Threshold: 99.0, CreditPct: 10},
		{Threshold: 95.0, CreditPct: 25},
		{Threshold: 0, CreditPct: 50},
	}
}

func TestCalculateCredit(t *testing.T) {
	testCases := []struct {
		name      string
		uptimePct float64
		creditPct float64
	}{
		{"fully compliant", 99.95, 0},
		{"exactly at the top threshold", 99.9, 0},
		{"just below the top threshold", 99.7, 10},
		{"exactly at a middle threshold", 99.0, 10},
		{"between middle thresholds", 97.5, 25},
		{"well below every named threshold", 50, 50},
		{"complete outage", 0, 50},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			creditPct, err := CalculateCredit(tc.uptimePct, standardPolicy())
			require.NoError(t, err)
			assert.Equal(t, tc.creditPct, creditPct)
		})
	}
}

func TestCalculateCreditUnorderedPolicy(t *testing.T) {
	// The policy is conventionally stored in descending threshold order, but the calculation doesn't depend on it.
	policy := []model.CreditPolicyTier{
		{Threshold: 0, CreditPct: 50},
		{Threshold: 99.0, CreditPct: 10},
		{Threshold: 95.0, CreditPct: 25},
		{Threshold: 99.9, CreditPct: 0},
	}

	creditPct, err := CalculateCredit(99.7, policy)
	require.NoError(t, err)
	assert.Equal(t, 10.0, creditPct)
}

func TestCalculateCreditMissingCatchAll(t *testing.T) {
	policy := []model.CreditPolicyTier{
		{Threshold: 99.9, CreditPct: 0},
		{Threshold: 99.0, CreditPct: 10},
	}

	_, err := CalculateCredit(99.95, policy)
	assert.ErrorIs(t, err, ErrInvalidCreditPolicy)

	assert.ErrorIs(t, ValidateCreditPolicy(policy), ErrInvalidCreditPolicy)
	assert.NoError(t, ValidateCreditPolicy(standardPolicy()))
}
