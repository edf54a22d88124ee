package sla

import (
	"sort"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
)

// ErrInvalidCreditPolicy indicates that a credit policy lacks a zero-threshold catch-all tier.
var ErrInvalidCreditPolicy = errors.New("the credit policy requires a zero-threshold catch-all tier")

// ValidateCreditPolicy verifies that a credit policy is well-formed. Every policy needs a tier with a threshold of
// zero so that any uptime value, however low, selects some tier.
func ValidateCreditPolicy(policy []model.CreditPolicyTier) error {
	for _, tier := range policy {
		if tier.Threshold == 0 {
			return nil
		}
	}
	return ErrInvalidCreditPolicy
}

// CalculateCredit maps an uptime percentage to a service credit percentage using a tiered credit policy. The tier
// with the largest threshold at or below the uptime applies; comparisons at exact threshold boundaries are
// inclusive. The policy's ordering doesn't matter to this function.
func CalculateCredit(uptimePct float64, policy []model.CreditPolicyTier) (float64, error) {
	if err := ValidateCreditPolicy(policy); err != nil {
		return 0, err
	}

	sorted := make([]model.CreditPolicyTier, len(policy))
	copy(sorted, policy)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Threshold > sorted[j].Threshold
	})

	for _, tier := range sorted {
		if tier.Threshold <= uptimePct {
			return tier.CreditPct, nil
		}
	}

	// Unreachable for a validated policy since the catch-all threshold is zero.
	return 0, ErrInvalidCreditPolicy
}
