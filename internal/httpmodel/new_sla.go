package httpmodel

import (
	"fmt"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/ecosistema-jaraba/metering/internal/sla"
)

// NewIncident
//
// swagger:model
type NewIncident struct {

	// A brief description of the incident
	Title string `json:"title"`

	// The date and time the incident started
	//
	// required: true
	StartedAt timestamp.Timestamp `json:"started_at"`

	// The date and time the incident was resolved; omit for an incident that's still open
	ResolvedAt timestamp.Timestamp `json:"resolved_at"`
}

// Validate verifies that all the required fields in a new incident are present and consistent.
func (i NewIncident) Validate() error {

	// The start time has to be specified.
	if i.StartedAt.IsZero() {
		return fmt.Errorf("the incident start time must be specified")
	}

	// A resolution time, if given, can't precede the start time.
	if !i.ResolvedAt.IsZero() && !i.ResolvedAt.Time().After(i.StartedAt.Time()) {
		return fmt.Errorf("the incident resolution time must be after the start time")
	}

	return nil
}

// ToDBModel converts an incident to its equivalent database model.
func (i NewIncident) ToDBModel() model.SlaIncident {
	incident := model.SlaIncident{
		Title:     i.Title,
		StartedAt: i.StartedAt.Time(),
		Status:    model.IncidentStatusOpen,
	}
	if !i.ResolvedAt.IsZero() {
		resolvedAt := i.ResolvedAt.Time()
		incident.ResolvedAt = &resolvedAt
		incident.Status = model.IncidentStatusResolved
	}
	return incident
}

// NewSlaAgreement
//
// swagger:model
type NewSlaAgreement struct {

	// The uptime percentage target, e.g. 99.900
	//
	// required: true
	UptimeTarget float64 `json:"uptime_target"`

	// The date and time the agreement becomes active; defaults to the time the agreement is created
	EffectiveStartDate timestamp.Timestamp `json:"effective_start_date"`

	// The date and time the agreement expires; omit for an open-ended agreement
	EffectiveEndDate timestamp.Timestamp `json:"effective_end_date"`

	// The credit tiers associated with the agreement
	//
	// required: true
	CreditPolicy []NewCreditPolicyTier `json:"credit_policy"`
}

// Validate verifies that all the required fields in a new agreement are present and that the credit policy is well
// formed.
func (a NewSlaAgreement) Validate() error {

	// The uptime target has to be a percentage.
	if a.UptimeTarget <= 0 || a.UptimeTarget > 100 {
		return fmt.Errorf("the uptime target must be greater than zero and at most 100")
	}

	// The effective window, if fully specified, can't be empty.
	if !a.EffectiveStartDate.IsZero() && !a.EffectiveEndDate.IsZero() &&
		!a.EffectiveEndDate.Time().After(a.EffectiveStartDate.Time()) {
		return fmt.Errorf("the agreement expiration must be after the effective start date")
	}

	// Validate each of the credit tiers, then the policy as a whole.
	for _, t := range a.CreditPolicy {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	agreement := a.ToDBModel()
	return sla.ValidateCreditPolicy(agreement.CreditPolicy)
}

// ToDBModel converts an agreement to its equivalent database model.
func (a NewSlaAgreement) ToDBModel() model.SlaAgreement {

	// Default the effective start date to now.
	effectiveStart := a.EffectiveStartDate.Time()
	if a.EffectiveStartDate.IsZero() {
		effectiveStart = time.Now()
	}

	// Convert each of the credit tiers.
	creditPolicy := make([]model.CreditPolicyTier, len(a.CreditPolicy))
	for i, tier := range a.CreditPolicy {
		creditPolicy[i] = tier.ToDBModel()
	}

	agreement := model.SlaAgreement{
		UptimeTarget:       a.UptimeTarget,
		EffectiveStartDate: &effectiveStart,
		CreditPolicy:       creditPolicy,
	}
	if !a.EffectiveEndDate.IsZero() {
		effectiveEnd := a.EffectiveEndDate.Time()
		agreement.EffectiveEndDate = &effectiveEnd
	}
	return agreement
}

// NewCreditPolicyTier
//
// swagger:model
type NewCreditPolicyTier struct {

	// The uptime percentage threshold
	Threshold float64 `json:"threshold"`

	// The percentage of the periodic fee credited when the tier applies
	CreditPct float64 `json:"credit_pct"`
}

// Validate verifies that all credit tier fields are valid.
func (t NewCreditPolicyTier) Validate() error {

	// Both percentages have to fall in the range a percentage allows.
	if t.Threshold < 0 || t.Threshold > 100 {
		return fmt.Errorf("credit tier thresholds must be between zero and 100")
	}
	if t.CreditPct < 0 || t.CreditPct > 100 {
		return fmt.Errorf("credit percentages must be between zero and 100")
	}

	return nil
}

// ToDBModel converts a credit tier to its equivalent database model.
func (t NewCreditPolicyTier) ToDBModel() model.CreditPolicyTier {
	return model.CreditPolicyTier{
		Threshold: t.Threshold,
		CreditPct: t.CreditPct,
	}
}
