package model

import "time"

// Incident status constants.
const (
	IncidentStatusOpen     = "open"
	IncidentStatusResolved = "resolved"
)

// SlaIncident defines the structure for a service incident affecting a tenant. An incident with a null resolution
// time is still ongoing.
//
// swagger:model
type SlaIncident struct {
	// The incident identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The tenant identifier
	TenantID *string `gorm:"type:uuid;not null;index" json:"-"`

	// The tenant the incident affected
	Tenant *Tenant `json:"tenant,omitempty"`

	// A brief description of the incident
	Title string `json:"title,omitempty"`

	// The date and time the incident started
	//
	// required: true
	StartedAt time.Time `gorm:"not null;index" json:"started_at"`

	// The date and time the incident was resolved; null while the incident is still open
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// The incident status
	Status string `gorm:"not null;default:open" json:"status,omitempty"`
}

// SlaAgreement defines the structure for a tenant's service level agreement, including the uptime target and the
// credit policy used to compute service credits when the target is missed.
//
// swagger:model
type SlaAgreement struct {
	// The agreement identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The tenant identifier
	TenantID *string `gorm:"type:uuid;not null;index" json:"-"`

	// The tenant covered by the agreement
	Tenant *Tenant `json:"tenant,omitempty"`

	// The uptime percentage target, e.g. 99.900
	//
	// required: true
	UptimeTarget float64 `gorm:"type:decimal(6,3);not null" json:"uptime_target"`

	// The date and time the agreement becomes active
	EffectiveStartDate *time.Time `json:"effective_start_date,omitempty"`

	// The date and time the agreement expires
	EffectiveEndDate *time.Time `json:"effective_end_date,omitempty"`

	// The credit tiers associated with the agreement, in descending threshold order
	CreditPolicy []CreditPolicyTier `json:"credit_policy,omitempty"`
}

// CreditPolicyTier defines one entry of a tiered credit policy: an uptime at or above the threshold earns the given
// credit percentage. A well-formed policy carries a zero-threshold catch-all tier.
//
// swagger:model
type CreditPolicyTier struct {
	// The credit policy tier identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The agreement ID
	SlaAgreementID *string `gorm:"type:uuid;not null" json:"-"`

	// The uptime percentage threshold
	Threshold float64 `gorm:"type:decimal(6,3);not null" json:"threshold"`

	// The percentage of the periodic fee credited when the tier applies
	CreditPct float64 `gorm:"type:decimal(6,3);not null" json:"credit_pct"`
}
