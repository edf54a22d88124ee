package model

import "time"

// Tenant defines the structure for a tenant organization within the platform.
//
// swagger:model
type Tenant struct {
	// The tenant identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The tenant name
	//
	// required: true
	Name string `gorm:"not null;unique" json:"name,omitempty"`

	// The IANA time zone used to determine calendar month boundaries for the tenant
	Timezone string `gorm:"not null;default:UTC" json:"timezone,omitempty"`

	// The date and time the tenant was registered
	//
	// readOnly: true
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Location returns the tenant's time zone location, falling back to UTC when the configured time zone is missing or
// unloadable.
func (t *Tenant) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
