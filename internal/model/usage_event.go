package model

import "time"

// Event type constants.
const (
	EventTypeAPICall   = "api_call"
	EventTypeStorage   = "storage"
	EventTypeCompute   = "compute"
	EventTypeEmailSent = "email_sent"
	EventTypeAIToken   = "ai_token"
	EventTypeBandwidth = "bandwidth"
)

// EventTypes lists the accepted usage event types.
var EventTypes = []string{
	EventTypeAPICall,
	EventTypeStorage,
	EventTypeCompute,
	EventTypeEmailSent,
	EventTypeAIToken,
	EventTypeBandwidth,
}

// ValidEventType determines whether or not the given event type is one of the accepted types.
func ValidEventType(eventType string) bool {
	for _, t := range EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

// UsageEvent defines the structure for a single raw consumption record. Usage events are append-only: they are
// created when a billable action occurs and never updated afterward.
//
// swagger:model
type UsageEvent struct {
	// The usage event identifier
	//
	// readOnly: true
	ID *string `gorm:"type:uuid;default:uuid_generate_v1()" json:"id,omitempty"`

	// The event type
	//
	// required: true
	EventType string `gorm:"not null" json:"event_type"`

	// The name of the metric the event counts toward
	//
	// required: true
	MetricName string `gorm:"not null;index" json:"metric_name"`

	// The consumed quantity
	//
	// required: true
	Quantity float64 `gorm:"not null" json:"quantity"`

	// The unit of measure for the quantity
	Unit string `json:"unit,omitempty"`

	// The tenant identifier
	TenantID *string `gorm:"type:uuid;not null;index" json:"-"`

	// The tenant the event belongs to
	Tenant *Tenant `json:"tenant,omitempty"`

	// The identifier of the user who triggered the event, if known
	UserID *string `gorm:"type:uuid" json:"user_id,omitempty"`

	// Opaque key-value context for the event, JSON encoded
	Metadata *string `json:"metadata,omitempty"`

	// The date and time the consumption occurred
	//
	// required: true
	RecordedAt time.Time `gorm:"not null;index" json:"recorded_at"`
}
