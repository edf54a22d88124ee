package httpmodel

import (
	"fmt"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/ecosistema-jaraba/metering/utils"
)

// Note: the names in the comments may deviate a bit from the actual structure names in order to avoid producing
// confusing Swagger docs.

// NewUsageEvent
//
// swagger:model
type NewUsageEvent struct {

	// The name of the tenant the event belongs to
	//
	// required: true
	Tenant string `json:"tenant"`

	// The event type
	//
	// required: true
	EventType string `json:"event_type"`

	// The name of the metric the event counts toward
	//
	// required: true
	MetricName string `json:"metric_name"`

	// The consumed quantity
	//
	// required: true
	Quantity float64 `json:"quantity"`

	// The unit of measure for the quantity
	Unit string `json:"unit"`

	// The identifier of the user who triggered the event, if known
	UserID *string `json:"user_id"`

	// Opaque key-value context for the event, JSON encoded
	Metadata *string `json:"metadata"`

	// The date and time the consumption occurred; defaults to the time the event is received
	RecordedAt timestamp.Timestamp `json:"recorded_at"`
}

// Validate verifies that all the required fields in a new usage event are present and acceptable.
func (e NewUsageEvent) Validate() error {

	// The tenant name is required.
	if e.Tenant == "" {
		return fmt.Errorf("a tenant name is required")
	}

	// The event type has to be one of the accepted types.
	if e.EventType == "" {
		return fmt.Errorf("an event type is required")
	}
	if !model.ValidEventType(e.EventType) {
		return fmt.Errorf("invalid event type: %s", e.EventType)
	}

	// The metric name is required.
	if e.MetricName == "" {
		return fmt.Errorf("a metric name is required")
	}

	// The quantity can't be negative.
	if e.Quantity < 0 {
		return fmt.Errorf("the quantity must not be less than zero")
	}

	return nil
}

// ToDBModel converts a usage event to its equivalent database model.
func (e NewUsageEvent) ToDBModel() model.UsageEvent {

	// Default the recorded time to now.
	recordedAt := e.RecordedAt.Time()
	if e.RecordedAt.IsZero() {
		recordedAt = time.Now()
	}

	return model.UsageEvent{
		EventType:  e.EventType,
		MetricName: utils.NormalizeMetricName(e.MetricName),
		Quantity:   e.Quantity,
		Unit:       e.Unit,
		UserID:     e.UserID,
		Metadata:   e.Metadata,
		RecordedAt: recordedAt,
	}
}
