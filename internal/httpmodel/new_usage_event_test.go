package httpmodel

import (
	"testing"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUsageEvent() NewUsageEvent {
	return NewUsageEvent{
		Tenant:     "acme",
		EventType:  model.EventTypeAPICall,
		MetricName: "api_calls",
		Quantity:   5,
		Unit:       "calls",
	}
}

func TestNewUsageEventValidate(t *testing.T) {
	assert.NoError(t, validUsageEvent().Validate())
}

func TestNewUsageEventRequiresTenant(t *testing.T) {
	event := validUsageEvent()
	event.Tenant = ""
	assert.Error(t, event.Validate())
}

func TestNewUsageEventRequiresKnownEventType(t *testing.T) {
	event := validUsageEvent()
	event.EventType = "teleportation"
	assert.Error(t, event.Validate())

	event.EventType = ""
	assert.Error(t, event.Validate())
}

func TestNewUsageEventRequiresMetricName(t *testing.T) {
	event := validUsageEvent()
	event.MetricName = ""
	assert.Error(t, event.Validate())
}

func TestNewUsageEventRejectsNegativeQuantities(t *testing.T) {
	event := validUsageEvent()
	event.Quantity = -1
	assert.Error(t, event.Validate())
}

func TestNewUsageEventToDBModelDefaultsRecordedAt(t *testing.T) {
	before := time.Now()
	converted := validUsageEvent().ToDBModel()
	after := time.Now()

	assert.False(t, converted.RecordedAt.Before(before))
	assert.False(t, converted.RecordedAt.After(after))
}

func TestNewUsageEventToDBModelKeepsRecordedAt(t *testing.T) {
	recordedAt := time.Date(2024, 2, 21, 1, 2, 3, 0, time.UTC)

	event := validUsageEvent()
	event.RecordedAt = timestamp.Timestamp(recordedAt)

	converted := event.ToDBModel()
	require.True(t, recordedAt.Equal(converted.RecordedAt))
}

func TestNewUsageEventToDBModelNormalizesMetricNames(t *testing.T) {
	event := validUsageEvent()
	event.MetricName = "API Calls"

	converted := event.ToDBModel()
	assert.Equal(t, "api_calls", converted.MetricName)
}
