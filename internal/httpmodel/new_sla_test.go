package httpmodel

import (
	"testing"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAgreement() NewSlaAgreement {
	return NewSlaAgreement{
		UptimeTarget: 99.9,
		CreditPolicy: []NewCreditPolicyTier{
			{Threshold: 99.0, CreditPct: 10},
			{Threshold: 95.0, CreditPct: 25},
			{Threshold: 0, CreditPct: 50},
		},
	}
}

func TestNewSlaAgreementValidate(t *testing.T) {
	assert.NoError(t, validAgreement().Validate())
}

func TestNewSlaAgreementRejectsOutOfRangeTargets(t *testing.T) {
	agreement := validAgreement()
	agreement.UptimeTarget = 0
	assert.Error(t, agreement.Validate())

	agreement.UptimeTarget = 101
	assert.Error(t, agreement.Validate())
}

func TestNewSlaAgreementRequiresCatchAllTier(t *testing.T) {
	agreement := validAgreement()
	agreement.CreditPolicy = []NewCreditPolicyTier{
		{Threshold: 99.0, CreditPct: 10},
	}
	assert.Error(t, agreement.Validate())
}

func TestNewSlaAgreementRejectsOutOfRangePercentages(t *testing.T) {
	agreement := validAgreement()
	agreement.CreditPolicy[0].CreditPct = 150
	assert.Error(t, agreement.Validate())

	agreement = validAgreement()
	agreement.CreditPolicy[0].Threshold = -1
	assert.Error(t, agreement.Validate())
}

func TestNewSlaAgreementRejectsEmptyEffectiveWindows(t *testing.T) {
	agreement := validAgreement()
	agreement.EffectiveStartDate = timestamp.Timestamp(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	agreement.EffectiveEndDate = timestamp.Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Error(t, agreement.Validate())
}

func TestNewSlaAgreementToDBModel(t *testing.T) {
	converted := validAgreement().ToDBModel()

	assert.Equal(t, 99.9, converted.UptimeTarget)
	require.NotNil(t, converted.EffectiveStartDate)
	assert.Nil(t, converted.EffectiveEndDate)
	require.Len(t, converted.CreditPolicy, 3)
}

func validIncident() NewIncident {
	return NewIncident{
		Title:     "api gateway outage",
		StartedAt: timestamp.Timestamp(time.Date(2024, 2, 21, 1, 0, 0, 0, time.UTC)),
	}
}

func TestNewIncidentValidate(t *testing.T) {
	assert.NoError(t, validIncident().Validate())
}

func TestNewIncidentRequiresStartTime(t *testing.T) {
	incident := validIncident()
	incident.StartedAt = timestamp.Timestamp{}
	assert.Error(t, incident.Validate())
}

func TestNewIncidentRejectsResolutionBeforeStart(t *testing.T) {
	incident := validIncident()
	incident.ResolvedAt = timestamp.Timestamp(time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC))
	assert.Error(t, incident.Validate())
}

func TestNewIncidentToDBModelOpenIncident(t *testing.T) {
	converted := validIncident().ToDBModel()

	assert.Equal(t, model.IncidentStatusOpen, converted.Status)
	assert.Nil(t, converted.ResolvedAt)
}

func TestNewIncidentToDBModelResolvedIncident(t *testing.T) {
	incident := validIncident()
	incident.ResolvedAt = timestamp.Timestamp(time.Date(2024, 2, 21, 2, 0, 0, 0, time.UTC))

	converted := incident.ToDBModel()
	assert.Equal(t, model.IncidentStatusResolved, converted.Status)
	require.NotNil(t, converted.ResolvedAt)
}
