package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cyverse-de/echo-middleware/v2/params"
	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/httpmodel"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/query"
	"github.com/ecosistema-jaraba/metering/internal/sla"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AddIncident records a new service incident for a tenant.
//
// swagger:route POST /v1/tenants/{tenant}/incidents sla addIncident
//
// # Record Incident
//
// Records a service incident for a tenant. An incident without a resolution time stays open and keeps accruing
// downtime until it's resolved.
//
// responses:
//
//	200: incidentResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) AddIncident(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "recording incident"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	// Extract and validate the request body.
	var newIncident httpmodel.NewIncident
	if err = ctx.Bind(&newIncident); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err = newIncident.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	incident := newIncident.ToDBModel()
	incident.TenantID = &tenantID
	err = db.AddIncident(context, s.GORMDB, &incident)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("recorded incident %s starting at %s", *incident.ID, incident.StartedAt)

	return model.Success(ctx, incident, http.StatusOK)
}

// ResolveIncident marks an incident as resolved.
//
// swagger:route PUT /v1/tenants/{tenant}/incidents/{incident_id}/resolve sla resolveIncident
//
// # Resolve Incident
//
// Marks an open incident as resolved. The resolution time defaults to the time of the request.
//
// responses:
//
//	200: incidentResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) ResolveIncident(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "resolving incident"})

	context := ctx.Request().Context()

	// Extract and validate the path parameters.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}
	incidentID, err := params.ValidatedPathParam(ctx, "incident_id", "uuid_rfc4122")
	if err != nil {
		return model.Error(ctx, "the incident ID must be a valid UUID", http.StatusBadRequest)
	}

	// The resolution time defaults to now.
	now := time.Now()
	resolvedAt, err := query.ValidateTimestampQueryParam(ctx, "resolved-at", &now)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID, "incidentID": incidentID})

	incident, err := db.ResolveIncident(context, s.GORMDB, incidentID, resolvedAt)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}
	if incident == nil {
		msg := fmt.Sprintf("incident %s not found", incidentID)
		return model.Error(ctx, msg, http.StatusNotFound)
	}

	log.Debugf("resolved the incident at %s", resolvedAt)

	return model.Success(ctx, incident, http.StatusOK)
}

// GetAllIncidents lists the incidents recorded for a tenant.
//
// swagger:route GET /v1/tenants/{tenant}/incidents sla listIncidents
//
// # List Incidents
//
// Lists the incidents recorded for a tenant, most recent first.
//
// responses:
//
//	200: incidentListing
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetAllIncidents(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "listing incidents"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	incidents, err := db.ListIncidents(context, s.GORMDB, tenantID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("found %d incidents", len(incidents))

	return model.Success(ctx, incidents, http.StatusOK)
}

// AddSlaAgreement creates a new service level agreement for a tenant.
//
// swagger:route POST /v1/tenants/{tenant}/agreements sla addSlaAgreement
//
// # Add Service Level Agreement
//
// Creates a service level agreement for a tenant, including the credit policy applied when the uptime target is
// missed. The credit policy has to include a zero-threshold catch-all tier.
//
// responses:
//
//	200: agreementResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) AddSlaAgreement(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "adding service level agreement"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	// Extract and validate the request body.
	var newAgreement httpmodel.NewSlaAgreement
	if err = ctx.Bind(&newAgreement); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err = newAgreement.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	agreement := newAgreement.ToDBModel()
	agreement.TenantID = &tenantID
	err = db.AddAgreement(context, s.GORMDB, &agreement)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("added agreement %s with a target of %f%%", *agreement.ID, agreement.UptimeTarget)

	return model.Success(ctx, agreement, http.StatusOK)
}

// GetAllSlaAgreements lists the agreements recorded for a tenant.
//
// swagger:route GET /v1/tenants/{tenant}/agreements sla listSlaAgreements
//
// # List Service Level Agreements
//
// Lists the service level agreements recorded for a tenant.
//
// responses:
//
//	200: agreementListing
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetAllSlaAgreements(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "listing service level agreements"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	agreements, err := db.ListAgreements(context, s.GORMDB, tenantID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("found %d agreements", len(agreements))

	return model.Success(ctx, agreements, http.StatusOK)
}

// SlaReport combines an uptime report with the service credit it earns.
//
// swagger:model
type SlaReport struct {
	sla.UptimeReport

	// The beginning of the report period, inclusive
	PeriodStart time.Time `json:"period_start"`

	// The end of the report period, exclusive
	PeriodEnd time.Time `json:"period_end"`

	// The percentage of the periodic fee credited for the period
	CreditPct float64 `json:"credit_pct"`
}

// slaReport computes the combined uptime and credit report for a tenant over a period.
func (s Server) slaReport(
	ctx echo.Context, tenantID string, periodStart, periodEnd time.Time,
) (*SlaReport, error) {
	context := ctx.Request().Context()

	// Compute the uptime for the period.
	uptime, err := s.UptimeCalc.CalculateUptime(context, tenantID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	report := &SlaReport{
		UptimeReport: *uptime,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}

	// Apply the credit policy if the tenant has an agreement. No credit accrues while the target is met.
	if uptime.HasAgreement && !uptime.SlaMet {
		agreement, err := db.GetActiveAgreement(context, s.GORMDB, tenantID, time.Now())
		if err != nil {
			return nil, err
		}
		if agreement != nil {
			report.CreditPct, err = sla.CalculateCredit(uptime.UptimePct, agreement.CreditPolicy)
			if err != nil {
				return nil, err
			}
		}
	}

	return report, nil
}

// GetSlaReport computes the uptime and credit report for a tenant over a period.
//
// swagger:route GET /v1/tenants/{tenant}/sla/report sla getSlaReport
//
// # Get SLA Report
//
// Computes the uptime percentage, downtime minutes and earned service credit for a tenant over a report period.
//
// responses:
//
//	200: slaReportResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetSlaReport(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "computing sla report"})

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	// Extract and validate the report period.
	periodStart, err := query.ValidateTimestampQueryParam(ctx, "start", nil)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	periodEnd, err := query.ValidateTimestampQueryParam(ctx, "end", nil)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	report, err := s.slaReport(ctx, tenantID, periodStart, periodEnd)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("the uptime was %f%% earning a credit of %f%%", report.UptimePct, report.CreditPct)

	return model.Success(ctx, report, http.StatusOK)
}
