package controllers

import (
	"net/http"

	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/httpmodel"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/query"
	"github.com/ecosistema-jaraba/metering/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddUsageEvent records a new usage event.
//
// swagger:route POST /v1/events events addUsageEvent
//
// # Record Usage Event
//
// Records a single raw consumption event for a tenant.
//
// responses:
//
//	200: usageEventResponse
//	400: badRequestResponse
//	500: internalServerErrorResponse
func (s Server) AddUsageEvent(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "recording usage event"})

	context := ctx.Request().Context()

	// Extract and validate the request body.
	var newEvent httpmodel.NewUsageEvent
	if err = ctx.Bind(&newEvent); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err = newEvent.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{
		"tenant": newEvent.Tenant,
		"metric": newEvent.MetricName,
	})

	event := newEvent.ToDBModel()

	// Start a transaction.
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {

		// Look up or insert the tenant.
		tenant, err := db.GetTenant(context, tx, newEvent.Tenant)
		if err != nil {
			return err
		}

		log.Debugf("found tenant %s in the database", tenant.Name)

		// Record the event.
		event.TenantID = tenant.ID
		return db.AddUsageEvent(context, tx, &event)
	})
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("recorded a %s event of %f %s", event.EventType, event.Quantity, event.Unit)

	return model.Success(ctx, event, http.StatusOK)
}

// GetUsageEvents lists the usage events recorded for a tenant and metric within a time period.
//
// swagger:route GET /v1/events/{tenant} events listUsageEvents
//
// # List Usage Events
//
// Lists the usage events recorded for a tenant and metric within a time period.
//
// responses:
//
//	200: usageEventListing
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetUsageEvents(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "listing usage events"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	// Extract and validate the query parameters.
	metricName, err := query.ValidatedQueryParam(ctx, "metric", "required")
	if err != nil {
		return model.Error(ctx, "missing required query parameter: metric", http.StatusBadRequest)
	}
	metricName = utils.NormalizeMetricName(metricName)
	periodStart, err := query.ValidateTimestampQueryParam(ctx, "start", nil)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	periodEnd, err := query.ValidateTimestampQueryParam(ctx, "end", nil)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if !periodEnd.After(periodStart) {
		return model.Error(ctx, "the period end must be after the period start", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID, "metric": metricName})

	events, err := db.ListUsageEvents(context, s.GORMDB, tenantID, metricName, periodStart, periodEnd)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("found %d events", len(events))

	return model.Success(ctx, events, http.StatusOK)
}
