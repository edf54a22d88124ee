package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/ecosistema-jaraba/metering/internal/query"
	"github.com/ecosistema-jaraba/metering/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AggregationRequest describes one aggregation run: the canonical periods of the requested type needed to cover the
// time range are materialized for the tenant and metric.
//
// swagger:model
type AggregationRequest struct {

	// The tenant identifier
	//
	// required: true
	Tenant string `json:"tenant"`

	// The name of the metric to aggregate
	//
	// required: true
	MetricName string `json:"metric_name"`

	// The aggregation period type
	//
	// required: true
	PeriodType string `json:"period_type"`

	// The beginning of the time range to aggregate, inclusive
	//
	// required: true
	Start timestamp.Timestamp `json:"start"`

	// The end of the time range to aggregate, exclusive
	//
	// required: true
	End timestamp.Timestamp `json:"end"`
}

// Validate verifies that all the required fields in an aggregation request are present and acceptable.
func (r AggregationRequest) Validate() error {
	if r.Tenant == "" {
		return fmt.Errorf("a tenant ID is required")
	}
	if r.MetricName == "" {
		return fmt.Errorf("a metric name is required")
	}
	if !model.ValidPeriodType(r.PeriodType) {
		return fmt.Errorf("invalid period type: %s", r.PeriodType)
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("the time range to aggregate must be specified")
	}
	return nil
}

// RunAggregation materializes usage aggregates for a tenant, metric and time range.
//
// swagger:route POST /v1/aggregates aggregates runAggregation
//
// # Run Aggregation
//
// Rolls the usage events for a tenant and metric into per-period aggregates. Re-running an aggregation for the same
// periods recomputes them in place.
//
// responses:
//
//	200: usageAggregateListing
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) RunAggregation(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "running aggregation"})

	context := ctx.Request().Context()

	// Extract and validate the request body.
	var request AggregationRequest
	if err = ctx.Bind(&request); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err = request.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{
		"tenant":     request.Tenant,
		"metric":     request.MetricName,
		"periodType": request.PeriodType,
	})

	// Verify that the tenant exists; aggregation periods are bucketed in the tenant's time zone.
	tenant, err := db.GetTenantByID(context, s.GORMDB, request.Tenant)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	if tenant == nil {
		msg := fmt.Sprintf("tenant %s does not exist", request.Tenant)
		return model.Error(ctx, msg, http.StatusNotFound)
	}

	aggregates, err := s.Aggregator.AggregateRange(
		context,
		request.Tenant,
		utils.NormalizeMetricName(request.MetricName),
		request.PeriodType,
		request.Start.Time(),
		request.End.Time(),
		tenant.Location(),
	)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("materialized %d aggregates", len(aggregates))

	return model.Success(ctx, aggregates, http.StatusOK)
}

// GetUsageAggregates lists the materialized aggregates for a tenant.
//
// swagger:route GET /v1/aggregates/{tenant} aggregates listUsageAggregates
//
// # List Usage Aggregates
//
// Lists the materialized usage aggregates for a tenant, optionally filtered by metric, period type and period range.
//
// responses:
//
//	200: usageAggregateListing
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetUsageAggregates(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "listing usage aggregates"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	// Extract and validate the optional query parameters.
	emptyString := ""
	metricName := utils.NormalizeMetricName(ctx.QueryParam("metric"))
	periodType, err := query.ValidateEnumQueryParam(ctx, "period-type", model.PeriodTypes, &emptyString)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	var zeroTime time.Time
	periodStart, err := query.ValidateTimestampQueryParam(ctx, "start", &zeroTime)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	periodEnd, err := query.ValidateTimestampQueryParam(ctx, "end", &zeroTime)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID})

	listingParams := &db.UsageAggregateListingParams{
		MetricName: metricName,
		PeriodType: periodType,
	}
	if !periodStart.IsZero() {
		listingParams.PeriodStart = &periodStart
	}
	if !periodEnd.IsZero() {
		listingParams.PeriodEnd = &periodEnd
	}

	aggregates, err := db.ListUsageAggregates(context, s.GORMDB, tenantID, listingParams)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("found %d aggregates", len(aggregates))

	return model.Success(ctx, aggregates, http.StatusOK)
}
