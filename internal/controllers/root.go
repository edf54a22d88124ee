package controllers

import (
	"database/sql"
	"net/http"

	"github.com/ecosistema-jaraba/metering/internal/billing"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/sla"
	"github.com/ecosistema-jaraba/metering/logging"
	"github.com/labstack/echo/v4"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "controllers"})

// Server defines the REST API of the metering service.
type Server struct {
	Router     *echo.Echo
	DB         *sql.DB
	GORMDB     *gorm.DB
	NATSConn   *nats.EncodedConn
	Service    string
	Title      string
	Version    string
	Aggregator *billing.Aggregator
	Pricer     *billing.Pricer
	UptimeCalc *sla.Calculator
}

var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrIncidentNotFound = errors.New("incident not found")
	ErrRuleNotFound     = errors.New("pricing rule not found")
)

// httpStatusCode maps the errors the calculators and the database layer can return to HTTP status codes. Wrapped
// errors are unwrapped first so that the annotations added along the way don't hide the cause.
func httpStatusCode(err error) int {
	switch errors.Cause(err) {
	case ErrTenantNotFound, ErrIncidentNotFound, ErrRuleNotFound:
		return http.StatusNotFound
	case billing.ErrNoPricingRule:
		return http.StatusNotFound
	case billing.ErrInvalidPeriod, billing.ErrInvalidPeriodType, sla.ErrInvalidPeriod:
		return http.StatusBadRequest
	case billing.ErrInvalidTierConfig, sla.ErrInvalidCreditPolicy:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ServiceInfo describes the service.
//
// swagger:model
type ServiceInfo struct {
	// The service name
	Service string `json:"service"`

	// The service title
	Title string `json:"title"`

	// The service version
	Version string `json:"version"`
}

// RootHandler handles GET requests to the / endpoint. It acts as a health check endpoint.
func (s Server) RootHandler(ctx echo.Context) error {
	resp := ServiceInfo{Service: s.Service, Title: s.Title, Version: s.Version}
	return ctx.JSON(http.StatusOK, resp)
}

// V1RootHandler handles GET requests to the /v1 endpoint.
func (s Server) V1RootHandler(ctx echo.Context) error {
	resp := ServiceInfo{Service: s.Service, Title: s.Title, Version: s.Version}
	return model.Success(ctx, resp, http.StatusOK)
}
