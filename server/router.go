package server

import (
	"github.com/cyverse-de/echo-middleware/v2/redoc"
	"github.com/ecosistema-jaraba/metering/internal/controllers"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echolog "github.com/spirosoik/echo-logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func InitRouter() *echo.Echo {
	log := log.WithFields(logrus.Fields{"context": "router"})

	// Create the web server.
	e := echo.New()

	// Set a custom logger.
	echoLogger := echolog.NewLoggerMiddleware(log)
	e.Logger = echoLogger

	// Add middleware.
	e.Use(otelecho.Middleware("metering"))
	e.Use(echoLogger.Hook())
	e.Use(middleware.Recover())
	e.Use(redoc.Serve(redoc.Opts{Title: "Usage Metering and SLA Service"}))

	return e
}

func registerTenantEndpoints(tenants *echo.Group, s *controllers.Server) {
	// Lists all of the tenants.
	tenants.GET("", s.GetAllTenants)

	// Adds a new tenant to the database.
	tenants.PUT("/:tenant", s.AddTenant)

	// Evaluates the cost of a tenant's usage of a metric.
	tenants.GET("/:tenant/metrics/:metric/cost", s.GetMetricCost)

	// Computes the uptime and credit report for a tenant.
	tenants.GET("/:tenant/sla/report", s.GetSlaReport)

	// Incident management.
	tenants.POST("/:tenant/incidents", s.AddIncident)
	tenants.GET("/:tenant/incidents", s.GetAllIncidents)
	tenants.PUT("/:tenant/incidents/:incident_id/resolve", s.ResolveIncident)

	// Service level agreement management.
	tenants.POST("/:tenant/agreements", s.AddSlaAgreement)
	tenants.GET("/:tenant/agreements", s.GetAllSlaAgreements)
}

func registerPricingRuleEndpoints(pricingRules *echo.Group, s *controllers.Server) {
	// Returns a listing of all pricing rules.
	pricingRules.GET("", s.GetAllPricingRules)

	// Adds a pricing rule to the database.
	pricingRules.POST("", s.AddPricingRule)

	// Gets the details of a pricing rule by its UUID.
	pricingRules.GET("/:rule_id", s.GetPricingRuleByID)

	// Marks a pricing rule as inactive.
	pricingRules.POST("/:rule_id/deactivate", s.DeactivatePricingRule)
}

func RegisterHandlers(s controllers.Server) {

	// The base URL acts as a health check endpoint.
	s.Router.GET("/", s.RootHandler)

	// API version 1 endpoints.
	v1 := s.Router.Group("/v1")
	v1.GET("", s.V1RootHandler)

	events := v1.Group("/events")
	events.POST("", s.AddUsageEvent)
	events.GET("/:tenant", s.GetUsageEvents)

	aggregates := v1.Group("/aggregates")
	aggregates.POST("", s.RunAggregation)
	aggregates.GET("/:tenant", s.GetUsageAggregates)

	pricingRules := v1.Group("/pricing-rules")
	registerPricingRuleEndpoints(pricingRules, &s)

	tenants := v1.Group("/tenants")
	registerTenantEndpoints(tenants, &s)
}
