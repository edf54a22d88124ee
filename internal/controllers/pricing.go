package controllers

import (
	"fmt"
	"net/http"

	"github.com/cyverse-de/echo-middleware/v2/params"
	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/httpmodel"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/query"
	"github.com/ecosistema-jaraba/metering/utils"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// extractRuleID extracts and validates the pricing rule ID path parameter.
func extractRuleID(ctx echo.Context) (string, error) {
	ruleID, err := params.ValidatedPathParam(ctx, "rule_id", "uuid_rfc4122")
	if err != nil {
		return "", fmt.Errorf("the pricing rule ID must be a valid UUID")
	}
	return ruleID, nil
}

// AddPricingRule creates a new pricing rule.
//
// swagger:route POST /v1/pricing-rules pricing-rules addPricingRule
//
// # Add Pricing Rule
//
// Creates a new pricing rule for a metric. A rule with a tenant applies only to that tenant and takes precedence
// over the global default; a rule without one becomes the global default for the metric. Any previously active rule
// for the same metric and scope is deactivated.
//
// responses:
//
//	200: pricingRuleResponse
//	400: badRequestResponse
//	500: internalServerErrorResponse
func (s Server) AddPricingRule(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "adding pricing rule"})

	context := ctx.Request().Context()

	// Extract and validate the request body.
	var newRule httpmodel.NewPricingRule
	if err = ctx.Bind(&newRule); err != nil {
		return model.Error(ctx, "invalid request body", http.StatusBadRequest)
	}
	if err = newRule.Validate(); err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{
		"rule":   newRule.Name,
		"metric": newRule.MetricName,
		"model":  newRule.PricingModel,
	})

	rule := newRule.ToDBModel()

	// Start a transaction.
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {

		// Look up or insert the tenant if the rule is tenant-specific.
		if newRule.Tenant != "" {
			tenant, err := db.GetTenant(context, tx, newRule.Tenant)
			if err != nil {
				return err
			}
			rule.TenantID = tenant.ID
			log.Debugf("the rule is specific to tenant %s", tenant.Name)
		}

		return db.AddPricingRule(context, tx, &rule)
	})
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("added pricing rule %s", *rule.ID)

	return model.Success(ctx, rule, http.StatusOK)
}

// GetAllPricingRules lists the pricing rules.
//
// swagger:route GET /v1/pricing-rules pricing-rules listPricingRules
//
// # List Pricing Rules
//
// Lists the pricing rules, optionally filtered by metric and status.
//
// responses:
//
//	200: pricingRuleListing
//	400: badRequestResponse
//	500: internalServerErrorResponse
func (s Server) GetAllPricingRules(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "listing pricing rules"})

	context := ctx.Request().Context()

	// Extract and validate the optional query parameters.
	activeOnlyDefault := false
	activeOnly, err := query.ValidateBooleanQueryParam(ctx, "active-only", &activeOnlyDefault)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	rules, err := db.ListPricingRules(context, s.GORMDB, &db.PricingRuleListingParams{
		MetricName: ctx.QueryParam("metric"),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("found %d pricing rules", len(rules))

	return model.Success(ctx, rules, http.StatusOK)
}

// GetPricingRuleByID returns the pricing rule with the given identifier.
//
// swagger:route GET /v1/pricing-rules/{rule_id} pricing-rules getPricingRuleByID
//
// # Get Pricing Rule Information
//
// Returns the pricing rule with the given identifier.
//
// responses:
//
//	200: pricingRuleResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetPricingRuleByID(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "getting pricing rule by id"})

	context := ctx.Request().Context()

	// Extract and validate the pricing rule ID.
	ruleID, err := extractRuleID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"ruleID": ruleID})

	rule, err := db.GetPricingRule(context, s.GORMDB, ruleID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}
	if rule == nil {
		msg := fmt.Sprintf("pricing rule %s not found", ruleID)
		return model.Error(ctx, msg, http.StatusNotFound)
	}

	return model.Success(ctx, rule, http.StatusOK)
}

// DeactivatePricingRule marks a pricing rule as inactive.
//
// swagger:route POST /v1/pricing-rules/{rule_id}/deactivate pricing-rules deactivatePricingRule
//
// # Deactivate Pricing Rule
//
// Marks a pricing rule as inactive. Rules are never deleted so that historical pricing remains auditable.
//
// responses:
//
//	200: pricingRuleResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) DeactivatePricingRule(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "deactivating pricing rule"})

	context := ctx.Request().Context()

	// Extract and validate the pricing rule ID.
	ruleID, err := extractRuleID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"ruleID": ruleID})

	rule, err := db.DeactivatePricingRule(context, s.GORMDB, ruleID)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}
	if rule == nil {
		msg := fmt.Sprintf("pricing rule %s not found", ruleID)
		return model.Error(ctx, msg, http.StatusNotFound)
	}

	log.Debug("deactivated the pricing rule")

	return model.Success(ctx, rule, http.StatusOK)
}

// CostReport describes the outcome of one cost evaluation.
//
// swagger:model
type CostReport struct {

	// The name of the priced metric
	MetricName string `json:"metric_name"`

	// The quantity the cost was computed for
	TotalQuantity float64 `json:"total_quantity"`

	// The computed cost, rounded to two decimal places
	Cost float64 `json:"cost"`

	// The ISO 4217 currency code for the cost
	Currency string `json:"currency"`

	// The per-tier charges for tiered rules
	Breakdown interface{} `json:"breakdown,omitempty"`
}

// GetMetricCost evaluates the cost of a tenant's usage of a metric.
//
// swagger:route GET /v1/tenants/{tenant}/metrics/{metric}/cost pricing-rules getMetricCost
//
// # Evaluate Metric Cost
//
// Applies the active pricing rule for the tenant and metric to the tenant's usage over a time period, or to an
// explicit quantity when one is given.
//
// responses:
//
//	200: costReportResponse
//	400: badRequestResponse
//	404: notFoundResponse
//	500: internalServerErrorResponse
func (s Server) GetMetricCost(ctx echo.Context) error {
	var err error

	log := log.WithFields(logrus.Fields{"context": "evaluating metric cost"})

	context := ctx.Request().Context()

	// Extract and validate the tenant ID.
	tenantID, err := extractTenantID(ctx)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusBadRequest)
	}
	if err = s.ValidateTenant(ctx, tenantID); err != nil {
		return nil
	}

	metricName := utils.NormalizeMetricName(ctx.Param("metric"))
	if metricName == "" {
		return model.Error(ctx, "missing metric name", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": tenantID, "metric": metricName})

	// Determine the quantity to price: an explicit quantity wins, otherwise the tenant's usage over the requested
	// period is summed.
	var totalQuantity float64
	if ctx.QueryParam("quantity") != "" {
		totalQuantity, err = query.ValidateFloatQueryParam(ctx, "quantity", "gte=0")
		if err != nil {
			return model.Error(ctx, err.Error(), http.StatusBadRequest)
		}
	} else {
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

		summary, err := db.SummarizeUsageEvents(context, s.GORMDB, tenantID, metricName, periodStart, periodEnd)
		if err != nil {
			log.Error(err)
			return model.Error(ctx, err.Error(), httpStatusCode(err))
		}
		totalQuantity = summary.TotalQuantity
	}

	log.Debugf("pricing a quantity of %f", totalQuantity)

	evaluation, err := s.Pricer.Evaluate(context, tenantID, metricName, totalQuantity)
	if err != nil {
		log.Error(err)
		return model.Error(ctx, err.Error(), httpStatusCode(err))
	}

	log.Debugf("the computed cost is %f %s", evaluation.Cost, evaluation.Currency)

	report := CostReport{
		MetricName:    metricName,
		TotalQuantity: totalQuantity,
		Cost:          evaluation.Cost,
		Currency:      evaluation.Currency,
	}
	if len(evaluation.Breakdown) > 0 {
		report.Breakdown = evaluation.Breakdown
	}

	return model.Success(ctx, report, http.StatusOK)
}
