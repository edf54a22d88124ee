// Package api Metering
//
// Documentation of the Metering Api
//
//	Schemes: http
//	BasePath: /
//	Version: V1
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package swagger

import (
	"github.com/ecosistema-jaraba/metering/internal/controllers"
	"github.com/ecosistema-jaraba/metering/internal/model"
)

// Note: the comments in this package don't conform to the convention of including the name of the entity that the
// comment describes. The reason for this is because the comments appear as-is in the API documentation. Confusing
// documentation is produced when the structure names appear in the API documentation.

// Error
//
// Having the same object definition for multiple HTTP response status codes seems to confuse ReDoc, so we're using
// aliases as a workaround.
//
// swagger:response errorResponse
type ErrorResponse struct {

	// in: body
	Body struct {

		// A brief description of the error
		Error string `json:"error"`

		// The status of the request
		Status string `json:"status"`
	}
}

// Bad Request
//
// swagger:response badRequestResponse
type BadRequestResponse struct {
	ErrorResponse
}

// Not Found
//
// swagger:response notFoundResponse
type NotFoundResponse struct {
	ErrorResponse
}

// Internal Server Error
//
// swagger:response internalServerErrorResponse
type InternalServerErrorResponse struct {
	ErrorResponse
}

// Documentation for the successful response body wrapper. The `Error` field could be included here as well, but it's
// being omitted for now simply because it produces less confusing documentation when the error and success response
// bodies are treated separately.
//
// swagger:model
type ResponseBodyWrapper struct {

	// The status of the request
	Status string `json:"status"`
}

// Usage Event
//
// swagger:response usageEventResponse
type UsageEventResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The recorded usage event
		Result model.UsageEvent `json:"result"`
	}
}

// Usage Event Listing
//
// swagger:response usageEventListing
type UsageEventListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of usage events
		Result []model.UsageEvent `json:"result"`
	}
}

// Usage Aggregate Listing
//
// swagger:response usageAggregateListing
type UsageAggregateListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of usage aggregates
		Result []model.UsageAggregate `json:"result"`
	}
}

// Pricing Rule
//
// swagger:response pricingRuleResponse
type PricingRuleResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The pricing rule
		Result model.PricingRule `json:"result"`
	}
}

// Pricing Rule Listing
//
// swagger:response pricingRuleListing
type PricingRuleListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of pricing rules
		Result []model.PricingRule `json:"result"`
	}
}

// Cost Report
//
// swagger:response costReportResponse
type CostReportResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The cost report
		Result controllers.CostReport `json:"result"`
	}
}

// Incident
//
// swagger:response incidentResponse
type IncidentResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The incident
		Result model.SlaIncident `json:"result"`
	}
}

// Incident Listing
//
// swagger:response incidentListing
type IncidentListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of incidents
		Result []model.SlaIncident `json:"result"`
	}
}

// Service Level Agreement
//
// swagger:response agreementResponse
type AgreementResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The service level agreement
		Result model.SlaAgreement `json:"result"`
	}
}

// Service Level Agreement Listing
//
// swagger:response agreementListing
type AgreementListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of service level agreements
		Result []model.SlaAgreement `json:"result"`
	}
}

// SLA Report
//
// swagger:response slaReportResponse
type SlaReportResponse struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The uptime and credit report
		Result controllers.SlaReport `json:"result"`
	}
}

// Tenant Listing
//
// swagger:response tenantListing
type TenantListing struct {

	// in:body
	Body struct {
		ResponseBodyWrapper

		// The list of tenants
		Result []model.Tenant `json:"result"`
	}
}
