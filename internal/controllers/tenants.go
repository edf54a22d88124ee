package controllers

import (
	"net/http"

	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// swagger:route GET /v1/tenants tenants listTenants
//
// List Tenants
//
// Lists the tenants registered in the metering database.
//
// responses:
//   200: tenantListing
//   500: internalServerErrorResponse

// GetAllTenants lists the tenants that are currently defined in the database.
func (s Server) GetAllTenants(ctx echo.Context) error {
	context := ctx.Request().Context()

	tenants, err := db.ListTenants(context, s.GORMDB)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, model.SuccessResponse(tenants, http.StatusOK))
}

// AddTenant adds a new tenant to the database. This is a no-op if the tenant already exists.
func (s Server) AddTenant(ctx echo.Context) error {
	log := log.WithFields(logrus.Fields{"context": "adding tenant"})

	context := ctx.Request().Context()

	name := ctx.Param("tenant")
	if name == "" {
		return model.Error(ctx, "invalid tenant name", http.StatusBadRequest)
	}

	log = log.WithFields(logrus.Fields{"tenant": name})

	// Either add the tenant to the database or look up the existing tenant information.
	tenant, err := db.GetTenant(context, s.GORMDB, name)
	if err != nil {
		return model.Error(ctx, err.Error(), http.StatusInternalServerError)
	}

	log.Debug("found tenant in the database")

	return model.Success(ctx, tenant, http.StatusOK)
}
