package controllers

import (
	"fmt"
	"net/http"

	"github.com/cyverse-de/echo-middleware/v2/params"
	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// extractTenantID extracts and validates the tenant ID path parameter.
func extractTenantID(ctx echo.Context) (string, error) {
	tenantID, err := params.ValidatedPathParam(ctx, "tenant", "uuid_rfc4122")
	if err != nil {
		return "", fmt.Errorf("the tenant ID must be a valid UUID")
	}
	return tenantID, nil
}

// ValidateTenant determines whether or not a tenant exists in the database. If an error occurs during the lookup or
// the tenant doesn't exist then the appropriate response will be sent to the caller and an error will be returned.
func (s Server) ValidateTenant(ctx echo.Context, tenantID string) error {
	exists, err := db.TenantExists(ctx.Request().Context(), s.GORMDB, tenantID)
	if err != nil {
		sendErr := model.Error(ctx, err.Error(), http.StatusInternalServerError)
		if sendErr != nil {
			ctx.Logger().Errorf("unable to send response: %s", sendErr.Error())
		}
		return err
	}
	if !exists {
		msg := fmt.Sprintf("tenant %s does not exist", tenantID)
		sendErr := model.Error(ctx, msg, http.StatusNotFound)
		if sendErr != nil {
			ctx.Logger().Errorf("unable to send response: %s", sendErr.Error())
		}
		return errors.Wrap(ErrTenantNotFound, msg)
	}
	return nil
}
