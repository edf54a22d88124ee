package db

import (
	"context"

	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetTenant looks up the tenant details, adding the tenant to the database if necessary.
func GetTenant(ctx context.Context, db *gorm.DB, name string) (*model.Tenant, error) {
	wrapMsg := "unable to look up or add the tenant"
	var err error

	tenant := model.Tenant{Name: name, Timezone: "UTC"}
	err = db.WithContext(ctx).
		Select("ID", "Name", "Timezone").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		Create(&tenant).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &tenant, nil
}

// GetTenantByID looks up the tenant with the given identifier, returning nil if the tenant doesn't exist.
func GetTenantByID(ctx context.Context, db *gorm.DB, tenantID string) (*model.Tenant, error) {
	wrapMsg := "unable to look up the tenant"
	var err error

	var tenant model.Tenant
	err = db.WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return &tenant, nil
}

// TenantExists determines whether or not the tenant exists in the database.
func TenantExists(ctx context.Context, db *gorm.DB, tenantID string) (bool, error) {
	wrapMsg := "unable to determine whether the tenant exists"
	var err error

	var tenant model.Tenant
	err = db.WithContext(ctx).Debug().Where("id = ?", tenantID).First(&tenant).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, wrapMsg)
	}
	return true, nil
}

// ListTenants lists all of the tenants registered in the database.
func ListTenants(ctx context.Context, db *gorm.DB) ([]*model.Tenant, error) {
	wrapMsg := "unable to list tenants"
	var err error

	var tenants []*model.Tenant
	err = db.WithContext(ctx).Order("name asc").Find(&tenants).Error
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	return tenants, nil
}
