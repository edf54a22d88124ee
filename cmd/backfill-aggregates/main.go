package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ecosistema-jaraba/metering/internal/billing"
	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/model"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Config struct {
	DatabaseURI string
	PeriodType  string
	Start       time.Time
	End         time.Time
}

// loadConfig loads configuration settings from the environment. We're using koanf directly here so that the
// configuration files don't have to be present to run the backfill utility.
func loadConfig() (*Config, error) {
	k := koanf.New(".")

	// Load the configuration settings from the environment.
	err := k.Load(
		env.Provider("METERING_", ".",
			func(s string) string {
				return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "METERING_")), "_", ".", -1)
			},
		),
		nil,
	)
	if err != nil {
		return nil, err
	}

	// Verify that the database URI is specified.
	databaseURI := k.String("database.uri")
	if databaseURI == "" {
		return nil, fmt.Errorf("METERING_DATABASE_URI must be defined")
	}

	// Verify that the period type is specified and acceptable.
	periodType := k.String("backfill.period")
	if !model.ValidPeriodType(periodType) {
		return nil, fmt.Errorf("METERING_BACKFILL_PERIOD must be one of %s", strings.Join(model.PeriodTypes, ", "))
	}

	// Parse the time range to backfill.
	start, err := timestamp.Parse(k.String("backfill.start"))
	if err != nil {
		return nil, errors.Wrap(err, "METERING_BACKFILL_START is missing or malformed")
	}
	end, err := timestamp.Parse(k.String("backfill.end"))
	if err != nil {
		return nil, errors.Wrap(err, "METERING_BACKFILL_END is missing or malformed")
	}

	return &Config{
		DatabaseURI: databaseURI,
		PeriodType:  periodType,
		Start:       start.Time(),
		End:         end.Time(),
	}, nil
}

// listMeteredMetrics lists the distinct tenant and metric combinations that have events within the time range.
func listMeteredMetrics(ctx context.Context, tx *gorm.DB, start, end time.Time) ([]model.UsageEvent, error) {
	var metrics []model.UsageEvent
	err := tx.WithContext(ctx).
		Model(&model.UsageEvent{}).
		Distinct("tenant_id", "metric_name").
		Where("recorded_at >= ? AND recorded_at < ?", start, end).
		Find(&metrics).
		Error
	return metrics, err
}

// backfillMetric materializes the aggregates of one tenant and metric for the configured time range.
func backfillMetric(
	ctx context.Context, aggregator *billing.Aggregator, tx *gorm.DB, cfg *Config, tenantID, metricName string,
) error {
	fmt.Printf("backfilling %s aggregates of %s for tenant %s...\n", cfg.PeriodType, metricName, tenantID)

	// Aggregation periods are bucketed in the tenant's time zone.
	tenant, err := db.GetTenantByID(ctx, tx, tenantID)
	if err != nil {
		return errors.Wrapf(err, "unable to get the tenant details for %s", tenantID)
	}
	if tenant == nil {
		return fmt.Errorf("tenant %s does not exist", tenantID)
	}

	aggregates, err := aggregator.AggregateRange(
		ctx, tenantID, metricName, cfg.PeriodType, cfg.Start, cfg.End, tenant.Location(),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to aggregate %s for tenant %s", metricName, tenantID)
	}

	fmt.Printf("materialized %d aggregates\n", len(aggregates))
	return nil
}

func main() {

	// Load the configuration.
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("unable to load the configuration: %s", err)
	}

	// Establish the database connection.
	_, gormdb, err := db.Init("postgres", cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("unable to connect to the database: %s", err)
	}

	// Run the actual backfill in a transaction.
	err = gormdb.Transaction(func(tx *gorm.DB) error {
		ctx := context.Background()

		store := db.NewStore(tx)
		aggregator := billing.NewAggregator(store, store)

		// Get the tenant and metric combinations with events in the time range.
		metrics, err := listMeteredMetrics(ctx, tx, cfg.Start, cfg.End)
		if err != nil {
			return errors.Wrap(err, "unable to list the metered metrics")
		}

		for _, metric := range metrics {
			err = backfillMetric(ctx, aggregator, tx, cfg, *metric.TenantID, metric.MetricName)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
}
