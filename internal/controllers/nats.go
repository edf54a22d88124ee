package controllers

import (
	"context"

	"github.com/ecosistema-jaraba/metering/internal/db"
	"github.com/ecosistema-jaraba/metering/internal/httpmodel"
	"github.com/ecosistema-jaraba/metering/internal/model/timestamp"
	"github.com/ecosistema-jaraba/metering/internal/sla"
	"github.com/ecosistema-jaraba/metering/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NatsResponse is the envelope for every response published over NATS. Either the result or the error is set, never
// both.
type NatsResponse struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// respond publishes a response to the caller's reply subject.
func (s Server) respond(log *logrus.Entry, reply string, response *NatsResponse) {
	if err := s.NATSConn.Publish(reply, response); err != nil {
		log.Error(err)
	}
}

// AddUsageEventNATS is the NATS handler for recording a usage event.
func (s Server) AddUsageEventNATS(subject, reply string, request *httpmodel.NewUsageEvent) {
	var err error

	log := log.WithFields(logrus.Fields{"context": "record usage event over nats"})

	ctx := context.Background()

	if err = request.Validate(); err != nil {
		s.respond(log, reply, &NatsResponse{Error: err.Error()})
		return
	}

	log = log.WithFields(logrus.Fields{
		"tenant": request.Tenant,
		"metric": request.MetricName,
	})

	event := request.ToDBModel()
	err = s.GORMDB.Transaction(func(tx *gorm.DB) error {
		tenant, err := db.GetTenant(ctx, tx, request.Tenant)
		if err != nil {
			return err
		}
		event.TenantID = tenant.ID
		return db.AddUsageEvent(ctx, tx, &event)
	})
	if err != nil {
		log.Error(err)
		s.respond(log, reply, &NatsResponse{Error: err.Error()})
		return
	}

	log.Debug("recorded the usage event")

	s.respond(log, reply, &NatsResponse{Result: event})
}

// UsageLookupRequest asks for the usage totals for a tenant and metric over a time period.
type UsageLookupRequest struct {
	Tenant     string              `json:"tenant"`
	MetricName string              `json:"metric_name"`
	Start      timestamp.Timestamp `json:"start"`
	End        timestamp.Timestamp `json:"end"`
}

// GetUsagesNATS is the NATS handler for summarizing the usage of a tenant and metric over a time period.
func (s Server) GetUsagesNATS(subject, reply string, request *UsageLookupRequest) {
	log := log.WithFields(logrus.Fields{"context": "summarize usage over nats"})

	ctx := context.Background()

	periodStart := request.Start.Time()
	periodEnd := request.End.Time()
	if !periodEnd.After(periodStart) {
		s.respond(log, reply, &NatsResponse{Error: "the period end must be after the period start"})
		return
	}

	log = log.WithFields(logrus.Fields{
		"tenant": request.Tenant,
		"metric": request.MetricName,
	})

	summary, err := db.SummarizeUsageEvents(
		ctx, s.GORMDB, request.Tenant, utils.NormalizeMetricName(request.MetricName), periodStart, periodEnd,
	)
	if err != nil {
		log.Error(err)
		s.respond(log, reply, &NatsResponse{Error: err.Error()})
		return
	}

	log.Debugf("summarized %d events totaling %f", summary.EventCount, summary.TotalQuantity)

	s.respond(log, reply, &NatsResponse{Result: summary})
}

// SlaReportRequest asks for the uptime and credit report for a tenant over a report period.
type SlaReportRequest struct {
	Tenant string              `json:"tenant"`
	Start  timestamp.Timestamp `json:"start"`
	End    timestamp.Timestamp `json:"end"`
}

// GetSlaReportNATS is the NATS handler for computing a tenant's uptime and credit report.
func (s Server) GetSlaReportNATS(subject, reply string, request *SlaReportRequest) {
	log := log.WithFields(logrus.Fields{"context": "compute sla report over nats"})

	ctx := context.Background()

	log = log.WithFields(logrus.Fields{"tenant": request.Tenant})

	report, err := s.natsSlaReport(ctx, request)
	if err != nil {
		log.Error(err)
		s.respond(log, reply, &NatsResponse{Error: err.Error()})
		return
	}

	log.Debugf("the uptime was %f%%", report.UptimePct)

	s.respond(log, reply, &NatsResponse{Result: report})
}

// natsSlaReport computes the combined uptime and credit report for a NATS request.
func (s Server) natsSlaReport(ctx context.Context, request *SlaReportRequest) (*SlaReport, error) {
	periodStart := request.Start.Time()
	periodEnd := request.End.Time()

	uptime, err := s.UptimeCalc.CalculateUptime(ctx, request.Tenant, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	report := &SlaReport{
		UptimeReport: *uptime,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}

	if uptime.HasAgreement && !uptime.SlaMet {
		agreement, err := db.GetActiveAgreement(ctx, s.GORMDB, request.Tenant, periodEnd)
		if err != nil {
			return nil, err
		}
		if agreement != nil {
			report.CreditPct, err = sla.CalculateCredit(uptime.UptimePct, agreement.CreditPolicy)
			if err != nil {
				return nil, err
			}
		}
	}

	return report, nil
}
