package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aqualert/internal/audit"
	"aqualert/internal/platform/metrics"
	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/subscription/models"
	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/email"
)

var tracer = otel.Tracer("aqualert/report")

// Registry is the read side of the subscription store the processor needs:
// a point-in-time snapshot of the citizens registered for one municipality.
type Registry interface {
	ListByMunicipality(ctx context.Context, municipality string) ([]models.Citizen, error)
}

// Authenticator validates organization credentials. Pure; no I/O.
type Authenticator interface {
	Authenticate(organizationID, claimedEmail, claimedCode string) bool
}

// Dispatcher fans an authorized report out to a recipient snapshot and
// returns the failure count.
type Dispatcher interface {
	FanOut(ctx context.Context, recipients []models.Citizen, report reportmodels.IncidentReport) (int, error)
}

// AuditPublisher captures report decisions for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Processor is the policy gate: the single place that decides whether a
// report may trigger notifications, and the only caller of the dispatcher.
type Processor struct {
	registry      Registry
	authenticator Authenticator
	dispatcher    Dispatcher

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(p *Processor)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(p *Processor) { p.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) { p.metrics = m }
}

func New(registry Registry, authenticator Authenticator, dispatcher Dispatcher, opts ...Option) *Processor {
	p := &Processor{
		registry:      registry,
		authenticator: authenticator,
		dispatcher:    dispatcher,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle validates and authorizes a report, then dispatches alerts to the
// citizens registered for the affected municipality.
//
// Authorization failure short-circuits before any registry access or
// dispatch attempt: a rejected report has no side effect beyond its audit
// entry. The returned error for that case carries a generic unauthorized
// message that does not reveal which credential check failed.
func (p *Processor) Handle(ctx context.Context, report reportmodels.IncidentReport, secretCode string) (reportmodels.DispatchOutcome, error) {
	if err := report.Validate(); err != nil {
		return reportmodels.DispatchOutcome{}, err
	}
	report.ReporterEmail = email.Normalize(report.ReporterEmail)

	ctx, span := tracer.Start(ctx, "report.handle", trace.WithAttributes(
		attribute.String("organization", report.OrganizationID),
		attribute.String("municipality", report.AffectedMunicipality),
	))
	defer span.End()

	p.metrics.IncrementReportsReceived()

	if !p.authenticator.Authenticate(report.OrganizationID, report.ReporterEmail, secretCode) {
		p.metrics.IncrementReportsUnauthorized()
		p.logger.WarnContext(ctx, "incident report rejected",
			"organization", report.OrganizationID,
			"municipality", report.AffectedMunicipality,
		)
		p.logAudit(ctx, audit.Event{
			Action:       audit.ActionReportRejected,
			Actor:        report.ReporterEmail,
			Organization: report.OrganizationID,
			Municipality: report.AffectedMunicipality,
		})
		return reportmodels.DispatchOutcome{Authorized: false},
			dErrors.New(dErrors.CodeUnauthorized, "organization credentials rejected")
	}

	p.logAudit(ctx, audit.Event{
		Action:       audit.ActionReportAuthorized,
		Actor:        report.ReporterEmail,
		Organization: report.OrganizationID,
		Municipality: report.AffectedMunicipality,
		Detail:       fmt.Sprintf("%s (%s)", report.IncidentType, report.SeverityLevel),
	})

	recipients, err := p.registry.ListByMunicipality(ctx, report.AffectedMunicipality)
	if err != nil {
		return reportmodels.DispatchOutcome{Authorized: true},
			dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recipients")
	}

	failures, err := p.dispatcher.FanOut(ctx, recipients, report)
	if err != nil {
		return reportmodels.DispatchOutcome{Authorized: true, RecipientCount: len(recipients)},
			dErrors.Wrap(err, dErrors.CodeInternal, "dispatch failed")
	}

	outcome := reportmodels.DispatchOutcome{
		Authorized:     true,
		RecipientCount: len(recipients),
		FailureCount:   failures,
	}

	p.logger.InfoContext(ctx, "incident report dispatched",
		"organization", report.OrganizationID,
		"municipality", report.AffectedMunicipality,
		"recipients", outcome.RecipientCount,
		"failures", outcome.FailureCount,
	)
	p.logAudit(ctx, audit.Event{
		Action:       audit.ActionAlertDispatched,
		Actor:        report.ReporterEmail,
		Organization: report.OrganizationID,
		Municipality: report.AffectedMunicipality,
		Detail:       fmt.Sprintf("%d recipients, %d failures", outcome.RecipientCount, outcome.FailureCount),
	})
	span.SetAttributes(
		attribute.Int("recipients", outcome.RecipientCount),
		attribute.Int("failures", outcome.FailureCount),
	)

	return outcome, nil
}

func (p *Processor) logAudit(ctx context.Context, event audit.Event) {
	if p.auditPublisher == nil {
		return
	}
	if err := p.auditPublisher.Emit(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
