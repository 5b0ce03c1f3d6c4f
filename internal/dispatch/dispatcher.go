package dispatch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"aqualert/internal/platform/metrics"
	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/subscription/models"
	dErrors "aqualert/pkg/domain-errors"
)

var tracer = otel.Tracer("aqualert/dispatch")

// Dispatcher performs the best-effort alert fan-out: one send attempt per
// recipient, failures isolated per recipient, no retries. Only the report
// processor may invoke it.
type Dispatcher struct {
	sender  Sender
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(d *Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func New(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{sender: sender, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FanOut attempts delivery to every recipient in the snapshot and returns
// the number of failures. A failed send is logged and counted; it never
// aborts the remaining sends. Returns an error only for a structurally
// invalid report, which the processor's validation makes unreachable in
// practice.
func (d *Dispatcher) FanOut(ctx context.Context, recipients []models.Citizen, report reportmodels.IncidentReport) (int, error) {
	if err := report.Validate(); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeValidation, "refusing to dispatch malformed report")
	}

	ctx, span := tracer.Start(ctx, "dispatch.fan_out", trace.WithAttributes(
		attribute.String("municipality", report.AffectedMunicipality),
		attribute.Int("recipients", len(recipients)),
	))
	defer span.End()

	start := time.Now()
	failures := 0
	for _, recipient := range recipients {
		if err := d.sender.Send(ctx, recipient, report); err != nil {
			failures++
			d.logger.WarnContext(ctx, "alert delivery failed",
				"recipient", recipient.Email,
				"municipality", report.AffectedMunicipality,
				"incident_type", report.IncidentType,
				"error", err.Error(),
			)
			if d.metrics != nil {
				d.metrics.AlertsFailed.Inc()
			}
			continue
		}
		if d.metrics != nil {
			d.metrics.AlertsSent.Inc()
		}
	}

	if d.metrics != nil {
		d.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	}
	span.SetAttributes(attribute.Int("failures", failures))

	return failures, nil
}
