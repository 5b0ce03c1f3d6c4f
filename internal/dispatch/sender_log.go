package dispatch

import (
	"context"
	"log/slog"

	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/subscription/models"
)

// LogSender is the development sender: it records what would have been
// delivered instead of talking to a mail relay.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, recipient models.Citizen, incident reportmodels.IncidentReport) error {
	s.logger.InfoContext(ctx, "alert (not delivered, log sender)",
		"to", recipient.Email,
		"municipality", incident.AffectedMunicipality,
		"incident_type", incident.IncidentType,
		"severity", incident.SeverityLevel,
	)
	return nil
}
