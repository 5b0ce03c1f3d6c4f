package dispatch

import (
	"context"

	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/subscription/models"
)

// Sender is the external notification collaborator. Formatting, SMTP
// mechanics, and attachments are entirely its concern; the dispatcher only
// needs attempt-and-report semantics. Implementations are expected to
// enforce their own timeouts.
type Sender interface {
	Send(ctx context.Context, recipient models.Citizen, incident reportmodels.IncidentReport) error
}
