package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened.
type Action string

const (
	ActionCitizenRegistered Action = "citizen.registered"
	ActionReportAuthorized  Action = "report.authorized"
	ActionReportRejected    Action = "report.rejected"
	ActionAlertDispatched   Action = "alert.dispatched"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Action       Action    `json:"action"`
	Actor        string    `json:"actor,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Municipality string    `json:"municipality,omitempty"`
	Detail       string    `json:"detail,omitempty"`
}
