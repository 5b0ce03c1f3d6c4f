package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	reportmodels "aqualert/internal/report/models"
	"aqualert/internal/transport/http/shared"
	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/requestcontext"
)

// Processor defines the report operation the handler needs.
type Processor interface {
	Handle(ctx context.Context, report reportmodels.IncidentReport, secretCode string) (reportmodels.DispatchOutcome, error)
}

// Handler exposes the organization-facing reporting surface.
type Handler struct {
	reports Processor
	logger  *slog.Logger
}

func New(reports Processor, logger *slog.Logger) *Handler {
	return &Handler{reports: reports, logger: logger}
}

// Register registers the reporting routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.handleReport)
}

type reportRequest struct {
	OrganizationID       string `json:"organization_id"`
	ReporterName         string `json:"reporter_name"`
	ReporterEmail        string `json:"reporter_email"`
	SecretCode           string `json:"secret_code"`
	IncidentType         string `json:"incident_type"`
	SeverityLevel        string `json:"severity_level"`
	Description          string `json:"description"`
	AffectedMunicipality string `json:"affected_municipality"`
}

type reportResponse struct {
	Authorized     bool   `json:"authorized"`
	RecipientCount int    `json:"recipient_count"`
	FailureCount   int    `json:"failure_count"`
	Message        string `json:"message"`
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	report := reportmodels.IncidentReport{
		OrganizationID:       req.OrganizationID,
		ReporterName:         req.ReporterName,
		ReporterEmail:        req.ReporterEmail,
		IncidentType:         req.IncidentType,
		SeverityLevel:        req.SeverityLevel,
		Description:          req.Description,
		AffectedMunicipality: req.AffectedMunicipality,
	}

	outcome, err := h.reports.Handle(ctx, report, req.SecretCode)
	if err != nil {
		switch {
		case dErrors.HasCode(err, dErrors.CodeValidation), dErrors.HasCode(err, dErrors.CodeUnauthorized):
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to process incident report",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to process report"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, reportResponse{
		Authorized:     outcome.Authorized,
		RecipientCount: outcome.RecipientCount,
		FailureCount:   outcome.FailureCount,
		Message: fmt.Sprintf(
			"incident registered; %d registered citizens will receive an alert",
			outcome.RecipientCount,
		),
	})
}
