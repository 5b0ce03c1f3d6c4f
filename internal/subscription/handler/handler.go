package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"aqualert/internal/subscription/models"
	"aqualert/internal/transport/http/shared"
	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/requestcontext"
)

const sessionTokenTTL = 24 * time.Hour

// Service defines the subscription operations the handler needs.
type Service interface {
	Register(ctx context.Context, name, email, municipality string) (models.Citizen, error)
	Lookup(ctx context.Context, email string) (models.Citizen, error)
	Municipalities(ctx context.Context) ([]string, error)
}

// TokenIssuer signs citizen session tokens.
type TokenIssuer interface {
	GenerateSessionToken(email, municipality string, expiresIn time.Duration) (string, error)
}

// Handler exposes the citizen-facing registration surface.
type Handler struct {
	subscriptions Service
	tokens        TokenIssuer
	logger        *slog.Logger
}

func New(subscriptions Service, tokens TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{subscriptions: subscriptions, tokens: tokens, logger: logger}
}

// Register registers the subscription routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subscriptions", h.handleRegister)
	r.Get("/subscriptions/{email}", h.handleLookup)
	r.Get("/municipalities", h.handleMunicipalities)
}

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Municipality string `json:"municipality"`
}

type registerResponse struct {
	Email        string `json:"email"`
	Municipality string `json:"municipality"`
	SessionToken string `json:"session_token,omitempty"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	citizen, err := h.subscriptions.Register(ctx, req.Name, req.Email, req.Municipality)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register citizen",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to register"))
		return
	}

	resp := registerResponse{Email: citizen.Email, Municipality: citizen.Municipality}
	if h.tokens != nil {
		token, err := h.tokens.GenerateSessionToken(citizen.Email, citizen.Municipality, sessionTokenTTL)
		if err != nil {
			// Registration already succeeded; return it without a session.
			h.logger.WarnContext(ctx, "failed to issue session token", "error", err.Error())
		} else {
			resp.SessionToken = token
		}
	}

	shared.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	citizen, err := h.subscriptions.Lookup(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, citizen)
}

func (h *Handler) handleMunicipalities(w http.ResponseWriter, r *http.Request) {
	municipalities, err := h.subscriptions.Municipalities(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list municipalities", "error", err.Error())
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string][]string{"municipalities": municipalities})
}
