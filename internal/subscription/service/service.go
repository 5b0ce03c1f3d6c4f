package service

import (
	"context"
	"errors"
	"log/slog"

	"aqualert/internal/audit"
	"aqualert/internal/platform/metrics"
	"aqualert/internal/subscription/models"
	"aqualert/internal/subscription/store"
	dErrors "aqualert/pkg/domain-errors"
	"aqualert/pkg/email"
	"aqualert/pkg/platform/sentinel"
)

// AuditPublisher captures registry events for the audit trail.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns citizen registrations. It is the only writer to the
// subscription store.
type Service struct {
	citizens store.Store

	// fallbackMunicipalities backs the reporting form when no citizen has
	// registered yet.
	fallbackMunicipalities []string

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithFallbackMunicipalities(municipalities []string) Option {
	return func(s *Service) {
		s.fallbackMunicipalities = append([]string(nil), municipalities...)
	}
}

// New constructs a Service.
func New(citizens store.Store, opts ...Option) *Service {
	s := &Service{citizens: citizens, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register upserts a citizen keyed by normalized email. Registering an email
// that already exists overwrites name and municipality in place.
func (s *Service) Register(ctx context.Context, name, addr, municipality string) (models.Citizen, error) {
	citizen, err := models.NewCitizen(name, addr, municipality)
	if err != nil {
		return models.Citizen{}, err
	}

	if err := s.citizens.Upsert(ctx, citizen); err != nil {
		return models.Citizen{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	s.logger.InfoContext(ctx, "citizen registered",
		"email", citizen.Email,
		"municipality", citizen.Municipality,
	)
	s.logAudit(ctx, audit.Event{
		Action:       audit.ActionCitizenRegistered,
		Actor:        citizen.Email,
		Municipality: citizen.Municipality,
	})
	s.metrics.IncrementCitizensRegistered()

	return citizen, nil
}

// Lookup returns the current registration for a normalized email.
func (s *Service) Lookup(ctx context.Context, addr string) (models.Citizen, error) {
	normalized := email.Normalize(addr)
	if normalized == "" {
		return models.Citizen{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	citizen, err := s.citizens.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Citizen{}, dErrors.New(dErrors.CodeNotFound, "no registration for this email")
		}
		return models.Citizen{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registration")
	}
	return citizen, nil
}

// Municipalities lists the distinct municipality values present in the
// registry; when the registry is empty it falls back to the configured
// default list so the reporting form always has choices.
func (s *Service) Municipalities(ctx context.Context) ([]string, error) {
	known, err := s.citizens.Municipalities(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list municipalities")
	}
	if len(known) == 0 {
		return append([]string(nil), s.fallbackMunicipalities...), nil
	}
	return known, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
