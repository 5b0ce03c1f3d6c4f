package store

import (
	"context"

	"aqualert/internal/subscription/models"
)

// Store is the subscription registry contract. It is interface-driven so the
// dispatch logic stays testable and the in-memory, Redis, and Postgres
// implementations can be swapped without rewiring business code.
//
// All implementations must guarantee:
//   - Upsert is keyed by the citizen's already-normalized email and never
//     produces two records for the same key
//   - ListByMunicipality returns a snapshot decoupled from later mutations
//     (dispatch must not observe registrations that occur mid-iteration)
//   - no reader observes a partially-applied upsert
type Store interface {
	Upsert(ctx context.Context, citizen models.Citizen) error
	FindByEmail(ctx context.Context, email string) (models.Citizen, error)
	ListByMunicipality(ctx context.Context, municipality string) ([]models.Citizen, error)
	Municipalities(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}
