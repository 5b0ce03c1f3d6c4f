package store

import (
	"context"
	"sort"
	"sync"

	"aqualert/internal/subscription/models"
	"aqualert/pkg/platform/sentinel"
)

// InMemory is the reference Store implementation: a mutex-guarded map keyed
// by normalized email. It favors clarity over performance; a single lock
// serializes upserts against each other and against snapshot reads.
type InMemory struct {
	mu       sync.RWMutex
	citizens map[string]models.Citizen
}

func NewInMemory() *InMemory {
	return &InMemory{citizens: make(map[string]models.Citizen)}
}

// Upsert inserts or overwrites the record for the citizen's email key.
func (s *InMemory) Upsert(_ context.Context, citizen models.Citizen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.citizens[citizen.Email] = citizen
	return nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.citizens[email]; ok {
		return c, nil
	}
	return models.Citizen{}, sentinel.ErrNotFound
}

// ListByMunicipality returns a point-in-time copy of every citizen whose
// municipality matches exactly (case-sensitive, controlled vocabulary).
func (s *InMemory) ListByMunicipality(_ context.Context, municipality string) ([]models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Citizen
	for _, c := range s.citizens {
		if c.Municipality == municipality {
			out = append(out, c)
		}
	}
	return out, nil
}

// Municipalities returns the distinct municipality values currently present,
// sorted for stable form rendering.
func (s *InMemory) Municipalities(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, c := range s.citizens {
		seen[c.Municipality] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.citizens), nil
}
