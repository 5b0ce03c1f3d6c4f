//go:build integration

package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"aqualert/internal/subscription/models"
	"aqualert/internal/subscription/store"
	"aqualert/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.Pool)
	s.Require().NoError(s.store.EnsureSchema(s.ctx))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.postgres.Pool.Exec(s.ctx, "TRUNCATE citizens")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpsertIsIdempotentPerEmail() {
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana", Email: "ana@x.com", Municipality: "Tona"}))
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana M.", Email: "ana@x.com", Municipality: "Vetas"}))

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	found, err := s.store.FindByEmail(s.ctx, "ana@x.com")
	s.Require().NoError(err)
	s.Equal("Ana M.", found.Name)
	s.Equal("Vetas", found.Municipality)
}

func (s *PostgresStoreSuite) TestFilterAndMunicipalities() {
	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("tona%d@x.com", i)
		s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Email: email, Municipality: "Tona"}))
	}
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Email: "vetas@x.com", Municipality: "Vetas"}))

	inTona, err := s.store.ListByMunicipality(s.ctx, "Tona")
	s.Require().NoError(err)
	s.Len(inTona, 3)

	municipalities, err := s.store.Municipalities(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Tona", "Vetas"}, municipalities)
}

// TestConcurrentUpsertsSameKey verifies the unique constraint collapses
// concurrent writes for one email into a single record.
func (s *PostgresStoreSuite) TestConcurrentUpsertsSameKey() {
	const goroutines = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.store.Upsert(s.ctx, models.Citizen{
				Name:         fmt.Sprintf("Writer %d", i),
				Email:        "shared@x.com",
				Municipality: "Tona",
			})
		}(i)
	}
	wg.Wait()

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}
