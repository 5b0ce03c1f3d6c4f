//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"aqualert/internal/subscription/models"
	"aqualert/internal/subscription/store"
	"aqualert/pkg/platform/sentinel"
	"aqualert/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
	ctx   context.Context
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
	s.ctx = context.Background()
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.Client.FlushAll(s.ctx).Err())
}

func (s *RedisStoreSuite) TestUpsertAndFind() {
	c := models.Citizen{Name: "Ana", Email: "ana@x.com", Municipality: "Tona"}
	s.Require().NoError(s.store.Upsert(s.ctx, c))

	found, err := s.store.FindByEmail(s.ctx, "ana@x.com")
	s.Require().NoError(err)
	s.Equal(c, found)

	_, err = s.store.FindByEmail(s.ctx, "nobody@x.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestUpsertMovesMunicipalityIndex() {
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana", Email: "ana@x.com", Municipality: "Tona"}))
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana M.", Email: "ana@x.com", Municipality: "Vetas"}))

	inTona, err := s.store.ListByMunicipality(s.ctx, "Tona")
	s.Require().NoError(err)
	s.Empty(inTona)

	inVetas, err := s.store.ListByMunicipality(s.ctx, "Vetas")
	s.Require().NoError(err)
	s.Require().Len(inVetas, 1)
	s.Equal("Ana M.", inVetas[0].Name)

	n, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *RedisStoreSuite) TestMunicipalitiesSkipsEmptiedSets() {
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana", Email: "ana@x.com", Municipality: "Tona"}))
	s.Require().NoError(s.store.Upsert(s.ctx, models.Citizen{Name: "Ana", Email: "ana@x.com", Municipality: "Vetas"}))

	got, err := s.store.Municipalities(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Vetas"}, got)
}
