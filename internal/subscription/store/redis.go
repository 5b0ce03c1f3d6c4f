package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"aqualert/internal/subscription/models"
	"aqualert/pkg/platform/sentinel"
)

const (
	citizenKeyPrefix      = "citizen:"
	municipalityKeyPrefix = "municipality:"
	citizensKey           = "citizens"
	municipalitiesKey     = "municipalities"
)

// upsertScript applies the whole upsert atomically so no reader observes a
// citizen indexed under two municipalities.
var upsertScript = redis.NewScript(`
local key = KEYS[1]
local name = ARGV[1]
local email = ARGV[2]
local municipality = ARGV[3]
local old = redis.call('HGET', key, 'municipality')
if old and old ~= municipality then
  redis.call('SREM', 'municipality:' .. old, email)
end
redis.call('HSET', key, 'name', name, 'email', email, 'municipality', municipality)
redis.call('SADD', 'municipality:' .. municipality, email)
redis.call('SADD', 'municipalities', municipality)
redis.call('SADD', 'citizens', email)
return 1
`)

// Redis is a Store backed by Redis hashes plus per-municipality index sets.
// Recommended when several instances must share the registry.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Upsert(ctx context.Context, citizen models.Citizen) error {
	err := upsertScript.Run(ctx, s.client,
		[]string{citizenKeyPrefix + citizen.Email},
		citizen.Name, citizen.Email, citizen.Municipality,
	).Err()
	if err != nil {
		return fmt.Errorf("upsert citizen: %w", err)
	}
	return nil
}

func (s *Redis) FindByEmail(ctx context.Context, email string) (models.Citizen, error) {
	fields, err := s.client.HGetAll(ctx, citizenKeyPrefix+email).Result()
	if err != nil {
		return models.Citizen{}, fmt.Errorf("find citizen: %w", err)
	}
	if len(fields) == 0 {
		return models.Citizen{}, sentinel.ErrNotFound
	}
	return models.Citizen{
		Name:         fields["name"],
		Email:        fields["email"],
		Municipality: fields["municipality"],
	}, nil
}

func (s *Redis) ListByMunicipality(ctx context.Context, municipality string) ([]models.Citizen, error) {
	emails, err := s.client.SMembers(ctx, municipalityKeyPrefix+municipality).Result()
	if err != nil {
		return nil, fmt.Errorf("list municipality members: %w", err)
	}
	if len(emails) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(emails))
	for i, email := range emails {
		cmds[i] = pipe.HGetAll(ctx, citizenKeyPrefix+email)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("load citizens: %w", err)
	}

	out := make([]models.Citizen, 0, len(emails))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		// The index can briefly lag a concurrent municipality change; keep
		// the snapshot honest by re-checking the record itself.
		if fields["municipality"] != municipality {
			continue
		}
		out = append(out, models.Citizen{
			Name:         fields["name"],
			Email:        fields["email"],
			Municipality: fields["municipality"],
		})
	}
	return out, nil
}

func (s *Redis) Municipalities(ctx context.Context) ([]string, error) {
	known, err := s.client.SMembers(ctx, municipalitiesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}
	out := make([]string, 0, len(known))
	for _, m := range known {
		n, err := s.client.SCard(ctx, municipalityKeyPrefix+m).Result()
		if err != nil {
			return nil, fmt.Errorf("count municipality members: %w", err)
		}
		if n > 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *Redis) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, citizensKey).Result()
	if err != nil {
		return 0, fmt.Errorf("count citizens: %w", err)
	}
	return int(n), nil
}
