package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aqualert/internal/subscription/models"
	"aqualert/pkg/platform/sentinel"
)

// Postgres persists the registry in PostgreSQL. The unique constraint on the
// normalized email column enforces the one-record-per-email invariant at the
// database level.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the citizens table if it does not exist yet.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS citizens (
    email        TEXT PRIMARY KEY,
    name         TEXT NOT NULL DEFAULT '',
    municipality TEXT NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS citizens_municipality_idx ON citizens (municipality)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure citizens schema: %w", err)
		}
	}
	return nil
}

func (s *Postgres) Upsert(ctx context.Context, citizen models.Citizen) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO citizens (email, name, municipality, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name, municipality = EXCLUDED.municipality, updated_at = now()
`, citizen.Email, citizen.Name, citizen.Municipality)
	if err != nil {
		return fmt.Errorf("upsert citizen: %w", err)
	}
	return nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (models.Citizen, error) {
	var c models.Citizen
	err := s.pool.QueryRow(ctx,
		`SELECT email, name, municipality FROM citizens WHERE email = $1`, email,
	).Scan(&c.Email, &c.Name, &c.Municipality)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Citizen{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Citizen{}, fmt.Errorf("find citizen: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListByMunicipality(ctx context.Context, municipality string) ([]models.Citizen, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT email, name, municipality FROM citizens WHERE municipality = $1`, municipality)
	if err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	defer rows.Close()

	var out []models.Citizen
	for rows.Next() {
		var c models.Citizen
		if err := rows.Scan(&c.Email, &c.Name, &c.Municipality); err != nil {
			return nil, fmt.Errorf("scan citizen: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	return out, nil
}

func (s *Postgres) Municipalities(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT municipality FROM citizens ORDER BY municipality`)
	if err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan municipality: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list municipalities: %w", err)
	}
	return out, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM citizens`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count citizens: %w", err)
	}
	return n, nil
}
