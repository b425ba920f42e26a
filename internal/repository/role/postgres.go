package role

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func (m *postgresRepo) Create(ctx context.Context, r domain.Role) (*domain.Role, error) {
	if r.ID == "" {
		r.ID = domain.NewID()
	}
	if r.Roles == nil {
		r.Roles = []string{}
	}
	rolesJSON, err := json.Marshal(r.Roles)
	if err != nil {
		return nil, fmt.Errorf("marshal roles: %w", err)
	}
	if _, err := m.pool.Exec(ctx, `INSERT INTO roles (id, roles) VALUES ($1, $2)`, r.ID, rolesJSON); err != nil {
		m.logger.Error().Err(err).Msg("role repo: insert")
		return nil, err
	}
	return &r, nil
}

func (m *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	var (
		r         domain.Role
		rolesJSON []byte
	)
	err := m.pool.QueryRow(ctx, `SELECT id, roles FROM roles WHERE id = $1`, id).Scan(&r.ID, &rolesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		m.logger.Error().Err(err).Str("id", id).Msg("role repo: get")
		return nil, err
	}
	if err := json.Unmarshal(rolesJSON, &r.Roles); err != nil {
		return nil, fmt.Errorf("unmarshal roles: %w", err)
	}
	return &r, nil
}

func (m *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := m.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		m.logger.Error().Err(err).Str("id", id).Msg("role repo: delete")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
