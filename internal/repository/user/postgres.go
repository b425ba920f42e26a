package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

const userColumns = `id, email, first_name, last_name, password_hash, gravatar, COALESCE(role_id, ''), created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.Gravatar, &u.RoleID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	const q = `
INSERT INTO users (id, email, first_name, last_name, password_hash, gravatar, role_id)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
RETURNING ` + userColumns
	created, err := scanUser(r.pool.QueryRow(ctx, q, u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Gravatar, u.RoleID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Msg("user repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", created.ID).Msg("user repo: created")
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *postgresRepo) queryOne(ctx context.Context, q string, arg string) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("user repo: query")
		return nil, err
	}
	return &u, nil
}
