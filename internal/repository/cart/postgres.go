package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

const cartColumns = `id, user_id, items, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		c         domain.Cart
		itemsJSON []byte
	)
	if err := row.Scan(&c.ID, &c.UserID, &itemsJSON, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Items = []domain.CartItem{}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &c.Items); err != nil {
			return nil, fmt.Errorf("unmarshal cart items: %w", err)
		}
	}
	return &c, nil
}

func (r *postgresRepo) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (id, user_id, items)
VALUES ($1, $2, '[]'::jsonb)
RETURNING ` + cartColumns
	c, err := scanCart(r.pool.QueryRow(ctx, q, domain.NewID(), userID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Str("user", userID).Msg("cart repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", c.ID).Str("user", userID).Msg("cart repo: created")
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	return r.queryOne(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	return r.queryOne(ctx, `SELECT `+cartColumns+` FROM carts WHERE user_id = $1`, userID)
}

func (r *postgresRepo) queryOne(ctx context.Context, q, arg string) (*domain.Cart, error) {
	c, err := scanCart(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("cart repo: query")
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c domain.Cart) (*domain.Cart, error) {
	items := c.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal cart items: %w", err)
	}
	const q = `
UPDATE carts SET items = $2, updated_at = now()
WHERE id = $1
RETURNING ` + cartColumns
	saved, err := scanCart(r.pool.QueryRow(ctx, q, c.ID, itemsJSON))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", c.ID).Msg("cart repo: save")
		return nil, err
	}
	return saved, nil
}
