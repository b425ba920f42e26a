package order

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

const orderColumns = `id, user_id, items, total_amount, status, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o         domain.Order
		itemsJSON []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &itemsJSON, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}
	o.Items = []domain.OrderItem{}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return o, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return o, nil
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if o.ID == "" {
		o.ID = domain.NewID()
	}
	items := o.Items
	if items == nil {
		items = []domain.OrderItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal order items: %w", err)
	}
	const q = `
INSERT INTO orders (id, user_id, items, total_amount, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderColumns
	created, err := scanOrder(r.pool.QueryRow(ctx, q, o.ID, o.UserID, itemsJSON, o.TotalAmount, o.Status))
	if err != nil {
		r.logger.Error().Err(err).Str("user", o.UserID).Msg("order repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", created.ID).Float64("total", created.TotalAmount).Msg("order repo: created")
	return &created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("order repo: get")
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user", userID).Msg("order repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	const q = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("order repo: update status")
		return nil, err
	}
	return &o, nil
}
