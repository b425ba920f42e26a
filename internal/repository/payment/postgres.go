package payment

import (
	"context"

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

func (r *postgresRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	const q = `
INSERT INTO payments (id, order_id, amount, payment_method, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at
`
	if err := r.pool.QueryRow(ctx, q, p.ID, p.OrderID, p.Amount, p.PaymentMethod, p.Status).Scan(&p.CreatedAt); err != nil {
		r.logger.Error().Err(err).Str("order", p.OrderID).Msg("payment repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", p.ID).Str("order", p.OrderID).Msg("payment repo: created")
	return &p, nil
}
