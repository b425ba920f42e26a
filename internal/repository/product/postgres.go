package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"storefront-api/internal/domain"
)

const productColumns = `id, name, description, price, image_url, stock, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger}
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = domain.NewID()
	}
	stamp(&p)
	const q = `
INSERT INTO products (id, name, description, price, image_url, stock, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q, p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.CreatedAt, p.UpdatedAt))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Str("name", p.Name).Msg("product repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", created.ID).Msg("product repo: created")
	return &created, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error().Err(err).Msg("product repo: list")
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("product repo: list rows")
		return nil, err
	}
	r.logger.Debug().Int("count", len(result)).Msg("product repo: list")
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: get")
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	q := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("ids", len(ids)).Msg("product repo: get many")
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	args := []any{id}
	sets := []string{"updated_at = now()"}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.ImageURL != nil {
		set("image_url", *patch.ImageURL)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}

	q := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + productColumns
	updated, err := scanProduct(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: update")
		return nil, err
	}
	return &updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: delete")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug().Str("id", id).Msg("product repo: deleted")
	return nil
}

func (r *postgresRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	const q = `UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`
	tag, err := r.pool.Exec(ctx, q, id, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Int("qty", qty).Msg("product repo: decrement stock")
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *postgresRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Int("qty", qty).Msg("product repo: increment stock")
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error) {
	var existingID string
	err := r.pool.QueryRow(ctx, `SELECT id FROM products WHERE name = $1 ORDER BY created_at LIMIT 1`, p.Name).Scan(&existingID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		created, err := r.Create(ctx, p)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	case err != nil:
		r.logger.Error().Err(err).Str("name", p.Name).Msg("product repo: upsert lookup")
		return nil, false, err
	}
	updated, err := r.Update(ctx, existingID, p.Patch())
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}
