package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/config"
	"storefront-api/internal/db"
	cartrepo "storefront-api/internal/repository/cart"
	orderrepo "storefront-api/internal/repository/order"
	paymentrepo "storefront-api/internal/repository/payment"
	productrepo "storefront-api/internal/repository/product"
	rolerepo "storefront-api/internal/repository/role"
	userrepo "storefront-api/internal/repository/user"
)

// Store bundles one repository per entity for the configured backend.
type Store struct {
	Users    userrepo.Repository
	Roles    rolerepo.Repository
	Products productrepo.Repository
	Carts    cartrepo.Repository
	Orders   orderrepo.Repository
	Payments paymentrepo.Repository

	pool  *pgxpool.Pool
	mongo *mongo.Database
}

// Open connects to the backend named by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		database, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = database.Client().Disconnect(context.Background())
			return nil, err
		}
		return NewMongo(database, logger), nil
	case config.DriverPostgres:
		pool, err := db.ConnectPostgres(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return NewPostgres(pool, logger), nil
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func NewMongo(database *mongo.Database, logger zerolog.Logger) *Store {
	return &Store{
		Users:    userrepo.NewMongo(database, logger),
		Roles:    rolerepo.NewMongo(database, logger),
		Products: productrepo.NewMongo(database, logger),
		Carts:    cartrepo.NewMongo(database, logger),
		Orders:   orderrepo.NewMongo(database, logger),
		Payments: paymentrepo.NewMongo(database, logger),
		mongo:    database,
	}
}

func NewPostgres(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		Users:    userrepo.NewPostgres(pool, logger),
		Roles:    rolerepo.NewPostgres(pool, logger),
		Products: productrepo.NewPostgres(pool, logger),
		Carts:    cartrepo.NewPostgres(pool, logger),
		Orders:   orderrepo.NewPostgres(pool, logger),
		Payments: paymentrepo.NewPostgres(pool, logger),
		pool:     pool,
	}
}

func NewMemory() *Store {
	return &Store{
		Users:    userrepo.NewMemory(),
		Roles:    rolerepo.NewMemory(),
		Products: productrepo.NewMemory(),
		Carts:    cartrepo.NewMemory(),
		Orders:   orderrepo.NewMemory(),
		Payments: paymentrepo.NewMemory(),
	}
}

// Pool exposes the Postgres pool; nil for other backends.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Ping reports whether the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.pool != nil:
		return s.pool.Ping(ctx)
	case s.mongo != nil:
		return s.mongo.Client().Ping(ctx, nil)
	default:
		return nil
	}
}

func (s *Store) Close(ctx context.Context) error {
	switch {
	case s.pool != nil:
		s.pool.Close()
	case s.mongo != nil:
		return s.mongo.Client().Disconnect(ctx)
	}
	return nil
}
