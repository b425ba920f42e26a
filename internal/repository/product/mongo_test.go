package product

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"storefront-api/internal/db"
	"storefront-api/internal/domain"
)

func TestMongo_DecrementIsGuarded(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	database, err := db.ConnectMongo(ctx, uri, "storefront_test")
	if err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	defer database.Client().Disconnect(context.Background())

	if err := database.Collection(collection).Drop(ctx); err != nil {
		t.Fatalf("drop products: %v", err)
	}

	repo := NewMongo(database, zerolog.Nop())
	created, err := repo.Create(ctx, domain.Product{Name: "Mug", Price: 4, Stock: 5})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sold int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.DecrementStock(ctx, created.ID, 1); err == nil {
				mu.Lock()
				sold++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if sold != 5 {
		t.Fatalf("expected 5 successful decrements, got %d", sold)
	}
	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}

	if err := repo.DecrementStock(ctx, "650000000000000000000000", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing product, got %v", err)
	}
}
