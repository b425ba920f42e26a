package payment

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/domain"
)

type paymentDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Order         primitive.ObjectID `bson:"order"`
	Amount        float64            `bson:"amount"`
	PaymentMethod string             `bson:"payment_method"`
	Status        string             `bson:"status"`
	CreatedAt     time.Time          `bson:"created_at"`
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection("payments"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	orderID, err := primitive.ObjectIDFromHex(p.OrderID)
	if err != nil {
		return nil, domain.Invalid("invalid order id %q", p.OrderID)
	}
	doc := paymentDoc{
		ID:            primitive.NewObjectID(),
		Order:         orderID,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("order", p.OrderID).Msg("payment repo: insert")
		return nil, err
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt = doc.CreatedAt
	r.logger.Debug().Str("id", p.ID).Str("order", p.OrderID).Msg("payment repo: created")
	return &p, nil
}
