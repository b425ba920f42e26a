package order

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-api/internal/domain"
)

type orderDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	User        primitive.ObjectID `bson:"user"`
	Items       []itemDoc          `bson:"items"`
	TotalAmount float64            `bson:"total_amount"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type itemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
	Price    float64            `bson:"price"`
}

func (d orderDoc) toDomain() domain.Order {
	o := domain.Order{
		ID:          d.ID.Hex(),
		UserID:      d.User.Hex(),
		Items:       make([]domain.OrderItem, 0, len(d.Items)),
		TotalAmount: d.TotalAmount,
		Status:      d.Status,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, item := range d.Items {
		o.Items = append(o.Items, domain.OrderItem{ProductID: item.Product.Hex(), Quantity: item.Quantity, Price: item.Price})
	}
	return o
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection("orders"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	user, err := primitive.ObjectIDFromHex(o.UserID)
	if err != nil {
		return nil, domain.Invalid("invalid user id %q", o.UserID)
	}
	now := time.Now().UTC()
	doc := orderDoc{
		ID:          primitive.NewObjectID(),
		User:        user,
		Items:       make([]itemDoc, 0, len(o.Items)),
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, item := range o.Items {
		pid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, domain.Invalid("invalid product id %q", item.ProductID)
		}
		doc.Items = append(doc.Items, itemDoc{Product: pid, Quantity: item.Quantity, Price: item.Price})
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		r.logger.Error().Err(err).Str("user", o.UserID).Msg("order repo: insert")
		return nil, err
	}
	created := doc.toDomain()
	r.logger.Debug().Str("id", created.ID).Float64("total", created.TotalAmount).Msg("order repo: created")
	return &created, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc orderDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("order repo: get")
		return nil, err
	}
	o := doc.toDomain()
	return &o, nil
}

func (r *mongoRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	result := []domain.Order{}
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return result, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		r.logger.Error().Err(err).Str("user", userID).Msg("order repo: list")
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toDomain())
	}
	return result, cur.Err()
}

func (r *mongoRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("order repo: update status")
		return nil, err
	}
	o := doc.toDomain()
	return &o, nil
}
