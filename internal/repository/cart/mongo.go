package cart

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

type cartDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"user"`
	Items     []itemDoc          `bson:"items"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type itemDoc struct {
	Product  primitive.ObjectID `bson:"product"`
	Quantity int                `bson:"quantity"`
}

func (d cartDoc) toDomain() *domain.Cart {
	c := &domain.Cart{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Items:     make([]domain.CartItem, 0, len(d.Items)),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	for _, item := range d.Items {
		c.Items = append(c.Items, domain.CartItem{ProductID: item.Product.Hex(), Quantity: item.Quantity})
	}
	return c
}

func toItemDocs(items []domain.CartItem) ([]itemDoc, error) {
	docs := make([]itemDoc, 0, len(items))
	for _, item := range items {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, domain.Invalid("invalid product id %q", item.ProductID)
		}
		docs = append(docs, itemDoc{Product: oid, Quantity: item.Quantity})
	}
	return docs, nil
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection("carts"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, userID string) (*domain.Cart, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.Invalid("invalid user id %q", userID)
	}
	now := time.Now().UTC()
	doc := cartDoc{ID: primitive.NewObjectID(), User: user, Items: []itemDoc{}, CreatedAt: now, UpdatedAt: now}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Str("user", userID).Msg("cart repo: insert")
		return nil, err
	}
	r.logger.Debug().Str("id", doc.ID.Hex()).Str("user", userID).Msg("cart repo: created")
	return doc.toDomain(), nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"user": user})
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.Cart, error) {
	var doc cartDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("cart repo: find")
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoRepo) Save(ctx context.Context, c domain.Cart) (*domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	items, err := toItemDocs(c.Items)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"items": items, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc cartDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", c.ID).Msg("cart repo: save")
		return nil, err
	}
	r.logger.Debug().Str("id", c.ID).Int("items", len(items)).Msg("cart repo: saved")
	return doc.toDomain(), nil
}
