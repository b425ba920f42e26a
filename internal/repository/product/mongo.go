package product

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

const collection = "products"

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	ImageURL    string             `bson:"image_url"`
	Stock       int                `bson:"stock"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Stock:       d.Stock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection(collection), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	oid := primitive.NewObjectID()
	if p.ID != "" {
		parsed, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, domain.Invalid("invalid product id %q", p.ID)
		}
		oid = parsed
	}
	stamp(&p)
	doc := productDoc{
		ID:          oid,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Str("name", p.Name).Msg("product repo: insert")
		return nil, err
	}
	created := doc.toDomain()
	r.logger.Debug().Str("id", created.ID).Msg("product repo: created")
	return &created, nil
}

func (r *mongoRepo) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error().Err(err).Msg("product repo: list")
		return nil, err
	}
	defer cur.Close(ctx)

	result := []domain.Product{}
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		r.logger.Error().Err(err).Msg("product repo: list cursor")
		return nil, err
	}
	r.logger.Debug().Int("count", len(result)).Msg("product repo: list")
	return result, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: get")
		return nil, err
	}
	p := doc.toDomain()
	return &p, nil
}

func (r *mongoRepo) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return result, nil
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		r.logger.Error().Err(err).Int("ids", len(oids)).Msg("product repo: get many")
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		p := doc.toDomain()
		result[p.ID] = p
	}
	return result, cur.Err()
}

func (r *mongoRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	fields := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.ImageURL != nil {
		fields["image_url"] = *patch.ImageURL
	}
	if patch.Stock != nil {
		fields["stock"] = *patch.Stock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: update")
		return nil, err
	}
	updated := doc.toDomain()
	return &updated, nil
}

func (r *mongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Msg("product repo: delete")
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	r.logger.Debug().Str("id", id).Msg("product repo: deleted")
	return nil
}

func (r *mongoRepo) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	filter := bson.M{"_id": oid, "stock": bson.M{"$gte": qty}}
	update := bson.M{
		"$inc": bson.M{"stock": -qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Int("qty", qty).Msg("product repo: decrement stock")
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *mongoRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	update := bson.M{
		"$inc": bson.M{"stock": qty},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		r.logger.Error().Err(err).Str("id", id).Int("qty", qty).Msg("product repo: increment stock")
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *mongoRepo) UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, bool, error) {
	var existing productDoc
	err := r.coll.FindOne(ctx, bson.M{"name": p.Name}).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := r.Create(ctx, p)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	case err != nil:
		r.logger.Error().Err(err).Str("name", p.Name).Msg("product repo: upsert lookup")
		return nil, false, err
	}
	updated, err := r.Update(ctx, existing.ID.Hex(), p.Patch())
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}
