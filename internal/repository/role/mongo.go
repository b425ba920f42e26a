package role

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/domain"
)

type roleDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Roles []string           `bson:"roles"`
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection("roles"), logger: logger}
}

func (m *mongoRepo) Create(ctx context.Context, r domain.Role) (*domain.Role, error) {
	doc := roleDoc{ID: primitive.NewObjectID(), Roles: r.Roles}
	if doc.Roles == nil {
		doc.Roles = []string{}
	}
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		m.logger.Error().Err(err).Msg("role repo: insert")
		return nil, err
	}
	return &domain.Role{ID: doc.ID.Hex(), Roles: doc.Roles}, nil
}

func (m *mongoRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc roleDoc
	if err := m.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		m.logger.Error().Err(err).Str("id", id).Msg("role repo: get")
		return nil, err
	}
	return &domain.Role{ID: doc.ID.Hex(), Roles: doc.Roles}, nil
}

func (m *mongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		m.logger.Error().Err(err).Str("id", id).Msg("role repo: delete")
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
