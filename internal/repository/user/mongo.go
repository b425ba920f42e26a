package user

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront-api/internal/domain"
)

type userDoc struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Email        string              `bson:"email"`
	FirstName    string              `bson:"first_name"`
	LastName     string              `bson:"last_name"`
	PasswordHash string              `bson:"password"`
	Gravatar     string              `bson:"gravatar"`
	Role         *primitive.ObjectID `bson:"role,omitempty"`
	CreatedAt    time.Time           `bson:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

func (d userDoc) toDomain() domain.User {
	u := domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		PasswordHash: d.PasswordHash,
		Gravatar:     d.Gravatar,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Role != nil {
		u.RoleID = d.Role.Hex()
	}
	return u
}

type mongoRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func NewMongo(db *mongo.Database, logger zerolog.Logger) Repository {
	return &mongoRepo{coll: db.Collection("users"), logger: logger}
}

func (r *mongoRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		Gravatar:     u.Gravatar,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if u.RoleID != "" {
		roleID, err := primitive.ObjectIDFromHex(u.RoleID)
		if err != nil {
			return nil, domain.Invalid("invalid role id %q", u.RoleID)
		}
		doc.Role = &roleID
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error().Err(err).Msg("user repo: insert")
		return nil, err
	}
	created := doc.toDomain()
	r.logger.Debug().Str("id", created.ID).Msg("user repo: created")
	return &created, nil
}

func (r *mongoRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("user repo: find")
		return nil, err
	}
	u := doc.toDomain()
	return &u, nil
}
