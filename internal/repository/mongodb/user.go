package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDoc struct {
	ID             string    `bson:"_id"`
	Username       string    `bson:"username"`
	Email          string    `bson:"email"`
	PasswordHash   string    `bson:"password_hash,omitempty"`
	ProfilePicture *imageDoc `bson:"profile_picture,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (d userDoc) model() *model.User {
	user := &model.User{
		ID:           parseID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.ProfilePicture != nil {
		user.ProfilePicture = &model.Image{URL: d.ProfilePicture.URL, PublicID: d.ProfilePicture.PublicID}
	}
	return user
}

type userRepo struct {
	users *mongo.Collection
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:           user.ID.String(),
		Username:     user.Username,
		Email:        strings.ToLower(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return nil, duplicateKey(err)
	}

	return doc.model(), nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.model(), nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, update model.UserUpdate) (*model.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Email != nil {
		set["email"] = strings.ToLower(*update.Email)
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.ProfilePicture != nil {
		set["profile_picture"] = imageDoc{URL: update.ProfilePicture.URL, PublicID: update.ProfilePicture.PublicID}
	}

	var doc userDoc
	err := r.users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id.String()},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, duplicateKey(notFound(err))
	}

	return doc.model(), nil
}
