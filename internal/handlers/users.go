package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"konstruksi-backend/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already exists")
)

type UserStore interface {
	// FindByLogin matches either the username or the e-mail address.
	FindByLogin(ctx context.Context, login string) (models.User, error)
	Insert(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) FindByLogin(ctx context.Context, login string) (models.User, error) {
	filter := bson.M{
		"role": models.UserRoleAdmin,
		"$or": []bson.M{
			{"username": login},
			{"email": login},
		},
	}
	var user models.User
	if err := s.col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user models.User) error {
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoUserStore) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"password_hash": hash,
			"updated_at":    at,
		},
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id, "role": models.UserRoleAdmin}, update)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpsertUser is used by the seed tool; it keeps the existing _id and
// created_at when the username is already present.
func (s *MongoUserStore) UpsertUser(ctx context.Context, user models.User) error {
	filter := bson.M{"username": user.Username}
	update := bson.M{
		"$set": bson.M{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"updated_at":    user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        user.ID,
			"created_at": user.CreatedAt,
		},
	}
	if user.Email == "" {
		update["$set"] = bson.M{
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"updated_at":    user.UpdatedAt,
		}
	}
	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}
