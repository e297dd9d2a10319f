package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront.dev/internal/store"
)

// Users returns the Mongo-backed user store.
func (s *Store) Users() store.Users {
	return &userStore{s}
}

type userStore struct {
	*Store
}

var _ store.Users = (*userStore)(nil)

func (s *userStore) Create(ctx context.Context, u store.User) (store.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := s.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return store.User{}, store.ErrDuplicateEmail
	}
	if err != nil {
		return store.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u store.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *userStore) GetByID(ctx context.Context, id string) (store.User, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.User{}, err
	}
	var u store.User
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
