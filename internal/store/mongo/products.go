package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront.dev/internal/store"
)

// Products returns the Mongo-backed product store.
func (s *Store) Products() store.Products {
	return &productStore{s}
}

type productStore struct {
	*Store
}

var _ store.Products = (*productStore)(nil)

func (s *productStore) Create(ctx context.Context, p store.Product) (store.Product, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res, err := s.products.InsertOne(ctx, p)
	if err != nil {
		return store.Product{}, fmt.Errorf("insert product: %w", err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

func (s *productStore) GetAll(ctx context.Context) ([]store.Product, error) {
	cur, err := s.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var out []store.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}

func (s *productStore) GetByID(ctx context.Context, id string) (store.Product, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Product{}, err
	}
	var p store.Product
	err = s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Product{}, store.ErrNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

func (s *productStore) Update(ctx context.Context, id string, p store.Product) (store.Product, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Product{}, err
	}

	update := bson.M{"$set": bson.M{
		"name":         p.Name,
		"image":        p.Image,
		"brand":        p.Brand,
		"category":     p.Category,
		"description":  p.Description,
		"price":        p.Price,
		"countInStock": p.CountInStock,
	}}
	var updated store.Product
	err = s.products.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Product{}, store.ErrNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("update product: %w", err)
	}
	return updated, nil
}

func (s *productStore) Delete(ctx context.Context, id string) (store.Product, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Product{}, err
	}
	var removed store.Product
	err = s.products.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Product{}, store.ErrNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("delete product: %w", err)
	}
	return removed, nil
}
