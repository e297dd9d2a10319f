package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront.dev/internal/store"
)

// Orders returns the Mongo-backed order store.
func (s *Store) Orders() store.Orders {
	return &orderStore{s}
}

type orderStore struct {
	*Store
}

var _ store.Orders = (*orderStore)(nil)

func (s *orderStore) Create(ctx context.Context, ownerID string, draft store.OrderDraft) (store.Order, error) {
	owner, err := store.ParseID(ownerID)
	if err != nil {
		return store.Order{}, err
	}

	order := store.Order{
		UserID:        owner,
		OrderItems:    draft.Items,
		Shipping:      draft.Shipping,
		ItemsPrice:    draft.ItemsPrice,
		TaxPrice:      draft.TaxPrice,
		ShippingPrice: draft.ShippingPrice,
		TotalPrice:    draft.TotalPrice,
		CreatedAt:     s.now().UTC(),
	}
	res, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return store.Order{}, fmt.Errorf("insert order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return order, nil
}

func (s *orderStore) GetAll(ctx context.Context) ([]store.Order, error) {
	cur, err := s.orders.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	var out []store.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}

func (s *orderStore) GetByUser(ctx context.Context, ownerID string) ([]store.Order, error) {
	owner, err := store.ParseID(ownerID)
	if err != nil {
		return nil, err
	}
	cur, err := s.orders.Find(ctx, bson.M{"user": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find orders by user: %w", err)
	}
	var out []store.Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return out, nil
}

func (s *orderStore) GetByID(ctx context.Context, id string) (store.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Order{}, err
	}
	var order store.Order
	err = s.orders.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Order{}, store.ErrNotFound
	}
	if err != nil {
		return store.Order{}, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderStore) Delete(ctx context.Context, id string) (store.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Order{}, err
	}
	var removed store.Order
	err = s.orders.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&removed)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Order{}, store.ErrNotFound
	}
	if err != nil {
		return store.Order{}, fmt.Errorf("delete order: %w", err)
	}
	return removed, nil
}

func (s *orderStore) MarkPaid(ctx context.Context, id string, details store.PaymentDetails) (store.Order, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.Order{}, err
	}

	paidAt := s.now().UTC()
	update := bson.M{"$set": bson.M{
		"isPaid": true,
		"paidAt": paidAt,
		"payment": store.Payment{
			Method: store.PaymentMethodPayPal,
			Result: store.PaymentResult(details),
		},
	}}

	// Compare-and-set on isPaid so concurrent pay calls cannot both apply.
	var updated store.Order
	err = s.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "isPaid": false},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return store.Order{}, fmt.Errorf("mark order paid: %w", err)
	}

	// Either the order does not exist or it is already paid.
	existing, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return store.Order{}, getErr
	}
	if existing.IsPaid && existing.Payment.Result.PaymentID == details.PaymentID {
		return existing, nil
	}
	return store.Order{}, store.ErrAlreadyPaid
}
