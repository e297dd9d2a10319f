package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound means the id was well-formed but matched no document.
	ErrNotFound = errors.New("store: not found")
	// ErrInvalidID means the id is not a well-formed document identifier.
	// Callers surface it as a 400, distinct from the 404 for ErrNotFound.
	ErrInvalidID = errors.New("store: invalid id")
	// ErrAlreadyPaid rejects a payment transition against a paid order
	// carrying a different payment id.
	ErrAlreadyPaid = errors.New("store: order already paid")
	// ErrDuplicateEmail rejects registration with a taken address.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// ParseID validates a raw identifier before any store query is attempted.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// OrderDraft is the caller-supplied portion of a new order. Pricing fields
// are trusted as given.
type OrderDraft struct {
	Items         []OrderItem     `json:"orderItems"`
	Shipping      ShippingAddress `json:"shipping"`
	ItemsPrice    float64         `json:"itemsPrice"`
	TaxPrice      float64         `json:"taxPrice"`
	ShippingPrice float64         `json:"shippingPrice"`
	TotalPrice    float64         `json:"totalPrice"`
}

// PaymentDetails is the processor confirmation supplied to MarkPaid.
type PaymentDetails struct {
	PayerID   string `json:"payerID"`
	OrderID   string `json:"orderID"`
	PaymentID string `json:"paymentID"`
}

// Orders is the order lifecycle contract.
//
// MarkPaid is a guarded compare-and-set: an unpaid order transitions to
// paid exactly once. Re-invoking it with the same payment id replays the
// stored order unchanged; a different payment id fails with ErrAlreadyPaid.
// isPaid is therefore monotonic and paidAt is set iff isPaid is true.
type Orders interface {
	Create(ctx context.Context, ownerID string, draft OrderDraft) (Order, error)
	GetAll(ctx context.Context) ([]Order, error)
	GetByUser(ctx context.Context, ownerID string) ([]Order, error)
	GetByID(ctx context.Context, id string) (Order, error)
	Delete(ctx context.Context, id string) (Order, error)
	MarkPaid(ctx context.Context, id string, details PaymentDetails) (Order, error)
}

// Users persists account documents.
type Users interface {
	Create(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

// Products persists catalog documents.
type Products interface {
	Create(ctx context.Context, p Product) (Product, error)
	GetAll(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (Product, error)
	Update(ctx context.Context, id string, p Product) (Product, error)
	Delete(ctx context.Context, id string) (Product, error)
}
