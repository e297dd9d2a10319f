package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderCreateAndGetByID(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	owner := primitive.NewObjectID().Hex()

	created, err := s.Create(ctx, owner, OrderDraft{
		Items: []OrderItem{{
			Product:  primitive.NewObjectID(),
			Name:     "Keyboard",
			Price:    42.50,
			Quantity: 1,
		}},
		ItemsPrice: 42.50,
		TotalPrice: 42.50,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID.IsZero() {
		t.Fatal("expected assigned id")
	}

	got, err := s.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.IsPaid {
		t.Fatal("new order must be unpaid")
	}
	if got.PaidAt != nil {
		t.Fatal("paidAt must be unset on an unpaid order")
	}
	if got.TotalPrice != 42.50 {
		t.Fatalf("unexpected total: %v", got.TotalPrice)
	}
	if got.UserID.Hex() != owner {
		t.Fatalf("owner mismatch: %s", got.UserID.Hex())
	}
}

func TestOrderGetByIDMalformedID(t *testing.T) {
	s := NewMemoryOrders()
	for _, raw := range []string{"", "xyz", "123", "not-a-hex-object-id!!!!!"} {
		_, err := s.GetByID(context.Background(), raw)
		if !errors.Is(err, ErrInvalidID) {
			t.Fatalf("id %q: expected ErrInvalidID, got %v", raw, err)
		}
	}
}

func TestOrderGetByIDNotFound(t *testing.T) {
	s := NewMemoryOrders()
	_, err := s.GetByID(context.Background(), primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkPaidTransition(t *testing.T) {
	s := NewMemoryOrders()
	paidTime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return paidTime }

	ctx := context.Background()
	created, err := s.Create(ctx, primitive.NewObjectID().Hex(), OrderDraft{TotalPrice: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	details := PaymentDetails{PayerID: "payer-1", OrderID: "po-1", PaymentID: "pay-1"}
	paid, err := s.MarkPaid(ctx, created.ID.Hex(), details)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !paid.IsPaid {
		t.Fatal("expected isPaid true")
	}
	if paid.PaidAt == nil || !paid.PaidAt.Equal(paidTime) {
		t.Fatalf("unexpected paidAt: %v", paid.PaidAt)
	}
	if paid.Payment.Method != PaymentMethodPayPal {
		t.Fatalf("unexpected method: %q", paid.Payment.Method)
	}
	if paid.Payment.Result != PaymentResult(details) {
		t.Fatalf("unexpected result: %+v", paid.Payment.Result)
	}

	// The transition must be visible through GetByID.
	got, err := s.GetByID(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !got.IsPaid || got.PaidAt == nil {
		t.Fatal("payment state not persisted")
	}
}

func TestMarkPaidReplaySamePaymentID(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	created, _ := s.Create(ctx, primitive.NewObjectID().Hex(), OrderDraft{})

	details := PaymentDetails{PaymentID: "pay-1"}
	first, err := s.MarkPaid(ctx, created.ID.Hex(), details)
	if err != nil {
		t.Fatalf("first mark paid: %v", err)
	}

	second, err := s.MarkPaid(ctx, created.ID.Hex(), details)
	if err != nil {
		t.Fatalf("replay mark paid: %v", err)
	}
	if !second.PaidAt.Equal(*first.PaidAt) {
		t.Fatal("replay must not re-stamp paidAt")
	}
}

func TestMarkPaidRejectsDifferentPaymentID(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	created, _ := s.Create(ctx, primitive.NewObjectID().Hex(), OrderDraft{})

	if _, err := s.MarkPaid(ctx, created.ID.Hex(), PaymentDetails{PaymentID: "pay-1"}); err != nil {
		t.Fatalf("first mark paid: %v", err)
	}
	_, err := s.MarkPaid(ctx, created.ID.Hex(), PaymentDetails{PaymentID: "pay-2"})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}

	// The original payment must be untouched.
	got, _ := s.GetByID(ctx, created.ID.Hex())
	if got.Payment.Result.PaymentID != "pay-1" {
		t.Fatalf("payment overwritten: %+v", got.Payment.Result)
	}
}

func TestMarkPaidMissingOrderMutatesNothing(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	created, _ := s.Create(ctx, primitive.NewObjectID().Hex(), OrderDraft{})

	_, err := s.MarkPaid(ctx, primitive.NewObjectID().Hex(), PaymentDetails{PaymentID: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	got, _ := s.GetByID(ctx, created.ID.Hex())
	if got.IsPaid {
		t.Fatal("unrelated order mutated")
	}
}

func TestOrdersGetByUserFiltersOwner(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	alice := primitive.NewObjectID().Hex()
	bob := primitive.NewObjectID().Hex()

	if _, err := s.Create(ctx, alice, OrderDraft{TotalPrice: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, bob, OrderDraft{TotalPrice: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, alice, OrderDraft{TotalPrice: 3}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := s.GetByUser(ctx, alice)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}
	all, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}
}

func TestOrderDeleteReturnsRemovedDocument(t *testing.T) {
	s := NewMemoryOrders()
	ctx := context.Background()
	created, _ := s.Create(ctx, primitive.NewObjectID().Hex(), OrderDraft{TotalPrice: 7})

	removed, err := s.Delete(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != created.ID || removed.TotalPrice != 7 {
		t.Fatalf("unexpected removed document: %+v", removed)
	}
	if _, err := s.GetByID(ctx, created.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUsersRejectDuplicateEmail(t *testing.T) {
	s := NewMemoryUsers()
	ctx := context.Background()

	if _, err := s.Create(ctx, User{Name: "Ada", Email: "ada@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.Create(ctx, User{Name: "Imposter", Email: "ADA@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestProductsUpdatePreservesIdentity(t *testing.T) {
	s := NewMemoryProducts()
	ctx := context.Background()

	created, err := s.Create(ctx, Product{Name: "Mug", Price: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(ctx, created.ID.Hex(), Product{Name: "Mug XL", Price: 8})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("update must not reassign id")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not rewrite createdAt")
	}
	if updated.Price != 8 {
		t.Fatalf("unexpected price: %v", updated.Price)
	}
}
