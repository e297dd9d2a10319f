package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryOrders implements Orders in process memory. It backs handler tests
// and mirrors the guarded MarkPaid semantics of the Mongo store.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders map[primitive.ObjectID]*Order
	now    func() time.Time
}

// NewMemoryOrders creates an empty order store.
func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{
		orders: make(map[primitive.ObjectID]*Order),
		now:    time.Now,
	}
}

var _ Orders = (*MemoryOrders)(nil)

func (s *MemoryOrders) Create(ctx context.Context, ownerID string, draft OrderDraft) (Order, error) {
	owner, err := ParseID(ownerID)
	if err != nil {
		return Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := &Order{
		ID:            primitive.NewObjectID(),
		UserID:        owner,
		OrderItems:    append([]OrderItem(nil), draft.Items...),
		Shipping:      draft.Shipping,
		ItemsPrice:    draft.ItemsPrice,
		TaxPrice:      draft.TaxPrice,
		ShippingPrice: draft.ShippingPrice,
		TotalPrice:    draft.TotalPrice,
		CreatedAt:     s.now().UTC(),
	}
	s.orders[order.ID] = order
	return cloneOrder(order), nil
}

func (s *MemoryOrders) GetAll(ctx context.Context) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrders) GetByUser(ctx context.Context, ownerID string) ([]Order, error) {
	owner, err := ParseID(ownerID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Order
	for _, o := range s.orders {
		if o.UserID == owner {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrders) GetByID(ctx context.Context, id string) (Order, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Order{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[oid]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(o), nil
}

func (s *MemoryOrders) Delete(ctx context.Context, id string) (Order, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[oid]
	if !ok {
		return Order{}, ErrNotFound
	}
	delete(s.orders, oid)
	return cloneOrder(o), nil
}

func (s *MemoryOrders) MarkPaid(ctx context.Context, id string, details PaymentDetails) (Order, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[oid]
	if !ok {
		return Order{}, ErrNotFound
	}
	if o.IsPaid {
		// Replay of the same confirmation is idempotent; anything else is
		// a double payment attempt.
		if o.Payment.Result.PaymentID == details.PaymentID {
			return cloneOrder(o), nil
		}
		return Order{}, ErrAlreadyPaid
	}

	paidAt := s.now().UTC()
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.Payment = Payment{
		Method: PaymentMethodPayPal,
		Result: PaymentResult(details),
	}
	return cloneOrder(o), nil
}

func cloneOrder(o *Order) Order {
	out := *o
	out.OrderItems = append([]OrderItem(nil), o.OrderItems...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		out.PaidAt = &t
	}
	return out
}

// MemoryUsers implements Users in process memory.
type MemoryUsers struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*User
}

// NewMemoryUsers creates an empty user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[primitive.ObjectID]*User)}
}

var _ Users = (*MemoryUsers)(nil)

func (s *MemoryUsers) Create(ctx context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := normalizeEmail(u.Email)
	for _, existing := range s.users {
		if normalizeEmail(existing.Email) == email {
			return User{}, ErrDuplicateEmail
		}
	}

	u.ID = primitive.NewObjectID()
	u.Email = email
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := u
	s.users[u.ID] = &stored
	return u, nil
}

func (s *MemoryUsers) GetByEmail(ctx context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = normalizeEmail(email)
	for _, u := range s.users {
		if normalizeEmail(u.Email) == email {
			return *u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryUsers) GetByID(ctx context.Context, id string) (User, error) {
	oid, err := ParseID(id)
	if err != nil {
		return User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[oid]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryProducts implements Products in process memory.
type MemoryProducts struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]*Product
}

// NewMemoryProducts creates an empty product store.
func NewMemoryProducts() *MemoryProducts {
	return &MemoryProducts{products: make(map[primitive.ObjectID]*Product)}
}

var _ Products = (*MemoryProducts)(nil)

func (s *MemoryProducts) Create(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = primitive.NewObjectID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	stored := p
	s.products[p.ID] = &stored
	return p, nil
}

func (s *MemoryProducts) GetAll(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryProducts) GetByID(ctx context.Context, id string) (Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Product{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[oid]
	if !ok {
		return Product{}, ErrNotFound
	}
	return *p, nil
}

func (s *MemoryProducts) Update(ctx context.Context, id string, p Product) (Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[oid]
	if !ok {
		return Product{}, ErrNotFound
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	stored := p
	s.products[oid] = &stored
	return p, nil
}

func (s *MemoryProducts) Delete(ctx context.Context, id string) (Product, error) {
	oid, err := ParseID(id)
	if err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[oid]
	if !ok {
		return Product{}, ErrNotFound
	}
	delete(s.products, oid)
	return *p, nil
}
