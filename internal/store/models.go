package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethodPayPal is the only payment method the pay endpoint records.
const PaymentMethodPayPal = "paypal"

// OrderItem is one line of an order. Items are immutable after creation.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"qty" json:"qty"`
}

// ShippingAddress is the order's shipping sub-document.
type ShippingAddress struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult carries the processor's confirmation identifiers.
type PaymentResult struct {
	PayerID   string `bson:"payerID" json:"payerID"`
	OrderID   string `bson:"orderID" json:"orderID"`
	PaymentID string `bson:"paymentID" json:"paymentID"`
}

// Payment is replaced wholesale, never merged, when an order is paid.
type Payment struct {
	Method string        `bson:"paymentMethod" json:"paymentMethod"`
	Result PaymentResult `bson:"paymentResult" json:"paymentResult"`
}

// Order is a persisted checkout transaction. Totals are recorded as the
// caller computed them; the server does not recompute them from items.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	OrderItems    []OrderItem        `bson:"orderItems" json:"orderItems"`
	Shipping      ShippingAddress    `bson:"shipping" json:"shipping"`
	Payment       Payment            `bson:"payment" json:"payment"`
	ItemsPrice    float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid        bool               `bson:"isPaid" json:"isPaid"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`

	// Owner is attached on admin listings only; it is not persisted with
	// the order document.
	Owner *UserSummary `bson:"-" json:"owner,omitempty"`
}

// User is an account document. The password hash never leaves the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	IsAdmin      bool               `bson:"isAdmin" json:"isAdmin"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// UserSummary is the owner identity included with admin order listings.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}

// Summary projects a user into the shape attached to orders.
func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Product is a catalog document. Image holds the URL returned by the
// upload gateway at ingest time; no server-side asset index exists.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Image        string             `bson:"image" json:"image"`
	Brand        string             `bson:"brand" json:"brand"`
	Category     string             `bson:"category" json:"category"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
