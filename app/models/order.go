package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Cancelled is reachable from any non-terminal state.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderItem snapshots a cart line at checkout time. UnitPrice is the price
// captured at purchase, which may drift from the live catalog price.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ShippingAddress is the delivery destination for an order.
type ShippingAddress struct {
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// PaymentInfo records the gateway reference for a confirmed payment.
type PaymentInfo struct {
	IntentID string `bson:"intent_id" json:"intent_id"`
	Status   string `bson:"status" json:"status"`
}

// Order is a snapshot of a cart at checkout time.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number          int64              `bson:"number" json:"number"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shipping_address"`
	Payment         PaymentInfo        `bson:"payment" json:"payment"`
	SubtotalCents   int64              `bson:"subtotal_cents" json:"subtotal_cents"`
	ShippingCents   int64              `bson:"shipping_cents" json:"shipping_cents"`
	TotalCents      int64              `bson:"total_cents" json:"total_cents"`
	Currency        string             `bson:"currency" json:"currency"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
