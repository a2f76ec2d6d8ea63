package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the finite order state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// transitions maps each state to the states reachable from it.
// Delivered and cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderShipped, OrderCancelled},
	OrderShipped:   {OrderDelivered, OrderCancelled},
	OrderDelivered: {},
	OrderCancelled: {},
}

// ParseOrderStatus validates a free-form status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("unknown order status %q", s)
	}
	return status, nil
}

// CanTransition reports whether the order may move from its current
// status to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool { return len(transitions[s]) == 0 }

// Address is a structured shipping address.
type Address struct {
	Name       string `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Line1      string `bson:"line1" json:"line1" validate:"required,max=200"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty" validate:"nullable,max=200"`
	City       string `bson:"city" json:"city" validate:"required,max=100"`
	State      string `bson:"state" json:"state" validate:"required,max=100"`
	PostalCode string `bson:"postal_code" json:"postal_code" validate:"required,max=20"`
	Country    string `bson:"country" json:"country" validate:"required,max=100"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty" validate:"nullable,max=20"`
}

// OrderItem is an immutable order line. UnitPrice is snapshotted from the
// product at placement time so later catalogue price changes never alter
// order history.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Order is the immutable snapshot created from a cart. Only Status is
// mutated after creation, and only by admins through the validated
// state machine above.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"total_amount" json:"total_amount"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	Status          OrderStatus        `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
