package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart. A cart never holds two lines for the
// same product; adding an existing product increments the quantity.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// Cart is the per-user mutable cart. Version is a compare-and-swap
// counter: every write matches on (user_id, version) and increments it,
// so concurrent modifications never silently overwrite each other.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items     []CartItem         `bson:"items" json:"items"`
	Version   int64              `bson:"version" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges (productID, qty) into the cart with increment semantics.
func (c *Cart) AddItem(productID primitive.ObjectID, qty int) {
	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity += qty
		return
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty})
}

// SetItem applies absolute-set semantics: qty 0 removes the line (no-op
// if absent), qty > 0 sets the quantity, creating the line if needed.
func (c *Cart) SetItem(productID primitive.ObjectID, qty int) {
	i := c.Find(productID)
	switch {
	case qty <= 0:
		if i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	case i >= 0:
		c.Items[i].Quantity = qty
	default:
		c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty})
	}
}

// RemoveItem deletes the line holding productID.
// Returns false when no such line exists.
func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	i := c.Find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }
