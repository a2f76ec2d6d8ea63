package models_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/models"
)

func newID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("bad hex %q: %v", hex, err)
	}
	return id
}

func TestCartMergeSemantics(t *testing.T) {
	var cart models.Cart
	p1 := newID(t, "64f0c2ab12de34fa56bc78d1")
	p2 := newID(t, "64f0c2ab12de34fa56bc78d2")

	cart.AddItem(p1, 2)
	cart.AddItem(p2, 1)
	cart.AddItem(p1, 3)

	if len(cart.Items) != 2 {
		t.Fatalf("lines = %d, want 2", len(cart.Items))
	}
	if q := cart.Items[cart.Find(p1)].Quantity; q != 5 {
		t.Errorf("p1 quantity = %d, want 5 (increment merge)", q)
	}
}

func TestCartSetItemSemantics(t *testing.T) {
	var cart models.Cart
	p1 := newID(t, "64f0c2ab12de34fa56bc78d1")
	p2 := newID(t, "64f0c2ab12de34fa56bc78d2")

	cart.AddItem(p1, 4)
	cart.SetItem(p1, 2)
	if q := cart.Items[cart.Find(p1)].Quantity; q != 2 {
		t.Errorf("quantity = %d, want 2 (absolute set)", q)
	}

	// Zero removes; setting an absent product creates the line.
	cart.SetItem(p1, 0)
	if cart.Find(p1) != -1 {
		t.Error("quantity 0 must remove the line")
	}
	cart.SetItem(p2, 3)
	if cart.Find(p2) == -1 {
		t.Error("set on absent product must create the line")
	}

	if cart.RemoveItem(p1) {
		t.Error("RemoveItem on absent product must report false")
	}
	if !cart.RemoveItem(p2) {
		t.Error("RemoveItem on present product must report true")
	}
	if !cart.IsEmpty() {
		t.Error("cart should be empty")
	}
}
