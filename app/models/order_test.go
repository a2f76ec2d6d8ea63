package models_test

import (
	"testing"

	"github.com/shashiranjanraj/dukaan/app/models"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "shipped", "delivered", "cancelled"} {
		if _, err := models.ParseOrderStatus(s); err != nil {
			t.Errorf("ParseOrderStatus(%q): %v", s, err)
		}
	}
	if _, err := models.ParseOrderStatus("returned"); err == nil {
		t.Error("expected error for unknown status")
	}
	if _, err := models.ParseOrderStatus("Pending"); err == nil {
		t.Error("statuses are case sensitive")
	}
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderPending, models.OrderShipped, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderPending, models.OrderDelivered, false},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderPending, false},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderPending, models.OrderPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	if models.OrderPending.IsTerminal() || models.OrderShipped.IsTerminal() {
		t.Error("pending and shipped must not be terminal")
	}
	if !models.OrderDelivered.IsTerminal() || !models.OrderCancelled.IsTerminal() {
		t.Error("delivered and cancelled must be terminal")
	}
}
