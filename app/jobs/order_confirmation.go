// Package jobs defines the background jobs processed by the queue
// workers. Register every job type in RegisterAll at boot so workers
// can reconstruct payloads by name.
package jobs

import (
	"fmt"
	"strings"

	"github.com/shashiranjanraj/dukaan/pkg/mail"
	"github.com/shashiranjanraj/dukaan/pkg/queue"
)

// RegisterAll makes every job type known to the queue.
func RegisterAll() {
	queue.Register("OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}

// OrderConfirmationJob emails the customer after an order is placed.
// It carries plain values rather than models so the payload stays
// stable across deploys.
type OrderConfirmationJob struct {
	OrderID  string         `json:"order_id"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	Total    float64        `json:"total"`
	ItemRows []OrderItemRow `json:"item_rows"`
}

// OrderItemRow is one line of the confirmation email.
type OrderItemRow struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

func (j OrderConfirmationJob) Handle() error {
	var rows strings.Builder
	for _, row := range j.ItemRows {
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", row.Name, row.Quantity, row.Price)
	}

	body := fmt.Sprintf(
		`<h2>Thanks for your order, %s!</h2>
<p>Order <strong>%s</strong> has been placed.</p>
<table><tr><th>Item</th><th>Qty</th><th>Price</th></tr>%s</table>
<p>Total: <strong>₹%.2f</strong></p>`,
		j.Name, j.OrderID, rows.String(), j.Total,
	)

	return mail.To(j.Email).
		Subject(fmt.Sprintf("Order %s confirmed", j.OrderID)).
		Body(body).
		Send()
}
