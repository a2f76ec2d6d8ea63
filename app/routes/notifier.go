package routes

import (
	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/ws"
)

// hubNotifier fans order events out to connected admin websocket
// clients. Broadcast is non-blocking, so it is safe to call from
// request handlers.
type hubNotifier struct {
	hub *ws.Hub
}

type orderEvent struct {
	Event string       `json:"event"`
	Order models.Order `json:"order"`
}

func (n hubNotifier) OrderPlaced(order models.Order) {
	n.hub.BroadcastJSON(orderEvent{Event: "order.placed", Order: order})
}

func (n hubNotifier) OrderStatusChanged(order models.Order) {
	n.hub.BroadcastJSON(orderEvent{Event: "order.status_changed", Order: order})
}
