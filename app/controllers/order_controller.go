package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
	"github.com/shashiranjanraj/dukaan/pkg/ws"
)

type OrderController struct {
	orders *services.OrderService
	hub    *ws.Hub
}

func NewOrderController(orders *services.OrderService, hub *ws.Hub) *OrderController {
	return &OrderController{orders: orders, hub: hub}
}

type placeOrderRequest struct {
	ShippingAddress models.Address `json:"shipping_address" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Place creates an order from the caller's cart and empties the cart.
func (c *OrderController) Place(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}

	var req placeOrderRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.Place(r.Context(), uid, req.ShippingAddress)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	orders, err := c.orders.MyOrders(r.Context(), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := identity(w, r)
	if !ok {
		return
	}
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	order, err := c.orders.ByID(r.Context(), orderID, uid, id.Role == models.RoleAdmin)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) All(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.All(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

func (c *OrderController) ForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := objectIDParam(w, r, "userId")
	if !ok {
		return
	}
	orders, err := c.orders.ForUser(r.Context(), userID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, orders)
}

// UpdateStatus moves an order through its status state machine.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "order status updated", order)
}

// Stream upgrades to a websocket that receives order lifecycle events.
// Mounted behind the admin gate.
func (c *OrderController) Stream(w http.ResponseWriter, r *http.Request) {
	c.hub.Upgrade(w, r)
}
