package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type cartRequest struct {
	Items []services.CartLine `json:"items" validate:"required"`
}

func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	view, err := c.carts.Get(r.Context(), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, view)
}

// AddItems merges the request lines into the cart, incrementing
// quantities for products already present. The batch is all-or-nothing.
func (c *CartController) AddItems(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}

	var req cartRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.AddItems(r.Context(), uid, req.Items)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "items added to cart", cart)
}

// UpdateItems sets absolute quantities; quantity 0 removes a line.
func (c *CartController) UpdateItems(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}

	var req cartRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.carts.UpdateItems(r.Context(), uid, req.Items)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "cart updated", cart)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	productID, ok := objectIDParam(w, r, "productId")
	if !ok {
		return
	}

	cart, err := c.carts.RemoveItem(r.Context(), uid, productID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "item removed", cart)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	if err := c.carts.Clear(r.Context(), uid); err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "cart cleared", nil)
}
