package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

type createReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,between=1,5"`
	Comment   string `json:"comment" validate:"nullable,max=2000"`
}

func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}

	var req createReviewRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	productID, err := parseObjectID(req.ProductID)
	if err != nil {
		response.BadRequest(w, "invalid product_id")
		return
	}

	review, err := c.reviews.Create(r.Context(), uid, productID, req.Rating, req.Comment)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, review)
}

func (c *ReviewController) ByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := objectIDParam(w, r, "productId")
	if !ok {
		return
	}
	reviews, err := c.reviews.ByProduct(r.Context(), productID)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, reviews)
}

func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	id, uid, ok := identity(w, r)
	if !ok {
		return
	}
	reviewID, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := c.reviews.Delete(r.Context(), reviewID, uid, id.Role == models.RoleAdmin); err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "review deleted", nil)
}
