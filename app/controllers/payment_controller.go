package controllers

import (
	"io"
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// signatureHeader carries the webhook HMAC, matching the gateway's
// header name.
const signatureHeader = "X-Webhook-Signature"

type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

type createPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// CreateOrder registers a payment intent with the gateway and returns
// what the client checkout needs.
func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.payments.CreateOrder(req.Amount)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, order)
}

// Webhook receives gateway callbacks. The raw body is read before any
// parsing because the signature covers the exact bytes sent.
func (c *PaymentController) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, config.MaxBodyBytes()))
	if err != nil {
		response.BadRequest(w, "unreadable body")
		return
	}

	if !c.payments.VerifyWebhook(body, r.Header.Get(signatureHeader)) {
		response.Unauthorized(w, "invalid webhook signature")
		return
	}

	logger.WithCtx(r.Context()).Info("payment webhook accepted", "bytes", len(body))
	response.SuccessMessage(w, "webhook processed", nil)
}
