// Package services holds the business rules of dukaan. Services depend
// on small consumer-side repository interfaces so tests can swap in
// in-memory fakes.
package services

import "errors"

var (
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so login failures do not reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmptyCart is returned when placing an order from an empty or
	// missing cart. The text is the client-facing message.
	ErrEmptyCart = errors.New("Your cart is empty")

	// ErrForbidden is returned when an authenticated caller reaches a
	// resource they do not own.
	ErrForbidden = errors.New("access denied")

	// ErrInvalidTransition is returned when an order status change is
	// not allowed by the state machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCartBusy is returned after repeated version conflicts on a
	// cart write. Callers should retry the request.
	ErrCartBusy = errors.New("cart was modified concurrently, retry")

	// ErrInvalidCartLine is returned when a cart write batch fails
	// validation. Nothing from the batch is applied.
	ErrInvalidCartLine = errors.New("invalid cart line")

	// ErrOrderBusy is returned after repeated status-guard conflicts on
	// an order update. Callers should retry the request.
	ErrOrderBusy = errors.New("order was modified concurrently, retry")
)
