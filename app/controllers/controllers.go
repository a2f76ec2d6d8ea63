// Package controllers contains the HTTP handlers. Controllers bind and
// validate input, call a service, and translate service errors into the
// response taxonomy. No business rules live here.
package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// objectIDParam parses the named chi URL parameter as an ObjectID. A
// malformed id writes a 400 and returns false.
func objectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseObjectID parses a hex id from a request body field.
func parseObjectID(hex string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(hex)
}

// identity returns the authenticated caller. The auth middleware
// guarantees presence on protected routes; a miss here means a wiring
// bug, answered with 401 rather than a panic.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, primitive.ObjectID, bool) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return middleware.Identity{}, primitive.NilObjectID, false
	}
	uid, err := primitive.ObjectIDFromHex(id.UserID)
	if err != nil {
		response.Unauthorized(w)
		return middleware.Identity{}, primitive.NilObjectID, false
	}
	return id, uid, true
}

// fail maps service and repository errors onto HTTP statuses.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w)
	case errors.Is(err, services.ErrEmailTaken):
		response.Conflict(w, services.ErrEmailTaken.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Unauthorized(w, services.ErrInvalidCredentials.Error())
	case errors.Is(err, services.ErrForbidden):
		response.Forbidden(w, services.ErrForbidden.Error())
	case errors.Is(err, services.ErrEmptyCart):
		response.BadRequest(w, services.ErrEmptyCart.Error())
	case errors.Is(err, services.ErrInvalidCartLine):
		response.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		response.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrAlreadyReviewed):
		response.Conflict(w, services.ErrAlreadyReviewed.Error())
	case errors.Is(err, services.ErrCartBusy):
		response.Conflict(w, services.ErrCartBusy.Error())
	case errors.Is(err, services.ErrOrderBusy):
		response.Conflict(w, services.ErrOrderBusy.Error())
	case errors.Is(err, repositories.ErrDuplicate):
		response.Conflict(w, "duplicate resource")
	default:
		logger.WithCtx(r.Context()).Error("unhandled service error", "error", err)
		response.Internal(w)
	}
}
