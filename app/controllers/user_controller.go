package controllers

import (
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// UserController exposes the user listing, profile and admin management
// endpoints.
type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, total, err := c.users.List(r.Context(), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Paginated(w, users, response.NewPagination(page, limit, total))
}

func (c *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	user, err := c.users.ByID(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

// Update changes a user's name, address or phone. Callers may only
// update their own record; password, email and role are not bindable
// here at all.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	if id != uid {
		response.Forbidden(w, "you can only update your own profile")
		return
	}

	var req services.ProfileUpdate
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.UpdateProfile(r.Context(), id, req)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "profile updated", user)
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r, "id")
	if !ok {
		return
	}
	if err := c.users.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	response.SuccessMessage(w, "user deleted", nil)
}

// pageParams reads ?page= and ?limit=, clamped so the pagination meta
// matches what the repository actually queried.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
