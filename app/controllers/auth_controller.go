package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/config"
	"github.com/shashiranjanraj/dukaan/pkg/bind"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	setTokenCookie(w, token)
	response.Created(w, user)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if errs, err := bind.JSON(r, &req); err != nil {
		response.BadRequest(w, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}

	setTokenCookie(w, token)
	response.SuccessMessage(w, "logged in", map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

// Logout clears the token cookie. It succeeds whether or not the caller
// was logged in; calling it without a cookie just says so.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(middleware.CookieName); err != nil {
		response.SuccessMessage(w, "Already logged out", nil)
		return
	}
	clearTokenCookie(w)
	response.SuccessMessage(w, "logged out", nil)
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := identity(w, r)
	if !ok {
		return
	}
	user, err := c.auth.Me(r.Context(), uid)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, user)
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(config.TokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   config.CookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.CookieSecure(),
		SameSite: http.SameSiteStrictMode,
	})
}
