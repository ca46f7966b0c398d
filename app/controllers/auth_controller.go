package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/config"
	"github.com/keysncaps/keysncaps/pkg/bind"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/response"
)

const refreshCookieName = "refresh_token"

// AuthController exposes registration, login, token refresh, and logout.
// The refresh token travels in an httpOnly cookie; the access token in the
// JSON body.
type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			response.BadRequest(w, "Email already registered")
			return
		}
		logger.WithCtx(r.Context()).Error("auth: register failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	response.Created(w, user)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, pair, err := c.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			response.Unauthorized(w)
			return
		}
		logger.WithCtx(r.Context()).Error("auth: login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	setRefreshCookie(w, pair.RefreshToken)
	response.Success(w, loginResponse{User: user, AccessToken: pair.AccessToken})
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		response.Unauthorized(w)
		return
	}

	pair, err := c.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRefreshToken) {
			clearRefreshCookie(w)
			response.Unauthorized(w)
			return
		}
		logger.WithCtx(r.Context()).Error("auth: refresh failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Refresh failed")
		return
	}

	response.Success(w, map[string]string{"access_token": pair.AccessToken})
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	if err := c.service.Logout(r.Context(), userID); err != nil {
		logger.WithCtx(r.Context()).Error("auth: logout failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Logout failed")
		return
	}

	clearRefreshCookie(w)
	response.Success(w, map[string]string{"message": "logged out"})
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/users",
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   config.AppEnv() == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/users",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
