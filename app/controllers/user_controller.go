package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/response"
)

// UserController serves the authenticated profile and the admin user list.
type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

// Profile returns the authenticated user's record.
func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.users.FindByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.Unauthorized(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load profile")
		return
	}

	response.Success(w, user)
}

// List is the admin user listing.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, total, err := c.users.All(r.Context(), page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load users")
		return
	}

	response.Paginated(w, users, response.NewPagination(page, limit, total))
}
