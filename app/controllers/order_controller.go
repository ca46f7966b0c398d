package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/bind"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/response"
)

// OrderController exposes a customer's own order history and the admin
// order management endpoints.
type OrderController struct {
	service *services.OrderService
	orders  *repositories.OrderRepository
}

func NewOrderController(service *services.OrderService, orders *repositories.OrderRepository) *OrderController {
	return &OrderController{service: service, orders: orders}
}

// Mine lists the authenticated user's orders.
func (c *OrderController) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, total, err := c.orders.ListByUser(r.Context(), userID, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order: list mine failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}

	response.Paginated(w, orders, response.NewPagination(page, limit, total))
}

// List is the admin order listing with an optional ?status= filter.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	orders, total, err := c.orders.List(r.Context(), q.Get("status"), page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("order: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load orders")
		return
	}

	response.Paginated(w, orders, response.NewPagination(page, limit, total))
}

// Show returns one order. Customers may only see their own; admins any.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	order, err := c.orders.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load order")
		return
	}

	userID, _ := middleware.UserIDFromCtx(r)
	role, _ := middleware.RoleFromCtx(r)
	if role != models.RoleAdmin && order.UserID.Hex() != userID {
		response.NotFound(w)
		return
	}

	response.Success(w, order)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,in=pending|processing|shipped|delivered|cancelled"`
}

// UpdateStatus is the admin endpoint for advancing an order's status.
// The new value is checked against the known status set but not against
// the current state.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body statusRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("order: status update failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	response.Success(w, order)
}
