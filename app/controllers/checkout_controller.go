package controllers

import (
	"errors"
	"net/http"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/bind"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/middleware"
	"github.com/keysncaps/keysncaps/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckoutController drives the payment flow: the client submits its cart
// and claimed total, the server re-validates the total and creates a
// gateway intent, the client confirms the charge with the gateway directly,
// then posts back here to persist the order.
type CheckoutController struct {
	payments *services.PaymentService
	orders   *services.OrderService
	cart     *services.CartService
}

func NewCheckoutController(payments *services.PaymentService, orders *services.OrderService) *CheckoutController {
	return &CheckoutController{
		payments: payments,
		orders:   orders,
		cart:     services.NewCartService(),
	}
}

type intentRequest struct {
	Items  []services.CartItem `json:"items" validate:"required"`
	Amount int64               `json:"amount" validate:"required,gt=0"`
}

// CreatePaymentIntent validates the claimed amount against the recomputed
// cart total and returns the gateway client secret.
func (c *CheckoutController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var body intentRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	intent, err := c.payments.CreateIntent(body.Items, body.Amount)
	if err != nil {
		if errors.Is(err, services.ErrCartTotalMismatch) {
			response.BadRequest(w, "Cart total mismatch")
			return
		}
		logger.WithCtx(r.Context()).Error("checkout: intent failed", "error", err)
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(w, intent)
}

type orderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	UnitPrice float64 `json:"unit_price" validate:"required,gte=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items" validate:"required"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentIntentID string                 `json:"payment_intent_id" validate:"required"`
	SubtotalCents   int64                  `json:"subtotal_cents" validate:"required,gt=0"`
	ShippingCents   int64                  `json:"shipping_cents" validate:"gte=0"`
	TotalCents      int64                  `json:"total_cents" validate:"required,gt=0"`
	Currency        string                 `json:"currency" validate:"required"`
}

// CreateOrder persists the finalized order after the client confirmed
// payment with the gateway.
func (c *CheckoutController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromCtx(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var body createOrderRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if body.SubtotalCents+body.ShippingCents != body.TotalCents {
		response.BadRequest(w, "Cart total mismatch")
		return
	}

	items := make([]models.OrderItem, 0, len(body.Items))
	var cart []services.CartItem
	for _, it := range body.Items {
		oid, err := primitive.ObjectIDFromHex(it.ProductID)
		if err != nil {
			response.BadRequest(w, "Invalid product id")
			return
		}
		items = append(items, models.OrderItem{
			ProductID: oid,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
		cart = append(cart, services.CartItem{Price: it.UnitPrice, Quantity: it.Quantity})
	}

	if err := c.cart.ValidateTotal(cart, body.SubtotalCents); err != nil {
		response.BadRequest(w, "Cart total mismatch")
		return
	}

	order, err := c.orders.Create(r.Context(), services.CreateOrderInput{
		UserID:          userID,
		Items:           items,
		ShippingAddress: body.ShippingAddress,
		Payment:         models.PaymentInfo{IntentID: body.PaymentIntentID, Status: "succeeded"},
		SubtotalCents:   body.SubtotalCents,
		ShippingCents:   body.ShippingCents,
		TotalCents:      body.TotalCents,
		Currency:        body.Currency,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not save order")
		return
	}

	response.Created(w, order)
}
