package services

import (
	"context"
	"time"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/pkg/event"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/metrics"
)

// Events fired by the order service. Listeners feed the WebSocket hub and
// the low-stock queue job.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// CreateOrderInput is the finalized checkout payload. Items carry the
// prices captured at payment time.
type CreateOrderInput struct {
	UserID          string
	Items           []models.OrderItem
	ShippingAddress models.ShippingAddress
	Payment         models.PaymentInfo
	SubtotalCents   int64
	ShippingCents   int64
	TotalCents      int64
	Currency        string
}

// OrderService persists finalized orders and manages status updates.
type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService(orders *repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Create assigns the next order number and persists the order. Payment has
// already been confirmed with the gateway by the time this runs; a
// persistence failure here leaves a paid but unrecorded order, so the error
// is logged loudly before being returned.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (models.Order, error) {
	userOID, err := parseObjectID(in.UserID)
	if err != nil {
		return models.Order{}, err
	}

	number, err := s.orders.NextNumber(ctx)
	if err != nil {
		return models.Order{}, err
	}

	order := models.Order{
		Number:          number,
		UserID:          userOID,
		Items:           in.Items,
		ShippingAddress: in.ShippingAddress,
		Payment:         in.Payment,
		SubtotalCents:   in.SubtotalCents,
		ShippingCents:   in.ShippingCents,
		TotalCents:      in.TotalCents,
		Currency:        in.Currency,
		Status:          models.OrderProcessing,
	}

	if err := s.orders.Create(ctx, &order); err != nil {
		logger.WithCtx(ctx).Error("order: persist failed after payment confirmation",
			"payment_intent", in.Payment.IntentID, "error", err)
		return models.Order{}, err
	}

	metrics.OrdersCreated.Inc()
	event.FireAsync(EventOrderCreated, order)
	return order, nil
}

// UpdateStatus writes a new status string on the order. Transitions are not
// validated against the current state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (models.Order, error) {
	if err := s.orders.SetStatus(ctx, orderID, status); err != nil {
		return models.Order{}, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	event.FireAsync(EventOrderStatusChanged, order)
	return order, nil
}

// CancelStale marks pending orders older than maxAge as cancelled. Run from
// the scheduler to sweep checkouts that never completed payment.
func (s *OrderService) CancelStale(ctx context.Context, maxAge time.Duration) (int, error) {
	stale, err := s.orders.StalePending(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, o := range stale {
		if err := s.orders.SetStatus(ctx, o.ID.Hex(), models.OrderCancelled); err != nil {
			logger.Warn("order: stale cancel failed", "order", o.ID.Hex(), "error", err)
			continue
		}
		cancelled++
	}

	if cancelled > 0 {
		logger.Info("order: stale pending orders cancelled", "count", cancelled)
	}
	return cancelled, nil
}
