package services

import (
	"errors"
	"math"

	"github.com/keysncaps/keysncaps/pkg/metrics"
)

// ErrCartTotalMismatch is returned when the client-claimed amount differs
// from the server-side recomputation of the cart total.
var ErrCartTotalMismatch = errors.New("cart total mismatch")

// CartItem is a client-claimed cart line. Prices come from the client and
// are not checked against the catalog.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price" validate:"required,gte=0"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
}

// CartService recomputes cart totals server-side so a tampered client
// cannot request a payment intent below the true cart value.
type CartService struct{}

func NewCartService() *CartService {
	return &CartService{}
}

// TotalCents recomputes the cart total in integer cents:
// round(sum(price_i * qty_i) * 100).
func (s *CartService) TotalCents(items []CartItem) int64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return int64(math.Round(sum * 100))
}

// ValidateTotal checks the client-claimed amount (in cents) against the
// recomputed total and returns ErrCartTotalMismatch when they differ.
func (s *CartService) ValidateTotal(items []CartItem, claimedCents int64) error {
	if s.TotalCents(items) != claimedCents {
		metrics.CartMismatches.Inc()
		return ErrCartTotalMismatch
	}
	return nil
}
