package services_test

import (
	"errors"
	"testing"

	"github.com/keysncaps/keysncaps/app/services"
)

func TestTotalCents(t *testing.T) {
	cart := services.NewCartService()

	tests := []struct {
		name  string
		items []services.CartItem
		want  int64
	}{
		{
			name:  "empty cart",
			items: nil,
			want:  0,
		},
		{
			name: "two keyboards and a switch pack",
			items: []services.CartItem{
				{Price: 10, Quantity: 2},
				{Price: 5, Quantity: 1},
			},
			want: 2500,
		},
		{
			name: "fractional prices round to cents",
			items: []services.CartItem{
				{Price: 34.50, Quantity: 3},
				{Price: 0.99, Quantity: 1},
			},
			want: 10449,
		},
		{
			name: "float accumulation stays exact",
			items: []services.CartItem{
				{Price: 0.1, Quantity: 3},
			},
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cart.TotalCents(tt.items); got != tt.want {
				t.Errorf("TotalCents = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateTotal(t *testing.T) {
	cart := services.NewCartService()
	items := []services.CartItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	}

	if err := cart.ValidateTotal(items, 2500); err != nil {
		t.Errorf("matching amount rejected: %v", err)
	}

	err := cart.ValidateTotal(items, 2400)
	if !errors.Is(err, services.ErrCartTotalMismatch) {
		t.Errorf("expected ErrCartTotalMismatch, got %v", err)
	}

	if err := cart.ValidateTotal(nil, 1); !errors.Is(err, services.ErrCartTotalMismatch) {
		t.Errorf("empty cart with nonzero claim must mismatch, got %v", err)
	}
}
