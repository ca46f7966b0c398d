package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"

	"github.com/keysncaps/keysncaps/config"
	"github.com/keysncaps/keysncaps/pkg/metrics"
)

// Intent is the gateway object handed back to the client; the client
// confirms the charge against the gateway directly using ClientSecret.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

// Gateway creates charge intents with the payment provider.
type Gateway interface {
	CreateIntent(amountCents int64, currency string) (Intent, error)
}

// stripeGateway is the production Gateway backed by Stripe.
type stripeGateway struct{}

// NewStripeGateway configures the Stripe client from the environment.
func NewStripeGateway() Gateway {
	stripe.Key = config.StripeSecretKey()
	return &stripeGateway{}
}

func (g *stripeGateway) CreateIntent(amountCents int64, currency string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.IdempotencyKey = stripe.String(uuid.NewString())

	pi, err := paymentintent.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("payment: create intent: %w", err)
	}
	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// PaymentService validates a claimed cart amount and creates a gateway
// intent for it.
type PaymentService struct {
	cart    *CartService
	gateway Gateway
}

func NewPaymentService(gateway Gateway) *PaymentService {
	return &PaymentService{cart: NewCartService(), gateway: gateway}
}

// CreateIntent recomputes the cart total, rejects mismatched claims, and
// asks the gateway for a payment intent covering the validated amount.
func (s *PaymentService) CreateIntent(items []CartItem, claimedCents int64) (Intent, error) {
	if err := s.cart.ValidateTotal(items, claimedCents); err != nil {
		metrics.PaymentIntents.WithLabelValues("mismatch").Inc()
		return Intent{}, err
	}

	intent, err := s.gateway.CreateIntent(claimedCents, config.Currency())
	if err != nil {
		metrics.PaymentIntents.WithLabelValues("gateway_error").Inc()
		return Intent{}, err
	}

	metrics.PaymentIntents.WithLabelValues("created").Inc()
	return intent, nil
}
