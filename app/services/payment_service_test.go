package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keysncaps/keysncaps/app/services"
)

// fakeGateway records the amount it was asked to charge.
type fakeGateway struct {
	calls  int
	amount int64
	err    error
}

func (g *fakeGateway) CreateIntent(amountCents int64, currency string) (services.Intent, error) {
	g.calls++
	g.amount = amountCents
	if g.err != nil {
		return services.Intent{}, g.err
	}
	return services.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func TestCreateIntentValidAmount(t *testing.T) {
	gw := &fakeGateway{}
	svc := services.NewPaymentService(gw)

	items := []services.CartItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	}

	intent, err := svc.CreateIntent(items, 2500)
	require.NoError(t, err)
	assert.Equal(t, "pi_test_secret", intent.ClientSecret)
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, int64(2500), gw.amount, "gateway must be called with the validated amount")
}

func TestCreateIntentMismatchNeverReachesGateway(t *testing.T) {
	gw := &fakeGateway{}
	svc := services.NewPaymentService(gw)

	items := []services.CartItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 1},
	}

	_, err := svc.CreateIntent(items, 2400)
	require.ErrorIs(t, err, services.ErrCartTotalMismatch)
	assert.Equal(t, 0, gw.calls, "mismatched claims must not create a charge")
}

func TestCreateIntentSurfacesGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("card network unreachable")}
	svc := services.NewPaymentService(gw)

	_, err := svc.CreateIntent([]services.CartItem{{Price: 1, Quantity: 1}}, 100)
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrCartTotalMismatch)
}
