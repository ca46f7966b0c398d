package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keysncaps/keysncaps/app/controllers"
	"github.com/keysncaps/keysncaps/app/services"
)

type stubGateway struct {
	calls  int
	amount int64
}

func (g *stubGateway) CreateIntent(amountCents int64, currency string) (services.Intent, error) {
	g.calls++
	g.amount = amountCents
	return services.Intent{ID: "pi_stub", ClientSecret: "pi_stub_secret"}, nil
}

func postIntent(t *testing.T, ctrl *controllers.CheckoutController, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	ctrl.CreatePaymentIntent(rec, req)
	return rec
}

func TestCreatePaymentIntentAccepted(t *testing.T) {
	gw := &stubGateway{}
	ctrl := controllers.NewCheckoutController(services.NewPaymentService(gw), nil)

	rec := postIntent(t, ctrl, map[string]interface{}{
		"items": []map[string]interface{}{
			{"price": 10, "quantity": 2},
			{"price": 5, "quantity": 1},
		},
		"amount": 2500,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, gw.calls)
	assert.Equal(t, int64(2500), gw.amount)
	assert.Contains(t, rec.Body.String(), "pi_stub_secret")
}

func TestCreatePaymentIntentMismatchRejected(t *testing.T) {
	gw := &stubGateway{}
	ctrl := controllers.NewCheckoutController(services.NewPaymentService(gw), nil)

	rec := postIntent(t, ctrl, map[string]interface{}{
		"items": []map[string]interface{}{
			{"price": 10, "quantity": 2},
			{"price": 5, "quantity": 1},
		},
		"amount": 2400,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart total mismatch")
	assert.Equal(t, 0, gw.calls, "gateway must not be called on mismatch")
}

func TestCreatePaymentIntentValidation(t *testing.T) {
	gw := &stubGateway{}
	ctrl := controllers.NewCheckoutController(services.NewPaymentService(gw), nil)

	// Missing amount.
	rec := postIntent(t, ctrl, map[string]interface{}{
		"items": []map[string]interface{}{{"price": 10, "quantity": 1}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Malformed body.
	req := httptest.NewRequest(http.MethodPost, "/api/create-payment-intent", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	ctrl.CreatePaymentIntent(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, gw.calls)
}

func TestCreatePaymentIntentRejectsBadItems(t *testing.T) {
	gw := &stubGateway{}
	ctrl := controllers.NewCheckoutController(services.NewPaymentService(gw), nil)

	// Zero quantity.
	rec := postIntent(t, ctrl, map[string]interface{}{
		"items": []map[string]interface{}{
			{"price": 10, "quantity": 2},
			{"price": 5, "quantity": 0},
		},
		"amount": 2000,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "items.1.quantity")

	// Negative price.
	rec = postIntent(t, ctrl, map[string]interface{}{
		"items":  []map[string]interface{}{{"price": -5, "quantity": 1}},
		"amount": -500,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	assert.Equal(t, 0, gw.calls, "gateway must not see invalid items")
}
