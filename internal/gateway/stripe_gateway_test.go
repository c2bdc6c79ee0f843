package gateway_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/gateway"
)

func newStripeServer(t *testing.T, handler http.HandlerFunc) gateway.Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return gateway.NewStripeGateway(gateway.StripeConfig{SecretKey: "sk_test_123", Currency: "USD", BaseURL: srv.URL})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	t.Run("amount is sent in cents with order metadata", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/payment_intents", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "300050", r.PostForm.Get("amount"))
			assert.Equal(t, "usd", r.PostForm.Get("currency"))
			assert.Equal(t, "req-1", r.PostForm.Get("metadata[orderId]"))
			assert.Equal(t, "jane-uid", r.PostForm.Get("metadata[userId]"))
			assert.Equal(t, "intent-req-1-attempt-1", r.Header.Get("Idempotency-Key"))
			writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","client_secret":"pi_1_secret_abc","status":"requires_payment_method"}`)
		})

		intent, err := gw.CreateIntent(context.Background(), gateway.IntentRequest{
			Amount:    decimal.RequireFromString("3000.50"),
			OrderID:   "req-1",
			UserID:    "jane-uid",
			AttemptID: "attempt-1",
		})

		require.NoError(t, err)
		assert.Equal(t, "pi_1", intent.ID)
		assert.Equal(t, "pi_1_secret_abc", intent.ClientSecret)
	})

	t.Run("server failure is unexpected", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, `{"error":{"type":"api_error","message":"boom"}}`)
		})

		_, err := gw.CreateIntent(context.Background(), gateway.IntentRequest{Amount: decimal.NewFromInt(1), OrderID: "req-1"})

		assert.Equal(t, gateway.KindUnexpected, gateway.KindOf(err))
	})

	t.Run("deadline is a timeout", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			writeJSON(w, http.StatusOK, `{"id":"pi_late"}`)
		})
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := gw.CreateIntent(ctx, gateway.IntentRequest{Amount: decimal.NewFromInt(1), OrderID: "req-1"})

		assert.Equal(t, gateway.KindTimeout, gateway.KindOf(err))
	})
}

// fakeStripe enforces the ordering Stripe applies to saved payment methods:
// billing details can only be updated once the method belongs to a
// customer, and the intent must use that same customer.
type fakeStripe struct {
	t             *testing.T
	mu            sync.Mutex
	owner         map[string]string
	intentOwner   map[string]string
	confirmStatus string
	confirmForm   url.Values
}

func newFakeStripe(t *testing.T) *fakeStripe {
	return &fakeStripe{
		t:             t,
		owner:         map[string]string{},
		intentOwner:   map[string]string{},
		confirmStatus: "succeeded",
	}
}

func (f *fakeStripe) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NoError(f.t, r.ParseForm())

	switch {
	case r.URL.Path == "/v1/customers":
		assert.Equal(f.t, "pi_1", r.PostForm.Get("metadata[intentId]"))
		writeJSON(w, http.StatusOK, `{"id":"cus_1","object":"customer"}`)
	case strings.HasSuffix(r.URL.Path, "/attach"):
		pm := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/payment_methods/"), "/attach")
		f.owner[pm] = r.PostForm.Get("customer")
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"id":%q,"object":"payment_method"}`, pm))
	case strings.HasPrefix(r.URL.Path, "/v1/payment_methods/"):
		pm := strings.TrimPrefix(r.URL.Path, "/v1/payment_methods/")
		if f.owner[pm] == "" {
			writeJSON(w, http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"You must save this PaymentMethod to a customer before you can update it."}}`)
			return
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"id":%q,"object":"payment_method"}`, pm))
	case r.URL.Path == "/v1/payment_intents/pi_1" && r.Method == http.MethodPost:
		f.intentOwner["pi_1"] = r.PostForm.Get("customer")
		writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","status":"requires_payment_method"}`)
	case r.URL.Path == "/v1/payment_intents/pi_1/confirm":
		pm := r.PostForm.Get("payment_method")
		if f.owner[pm] != "" && f.owner[pm] != f.intentOwner["pi_1"] {
			writeJSON(w, http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"The provided PaymentMethod belongs to a different Customer."}}`)
			return
		}
		f.confirmForm = r.PostForm
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"id":"pi_1","object":"payment_intent","status":%q}`, f.confirmStatus))
	default:
		f.t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestStripeGateway_ConfirmIntent(t *testing.T) {
	t.Run("success returns the intent id as transaction", func(t *testing.T) {
		fake := newFakeStripe(t)
		gw := newStripeServer(t, fake.ServeHTTP)

		conf, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{
			IntentID:        "pi_1",
			PaymentMethodID: "pm_card",
			Billing:         gateway.Billing{Name: "Jane", Email: "jane@example.com"},
		})

		require.NoError(t, err)
		assert.Equal(t, "pi_1", conf.TransactionID)
		assert.Equal(t, "cus_1", fake.owner["pm_card"])
		assert.Equal(t, "cus_1", fake.intentOwner["pi_1"])
		assert.Equal(t, "pm_card", fake.confirmForm.Get("payment_method"))
		assert.Equal(t, "jane@example.com", fake.confirmForm.Get("receipt_email"))
	})

	t.Run("billing update waits for the customer", func(t *testing.T) {
		var order []string
		fake := newFakeStripe(t)
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			order = append(order, r.Method+" "+r.URL.Path)
			if r.URL.Path == "/v1/payment_methods/pm_card" {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "Jane", r.PostForm.Get("billing_details[name]"))
				assert.Equal(t, "BD", r.PostForm.Get("billing_details[address][country]"))
				assert.Empty(t, r.PostForm.Get("billing_details[address][line1]"))
			}
			fake.ServeHTTP(w, r)
		})

		_, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{
			IntentID:        "pi_1",
			PaymentMethodID: "pm_card",
			Billing:         gateway.Billing{Name: "Jane", Country: "BD"},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"POST /v1/customers",
			"POST /v1/payment_methods/pm_card/attach",
			"POST /v1/payment_methods/pm_card",
			"POST /v1/payment_intents/pi_1",
			"POST /v1/payment_intents/pi_1/confirm",
		}, order)
	})

	t.Run("declined card is recoverable", func(t *testing.T) {
		fake := newFakeStripe(t)
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v1/payment_intents/pi_1/confirm" {
				writeJSON(w, http.StatusPaymentRequired, `{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`)
				return
			}
			fake.ServeHTTP(w, r)
		})

		_, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{IntentID: "pi_1", PaymentMethodID: "pm_card"})

		var gwErr *gateway.Error
		require.True(t, errors.As(err, &gwErr))
		assert.Equal(t, gateway.KindCard, gwErr.Kind)
		assert.Equal(t, "Your card was declined.", gwErr.Message)
	})

	t.Run("intent needing further action", func(t *testing.T) {
		fake := newFakeStripe(t)
		fake.confirmStatus = "requires_action"
		gw := newStripeServer(t, fake.ServeHTTP)

		_, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{IntentID: "pi_1", PaymentMethodID: "pm_card"})

		assert.Equal(t, gateway.KindCard, gateway.KindOf(err))
	})

	t.Run("customer outage is unexpected", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/customers", r.URL.Path)
			writeJSON(w, http.StatusInternalServerError, `{"error":{"type":"api_error","message":"boom"}}`)
		})

		_, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{IntentID: "pi_1", PaymentMethodID: "pm_card"})

		assert.Equal(t, gateway.KindUnexpected, gateway.KindOf(err))
	})

	t.Run("missing payment method", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("gateway must not be called")
		})

		_, err := gw.ConfirmIntent(context.Background(), gateway.ConfirmRequest{IntentID: "pi_1"})

		assert.Equal(t, gateway.KindCard, gateway.KindOf(err))
	})
}

func TestStripeGateway_CancelIntent(t *testing.T) {
	unexpectedState := `{"error":{"type":"invalid_request_error","code":"payment_intent_unexpected_state","message":"You cannot cancel this PaymentIntent because it has a status of %s."}}`

	t.Run("open intent is cancelled", func(t *testing.T) {
		var called bool
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/payment_intents/pi_1/cancel", r.URL.Path)
			called = true
			writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","status":"canceled"}`)
		})

		require.NoError(t, gw.CancelIntent(context.Background(), "pi_1"))
		assert.True(t, called)
	})

	t.Run("already cancelled intent is fine", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","status":"canceled"}`)
				return
			}
			writeJSON(w, http.StatusBadRequest, fmt.Sprintf(unexpectedState, "canceled"))
		})

		assert.NoError(t, gw.CancelIntent(context.Background(), "pi_1"))
	})

	t.Run("succeeded intent cannot be cancelled", func(t *testing.T) {
		gw := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				writeJSON(w, http.StatusOK, `{"id":"pi_1","object":"payment_intent","status":"succeeded"}`)
				return
			}
			writeJSON(w, http.StatusBadRequest, fmt.Sprintf(unexpectedState, "succeeded"))
		})

		err := gw.CancelIntent(context.Background(), "pi_1")

		assert.Equal(t, gateway.KindUnexpected, gateway.KindOf(err))
	})
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, gateway.KindTimeout, gateway.KindOf(context.DeadlineExceeded))
	assert.Equal(t, gateway.KindUnexpected, gateway.KindOf(errors.New("boom")))
	assert.Equal(t, gateway.KindCard, gateway.KindOf(fmt.Errorf("wrapped: %w", &gateway.Error{Kind: gateway.KindCard})))
	assert.True(t, gateway.Billing{City: "Dhaka"}.HasAddress())
	assert.False(t, gateway.Billing{Name: "Jane"}.HasAddress())
}
