package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

type StripeConfig struct {
	SecretKey string
	Currency  string
	// BaseURL overrides the Stripe API endpoint.
	BaseURL string
}

type stripeGateway struct {
	api      *client.API
	currency string
	logger   *zap.Logger
}

func NewStripeGateway(cfg StripeConfig, logger ...*zap.Logger) Gateway {
	l := zap.L().Named("gateway.stripe")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("gateway.stripe")
	}

	backendCfg := &stripe.BackendConfig{
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.BaseURL != "" {
		backendCfg.URL = stripe.String(cfg.BaseURL)
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	return &stripeGateway{
		api:      client.New(cfg.SecretKey, backends),
		currency: currency,
		logger:   l,
	}
}

// minorUnits converts an amount to cents.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

func (g *stripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(req.Amount)),
		Currency:           stripe.String(g.currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("userId", req.UserID)
	params.SetIdempotencyKey("intent-" + req.OrderID + "-" + req.AttemptID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		g.logger.Warn("create payment intent failed", zap.String("order_id", req.OrderID), zap.Error(err))
		return Intent{}, classify(err)
	}

	return Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (g *stripeGateway) ConfirmIntent(ctx context.Context, req ConfirmRequest) (Confirmation, error) {
	if req.PaymentMethodID == "" {
		return Confirmation{}, &Error{Kind: KindCard, Message: "payment method is required"}
	}

	if err := g.saveToCustomer(ctx, req); err != nil {
		g.logger.Warn("save payment method failed", zap.String("intent_id", req.IntentID), zap.Error(err))
		return Confirmation{}, classify(err)
	}

	params := &stripe.PaymentIntentConfirmParams{PaymentMethod: stripe.String(req.PaymentMethodID)}
	params.Context = ctx
	params.ReceiptEmail = optional(req.Billing.Email)

	pi, err := g.api.PaymentIntents.Confirm(req.IntentID, params)
	if err != nil {
		g.logger.Warn("confirm payment intent failed", zap.String("intent_id", req.IntentID), zap.Error(err))
		return Confirmation{}, classify(err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return Confirmation{}, &Error{Kind: KindCard, Message: "payment was not completed: " + string(pi.Status)}
	}

	return Confirmation{TransactionID: pi.ID, Status: string(pi.Status)}, nil
}

// saveToCustomer attaches the payment method to a new customer built from
// the billing details, then points the intent at that customer. Stripe only
// lets a saved method carry updated billing details, and a saved method can
// only be used by an intent of the same customer.
func (g *stripeGateway) saveToCustomer(ctx context.Context, req ConfirmRequest) error {
	custParams := &stripe.CustomerParams{
		Name:    optional(req.Billing.Name),
		Email:   optional(req.Billing.Email),
		Address: addressParams(req.Billing),
	}
	custParams.Context = ctx
	custParams.AddMetadata("intentId", req.IntentID)
	custParams.SetIdempotencyKey("customer-" + req.IntentID + "-" + req.PaymentMethodID)

	cust, err := g.api.Customers.New(custParams)
	if err != nil {
		return err
	}

	attachParams := &stripe.PaymentMethodAttachParams{Customer: stripe.String(cust.ID)}
	attachParams.Context = ctx
	if _, err := g.api.PaymentMethods.Attach(req.PaymentMethodID, attachParams); err != nil {
		return err
	}

	pmParams := &stripe.PaymentMethodParams{BillingDetails: billingParams(req.Billing)}
	pmParams.Context = ctx
	if _, err := g.api.PaymentMethods.Update(req.PaymentMethodID, pmParams); err != nil {
		return err
	}

	piParams := &stripe.PaymentIntentParams{Customer: stripe.String(cust.ID)}
	piParams.Context = ctx
	_, err = g.api.PaymentIntents.Update(req.IntentID, piParams)
	return err
}

func (g *stripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	_, err := g.api.PaymentIntents.Cancel(intentID, params)
	if err == nil {
		return nil
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodePaymentIntentUnexpectedState {
		getParams := &stripe.PaymentIntentParams{}
		getParams.Context = ctx
		pi, getErr := g.api.PaymentIntents.Get(intentID, getParams)
		if getErr != nil {
			return classify(getErr)
		}
		switch pi.Status {
		case stripe.PaymentIntentStatusCanceled:
			return nil
		case stripe.PaymentIntentStatusSucceeded:
			g.logger.Error("cancel on a succeeded payment intent", zap.String("intent_id", intentID))
			return &Error{Kind: KindUnexpected, Message: "payment intent already succeeded", Err: err}
		}
	}

	g.logger.Warn("cancel payment intent failed", zap.String("intent_id", intentID), zap.Error(err))
	return classify(err)
}

// billingParams forwards what the payer supplied. No address is sent when
// none was given.
func billingParams(b Billing) *stripe.PaymentMethodBillingDetailsParams {
	details := &stripe.PaymentMethodBillingDetailsParams{}
	if b.Name != "" {
		details.Name = stripe.String(b.Name)
	}
	if b.Email != "" {
		details.Email = stripe.String(b.Email)
	}
	details.Address = addressParams(b)
	return details
}

func addressParams(b Billing) *stripe.AddressParams {
	if !b.HasAddress() {
		return nil
	}
	return &stripe.AddressParams{
		Line1:      optional(b.Line1),
		City:       optional(b.City),
		State:      optional(b.State),
		PostalCode: optional(b.PostalCode),
		Country:    optional(b.Country),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return stripe.String(v)
}

func classify(err error) error {
	if isTimeout(err) {
		return &Error{Kind: KindTimeout, Message: "payment gateway did not respond in time", Err: err}
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard, stripe.ErrorTypeInvalidRequest:
			return &Error{Kind: KindCard, Message: stripeErr.Msg, Err: err}
		}
		return &Error{Kind: KindUnexpected, Message: stripeErr.Msg, Err: err}
	}

	return &Error{Kind: KindUnexpected, Message: "payment gateway request failed", Err: err}
}
