package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"worksphere/internal/gateway"
	lifecycleerrors "worksphere/internal/lifecycle/errors"
	"worksphere/internal/paymentrequest"
	paymentrequesterrors "worksphere/internal/paymentrequest/errors"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
)

const DefaultGatewayTimeout = 15 * time.Second

// Controller drives one payment request from Pending to a terminal state.
// Every operation holds the request lock for its duration.
//
//go:generate mockgen -source=lifecycle_controller.go -destination=mock/lifecycle_controller_mock.go -package=mock
type Controller interface {
	Status(ctx context.Context, requestID string) (StatusResponse, error)
	InitiatePayment(ctx context.Context, sess session.Session, requestID string) (IntentResponse, error)
	CreateIntent(ctx context.Context, sess session.Session, req CreateIntentRequest) (IntentResponse, error)
	ConfirmPayment(ctx context.Context, sess session.Session, requestID string, req ConfirmPaymentRequest) (ConfirmPaymentResponse, error)
	Approve(ctx context.Context, sess session.Session, requestID, transactionID string) (paymentrequest.PaymentRequestResponse, error)
	Reject(ctx context.Context, sess session.Session, requestID string, confirmed bool) (paymentrequest.PaymentRequestResponse, error)
	Cancel(ctx context.Context, sess session.Session, requestID string) (StatusResponse, error)
}

type controller struct {
	requests paymentrequest.Service
	gw       gateway.Gateway
	store    Store
	timeout  time.Duration
	logger   *zap.Logger
}

func NewController(
	requests paymentrequest.Service,
	gw gateway.Gateway,
	store Store,
	timeout time.Duration,
	logger ...*zap.Logger,
) Controller {
	l := zap.L().Named("lifecycle.controller")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("lifecycle.controller")
	}
	if timeout <= 0 {
		timeout = DefaultGatewayTimeout
	}
	return &controller{
		requests: requests,
		gw:       gw,
		store:    store,
		timeout:  timeout,
		logger:   l,
	}
}

// open loads a request that can still move and its stored instance.
func (c *controller) open(ctx context.Context, requestID string) (*paymentrequest.PaymentRequest, Instance, error) {
	pr, err := c.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, Instance{}, err
	}
	if pr.IsTerminal() {
		return nil, Instance{}, paymentrequesterrors.ErrInvalidState
	}

	inst, err := c.store.Get(ctx, requestID)
	if err != nil {
		return nil, Instance{}, err
	}
	return pr, withConfirmation(pr, inst), nil
}

// withConfirmation restores a charge recorded on the request row when the
// stored instance expired or was never saved.
func withConfirmation(pr *paymentrequest.PaymentRequest, inst Instance) Instance {
	if pr.ConfirmedTransactionID == nil || inst.Confirmed() {
		return inst
	}
	inst.State = StateAwaitingConfirmation
	inst.TransactionID = *pr.ConfirmedTransactionID
	return inst
}

func (c *controller) Status(ctx context.Context, requestID string) (StatusResponse, error) {
	pr, err := c.requests.GetByID(ctx, requestID)
	if err != nil {
		return StatusResponse{}, err
	}

	resp := StatusResponse{
		RequestID: requestID,
		Status:    pr.Status,
		Actions:   pr.Actions(),
	}
	switch pr.Status {
	case paymentrequest.StatusApproved:
		resp.State = StateApproved
		if pr.TransactionID != nil {
			resp.TransactionID = *pr.TransactionID
		}
		return resp, nil
	case paymentrequest.StatusRejected:
		resp.State = StateRejected
		return resp, nil
	}

	inst, err := c.store.Get(ctx, requestID)
	if err != nil {
		return StatusResponse{}, err
	}
	inst = withConfirmation(pr, inst)
	resp.State = inst.State
	resp.TransactionID = inst.TransactionID
	return resp, nil
}

func (c *controller) InitiatePayment(ctx context.Context, sess session.Session, requestID string) (IntentResponse, error) {
	return c.initiate(ctx, sess, requestID, nil)
}

// CreateIntent is InitiatePayment addressed by order and payee. The amount
// and payee must match the stored request.
func (c *controller) CreateIntent(ctx context.Context, sess session.Session, req CreateIntentRequest) (IntentResponse, error) {
	return c.initiate(ctx, sess, req.OrderID, func(pr *paymentrequest.PaymentRequest) error {
		if req.Amount == nil || !req.Amount.Round(2).Equal(pr.Amount) {
			return lifecycleerrors.ErrAmountMismatch
		}
		if req.UserID != pr.EmployeeUID {
			return lifecycleerrors.ErrPayeeMismatch
		}
		return nil
	})
}

func (c *controller) initiate(ctx context.Context, sess session.Session, requestID string, check func(*paymentrequest.PaymentRequest) error) (IntentResponse, error) {
	log := contextutil.GetLogger(ctx, c.logger)

	unlock, err := c.store.Lock(ctx, requestID)
	if err != nil {
		return IntentResponse{}, err
	}
	defer unlock()

	pr, inst, err := c.open(ctx, requestID)
	if err != nil {
		return IntentResponse{}, err
	}
	if !pr.EmployeeVerified {
		return IntentResponse{}, paymentrequesterrors.ErrNotVerified
	}
	if check != nil {
		if err := check(pr); err != nil {
			return IntentResponse{}, err
		}
	}

	if inst.State == StateAwaitingConfirmation {
		if inst.Confirmed() {
			return IntentResponse{}, lifecycleerrors.ErrAlreadyConfirmed
		}
		return IntentResponse{RequestID: requestID, ClientSecret: inst.ClientSecret, Amount: pr.Amount}, nil
	}

	inst = Instance{RequestID: requestID, State: StateAwaitingIntent}
	if err := c.store.Save(ctx, inst); err != nil {
		return IntentResponse{}, err
	}

	gwCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	intent, err := c.gw.CreateIntent(gwCtx, gateway.IntentRequest{
		Amount:    pr.Amount,
		OrderID:   requestID,
		UserID:    pr.EmployeeUID,
		AttemptID: uuid.NewString(),
	})
	if err != nil {
		log.Warn("payment initialization failed",
			zap.String("payment_request_id", requestID),
			zap.String("actor", sess.Email),
			zap.Error(err),
		)
		if saveErr := c.store.Save(ctx, inst.reset()); saveErr != nil {
			log.Error("lifecycle rollback failed", zap.String("payment_request_id", requestID), zap.Error(saveErr))
		}
		if gateway.KindOf(err) == gateway.KindTimeout {
			return IntentResponse{}, lifecycleerrors.ErrGatewayTimeout.WithCause(err)
		}
		return IntentResponse{}, lifecycleerrors.ErrPaymentInitializationFailed.WithCause(err)
	}

	inst.State = StateAwaitingConfirmation
	inst.IntentID = intent.ID
	inst.ClientSecret = intent.ClientSecret
	if err := c.store.Save(ctx, inst); err != nil {
		return IntentResponse{}, err
	}

	log.Info("payment intent created", zap.String("payment_request_id", requestID), zap.String("intent_id", intent.ID))
	return IntentResponse{RequestID: requestID, ClientSecret: intent.ClientSecret, Amount: pr.Amount}, nil
}

func (c *controller) ConfirmPayment(ctx context.Context, sess session.Session, requestID string, req ConfirmPaymentRequest) (ConfirmPaymentResponse, error) {
	log := contextutil.GetLogger(ctx, c.logger)

	unlock, err := c.store.Lock(ctx, requestID)
	if err != nil {
		return ConfirmPaymentResponse{}, err
	}
	defer unlock()

	pr, inst, err := c.open(ctx, requestID)
	if err != nil {
		return ConfirmPaymentResponse{}, err
	}
	if inst.State != StateAwaitingConfirmation {
		return ConfirmPaymentResponse{}, lifecycleerrors.ErrNotAwaitingConfirmation
	}
	// A charge restored from the request row has no client secret left.
	if inst.ClientSecret != "" && req.ClientSecret != inst.ClientSecret {
		return ConfirmPaymentResponse{}, lifecycleerrors.ErrClientSecretMismatch
	}
	if inst.Confirmed() {
		if err := c.requests.RecordConfirmation(ctx, requestID, inst.TransactionID); err != nil {
			return ConfirmPaymentResponse{}, err
		}
		return ConfirmPaymentResponse{RequestID: requestID, TransactionID: inst.TransactionID}, nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conf, err := c.gw.ConfirmIntent(gwCtx, gateway.ConfirmRequest{
		IntentID:        inst.IntentID,
		PaymentMethodID: req.PaymentMethodID,
		Billing:         billingFor(req.Billing, pr),
	})
	if err != nil {
		return ConfirmPaymentResponse{}, c.confirmFailed(ctx, inst, err)
	}

	inst.TransactionID = conf.TransactionID
	if err := c.requests.RecordConfirmation(ctx, requestID, conf.TransactionID); err != nil {
		log.Error("charged payment not recorded on request",
			zap.String("payment_request_id", requestID),
			zap.String("transaction_id", conf.TransactionID),
			zap.Error(err),
		)
		// The stored instance lets a retry record it again.
		if saveErr := c.store.Save(ctx, inst); saveErr != nil {
			log.Error("lifecycle save failed", zap.String("payment_request_id", requestID), zap.Error(saveErr))
		}
		return ConfirmPaymentResponse{}, err
	}
	if err := c.store.Save(ctx, inst); err != nil {
		log.Warn("lifecycle save failed", zap.String("payment_request_id", requestID), zap.Error(err))
	}

	log.Info("payment confirmed",
		zap.String("payment_request_id", requestID),
		zap.String("transaction_id", conf.TransactionID),
		zap.String("actor", sess.Email),
	)
	return ConfirmPaymentResponse{RequestID: requestID, TransactionID: conf.TransactionID}, nil
}

// confirmFailed maps a gateway failure. Card errors and timeouts leave the
// instance awaiting confirmation. Anything else rolls it back to Pending.
func (c *controller) confirmFailed(ctx context.Context, inst Instance, err error) error {
	log := contextutil.GetLogger(ctx, c.logger)

	switch gateway.KindOf(err) {
	case gateway.KindCard:
		var gwErr *gateway.Error
		msg := ""
		if errors.As(err, &gwErr) {
			msg = gwErr.Message
		}
		log.Info("card rejected", zap.String("payment_request_id", inst.RequestID), zap.String("reason", msg))
		return lifecycleerrors.CardError(err, msg)
	case gateway.KindTimeout:
		log.Warn("payment confirmation timed out", zap.String("payment_request_id", inst.RequestID), zap.Error(err))
		return lifecycleerrors.ErrGatewayTimeout.WithCause(err)
	}

	log.Error("payment confirmation failed", zap.String("payment_request_id", inst.RequestID), zap.Error(err))
	if saveErr := c.store.Save(ctx, inst.reset()); saveErr != nil {
		log.Error("lifecycle rollback failed", zap.String("payment_request_id", inst.RequestID), zap.Error(saveErr))
	}
	return lifecycleerrors.ErrGatewayUnexpected.WithCause(err)
}

// billingFor forwards payer-supplied billing details, filling name and
// email from the request when they are missing.
func billingFor(supplied *gateway.Billing, pr *paymentrequest.PaymentRequest) gateway.Billing {
	var b gateway.Billing
	if supplied != nil {
		b = *supplied
	}
	if b.Name == "" {
		b.Name = pr.EmployeeName
	}
	if b.Email == "" {
		b.Email = pr.EmployeeEmail
	}
	return b
}

func (c *controller) Approve(ctx context.Context, sess session.Session, requestID, transactionID string) (paymentrequest.PaymentRequestResponse, error) {
	log := contextutil.GetLogger(ctx, c.logger)

	unlock, err := c.store.Lock(ctx, requestID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}
	defer unlock()

	_, inst, err := c.open(ctx, requestID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}
	if !inst.Confirmed() || inst.TransactionID != transactionID {
		log.Warn("approval without matching confirmation",
			zap.String("payment_request_id", requestID),
			zap.String("actor", sess.Email),
		)
		return paymentrequest.PaymentRequestResponse{}, lifecycleerrors.ErrForgedApproval
	}

	resp, err := c.requests.Approve(ctx, sess, requestID, transactionID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}

	if err := c.store.Delete(ctx, requestID); err != nil {
		log.Warn("lifecycle cleanup failed", zap.String("payment_request_id", requestID), zap.Error(err))
	}
	return resp, nil
}

func (c *controller) Reject(ctx context.Context, sess session.Session, requestID string, confirmed bool) (paymentrequest.PaymentRequestResponse, error) {
	if !confirmed {
		return paymentrequest.PaymentRequestResponse{}, apperror.ErrConfirmationRequired
	}
	log := contextutil.GetLogger(ctx, c.logger)

	unlock, err := c.store.Lock(ctx, requestID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}
	defer unlock()

	_, inst, err := c.open(ctx, requestID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}
	if inst.Confirmed() {
		return paymentrequest.PaymentRequestResponse{}, lifecycleerrors.ErrAlreadyConfirmed
	}
	if inst.IntentID != "" {
		if err := c.voidIntent(ctx, inst); err != nil {
			return paymentrequest.PaymentRequestResponse{}, err
		}
		if err := c.store.Save(ctx, inst.reset()); err != nil {
			return paymentrequest.PaymentRequestResponse{}, err
		}
	}

	resp, err := c.requests.Reject(ctx, sess, requestID)
	if err != nil {
		return paymentrequest.PaymentRequestResponse{}, err
	}

	if err := c.store.Delete(ctx, requestID); err != nil {
		log.Warn("lifecycle cleanup failed", zap.String("payment_request_id", requestID), zap.Error(err))
	}
	return resp, nil
}

// Cancel voids the open intent and returns the request to Pending. A
// payment the gateway already confirmed is kept so it can still be approved.
func (c *controller) Cancel(ctx context.Context, sess session.Session, requestID string) (StatusResponse, error) {
	unlock, err := c.store.Lock(ctx, requestID)
	if err != nil {
		return StatusResponse{}, err
	}
	defer unlock()

	pr, inst, err := c.open(ctx, requestID)
	if err != nil {
		return StatusResponse{}, err
	}

	if !inst.Confirmed() && inst.State != StatePending {
		if err := c.voidIntent(ctx, inst); err != nil {
			return StatusResponse{}, err
		}
		inst = inst.reset()
		if err := c.store.Save(ctx, inst); err != nil {
			return StatusResponse{}, err
		}
		contextutil.GetLogger(ctx, c.logger).Info("payment cancelled",
			zap.String("payment_request_id", requestID),
			zap.String("actor", sess.Email),
		)
	}

	return StatusResponse{
		RequestID:     requestID,
		Status:        pr.Status,
		State:         inst.State,
		TransactionID: inst.TransactionID,
		Actions:       pr.Actions(),
	}, nil
}

// voidIntent cancels the unconfirmed intent of inst at the gateway so its
// client secret can no longer be charged.
func (c *controller) voidIntent(ctx context.Context, inst Instance) error {
	if inst.IntentID == "" || inst.Confirmed() {
		return nil
	}

	gwCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.gw.CancelIntent(gwCtx, inst.IntentID); err != nil {
		contextutil.GetLogger(ctx, c.logger).Warn("cancel payment intent failed",
			zap.String("payment_request_id", inst.RequestID),
			zap.String("intent_id", inst.IntentID),
			zap.Error(err),
		)
		if gateway.KindOf(err) == gateway.KindTimeout {
			return lifecycleerrors.ErrGatewayTimeout.WithCause(err)
		}
		return lifecycleerrors.ErrGatewayUnexpected.WithCause(err)
	}
	return nil
}
