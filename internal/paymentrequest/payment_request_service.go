package paymentrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"worksphere/internal/bootstrap"
	"worksphere/internal/events"
	"worksphere/internal/invalidation"
	"worksphere/internal/messaging/kafka"
	"worksphere/internal/payment"
	paymentrequesterrors "worksphere/internal/paymentrequest/errors"
	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/dbtx"
	"worksphere/internal/shared/period"
	"worksphere/internal/user"
)

const (
	PendingCacheKey = "payment-requests:pending"
	pendingCacheTTL = 2 * time.Minute

	aggregateTypePaymentRequest = "payment_request"
)

// EmployeeFinder loads the payee of a request.
type EmployeeFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// PaymentRecorder stores the Payment for an approved request in the
// approving transaction.
type PaymentRecorder interface {
	Record(ctx context.Context, tx *sql.Tx, p *payment.Payment) error
}

//go:generate mockgen -source=payment_request_service.go -destination=mock/payment_request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, sess session.Session, req CreatePaymentRequestRequest) (PaymentRequestResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]PaymentRequestResponse, error)
	GetByID(ctx context.Context, id string) (*PaymentRequest, error)
	// Approve moves a pending request to approved and records its Payment
	// in one transaction. A request that already left pending yields
	// ErrInvalidState. Callers must not retry.
	Approve(ctx context.Context, sess session.Session, id, transactionID string) (PaymentRequestResponse, error)
	Reject(ctx context.Context, sess session.Session, id string) (PaymentRequestResponse, error)
	// RecordConfirmation stores the transaction of a charged payment on the
	// request row. It fails with ErrInvalidState when the request left
	// pending or holds a different confirmed transaction.
	RecordConfirmation(ctx context.Context, id, transactionID string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeFinder
	payments  PaymentRecorder
	outbox    kafka.OutboxRepository
	notifier  *invalidation.Notifier
	rdb       *redis.Client
	audit     bootstrap.AuditLogger
	builder   Builder
	sf        singleflight.Group
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeFinder,
	payments PaymentRecorder,
	outbox kafka.OutboxRepository,
	notifier *invalidation.Notifier,
	rdb *redis.Client,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("paymentrequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("paymentrequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		payments:  payments,
		outbox:    outbox,
		notifier:  notifier,
		rdb:       rdb,
		audit:     audit,
		builder:   NewBuilder(time.Now),
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, sess session.Session, req CreatePaymentRequestRequest) (PaymentRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create payment request", zap.String("employee_id", req.EmployeeID), zap.String("month", req.Month), zap.Int("year", req.Year))

	if _, err := uuid.Parse(req.EmployeeID); err != nil {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrEmployeeNotFound
	}
	employee, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentRequestResponse{}, paymentrequesterrors.ErrEmployeeNotFound
		}
		return PaymentRequestResponse{}, err
	}

	in := BuildInput{Month: req.Month, Year: req.Year}
	if req.Amount != nil {
		in.Amount = *req.Amount
	}
	pr, err := s.builder.Build(employee, sess, in)
	if err != nil {
		log.Info("payment request refused", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return PaymentRequestResponse{}, err
	}

	open, err := s.repo.HasOpenRequest(ctx, pr.EmployeeUID, pr.Month, pr.Year)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	if open {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrDuplicatePeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, pr); err != nil {
		if dbtx.IsUniqueViolation(err, PeriodIndexName) {
			return PaymentRequestResponse{}, paymentrequesterrors.ErrDuplicatePeriod
		}
		log.Error("create payment request failed", zap.Error(err))
		return PaymentRequestResponse{}, err
	}

	if err := s.stageLifecycleEvent(ctx, tx, events.EventTypePaymentRequestCreated, pr); err != nil {
		return PaymentRequestResponse{}, err
	}
	invalidate := invalidation.NewEvent(ctx, events.EventTypePaymentRequestCreated, pr.ID.String(), events.EntityPaymentRequests)
	if err := s.notifier.Stage(ctx, tx, invalidate); err != nil {
		return PaymentRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PaymentRequestResponse{}, err
	}
	s.notifier.Publish(ctx, invalidate)

	log.Info("payment request created", zap.String("payment_request_id", pr.ID.String()), zap.String("requested_by", pr.RequestedBy))
	return ToResponse(*pr), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]PaymentRequestResponse, error) {
	switch filter.Status {
	case "", StatusPending, StatusApproved, StatusRejected:
	default:
		return nil, paymentrequesterrors.ErrInvalidStatusFilter
	}

	if filter.pendingOnly() && s.rdb != nil {
		return s.getPendingCached(ctx)
	}
	return s.list(ctx, filter)
}

func (s *service) list(ctx context.Context, filter ListFilter) ([]PaymentRequestResponse, error) {
	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list payment requests failed", zap.Error(err))
		return nil, err
	}

	resp := make([]PaymentRequestResponse, len(rows))
	for i, r := range rows {
		resp[i] = ToResponse(r)
	}
	period.SortByPeriod(resp)
	return resp, nil
}

func (s *service) getPendingCached(ctx context.Context) ([]PaymentRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if cached, err := s.rdb.Get(ctx, PendingCacheKey).Bytes(); err == nil {
		var resp []PaymentRequestResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("pending requests cache read failed", zap.Error(err))
	}

	v, err, _ := s.sf.Do(PendingCacheKey, func() (interface{}, error) {
		resp, err := s.list(ctx, ListFilter{Status: StatusPending})
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, PendingCacheKey, payload, pendingCacheTTL).Err(); err != nil {
				log.Warn("pending requests cache write failed", zap.Error(err))
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]PaymentRequestResponse), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*PaymentRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, paymentrequesterrors.ErrInvalidPaymentRequestID
	}

	pr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentrequesterrors.ErrPaymentRequestNotFound
		}
		return nil, err
	}
	return pr, nil
}

func (s *service) Approve(ctx context.Context, sess session.Session, id, transactionID string) (PaymentRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	pr, err := s.GetByID(ctx, id)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	if pr.Status != StatusPending {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrInvalidState
	}
	// A charge already taken is settled even if the employee lost
	// verification after paying.
	charged := pr.ConfirmedTransactionID != nil && *pr.ConfirmedTransactionID == transactionID
	if !pr.EmployeeVerified && !charged {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrNotVerified
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	defer tx.Rollback()

	moved, err := s.repo.WithTx(tx).MarkApproved(ctx, id, transactionID, sess.Email, now)
	if err != nil {
		log.Error("approve payment request failed", zap.String("payment_request_id", id), zap.Error(err))
		return PaymentRequestResponse{}, err
	}
	if !moved {
		log.Warn("payment request left pending concurrently", zap.String("payment_request_id", id))
		return PaymentRequestResponse{}, paymentrequesterrors.ErrInvalidState
	}

	err = s.payments.Record(ctx, tx, &payment.Payment{
		ID:               uuid.New(),
		PaymentRequestID: pr.ID,
		EmployeeID:       pr.EmployeeID,
		EmployeeUID:      pr.EmployeeUID,
		EmployeeEmail:    pr.EmployeeEmail,
		EmployeeName:     pr.EmployeeName,
		Month:            pr.Month,
		Year:             pr.Year,
		Amount:           pr.Amount,
		TransactionID:    transactionID,
		PaymentDate:      now,
	})
	if err != nil {
		log.Error("record payment failed", zap.String("payment_request_id", id), zap.Error(err))
		return PaymentRequestResponse{}, err
	}

	pr.Status = StatusApproved
	pr.TransactionID = &transactionID
	pr.ProcessedBy = &sess.Email
	pr.ProcessedAt = &now

	if err := s.stageLifecycleEvent(ctx, tx, events.EventTypePaymentRequestApproved, pr); err != nil {
		return PaymentRequestResponse{}, err
	}
	invalidate := invalidation.NewEvent(ctx, events.EventTypePaymentRequestApproved, id,
		events.EntityPaymentRequests, events.EntityPayments)
	if err := s.notifier.Stage(ctx, tx, invalidate); err != nil {
		return PaymentRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PaymentRequestResponse{}, err
	}
	s.notifier.Publish(ctx, invalidate)

	s.auditLog(ctx, "PAYMENT_REQUEST_APPROVED", sess, pr)
	log.Info("payment request approved", zap.String("payment_request_id", id), zap.String("transaction_id", transactionID))
	return ToResponse(*pr), nil
}

func (s *service) Reject(ctx context.Context, sess session.Session, id string) (PaymentRequestResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	pr, err := s.GetByID(ctx, id)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	if pr.Status != StatusPending {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrInvalidState
	}
	if pr.ConfirmedTransactionID != nil {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrPaymentConfirmed
	}

	now := time.Now().UTC()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	defer tx.Rollback()

	moved, err := s.repo.WithTx(tx).MarkRejected(ctx, id, sess.Email, now)
	if err != nil {
		return PaymentRequestResponse{}, err
	}
	if !moved {
		return PaymentRequestResponse{}, paymentrequesterrors.ErrInvalidState
	}

	pr.Status = StatusRejected
	pr.ProcessedBy = &sess.Email
	pr.ProcessedAt = &now

	if err := s.stageLifecycleEvent(ctx, tx, events.EventTypePaymentRequestRejected, pr); err != nil {
		return PaymentRequestResponse{}, err
	}
	invalidate := invalidation.NewEvent(ctx, events.EventTypePaymentRequestRejected, id, events.EntityPaymentRequests)
	if err := s.notifier.Stage(ctx, tx, invalidate); err != nil {
		return PaymentRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PaymentRequestResponse{}, err
	}
	s.notifier.Publish(ctx, invalidate)

	s.auditLog(ctx, "PAYMENT_REQUEST_REJECTED", sess, pr)
	log.Info("payment request rejected", zap.String("payment_request_id", id))
	return ToResponse(*pr), nil
}

func (s *service) RecordConfirmation(ctx context.Context, id, transactionID string) error {
	moved, err := s.repo.RecordConfirmation(ctx, id, transactionID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("record payment confirmation failed",
			zap.String("payment_request_id", id),
			zap.String("transaction_id", transactionID),
			zap.Error(err),
		)
		return err
	}
	if !moved {
		return paymentrequesterrors.ErrInvalidState
	}
	return nil
}

func (s *service) stageLifecycleEvent(ctx context.Context, tx *sql.Tx, eventType string, pr *PaymentRequest) error {
	if s.outbox == nil {
		return nil
	}

	ev := events.PaymentRequestEvent{
		EventType:        eventType,
		PaymentRequestID: pr.ID.String(),
		EmployeeUID:      pr.EmployeeUID,
		Amount:           pr.Amount.StringFixed(2),
		Month:            pr.Month,
		Year:             pr.Year,
		OccurredAt:       time.Now().UTC(),
	}
	if pr.TransactionID != nil {
		ev.TransactionID = *pr.TransactionID
	}
	if pr.ProcessedBy != nil {
		ev.ProcessedBy = *pr.ProcessedBy
	} else {
		ev.ProcessedBy = pr.RequestedBy
	}

	row, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		aggregateTypePaymentRequest,
		pr.ID.String(),
		eventType,
		events.PaymentRequestLifecycleTopic,
		ev,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, row)
}

func (s *service) auditLog(ctx context.Context, action string, sess session.Session, pr *PaymentRequest) {
	if s.audit == nil {
		return
	}
	meta := map[string]any{
		"actor":              sess.Email,
		"payment_request_id": pr.ID.String(),
		"employee_uid":       pr.EmployeeUID,
		"amount":             pr.Amount.StringFixed(2),
		"period":             pr.Month,
		"year":               pr.Year,
	}
	if pr.TransactionID != nil {
		meta["transaction_id"] = *pr.TransactionID
	}
	s.audit.Log(ctx, bootstrap.AuditLog{Action: action, Message: action + " " + pr.ID.String(), Meta: meta})
}

func ToResponse(pr PaymentRequest) PaymentRequestResponse {
	resp := PaymentRequestResponse{
		ID:               pr.ID.String(),
		EmployeeID:       pr.EmployeeID.String(),
		EmployeeUID:      pr.EmployeeUID,
		EmployeeEmail:    pr.EmployeeEmail,
		EmployeeName:     pr.EmployeeName,
		Amount:           pr.Amount,
		Month:            pr.Month,
		Year:             pr.Year,
		RequestDate:      pr.RequestDate.Format(time.RFC3339),
		Status:           pr.Status,
		RequestedBy:      pr.RequestedBy,
		TransactionID:    pr.TransactionID,
		ProcessedBy:      pr.ProcessedBy,
		EmployeeVerified: pr.EmployeeVerified,
		Actions:          pr.Actions(),
	}
	if pr.ProcessedAt != nil {
		at := pr.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &at
	}
	return resp
}
