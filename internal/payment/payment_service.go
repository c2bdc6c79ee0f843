package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	paymenterrors "worksphere/internal/payment/errors"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/counter"
	"worksphere/internal/shared/dbtx"
	"worksphere/internal/shared/period"
)

const ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

//go:generate mockgen -source=payment_service.go -destination=mock/payment_service_mock.go -package=mock
type Service interface {
	// Record stores p inside tx and assigns its receipt number. It is the
	// only way a Payment is created.
	Record(ctx context.Context, tx *sql.Tx, p *Payment) error
	History(ctx context.Context, sess session.Session, uid string) ([]PaymentResponse, error)
	GetAll(ctx context.Context, filter Filter) ([]PaymentResponse, error)
	Export(ctx context.Context, filter Filter) ([]byte, error)
}

type service struct {
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payment.service")
	}
	return &service{repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Record(ctx context.Context, tx *sql.Tx, p *Payment) error {
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now().UTC()
	}

	scope := strconv.Itoa(p.PaymentDate.Year())
	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, scope, counter.SequencePaymentReceipt)
	if err != nil {
		return err
	}
	p.ReceiptNo = fmt.Sprintf("WS-%s-%06d", scope, seq)

	if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
		switch {
		case dbtx.IsUniqueViolation(err, "uq_payments_transaction"):
			return paymenterrors.ErrDuplicateTransaction
		case dbtx.IsUniqueViolation(err, "uq_payments_request"):
			return paymenterrors.ErrAlreadyPaid
		}
		return err
	}

	contextutil.GetLogger(ctx, s.logger).Info("payment recorded",
		zap.String("payment_request_id", p.PaymentRequestID.String()),
		zap.String("receipt_no", p.ReceiptNo),
	)
	return nil
}

// History returns a payment history ordered by period. Employees always get
// their own history.
func (s *service) History(ctx context.Context, sess session.Session, uid string) ([]PaymentResponse, error) {
	if !sess.IsPrivileged() {
		uid = sess.UID
	}
	if uid == "" {
		return nil, apperror.RequiredField("uid")
	}
	return s.GetAll(ctx, Filter{UID: uid})
}

func (s *service) GetAll(ctx context.Context, filter Filter) ([]PaymentResponse, error) {
	if filter.Month != "" {
		if !period.IsValidMonth(filter.Month) {
			return nil, paymenterrors.ErrInvalidFilter
		}
		filter.Month = period.Normalize(filter.Month)
	}
	if filter.Year < 0 {
		return nil, paymenterrors.ErrInvalidFilter
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list payments failed", zap.Error(err))
		return nil, err
	}

	resp := make([]PaymentResponse, len(rows))
	for i, p := range rows {
		resp[i] = mapToResponse(p)
	}
	period.SortByPeriod(resp)
	return resp, nil
}

func (s *service) Export(ctx context.Context, filter Filter) ([]byte, error) {
	rows, err := s.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	out, err := buildPaymentsWorkbook(rows)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("payments export failed", zap.Error(err))
		return nil, apperror.Wrap(err, paymenterrors.ErrExportFailed.Code, paymenterrors.ErrExportFailed.Message, paymenterrors.ErrExportFailed.HTTPStatus)
	}
	return out, nil
}

func mapToResponse(p Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID.String(),
		PaymentRequestID: p.PaymentRequestID.String(),
		EmployeeUID:      p.EmployeeUID,
		EmployeeEmail:    p.EmployeeEmail,
		EmployeeName:     p.EmployeeName,
		Month:            p.Month,
		Year:             p.Year,
		Amount:           p.Amount,
		TransactionID:    p.TransactionID,
		ReceiptNo:        p.ReceiptNo,
		PaymentDate:      p.PaymentDate.Format(time.RFC3339),
	}
}
