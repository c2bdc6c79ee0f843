package paymentrequest

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"

	"worksphere/internal/shared/dbtx"
)

//go:generate mockgen -source=payment_request_repo.go -destination=mock/payment_request_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, pr *PaymentRequest) error
	FindByID(ctx context.Context, id string) (*PaymentRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]PaymentRequest, error)
	HasOpenRequest(ctx context.Context, employeeUID, month string, year int) (bool, error)
	// MarkApproved and MarkRejected only move a pending row. They report
	// false when the row was no longer pending.
	MarkApproved(ctx context.Context, id, transactionID, processedBy string, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, id, processedBy string, at time.Time) (bool, error)
	// RecordConfirmation sets the confirmed transaction of a pending row
	// once. Repeating the same transaction reports true.
	RecordConfirmation(ctx context.Context, id, transactionID string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, pr *PaymentRequest) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(pr).Error
}

// withEmployee selects requests together with the employee's current
// verification flag.
func (r *repository) withEmployee(ctx context.Context) *gorm.DB {
	return dbtx.Conn(ctx, r.db, r.tx).
		Table("payment_requests AS pr").
		Select("pr.*, COALESCE(u.is_verified, false) AS employee_verified").
		Joins("LEFT JOIN users u ON u.id = pr.employee_id AND u.deleted_at IS NULL")
}

func (r *repository) FindByID(ctx context.Context, id string) (*PaymentRequest, error) {
	var pr PaymentRequest
	if err := r.withEmployee(ctx).Where("pr.id = ?", id).Take(&pr).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]PaymentRequest, error) {
	q := r.withEmployee(ctx)
	if filter.Status != "" {
		q = q.Where("pr.status = ?", filter.Status)
	}
	if filter.UID != "" {
		q = q.Where("pr.employee_uid = ?", filter.UID)
	}

	var rows []PaymentRequest
	err := q.Order("pr.request_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) HasOpenRequest(ctx context.Context, employeeUID, month string, year int) (bool, error) {
	var count int64
	err := dbtx.Conn(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Where("employee_uid = ? AND month = ? AND year = ? AND status <> ?", employeeUID, month, year, StatusRejected).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) MarkApproved(ctx context.Context, id, transactionID, processedBy string, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":         StatusApproved,
			"transaction_id": transactionID,
			"processed_by":   processedBy,
			"processed_at":   at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) MarkRejected(ctx context.Context, id, processedBy string, at time.Time) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":       StatusRejected,
			"processed_by": processedBy,
			"processed_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *repository) RecordConfirmation(ctx context.Context, id, transactionID string) (bool, error) {
	res := dbtx.Conn(ctx, r.db, r.tx).
		Model(&PaymentRequest{}).
		Where("id = ? AND status = ? AND (confirmed_transaction_id IS NULL OR confirmed_transaction_id = ?)",
			id, StatusPending, transactionID).
		Update("confirmed_transaction_id", transactionID)
	return res.RowsAffected == 1, res.Error
}
