package payment

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"worksphere/internal/shared/dbtx"
)

//go:generate mockgen -source=payment_repo.go -destination=mock/payment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payment) error
	FindAll(ctx context.Context, filter Filter) ([]Payment, error)
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

func (r *repository) Create(ctx context.Context, p *Payment) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context, filter Filter) ([]Payment, error) {
	q := dbtx.Conn(ctx, r.db, r.tx).Model(&Payment{})
	if filter.UID != "" {
		q = q.Where("employee_uid = ?", filter.UID)
	}
	if filter.Email != "" {
		q = q.Where("LOWER(employee_email) = LOWER(?)", filter.Email)
	}
	if filter.Month != "" {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}

	var rows []Payment
	err := q.Order("payment_date ASC").Find(&rows).Error
	return rows, err
}
