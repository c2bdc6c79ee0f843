package worksheet

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"worksphere/internal/shared/dbtx"
)

//go:generate mockgen -source=worksheet_repo.go -destination=mock/worksheet_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, w *Worksheet) error
	FindByID(ctx context.Context, id string) (*Worksheet, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Worksheet, error)
	Update(ctx context.Context, w *Worksheet) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, w *Worksheet) error {
	return dbtx.Conn(ctx, r.db, r.tx).Create(w).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Worksheet, error) {
	var w Worksheet
	if err := dbtx.Conn(ctx, r.db, r.tx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Worksheet, error) {
	q := dbtx.Conn(ctx, r.db, r.tx).Model(&Worksheet{})
	if filter.UID != "" {
		q = q.Where("uid = ?", filter.UID)
	}
	if filter.Email != "" {
		q = q.Where("LOWER(email) = LOWER(?)", filter.Email)
	}
	if filter.Month != "" {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}

	var rows []Worksheet
	err := q.Order("work_date ASC").Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, w *Worksheet) error {
	return dbtx.Conn(ctx, r.db, r.tx).Save(w).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return dbtx.Conn(ctx, r.db, r.tx).Delete(&Worksheet{}, "id = ?", id).Error
}
