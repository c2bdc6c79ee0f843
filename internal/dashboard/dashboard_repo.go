package dashboard

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"worksphere/internal/domain"
	"worksphere/internal/shared/period"
)

//go:generate mockgen -source=dashboard_repo.go -destination=mock/dashboard_repo_mock.go -package=mock
type Repository interface {
	// Aggregate computes the figures for one employee uid, or for everyone
	// when uid is empty.
	Aggregate(ctx context.Context, uid string) (Aggregates, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type periodRow struct {
	Month string          `gorm:"column:month"`
	Year  int             `gorm:"column:year"`
	Total decimal.Decimal `gorm:"column:total"`
}

func (r periodRow) PeriodMonth() string { return r.Month }
func (r periodRow) PeriodYear() int     { return r.Year }

type countRow struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

func (r *repository) Aggregate(ctx context.Context, uid string) (Aggregates, error) {
	db := r.db.WithContext(ctx)
	agg := Aggregates{
		RequestsByStatus: map[string]int64{},
		UsersByRole:      map[string]int64{},
	}

	worksheets := db.Table("worksheets").Where("deleted_at IS NULL")
	payments := db.Table("payments")
	requests := db.Table("payment_requests")
	if uid != "" {
		worksheets = worksheets.Where("uid = ?", uid)
		payments = payments.Where("employee_uid = ?", uid)
		requests = requests.Where("employee_uid = ?", uid)
	}

	var work struct {
		Entries int64           `gorm:"column:entries"`
		Hours   decimal.Decimal `gorm:"column:hours"`
	}
	if err := worksheets.Session(&gorm.Session{}).
		Select("COUNT(*) AS entries, COALESCE(SUM(hours), 0) AS hours").
		Scan(&work).Error; err != nil {
		return Aggregates{}, err
	}
	agg.WorksheetEntries = work.Entries
	agg.HoursLogged = work.Hours

	var paid struct {
		Count  int64           `gorm:"column:count"`
		Amount decimal.Decimal `gorm:"column:amount"`
	}
	if err := payments.Session(&gorm.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Scan(&paid).Error; err != nil {
		return Aggregates{}, err
	}
	agg.PaymentsReceived = paid.Count
	agg.AmountPaid = paid.Amount

	var hours []periodRow
	if err := worksheets.Session(&gorm.Session{}).
		Select("month, year, COALESCE(SUM(hours), 0) AS total").
		Group("month, year").
		Scan(&hours).Error; err != nil {
		return Aggregates{}, err
	}
	agg.HoursByMonth = toSeries(hours)

	var amounts []periodRow
	if err := payments.Session(&gorm.Session{}).
		Select("month, year, COALESCE(SUM(amount), 0) AS total").
		Group("month, year").
		Scan(&amounts).Error; err != nil {
		return Aggregates{}, err
	}
	agg.PaymentsByMonth = toSeries(amounts)

	var statuses []countRow
	if err := requests.Session(&gorm.Session{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&statuses).Error; err != nil {
		return Aggregates{}, err
	}
	for _, row := range statuses {
		agg.RequestsByStatus[row.Key] = row.Count
	}

	if uid != "" {
		return agg, nil
	}

	var roles []countRow
	if err := db.Table("users").
		Where("deleted_at IS NULL").
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Scan(&roles).Error; err != nil {
		return Aggregates{}, err
	}
	for _, row := range roles {
		agg.UsersByRole[row.Key] = row.Count
	}
	agg.TotalEmployees = agg.UsersByRole[string(domain.RoleEmployee)]

	if err := db.Table("users").
		Where("deleted_at IS NULL AND role = ? AND is_verified", string(domain.RoleEmployee)).
		Count(&agg.VerifiedEmployees).Error; err != nil {
		return Aggregates{}, err
	}

	return agg, nil
}

// toSeries orders rows by (year, month) and labels them "July 2025".
func toSeries(rows []periodRow) []Point {
	period.SortByPeriod(rows)
	out := make([]Point, len(rows))
	for i, row := range rows {
		out[i] = Point{Label: row.Month + " " + strconv.Itoa(row.Year), Value: row.Total}
	}
	return out
}
