package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	dashboarderrors "worksphere/internal/dashboard/errors"
	"worksphere/internal/domain"
	"worksphere/internal/paymentrequest"
	"worksphere/internal/session"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/user"
)

const (
	GlobalCacheKey = "dashboard:stats:global"
	GlobalCacheTTL = 10 * time.Minute

	ScopeSelf   = "self"
	ScopeGlobal = "global"
	ScopeUser   = "user"
)

type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	// GetStats returns the dashboard for the session's role. Employees
	// always get their own figures; email scopes HR and Admin views to one
	// user.
	GetStats(ctx context.Context, sess session.Session, email string) (StatsResponse, error)
	// Refresh recomputes the global aggregates and stores them in the cache.
	Refresh(ctx context.Context) error
}

type service struct {
	repo   Repository
	users  UserLookup
	rdb    *redis.Client
	sf     singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, users UserLookup, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, users: users, rdb: rdb, logger: l}
}

func (s *service) GetStats(ctx context.Context, sess session.Session, email string) (StatsResponse, error) {
	caps, err := For(sess.Role)
	if err != nil {
		return StatsResponse{}, err
	}

	var (
		agg   Aggregates
		scope string
	)
	switch {
	case caps.SelfScoped:
		scope = ScopeSelf
		agg, err = s.repo.Aggregate(ctx, sess.UID)
	case email != "":
		scope = ScopeUser
		agg, err = s.aggregateFor(ctx, email)
	default:
		scope = ScopeGlobal
		agg, err = s.global(ctx)
	}
	if err != nil {
		return StatsResponse{}, err
	}

	return project(caps, agg, scope), nil
}

func (s *service) aggregateFor(ctx context.Context, email string) (Aggregates, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Aggregates{}, dashboarderrors.ErrUserNotFound
		}
		return Aggregates{}, err
	}
	return s.repo.Aggregate(ctx, u.UID)
}

func (s *service) global(ctx context.Context) (Aggregates, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, GlobalCacheKey).Bytes(); err == nil {
			var agg Aggregates
			if err := json.Unmarshal(cached, &agg); err == nil {
				return agg, nil
			}
			log.Warn("dashboard cache corrupt, refilling")
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(GlobalCacheKey, func() (interface{}, error) {
		return s.fill(ctx)
	})
	if err != nil {
		log.Error("dashboard aggregation failed", zap.Error(err))
		return Aggregates{}, err
	}
	return v.(Aggregates), nil
}

func (s *service) fill(ctx context.Context) (Aggregates, error) {
	agg, err := s.repo.Aggregate(ctx, "")
	if err != nil {
		return Aggregates{}, err
	}
	if s.rdb == nil {
		return agg, nil
	}
	if payload, err := json.Marshal(agg); err == nil {
		if err := s.rdb.Set(ctx, GlobalCacheKey, payload, GlobalCacheTTL).Err(); err != nil {
			contextutil.GetLogger(ctx, s.logger).Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return agg, nil
}

func (s *service) Refresh(ctx context.Context) error {
	agg, err := s.fill(ctx)
	if err != nil {
		s.logger.Error("dashboard refresh failed", zap.Error(err))
		return err
	}
	s.logger.Info("dashboard refreshed",
		zap.Int64("worksheet_entries", agg.WorksheetEntries),
		zap.Int64("payments", agg.PaymentsReceived),
	)
	return nil
}

// project keeps only what caps allows. Organisation-wide figures are only
// filled for the global scope.
func project(caps Capabilities, agg Aggregates, scope string) StatsResponse {
	resp := StatsResponse{
		Role:       string(caps.Role),
		Scope:      scope,
		QuickLinks: caps.QuickLinks,
	}
	st := &resp.Stats

	if caps.HasStat(StatWorksheetEntries) {
		st.WorksheetEntries = ptr(agg.WorksheetEntries)
	}
	if caps.HasStat(StatHoursLogged) {
		st.HoursLogged = ptr(agg.HoursLogged)
	}
	if caps.HasStat(StatPaymentsReceived) {
		st.PaymentsReceived = ptr(agg.PaymentsReceived)
	}
	if caps.HasStat(StatAmountPaid) {
		st.AmountPaid = ptr(agg.AmountPaid)
	}
	if caps.HasStat(StatPendingRequests) {
		st.PendingRequests = ptr(agg.RequestsByStatus[paymentrequest.StatusPending])
	}
	if caps.HasStat(StatApprovedRequests) {
		st.ApprovedRequests = ptr(agg.RequestsByStatus[paymentrequest.StatusApproved])
	}
	if caps.HasStat(StatRejectedRequests) {
		st.RejectedRequests = ptr(agg.RequestsByStatus[paymentrequest.StatusRejected])
	}

	if caps.HasChart(ChartHoursByMonth) {
		resp.Charts.HoursByMonth = agg.HoursByMonth
	}
	if caps.HasChart(ChartPaymentsByMonth) {
		resp.Charts.PaymentsByMonth = agg.PaymentsByMonth
	}
	if caps.HasChart(ChartRequestsByStatus) {
		resp.Charts.RequestsByStatus = countSeries(agg.RequestsByStatus,
			paymentrequest.StatusPending, paymentrequest.StatusApproved, paymentrequest.StatusRejected)
	}

	if scope != ScopeGlobal {
		return resp
	}

	if caps.HasStat(StatTotalEmployees) {
		st.TotalEmployees = ptr(agg.TotalEmployees)
	}
	if caps.HasStat(StatVerifiedEmployees) {
		st.VerifiedEmployees = ptr(agg.VerifiedEmployees)
	}
	if caps.HasStat(StatTotalUsers) {
		var total int64
		for _, n := range agg.UsersByRole {
			total += n
		}
		st.TotalUsers = ptr(total)
	}
	if caps.HasStat(StatTotalHR) {
		st.TotalHR = ptr(agg.UsersByRole[string(domain.RoleHR)])
	}
	if caps.HasChart(ChartUsersByRole) {
		resp.Charts.UsersByRole = countSeries(agg.UsersByRole,
			string(domain.RoleEmployee), string(domain.RoleHR), string(domain.RoleAdmin))
	}
	return resp
}

func countSeries(counts map[string]int64, keys ...string) []Point {
	out := make([]Point, len(keys))
	for i, k := range keys {
		out[i] = Point{Label: k, Value: decimal.NewFromInt(counts[k])}
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
