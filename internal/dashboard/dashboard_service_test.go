package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"worksphere/internal/dashboard"
	dashboarderrors "worksphere/internal/dashboard/errors"
	dashboardMock "worksphere/internal/dashboard/mock"
	"worksphere/internal/domain"
	"worksphere/internal/session"
	"worksphere/internal/user"
)

type serviceDeps struct {
	service   dashboard.Service
	repo      *dashboardMock.MockRepository
	users     *dashboardMock.MockUserLookup
	redismock redismock.ClientMock
}

func setupDashboardServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	rdb, mock := redismock.NewClientMock()
	repo := dashboardMock.NewMockRepository(ctrl)
	users := dashboardMock.NewMockUserLookup(ctrl)
	return &serviceDeps{
		service:   dashboard.NewService(repo, users, rdb),
		repo:      repo,
		users:     users,
		redismock: mock,
	}
}

func globalAggregates() dashboard.Aggregates {
	return dashboard.Aggregates{
		WorksheetEntries:  40,
		HoursLogged:       decimal.NewFromInt(310),
		PaymentsReceived:  6,
		AmountPaid:        decimal.NewFromInt(18000),
		TotalEmployees:    8,
		VerifiedEmployees: 5,
		RequestsByStatus:  map[string]int64{"pending": 2, "approved": 6, "rejected": 1},
		UsersByRole:       map[string]int64{"Employee": 8, "HR": 2, "Admin": 1},
	}
}

func TestDashboardService_GetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("employee sees only their own figures", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		sess := session.Session{UID: "jane-uid", Email: "jane@example.com", Role: domain.RoleEmployee}
		deps.repo.EXPECT().Aggregate(ctx, "jane-uid").Return(dashboard.Aggregates{
			WorksheetEntries: 3,
			HoursLogged:      decimal.NewFromInt(24),
			RequestsByStatus: map[string]int64{"pending": 1},
		}, nil)

		res, err := deps.service.GetStats(ctx, sess, "someone-else@example.com")

		require.NoError(t, err)
		assert.Equal(t, dashboard.ScopeSelf, res.Scope)
		require.NotNil(t, res.Stats.WorksheetEntries)
		assert.Equal(t, int64(3), *res.Stats.WorksheetEntries)
		assert.Nil(t, res.Stats.PendingRequests)
		assert.Nil(t, res.Stats.TotalUsers)
		assert.Empty(t, res.Charts.RequestsByStatus)
	})

	t.Run("unknown role fetches nothing", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)

		_, err := deps.service.GetStats(ctx, session.Session{UID: "x"}, "")

		assert.ErrorIs(t, err, dashboarderrors.ErrAccessDenied)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("hr global view is served from cache", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		raw, _ := json.Marshal(globalAggregates())
		deps.redismock.ExpectGet(dashboard.GlobalCacheKey).SetVal(string(raw))

		res, err := deps.service.GetStats(ctx, session.Session{Role: domain.RoleHR}, "")

		require.NoError(t, err)
		assert.Equal(t, dashboard.ScopeGlobal, res.Scope)
		require.NotNil(t, res.Stats.PendingRequests)
		assert.Equal(t, int64(2), *res.Stats.PendingRequests)
		assert.Equal(t, int64(5), *res.Stats.VerifiedEmployees)
		assert.Nil(t, res.Stats.TotalUsers)
		assert.Len(t, res.Charts.RequestsByStatus, 3)
		assert.Empty(t, res.Charts.UsersByRole)
	})

	t.Run("admin sees a superset of hr", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		deps.redismock.ExpectGet(dashboard.GlobalCacheKey).RedisNil()
		deps.repo.EXPECT().Aggregate(ctx, "").Return(globalAggregates(), nil)
		deps.redismock.Regexp().ExpectSet(dashboard.GlobalCacheKey, `.*`, dashboard.GlobalCacheTTL).SetErr(errors.New("ignored"))

		res, err := deps.service.GetStats(ctx, session.Session{Role: domain.RoleAdmin}, "")

		require.NoError(t, err)
		require.NotNil(t, res.Stats.TotalUsers)
		assert.Equal(t, int64(11), *res.Stats.TotalUsers)
		assert.Equal(t, int64(2), *res.Stats.TotalHR)
		assert.NotNil(t, res.Stats.PendingRequests)
		assert.Len(t, res.Charts.UsersByRole, 3)
	})

	t.Run("hr scoped to one user", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		deps.users.EXPECT().FindByEmail(ctx, "jane@example.com").Return(&user.User{UID: "jane-uid"}, nil)
		deps.repo.EXPECT().Aggregate(ctx, "jane-uid").Return(dashboard.Aggregates{PaymentsReceived: 2}, nil)

		res, err := deps.service.GetStats(ctx, session.Session{Role: domain.RoleHR}, "jane@example.com")

		require.NoError(t, err)
		assert.Equal(t, dashboard.ScopeUser, res.Scope)
		assert.Equal(t, int64(2), *res.Stats.PaymentsReceived)
		assert.Nil(t, res.Stats.TotalEmployees)
	})

	t.Run("scoped user missing", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		deps.users.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetStats(ctx, session.Session{Role: domain.RoleHR}, "ghost@example.com")

		assert.ErrorIs(t, err, dashboarderrors.ErrUserNotFound)
	})
}

func TestDashboardService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the global aggregates", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		deps.repo.EXPECT().Aggregate(ctx, "").Return(globalAggregates(), nil)
		deps.redismock.Regexp().ExpectSet(dashboard.GlobalCacheKey, `"worksheetEntries":40`, dashboard.GlobalCacheTTL).SetVal("OK")

		require.NoError(t, deps.service.Refresh(ctx))
	})

	t.Run("repository failure", func(t *testing.T) {
		deps := setupDashboardServiceTest(t)
		deps.repo.EXPECT().Aggregate(ctx, "").Return(dashboard.Aggregates{}, errors.New("db down"))

		assert.Error(t, deps.service.Refresh(ctx))
	})
}
