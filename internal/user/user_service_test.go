package user_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"worksphere/internal/bootstrap"
	"worksphere/internal/domain"
	"worksphere/internal/events"
	"worksphere/internal/invalidation"
	kafkaMock "worksphere/internal/messaging/kafka/mock"
	"worksphere/internal/middleware"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	storageMock "worksphere/internal/storage/mock"
	"worksphere/internal/user"
	usererrors "worksphere/internal/user/errors"
	userMock "worksphere/internal/user/mock"
)

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(_ context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   user.Service
	repo      *userMock.MockRepository
	outbox    *kafkaMock.MockOutboxRepository
	photos    *storageMock.MockObjectStore
	redismock redismock.ClientMock
	bus       *invalidation.Recorder
	audit     *recordingAudit
}

func setupUserServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rdb, redisMock := redismock.NewClientMock()
	repo := userMock.NewMockRepository(ctrl)
	outbox := kafkaMock.NewMockOutboxRepository(ctrl)
	photos := storageMock.NewMockObjectStore(ctrl)
	bus := &invalidation.Recorder{}
	audit := &recordingAudit{}

	svc := user.NewService(db, repo, rdb, invalidation.NewNotifier(outbox, bus), photos, audit)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		outbox:    outbox,
		photos:    photos,
		redismock: redisMock,
		bus:       bus,
		audit:     audit,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *serviceDeps) expectWrite() {
	d.repo.EXPECT().WithTx(gomock.Any()).Return(d.repo)
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox)
	d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
}

func hrSession() session.Session {
	return session.Session{UserID: uuid.NewString(), UID: "hr-uid", Email: "hr@example.com", Role: domain.RoleHR, Verified: true}
}

func adminSession() session.Session {
	return session.Session{UserID: uuid.NewString(), UID: "admin-uid", Email: "admin@example.com", Role: domain.RoleAdmin, Verified: true}
}

func employeeUser() *user.User {
	return &user.User{
		ID:                uuid.New(),
		UID:               "emp-uid",
		Email:             "jane@example.com",
		Name:              "Jane",
		Role:              string(domain.RoleEmployee),
		Salary:            decimal.NewFromInt(4000),
		IsActiveWorksheet: true,
	}
}

func TestUserService_ResolveSession(t *testing.T) {
	ctx := context.Background()

	t.Run("registered user", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		u.IsVerified = true
		deps.repo.EXPECT().FindByUID(ctx, "emp-uid").Return(u, nil)

		sess, err := deps.service.ResolveSession(ctx, middleware.Identity{UID: "emp-uid"})

		require.NoError(t, err)
		assert.Equal(t, u.ID.String(), sess.UserID)
		assert.Equal(t, domain.RoleEmployee, sess.Role)
		assert.True(t, sess.Verified)
		assert.True(t, sess.IsRegistered())
	})

	t.Run("unregistered identity has no role", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		deps.repo.EXPECT().FindByUID(ctx, "new-uid").Return(nil, gorm.ErrRecordNotFound)

		sess, err := deps.service.ResolveSession(ctx, middleware.Identity{UID: "new-uid", Email: "new@example.com"})

		require.NoError(t, err)
		assert.False(t, sess.IsRegistered())
		assert.Equal(t, domain.Role(""), sess.Role)
		assert.Equal(t, "new@example.com", sess.Email)
	})

	t.Run("db failure", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		deps.repo.EXPECT().FindByUID(ctx, "x").Return(nil, errors.New("db down"))

		_, err := deps.service.ResolveSession(ctx, middleware.Identity{UID: "x"})

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeInternalError, appErr.Code)
	})
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	identity := middleware.Identity{UID: "emp-uid", Email: "Jane@Example.com", Name: "Jane"}

	t.Run("success creates unverified profile", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		deps.repo.EXPECT().FindByUID(ctx, "emp-uid").Return(nil, gorm.ErrRecordNotFound)

		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(ctx context.Context, u *user.User) error {
			assert.Equal(t, "jane@example.com", u.Email)
			assert.Equal(t, "Employee", u.Role)
			assert.False(t, u.IsVerified)
			assert.True(t, u.IsActiveWorksheet)
			return nil
		})

		res, err := deps.service.Register(ctx, identity, user.RegisterUserRequest{Name: "Jane", Role: "Employee"})

		require.NoError(t, err)
		assert.Equal(t, "emp-uid", res.UID)
		require.Len(t, deps.bus.Events, 1)
		assert.Contains(t, deps.bus.Events[0].Entities, events.EntityUsers)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("admin is never self-assignable", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		_, err := deps.service.Register(ctx, identity, user.RegisterUserRequest{Name: "Jane", Role: "Admin"})

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("existing profile is returned unchanged", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		existing := employeeUser()
		deps.repo.EXPECT().FindByUID(ctx, "emp-uid").Return(existing, nil)

		res, err := deps.service.Register(ctx, identity, user.RegisterUserRequest{Name: "Other", Role: "HR"})

		require.NoError(t, err)
		assert.Equal(t, "Employee", res.Role)
		assert.Empty(t, deps.bus.Events)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		deps.repo.EXPECT().FindByUID(ctx, "emp-uid").Return(nil, gorm.ErrRecordNotFound)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(gorm.ErrDuplicatedKey)

		_, err := deps.service.Register(ctx, identity, user.RegisterUserRequest{Name: "Jane", Role: "HR"})

		assert.ErrorIs(t, err, usererrors.ErrUserAlreadyExists)
	})
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips repository", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		cached, _ := json.Marshal([]user.UserResponse{{ID: "1", Email: "a@example.com"}})
		deps.redismock.ExpectGet(user.AllUsersCacheKey).SetVal(string(cached))

		res, err := deps.service.GetAll(ctx, user.GetUsersFilter{})

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "a@example.com", res[0].Email)
	})

	t.Run("filtered query bypasses cache", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		filter := user.GetUsersFilter{Email: "jane@example.com"}
		deps.repo.EXPECT().FindAll(ctx, filter).Return([]user.User{*employeeUser()}, nil)

		res, err := deps.service.GetAll(ctx, filter)

		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	self := session.Session{UserID: uuid.NewString(), UID: "emp-uid", Role: domain.RoleEmployee}

	t.Run("owner edits own profile", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Update(ctx, u).Return(nil)

		name := "Jane Doe"
		res, err := deps.service.UpdateProfile(ctx, self, u.Email, user.UpdateProfileRequest{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", res.Name)
	})

	t.Run("employee cannot edit another profile", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		other := employeeUser()
		other.UID = "someone-else"
		deps.repo.EXPECT().FindByEmail(ctx, other.Email).Return(other, nil)

		_, err := deps.service.UpdateProfile(ctx, self, other.Email, user.UpdateProfileRequest{})

		assert.ErrorIs(t, err, usererrors.ErrProfileNotOwned)
	})

	t.Run("salary is admin only", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		salary := decimal.NewFromInt(9000)
		_, err := deps.service.UpdateProfile(ctx, self, u.Email, user.UpdateProfileRequest{Salary: &salary})

		assert.ErrorIs(t, err, usererrors.ErrSalaryAdminOnly)
	})

	t.Run("salary may only increase", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)

		salary := decimal.NewFromInt(3000)
		_, err := deps.service.UpdateProfile(ctx, adminSession(), u.Email, user.UpdateProfileRequest{Salary: &salary})

		assert.ErrorIs(t, err, usererrors.ErrSalaryDecrease)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		deps.repo.EXPECT().FindByEmail(ctx, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.UpdateProfile(ctx, self, "ghost@example.com", user.UpdateProfileRequest{})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_SetVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("hr verifies employee", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		res, err := deps.service.SetVerified(ctx, hrSession(), u.ID.String(), true)

		require.NoError(t, err)
		assert.True(t, res.IsVerified)
		require.Len(t, deps.bus.Events, 1)
		assert.Contains(t, deps.bus.Events[0].Entities, events.EntityPaymentRequests)
		require.Len(t, deps.audit.entries, 1)
		assert.Equal(t, "USER_VERIFICATION_CHANGED", deps.audit.entries[0].Action)
	})

	t.Run("self modification rejected", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		sess := hrSession()
		me := employeeUser()
		me.UID = sess.UID
		me.Role = string(domain.RoleHR)
		deps.repo.EXPECT().FindByID(ctx, me.ID.String()).Return(me, nil)

		_, err := deps.service.SetVerified(ctx, sess, me.ID.String(), false)

		assert.ErrorIs(t, err, usererrors.ErrSelfModification)
	})

	t.Run("invalid id", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		_, err := deps.service.SetVerified(ctx, hrSession(), "not-a-uuid", true)

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("promote employee to hr", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		res, err := deps.service.ChangeRole(ctx, adminSession(), u.ID.String(), domain.RoleHR)

		require.NoError(t, err)
		assert.Equal(t, "HR", res.Role)
		assert.Equal(t, "Employee", deps.audit.entries[0].Meta["from"])
		require.Len(t, deps.bus.Events, 1)
		assert.ElementsMatch(t,
			[]events.Entity{events.EntityUsers, events.EntityPaymentRequests, events.EntityDashboardStats},
			deps.bus.Entities())
	})

	t.Run("cannot grant admin", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		_, err := deps.service.ChangeRole(ctx, adminSession(), uuid.NewString(), domain.RoleAdmin)

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("admin accounts are immutable", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		target := employeeUser()
		target.Role = string(domain.RoleAdmin)
		deps.repo.EXPECT().FindByID(ctx, target.ID.String()).Return(target, nil)

		_, err := deps.service.ChangeRole(ctx, adminSession(), target.ID.String(), domain.RoleHR)

		assert.ErrorIs(t, err, usererrors.ErrAdminImmutable)
	})
}

func TestUserService_SetWorksheetStatus(t *testing.T) {
	ctx := context.Background()
	deps := setupUserServiceTest(t)
	u := employeeUser()
	deps.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
	expectTx(t, deps.sqlMock, true)
	deps.expectWrite()
	deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

	res, err := deps.service.SetWorksheetStatus(ctx, adminSession(), u.ID.String(), false)

	require.NoError(t, err)
	assert.False(t, res.IsActiveWorksheet)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("requires confirmation", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		err := deps.service.Delete(ctx, adminSession(), uuid.NewString(), false)

		assert.ErrorIs(t, err, apperror.ErrConfirmationRequired)
	})

	t.Run("confirmed delete", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Delete(ctx, u.ID.String()).Return(nil)

		err := deps.service.Delete(ctx, adminSession(), u.ID.String(), true)

		require.NoError(t, err)
		assert.Equal(t, "USER_DELETED", deps.audit.entries[0].Action)
		require.Len(t, deps.bus.Events, 1)
		assert.ElementsMatch(t,
			[]events.Entity{events.EntityUsers, events.EntityPaymentRequests, events.EntityDashboardStats},
			deps.bus.Entities())
	})

	t.Run("rollback on repository error", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByID(ctx, u.ID.String()).Return(u, nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, u.ID.String()).Return(errors.New("db down"))

		err := deps.service.Delete(ctx, adminSession(), u.ID.String(), true)

		assert.Error(t, err)
		assert.Empty(t, deps.bus.Events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestUserService_UploadPhoto(t *testing.T) {
	ctx := context.Background()
	self := session.Session{UserID: uuid.NewString(), UID: "emp-uid", Role: domain.RoleEmployee}

	t.Run("stores photo under the user prefix", func(t *testing.T) {
		deps := setupUserServiceTest(t)
		u := employeeUser()
		deps.repo.EXPECT().FindByEmail(ctx, u.Email).Return(u, nil)
		deps.photos.EXPECT().
			Upload(ctx, gomock.Any(), gomock.Any(), int64(4), "image/png").
			DoAndReturn(func(_ context.Context, name string, _ interface{}, _ int64, _ string) (string, error) {
				assert.True(t, strings.HasPrefix(name, "users/emp-uid/"))
				assert.True(t, strings.HasSuffix(name, ".png"))
				return "http://cdn/" + name, nil
			})
		expectTx(t, deps.sqlMock, true)
		deps.expectWrite()
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		res, err := deps.service.UploadPhoto(ctx, self, u.Email, bytes.NewReader([]byte("fake")), 4, "image/png")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.PhotoURL, "http://cdn/users/emp-uid/"))
	})

	t.Run("rejects non image", func(t *testing.T) {
		deps := setupUserServiceTest(t)

		_, err := deps.service.UploadPhoto(ctx, self, "jane@example.com", bytes.NewReader(nil), 10, "application/pdf")

		assert.ErrorIs(t, err, usererrors.ErrInvalidPhoto)
	})
}
