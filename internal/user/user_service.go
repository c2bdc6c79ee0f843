package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"worksphere/internal/bootstrap"
	"worksphere/internal/domain"
	"worksphere/internal/events"
	"worksphere/internal/invalidation"
	"worksphere/internal/middleware"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/dbtx"
	"worksphere/internal/storage"
	usererrors "worksphere/internal/user/errors"
)

const (
	AllUsersCacheKey = "users:all"
	allUsersCacheTTL = 5 * time.Minute
	maxPhotoSize     = 5 << 20
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	ResolveSession(ctx context.Context, identity middleware.Identity) (session.Session, error)
	Register(ctx context.Context, identity middleware.Identity, req RegisterUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, filter GetUsersFilter) ([]UserResponse, error)
	GetMe(ctx context.Context, sess session.Session) (UserResponse, error)
	UpdateProfile(ctx context.Context, sess session.Session, email string, req UpdateProfileRequest) (UserResponse, error)
	SetVerified(ctx context.Context, sess session.Session, id string, verified bool) (UserResponse, error)
	ChangeRole(ctx context.Context, sess session.Session, id string, role domain.Role) (UserResponse, error)
	SetWorksheetStatus(ctx context.Context, sess session.Session, id string, active bool) (UserResponse, error)
	Delete(ctx context.Context, sess session.Session, id string, confirmed bool) error
	UploadPhoto(ctx context.Context, sess session.Session, email string, file io.Reader, size int64, contentType string) (UserResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	rdb      *redis.Client
	notifier *invalidation.Notifier
	photos   storage.ObjectStore
	audit    bootstrap.AuditLogger
	sf       singleflight.Group
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	rdb *redis.Client,
	notifier *invalidation.Notifier,
	photos storage.ObjectStore,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		rdb:      rdb,
		notifier: notifier,
		photos:   photos,
		audit:    audit,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) ResolveSession(ctx context.Context, identity middleware.Identity) (session.Session, error) {
	u, err := s.repo.FindByUID(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return session.Session{UID: identity.UID, Email: identity.Email, Name: identity.Name}, nil
		}
		s.log(ctx).Error("resolve session failed", zap.String("uid", identity.UID), zap.Error(err))
		return session.Session{}, apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, apperror.ErrInternal.HTTPStatus)
	}
	return toSession(*u), nil
}

func (s *service) Register(ctx context.Context, identity middleware.Identity, req RegisterUserRequest) (UserResponse, error) {
	log := s.log(ctx)
	log.Debug("register user requested", zap.String("uid", identity.UID), zap.String("role", req.Role))

	role := domain.Role(req.Role)
	if role != domain.RoleEmployee && role != domain.RoleHR {
		return UserResponse{}, usererrors.ErrInvalidRole
	}
	if strings.TrimSpace(identity.Email) == "" {
		return UserResponse{}, apperror.RequiredField("Email")
	}

	existing, err := s.repo.FindByUID(ctx, identity.UID)
	if err == nil {
		log.Debug("register user already exists", zap.String("user_id", existing.ID.String()))
		return mapToResponse(*existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("register user lookup failed", zap.Error(err))
		return UserResponse{}, err
	}

	salary := decimal.Zero
	if req.Salary != nil {
		if req.Salary.IsNegative() {
			return UserResponse{}, usererrors.ErrInvalidSalary
		}
		salary = *req.Salary
	}

	u := &User{
		ID:                uuid.New(),
		UID:               identity.UID,
		Email:             strings.ToLower(strings.TrimSpace(identity.Email)),
		Name:              strings.TrimSpace(req.Name),
		Role:              string(role),
		Designation:       strings.TrimSpace(req.Designation),
		BankAccountNo:     strings.TrimSpace(req.BankAccountNo),
		Salary:            salary,
		PhotoURL:          req.PhotoURL,
		IsVerified:        false,
		IsActiveWorksheet: true,
	}

	err = s.commitUserChange(ctx, "user.registered", u, func(qtx Repository) error {
		return qtx.Create(ctx, u)
	})
	if err != nil {
		if dbtx.IsUniqueViolation(err, "") {
			return UserResponse{}, usererrors.ErrUserAlreadyExists
		}
		return UserResponse{}, err
	}

	log.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, filter GetUsersFilter) ([]UserResponse, error) {
	if filter.IsEmpty() && s.rdb != nil {
		return s.getAllCached(ctx)
	}

	users, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list users failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) getAllCached(ctx context.Context) ([]UserResponse, error) {
	log := s.log(ctx)

	if cached, err := s.rdb.Get(ctx, AllUsersCacheKey).Bytes(); err == nil {
		var resp []UserResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
		log.Warn("users cache corrupt, refilling")
	} else if !errors.Is(err, redis.Nil) {
		log.Warn("users cache read failed", zap.Error(err))
	}

	v, err, _ := s.sf.Do(AllUsersCacheKey, func() (interface{}, error) {
		users, err := s.repo.FindAll(ctx, GetUsersFilter{})
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(users)

		if payload, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, AllUsersCacheKey, payload, allUsersCacheTTL).Err(); err != nil {
				log.Warn("users cache write failed", zap.Error(err))
			}
		}
		return resp, nil
	})
	if err != nil {
		log.Error("list users failed", zap.Error(err))
		return nil, err
	}
	return v.([]UserResponse), nil
}

func (s *service) GetMe(ctx context.Context, sess session.Session) (UserResponse, error) {
	if !sess.IsRegistered() {
		return UserResponse{}, usererrors.ErrNotRegistered
	}
	u, err := s.repo.FindByUID(ctx, sess.UID)
	if err != nil {
		return UserResponse{}, mapNotFound(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateProfile(ctx context.Context, sess session.Session, email string, req UpdateProfileRequest) (UserResponse, error) {
	log := s.log(ctx)
	log.Debug("update profile requested", zap.String("email", email), zap.String("actor_uid", sess.UID))

	if !sess.IsRegistered() {
		return UserResponse{}, usererrors.ErrNotRegistered
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return UserResponse{}, mapNotFound(err)
	}
	if u.UID != sess.UID && !sess.IsAdmin() {
		return UserResponse{}, usererrors.ErrProfileNotOwned
	}

	if req.Salary != nil {
		if !sess.IsAdmin() {
			return UserResponse{}, usererrors.ErrSalaryAdminOnly
		}
		if req.Salary.IsNegative() {
			return UserResponse{}, usererrors.ErrInvalidSalary
		}
		if req.Salary.LessThan(u.Salary) {
			return UserResponse{}, usererrors.ErrSalaryDecrease
		}
		u.Salary = *req.Salary
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Designation != nil {
		u.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.BankAccountNo != nil {
		u.BankAccountNo = strings.TrimSpace(*req.BankAccountNo)
	}
	if req.PhotoURL != nil {
		u.PhotoURL = *req.PhotoURL
	}

	if err := s.commitUserChange(ctx, "user.profile_updated", u, func(qtx Repository) error {
		return qtx.Update(ctx, u)
	}); err != nil {
		return UserResponse{}, err
	}

	log.Info("profile updated", zap.String("user_id", u.ID.String()))
	return mapToResponse(*u), nil
}

func (s *service) SetVerified(ctx context.Context, sess session.Session, id string, verified bool) (UserResponse, error) {
	u, err := s.loadManagedTarget(ctx, sess, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.IsVerified = verified
	if err := s.commitUserChange(ctx, "user.verification_changed", u, func(qtx Repository) error {
		return qtx.Update(ctx, u)
	}, events.EntityPaymentRequests); err != nil {
		return UserResponse{}, err
	}

	s.auditLog(ctx, "USER_VERIFICATION_CHANGED", sess, u, map[string]any{"is_verified": verified})
	return mapToResponse(*u), nil
}

func (s *service) ChangeRole(ctx context.Context, sess session.Session, id string, role domain.Role) (UserResponse, error) {
	if role != domain.RoleEmployee && role != domain.RoleHR {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	u, err := s.loadManagedTarget(ctx, sess, id)
	if err != nil {
		return UserResponse{}, err
	}

	previous := u.Role
	u.Role = string(role)
	if err := s.commitUserChange(ctx, "user.role_changed", u, func(qtx Repository) error {
		return qtx.Update(ctx, u)
	}, events.EntityPaymentRequests); err != nil {
		return UserResponse{}, err
	}

	s.auditLog(ctx, "USER_ROLE_CHANGED", sess, u, map[string]any{"from": previous, "to": u.Role})
	return mapToResponse(*u), nil
}

func (s *service) SetWorksheetStatus(ctx context.Context, sess session.Session, id string, active bool) (UserResponse, error) {
	u, err := s.loadManagedTarget(ctx, sess, id)
	if err != nil {
		return UserResponse{}, err
	}

	u.IsActiveWorksheet = active
	if err := s.commitUserChange(ctx, "user.worksheet_status_changed", u, func(qtx Repository) error {
		return qtx.Update(ctx, u)
	}); err != nil {
		return UserResponse{}, err
	}

	s.auditLog(ctx, "USER_WORKSHEET_STATUS_CHANGED", sess, u, map[string]any{"is_active_worksheet": active})
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, sess session.Session, id string, confirmed bool) error {
	if !confirmed {
		return apperror.ErrConfirmationRequired
	}

	u, err := s.loadManagedTarget(ctx, sess, id)
	if err != nil {
		return err
	}

	// Cached payment requests read the employee's verification through the
	// users join.
	if err := s.commitUserChange(ctx, "user.deleted", u, func(qtx Repository) error {
		return qtx.Delete(ctx, u.ID.String())
	}, events.EntityPaymentRequests); err != nil {
		return err
	}

	s.auditLog(ctx, "USER_DELETED", sess, u, nil)
	return nil
}

func (s *service) UploadPhoto(ctx context.Context, sess session.Session, email string, file io.Reader, size int64, contentType string) (UserResponse, error) {
	if s.photos == nil {
		return UserResponse{}, usererrors.ErrPhotoStorageUnavailable
	}
	if !sess.IsRegistered() {
		return UserResponse{}, usererrors.ErrNotRegistered
	}

	ext, ok := photoExtensions[contentType]
	if !ok || size <= 0 || size > maxPhotoSize {
		return UserResponse{}, usererrors.ErrInvalidPhoto
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return UserResponse{}, mapNotFound(err)
	}
	if u.UID != sess.UID && !sess.IsAdmin() {
		return UserResponse{}, usererrors.ErrProfileNotOwned
	}

	objectName := fmt.Sprintf("users/%s/%s%s", u.UID, uuid.NewString(), ext)
	url, err := s.photos.Upload(ctx, objectName, file, size, contentType)
	if err != nil {
		s.log(ctx).Error("photo upload failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return UserResponse{}, apperror.Wrap(err, usererrors.ErrPhotoStorageUnavailable.Code, usererrors.ErrPhotoStorageUnavailable.Message, usererrors.ErrPhotoStorageUnavailable.HTTPStatus)
	}

	u.PhotoURL = url
	if err := s.commitUserChange(ctx, "user.photo_updated", u, func(qtx Repository) error {
		return qtx.Update(ctx, u)
	}); err != nil {
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

// loadManagedTarget loads a user an HR/Admin is about to manage. Callers
// never manage themselves, and Admin accounts are not managed at all.
func (s *service) loadManagedTarget(ctx context.Context, sess session.Session, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if u.UID == sess.UID || u.ID.String() == sess.UserID {
		s.log(ctx).Warn("self modification rejected", zap.String("user_id", id))
		return nil, usererrors.ErrSelfModification
	}
	if u.Role == string(domain.RoleAdmin) {
		return nil, usererrors.ErrAdminImmutable
	}
	return u, nil
}

// commitUserChange runs write in a transaction together with the outbox
// record, then notifies local cache subscribers.
func (s *service) commitUserChange(ctx context.Context, reason string, u *User, write func(qtx Repository) error, extra ...events.Entity) error {
	log := s.log(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("begin tx failed", zap.String("reason", reason), zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := write(s.repo.WithTx(tx)); err != nil {
		log.Error("persist user change failed", zap.String("reason", reason), zap.Error(err))
		return err
	}

	entities := append([]events.Entity{events.EntityUsers}, extra...)
	event := invalidation.NewEvent(ctx, reason, u.ID.String(), entities...)
	if err := s.notifier.Stage(ctx, tx, event); err != nil {
		log.Error("stage invalidation failed", zap.String("reason", reason), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("commit user change failed", zap.String("reason", reason), zap.Error(err))
		return err
	}

	s.notifier.Publish(ctx, event)
	return nil
}

func (s *service) auditLog(ctx context.Context, action string, sess session.Session, target *User, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if meta == nil {
		meta = map[string]any{}
	}
	meta["actor_uid"] = sess.UID
	meta["target_id"] = target.ID.String()
	meta["target_email"] = target.Email
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  action,
		Message: action + " " + target.Email,
		Meta:    meta,
	})
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}
	return err
}

func toSession(u User) session.Session {
	return session.Session{
		UserID:          u.ID.String(),
		UID:             u.UID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            domain.Role(u.Role),
		Verified:        u.IsVerified,
		WorksheetActive: u.IsActiveWorksheet,
	}
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:                u.ID.String(),
		UID:               u.UID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		Designation:       u.Designation,
		BankAccountNo:     u.BankAccountNo,
		Salary:            u.Salary,
		PhotoURL:          u.PhotoURL,
		IsVerified:        u.IsVerified,
		IsActiveWorksheet: u.IsActiveWorksheet,
		CreatedAt:         u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapToListResponse(users []User) []UserResponse {
	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp
}
