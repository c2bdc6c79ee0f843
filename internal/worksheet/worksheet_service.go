package worksheet

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksphere/internal/domain"
	"worksphere/internal/events"
	"worksphere/internal/invalidation"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
	"worksphere/internal/shared/contextutil"
	"worksphere/internal/shared/period"
	worksheeterrors "worksphere/internal/worksheet/errors"
)

const (
	minHours = 0.5
	maxHours = 24
)

//go:generate mockgen -source=worksheet_service.go -destination=mock/worksheet_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, sess session.Session, req CreateWorksheetRequest) (WorksheetResponse, error)
	List(ctx context.Context, sess session.Session, filter ListFilter) ([]WorksheetResponse, error)
	Update(ctx context.Context, sess session.Session, id string, req UpdateWorksheetRequest) (WorksheetResponse, error)
	Delete(ctx context.Context, sess session.Session, id string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	notifier *invalidation.Notifier
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, notifier *invalidation.Notifier, logger ...*zap.Logger) Service {
	l := zap.L().Named("worksheet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("worksheet.service")
	}
	return &service{db: db, repo: repo, notifier: notifier, logger: l}
}

func (s *service) Create(ctx context.Context, sess session.Session, req CreateWorksheetRequest) (WorksheetResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if sess.Role != domain.RoleEmployee {
		return WorksheetResponse{}, worksheeterrors.ErrEmployeeOnly
	}
	if !sess.WorksheetActive {
		return WorksheetResponse{}, worksheeterrors.ErrWorksheetInactive
	}
	userID, err := uuid.Parse(sess.UserID)
	if err != nil {
		return WorksheetResponse{}, apperror.ErrUnauthorized
	}
	if err := validateHours(req.Hours); err != nil {
		return WorksheetResponse{}, err
	}
	workDate, err := parseWorkDate(req.Date)
	if err != nil {
		return WorksheetResponse{}, err
	}

	row := &Worksheet{
		ID:             uuid.New(),
		UserID:         userID,
		UID:            sess.UID,
		Email:          sess.Email,
		Task:           strings.TrimSpace(req.Task),
		Hours:          req.Hours,
		WorkDate:       workDate,
		Month:          period.MonthOf(workDate),
		Year:           workDate.Year(),
		SubmissionDate: time.Now().UTC(),
	}

	if err := s.commit(ctx, "worksheet.created", row.ID.String(), func(qtx Repository) error {
		return qtx.Create(ctx, row)
	}); err != nil {
		return WorksheetResponse{}, err
	}

	log.Info("worksheet entry created",
		zap.String("worksheet_id", row.ID.String()),
		zap.String("month", row.Month),
		zap.Int("year", row.Year),
	)
	return mapToResponse(*row), nil
}

// List returns entries ordered by period, then work date. Employees only
// ever see their own entries whatever the filter says.
func (s *service) List(ctx context.Context, sess session.Session, filter ListFilter) ([]WorksheetResponse, error) {
	if filter.Month != "" {
		if !period.IsValidMonth(filter.Month) {
			return nil, worksheeterrors.ErrInvalidPeriod
		}
		filter.Month = period.Normalize(filter.Month)
	}
	if filter.Year < 0 {
		return nil, worksheeterrors.ErrInvalidPeriod
	}
	if !sess.IsPrivileged() {
		filter.UID = sess.UID
		filter.Email = ""
	}

	rows, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list worksheets failed", zap.Error(err))
		return nil, err
	}

	resp := make([]WorksheetResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	period.SortByPeriod(resp)
	return resp, nil
}

func (s *service) Update(ctx context.Context, sess session.Session, id string, req UpdateWorksheetRequest) (WorksheetResponse, error) {
	row, err := s.loadOwned(ctx, sess, id)
	if err != nil {
		return WorksheetResponse{}, err
	}

	if req.Task != nil {
		row.Task = strings.TrimSpace(*req.Task)
	}
	if req.Hours != nil {
		if err := validateHours(*req.Hours); err != nil {
			return WorksheetResponse{}, err
		}
		row.Hours = *req.Hours
	}
	if req.Date != nil {
		workDate, err := parseWorkDate(*req.Date)
		if err != nil {
			return WorksheetResponse{}, err
		}
		row.WorkDate = workDate
		row.Month = period.MonthOf(workDate)
		row.Year = workDate.Year()
	}

	if err := s.commit(ctx, "worksheet.updated", row.ID.String(), func(qtx Repository) error {
		return qtx.Update(ctx, row)
	}); err != nil {
		return WorksheetResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, sess session.Session, id string) error {
	row, err := s.loadOwned(ctx, sess, id)
	if err != nil {
		return err
	}

	return s.commit(ctx, "worksheet.deleted", row.ID.String(), func(qtx Repository) error {
		return qtx.Delete(ctx, row.ID.String())
	})
}

func (s *service) loadOwned(ctx context.Context, sess session.Session, id string) (*Worksheet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, worksheeterrors.ErrInvalidWorksheetID
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, worksheeterrors.ErrWorksheetNotFound
		}
		return nil, err
	}
	if row.UID != sess.UID {
		return nil, worksheeterrors.ErrWorksheetNotOwned
	}
	return row, nil
}

func (s *service) commit(ctx context.Context, reason, aggregateID string, write func(qtx Repository) error) error {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := write(s.repo.WithTx(tx)); err != nil {
		log.Error("persist worksheet failed", zap.String("reason", reason), zap.Error(err))
		return err
	}

	event := invalidation.NewEvent(ctx, reason, aggregateID, events.EntityWorksheets)
	if err := s.notifier.Stage(ctx, tx, event); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.notifier.Publish(ctx, event)
	return nil
}

func validateHours(h float64) error {
	if h < minHours || h > maxHours {
		return worksheeterrors.ErrInvalidHours
	}
	return nil
}

func parseWorkDate(raw string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, worksheeterrors.ErrInvalidDate
	}
	if d.After(time.Now().UTC()) {
		return time.Time{}, worksheeterrors.ErrFutureDate
	}
	return d, nil
}

func mapToResponse(w Worksheet) WorksheetResponse {
	return WorksheetResponse{
		ID:             w.ID.String(),
		UID:            w.UID,
		Email:          w.Email,
		Task:           w.Task,
		Hours:          w.Hours,
		Date:           w.WorkDate.Format(dateLayout),
		Month:          w.Month,
		Year:           w.Year,
		SubmissionDate: w.SubmissionDate.Format(time.RFC3339),
	}
}
