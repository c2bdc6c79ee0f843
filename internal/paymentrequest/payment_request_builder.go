package paymentrequest

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"worksphere/internal/domain"
	paymentrequesterrors "worksphere/internal/paymentrequest/errors"
	"worksphere/internal/session"
	"worksphere/internal/shared/period"
	"worksphere/internal/user"
)

type BuildInput struct {
	Amount decimal.Decimal
	Month  string
	Year   int
}

// Builder shapes a pending PaymentRequest. It never touches storage, so
// every refusal happens before anything is written.
type Builder struct {
	now func() time.Time
}

func NewBuilder(now func() time.Time) Builder {
	if now == nil {
		now = time.Now
	}
	return Builder{now: now}
}

func (b Builder) Build(employee *user.User, actor session.Session, in BuildInput) (*PaymentRequest, error) {
	if !actor.IsPrivileged() {
		return nil, paymentrequesterrors.ErrActorNotPrivileged
	}
	if employee == nil {
		return nil, paymentrequesterrors.ErrEmployeeNotFound
	}
	if employee.Role != string(domain.RoleEmployee) {
		return nil, paymentrequesterrors.ErrEmployeeOnlyPayee
	}
	if !employee.IsVerified {
		return nil, paymentrequesterrors.ErrNotVerified
	}

	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, paymentrequesterrors.ErrInvalidAmount
	}
	if !period.IsValidMonth(in.Month) {
		return nil, paymentrequesterrors.ErrInvalidMonth
	}
	now := b.now().UTC()
	if !period.IsYearInWindow(in.Year, now) {
		return nil, paymentrequesterrors.ErrYearOutOfRange
	}

	return &PaymentRequest{
		ID:               uuid.New(),
		EmployeeID:       employee.ID,
		EmployeeUID:      employee.UID,
		EmployeeEmail:    employee.Email,
		EmployeeName:     employee.Name,
		Amount:           amount,
		Month:            period.Normalize(in.Month),
		Year:             in.Year,
		RequestDate:      now,
		Status:           StatusPending,
		RequestedBy:      strings.ToLower(actor.Email),
		EmployeeVerified: true,
	}, nil
}
