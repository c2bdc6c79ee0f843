package paymentrequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Actions a caller may take on a request row.
const (
	ActionPay    = "pay"
	ActionReject = "reject"
)

// PeriodIndexName is the partial unique index allowing one non-rejected
// request per employee and period.
const PeriodIndexName = "uq_payment_request_period"

type PaymentRequest struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index"`
	EmployeeUID   string          `gorm:"column:employee_uid;type:varchar(128);not null;index"`
	EmployeeEmail string          `gorm:"column:employee_email;type:text;not null"`
	EmployeeName  string          `gorm:"column:employee_name;type:varchar(255)"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Month         string          `gorm:"column:month;type:varchar(10);not null"`
	Year          int             `gorm:"column:year;not null"`
	RequestDate   time.Time       `gorm:"column:request_date;not null"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:pending;index"`
	RequestedBy   string          `gorm:"column:requested_by;type:text;not null"`
	TransactionID *string         `gorm:"column:transaction_id;type:varchar(255)"`
	ProcessedBy   *string         `gorm:"column:processed_by;type:text"`
	ProcessedAt   *time.Time      `gorm:"column:processed_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	// ConfirmedTransactionID is the gateway transaction of a payment that
	// was charged but not yet approved.
	ConfirmedTransactionID *string `gorm:"column:confirmed_transaction_id;type:varchar(255)"`

	// EmployeeVerified is read from users at query time.
	EmployeeVerified bool `gorm:"column:employee_verified;->;-:migration"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}

func (p PaymentRequest) IsTerminal() bool {
	return p.Status == StatusApproved || p.Status == StatusRejected
}

// Actions lists what may still be done with the request. Terminal requests
// have none, and an unverified employee cannot be paid.
func (p PaymentRequest) Actions() []string {
	if p.Status != StatusPending {
		return []string{}
	}
	if !p.EmployeeVerified {
		return []string{ActionReject}
	}
	return []string{ActionPay, ActionReject}
}
