package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is the settled record of an approved payment request. Rows are
// never updated or deleted.
type Payment struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	PaymentRequestID uuid.UUID       `gorm:"column:payment_request_id;type:uuid;not null;uniqueIndex:uq_payments_request"`
	EmployeeID       uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index"`
	EmployeeUID      string          `gorm:"column:employee_uid;type:varchar(128);not null;index:idx_payments_uid_period,priority:1"`
	EmployeeEmail    string          `gorm:"column:employee_email;type:text;not null"`
	EmployeeName     string          `gorm:"column:employee_name;type:varchar(255)"`
	Month            string          `gorm:"column:month;type:varchar(10);not null;index:idx_payments_uid_period,priority:3"`
	Year             int             `gorm:"column:year;not null;index:idx_payments_uid_period,priority:2"`
	Amount           decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	TransactionID    string          `gorm:"column:transaction_id;type:varchar(255);not null;uniqueIndex:uq_payments_transaction"`
	ReceiptNo        string          `gorm:"column:receipt_no;type:varchar(32);not null;uniqueIndex:uq_payments_receipt"`
	PaymentDate      time.Time       `gorm:"column:payment_date;not null"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
