package payment

import "github.com/shopspring/decimal"

type Filter struct {
	UID   string
	Email string
	Month string
	Year  int
}

type PaymentResponse struct {
	ID               string          `json:"id"`
	PaymentRequestID string          `json:"paymentRequestId"`
	EmployeeUID      string          `json:"uid"`
	EmployeeEmail    string          `json:"email"`
	EmployeeName     string          `json:"name"`
	Month            string          `json:"month"`
	Year             int             `json:"year"`
	Amount           decimal.Decimal `json:"amount"`
	TransactionID    string          `json:"transactionId"`
	ReceiptNo        string          `json:"receipt_no"`
	PaymentDate      string          `json:"payment_date"`
}

func (r PaymentResponse) PeriodMonth() string { return r.Month }
func (r PaymentResponse) PeriodYear() int     { return r.Year }
