package paymentrequest

import "github.com/shopspring/decimal"

type CreatePaymentRequestRequest struct {
	EmployeeID string           `json:"employeeId" binding:"required,uuid"`
	Amount     *decimal.Decimal `json:"amount" binding:"required"`
	Month      string           `json:"month" binding:"required,month"`
	Year       int              `json:"year" binding:"required"`
}

type ApproveRequest struct {
	TransactionID string `json:"transactionId" binding:"required,max=255"`
}

type RejectRequest struct {
	Confirmed bool `json:"confirmed"`
}

type ListFilter struct {
	Status string
	UID    string
}

func (f ListFilter) pendingOnly() bool {
	return f.Status == StatusPending && f.UID == ""
}

type PaymentRequestResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employeeId"`
	EmployeeUID      string          `json:"uid"`
	EmployeeEmail    string          `json:"email"`
	EmployeeName     string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	Month            string          `json:"month"`
	Year             int             `json:"year"`
	RequestDate      string          `json:"requestDate"`
	Status           string          `json:"status"`
	RequestedBy      string          `json:"requestedBy"`
	TransactionID    *string         `json:"transactionId,omitempty"`
	ProcessedBy      *string         `json:"processedBy,omitempty"`
	ProcessedAt      *string         `json:"processedAt,omitempty"`
	EmployeeVerified bool            `json:"isVerified"`
	Actions          []string        `json:"actions"`
}

func (r PaymentRequestResponse) PeriodMonth() string { return r.Month }
func (r PaymentRequestResponse) PeriodYear() int     { return r.Year }
