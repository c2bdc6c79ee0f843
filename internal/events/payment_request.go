package events

import "time"

const PaymentRequestLifecycleTopic = "worksphere.payroll.payment-request.v1"

const (
	EventTypePaymentRequestCreated  = "payment_request.created"
	EventTypePaymentRequestApproved = "payment_request.approved"
	EventTypePaymentRequestRejected = "payment_request.rejected"
)

type PaymentRequestEvent struct {
	EventType        string    `json:"event_type"`
	PaymentRequestID string    `json:"payment_request_id"`
	EmployeeUID      string    `json:"employee_uid"`
	Amount           string    `json:"amount"`
	Month            string    `json:"month"`
	Year             int       `json:"year"`
	TransactionID    string    `json:"transaction_id,omitempty"`
	ProcessedBy      string    `json:"processed_by,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}
