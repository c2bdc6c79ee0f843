package lifecycle

import (
	"github.com/shopspring/decimal"

	"worksphere/internal/gateway"
)

type CreateIntentRequest struct {
	Amount  *decimal.Decimal `json:"amount" binding:"required"`
	OrderID string           `json:"orderId" binding:"required,uuid"`
	UserID  string           `json:"userId" binding:"required"`
}

type IntentResponse struct {
	RequestID    string          `json:"requestId"`
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
}

type ConfirmPaymentRequest struct {
	ClientSecret    string           `json:"clientSecret" binding:"required"`
	PaymentMethodID string           `json:"paymentMethodId" binding:"required"`
	Billing         *gateway.Billing `json:"billing"`
}

type ConfirmPaymentResponse struct {
	RequestID     string `json:"requestId"`
	TransactionID string `json:"transactionId"`
}

type StatusResponse struct {
	RequestID     string   `json:"requestId"`
	Status        string   `json:"status"`
	State         State    `json:"state"`
	TransactionID string   `json:"transactionId,omitempty"`
	Actions       []string `json:"actions"`
}
