package lifecycle

import "time"

type State string

const (
	StatePending              State = "Pending"
	StateAwaitingIntent       State = "AwaitingIntent"
	StateAwaitingConfirmation State = "AwaitingConfirmation"
	StateApproved             State = "Approved"
	StateRejected             State = "Rejected"
)

// Instance is the in-flight payment of one request. Only non-terminal
// states are stored; terminal state lives on the request row.
type Instance struct {
	RequestID     string    `json:"requestId"`
	State         State     `json:"state"`
	IntentID      string    `json:"intentId,omitempty"`
	ClientSecret  string    `json:"clientSecret,omitempty"`
	TransactionID string    `json:"transactionId,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func pendingInstance(requestID string) Instance {
	return Instance{RequestID: requestID, State: StatePending}
}

// Confirmed reports whether the gateway accepted a payment for this
// instance.
func (i Instance) Confirmed() bool {
	return i.TransactionID != ""
}

// reset drops the intent and returns the instance to Pending.
func (i Instance) reset() Instance {
	return pendingInstance(i.RequestID)
}
