package dashboard

import "github.com/shopspring/decimal"

// Point is one bucket of a chart series.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Aggregates holds every dashboard figure for one scope. It is what the
// cache stores; responses are projected from it per role.
type Aggregates struct {
	WorksheetEntries  int64            `json:"worksheetEntries"`
	HoursLogged       decimal.Decimal  `json:"hoursLogged"`
	PaymentsReceived  int64            `json:"paymentsReceived"`
	AmountPaid        decimal.Decimal  `json:"amountPaid"`
	TotalEmployees    int64            `json:"totalEmployees"`
	VerifiedEmployees int64            `json:"verifiedEmployees"`
	RequestsByStatus  map[string]int64 `json:"requestsByStatus"`
	UsersByRole       map[string]int64 `json:"usersByRole"`
	HoursByMonth      []Point          `json:"hoursByMonth"`
	PaymentsByMonth   []Point          `json:"paymentsByMonth"`
}

type StatsResponse struct {
	Role       string      `json:"role"`
	Scope      string      `json:"scope"`
	Stats      StatsBlock  `json:"stats"`
	Charts     ChartsBlock `json:"charts"`
	QuickLinks []QuickLink `json:"quickLinks"`
}

// StatsBlock fields are nil when the role may not see them.
type StatsBlock struct {
	WorksheetEntries  *int64           `json:"worksheetEntries,omitempty"`
	HoursLogged       *decimal.Decimal `json:"hoursLogged,omitempty"`
	PaymentsReceived  *int64           `json:"paymentsReceived,omitempty"`
	AmountPaid        *decimal.Decimal `json:"amountPaid,omitempty"`
	TotalEmployees    *int64           `json:"totalEmployees,omitempty"`
	VerifiedEmployees *int64           `json:"verifiedEmployees,omitempty"`
	PendingRequests   *int64           `json:"pendingRequests,omitempty"`
	ApprovedRequests  *int64           `json:"approvedRequests,omitempty"`
	RejectedRequests  *int64           `json:"rejectedRequests,omitempty"`
	TotalUsers        *int64           `json:"totalUsers,omitempty"`
	TotalHR           *int64           `json:"totalHR,omitempty"`
}

type ChartsBlock struct {
	HoursByMonth     []Point `json:"hoursByMonth,omitempty"`
	PaymentsByMonth  []Point `json:"paymentsByMonth,omitempty"`
	RequestsByStatus []Point `json:"requestsByStatus,omitempty"`
	UsersByRole      []Point `json:"usersByRole,omitempty"`
}
