package dashboard

import (
	"slices"

	dashboarderrors "worksphere/internal/dashboard/errors"
	"worksphere/internal/domain"
)

type Stat string

const (
	StatWorksheetEntries  Stat = "worksheetEntries"
	StatHoursLogged       Stat = "hoursLogged"
	StatPaymentsReceived  Stat = "paymentsReceived"
	StatAmountPaid        Stat = "amountPaid"
	StatTotalEmployees    Stat = "totalEmployees"
	StatVerifiedEmployees Stat = "verifiedEmployees"
	StatPendingRequests   Stat = "pendingRequests"
	StatApprovedRequests  Stat = "approvedRequests"
	StatRejectedRequests  Stat = "rejectedRequests"
	StatTotalUsers        Stat = "totalUsers"
	StatTotalHR           Stat = "totalHR"
)

type QuickLink string

const (
	LinkWorksheet       QuickLink = "worksheet"
	LinkPaymentHistory  QuickLink = "payment-history"
	LinkProfile         QuickLink = "profile"
	LinkEmployeeList    QuickLink = "employee-list"
	LinkProgress        QuickLink = "progress"
	LinkPaymentRequests QuickLink = "payment-requests"
	LinkAllPayments     QuickLink = "all-payments"
	LinkAllEmployees    QuickLink = "all-employees"
)

type Chart string

const (
	ChartHoursByMonth     Chart = "hoursByMonth"
	ChartPaymentsByMonth  Chart = "paymentsByMonth"
	ChartRequestsByStatus Chart = "requestsByStatus"
	ChartUsersByRole      Chart = "usersByRole"
)

// Capabilities is what one role may see on the dashboard.
type Capabilities struct {
	Role       domain.Role `json:"role"`
	Stats      []Stat      `json:"stats"`
	QuickLinks []QuickLink `json:"quickLinks"`
	Charts     []Chart     `json:"charts"`
	// SelfScoped restricts every figure to the caller's own records.
	SelfScoped bool `json:"selfScoped"`
}

func employeeCapabilities() Capabilities {
	return Capabilities{
		Role:       domain.RoleEmployee,
		Stats:      []Stat{StatWorksheetEntries, StatHoursLogged, StatPaymentsReceived, StatAmountPaid},
		QuickLinks: []QuickLink{LinkWorksheet, LinkPaymentHistory, LinkProfile},
		Charts:     []Chart{ChartHoursByMonth, ChartPaymentsByMonth},
		SelfScoped: true,
	}
}

// Each role extends the one below it.
func hrCapabilities() Capabilities {
	c := employeeCapabilities()
	c.Role = domain.RoleHR
	c.SelfScoped = false
	c.Stats = append(c.Stats, StatTotalEmployees, StatVerifiedEmployees, StatPendingRequests, StatApprovedRequests, StatRejectedRequests)
	c.QuickLinks = append(c.QuickLinks, LinkEmployeeList, LinkProgress, LinkPaymentRequests, LinkAllPayments)
	c.Charts = append(c.Charts, ChartRequestsByStatus)
	return c
}

func adminCapabilities() Capabilities {
	c := hrCapabilities()
	c.Role = domain.RoleAdmin
	c.Stats = append(c.Stats, StatTotalUsers, StatTotalHR)
	c.QuickLinks = append(c.QuickLinks, LinkAllEmployees)
	c.Charts = append(c.Charts, ChartUsersByRole)
	return c
}

// For maps a role to its capabilities. Unknown or empty roles are denied.
func For(role domain.Role) (Capabilities, error) {
	switch role {
	case domain.RoleEmployee:
		return employeeCapabilities(), nil
	case domain.RoleHR:
		return hrCapabilities(), nil
	case domain.RoleAdmin:
		return adminCapabilities(), nil
	}
	return Capabilities{}, dashboarderrors.ErrAccessDenied
}

func (c Capabilities) HasStat(s Stat) bool {
	return slices.Contains(c.Stats, s)
}

func (c Capabilities) HasChart(ch Chart) bool {
	return slices.Contains(c.Charts, ch)
}

// Covers reports whether c grants everything other grants.
func (c Capabilities) Covers(other Capabilities) bool {
	for _, s := range other.Stats {
		if !c.HasStat(s) {
			return false
		}
	}
	for _, ch := range other.Charts {
		if !c.HasChart(ch) {
			return false
		}
	}
	for _, l := range other.QuickLinks {
		if !slices.Contains(c.QuickLinks, l) {
			return false
		}
	}
	return true
}
