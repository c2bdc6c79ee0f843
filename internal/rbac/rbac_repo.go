package rbac

import "worksphere/internal/domain"

// Resources guarded by RBACAuthorize.
const (
	ResourceUser           = "user"
	ResourceProfile        = "profile"
	ResourceWorksheet      = "worksheet"
	ResourcePayment        = "payment"
	ResourcePaymentRequest = "payment-request"
	ResourceDashboard      = "dashboard"
)

// Actions guarded by RBACAuthorize.
const (
	ActionRead            = "read"
	ActionReadAll         = "read-all"
	ActionCreate          = "create"
	ActionUpdate          = "update"
	ActionDelete          = "delete"
	ActionVerify          = "verify"
	ActionChangeRole      = "change-role"
	ActionWorksheetStatus = "worksheet-status"
	ActionExport          = "export"
	ActionPay             = "pay"
	ActionReject          = "reject"
)

type RolePermissionRow struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions() ([]RolePermissionRow, error)
}

type staticRepository struct {
	rows []RolePermissionRow
}

// NewStaticRepository serves a fixed role/permission table. WorkSphere roles
// are not user-editable, so the table ships with the binary.
func NewStaticRepository(rows []RolePermissionRow) Repository {
	return &staticRepository{rows: rows}
}

func (r *staticRepository) GetRolePermissions() ([]RolePermissionRow, error) {
	out := make([]RolePermissionRow, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func grant(role domain.Role, resource string, actions ...string) []RolePermissionRow {
	rows := make([]RolePermissionRow, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, RolePermissionRow{Role: string(role), Resource: resource, Action: a})
	}
	return rows
}

// DefaultRolePermissions is the WorkSphere access table.
func DefaultRolePermissions() []RolePermissionRow {
	var rows []RolePermissionRow

	rows = append(rows, grant(domain.RoleEmployee, ResourceProfile, ActionRead, ActionUpdate)...)
	rows = append(rows, grant(domain.RoleEmployee, ResourceWorksheet, ActionRead, ActionCreate, ActionUpdate, ActionDelete)...)
	rows = append(rows, grant(domain.RoleEmployee, ResourcePayment, ActionRead)...)
	rows = append(rows, grant(domain.RoleEmployee, ResourceDashboard, ActionRead)...)

	rows = append(rows, grant(domain.RoleHR, ResourceProfile, ActionRead, ActionUpdate)...)
	rows = append(rows, grant(domain.RoleHR, ResourceUser, ActionRead, ActionVerify)...)
	rows = append(rows, grant(domain.RoleHR, ResourceWorksheet, ActionRead, ActionReadAll)...)
	rows = append(rows, grant(domain.RoleHR, ResourcePayment, ActionRead, ActionReadAll)...)
	rows = append(rows, grant(domain.RoleHR, ResourcePaymentRequest, ActionRead, ActionCreate, ActionPay, ActionReject)...)
	rows = append(rows, grant(domain.RoleHR, ResourceDashboard, ActionRead)...)

	rows = append(rows, grant(domain.RoleAdmin, ResourceProfile, ActionRead, ActionUpdate)...)
	rows = append(rows, grant(domain.RoleAdmin, ResourceUser, ActionRead, ActionVerify, ActionChangeRole, ActionWorksheetStatus, ActionDelete)...)
	rows = append(rows, grant(domain.RoleAdmin, ResourceWorksheet, ActionRead, ActionReadAll)...)
	rows = append(rows, grant(domain.RoleAdmin, ResourcePayment, ActionRead, ActionReadAll, ActionExport)...)
	rows = append(rows, grant(domain.RoleAdmin, ResourcePaymentRequest, ActionRead, ActionCreate, ActionPay, ActionReject)...)
	rows = append(rows, grant(domain.RoleAdmin, ResourceDashboard, ActionRead)...)

	return rows
}
