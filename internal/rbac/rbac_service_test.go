package rbac_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/domain"
	"worksphere/internal/rbac"
	"worksphere/internal/rbac/infra"
)

type failingRepo struct{}

func (failingRepo) GetRolePermissions() ([]rbac.RolePermissionRow, error) {
	return nil, errors.New("policy store unavailable")
}

func newDefaultService(t *testing.T) rbac.Service {
	t.Helper()
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	return rbac.NewService(rbac.NewStaticRepository(rbac.DefaultRolePermissions()), e)
}

func TestService_Enforce_DefaultPolicy(t *testing.T) {
	svc := newDefaultService(t)

	cases := []struct {
		role     domain.Role
		resource string
		action   string
		want     bool
	}{
		{domain.RoleEmployee, rbac.ResourceWorksheet, rbac.ActionCreate, true},
		{domain.RoleEmployee, rbac.ResourcePaymentRequest, rbac.ActionPay, false},
		{domain.RoleEmployee, rbac.ResourcePayment, rbac.ActionReadAll, false},
		{domain.RoleHR, rbac.ResourcePaymentRequest, rbac.ActionPay, true},
		{domain.RoleHR, rbac.ResourceUser, rbac.ActionVerify, true},
		{domain.RoleHR, rbac.ResourceUser, rbac.ActionChangeRole, false},
		{domain.RoleHR, rbac.ResourceWorksheet, rbac.ActionCreate, false},
		{domain.RoleAdmin, rbac.ResourceUser, rbac.ActionChangeRole, true},
		{domain.RoleAdmin, rbac.ResourcePayment, rbac.ActionExport, true},
		{"Contractor", rbac.ResourceDashboard, rbac.ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role)+":"+tc.resource+":"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(rbac.EnforceRequest{Role: string(tc.role), Resource: tc.resource, Action: tc.action})
			require.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestService_PermissionsFor(t *testing.T) {
	svc := newDefaultService(t)

	perms := svc.PermissionsFor(string(domain.RoleEmployee))

	assert.Contains(t, perms, domain.PermissionResponse{Resource: rbac.ResourceWorksheet, Action: rbac.ActionCreate})
	assert.NotContains(t, perms, domain.PermissionResponse{Resource: rbac.ResourcePaymentRequest, Action: rbac.ActionPay})
	assert.Empty(t, svc.PermissionsFor("Nobody"))
}

func TestService_Enforce_RepositoryError(t *testing.T) {
	e, err := infra.NewEnforcer()
	require.NoError(t, err)
	svc := rbac.NewService(failingRepo{}, e)

	allowed, err := svc.Enforce(rbac.EnforceRequest{Role: "Admin", Resource: "user", Action: "read"})

	assert.Error(t, err)
	assert.False(t, allowed)
}
