package dashboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksphere/internal/dashboard"
	dashboarderrors "worksphere/internal/dashboard/errors"
	"worksphere/internal/domain"
)

func TestFor_RolesNest(t *testing.T) {
	employee, err := dashboard.For(domain.RoleEmployee)
	require.NoError(t, err)
	hr, err := dashboard.For(domain.RoleHR)
	require.NoError(t, err)
	admin, err := dashboard.For(domain.RoleAdmin)
	require.NoError(t, err)

	assert.True(t, hr.Covers(employee))
	assert.True(t, admin.Covers(hr))
	assert.True(t, admin.Covers(employee))

	assert.False(t, employee.Covers(hr))
	assert.False(t, hr.Covers(admin))
	assert.Greater(t, len(admin.Stats), len(hr.Stats))
}

func TestFor_EmployeeIsSelfScoped(t *testing.T) {
	employee, _ := dashboard.For(domain.RoleEmployee)
	hr, _ := dashboard.For(domain.RoleHR)

	assert.True(t, employee.SelfScoped)
	assert.False(t, hr.SelfScoped)
	assert.False(t, employee.HasStat(dashboard.StatPendingRequests))
	assert.False(t, employee.HasChart(dashboard.ChartUsersByRole))
}

func TestFor_UnknownRoleIsDenied(t *testing.T) {
	for _, role := range []domain.Role{"", "Manager", "admin"} {
		_, err := dashboard.For(role)
		assert.ErrorIs(t, err, dashboarderrors.ErrAccessDenied, "role %q", role)
	}
}
