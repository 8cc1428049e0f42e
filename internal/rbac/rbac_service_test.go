package rbac_test

import (
	"testing"

	"github.com/dashpratyush277/hrms-1/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestService_Enforce(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	cases := []struct {
		name     string
		role     string
		resource string
		action   string
		allowed  bool
	}{
		{"employee reads leave", "EMPLOYEE", "leave", "read", true},
		{"employee creates leave", "EMPLOYEE", "leave", "create", true},
		{"employee cannot approve", "EMPLOYEE", "leave", "approve", false},
		{"employee cannot manage config", "EMPLOYEE", "leave_config", "manage", false},
		{"manager approves leave", "MANAGER", "leave", "approve", true},
		{"manager inherits employee grants", "MANAGER", "leave", "create", true},
		{"manager cannot manage config", "MANAGER", "leave_config", "manage", false},
		{"hr admin manages config", "HR_ADMIN", "leave_config", "manage", true},
		{"hr admin inherits approve", "HR_ADMIN", "leave", "approve", true},
		{"tenant admin inherits everything", "TENANT_ADMIN", "leave_config", "manage", true},
		{"tenant admin reads leave", "TENANT_ADMIN", "leave", "read", true},
		{"unknown role has nothing", "CONTRACTOR", "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := svc.Enforce(tc.role, tc.resource, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}
