package rbac_test

import (
	"testing"

	"github.com/prapeller/api-auth/pkg/iam/rbac"
)

func TestDefaultRolePermissionsCoversEveryRole(t *testing.T) {
	for _, role := range rbac.AllRoles {
		perms, ok := rbac.DefaultRolePermissions[role]
		if !ok {
			t.Fatalf("role %q has no entry in DefaultRolePermissions", role)
		}
		if len(perms) == 0 {
			t.Fatalf("role %q seeds zero permissions", role)
		}
	}
}

func TestDefaultRolePermissionsOnlyUsesEnumeratedNames(t *testing.T) {
	known := map[rbac.PermissionName]bool{}
	for _, p := range rbac.AllPermissions {
		known[p] = true
	}
	for role, perms := range rbac.DefaultRolePermissions {
		for _, p := range perms {
			if !known[p] {
				t.Fatalf("role %q seeds unenumerated permission %q", role, p)
			}
		}
	}
}

func TestSuperuserCarriesOnlyTheWildcard(t *testing.T) {
	perms := rbac.DefaultRolePermissions[rbac.RoleSuperuser]
	if len(perms) != 1 || perms[0] != rbac.PermissionAllOfAll {
		t.Fatalf("expected superuser to carry only all_of_all, got %v", perms)
	}
}
