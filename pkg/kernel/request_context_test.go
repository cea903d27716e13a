package kernel_test

import (
	"testing"

	"github.com/prapeller/api-auth/pkg/kernel"
)

func TestHasPermissionExactMatch(t *testing.T) {
	ac := kernel.AuthContext{Permissions: []string{"read_content_free"}}
	if !ac.HasPermission("read_content_free") {
		t.Fatal("expected exact permission match to succeed")
	}
	if ac.HasPermission("delete_content") {
		t.Fatal("expected unrelated permission to be denied")
	}
}

func TestHasPermissionWildcard(t *testing.T) {
	ac := kernel.AuthContext{Permissions: []string{"all_of_all"}}
	if !ac.HasPermission("delete_content") {
		t.Fatal("expected all_of_all to grant any permission")
	}
	if !ac.HasPermission("anything_at_all") {
		t.Fatal("expected all_of_all to grant any permission name")
	}
}
