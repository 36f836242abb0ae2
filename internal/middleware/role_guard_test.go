package middleware

import (
	"testing"

	"gopts/internal/models"
)

func TestRoleAllowed(t *testing.T) {
	cases := []struct {
		name    string
		role    models.Role
		allowed []models.Role
		want    bool
	}{
		{"empty list accepts any registered role", models.RoleBuyer, nil, true},
		{"role in list", models.RoleManager, []models.Role{models.RoleManager, models.RoleAdmin}, true},
		{"role not in list", models.RoleBuyer, []models.Role{models.RoleManager, models.RoleAdmin}, false},
		{"admin not implicitly allowed", models.RoleAdmin, []models.Role{models.RoleManager}, false},
	}
	for _, tc := range cases {
		if got := roleAllowed(tc.role, tc.allowed); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
