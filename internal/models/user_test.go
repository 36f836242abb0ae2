package models

import "testing"

func TestParseRole(t *testing.T) {
	for _, value := range []string{"buyer", "manager", "admin"} {
		role, err := ParseRole(value)
		if err != nil {
			t.Errorf("%q: %v", value, err)
		}
		if string(role) != value {
			t.Errorf("%q: got %q", value, role)
		}
	}

	for _, value := range []string{"", "Admin", "superuser", "BUYER"} {
		if _, err := ParseRole(value); err == nil {
			t.Errorf("%q: expected error", value)
		}
	}
}
