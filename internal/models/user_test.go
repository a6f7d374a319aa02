package models

import "testing"

// TestUserIsAdmin verifies that IsAdmin returns true only for the admin role.
func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "editor role", role: RoleEditor, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "uppercase ADMIN", role: Role("ADMIN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestUserRequires2FA(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	tests := []struct {
		name string
		user User
		want bool
	}{
		{"not enrolled", User{}, false},
		{"secret but not enabled", User{TOTPSecret: &secret}, false},
		{"enabled", User{TOTPSecret: &secret, TOTPEnabled: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Requires2FA(); got != tt.want {
				t.Errorf("Requires2FA: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserPublic(t *testing.T) {
	u := &User{ID: 9, Email: "a@b.c", PasswordHash: "hash", Role: RoleAdmin}
	p := u.Public()
	if p.ID != 9 || p.Email != "a@b.c" || p.Role != RoleAdmin {
		t.Errorf("Public: got %+v", p)
	}
}
