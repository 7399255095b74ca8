package models

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"client", RoleClient},
		{"service-provider", RoleProvider},
		{"service_provider", RoleProvider},
		{"provider", RoleProvider},
		{"admin", RoleAdmin},
		{"", RoleUnknown},
		{"superuser", RoleUnknown},
	}
	for _, tc := range cases {
		if got := NormalizeRole(tc.in); got != tc.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUserRoleName(t *testing.T) {
	u := User{Role: Role{Name: "service_provider"}}
	if got := u.RoleName(); got != RoleProvider {
		t.Errorf("RoleName() = %q, want %q", got, RoleProvider)
	}
}

func TestReviewRatingClamp(t *testing.T) {
	r := Review{Rating: 7}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if r.Rating != 5 {
		t.Errorf("Rating = %v, want clamped to 5", r.Rating)
	}

	r = Review{Rating: 0}
	if err := r.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate: %v", err)
	}
	if r.Rating != 1 {
		t.Errorf("Rating = %v, want clamped to 1", r.Rating)
	}
}
