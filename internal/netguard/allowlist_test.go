package netguard

import (
	"testing"
)

func TestNewAllowlist_InvalidEntry(t *testing.T) {
	if _, err := NewAllowlist([]string{"not-an-ip"}); err == nil {
		t.Error("NewAllowlist should reject unparseable entries")
	}
	if _, err := NewAllowlist([]string{"10.0.0.0/33"}); err == nil {
		t.Error("NewAllowlist should reject invalid prefix lengths")
	}
}

func TestIsAllowed(t *testing.T) {
	a, err := NewAllowlist([]string{"127.0.0.1", "10.0.0.0/8", "192.168.49.0/24"})
	if err != nil {
		t.Fatalf("NewAllowlist: %v", err)
	}
	cases := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1", true},
		{"127.0.0.2", false},
		{"10.128.0.7", true},
		{"11.0.0.1", false},
		{"192.168.49.10", true},
		{"192.168.50.10", false},
		{"::ffff:10.0.0.1", true}, // mapped v4 unwraps before matching
		{"garbage", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := a.IsAllowed(tc.addr); got != tc.want {
			t.Errorf("IsAllowed(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestIsAllowed_EmptyAllowlist(t *testing.T) {
	a, err := NewAllowlist(nil)
	if err != nil {
		t.Fatalf("NewAllowlist: %v", err)
	}
	if a.IsAllowed("127.0.0.1") {
		t.Error("empty allowlist should deny everything")
	}
}
