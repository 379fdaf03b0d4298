package extraction

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+971 50 123-4567", "+971501234567"},
		{"  04 123 4567  ", "041234567"},
		{"+971501234567", "+971501234567"},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikePhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+971501234567", true},
		{"971 50 123 4567", true},
		{"12345", false},                   // too short
		{"123456789012345678901", false},   // too many digits
		{"call me maybe", false},           // not a number
		{"+9715O1234567", false},           // letter O
		{"2024-01-15T10:00:00", false},     // timestamp
	}
	for _, tt := range tests {
		if got := LooksLikePhone(tt.in); got != tt.want {
			t.Fatalf("LooksLikePhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSameNumber(t *testing.T) {
	if !SameNumber("+971 50 123 4567", "971501234567") {
		t.Fatal("formatting differences should not matter")
	}
	if SameNumber("+971501234567", "+971501234568") {
		t.Fatal("different numbers reported equal")
	}
	if SameNumber("", "") {
		t.Fatal("empty strings must not compare equal")
	}
}
