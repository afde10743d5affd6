package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampRange(t *testing.T) {
	cases := []struct {
		n, lo, hi, want int
	}{
		{5, 0, 10, 5},   // inside
		{-3, 0, 10, 0},  // below
		{99, 0, 10, 10}, // above
		{0, 0, 0, 0},    // degenerate interval
		{7, 7, 7, 7},    // boundary
	}
	for _, tc := range cases {
		if got := ClampRange(tc.n, tc.lo, tc.hi); got != tc.want {
			t.Fatalf("ClampRange(%d, %d, %d) = %d; want %d", tc.n, tc.lo, tc.hi, got, tc.want)
		}
	}
}
