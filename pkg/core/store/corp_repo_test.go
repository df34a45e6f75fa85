package store

import "testing"

func TestNormalizeStockCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"005930", "005930", true},
		{"5930", "005930", true},
		{" 000660 ", "000660", true},
		{"035420.KS", "035420", true},
		{"", "", false},
		{"   ", "", false},
		{"EMPTY", "", false},
		{"empty", "", false},
		{"000000", "", false},
		{"ABCDEF", "", false},
		{"1234567", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeStockCode(tc.in)
		if ok != tc.ok {
			t.Errorf("NormalizeStockCode(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeStockCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
