package util

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{7.499999, 7.5},
		{3.0 / 4.0 * 10, 7.5},
		{1.0 / 3.0 * 10, 3.33},
		{2.0 / 3.0 * 10, 6.67},
		{0, 0},
		{10, 10},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Errorf("Round2(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestMustParseUint(t *testing.T) {
	if got := MustParseUint("42"); got != 42 {
		t.Errorf("MustParseUint(42) = %d", got)
	}
	if got := MustParseUint("abc"); got != 0 {
		t.Errorf("expected 0 for invalid input, got %d", got)
	}
}
