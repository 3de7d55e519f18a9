package service

import "testing"

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{7.5, 7.5},
		{7.504, 7.5},
		{7.506, 7.51},
		{3.24999, 3.25},
		{0, 0},
		{10.749999999999998, 10.75},
	}
	for _, tc := range cases {
		if got := RoundMoney(tc.in); got != tc.want {
			t.Fatalf("RoundMoney(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
