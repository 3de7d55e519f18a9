package repository

import "testing"

func TestNextAutoName(t *testing.T) {
	cases := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty", nil, "PC-1"},
		{"first gap", []string{"PC-1", "PC-3"}, "PC-2"},
		{"no gap", []string{"PC-1", "PC-2", "PC-3"}, "PC-4"},
		{"gap at one", []string{"PC-2", "PC-3"}, "PC-1"},
		{"zero padded", []string{"PC-01", "PC-02"}, "PC-3"},
		{"foreign names ignored", []string{"front-desk", "PC-1"}, "PC-2"},
		{"unordered", []string{"PC-5", "PC-1", "PC-2"}, "PC-3"},
		{"duplicates", []string{"PC-1", "PC-1", "PC-2"}, "PC-3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := nextAutoName(tc.existing); got != tc.want {
				t.Fatalf("nextAutoName(%v) = %q, want %q", tc.existing, got, tc.want)
			}
		})
	}
}
