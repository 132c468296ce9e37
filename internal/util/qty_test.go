package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		fallback int
		want     int
	}{
		{name: "plain", input: "3", fallback: 1, want: 3},
		{name: "trailing text", input: "3 pcs", fallback: 1, want: 3},
		{name: "padded", input: " 12 ", fallback: 0, want: 12},
		{name: "empty falls back", input: "", fallback: 1, want: 1},
		{name: "empty falls back to zero", input: "", fallback: 0, want: 0},
		{name: "garbage falls back", input: "abc", fallback: 1, want: 1},
		{name: "zero falls back", input: "0", fallback: 1, want: 1},
		{name: "negative", input: "-2", fallback: 1, want: -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseIntDefault(tc.input, tc.fallback); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestUnitCount(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{input: "4", want: 4},
		{input: "", want: 1},
		{input: "0", want: 1},
		{input: "-3", want: 1},
		{input: "2 units", want: 2},
	}

	for _, tc := range cases {
		if got := UnitCount(tc.input); got != tc.want {
			t.Fatalf("UnitCount(%q) = %d want %d", tc.input, got, tc.want)
		}
	}
}
