package youtube

import "testing"

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"P1D", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := parseISODuration(tt.input); got != tt.want {
			t.Errorf("parseISODuration(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
