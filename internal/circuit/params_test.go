package circuit

import (
	"errors"
	"math"
	"testing"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1.5707", 1.5707},
		{"-0.5", -0.5},
		{"0", 0},
		{"3.14e-2", 0.0314},
		{"pi", math.Pi},
		{"PI", math.Pi},
		{"pi/2", math.Pi / 2},
		{"pi/8", math.Pi / 8},
		{"2pi", 2 * math.Pi},
		{"3*pi/4", 3 * math.Pi / 4},
		{"-pi", -math.Pi},
		{"-3*pi/4", -3 * math.Pi / 4},
		{" pi / 2 ", math.Pi / 2},
	}
	for _, tt := range tests {
		got, err := ParseAngle(tt.input)
		if err != nil {
			t.Errorf("ParseAngle(%q): %v", tt.input, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("ParseAngle(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestParseAngleRejects(t *testing.T) {
	for _, input := range []string{"", "abc", "pi/0", "--pi", "2*", "inf", "pi/x"} {
		if _, err := ParseAngle(input); !errors.Is(err, ErrAngle) {
			t.Errorf("ParseAngle(%q): expected ErrAngle, got %v", input, err)
		}
	}
}

func TestFormatAngle(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{2 * math.Pi / 4, "pi/2"},
		{3 * math.Pi / 4, "3*pi/4"},
		{-math.Pi / 2, "-pi/2"},
		{2 * math.Pi, "2*pi"},
		{5 * math.Pi / 6, "5*pi/6"},
		{1.5, "1.5"},
		{0, "0"},
		{0.01, "0.01"},
	}
	for _, tt := range tests {
		if got := FormatAngle(tt.input); got != tt.want {
			t.Errorf("FormatAngle(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAngleRoundTrip(t *testing.T) {
	for _, v := range []float64{math.Pi / 3, -7 * math.Pi / 8, 0.125, 2.5} {
		got, err := ParseAngle(FormatAngle(v))
		if err != nil {
			t.Fatalf("ParseAngle(FormatAngle(%g)): %v", v, err)
		}
		if math.Abs(got-v) > 1e-10 {
			t.Errorf("round trip of %g gave %g", v, got)
		}
	}
}
