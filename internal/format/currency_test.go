package format

import (
	"math"
	"testing"
)

func TestVND(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 ₫"},
		{999, "999 ₫"},
		{19750, "19.750 ₫"},
		{18000.4, "18.000 ₫"},
		{18000.5, "18.001 ₫"},
		{1234567, "1.234.567 ₫"},
		{-25000, "-25.000 ₫"},
	}

	for _, tt := range tests {
		if got := VND(tt.in); got != tt.want {
			t.Errorf("VND(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKm(t *testing.T) {
	tests := map[float64]string{
		0:     "0.0 km",
		2.5:   "2.5 km",
		12.34: "12.3 km",
		3:     "3.0 km",
	}

	for in, want := range tests {
		if got := Km(in); got != want {
			t.Errorf("Km(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestASCII(t *testing.T) {
	tests := map[string]string{
		"Vận Chuyển Trường Duy": "Van Chuyen Truong Duy",
		"Đường Điện Biên Phủ":   "Duong Dien Bien Phu",
		"19.750 ₫":              "19.750 VND",
		"plain":                 "plain",
	}
	for in, want := range tests {
		if got := ASCII(in); got != want {
			t.Errorf("ASCII(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNonFiniteAmounts(t *testing.T) {
	for _, in := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if got := VND(in); got != "n/a" {
			t.Errorf("VND(%v) = %q, want n/a", in, got)
		}
		if got := Km(in); got != "n/a" {
			t.Errorf("Km(%v) = %q, want n/a", in, got)
		}
		if got := RoundVND(in); got != 0 {
			t.Errorf("RoundVND(%v) = %d, want 0", in, got)
		}
	}
}
