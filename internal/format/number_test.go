package format

import "testing"

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		prefix string
		want   string
	}{
		{"zero", 0, "", "0.00 "},
		{"bare unit", 500, "", "500.00 "},
		{"just below thousand", 999.994, "", "999.99 "},
		{"thousands", 1500, "", "1.50 mil"},
		{"exactly thousand", 1000, "", "1.00 mil"},
		{"millions", 1_500_000, "", "1.50 milhões"},
		{"no tier above millions", 2_500_000_000, "", "2500.00 milhões"},
		{"currency prefix", 450, "R$", "R$ 450.00 "},
		{"currency thousands", 12_345.678, "R$", "R$ 12.35 mil"},
		{"currency millions", 3_210_000, "R$", "R$ 3.21 milhões"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.value, tt.prefix); got != tt.want {
				t.Errorf("Number(%v, %q) = %q, want %q", tt.value, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	if got := Count(3); got != "3.00 " {
		t.Errorf("Count(3) = %q, want %q", got, "3.00 ")
	}
	if got := Count(9_120); got != "9.12 mil" {
		t.Errorf("Count(9120) = %q, want %q", got, "9.12 mil")
	}
}

func BenchmarkNumber(b *testing.B) {
	for b.Loop() {
		_ = Number(1_234_567.89, "R$")
	}
}
