package montecarlo

import (
	"errors"
	"math"
	"testing"
)

func TestNewHistogram(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
		want   []Bin
	}{
		{
			name:   "two bins",
			values: []float64{0.001, 0.003, 0.0035},
			want:   []Bin{{0.001, 1.0 / 3}, {0.003, 2.0 / 3}},
		},
		{
			name:   "last bin is closed",
			values: []float64{0, 0.004},
			want:   []Bin{{0.001, 0.5}, {0.003, 0.5}},
		},
		{
			name:   "negative values",
			values: []float64{-0.003, -0.001, 0.001},
			want:   []Bin{{-0.003, 1.0 / 3}, {-0.001, 1.0 / 3}, {0.001, 1.0 / 3}},
		},
		{
			name:   "zero variance",
			values: []float64{0.05, 0.05, 0.05},
			want:   []Bin{{0.051, 1}},
		},
		{
			name:   "single value",
			values: []float64{0.0501},
			want:   []Bin{{0.051, 1}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewHistogram(tc.values, BinWidth)
			if err != nil {
				t.Fatalf("NewHistogram() unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("NewHistogram() = %v, want %v", got, tc.want)
			}
			for k := range got {
				if math.Abs(got[k].Center-tc.want[k].Center) > 1e-12 || math.Abs(got[k].Mass-tc.want[k].Mass) > 1e-12 {
					t.Errorf("bin %d = %+v, want %+v", k, got[k], tc.want[k])
				}
			}
		})
	}
}

func TestNewHistogram_MassSumsToOne(t *testing.T) {
	p := small()
	cagrs := CAGRs(mustSimulate(t, p).Terminal(), p.InitialCapital, p.HorizonYears)
	bins, err := NewHistogram(cagrs, BinWidth)
	if err != nil {
		t.Fatalf("NewHistogram() unexpected error: %v", err)
	}
	total := 0.0
	for k, b := range bins {
		total += b.Mass
		if k > 0 && math.Abs(b.Center-bins[k-1].Center-BinWidth) > 1e-12 {
			t.Errorf("bins %d and %d are not contiguous: %v, %v", k-1, k, bins[k-1].Center, b.Center)
		}
	}
	assertClose(t, "total mass", total, 1, 1e-9)
}

func TestNewHistogram_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		values []float64
		width  float64
	}{
		{"empty", nil, BinWidth},
		{"zero width", []float64{1}, 0},
		{"negative width", []float64{1}, -1},
		{"NaN width", []float64{1}, math.NaN()},
		{"NaN value", []float64{1, math.NaN()}, BinWidth},
		{"infinite value", []float64{math.Inf(-1)}, BinWidth},
	}
	for _, tc := range testCases {
		if _, err := NewHistogram(tc.values, tc.width); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("%s: NewHistogram() error = %v, want %v", tc.name, err, ErrInvalidParameter)
		}
	}
}
