package montecarlo

import (
	"math"
	"testing"
)

// seed is a helper for tests to get a pointer to a seed.
func seed(v uint64) *uint64 { return &v }

// reference returns the parameters of the reference scenario.
func reference() Parameters {
	return Parameters{
		InitialCapital:       400_000,
		ExpectedAnnualReturn: 0.0523,
		AnnualVolatility:     0.0695,
		HorizonYears:         30,
		PathCount:            10_000,
		Seed:                 seed(42),
	}
}

// small returns quick to simulate parameters.
func small() Parameters {
	return Parameters{
		InitialCapital:       1000,
		ExpectedAnnualReturn: 0.05,
		AnnualVolatility:     0.15,
		HorizonYears:         5,
		PathCount:            200,
		Seed:                 seed(7),
	}
}

// assertClose fails if got and want differ by more than a relative tolerance.
func assertClose(t *testing.T, name string, got, want, tolerance float64) {
	t.Helper()
	diff := math.Abs(got - want)
	if scale := math.Abs(want); scale > 1 {
		diff /= scale
	}
	if diff > tolerance || math.IsNaN(got) {
		t.Errorf("%s = %v, want %v (tolerance %v)", name, got, want, tolerance)
	}
}

func mustSimulate(t *testing.T, p Parameters) *Paths {
	t.Helper()
	paths, err := Simulate(p)
	if err != nil {
		t.Fatalf("Simulate(%+v) unexpected error: %v", p, err)
	}
	return paths
}
