package montecarlo

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Paths is the matrix of simulated capital trajectories together with its time
// axis. Row i is the trajectory of path i, column j is the capital after j
// months. Column 0 is the initial capital for every path.
//
// Paths are read only once generated.
type Paths struct {
	Seed  uint64    // seed that generated the matrix
	Steps int       // number of monthly steps, the matrix has Steps+1 columns
	Time  []float64 // time of each column in years, from 0 to the horizon

	count  int
	values []float64 // row major, count × (Steps+1)
}

// Len returns the number of paths.
func (p *Paths) Len() int { return p.count }

// Path returns the trajectory of the i-th path. The returned slice shares the
// matrix storage and must not be modified.
func (p *Paths) Path(i int) []float64 {
	w := p.Steps + 1
	return p.values[i*w : (i+1)*w : (i+1)*w]
}

// At returns the capital of path i at step j.
func (p *Paths) At(i, j int) float64 { return p.values[i*(p.Steps+1)+j] }

// Column copies the capital of every path at step j into dst, and returns it.
// dst is grown if needed.
func (p *Paths) Column(j int, dst []float64) []float64 {
	if cap(dst) < p.count {
		dst = make([]float64, p.count)
	}
	dst = dst[:p.count]
	w := p.Steps + 1
	for i := range dst {
		dst[i] = p.values[i*w+j]
	}
	return dst
}

// Terminal returns a copy of the final column: one terminal value per path.
func (p *Paths) Terminal() []float64 { return p.Column(p.Steps, nil) }

// Simulate generates the capital trajectories of a Geometric Brownian Motion.
//
// Each monthly step adds the log-return (μ - σ²/2)·dt + σ·√dt·Z, where Z is a
// standard normal shock. Path i draws its shocks from its own PCG stream
// seeded by pathSource(seed, i), so that paths are generated concurrently and
// the matrix is still bit-identical for a given seed.
func Simulate(p Parameters) (*Paths, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := p.checkOverflow(); err != nil {
		return nil, err
	}

	var seed uint64
	if p.Seed != nil {
		seed = *p.Seed
	} else {
		seed = rand.Uint64()
	}

	steps := p.Steps()
	paths := &Paths{
		Seed:   seed,
		Steps:  steps,
		Time:   timeAxis(p.HorizonYears, steps),
		count:  p.PathCount,
		values: make([]float64, p.PathCount*(steps+1)),
	}

	const dt = 1.0 / StepsPerYear
	drift := (p.ExpectedAnnualReturn - 0.5*p.AnnualVolatility*p.AnnualVolatility) * dt
	diffusion := p.AnnualVolatility * math.Sqrt(dt)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo, hi := range chunks(p.PathCount, runtime.GOMAXPROCS(0)) {
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				rng := rand.New(pathSource(seed, i))
				row := paths.Path(i)
				row[0] = p.InitialCapital
				cum := 0.0
				for j := 1; j <= steps; j++ {
					cum += drift + diffusion*rng.NormFloat64()
					v := p.InitialCapital * math.Exp(cum)
					if !(v > 0) || math.IsInf(v, 0) {
						return fmt.Errorf("%w: path %d leaves the float64 range at step %d", ErrNumericOverflow, i, j)
					}
					row[j] = v
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// pathSource returns the random source of path i for a given seed.
//
// The source is a math/rand/v2 PCG whose two state words are the splitmix64
// mix of the seed and of the path index. This derivation is part of the
// reproducibility contract: changing it changes every report.
func pathSource(seed uint64, i int) *rand.PCG {
	return rand.NewPCG(splitmix64(seed), splitmix64(uint64(i)))
}

// splitmix64 is the finalizer of the SplitMix64 generator, it spreads close
// inputs over the whole 64 bits space.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// timeAxis returns steps+1 evenly spaced points from 0 to horizon.
func timeAxis(horizon float64, steps int) []float64 {
	t := make([]float64, steps+1)
	if steps == 0 {
		return t
	}
	for j := range t {
		t[j] = float64(j) * horizon / float64(steps)
	}
	t[steps] = horizon
	return t
}

// chunks splits [0,n) into at most k contiguous ranges [lo,hi) of similar
// size, in increasing order.
func chunks(n, k int) iter.Seq2[int, int] {
	if k < 1 {
		k = 1
	}
	size := max((n+k-1)/k, 1)
	return func(yield func(lo, hi int) bool) {
		for lo := 0; lo < n; lo += size {
			if !yield(lo, min(lo+size, n)) {
				return
			}
		}
	}
}
