package gtvalid

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Log10 read-support domain searched by the bimodal estimator: 1 to 1000
// reads.
const (
	bimodalDomainMin = 0.0
	bimodalDomainMax = 3.0
)

// EstimateThreshold computes the read-support cutoff from the classified
// observations using the strategy in opts.  Both strategies are
// deterministic given identical inputs.
func EstimateThreshold(observations []Observation, opts Opts) (float64, error) {
	switch opts.Strategy {
	case StrategyQuantile:
		values := supportValues(observations, OtherGene)
		if len(values) == 0 {
			return 0, errors.New("quantile threshold: no OtherGene observations")
		}
		return quantileThreshold(values, opts.Quantile), nil
	case StrategyBimodalMinimum:
		values := supportValues(observations, NoGene)
		if len(values) == 0 {
			return 0, errors.New("bimodal threshold: no NoGene observations")
		}
		return bimodalMinimum(values)
	}
	return 0, errors.Errorf("unknown threshold strategy %q", opts.Strategy)
}

func supportValues(observations []Observation, class MatchClass) []float64 {
	var values []float64
	for _, obs := range observations {
		if obs.Class == class {
			values = append(values, float64(obs.TotalDupsWTMUT))
		}
	}
	return values
}

// quantileThreshold returns the p-th empirical quantile of values.
func quantileThreshold(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// bimodalMinimum estimates the density of log10 read support with a
// Gaussian kernel and returns 10^x at the density's minimum over the
// interior of [0,3].  The NoGene population mixes ambient molecules (low
// support) with real molecules the expression assay simply missed (high
// support); the valley between the two modes separates them.  If the
// distribution is not actually bimodal the returned minimum is numerically
// well defined but meaningless; callers should sanity-check it against the
// data range.
func bimodalMinimum(values []float64) (float64, error) {
	logs := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			logs = append(logs, math.Log10(v))
		}
	}
	if len(logs) < 2 {
		return 0, errors.Errorf("bimodal threshold: %d positive values, need at least 2", len(logs))
	}

	// Silverman's rule of thumb.
	sigma := stat.StdDev(logs, nil)
	h := 1.06 * sigma * math.Pow(float64(len(logs)), -0.2)
	if h <= 0 {
		h = 0.05
	}
	kernel := distuv.Normal{Mu: 0, Sigma: h}
	density := func(x float64) float64 {
		sum := 0.0
		for _, l := range logs {
			sum += kernel.Prob(x - l)
		}
		return sum / float64(len(logs))
	}

	// Coarse scan for the lowest interior local minimum of the density.
	// The valley between the two modes is a local minimum; the decaying
	// tail past the upper mode is not, so requiring the density to rise
	// on both sides keeps the scan off the domain boundary.  When no
	// interior minimum exists (effectively unimodal support) the global
	// grid minimum is used instead.
	const gridStep = 0.005
	n := int((bimodalDomainMax-bimodalDomainMin)/gridStep) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = density(bimodalDomainMin + float64(i)*gridStep)
	}
	best, bestY := -1, math.Inf(1)
	for i := 1; i < n-1; i++ {
		if grid[i-1] > grid[i] && grid[i] < grid[i+1] && grid[i] < bestY {
			best, bestY = i, grid[i]
		}
	}
	if best < 0 {
		for i, y := range grid {
			if y < bestY {
				best, bestY = i, y
			}
		}
	}
	bestX := bimodalDomainMin + float64(best)*gridStep
	lo := math.Max(bimodalDomainMin, bestX-gridStep)
	hi := math.Min(bimodalDomainMax, bestX+gridStep)
	x := goldenSectionMin(density, lo, hi, 1e-6)
	return math.Pow(10, x), nil
}

// goldenSectionMin minimizes f over [lo, hi] to within tol.  f must be
// unimodal on the interval for the result to be the true minimum.
func goldenSectionMin(f func(float64) float64, lo, hi, tol float64) float64 {
	const invPhi = 0.6180339887498949
	a, b := lo, hi
	x1 := b - invPhi*(b-a)
	x2 := a + invPhi*(b-a)
	f1, f2 := f(x1), f(x2)
	for b-a > tol {
		if f1 < f2 {
			b, x2, f2 = x2, x1, f1
			x1 = b - invPhi*(b-a)
			f1 = f(x1)
		} else {
			a, x1, f1 = x1, x2, f2
			x2 = a + invPhi*(b-a)
			f2 = f(x2)
		}
	}
	return (a + b) / 2
}
