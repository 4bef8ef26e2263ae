package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Running accumulates a mean and variance one sample at a time, using
// Welford's algorithm, along with the extremes and the sum.
type Running struct {
	n    int
	sum  float64
	min  float64
	max  float64
	mean float64
	m2   float64
}

func (r *Running) Push(val float64) {
	r.n++
	r.sum += val
	if r.n == 1 {
		r.min, r.max = val, val
		r.mean = val
		r.m2 = 0
		return
	}
	r.min = math.Min(r.min, val)
	r.max = math.Max(r.max, val)
	delta := val - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (val - r.mean)
}

func (r *Running) Mean() float64 {
	if r.n > 0 {
		return r.mean
	}
	return 0.0
}

func (r *Running) Variance() float64 {
	if r.n <= 1 {
		return 0.0
	}
	return r.m2 / float64(r.n-1)
}

func (r *Running) Stdev() float64 {
	return math.Sqrt(r.Variance())
}

// StandardError returns the standard error of the mean.
func (r *Running) StandardError() float64 {
	if r.n == 0 {
		return 0.0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}

// ConfidenceInterval returns the half-width of the interval around the
// mean at the given confidence, from 0 to 100 percent.
func (r *Running) ConfidenceInterval(pct float64) float64 {
	return ZVal(pct) * r.StandardError()
}

func (r *Running) Min() float64 { return r.min }
func (r *Running) Max() float64 { return r.max }
func (r *Running) Sum() float64 { return r.sum }
func (r *Running) Iterations() int { return r.n }

// ZVal returns the two-tailed Z-value for a confidence level given in
// percent.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}

// Quantile returns the empirical p-quantile of data. data is not modified.
func Quantile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
