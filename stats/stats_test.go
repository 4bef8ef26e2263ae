package stats

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		r := &Running{}
		for _, score := range c.scores {
			r.Push(float64(score))
		}
		is.True(FuzzyEqual(r.Mean(), c.mean))
		is.True(FuzzyEqual(r.Stdev(), c.stdev))
		is.Equal(r.Iterations(), len(c.scores))
	}
}

func TestExtremes(t *testing.T) {
	r := &Running{}
	for _, v := range []float64{4, -2, 9, 3} {
		r.Push(v)
	}
	assert.Equal(t, -2.0, r.Min())
	assert.Equal(t, 9.0, r.Max())
	assert.Equal(t, 14.0, r.Sum())
}

func TestZVal(t *testing.T) {
	assert.InDelta(t, 1.959964, ZVal(95), 1e-5)
	assert.InDelta(t, 2.575829, ZVal(99), 1e-5)
}

func TestConfidenceInterval(t *testing.T) {
	r := &Running{}
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		r.Push(v)
	}
	// 1.96 * 5.2372 / sqrt(8)
	assert.InDelta(t, 3.6291, r.ConfidenceInterval(95), 1e-3)
	assert.Equal(t, 0.0, (&Running{}).ConfidenceInterval(95))
}

func TestQuantile(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}
	assert.Equal(t, 3.0, Quantile(data, 0.5))
	assert.Equal(t, 1.0, Quantile(data, 0))
	assert.Equal(t, 5.0, Quantile(data, 1))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, data)
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}
