package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/stats"
)

const histogramBins = 10

// Report summarizes a benchmark run. Times are per case, in microseconds.
type Report struct {
	Suite       string `yaml:"suite"`
	Fingerprint string `yaml:"fingerprint"`
	Threads     int    `yaml:"threads"`
	Weak        bool   `yaml:"weak"`

	Total  int `yaml:"total"`
	Passed int `yaml:"passed"`

	MeanTimeMicros   float64 `yaml:"mean_time_us"`
	StdevTimeMicros  float64 `yaml:"stdev_time_us"`
	MedianTimeMicros float64 `yaml:"median_time_us"`
	MeanNodes        float64 `yaml:"mean_nodes"`
	StdevNodes       float64 `yaml:"stdev_nodes"`
	// NodesCI95 is the half-width of the 95% confidence interval of
	// MeanNodes.
	NodesCI95      float64 `yaml:"nodes_ci95"`
	NodesPerSecond float64 `yaml:"nodes_per_sec"`
	WallSeconds    float64 `yaml:"wall_sec"`

	Cases []CaseResult `yaml:"-"`
}

// NewReport aggregates per-case results in suite order.
func NewReport(suite *Suite, results []CaseResult, wall time.Duration) *Report {
	rep := &Report{
		Suite:       suite.Name,
		Fingerprint: suite.FingerprintString(),
		Threads:     1,
		Total:       len(results),
		WallSeconds: wall.Seconds(),
		Cases:       results,
	}
	var times, nodes stats.Running
	for _, r := range results {
		if r.Passed {
			rep.Passed++
		}
		times.Push(float64(r.Elapsed.Microseconds()))
		nodes.Push(float64(r.Nodes))
	}
	rep.MeanTimeMicros = times.Mean()
	rep.StdevTimeMicros = times.Stdev()
	rep.MedianTimeMicros = stats.Quantile(rep.timesMicros(), 0.5)
	rep.MeanNodes = nodes.Mean()
	rep.StdevNodes = nodes.Stdev()
	rep.NodesCI95 = nodes.ConfidenceInterval(95)
	if times.Sum() > 0 {
		rep.NodesPerSecond = nodes.Sum() / (times.Sum() / 1e6)
	}
	return rep
}

func (r *Report) timesMicros() []float64 {
	return lo.Map(r.Cases, func(c CaseResult, _ int) float64 {
		return float64(c.Elapsed.Microseconds())
	})
}

// Failures returns the cases whose score did not match.
func (r *Report) Failures() []CaseResult {
	return lo.Filter(r.Cases, func(c CaseResult, _ int) bool {
		return !c.Passed
	})
}

func (r *Report) AllPassed() bool {
	return r.Passed == r.Total
}

// WriteText prints a human-readable summary followed by a histogram of the
// per-case solve times.
func (r *Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)
	mode := "strong"
	if r.Weak {
		mode = "weak"
	}
	p.Fprintf(w, "suite %s (%s), %s solve, %d thread(s)\n", r.Suite, r.Fingerprint, mode, r.Threads)
	p.Fprintf(w, "passed:        %d / %d\n", r.Passed, r.Total)
	p.Fprintf(w, "mean time:     %.1f µs (stdev %.1f, median %.1f)\n",
		r.MeanTimeMicros, r.StdevTimeMicros, r.MedianTimeMicros)
	p.Fprintf(w, "mean nodes:    %.1f ± %.1f (stdev %.1f)\n", r.MeanNodes, r.NodesCI95, r.StdevNodes)
	p.Fprintf(w, "nodes/sec:     %.0f\n", r.NodesPerSecond)
	p.Fprintf(w, "wall time:     %.3f s\n", r.WallSeconds)
	for _, f := range r.Failures() {
		p.Fprintf(w, "failed: %s expected %d got %d\n", f.Notation, f.Expected, f.Score)
	}
	times := r.timesMicros()
	if len(times) < 2 || stats.FuzzyEqual(lo.Min(times), lo.Max(times)) {
		return nil
	}
	fmt.Fprintln(w, "time per case (µs):")
	h := histogram.Hist(histogramBins, times)
	return histogram.Fprint(w, h, histogram.Linear(40))
}

func (r *Report) WriteYAML(w io.Writer) error {
	out, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
