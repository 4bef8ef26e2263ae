package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/solver"
)

// CaseResult is the outcome of solving one case.
type CaseResult struct {
	Index    int
	Notation string
	Expected int
	Score    int
	Nodes    uint64
	Elapsed  time.Duration
	Passed   bool
}

func (r CaseResult) String() string {
	status := "ok"
	if !r.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("%4d %-42s expected %3d got %3d %10d nodes %12v %s",
		r.Index+1, r.Notation, r.Expected, r.Score, r.Nodes, r.Elapsed, status)
}

// Runner solves every case of a suite on a pool of workers. Each worker
// owns a Solver and its table, and clears it before every case so that
// timings do not depend on which worker got which case.
type Runner struct {
	Threads int
	Weak    bool
	// NewTable allocates a worker's table. Nil uses solver.NewSolver's
	// default.
	NewTable func() *solver.TranspositionTable
	// PerCase, when set, is called after every solved case. Calls are
	// serialized.
	PerCase func(CaseResult)
}

func (r *Runner) Run(ctx context.Context, suite *Suite) (*Report, error) {
	threads := max(1, r.Threads)
	results := make([]CaseResult, len(suite.Cases))
	var cbMu sync.Mutex

	tstart := time.Now()
	jobs := make(chan int)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range suite.Cases {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for t := 0; t < threads; t++ {
		t := t
		g.Go(func() error {
			var tt *solver.TranspositionTable
			if r.NewTable != nil {
				tt = r.NewTable()
			}
			s := solver.NewSolver(tt)
			s.SetWeak(r.Weak)
			log.Debug().Int("thread", t).Msg("bench-worker-starting")
			for i := range jobs {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := r.solveCase(s, i, suite.Cases[i])
				if err != nil {
					return err
				}
				results[i] = res
				log.Debug().Int("thread", t).Int("case", i+1).Str("notation", res.Notation).
					Int("score", res.Score).Uint64("nodes", res.Nodes).
					Dur("elapsed", res.Elapsed).Bool("passed", res.Passed).Msg("bench-case")
				if r.PerCase != nil {
					cbMu.Lock()
					r.PerCase(res)
					cbMu.Unlock()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	wall := time.Since(tstart)

	rep := NewReport(suite, results, wall)
	rep.Threads = threads
	rep.Weak = r.Weak
	log.Info().Str("suite", suite.Name).Int("cases", rep.Total).Int("passed", rep.Passed).
		Float64("mean-time-us", rep.MeanTimeMicros).Float64("mean-nodes", rep.MeanNodes).
		Float64("nodes-per-sec", rep.NodesPerSecond).Msg("bench-finished")
	return rep, nil
}

func (r *Runner) solveCase(s *solver.Solver, idx int, c Case) (CaseResult, error) {
	pos, err := board.BitBoardFromNotation(c.Notation)
	if err != nil {
		return CaseResult{}, fmt.Errorf("case %d: %w", idx+1, err)
	}
	s.Reset()
	tstart := time.Now()
	res := s.Solve(pos)
	elapsed := time.Since(tstart)

	expected := c.Expected
	if r.Weak {
		expected = solver.Sign(expected)
	}
	return CaseResult{
		Index:    idx,
		Notation: c.Notation,
		Expected: c.Expected,
		Score:    res.Score,
		Nodes:    res.NodesSearched,
		Elapsed:  elapsed,
		Passed:   res.Score == expected,
	}, nil
}

// NewTable sizes a transposition table from cfg. The memory fraction, when
// set, is split between shareCount tables, one per worker.
func NewTable(cfg *config.Config, shareCount int) *solver.TranspositionTable {
	if f := cfg.GetFloat64(config.ConfigTTMemoryFraction); f > 0 {
		return solver.NewTranspositionTableForMemory(f / float64(max(1, shareCount)))
	}
	return solver.NewTranspositionTable(1 << cfg.GetInt(config.ConfigTTSizeLog2))
}
