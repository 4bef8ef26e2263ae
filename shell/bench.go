package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/bench"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/solver"
)

const defaultHistoryRuns = 10

func (sc *ShellController) openStore(ctx context.Context) (*bench.Store, error) {
	path := sc.config.GetString(config.ConfigResultsDB)
	if path == "" {
		return nil, errors.New("no results-db configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return bench.OpenStore(ctx, path)
}

func (sc *ShellController) bench(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: bench <file> [-threads n] [-yaml path] [-record false]")
	}
	suite, err := bench.CachedSuite(sc.config, cmd.args[0])
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	if threads < 1 {
		return nil, errors.New("need at least one thread")
	}
	r := &bench.Runner{
		Threads: threads,
		Weak:    sc.config.GetBool(config.ConfigWeak),
		NewTable: func() *solver.TranspositionTable {
			return bench.NewTable(sc.config, threads)
		},
	}
	if sc.config.GetBool(config.ConfigPerCaseOutput) {
		r.PerCase = func(res bench.CaseResult) {
			sc.showMessage(res.String())
		}
	}

	// ctrl-c stops the run between cases
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rep, err := r.Run(ctx, suite)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := rep.WriteText(&sb); err != nil {
		return nil, err
	}
	if path := cmd.options.String("yaml"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := rep.WriteYAML(f); err != nil {
			return nil, err
		}
		fmt.Fprintf(&sb, "wrote yaml report to %s\n", path)
	}
	if cmd.options.String("record") != "false" && sc.config.GetString(config.ConfigResultsDB) != "" {
		store, err := sc.openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		id, err := store.Record(ctx, rep, time.Now())
		if err != nil {
			return nil, err
		}
		log.Debug().Int64("run", id).Msg("recorded-bench-run")
		fmt.Fprintf(&sb, "recorded as run #%d\n", id)
	}
	return msg(strings.TrimSuffix(sb.String(), "\n")), nil
}

func (sc *ShellController) genbench(cmd *shellcmd) (*Response, error) {
	count, err := cmd.options.IntDefault("count", 100)
	if err != nil {
		return nil, err
	}
	plies, err := cmd.options.Int("plies")
	if err != nil {
		return nil, errors.New("usage: genbench -plies p -out file [-count n]")
	}
	out := cmd.options.String("out")
	if out == "" {
		return nil, errors.New("usage: genbench -plies p -out file [-count n]")
	}
	// expected scores are always exact, whatever the console's weak setting
	s := solver.NewSolver(sc.solver.TranspositionTable())
	cases, err := bench.Generate(count, plies, func(pos board.BitBoard) int {
		return s.Solve(pos).Score
	})
	if err != nil {
		return nil, err
	}
	suite := &bench.Suite{Name: filepath.Base(out), Cases: cases}
	f, err := os.Create(out)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := suite.Write(f); err != nil {
		return nil, err
	}
	bench.EvictSuite(sc.config, out)
	return msg(fmt.Sprintf("wrote %d positions with %d stones to %s", len(cases), plies, out)), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: history <file> [-n runs]")
	}
	n, err := cmd.options.IntDefault("n", defaultHistoryRuns)
	if err != nil {
		return nil, err
	}
	suite, err := bench.CachedSuite(sc.config, cmd.args[0])
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	store, err := sc.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	runs, err := store.Recent(ctx, suite.FingerprintString(), n)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return msg("no recorded runs for " + suite.Name), nil
	}
	lines := make([]string, len(runs))
	for i, r := range runs {
		lines[i] = r.String()
	}
	return msg(strings.Join(lines, "\n")), nil
}
