// c4bench solves benchmark files and reports timings:
//
//	c4bench [flags] file...
//
// It exits with status 1 when any position gets a score other than the
// expected one.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/bench"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/solver"
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func runSuite(ctx context.Context, cfg *config.Config, store *bench.Store, path string) (bool, error) {
	suite, err := bench.CachedSuite(cfg, path)
	if err != nil {
		return false, err
	}
	threads := cfg.GetInt(config.ConfigThreads)
	r := &bench.Runner{
		Threads: threads,
		Weak:    cfg.GetBool(config.ConfigWeak),
		NewTable: func() *solver.TranspositionTable {
			return bench.NewTable(cfg, threads)
		},
	}
	if cfg.GetBool(config.ConfigPerCaseOutput) {
		r.PerCase = func(res bench.CaseResult) {
			fmt.Println(res)
		}
	}
	rep, err := r.Run(ctx, suite)
	if err != nil {
		return false, err
	}
	if err := rep.WriteText(os.Stdout); err != nil {
		return false, err
	}
	if store != nil {
		if _, err := store.Record(ctx, rep, time.Now()); err != nil {
			return false, err
		}
	}
	return rep.AllPassed(), nil
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.GetBool(config.ConfigDebug))
	cfg.AdjustRelativePaths(filepath.Dir(ex))
	if len(cfg.Args()) == 0 {
		fmt.Fprintln(os.Stderr, "usage: c4bench [flags] file...")
		os.Exit(2)
	}

	if p := cfg.GetString(config.ConfigCPUProfile); p != "" {
		f, err := os.Create(p)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *bench.Store
	if db := cfg.GetString(config.ConfigResultsDB); db != "" {
		if err := os.MkdirAll(filepath.Dir(db), 0o755); err != nil {
			log.Fatal().Err(err).Msg("could not create results directory")
		}
		store, err = bench.OpenStore(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open results store")
		}
		defer store.Close()
	}

	allPassed := true
	for _, path := range cfg.Args() {
		passed, err := runSuite(ctx, cfg, store, path)
		if err != nil {
			log.Error().Err(err).Str("suite", path).Msg("benchmark failed")
			allPassed = false
			break
		}
		allPassed = allPassed && passed
	}
	if !allPassed {
		// os.Exit skips deferred calls
		pprof.StopCPUProfile()
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}
}
