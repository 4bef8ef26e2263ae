package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/connectfour/bench"
	"github.com/domino14/connectfour/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"bench -yaml /path/to/report.yaml",
			&shellcmd{"bench", nil, CmdOptions{"yaml": {"/path/to/report.yaml"}}},
			nil},
		{"load 4455",
			&shellcmd{"load", []string{"4455"}, CmdOptions{}},
			nil},
		{"bench small.txt -threads 4 -record false ",
			&shellcmd{"bench",
				[]string{"small.txt"},
				CmdOptions{"threads": {"4"}, "record": {"false"}}},
			nil,
		},
		{"set tt-memory-fraction -1",
			&shellcmd{"set", []string{"tt-memory-fraction", "-1"}, CmdOptions{}},
			nil},
		{"bench small.txt -threads",
			nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func newTestController(t *testing.T) *ShellController {
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTTSizeLog2, 18)
	cfg.Set(config.ConfigThreads, 2)
	dir, err := filepath.Abs("../bench/testdata")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Set(config.ConfigBenchDir, dir)
	cfg.Set(config.ConfigResultsDB, filepath.Join(t.TempDir(), "results.db"))
	return NewShellController(&cfg, "", "test")
}

func run(t *testing.T, sc *ShellController, line string) string {
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := sc.executeCommand(cmd)
	if err != nil {
		t.Fatalf("%v: %v", line, err)
	}
	return resp.message
}

func runErr(t *testing.T, sc *ShellController, line string) error {
	cmd, err := extractFields(line)
	if err != nil {
		t.Fatal(err)
	}
	_, err = sc.executeCommand(cmd)
	return err
}

func TestLoadAndShow(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out := run(t, sc, "load 4453")
	is.True(strings.Contains(out, `moves: 4, to move: X, notation: "4453"`))
	is.True(strings.Contains(out, "|.|.|O|X|X|.|.|"))

	out = run(t, sc, "play 5")
	is.True(strings.Contains(out, `notation: "44535"`))
	out = run(t, sc, "undo")
	is.True(strings.Contains(out, `notation: "4453"`))
	out = run(t, sc, "new")
	is.True(strings.Contains(out, "moves: 0"))

	is.True(runErr(t, sc, "load 44x") != nil)
	is.True(runErr(t, sc, "undo") != nil)
	is.True(runErr(t, sc, "frobnicate") != nil)
}

func TestPlayWinningMove(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	run(t, sc, "load 43546")
	out := run(t, sc, "play 2")
	is.True(strings.Contains(out, `notation: "435462"`))
	out = run(t, sc, "play 7")
	is.True(strings.Contains(out, "X wins by playing G"))
	is.True(strings.Contains(out, `notation: "435462"`))
}

func TestSolve(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	run(t, sc, "load 7173753757645137532432232662266")
	out := run(t, sc, "solve")
	// O to move, and X wins with its next stone
	is.True(strings.HasPrefix(out, "score -5 (X wins with their stone #17)"))

	run(t, sc, "set weak true")
	out = run(t, sc, "solve")
	is.True(strings.HasPrefix(out, "score -1 (X wins)"))
	run(t, sc, "reset")
}

func TestAnalyzeAndPV(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	run(t, sc, "load 776653277766156634214724421423512351")
	out := run(t, sc, "analyze")
	is.True(strings.Contains(out, "C           3  *"))
	is.True(strings.Contains(out, "B       full"))
	is.True(strings.Contains(out, "4 playable column(s); best is C"))

	out = run(t, sc, "pv")
	is.True(strings.HasPrefix(out, "PV; val 3; 1: C; "))
	is.True(strings.Contains(out, "notation: 7766532777661566342147244214235123513"))
}

func TestAnalyzeSearchOrder(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	run(t, sc, "load 746123436635772163426325732")
	out := run(t, sc, "analyze")
	is.True(strings.Contains(out, "C       full"))
	is.True(strings.Contains(out, "6 playable column(s)"))
	is.True(strings.Contains(out,
		"6 non-losing column(s); search order: E (3), D (2), B (2), F (2), A (2), G (2)"))
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out := run(t, sc, "set")
	is.True(strings.Contains(out, "tt-size-log2"))
	out = run(t, sc, "set tt-size-log2 16")
	is.Equal(out, "set tt-size-log2 to 16")
	is.Equal(sc.solver.TranspositionTable().Size(), 65537)
	is.Equal(run(t, sc, "set tt-size-log2"), "16")
	is.True(runErr(t, sc, "set tt-size-log2 99") != nil)
	is.True(runErr(t, sc, "set threads 0") != nil)
	is.True(runErr(t, sc, "set weak maybe") != nil)
	is.True(runErr(t, sc, "set cpu-profile x") != nil)
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	is.True(strings.HasPrefix(run(t, sc, "help"), "commands:"))
	is.True(strings.HasPrefix(run(t, sc, "help bench"), "bench <file>"))
	is.True(runErr(t, sc, "help nothing") != nil)
}

func TestBenchAndHistory(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	yamlPath := filepath.Join(t.TempDir(), "report.yaml")
	out := run(t, sc, "bench small.txt -yaml "+yamlPath)
	is.True(strings.Contains(out, "passed:        12 / 12"))
	is.True(strings.Contains(out, "recorded as run #1"))
	dat, err := os.ReadFile(yamlPath)
	is.NoErr(err)
	is.True(strings.Contains(string(dat), "total: 12"))

	run(t, sc, "bench small.txt -record false -threads 1")
	out = run(t, sc, "history small.txt")
	is.Equal(len(strings.Split(out, "\n")), 1)
	is.True(strings.HasPrefix(out, "#1 "))
	is.True(strings.Contains(out, "12/12 passed"))
}

func TestGenbench(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out := filepath.Join(t.TempDir(), "gen.txt")
	msg := run(t, sc, "genbench -count 4 -plies 36 -out "+out)
	is.Equal(msg, "wrote 4 positions with 36 stones to "+out)
	suite, err := bench.LoadSuiteFile(out)
	is.NoErr(err)
	is.Equal(len(suite.Cases), 4)
	is.True(runErr(t, sc, "genbench -count 4") != nil)
	is.True(runErr(t, sc, "genbench -count 1 -plies 0 -out "+out) != nil)
}

func TestGenbenchRefreshesCachedSuite(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	out := filepath.Join(t.TempDir(), "regen.txt")
	run(t, sc, "genbench -count 2 -plies 36 -out "+out)
	res := run(t, sc, "bench "+out+" -record false -threads 1")
	is.True(strings.Contains(res, "passed:        2 / 2"))

	run(t, sc, "genbench -count 5 -plies 36 -out "+out)
	res = run(t, sc, "bench "+out+" -record false -threads 1")
	is.True(strings.Contains(res, "passed:        5 / 5"))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc := newTestController(t)
	c := NewShellCompleter(sc)
	matches, n := c.Do([]rune("an"), 2)
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("alyze")})

	matches, _ = c.Do([]rune("bench sm"), 8)
	is.Equal(matches, [][]rune{[]rune("all.txt")})

	matches, _ = c.Do([]rune("set weak "), 9)
	is.Equal(matches, [][]rune{[]rune("true"), []rune("false")})
}
