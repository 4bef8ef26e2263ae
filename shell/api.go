package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/bench"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/move"
	"github.com/domino14/connectfour/solver"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func playerName(moves int) string {
	if moves%2 == 0 {
		return "X"
	}
	return "O"
}

func (sc *ShellController) notation() string {
	var sb strings.Builder
	for _, c := range sc.moves {
		sb.WriteByte(byte('1' + c))
	}
	return sb.String()
}

func (sc *ShellController) displayText() string {
	var sb strings.Builder
	sb.WriteString(" A B C D E F G\n")
	for _, row := range strings.Split(strings.TrimSuffix(sc.pos.String(), "\n"), "\n") {
		sb.WriteByte('|')
		for _, r := range row {
			sb.WriteRune(r)
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "moves: %d, to move: %s, notation: %q",
		sc.pos.NumMoves(), playerName(sc.pos.NumMoves()), sc.notation())
	return sb.String()
}

func (sc *ShellController) setPosition(notation string) error {
	pos, err := board.BitBoardFromNotation(notation)
	if err != nil {
		return err
	}
	moves := make([]board.Column, 0, len(notation))
	for _, r := range notation {
		c, _ := board.ParseColumn(r)
		moves = append(moves, c)
	}
	sc.pos = pos
	sc.moves = moves
	return nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.pos = board.NewBitBoard()
	sc.moves = nil
	return msg(sc.displayText()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <notation>")
	}
	if err := sc.setPosition(cmd.args[0]); err != nil {
		return nil, err
	}
	return msg(sc.displayText()), nil
}

// play appends moves to the current position. A move that would win is
// reported and not played, since finished games cannot be solved.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: play <columns>")
	}
	for _, r := range strings.Join(cmd.args, "") {
		c, err := board.ParseColumn(r)
		if err != nil {
			return nil, err
		}
		if !sc.pos.IsPlayable(c) {
			return nil, fmt.Errorf("column %v: %w", c, board.ErrColumnFull)
		}
		if sc.pos.IsWinning(c) {
			return msg(sc.displayText() + "\n" +
				fmt.Sprintf("%s wins by playing %v", playerName(sc.pos.NumMoves()), c)), nil
		}
		sc.pos.Play(c)
		sc.moves = append(sc.moves, c)
	}
	return msg(sc.displayText()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.moves) == 0 {
		return nil, errors.New("no moves to undo")
	}
	n, err := cmd.options.IntDefault("n", 1)
	if err != nil {
		return nil, err
	}
	n = min(n, len(sc.moves))
	notation := sc.notation()
	if err := sc.setPosition(notation[:len(notation)-n]); err != nil {
		return nil, err
	}
	return msg(sc.displayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	return msg(sc.displayText()), nil
}

// describeScore explains a score from the point of view of the player to
// move after m stones.
func describeScore(score, m int, weak bool) string {
	toMove, other := playerName(m), playerName(m+1)
	if weak {
		switch {
		case score > 0:
			return toMove + " wins"
		case score < 0:
			return other + " wins"
		}
		return "draw"
	}
	// the winner's stone count on the winning move is the same whichever
	// side wins
	stone := board.NumCells/2 + 1
	switch {
	case score > 0:
		return fmt.Sprintf("%s wins with their stone #%d", toMove, stone-score)
	case score < 0:
		return fmt.Sprintf("%s wins with their stone #%d", other, stone+score)
	}
	return "draw"
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	tstart := time.Now()
	res := sc.solver.Solve(sc.pos)
	elapsed := time.Since(tstart)
	return msg(fmt.Sprintf("score %d (%s); %d nodes in %v",
		res.Score, describeScore(res.Score, sc.pos.NumMoves(), sc.solver.Weak()),
		res.NodesSearched, elapsed)), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	scores := sc.solver.Analyze(sc.pos)
	best, _, ok := solver.BestMove(scores)
	if !ok {
		return nil, errors.New("the board is full")
	}
	var sb strings.Builder
	sb.WriteString("column  score\n")
	for _, cs := range scores {
		if !cs.Playable {
			fmt.Fprintf(&sb, "%-6v  full\n", cs.Column)
			continue
		}
		marker := ""
		if cs.Column == best {
			marker = "  *"
		}
		fmt.Fprintf(&sb, "%-6v  %5d%s\n", cs.Column, cs.Score, marker)
	}
	playable := lo.Filter(scores[:], func(cs solver.ColumnScore, _ int) bool {
		return cs.Playable
	})
	fmt.Fprintf(&sb, "%d playable column(s); best is %v", len(playable), best)
	if !sc.pos.CanWinNext() {
		if moves, ok := sc.pos.PossibleNonLosingMoves(); ok {
			sorter := move.Ordered(&sc.pos, moves)
			order := lo.Map(sorter.Moves(), func(m move.ScoredMove, _ int) string {
				return m.String()
			})
			fmt.Fprintf(&sb, "\n%d non-losing column(s); search order: %s",
				sorter.Len(), strings.Join(order, ", "))
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) pv(cmd *shellcmd) (*Response, error) {
	line := sc.solver.PrincipalVariation(sc.pos)
	return msg(line.NLBString() + "\nnotation: " + sc.notation() + line.Notation()), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	sc.solver.Reset()
	return msg("cleared the transposition table"), nil
}

// settable lists the config keys that can be changed from the console.
var settable = []string{
	config.ConfigWeak, config.ConfigTTSizeLog2, config.ConfigTTMemoryFraction,
	config.ConfigThreads, config.ConfigPerCaseOutput, config.ConfigDebug,
	config.ConfigBenchDir, config.ConfigResultsDB,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.AllSettings()
		var sb strings.Builder
		keys := append([]string{}, settable...)
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-20s %v\n", k, settings[k])
		}
		return msg(strings.TrimSuffix(sb.String(), "\n")), nil
	}
	key := cmd.args[0]
	if !lo.Contains(settable, key) {
		return nil, fmt.Errorf("%w: cannot set %v", config.ErrBadSetting, key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%v", sc.config.Get(key))), nil
	}
	value := cmd.args[1]

	switch key {
	case config.ConfigWeak, config.ConfigPerCaseOutput, config.ConfigDebug:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrBadSetting, err)
		}
		sc.config.Set(key, b)
		switch key {
		case config.ConfigWeak:
			sc.solver.SetWeak(b)
		case config.ConfigDebug:
			if b {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		}
	case config.ConfigTTSizeLog2, config.ConfigThreads:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", config.ErrBadSetting, err)
		}
		if key == config.ConfigTTSizeLog2 && (n < config.MinTTSizeLog2 || n > config.MaxTTSizeLog2) {
			return nil, fmt.Errorf("%w: %v out of range", config.ErrBadSetting, n)
		}
		if key == config.ConfigThreads && n < 1 {
			return nil, fmt.Errorf("%w: need at least one thread", config.ErrBadSetting)
		}
		sc.config.Set(key, n)
	case config.ConfigTTMemoryFraction:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f >= 1 {
			return nil, fmt.Errorf("%w: %v must be in [0, 1)", config.ErrBadSetting, value)
		}
		sc.config.Set(key, f)
	default:
		sc.config.Set(key, value)
	}
	if key == config.ConfigTTSizeLog2 || key == config.ConfigTTMemoryFraction {
		sc.solver.SetTranspositionTable(bench.NewTable(sc.config, 1))
	}
	return msg(fmt.Sprintf("set %v to %v", key, sc.config.Get(key))), nil
}
