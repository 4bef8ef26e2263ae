package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/bench"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/solver"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errExit              = errors.New("exit requested")
)

type ShellController struct {
	l          *readline.Instance
	out        io.Writer
	config     *config.Config
	execPath   string
	gitVersion string

	pos    board.BitBoard
	moves  []board.Column
	solver *solver.Solver
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := &ShellController{
		out:        os.Stdout,
		config:     cfg,
		execPath:   execPath,
		gitVersion: gitVersion,
	}
	sc.solver = solver.NewSolver(bench.NewTable(cfg, 1))
	sc.solver.SetWeak(cfg.GetBool(config.ConfigWeak))
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// extractFields splits a line into a command, its positional arguments,
// and its -key value options.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for idx := 1; idx < len(fields); idx++ {
		f := fields[idx]
		if strings.HasPrefix(f, "-") && !isNumber(f) {
			if idx == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			key := f[1:]
			options[key] = append(options[key], fields[idx+1])
			idx++
			continue
		}
		args = append(args, f)
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) executeCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "exit", "bye":
		return nil, errExit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "load":
		return sc.load(cmd)
	case "play":
		return sc.play(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "solve":
		return sc.solve(cmd)
	case "analyze":
		return sc.analyze(cmd)
	case "pv":
		return sc.pv(cmd)
	case "reset":
		return sc.reset(cmd)
	case "set":
		return sc.set(cmd)
	case "bench":
		return sc.bench(cmd)
	case "genbench":
		return sc.genbench(cmd)
	case "history":
		return sc.history(cmd)
	default:
		return nil, fmt.Errorf("command %v not found", strconv.Quote(cmd.cmd))
	}
}

// standardModeSwitch runs one line. It only returns an error when the
// shell should stop.
func (sc *ShellController) standardModeSwitch(line string) error {
	cmd, err := extractFields(line)
	if err == errNoData {
		return nil
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	resp, err := sc.executeCommand(cmd)
	if err == errExit {
		return err
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
	return nil
}

// Execute runs a semicolon-separated list of commands given on the command
// line, then signals the caller to exit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	for _, part := range strings.Split(line, ";") {
		if err := sc.standardModeSwitch(strings.TrimSpace(part)); err != nil {
			break
		}
	}
	sig <- syscall.SIGINT
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[33mc4>\033[0m ",
		HistoryFile:     "/tmp/c4-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Error().Err(err).Msg("could not start readline")
		sig <- syscall.SIGINT
		return
	}
	sc.l = l
	sc.out = l.Stdout()
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err := sc.standardModeSwitch(strings.TrimSpace(line)); err != nil {
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
	sig <- syscall.SIGINT
}
