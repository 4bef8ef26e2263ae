package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/connectfour/config"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-threads")
	Args    []string // Possible argument values (for non-option arguments)
	// Files completes the first argument with benchmark file names.
	Files bool
}

var commandMetadata = map[string]CommandMetadata{
	"bench": {
		Options: []string{"-threads", "-yaml", "-record"},
		Files:   true,
	},
	"history": {
		Options: []string{"-n"},
		Files:   true,
	},
	"genbench": {
		Options: []string{"-count", "-plies", "-out"},
	},
	"undo": {
		Options: []string{"-n"},
	},
	"set": {
		Args: settable,
	},
	"help": {
		Args: []string{"solve", "analyze", "bench", "genbench", "set", "notation"},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "new", "load", "play", "undo", "show", "solve", "analyze", "pv",
	"reset", "set", "bench", "genbench", "history", "exit",
}

var boolValues = []string{"true", "false"}

func (c *ShellCompleter) benchFiles() []string {
	dir := c.sc.config.GetString(config.ConfigBenchDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".txt" {
			files = append(files, e.Name())
		}
	}
	return files
}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-record":
			completions = boolValues
		case cmdName == "set" && len(fields) >= 2 && lastCompleteField != "set":
			switch lastCompleteField {
			case config.ConfigWeak, config.ConfigPerCaseOutput, config.ConfigDebug:
				completions = boolValues
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				switch {
				case strings.HasPrefix(prefix, "-"):
					completions = metadata.Options
				case metadata.Files && lastCompleteField == cmdName:
					completions = c.benchFiles()
				case len(metadata.Args) > 0:
					completions = metadata.Args
				default:
					completions = metadata.Options
				}
			}
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
