package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
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
	Options []string // Available options for this command (e.g., "-games", "-csv")
	Args    []string // Possible argument values (for non-option arguments)
}

var commandMetadata = map[string]CommandMetadata{
	"solve": {
		Options: []string{"-time-limit", "-max-nodes", "-no-symmetry", "-no-greedy"},
	},
	"bench": {
		Options: []string{"-csv", "-hist", "-latex", "-db"},
	},
	"history": {
		Options: []string{"-limit", "-db"},
	},
	"dotsboxes": {
		Options: []string{"-games", "-opponent", "-no-heuristic"},
	},
	"evolve": {
		Options: []string{
			"-pop", "-gens", "-rate", "-episodes", "-workers",
			"-crossover", "-save",
		},
	},
	"set": {
		Args: optionKeys(),
	},
	"unset": {
		Args: optionKeys(),
	},
	"help": {
		Args: []string{
			"solve", "show", "set", "bench", "history",
			"dotsboxes", "evolve", "script",
		},
	},
}

var commandNames = []string{
	"help", "show", "reset", "solve", "set", "unset", "bench",
	"history", "dotsboxes", "evolve", "script", "exit",
}

var boolValues = []string{"true", "false"}
var crossoverValues = []string{"uniform", "single_point", "two_point"}
var opponentValues = []string{"greedy", "random", "alphabeta"}

// Do implements the readline.AutoComplete interface with completions
// based on what's been typed so far.
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}

	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]

		if !endsWithSpace && len(fields) > 0 {
			prefix = fields[len(fields)-1]
		}

		// The last complete field decides the context: an option that
		// expects a value narrows the completions to its values.
		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if lastCompleteField != "" && strings.HasPrefix(lastCompleteField, "-") {
			switch strings.TrimPrefix(lastCompleteField, "-") {
			case "no-symmetry", "no-greedy", "no-heuristic", "hist", "latex":
				completions = boolValues
			case "crossover":
				completions = crossoverValues
			case "opponent":
				completions = opponentValues
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") {
					completions = metadata.Options
				} else if len(metadata.Args) > 0 {
					completions = metadata.Args
				} else {
					completions = metadata.Options
				}
			}
		}
	}

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
