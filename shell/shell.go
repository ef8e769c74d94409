// Package shell is the interactive front end of the workbench. It wraps
// the peg solitaire solver, the benchmark harness, the dots-and-boxes
// engine and the cart-pole trainer behind a readline loop with a small
// Lua scripting environment.
package shell

import (
	"errors"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/mvilches/ludoteca/bench"
	"github.com/mvilches/ludoteca/config"
	"github.com/mvilches/ludoteca/pegs"
)

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("options need to be in the format -option value")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a raw line into the command, its positional
// arguments and its -option value pairs. Quoting follows sh rules.
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
	lastWasOption := false
	lastOption := ""
	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "-") {
			if lastWasOption {
				return nil, errWrongOptionSyntax
			}
			lastWasOption = true
			lastOption = field[1:]
			continue
		}
		if lastWasOption {
			options[lastOption] = append(options[lastOption], field)
			lastWasOption = false
		} else {
			args = append(args, field)
		}
	}
	if lastWasOption {
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string

	options *ShellOptions

	curState pegs.State

	history  *bench.History
	histPath string
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc := &ShellController{
		config:   cfg,
		execPath: execPath,
		options:  NewShellOptions(cfg),
		curState: pegs.InitialState(),
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mludoteca>\033[0m ",
		HistoryFile:     "/tmp/ludoteca_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Execute runs a single command line. It reports whether the shell
// should quit.
func (sc *ShellController) Execute(sig chan os.Signal, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	cmd, err := extractFields(line)
	if err != nil {
		sc.showError(err)
		return false
	}
	switch cmd.cmd {
	case "exit", "quit", "bye":
		sig <- syscall.SIGINT
		return true
	}
	resp, err := sc.executeCommand(cmd)
	if err != nil {
		sc.showError(err)
		return false
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
	return false
}

func (sc *ShellController) executeCommand(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "solve":
		return sc.solve(cmd)
	case "show":
		return sc.show(cmd)
	case "reset":
		return sc.reset(cmd)
	case "set":
		return sc.set(cmd)
	case "unset":
		return sc.unset(cmd)
	case "bench":
		return sc.bench(cmd)
	case "history":
		return sc.benchHistory(cmd)
	case "dotsboxes":
		return sc.dotsboxes(cmd)
	case "evolve":
		return sc.evolve(cmd)
	case "script":
		return sc.script(cmd)
	case "help":
		return sc.help(cmd)
	}
	return nil, errors.New("command not recognized: " + cmd.cmd)
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		if sc.Execute(sig, line) {
			break
		}
	}
	log.Debug().Msg("exiting-readline-loop")
}

// Cleanup releases resources the session accumulated.
func (sc *ShellController) Cleanup() {
	if sc.history != nil {
		if err := sc.history.Close(); err != nil {
			log.Err(err).Msg("closing-bench-history")
		}
		sc.history = nil
	}
}
