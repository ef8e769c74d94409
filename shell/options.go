package shell

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mvilches/ludoteca/config"
	"github.com/mvilches/ludoteca/dotsboxes"
)

// Option keys settable with the `set` command.
const (
	OptTimeLimit  = "time-limit"
	OptMaxNodes   = "max-nodes"
	OptSymmetry   = "symmetry"
	OptGreedy     = "greedy"
	OptDepth      = "depth"
	OptTTFraction = "tt-fraction"
)

// ShellOptions are the session-wide solver settings. The solve and
// dotsboxes commands read them; per-invocation command options override
// them without changing the session.
type ShellOptions struct {
	TimeLimit  time.Duration
	MaxNodes   uint64
	Symmetry   bool
	GreedyBias bool
	Depth      int
	TTFraction float64

	cfg *config.Config
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	o := &ShellOptions{cfg: cfg}
	for _, key := range optionKeys() {
		o.reset(key)
	}
	return o
}

func optionKeys() []string {
	return []string{OptTimeLimit, OptMaxNodes, OptSymmetry, OptGreedy,
		OptDepth, OptTTFraction}
}

func (o *ShellOptions) reset(key string) {
	switch key {
	case OptTimeLimit:
		o.TimeLimit = time.Duration(o.cfg.GetInt(config.KeySolveTimeLimit)) * time.Second
	case OptMaxNodes:
		o.MaxNodes = uint64(o.cfg.GetInt(config.KeySolveMaxNodes))
	case OptSymmetry:
		o.Symmetry = true
	case OptGreedy:
		o.GreedyBias = true
	case OptDepth:
		o.Depth = dotsboxes.DefaultDepth
	case OptTTFraction:
		o.TTFraction = o.cfg.GetFloat64(config.KeyTTableMemFrac)
	}
}

// Show returns the display value for a single option.
func (o *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case OptTimeLimit:
		return true, o.TimeLimit.String()
	case OptMaxNodes:
		return true, strconv.FormatUint(o.MaxNodes, 10)
	case OptSymmetry:
		return true, strconv.FormatBool(o.Symmetry)
	case OptGreedy:
		return true, strconv.FormatBool(o.GreedyBias)
	case OptDepth:
		return true, strconv.Itoa(o.Depth)
	case OptTTFraction:
		return true, strconv.FormatFloat(o.TTFraction, 'g', -1, 64)
	}
	return false, "no such option: " + key
}

func (o *ShellOptions) ToDisplayText() string {
	keys := optionKeys()
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("current session options:\n")
	for _, key := range keys {
		_, val := o.Show(key)
		fmt.Fprintf(&sb, "  %-14s %s\n", key, val)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Set assigns one session option from its string values and returns the
// canonical form of what was stored.
func (sc *ShellController) Set(key string, values []string) (string, error) {
	if len(values) == 0 {
		return "", errors.New("need a value for " + key)
	}
	o := sc.options
	switch key {
	case OptTimeLimit:
		secs, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return "", err
		}
		if secs <= 0 {
			return "", errors.New("time limit must be positive")
		}
		o.TimeLimit = time.Duration(secs * float64(time.Second))
		return o.TimeLimit.String(), nil
	case OptMaxNodes:
		n, err := strconv.ParseUint(values[0], 10, 64)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", errors.New("node budget must be positive")
		}
		o.MaxNodes = n
		return strconv.FormatUint(n, 10), nil
	case OptSymmetry:
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return "", err
		}
		o.Symmetry = b
		return strconv.FormatBool(b), nil
	case OptGreedy:
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return "", err
		}
		o.GreedyBias = b
		return strconv.FormatBool(b), nil
	case OptDepth:
		d, err := strconv.Atoi(values[0])
		if err != nil {
			return "", err
		}
		if d < 1 || d > 63 {
			return "", errors.New("depth must be between 1 and 63")
		}
		o.Depth = d
		return strconv.Itoa(d), nil
	case OptTTFraction:
		f, err := strconv.ParseFloat(values[0], 64)
		if err != nil {
			return "", err
		}
		if f <= 0 || f > 0.5 {
			return "", errors.New("tt fraction must be in (0, 0.5]")
		}
		o.TTFraction = f
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return "", errors.New("no such option: " + key)
}

// Unset restores one session option to its default and returns the
// restored value.
func (sc *ShellController) Unset(key string) (string, error) {
	found, _ := sc.options.Show(key)
	if !found {
		return "", errors.New("no such option: " + key)
	}
	sc.options.reset(key)
	_, val := sc.options.Show(key)
	return val, nil
}
