// Package bench runs peg solitaire solver configurations repeatedly and
// aggregates timing and search statistics, with CSV, terminal histogram
// and LaTeX outputs plus a SQLite run history.
package bench

import (
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"gopkg.in/yaml.v3"
)

// OptimalMoves is the known optimal solution length on the classic
// board, used for the optimal-rate aggregate.
const OptimalMoves = 31

const DefaultRepetitions = 10

// ConfigSpec is one named solver configuration in a suite. Zero values
// for the limits keep the solver defaults.
type ConfigSpec struct {
	Name       string  `yaml:"name" json:"name"`
	TimeLimit  float64 `yaml:"time_limit" json:"time_limit"`
	MaxNodes   uint64  `yaml:"max_nodes" json:"max_nodes"`
	NoSymmetry bool    `yaml:"no_symmetry" json:"no_symmetry"`
	NoGreedy   bool    `yaml:"no_greedy" json:"no_greedy"`
}

// Fingerprint identifies the parameter combination across runs and
// history inserts, independent of suite file formatting.
func (c ConfigSpec) Fingerprint() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%s|%g|%d|%t|%t",
		c.Name, c.TimeLimit, c.MaxNodes, c.NoSymmetry, c.NoGreedy))
}

// Suite is a benchmark definition: named configurations, each run
// Repetitions times. Baseline names the configuration the elapsed-time
// z-scores compare against; empty means the first one.
type Suite struct {
	Name        string       `yaml:"name" json:"name"`
	Repetitions int          `yaml:"repetitions" json:"repetitions"`
	Baseline    string       `yaml:"baseline" json:"baseline"`
	Configs     []ConfigSpec `yaml:"configs" json:"configs"`
}

func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := &Suite{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing suite %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the suite and fills in defaults for omitted fields.
func (s *Suite) Validate() error {
	if len(s.Configs) == 0 {
		return errors.New("suite has no configurations")
	}
	if s.Repetitions == 0 {
		s.Repetitions = DefaultRepetitions
	}
	if s.Repetitions < 0 {
		return errors.New("repetitions must be positive")
	}
	seen := map[string]bool{}
	for i, c := range s.Configs {
		if c.Name == "" {
			return fmt.Errorf("config %d has no name", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate config name %q", c.Name)
		}
		seen[c.Name] = true
		if c.TimeLimit < 0 {
			return fmt.Errorf("config %q: negative time limit", c.Name)
		}
	}
	if s.Baseline == "" {
		s.Baseline = s.Configs[0].Name
	} else if !seen[s.Baseline] {
		return fmt.Errorf("baseline %q is not a config name", s.Baseline)
	}
	if s.Name == "" {
		s.Name = "bench"
	}
	return nil
}
