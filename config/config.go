package config

import (
	"errors"
	"flag"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Settings are resolved in the usual precedence order: command-line
// arguments, then LUDOTECA_* environment variables, then an optional
// ludoteca.yaml file in the data path, then the defaults below.
const (
	KeyDebug            = "debug"
	KeyDataPath         = "data-path"
	KeyCPUProfile       = "cpu-profile"
	KeyMemProfile       = "mem-profile"
	KeySolveTimeLimit   = "solve-time-limit"
	KeySolveMaxNodes    = "solve-max-nodes"
	KeyTTableMemFrac    = "ttable-mem-fraction"
	KeyBenchHistoryDB   = "bench-history-db"
	KeyBenchRepetitions = "bench-repetitions"
)

type Config struct {
	v    *viper.Viper
	rest []string
}

func DefaultConfig() Config {
	c := Config{}
	c.v = viper.New()
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.v.SetDefault(KeyDebug, false)
	c.v.SetDefault(KeyDataPath, "./data")
	c.v.SetDefault(KeyCPUProfile, "")
	c.v.SetDefault(KeyMemProfile, "")
	c.v.SetDefault(KeySolveTimeLimit, 300)
	c.v.SetDefault(KeySolveMaxNodes, 2_000_000)
	c.v.SetDefault(KeyTTableMemFrac, 0.25)
	c.v.SetDefault(KeyBenchHistoryDB, "bench-history.db")
	c.v.SetDefault(KeyBenchRepetitions, 10)
}

func (c *Config) Load(args []string) error {
	c.v = viper.New()
	c.setDefaults()

	fs := flag.NewFlagSet("ludoteca", flag.ContinueOnError)
	debug := fs.Bool(KeyDebug, false, "debug logging on")
	dataPath := fs.String(KeyDataPath, "./data", "directory holding suites, history and scripts")
	cpuProfile := fs.String(KeyCPUProfile, "", "write cpu profile to file")
	memProfile := fs.String(KeyMemProfile, "", "write memory profile to file")
	timeLimit := fs.Int(KeySolveTimeLimit, 300, "default solver time limit, in seconds")
	maxNodes := fs.Int(KeySolveMaxNodes, 2_000_000, "default solver node budget")
	ttFrac := fs.Float64(KeyTTableMemFrac, 0.25, "fraction of system memory for transposition tables")
	historyDB := fs.String(KeyBenchHistoryDB, "bench-history.db", "benchmark history database filename, relative to data path")
	benchReps := fs.Int(KeyBenchRepetitions, 10, "default repetitions per benchmark configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.rest = fs.Args()

	c.v.SetEnvPrefix("ludoteca")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	c.v.SetConfigName("ludoteca")
	c.v.SetConfigType("yaml")
	c.v.AddConfigPath(*dataPath)
	c.v.AddConfigPath(".")
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	} else {
		log.Debug().Str("file", c.v.ConfigFileUsed()).Msg("read-config-file")
	}

	// Only explicitly passed flags override the file/env layers.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case KeyDebug:
			c.v.Set(KeyDebug, *debug)
		case KeyDataPath:
			c.v.Set(KeyDataPath, *dataPath)
		case KeyCPUProfile:
			c.v.Set(KeyCPUProfile, *cpuProfile)
		case KeyMemProfile:
			c.v.Set(KeyMemProfile, *memProfile)
		case KeySolveTimeLimit:
			c.v.Set(KeySolveTimeLimit, *timeLimit)
		case KeySolveMaxNodes:
			c.v.Set(KeySolveMaxNodes, *maxNodes)
		case KeyTTableMemFrac:
			c.v.Set(KeyTTableMemFrac, *ttFrac)
		case KeyBenchHistoryDB:
			c.v.Set(KeyBenchHistoryDB, *historyDB)
		case KeyBenchRepetitions:
			c.v.Set(KeyBenchRepetitions, *benchReps)
		}
	})
	return nil
}

// Args returns the positional arguments left over after flag parsing,
// e.g. a one-shot shell command line.
func (c *Config) Args() []string {
	return c.rest
}

func (c *Config) Get(key string) any {
	return c.v.Get(key)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) AllSettings() map[string]any {
	return c.v.AllSettings()
}

// AdjustRelativePaths turns relative path settings into absolute paths
// anchored at the executable's directory, so the binaries can be invoked
// from anywhere.
func (c *Config) AdjustRelativePaths(basePath string) {
	dp := c.v.GetString(KeyDataPath)
	if !filepath.IsAbs(dp) {
		adjusted := filepath.Join(basePath, dp)
		log.Debug().Str("path", adjusted).Msg("adjusted-data-path")
		c.v.Set(KeyDataPath, adjusted)
	}
}

// BenchHistoryPath resolves the history DB filename against the data path.
func (c *Config) BenchHistoryPath() string {
	db := c.v.GetString(KeyBenchHistoryDB)
	if filepath.IsAbs(db) {
		return db
	}
	return filepath.Join(c.v.GetString(KeyDataPath), db)
}
