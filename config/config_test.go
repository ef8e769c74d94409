package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load(nil)
	is.NoErr(err)
	is.Equal(c.GetBool(KeyDebug), false)
	is.Equal(c.GetInt(KeySolveTimeLimit), 300)
	is.Equal(c.GetInt(KeySolveMaxNodes), 2_000_000)
	is.Equal(c.GetFloat64(KeyTTableMemFrac), 0.25)
}

func TestLoadArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"-debug", "-solve-max-nodes", "5000"})
	is.NoErr(err)
	is.Equal(c.GetBool(KeyDebug), true)
	is.Equal(c.GetInt(KeySolveMaxNodes), 5000)
	// untouched keys keep their defaults
	is.Equal(c.GetInt(KeySolveTimeLimit), 300)
}

func TestLoadLeftoverArgs(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load([]string{"-debug", "solve", "-max-nodes", "100"})
	is.NoErr(err)
	is.Equal(c.GetBool(KeyDebug), true)
	is.Equal(c.Args(), []string{"solve", "-max-nodes", "100"})
}

func TestLoadEnv(t *testing.T) {
	is := is.New(t)
	t.Setenv("LUDOTECA_SOLVE_TIME_LIMIT", "12")
	c := &Config{}
	err := c.Load(nil)
	is.NoErr(err)
	is.Equal(c.GetInt(KeySolveTimeLimit), 12)
}

func TestAdjustRelativePaths(t *testing.T) {
	is := is.New(t)
	c := &Config{}
	err := c.Load(nil)
	is.NoErr(err)
	c.AdjustRelativePaths("/opt/ludoteca")
	is.Equal(c.GetString(KeyDataPath), filepath.Join("/opt/ludoteca", "data"))
	is.Equal(c.BenchHistoryPath(), filepath.Join("/opt/ludoteca", "data", "bench-history.db"))
}
