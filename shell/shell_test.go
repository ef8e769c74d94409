package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvilches/ludoteca/config"
	"github.com/mvilches/ludoteca/evolve"
	"github.com/mvilches/ludoteca/pegs"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

// newTestController builds a controller without the readline instance;
// command handlers never touch it.
func newTestController(t *testing.T) *ShellController {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Set(config.KeyDataPath, t.TempDir())
	sc := &ShellController{
		config:   &cfg,
		options:  NewShellOptions(&cfg),
		curState: pegs.InitialState(),
	}
	t.Cleanup(sc.Cleanup)
	return sc
}

func mustCmd(t *testing.T, line string) *shellcmd {
	t.Helper()
	cmd, err := extractFields(line)
	require.NoError(t, err)
	return cmd
}

func TestExtractFields(t *testing.T) {
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"evolve -save /tmp/model.json",
			&shellcmd{"evolve", nil, CmdOptions{"save": {"/tmp/model.json"}}},
			nil},
		{"history smoke full",
			&shellcmd{"history", []string{"smoke", "full"}, CmdOptions{}},
			nil},
		{"dotsboxes 3 3 5 -games 4 -opponent random",
			&shellcmd{"dotsboxes",
				[]string{"3", "3", "5"},
				CmdOptions{"games": {"4"}, "opponent": {"random"}}},
			nil},
		{`script "my file.lua"`,
			&shellcmd{"script", []string{"my file.lua"}, CmdOptions{}},
			nil},
		{"bench suite.yaml -csv", nil, errWrongOptionSyntax},
		{"solve -no-symmetry -no-greedy true", nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		assert.Equal(t, tc.expCmd, cmd, tc.line)
		assert.Equal(t, tc.expErr, err, tc.line)
	}
}

func TestCmdOptions(t *testing.T) {
	opts := CmdOptions{
		"games":    {"12"},
		"rate":     {"0.25"},
		"verbose":  {"TRUE"},
		"opponent": {"greedy", "random"},
	}
	assert.Equal(t, "12", opts.String("games"))
	assert.Equal(t, "", opts.String("missing"))

	n, err := opts.Int("games")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	_, err = opts.Int("missing")
	assert.Error(t, err)

	n, err = opts.IntDefault("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	f, err := opts.FloatDefault("rate", 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)
	f, err = opts.FloatDefault("missing", 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.1, f)

	assert.True(t, opts.Bool("verbose"))
	assert.False(t, opts.Bool("missing"))
	assert.Equal(t, []string{"greedy", "random"}, opts.StringArray("opponent"))
}

func TestSetUnsetOptions(t *testing.T) {
	sc := newTestController(t)

	ret, err := sc.Set(OptMaxNodes, []string{"1234"})
	require.NoError(t, err)
	assert.Equal(t, "1234", ret)
	assert.Equal(t, uint64(1234), sc.options.MaxNodes)

	ret, err = sc.Set(OptTimeLimit, []string{"0.5"})
	require.NoError(t, err)
	assert.Equal(t, "500ms", ret)

	_, err = sc.Set(OptSymmetry, []string{"false"})
	require.NoError(t, err)
	assert.False(t, sc.options.Symmetry)

	ret, err = sc.Unset(OptSymmetry)
	require.NoError(t, err)
	assert.Equal(t, "true", ret)
	assert.True(t, sc.options.Symmetry)

	_, err = sc.Set("no-such", []string{"1"})
	assert.Error(t, err)
	_, err = sc.Set(OptDepth, []string{"99"})
	assert.Error(t, err)
	_, err = sc.Unset("no-such")
	assert.Error(t, err)

	resp, err := sc.set(mustCmd(t, "set"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, OptMaxNodes)
	assert.Contains(t, resp.message, "1234")

	resp, err = sc.set(mustCmd(t, "set greedy"))
	require.NoError(t, err)
	assert.Equal(t, "true", resp.message)
}

func TestShowReset(t *testing.T) {
	sc := newTestController(t)

	resp, err := sc.executeCommand(mustCmd(t, "show"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "32 pegs")
	assert.Contains(t, resp.message, "·")

	sc.curState = sc.curState.Apply(sc.curState.LegalMoves()[0])
	assert.Equal(t, 31, sc.curState.PegCount())

	_, err = sc.executeCommand(mustCmd(t, "reset"))
	require.NoError(t, err)
	assert.Equal(t, pegs.InitialState(), sc.curState)
}

func TestSolveCommandNodeLimit(t *testing.T) {
	sc := newTestController(t)
	resp, err := sc.executeCommand(mustCmd(t, "solve -max-nodes 50"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "NODE_LIMIT_EXCEEDED")
	assert.NotContains(t, resp.message, "  1. ")
}

func TestSolveCommandSuccess(t *testing.T) {
	if testing.Short() {
		t.Skip("full solve in short mode")
	}
	sc := newTestController(t)
	resp, err := sc.executeCommand(mustCmd(t, "solve"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "SUCCESS")
	assert.Contains(t, resp.message, " 31. ")
	// final board is one peg on the center
	assert.Equal(t, 1, strings.Count(resp.message, "●"))
}

func TestDotsBoxesCommand(t *testing.T) {
	sc := newTestController(t)
	resp, err := sc.executeCommand(mustCmd(t, "dotsboxes 1 1 2 -games 2 -opponent random"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "2 games")
	assert.Contains(t, resp.message, "P0 wins")

	_, err = sc.executeCommand(mustCmd(t, "dotsboxes 9 9 2"))
	assert.Error(t, err)
	_, err = sc.executeCommand(mustCmd(t, "dotsboxes 2 2 2 -opponent nobody"))
	assert.Error(t, err)
}

func TestBenchCommandAndHistory(t *testing.T) {
	sc := newTestController(t)
	dir := t.TempDir()

	suitePath := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(suitePath, []byte(`name: smoke
repetitions: 2
configs:
  - name: capped
    max_nodes: 50
`), 0644))

	dbPath := filepath.Join(dir, "history.db")
	resp, err := sc.executeCommand(mustCmd(t, "bench "+suitePath+" -db "+dbPath))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "config")
	assert.Contains(t, resp.message, "capped")

	resp, err = sc.executeCommand(mustCmd(t, "history smoke capped -db "+dbPath))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "holds 2 recorded runs")
	assert.Contains(t, resp.message, "NODE_LIMIT_EXCEEDED")
}

func TestEvolveCommand(t *testing.T) {
	sc := newTestController(t)
	savePath := filepath.Join(t.TempDir(), "model.json")

	resp, err := sc.executeCommand(mustCmd(t,
		"evolve -pop 2 -gens 1 -episodes 1 -workers 1 -save "+savePath))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "champion fitness")

	m, err := evolve.LoadModel(savePath)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Fitness, 5.0)
	assert.LessOrEqual(t, m.Fitness, 500.0)
}

func TestScriptCommand(t *testing.T) {
	sc := newTestController(t)
	dir := t.TempDir()

	// advance the position first so the script's reset is observable
	sc.curState = sc.curState.Apply(sc.curState.LegalMoves()[0])

	scriptPath := filepath.Join(dir, "script.lua")
	require.NoError(t, os.WriteFile(scriptPath, []byte(
		"local board = ludoteca_show()\n"+
			"assert(string.find(board, \"pegs\"))\n"+
			"assert(ludoteca_set(\"max-nodes 777\"))\n"+
			"ludoteca_reset()\n"), 0644))

	resp, err := sc.executeCommand(mustCmd(t, "script "+scriptPath))
	require.NoError(t, err)
	assert.Nil(t, resp)

	assert.Equal(t, pegs.InitialState(), sc.curState)
	assert.Equal(t, uint64(777), sc.options.MaxNodes)

	badPath := filepath.Join(dir, "bad.lua")
	require.NoError(t, os.WriteFile(badPath, []byte("error(\"boom\")\n"), 0644))
	_, err = sc.executeCommand(mustCmd(t, "script "+badPath))
	assert.Error(t, err)

	_, err = sc.executeCommand(mustCmd(t, "script"))
	assert.Error(t, err)
}

func TestHelpCommand(t *testing.T) {
	sc := newTestController(t)

	resp, err := sc.executeCommand(mustCmd(t, "help"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "ludoteca")
	assert.Contains(t, resp.message, "solve")

	resp, err = sc.executeCommand(mustCmd(t, "help solve"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "-max-nodes")

	resp, err = sc.executeCommand(mustCmd(t, "help frobnicate"))
	require.NoError(t, err)
	assert.Contains(t, resp.message, "no help text")
}

func TestUnknownCommand(t *testing.T) {
	sc := newTestController(t)
	_, err := sc.executeCommand(&shellcmd{cmd: "frobnicate", options: CmdOptions{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recognized")
}

func TestCompleterDo(t *testing.T) {
	c := NewShellCompleter(&ShellController{})

	matches, n := c.Do([]rune("so"), 2)
	assert.Equal(t, 2, n)
	require.Len(t, matches, 1)
	assert.Equal(t, "lve", string(matches[0]))

	matches, _ = c.Do([]rune("solve -"), 7)
	var opts []string
	for _, m := range matches {
		opts = append(opts, "-"+string(m))
	}
	assert.Contains(t, opts, "-max-nodes")

	matches, _ = c.Do([]rune("dotsboxes -opponent "), 20)
	assert.Len(t, matches, 3)
}
