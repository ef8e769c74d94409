package shell

import (
	"errors"
	"net/http"
	"strings"

	"github.com/cjoudrey/gluahttp"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
	luajson "layeh.com/gopher-json"
)

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("ludoteca_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaWrap adapts a shell command handler into a Lua function taking the
// rest of the command line as a single string. The response message is
// pushed as the return value; errors come back as "ERROR: ..." strings.
func luaWrap(name string) lua.LGFunction {
	return func(L *lua.LState) int {
		lv := strings.TrimSpace(L.ToString(1))
		sc := getShell(L)
		line := name
		if lv != "" {
			line += " " + lv
		}
		cmd, err := extractFields(line)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-parsing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		r, err := sc.executeCommand(cmd)
		if err != nil {
			log.Err(err).Str("command", name).Msg("error-executing-script-command")
			L.Push(lua.LString("ERROR: " + err.Error()))
			return 1
		}
		if r == nil {
			L.Push(lua.LString(""))
			return 1
		}
		L.Push(lua.LString(r.message))
		return 1
	}
}

func Solve(L *lua.LState) int     { return luaWrap("solve")(L) }
func Show(L *lua.LState) int      { return luaWrap("show")(L) }
func Reset(L *lua.LState) int     { return luaWrap("reset")(L) }
func Set(L *lua.LState) int       { return luaWrap("set")(L) }
func Bench(L *lua.LState) int     { return luaWrap("bench")(L) }
func DotsBoxes(L *lua.LState) int { return luaWrap("dotsboxes")(L) }
func Evolve(L *lua.LState) int    { return luaWrap("evolve")(L) }

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}

	filepath := sc.resolveDataFile(cmd.args[0])

	L := lua.NewState()
	defer L.Close()

	luajson.Preload(L)
	L.PreloadModule("http", gluahttp.NewHttpModule(&http.Client{}).Loader)

	lsc := L.NewUserData()
	lsc.Value = sc

	L.SetGlobal("ludoteca_shell", lsc)
	L.SetGlobal("ludoteca_solve", L.NewFunction(Solve))
	L.SetGlobal("ludoteca_show", L.NewFunction(Show))
	L.SetGlobal("ludoteca_reset", L.NewFunction(Reset))
	L.SetGlobal("ludoteca_set", L.NewFunction(Set))
	L.SetGlobal("ludoteca_bench", L.NewFunction(Bench))
	L.SetGlobal("ludoteca_dotsboxes", L.NewFunction(DotsBoxes))
	L.SetGlobal("ludoteca_evolve", L.NewFunction(Evolve))

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Msg("script-error")
		return nil, err
	}
	return nil, nil
}
