package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// RegisterModules registers the engine.log, engine.dice and engine.hero
// tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "hero", m.heroModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// up_to(max) returns an integer in [0, max].
	L.SetField(mod, "up_to", L.NewFunction(func(L *lua.LState) int {
		max := L.CheckInt(1)
		if max < 0 {
			L.ArgError(1, "max must be >= 0")
			return 0
		}
		L.Push(lua.LNumber(dice.UpTo(m.roller, max)))
		return 1
	}))
	// between(lo, hi) returns an integer in [lo, hi).
	L.SetField(mod, "between", L.NewFunction(func(L *lua.LState) int {
		lo, hi := L.CheckInt(1), L.CheckInt(2)
		if lo >= hi {
			L.ArgError(2, "hi must be greater than lo")
			return 0
		}
		L.Push(lua.LNumber(dice.Between(m.roller, lo, hi)))
		return 1
	}))
	return mod
}

func (m *Manager) heroModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.GetHero == nil {
			L.Push(lua.LNil)
			return 1
		}
		info := m.GetHero(id)
		if info == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(heroToTable(L, info))
		return 1
	}))
	return mod
}

func heroToTable(L *lua.LState, h *HeroInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LString(h.ID))
	L.SetField(t, "name", lua.LString(h.Name))
	L.SetField(t, "health", lua.LNumber(h.Health))
	L.SetField(t, "max_health", lua.LNumber(h.MaxHealth))
	L.SetField(t, "kills", lua.LNumber(h.Kills))
	L.SetField(t, "deaths", lua.LNumber(h.Deaths))
	return t
}
