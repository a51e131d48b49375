package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/hero"
	"github.com/cory-johannsen/arena/internal/game/team"
)

// Hook names looked up in the loaded scripts.
const (
	HookDuelEnd   = "on_duel_end"
	HookBattleEnd = "on_battle_end"
)

// DuelHook adapts the on_duel_end script hook to combat.WithDuelHook.
// The hook receives a table with winner, loser, first_attacker (hero ids or
// nil), draw, stalemate, double_knockout and exchanges.
func (m *Manager) DuelHook() combat.DuelHook {
	return func(r combat.Result) {
		_, _ = m.callWith(HookDuelEnd, func(L *lua.LState) []lua.LValue {
			return []lua.LValue{duelTable(L, r)}
		})
	}
}

// BattleEnded calls the on_battle_end script hook with a table holding
// winner, loser (team names), duels and stalemates.
func (m *Manager) BattleEnded(res team.BattleResult) {
	_, _ = m.callWith(HookBattleEnd, func(L *lua.LState) []lua.LValue {
		t := L.NewTable()
		if res.Winner != nil {
			L.SetField(t, "winner", lua.LString(res.Winner.Name))
		}
		if res.Loser != nil {
			L.SetField(t, "loser", lua.LString(res.Loser.Name))
		}
		L.SetField(t, "duels", lua.LNumber(res.Duels))
		L.SetField(t, "stalemates", lua.LNumber(res.Stalemates))
		return []lua.LValue{t}
	})
}

func duelTable(L *lua.LState, r combat.Result) *lua.LTable {
	t := L.NewTable()
	setHero := func(key string, h *hero.Hero) {
		if h != nil {
			L.SetField(t, key, lua.LString(h.ID))
		}
	}
	setHero("winner", r.Winner)
	setHero("loser", r.Loser)
	setHero("first_attacker", r.FirstAttacker)
	L.SetField(t, "draw", lua.LBool(r.Draw))
	L.SetField(t, "stalemate", lua.LBool(r.Stalemate))
	L.SetField(t, "double_knockout", lua.LBool(r.DoubleKnockout))
	L.SetField(t, "exchanges", lua.LNumber(r.Exchanges))
	return t
}

// HeroInfoOf snapshots h for GetHero callbacks.
func HeroInfoOf(h *hero.Hero) *HeroInfo {
	return &HeroInfo{
		ID:        h.ID,
		Name:      h.Name,
		Health:    h.CurrentHealth,
		MaxHealth: h.StartingHealth,
		Kills:     h.Kills(),
		Deaths:    h.Deaths(),
	}
}
