package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/gear"
	"github.com/cory-johannsen/arena/internal/game/hero"
	"github.com/cory-johannsen/arena/internal/game/team"
	"github.com/cory-johannsen/arena/internal/scripting"
)

type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func TestDuelHook_ReceivesOutcome(t *testing.T) {
	mgr, logs := newTestManager(t)
	load(t, mgr, `
		function on_duel_end(r)
			local winner = engine.hero.get(r.winner)
			engine.log.info("duel: " .. winner.name .. " beat " .. r.loser .. " in " .. r.exchanges ..
				" draw=" .. tostring(r.draw) .. " stalemate=" .. tostring(r.stalemate))
		end
	`)

	src := &fixedSource{val: 1000}
	strong, err := hero.New("Strong")
	require.NoError(t, err)
	ab, err := gear.NewAbility("smash", 500, src)
	require.NoError(t, err)
	strong.AddAbility(ab)
	weak, err := hero.New("Weak")
	require.NoError(t, err)
	mgr.GetHero = func(id string) *scripting.HeroInfo {
		for _, h := range []*hero.Hero{strong, weak} {
			if h.ID == id {
				return scripting.HeroInfoOf(h)
			}
		}
		return nil
	}

	eng := combat.NewEngine(&fixedSource{val: 0}, zap.NewNop(), combat.WithDuelHook(mgr.DuelHook()))
	_, err = eng.Fight(strong, weak)
	require.NoError(t, err)

	entries := logs.FilterMessage("duel: Strong beat " + weak.ID + " in 1 draw=false stalemate=false").All()
	assert.Len(t, entries, 1)
}

func TestDuelHook_NoScripts_NoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	hook := mgr.DuelHook()
	assert.NotPanics(t, func() { hook(combat.Result{Draw: true}) })
}

func TestBattleEnded(t *testing.T) {
	mgr, logs := newTestManager(t)
	load(t, mgr, `
		function on_battle_end(b)
			engine.log.info(b.winner .. " over " .. b.loser .. " in " .. b.duels .. "/" .. b.stalemates)
		end
	`)
	mgr.BattleEnded(team.BattleResult{Winner: team.New("Red"), Loser: team.New("Blue"), Duels: 4, Stalemates: 1})
	assert.Equal(t, 1, logs.FilterMessage("Red over Blue in 4/1").Len())
}

func TestBattleEnded_StalledBattle(t *testing.T) {
	mgr, logs := newTestManager(t)
	load(t, mgr, `
		function on_battle_end(b)
			if b.winner == nil then engine.log.warn("stalled after " .. b.duels) end
		end
	`)
	mgr.BattleEnded(team.BattleResult{Duels: 9})
	assert.Equal(t, 1, logs.FilterMessage("stalled after 9").Len())
}

func TestAnnouncerScript(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.Load("../../content/scripts", 0))

	mgr.BattleEnded(team.BattleResult{Winner: team.New("Avengers"), Loser: team.New("Dark Order"), Duels: 3})
	assert.Equal(t, 1, logs.FilterMessage("Avengers defeated Dark Order in 3 duels").Len())

	mgr.BattleEnded(team.BattleResult{Duels: 10})
	assert.Equal(t, 1, logs.FilterMessage("battle ended without a winner after 10 duels").Len())

	mgr.DuelHook()(combat.Result{Stalemate: true, Exchanges: 7})
	assert.Equal(t, 1, logs.FilterMessage("duel stalled after 7 exchanges").Len())
}
