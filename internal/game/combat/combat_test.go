package combat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gear"
	"github.com/cory-johannsen/arena/internal/game/hero"
)

// fixedSource always returns val for any Intn call, clamped to the legal range.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func newHero(t testing.TB, name string, hp int) *hero.Hero {
	t.Helper()
	h, err := hero.New(name, hero.WithStartingHealth(hp))
	require.NoError(t, err)
	return h
}

func withAbility(t testing.TB, h *hero.Hero, max int, src dice.Source) *hero.Hero {
	t.Helper()
	a, err := gear.NewAbility("strike", max, src)
	require.NoError(t, err)
	h.AddAbility(a)
	return h
}

func withArmor(t testing.TB, h *hero.Hero, max int, src dice.Source) *hero.Hero {
	t.Helper()
	a, err := gear.NewArmor("plate", max, src)
	require.NoError(t, err)
	h.AddArmor(a)
	return h
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not started", combat.NotStarted.String())
	assert.Equal(t, "in progress", combat.InProgress.String())
	assert.Equal(t, "concluded", combat.Concluded.String())
	assert.Equal(t, "unknown", combat.State(99).String())
}

func TestRollInitiative_BothOrders(t *testing.T) {
	a := newHero(t, "A", 10)
	b := newHero(t, "B", 10)

	first, second := combat.RollInitiative(a, b, &fixedSource{val: 0})
	assert.Same(t, a, first)
	assert.Same(t, b, second)

	first, second = combat.RollInitiative(a, b, &fixedSource{val: 1})
	assert.Same(t, b, first)
	assert.Same(t, a, second)
}

func TestRollInitiative_Property_RoughlyFair(t *testing.T) {
	a := newHero(t, "A", 10)
	b := newHero(t, "B", 10)
	src := dice.NewSeededSource(99)
	aFirst := 0
	const n = 4000
	for i := 0; i < n; i++ {
		first, _ := combat.RollInitiative(a, b, src)
		if first == a {
			aFirst++
		}
	}
	assert.InDelta(t, n/2, aFirst, n*0.05)
}

func TestResolveExchange(t *testing.T) {
	src := &fixedSource{val: 1000}
	a := withAbility(t, newHero(t, "A", 100), 30, src)
	b := withArmor(t, newHero(t, "B", 100), 10, src)

	x := combat.ResolveExchange(a, b)
	assert.Equal(t, a.ID, x.AttackerID)
	assert.Equal(t, b.ID, x.DefenderID)
	assert.Equal(t, 30, x.Attack.Total())
	assert.Equal(t, 20, x.Applied)
	assert.Equal(t, 80, x.DefenderHealth)
	assert.Equal(t, 80, b.CurrentHealth)
}

func TestFight_NoAbilities_DrawWithoutMutation(t *testing.T) {
	src := &fixedSource{val: 3}
	a := withArmor(t, newHero(t, "A", 100), 10, src)
	b := newHero(t, "B", 100)
	eng := combat.NewEngine(src, zap.NewNop())

	res, err := eng.Fight(a, b)
	require.NoError(t, err)
	assert.Equal(t, combat.Concluded, res.State)
	assert.True(t, res.Draw)
	assert.False(t, res.Stalemate)
	assert.Nil(t, res.Winner)
	assert.Nil(t, res.FirstAttacker)
	assert.Zero(t, res.Exchanges)
	assert.Equal(t, "Draw", res.Summary())
	for _, h := range []*hero.Hero{a, b} {
		assert.Equal(t, 100, h.CurrentHealth)
		assert.Zero(t, h.Kills())
		assert.Zero(t, h.Deaths())
	}
}

func TestFight_OverwhelmingAttack_WinsInOneStrike(t *testing.T) {
	for _, initiative := range []int{0, 1} {
		src := &fixedSource{val: 1000}
		strong := withAbility(t, newHero(t, "Strong", 100), 1000, src)
		weak := newHero(t, "Weak", 100)
		// Initiative is decided by the first draw; route it through a separate source.
		eng := combat.NewEngine(&fixedSource{val: initiative}, zap.NewNop())

		res, err := eng.Fight(strong, weak)
		require.NoError(t, err)
		assert.Same(t, strong, res.Winner)
		assert.Same(t, weak, res.Loser)
		assert.Equal(t, 1, strong.Kills())
		assert.Equal(t, 0, strong.Deaths())
		assert.Equal(t, 1, weak.Deaths())
		assert.Equal(t, 0, weak.Kills())
		assert.Equal(t, -900, weak.CurrentHealth)
		assert.Equal(t, 100, strong.CurrentHealth)
		assert.Equal(t, "Strong won", res.Summary())
		if initiative == 0 {
			assert.Equal(t, 1, res.Exchanges)
		} else {
			assert.Equal(t, 2, res.Exchanges, "weak swings for zero first")
		}
	}
}

func TestFight_ZeroDamage_Stalemate(t *testing.T) {
	src := dice.NewSeededSource(1)
	a := withAbility(t, newHero(t, "A", 100), 0, src)
	b := withAbility(t, newHero(t, "B", 100), 0, src)
	core, logs := observer.New(zap.WarnLevel)
	eng := combat.NewEngine(src, zap.New(core), combat.WithMaxExchanges(50))

	res, err := eng.Fight(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, combat.ErrStalemate))
	var se *combat.StalemateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "duel", se.Scope)
	assert.Equal(t, 50, se.Limit)

	assert.Equal(t, combat.Concluded, res.State)
	assert.True(t, res.Draw)
	assert.True(t, res.Stalemate)
	assert.Equal(t, 50, res.Exchanges)
	assert.Zero(t, a.Kills()+a.Deaths()+b.Kills()+b.Deaths())
	assert.Equal(t, 1, logs.FilterMessage("duel stalemate, forcing draw").Len())
}

func TestFight_OverBlockHealing_Stalemate(t *testing.T) {
	src := &fixedSource{val: 1000}
	attacker := withAbility(t, newHero(t, "Hammer", 100), 10, src)
	wall := withArmor(t, withAbility(t, newHero(t, "Wall", 100), 0, src), 30, src)
	eng := combat.NewEngine(src, zap.NewNop(), combat.WithMaxExchanges(20))

	_, err := eng.Fight(attacker, wall)
	assert.ErrorIs(t, err, combat.ErrStalemate)
	assert.Greater(t, wall.CurrentHealth, 100, "over-block heals the defender")
}

func TestFight_DefaultBound(t *testing.T) {
	eng := combat.NewEngine(dice.NewCryptoSource(), nil, combat.WithMaxExchanges(0))
	assert.Equal(t, combat.DefaultMaxExchanges, eng.MaxExchanges())
	assert.NotNil(t, eng.Source())
}

func TestFight_BothEnterDead_DoubleKnockout(t *testing.T) {
	src := &fixedSource{val: 0}
	a := withAbility(t, newHero(t, "A", 10), 5, src)
	b := withAbility(t, newHero(t, "B", 10), 5, src)
	a.CurrentHealth = 0
	b.CurrentHealth = -3
	eng := combat.NewEngine(src, zap.NewNop())

	res, err := eng.Fight(a, b)
	require.NoError(t, err)
	assert.True(t, res.DoubleKnockout)
	assert.Nil(t, res.Winner)
	assert.Nil(t, res.Loser)
	assert.Equal(t, "Double knockout", res.Summary())
	assert.Zero(t, a.Kills()+a.Deaths()+b.Kills()+b.Deaths())
}

func TestFight_OneEntersDead(t *testing.T) {
	src := &fixedSource{val: 0}
	a := withAbility(t, newHero(t, "A", 10), 5, src)
	b := withAbility(t, newHero(t, "B", 10), 5, src)
	b.CurrentHealth = 0
	eng := combat.NewEngine(src, zap.NewNop())

	res, err := eng.Fight(a, b)
	require.NoError(t, err)
	assert.Same(t, a, res.Winner)
	assert.Zero(t, res.Exchanges)
	assert.Equal(t, 1, a.Kills())
	assert.Equal(t, 1, b.Deaths())
}

func TestFight_HookCalledOncePerDuel(t *testing.T) {
	var got []combat.Result
	src := &fixedSource{val: 1000}
	eng := combat.NewEngine(src, zap.NewNop(), combat.WithDuelHook(func(r combat.Result) {
		got = append(got, r)
	}), combat.WithDuelHook(nil))

	a := withAbility(t, newHero(t, "A", 10), 50, src)
	b := newHero(t, "B", 10)
	_, err := eng.Fight(a, b)
	require.NoError(t, err)
	_, err = eng.Fight(newHero(t, "C", 10), newHero(t, "D", 10))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Same(t, a, got[0].Winner)
	assert.True(t, got[1].Draw)
}

func TestFight_Property_CountersConsistent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		src := dice.NewSeededSource(seed)
		a, err := hero.New("A", hero.WithStartingHealth(rapid.IntRange(1, 200).Draw(rt, "hp_a")))
		require.NoError(rt, err)
		b, err := hero.New("B", hero.WithStartingHealth(rapid.IntRange(1, 200).Draw(rt, "hp_b")))
		require.NoError(rt, err)
		for _, h := range []*hero.Hero{a, b} {
			ab, err := gear.NewAbility("hit", rapid.IntRange(1, 60).Draw(rt, "max_damage"), src)
			require.NoError(rt, err)
			h.AddAbility(ab)
			ar, err := gear.NewArmor("guard", rapid.IntRange(0, 10).Draw(rt, "max_block"), src)
			require.NoError(rt, err)
			h.AddArmor(ar)
		}
		eng := combat.NewEngine(src, zap.NewNop())

		res, err := eng.Fight(a, b)
		if err != nil {
			require.ErrorIs(rt, err, combat.ErrStalemate)
			assert.Zero(rt, a.Kills()+a.Deaths()+b.Kills()+b.Deaths())
			return
		}
		require.NotNil(rt, res.Winner)
		require.NotNil(rt, res.Loser)
		assert.True(rt, res.Winner.IsAlive())
		assert.False(rt, res.Loser.IsAlive())
		assert.Equal(rt, 1, res.Winner.Kills())
		assert.Equal(rt, 0, res.Winner.Deaths())
		assert.Equal(rt, 1, res.Loser.Deaths())
		assert.Equal(rt, 0, res.Loser.Kills())
	})
}
