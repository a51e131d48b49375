// Package team provides hero rosters and the team-versus-team battle loop.
package team

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/arena/internal/game/hero"
)

// ErrHeroNotFound is returned by RemoveHero when no member matches the name.
var ErrHeroNotFound = errors.New("hero not found")

// ErrUndefinedRatio is returned by KillDeathRatio when the team has no deaths.
var ErrUndefinedRatio = errors.New("kill/death ratio undefined: no deaths")

// Team is a mutable roster of heroes with a cached count of living members.
//
// Invariant: LivingCount() == number of members with IsAlive() after every
// mutating method returns.
type Team struct {
	Name   string
	heroes []*hero.Hero
	living int
}

// New creates an empty Team.
//
// Postcondition: LivingCount() == 0; HasLost() is true.
func New(name string) *Team {
	return &Team{Name: name}
}

// AddHero appends h to the roster.
//
// Precondition: h must be non-nil.
// Postcondition: LivingCount() incremented iff h.IsAlive().
func (t *Team) AddHero(h *hero.Hero) {
	t.heroes = append(t.heroes, h)
	if h.IsAlive() {
		t.living++
	}
}

// RemoveHero removes the first member named name.
//
// Postcondition: Returns ErrHeroNotFound if absent; otherwise the member is
// removed and LivingCount() decremented iff that member was alive.
func (t *Team) RemoveHero(name string) error {
	for i, h := range t.heroes {
		if h.Name != name {
			continue
		}
		if h.IsAlive() {
			t.living--
		}
		t.heroes = append(t.heroes[:i], t.heroes[i+1:]...)
		return nil
	}
	return fmt.Errorf("team %q: %q: %w", t.Name, name, ErrHeroNotFound)
}

// ReviveHeroes restores every member to starting health.
//
// Postcondition: LivingCount() == Size(); kill/death counters unchanged.
func (t *Team) ReviveHeroes() {
	for _, h := range t.heroes {
		h.Revive()
	}
	t.living = len(t.heroes)
}

// HasLost reports whether the team has no living members.
func (t *Team) HasLost() bool { return t.living <= 0 }

// LivingCount returns the cached number of living members.
func (t *Team) LivingCount() int { return t.living }

// Size returns the roster size, living or not.
func (t *Team) Size() int { return len(t.heroes) }

// Heroes returns a copy of the roster in insertion order.
func (t *Team) Heroes() []*hero.Hero {
	cp := make([]*hero.Hero, len(t.heroes))
	copy(cp, t.heroes)
	return cp
}

// Living returns the members that are currently alive, in roster order.
func (t *Team) Living() []*hero.Hero {
	alive := make([]*hero.Hero, 0, t.living)
	for _, h := range t.heroes {
		if h.IsAlive() {
			alive = append(alive, h)
		}
	}
	return alive
}

// Recount recomputes the living count from member health. Battle uses it to
// re-derive the cache after a duel changes a member's state.
func (t *Team) Recount() {
	n := 0
	for _, h := range t.heroes {
		if h.IsAlive() {
			n++
		}
	}
	t.living = n
}

// Totals returns the summed kills and deaths of every member, including
// members that are currently dead.
func (t *Team) Totals() (kills, deaths int) {
	for _, h := range t.heroes {
		kills += h.Kills()
		deaths += h.Deaths()
	}
	return kills, deaths
}

// KillDeathRatio returns total kills divided by total deaths.
//
// Postcondition: when total deaths is zero, returns ErrUndefinedRatio with
// +Inf (kills > 0) or NaN (no kills either) as the sentinel value.
func (t *Team) KillDeathRatio() (float64, error) {
	kills, deaths := t.Totals()
	if deaths == 0 {
		if kills == 0 {
			return math.NaN(), ErrUndefinedRatio
		}
		return math.Inf(1), ErrUndefinedRatio
	}
	return float64(kills) / float64(deaths), nil
}

// HeroStats is one member's standing.
type HeroStats struct {
	Name   string
	Kills  int
	Deaths int
	Alive  bool
}

// Stats returns every member's standing in roster order.
func (t *Team) Stats() []HeroStats {
	out := make([]HeroStats, 0, len(t.heroes))
	for _, h := range t.heroes {
		out = append(out, HeroStats{Name: h.Name, Kills: h.Kills(), Deaths: h.Deaths(), Alive: h.IsAlive()})
	}
	return out
}
