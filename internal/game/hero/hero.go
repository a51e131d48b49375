// Package hero defines the combatant aggregate: a named bundle of capabilities
// and armors with mutable health and kill/death counters.
package hero

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gear"
)

// DefaultStartingHealth is the health a hero starts with unless overridden.
const DefaultStartingHealth = 100

// ErrInvalidHero is returned when a hero is constructed with illegal values.
var ErrInvalidHero = errors.New("invalid hero")

// Hero is a single combatant.
//
// Invariant: alive iff CurrentHealth > 0. CurrentHealth may be negative after a
// killing blow. Kills and Deaths only change through AddKill and AddDeath.
type Hero struct {
	// ID uniquely identifies this hero for storage and logging.
	ID string
	// Name is the display name; team removal matches on it.
	Name string
	// StartingHealth is the value Revive restores.
	StartingHealth int
	// CurrentHealth is the live health value.
	CurrentHealth int

	kills     int
	deaths    int
	abilities []gear.Capability
	armors    []*gear.Armor
}

// Option configures a Hero at construction time.
type Option func(*Hero)

// WithStartingHealth overrides DefaultStartingHealth.
func WithStartingHealth(hp int) Option {
	return func(h *Hero) { h.StartingHealth = hp }
}

// WithID sets an explicit ID instead of a generated one.
func WithID(id string) Option {
	return func(h *Hero) { h.ID = id }
}

// New creates a Hero at full health with no capabilities.
//
// Precondition: name must be non-empty; starting health must be > 0.
// Postcondition: CurrentHealth == StartingHealth; Kills() == Deaths() == 0.
func New(name string, opts ...Option) (*Hero, error) {
	h := &Hero{
		Name:           name,
		StartingHealth: DefaultStartingHealth,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.Name == "" {
		return nil, fmt.Errorf("name must not be empty: %w", ErrInvalidHero)
	}
	if h.StartingHealth <= 0 {
		return nil, fmt.Errorf("hero %q: starting health must be > 0, got %d: %w", name, h.StartingHealth, ErrInvalidHero)
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.CurrentHealth = h.StartingHealth
	return h, nil
}

// String returns the hero's name.
func (h *Hero) String() string { return h.Name }

// Kills returns the number of duels this hero has won.
func (h *Hero) Kills() int { return h.kills }

// Deaths returns the number of duels this hero has lost.
func (h *Hero) Deaths() int { return h.deaths }

// AddKill records a duel win.
func (h *Hero) AddKill() { h.kills++ }

// AddDeath records a duel loss.
func (h *Hero) AddDeath() { h.deaths++ }

// RestoreCounters sets kill and death counters loaded from elsewhere.
//
// Precondition: kills >= 0; deaths >= 0.
func (h *Hero) RestoreCounters(kills, deaths int) {
	h.kills = kills
	h.deaths = deaths
}

// AddAbility appends c to the hero's attack capabilities.
func (h *Hero) AddAbility(c gear.Capability) {
	h.abilities = append(h.abilities, c)
}

// AddWeapon appends w to the same capability list abilities use.
func (h *Hero) AddWeapon(w *gear.Weapon) {
	h.abilities = append(h.abilities, w)
}

// AddArmor appends a to the hero's armors.
func (h *Hero) AddArmor(a *gear.Armor) {
	h.armors = append(h.armors, a)
}

// Abilities returns a copy of the hero's capabilities in insertion order.
func (h *Hero) Abilities() []gear.Capability {
	cp := make([]gear.Capability, len(h.abilities))
	copy(cp, h.abilities)
	return cp
}

// Armors returns a copy of the hero's armors in insertion order.
func (h *Hero) Armors() []*gear.Armor {
	cp := make([]*gear.Armor, len(h.armors))
	copy(cp, h.armors)
	return cp
}

// CanAttack reports whether the hero holds at least one capability.
func (h *Hero) CanAttack() bool { return len(h.abilities) > 0 }

// AttackRoll rolls every capability once and returns the audit trail.
//
// Postcondition: result.Total() >= 0; len(result.Rolls) == len(Abilities()).
func (h *Hero) AttackRoll() dice.RollResult {
	r := dice.RollResult{
		Label: h.Name + " attack",
		Names: make([]string, 0, len(h.abilities)),
		Rolls: make([]int, 0, len(h.abilities)),
	}
	for _, c := range h.abilities {
		r.Names = append(r.Names, c.Name())
		r.Rolls = append(r.Rolls, c.Attack())
	}
	return r
}

// Attack returns the sum of one independent roll from every capability held.
//
// Postcondition: result >= 0; 0 when no capabilities are held.
func (h *Hero) Attack() int {
	return h.AttackRoll().Total()
}

// BlockRoll rolls every armor once and returns the audit trail.
func (h *Hero) BlockRoll() dice.RollResult {
	r := dice.RollResult{
		Label: h.Name + " block",
		Names: make([]string, 0, len(h.armors)),
		Rolls: make([]int, 0, len(h.armors)),
	}
	for _, a := range h.armors {
		r.Names = append(r.Names, a.Name())
		r.Rolls = append(r.Rolls, a.Block())
	}
	return r
}

// Defend returns incoming minus the sum of one block roll per armor.
// The result is not clamped: a negative value means the armor over-blocked.
func (h *Hero) Defend(incoming int) int {
	return incoming - h.BlockRoll().Total()
}

// TakeDamage subtracts Defend(incoming) from CurrentHealth and returns the
// amount subtracted. A negative return means the hero was healed.
func (h *Hero) TakeDamage(incoming int) int {
	dmg := h.Defend(incoming)
	h.CurrentHealth -= dmg
	return dmg
}

// IsAlive reports whether CurrentHealth > 0.
func (h *Hero) IsAlive() bool { return h.CurrentHealth > 0 }

// Revive restores CurrentHealth to StartingHealth. Counters are untouched.
//
// Postcondition: CurrentHealth == StartingHealth.
func (h *Hero) Revive() {
	h.CurrentHealth = h.StartingHealth
}
