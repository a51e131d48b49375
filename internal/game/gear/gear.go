// Package gear provides the capability primitives a hero carries into a duel:
// abilities and weapons that roll damage, and armors that roll blocks.
package gear

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// ErrInvalidConfiguration is returned when a primitive is constructed with a
// value outside its legal range.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxStat caps every configured damage or block ceiling. Hero totals are sums
// of rolls under this bound, so they cannot overflow.
const MaxStat = 1_000_000

// Capability is anything a hero can attack with.
type Capability interface {
	// Name returns the configured display name.
	Name() string
	// MaxDamage returns the configured damage ceiling.
	MaxDamage() int
	// Attack returns one independent damage roll.
	//
	// Postcondition: result >= 0.
	Attack() int
}

// Ability is a named source of damage rolled uniformly in [0, maxDamage].
type Ability struct {
	name      string
	maxDamage int
	src       dice.Source
}

// NewAbility creates an Ability.
//
// Precondition: 0 <= maxDamage <= MaxStat; src must be non-nil.
// Postcondition: Returns a usable Ability or an error wrapping ErrInvalidConfiguration.
func NewAbility(name string, maxDamage int, src dice.Source) (*Ability, error) {
	if err := validate("ability", name, "max_damage", maxDamage, 0, src); err != nil {
		return nil, err
	}
	return &Ability{name: name, maxDamage: maxDamage, src: src}, nil
}

// Name returns the ability name.
func (a *Ability) Name() string { return a.name }

// MaxDamage returns the configured damage ceiling.
func (a *Ability) MaxDamage() int { return a.maxDamage }

// Attack returns a uniformly random int in [0, MaxDamage()].
//
// Postcondition: 0 <= result <= MaxDamage().
func (a *Ability) Attack() int {
	return dice.UpTo(a.src, a.maxDamage)
}

// Weapon is a named source of damage rolled uniformly in the half-open range
// [floor(maxDamage/2), maxDamage). A weapon never deals its own maxDamage.
type Weapon struct {
	name      string
	maxDamage int
	src       dice.Source
}

// MinWeaponDamage is the smallest maxDamage that yields a non-empty weapon range.
const MinWeaponDamage = 2

// NewWeapon creates a Weapon.
//
// Values below MinWeaponDamage are rejected: for 0 the range [0, 0) is empty
// and for 1 the range [0, 1) could only ever roll zero.
//
// Precondition: MinWeaponDamage <= maxDamage <= MaxStat; src must be non-nil.
// Postcondition: Returns a usable Weapon or an error wrapping ErrInvalidConfiguration.
func NewWeapon(name string, maxDamage int, src dice.Source) (*Weapon, error) {
	if err := validate("weapon", name, "max_damage", maxDamage, MinWeaponDamage, src); err != nil {
		return nil, err
	}
	return &Weapon{name: name, maxDamage: maxDamage, src: src}, nil
}

// Name returns the weapon name.
func (w *Weapon) Name() string { return w.name }

// MaxDamage returns the configured (exclusive) damage ceiling.
func (w *Weapon) MaxDamage() int { return w.maxDamage }

// Attack returns a uniformly random int in [MaxDamage()/2, MaxDamage()).
//
// Postcondition: MaxDamage()/2 <= result < MaxDamage().
func (w *Weapon) Attack() int {
	return dice.Between(w.src, w.maxDamage/2, w.maxDamage)
}

// Armor is a named source of damage mitigation rolled uniformly in [0, maxBlock].
type Armor struct {
	name     string
	maxBlock int
	src      dice.Source
}

// NewArmor creates an Armor.
//
// Precondition: 0 <= maxBlock <= MaxStat; src must be non-nil.
// Postcondition: Returns a usable Armor or an error wrapping ErrInvalidConfiguration.
func NewArmor(name string, maxBlock int, src dice.Source) (*Armor, error) {
	if err := validate("armor", name, "max_block", maxBlock, 0, src); err != nil {
		return nil, err
	}
	return &Armor{name: name, maxBlock: maxBlock, src: src}, nil
}

// Name returns the armor name.
func (a *Armor) Name() string { return a.name }

// MaxBlock returns the configured block ceiling.
func (a *Armor) MaxBlock() int { return a.maxBlock }

// Block returns a uniformly random int in [0, MaxBlock()].
//
// Postcondition: 0 <= result <= MaxBlock().
func (a *Armor) Block() int {
	return dice.UpTo(a.src, a.maxBlock)
}

func validate(kind, name, field string, value, min int, src dice.Source) error {
	if src == nil {
		return fmt.Errorf("%s %q: random source must not be nil: %w", kind, name, ErrInvalidConfiguration)
	}
	if value < min {
		return fmt.Errorf("%s %q: %s must be >= %d, got %d: %w", kind, name, field, min, value, ErrInvalidConfiguration)
	}
	if value > MaxStat {
		return fmt.Errorf("%s %q: %s must be <= %d, got %d: %w", kind, name, field, MaxStat, value, ErrInvalidConfiguration)
	}
	return nil
}
