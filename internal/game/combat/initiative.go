package combat

import (
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/hero"
)

// RollInitiative orders two combatants into (first, second) with a fair coin.
// The order is drawn fresh on every call.
//
// Precondition: src must be non-nil.
// Postcondition: {first, second} == {a, b}.
func RollInitiative(a, b *hero.Hero, src dice.Source) (first, second *hero.Hero) {
	if dice.Coin(src) {
		return b, a
	}
	return a, b
}
