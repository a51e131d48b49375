package combat

import (
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/hero"
)

// ExchangeResult holds the outcome of a single half-turn.
type ExchangeResult struct {
	// AttackerID is the attacking hero's ID.
	AttackerID string
	// DefenderID is the defending hero's ID.
	DefenderID string
	// Attack is the attacker's per-capability roll audit.
	Attack dice.RollResult
	// Applied is the health actually removed from the defender; negative when
	// the defender's armor over-blocked and healed them.
	Applied int
	// DefenderHealth is the defender's health after the exchange.
	DefenderHealth int
}

// ResolveExchange has attacker strike defender once.
//
// Precondition: attacker and defender must be non-nil.
// Postcondition: defender.CurrentHealth decreased by result.Applied.
func ResolveExchange(attacker, defender *hero.Hero) ExchangeResult {
	roll := attacker.AttackRoll()
	applied := defender.TakeDamage(roll.Total())
	return ExchangeResult{
		AttackerID:     attacker.ID,
		DefenderID:     defender.ID,
		Attack:         roll,
		Applied:        applied,
		DefenderHealth: defender.CurrentHealth,
	}
}
