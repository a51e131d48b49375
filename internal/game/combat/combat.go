// Package combat implements the one-on-one duel engine.
package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/hero"
)

// DefaultMaxExchanges bounds a single duel. Each half-turn counts as one exchange.
const DefaultMaxExchanges = 1_000

// ErrStalemate is matched by every StalemateError.
var ErrStalemate = errors.New("stalemate")

// StalemateError reports that a duel or battle loop hit its iteration bound
// without reaching a terminal state.
type StalemateError struct {
	// Scope is "duel" or "battle".
	Scope string
	// Limit is the bound that was exceeded.
	Limit int
	// Participants names the two combatants or teams involved.
	Participants [2]string
	// Stalled is set when a battle stopped before Limit because every pairing
	// of living heroes had already been forced to a draw.
	Stalled bool
}

// Error implements error.
func (e *StalemateError) Error() string {
	if e.Stalled {
		return fmt.Sprintf("%s between %q and %q stalled: every living pairing was forced to a draw: %s",
			e.Scope, e.Participants[0], e.Participants[1], ErrStalemate)
	}
	return fmt.Sprintf("%s between %q and %q exceeded %d iterations: %s",
		e.Scope, e.Participants[0], e.Participants[1], e.Limit, ErrStalemate)
}

// Is makes errors.Is(err, ErrStalemate) hold.
func (e *StalemateError) Is(target error) bool { return target == ErrStalemate }

// State is the duel lifecycle.
type State int

const (
	NotStarted State = iota
	InProgress
	Concluded
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Concluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// Result is the structured outcome of one duel.
//
// Invariant: when State == Concluded exactly one of (Winner != nil), Draw,
// DoubleKnockout holds.
type Result struct {
	State State
	// Winner is the surviving hero, nil on draw or double knockout.
	Winner *hero.Hero
	// Loser is the hero that fell, nil on draw or when no one fell.
	Loser *hero.Hero
	// FirstAttacker is the hero that won initiative; nil when the duel short-circuited.
	FirstAttacker *hero.Hero
	// Draw is true when neither side could attack or the duel stalled.
	Draw bool
	// Stalemate is true when Draw was forced by the exchange bound.
	Stalemate bool
	// DoubleKnockout is true when both combatants ended at or below zero health.
	DoubleKnockout bool
	// Exchanges is the number of half-turns resolved.
	Exchanges int
}

// Summary returns the textual duel report: "<winner> won", "Draw", or
// "Double knockout".
func (r Result) Summary() string {
	switch {
	case r.Winner != nil:
		return fmt.Sprintf("%s won", r.Winner.Name)
	case r.DoubleKnockout:
		return "Double knockout"
	default:
		return "Draw"
	}
}
