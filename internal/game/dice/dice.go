// Package dice provides the core randomness abstraction and roll-result types
// for the arena combat engine.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for a compound roll: one draw per
// contributing source (every ability of an attacking hero, or every armor of
// a defending one).
//
// Postcondition: Total() == sum(Rolls).
type RollResult struct {
	Label string   // who or what rolled, e.g. "Athena attack"
	Names []string // name of the source behind each roll; parallel to Rolls
	Rolls []int    // individual results
}

// Total returns the sum of all individual rolls.
//
// Postcondition: return value == sum(r.Rolls); 0 when there are no rolls.
func (r RollResult) Total() int {
	total := 0
	for _, v := range r.Rolls {
		total += v
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"Athena attack → [sword:7 lasso:3] = 10"
//
// Precondition: r.Label is non-empty.
func (r RollResult) String() string {
	if r.Label == "" {
		panic("dice: RollResult.String() precondition violated: Label must be non-empty")
	}
	parts := make([]string, len(r.Rolls))
	for i, v := range r.Rolls {
		name := "?"
		if i < len(r.Names) {
			name = r.Names[i]
		}
		parts[i] = fmt.Sprintf("%s:%d", name, v)
	}
	return fmt.Sprintf("%s → [%s] = %d", r.Label, strings.Join(parts, " "), r.Total())
}

// Source is the randomness provider for every roll in the engine.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniformly random int in the half-open range [lo, hi).
//
// Precondition: lo < hi; src must be non-nil.
// Postcondition: lo <= result < hi.
func Between(src Source, lo, hi int) int {
	if lo >= hi {
		panic(fmt.Sprintf("dice: Between called with empty range [%d, %d)", lo, hi))
	}
	return lo + src.Intn(hi-lo)
}

// UpTo returns a uniformly random int in the closed range [0, max].
//
// Precondition: max >= 0; src must be non-nil.
// Postcondition: 0 <= result <= max.
func UpTo(src Source, max int) int {
	return src.Intn(max + 1)
}

// Coin returns true with probability 1/2.
func Coin(src Source) bool {
	return src.Intn(2) == 1
}
