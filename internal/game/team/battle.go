package team

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/hero"
)

// DefaultMaxDuels bounds a single battle.
const DefaultMaxDuels = 1_000

// ErrEmptyRoster is matched by every EmptyRosterError.
var ErrEmptyRoster = errors.New("empty roster")

// ErrNoLivingHeroes is returned when both teams are already eliminated before
// a battle starts, typically because ReviveHeroes was not called between rounds.
var ErrNoLivingHeroes = errors.New("no living heroes on either side")

// Side names which team of a battle an error refers to.
type Side string

const (
	SideOwn      Side = "own"
	SideOpposing Side = "opposing"
	SideBoth     Side = "both"
)

// EmptyRosterError reports a battle attempted with no heroes on a side.
type EmptyRosterError struct {
	Side  Side
	Teams []string
}

// Error implements error.
func (e *EmptyRosterError) Error() string {
	return fmt.Sprintf("%s roster has no heroes (%s): %s", e.Side, strings.Join(e.Teams, ", "), ErrEmptyRoster)
}

// Is makes errors.Is(err, ErrEmptyRoster) hold.
func (e *EmptyRosterError) Is(target error) bool { return target == ErrEmptyRoster }

// Fighter resolves a single duel. *combat.Engine satisfies it.
type Fighter interface {
	Fight(a, b *hero.Hero) (combat.Result, error)
}

// BattleResult summarizes a finished battle.
type BattleResult struct {
	// Winner is the team with living members left; nil if the battle stalled.
	Winner *Team
	// Loser is the eliminated team; nil if the battle stalled.
	Loser *Team
	// Duels is the number of duels fought.
	Duels int
	// Stalemates is the number of duels that were forced to a draw.
	Stalemates int
	// Results holds every duel outcome in order.
	Results []combat.Result
}

type battleConfig struct {
	maxDuels int
	logger   *zap.Logger
}

// BattleOption configures a Battle call.
type BattleOption func(*battleConfig)

// WithMaxDuels overrides DefaultMaxDuels. Values <= 0 are ignored.
func WithMaxDuels(n int) BattleOption {
	return func(c *battleConfig) {
		if n > 0 {
			c.maxDuels = n
		}
	}
}

// WithLogger sets the battle logger.
func WithLogger(l *zap.Logger) BattleOption {
	return func(c *battleConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Battle fights other until one team has no living members.
//
// Each round picks one living hero uniformly at random from each side and has
// fighter resolve a duel between them. Fallen heroes are never picked again.
// A duel that stalls is logged and counted; the battle carries on. If the
// duel bound is reached first, or every pairing of living heroes has already
// been forced to a draw, Battle returns a *combat.StalemateError with scope
// "battle" and the partial result.
//
// Precondition: fighter and src must be non-nil.
// Postcondition: on nil error, exactly one of t, other HasLost().
func (t *Team) Battle(other *Team, fighter Fighter, src dice.Source, opts ...BattleOption) (BattleResult, error) {
	cfg := battleConfig{maxDuels: DefaultMaxDuels, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case t.Size() == 0 && other.Size() == 0:
		return BattleResult{}, &EmptyRosterError{Side: SideBoth, Teams: []string{t.Name, other.Name}}
	case t.Size() == 0:
		return BattleResult{}, &EmptyRosterError{Side: SideOwn, Teams: []string{t.Name}}
	case other.Size() == 0:
		return BattleResult{}, &EmptyRosterError{Side: SideOpposing, Teams: []string{other.Name}}
	case t.HasLost() && other.HasLost():
		return BattleResult{}, fmt.Errorf("teams %q and %q: %w", t.Name, other.Name, ErrNoLivingHeroes)
	}

	var res BattleResult
	stalled := make(map[[2]*hero.Hero]struct{})
	for !t.HasLost() && !other.HasLost() {
		if res.Duels >= cfg.maxDuels {
			cfg.logger.Warn("battle stalemate",
				zap.String("team", t.Name),
				zap.String("opponent", other.Name),
				zap.Int("duels", res.Duels),
				zap.Int("stalemates", res.Stalemates),
			)
			return res, &combat.StalemateError{
				Scope:        "battle",
				Limit:        cfg.maxDuels,
				Participants: [2]string{t.Name, other.Name},
			}
		}

		ours, theirs := t.Living(), other.Living()
		if len(ours) == 0 || len(theirs) == 0 {
			t.Recount()
			other.Recount()
			continue
		}
		a := ours[src.Intn(len(ours))]
		b := theirs[src.Intn(len(theirs))]

		r, err := fighter.Fight(a, b)
		res.Duels++
		if err != nil {
			if !errors.Is(err, combat.ErrStalemate) {
				return res, fmt.Errorf("duel %d between %q and %q: %w", res.Duels, a.Name, b.Name, err)
			}
			res.Stalemates++
			stalled[[2]*hero.Hero{a, b}] = struct{}{}
			cfg.logger.Warn("duel forced to draw", zap.Error(err))
		}
		res.Results = append(res.Results, r)

		if !a.IsAlive() {
			t.living--
		}
		if !b.IsAlive() {
			other.living--
		}

		if len(stalled) > 0 && livingPairsStalled(stalled, t.LivingCount(), other.LivingCount()) {
			cfg.logger.Warn("battle stalemate",
				zap.String("team", t.Name),
				zap.String("opponent", other.Name),
				zap.Int("duels", res.Duels),
				zap.Int("stalemates", res.Stalemates),
				zap.Bool("stalled", true),
			)
			return res, &combat.StalemateError{
				Scope:        "battle",
				Limit:        cfg.maxDuels,
				Participants: [2]string{t.Name, other.Name},
				Stalled:      true,
			}
		}
	}

	if t.HasLost() {
		res.Winner, res.Loser = other, t
	} else {
		res.Winner, res.Loser = t, other
	}
	cfg.logger.Info("battle concluded",
		zap.String("winner", res.Winner.Name),
		zap.String("loser", res.Loser.Name),
		zap.Int("duels", res.Duels),
		zap.Int("stalemates", res.Stalemates),
	)
	return res, nil
}

// livingPairsStalled reports whether every pairing of living heroes has been
// forced to a draw at least once.
func livingPairsStalled(stalled map[[2]*hero.Hero]struct{}, ours, theirs int) bool {
	if ours <= 0 || theirs <= 0 {
		return false
	}
	n := 0
	for pair := range stalled {
		if pair[0].IsAlive() && pair[1].IsAlive() {
			n++
		}
	}
	return n == ours*theirs
}
