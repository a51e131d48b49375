// Package arena orchestrates a match between two teams: one battle at a
// time, a standings report after each, and rematches that revive both sides.
package arena

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/team"
)

// ErrNoBattle is returned by Report before any battle has concluded.
var ErrNoBattle = errors.New("no battle has concluded")

// SideReport is one team's standing in a Report.
type SideReport struct {
	Team   string
	Kills  int
	Deaths int
	// Ratio is Kills/Deaths. It is only meaningful when RatioDefined is true.
	Ratio        float64
	RatioDefined bool
	Heroes       []team.HeroStats
}

// Report is the outcome of the most recent battle plus cumulative standings.
type Report struct {
	Winner     string
	Loser      string
	Round      int
	Duels      int
	Stalemates int
	// Sides lists the two teams in the order they were given to New.
	Sides [2]SideReport
}

// Arena holds the two teams of a match and the last battle outcome.
type Arena struct {
	one, two *team.Team
	engine   *combat.Engine
	logger   *zap.Logger
	opts     []team.BattleOption

	round int
	last  *team.BattleResult
}

// New creates an Arena for one versus two.
//
// Precondition: one, two and engine must be non-nil. A nil logger is replaced
// by zap.NewNop().
func New(one, two *team.Team, engine *combat.Engine, logger *zap.Logger, opts ...team.BattleOption) *Arena {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Arena{
		one:    one,
		two:    two,
		engine: engine,
		logger: logger,
		opts:   append([]team.BattleOption{team.WithLogger(logger)}, opts...),
	}
}

// Teams returns both teams in the order given to New.
func (a *Arena) Teams() (*team.Team, *team.Team) { return a.one, a.two }

// Round returns the number of battles fought so far.
func (a *Arena) Round() int { return a.round }

// Battle runs one battle between the two teams and records its outcome.
//
// Postcondition: on nil error, Report succeeds. On a battle stalemate the
// partial result is returned with the error and Report fails with
// ErrNoBattle until the next battle concludes.
func (a *Arena) Battle() (team.BattleResult, error) {
	a.round++
	a.logger.Info("battle starting",
		zap.Int("round", a.round),
		zap.String("team_one", a.one.Name),
		zap.String("team_two", a.two.Name),
	)
	res, err := a.one.Battle(a.two, a.engine, a.engine.Source(), a.opts...)
	if err != nil {
		a.last = nil
		return res, fmt.Errorf("round %d: %w", a.round, err)
	}
	a.last = &res
	return res, nil
}

// Report returns the standings after the last concluded battle. The winner is
// the team that has not lost. Kill and death totals are cumulative across
// rematches.
func (a *Arena) Report() (Report, error) {
	if a.last == nil {
		return Report{}, ErrNoBattle
	}
	r := Report{
		Round:      a.round,
		Duels:      a.last.Duels,
		Stalemates: a.last.Stalemates,
		Sides:      [2]SideReport{side(a.one), side(a.two)},
	}
	switch {
	case a.two.HasLost() && !a.one.HasLost():
		r.Winner, r.Loser = a.one.Name, a.two.Name
	case a.one.HasLost() && !a.two.HasLost():
		r.Winner, r.Loser = a.two.Name, a.one.Name
	default:
		// Both sides revived by Rematch before the next battle.
		r.Winner, r.Loser = a.last.Winner.Name, a.last.Loser.Name
	}
	return r, nil
}

// Rematch revives every hero on both teams. Kill and death counters persist.
func (a *Arena) Rematch() {
	a.one.ReviveHeroes()
	a.two.ReviveHeroes()
	a.logger.Debug("teams revived", zap.Int("next_round", a.round+1))
}

func side(t *team.Team) SideReport {
	kills, deaths := t.Totals()
	ratio, err := t.KillDeathRatio()
	return SideReport{
		Team:         t.Name,
		Kills:        kills,
		Deaths:       deaths,
		Ratio:        ratio,
		RatioDefined: err == nil,
		Heroes:       t.Stats(),
	}
}
