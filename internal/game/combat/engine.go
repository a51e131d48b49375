package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/hero"
)

// DuelHook is called after every concluded duel, including draws and stalemates.
type DuelHook func(Result)

// Engine resolves duels. It owns no hero state: it receives both combatants
// by reference and issues the kill/death increments on them.
//
// Engine is not safe for concurrent Fight calls on overlapping heroes.
type Engine struct {
	src          dice.Source
	logger       *zap.Logger
	maxExchanges int
	hooks        []DuelHook
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxExchanges overrides DefaultMaxExchanges. Values <= 0 are ignored.
func WithMaxExchanges(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxExchanges = n
		}
	}
}

// WithDuelHook registers a hook run after each concluded duel.
func WithDuelHook(h DuelHook) EngineOption {
	return func(e *Engine) {
		if h != nil {
			e.hooks = append(e.hooks, h)
		}
	}
}

// NewEngine creates a duel Engine drawing initiative from src.
//
// Precondition: src must be non-nil. A nil logger is replaced by zap.NewNop().
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(src dice.Source, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		src:          src,
		logger:       logger,
		maxExchanges: DefaultMaxExchanges,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxExchanges returns the per-duel exchange bound.
func (e *Engine) MaxExchanges() int { return e.maxExchanges }

// Source returns the random source the engine draws initiative from.
func (e *Engine) Source() dice.Source { return e.src }

// Fight resolves a duel between a and b.
//
// If neither hero holds a capability the duel is a draw and nothing is mutated.
// Otherwise initiative is drawn, the heroes alternate strikes until one falls,
// and the winner gains a kill while the fallen hero gains a death. If the
// exchange bound is reached first, the duel is abandoned as a forced draw and
// a *StalemateError is returned alongside the Result; counters are untouched.
//
// Precondition: a and b must be non-nil and distinct.
// Postcondition: result.State == Concluded.
func (e *Engine) Fight(a, b *hero.Hero) (Result, error) {
	if !a.CanAttack() && !b.CanAttack() {
		res := Result{State: Concluded, Draw: true}
		e.conclude(a, b, res)
		return res, nil
	}

	p1, p2 := RollInitiative(a, b, e.src)
	res := Result{State: InProgress, FirstAttacker: p1}

	attacker, defender := p1, p2
	for p1.IsAlive() && p2.IsAlive() {
		if res.Exchanges >= e.maxExchanges {
			res.State = Concluded
			res.Draw = true
			res.Stalemate = true
			e.logger.Warn("duel stalemate, forcing draw",
				zap.String("first", p1.Name),
				zap.String("second", p2.Name),
				zap.Int("first_health", p1.CurrentHealth),
				zap.Int("second_health", p2.CurrentHealth),
				zap.Int("limit", e.maxExchanges),
			)
			e.conclude(a, b, res)
			return res, &StalemateError{
				Scope:        "duel",
				Limit:        e.maxExchanges,
				Participants: [2]string{p1.Name, p2.Name},
			}
		}
		x := ResolveExchange(attacker, defender)
		res.Exchanges++
		if ce := e.logger.Check(zap.DebugLevel, "exchange"); ce != nil {
			ce.Write(
				zap.String("attacker", attacker.Name),
				zap.String("defender", defender.Name),
				zap.Ints("rolls", x.Attack.Rolls),
				zap.Int("applied", x.Applied),
				zap.Int("defender_health", x.DefenderHealth),
			)
		}
		attacker, defender = defender, attacker
	}

	res.State = Concluded
	switch {
	case p1.IsAlive():
		res.Winner = p1
		res.Loser = p2
	case p2.IsAlive():
		res.Winner = p2
		res.Loser = p1
	default:
		res.DoubleKnockout = true
	}
	if res.Winner != nil {
		res.Winner.AddKill()
	}
	if res.Loser != nil {
		res.Loser.AddDeath()
	}
	e.conclude(a, b, res)
	return res, nil
}

func (e *Engine) conclude(a, b *hero.Hero, res Result) {
	e.logger.Debug("duel concluded",
		zap.String("a", a.Name),
		zap.String("b", b.Name),
		zap.String("outcome", res.Summary()),
		zap.Int("exchanges", res.Exchanges),
		zap.Bool("stalemate", res.Stalemate),
	)
	for _, h := range e.hooks {
		h(res)
	}
}
