package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/frontend/console"
	"github.com/cory-johannsen/arena/internal/game/arena"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// session drives the play-again loop over one arena.
type session struct {
	con     *console.Console
	arena   *arena.Arena
	scripts *scripting.Manager
	logger  *zap.Logger
}

// run fights battles until the player declines a rematch, input ends, or
// ctx is cancelled. A stalled battle is reported and the player may retry.
// Any other battle error is returned without rendering.
//
// Postcondition: Returns nil on a normal exit.
func (s *session) run(ctx context.Context) error {
	one, two := s.arena.Teams()
	s.con.Println(s.con.RenderHeroes(one))
	s.con.Println(s.con.RenderHeroes(two))

	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("session interrupted", zap.Error(err))
			return nil
		}

		res, err := s.arena.Battle()
		if err != nil && !errors.Is(err, combat.ErrStalemate) {
			return err
		}
		s.con.Print(s.con.RenderBattle(res))
		if s.scripts != nil {
			s.scripts.BattleEnded(res)
		}
		if err != nil {
			s.con.Warn(fmt.Sprintf("No winner: %v", err))
		} else {
			rep, err := s.arena.Report()
			if err != nil {
				return fmt.Errorf("reporting round %d: %w", s.arena.Round(), err)
			}
			s.con.Print(s.con.RenderReport(rep))
		}

		again, err := s.con.PlayAgain()
		if err != nil {
			if errors.Is(err, console.ErrInputClosed) {
				s.logger.Info("session ended while awaiting input", zap.Error(err))
				return nil
			}
			return err
		}
		if !again {
			return nil
		}
		s.arena.Rematch()
	}
}
