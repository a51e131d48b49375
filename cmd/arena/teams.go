package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/frontend/console"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/team"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

// teamStore is the subset of postgres.RosterRepository used to load and save teams.
type teamStore interface {
	LoadTeam(ctx context.Context, name string) (roster.TeamDef, error)
	ReplaceTeam(ctx context.Context, def roster.TeamDef) (string, error)
}

var _ teamStore = (*postgres.RosterRepository)(nil)

// teamSource picks where the two teams come from: stored teams, a roster
// file, or the console prompts, in that order of preference.
type teamSource struct {
	con           *console.Console
	src           dice.Source
	defaultHealth int
	rosterFile    string
	stored        []string
	repo          teamStore
	logger        *zap.Logger
}

func (s teamSource) teams(ctx context.Context) (*team.Team, *team.Team, error) {
	switch {
	case len(s.stored) > 0:
		return s.fromStore(ctx)
	case s.rosterFile != "":
		f, err := roster.Load(s.rosterFile)
		if err != nil {
			return nil, nil, err
		}
		one, two, err := f.Build(s.src, s.defaultHealth)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("teams loaded from roster", zap.String("path", s.rosterFile))
		return one, two, nil
	default:
		one, err := s.con.ReadTeam("First team")
		if err != nil {
			return nil, nil, err
		}
		two, err := s.con.ReadTeam("Second team")
		if err != nil {
			return nil, nil, err
		}
		return one, two, nil
	}
}

func (s teamSource) fromStore(ctx context.Context) (*team.Team, *team.Team, error) {
	if len(s.stored) != 2 {
		return nil, nil, fmt.Errorf("expected two stored team names, got %d", len(s.stored))
	}
	if s.repo == nil {
		return nil, nil, fmt.Errorf("loading stored teams: no database configured")
	}
	var built [2]*team.Team
	for i, name := range s.stored {
		def, err := s.repo.LoadTeam(ctx, strings.TrimSpace(name))
		if err != nil {
			return nil, nil, err
		}
		t, err := def.Build(s.src, s.defaultHealth)
		if err != nil {
			return nil, nil, err
		}
		built[i] = t
	}
	s.logger.Info("teams loaded from database",
		zap.String("team_one", built[0].Name),
		zap.String("team_two", built[1].Name),
	)
	return built[0], built[1], nil
}

func (s teamSource) save(ctx context.Context, teams ...*team.Team) error {
	if s.repo == nil {
		return fmt.Errorf("saving teams: no database configured")
	}
	for _, t := range teams {
		id, err := s.repo.ReplaceTeam(ctx, roster.FromTeam(t))
		if err != nil {
			return err
		}
		s.logger.Info("team saved", zap.String("team", t.Name), zap.String("id", id))
	}
	return nil
}

// exportRoster writes one and two to path as a roster file.
func exportRoster(path string, one, two *team.Team) error {
	f := roster.File{Teams: []roster.TeamDef{roster.FromTeam(one), roster.FromTeam(two)}}
	if err := f.Validate(); err != nil {
		return err
	}
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("marshalling roster: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing roster %q: %w", path, err)
	}
	return nil
}
