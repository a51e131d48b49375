package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/arena/internal/game/roster"
)

// ErrTeamNotFound is returned when a team lookup yields no results.
var ErrTeamNotFound = errors.New("team not found")

// ErrTeamNameTaken is returned when saving a team whose name is already stored.
var ErrTeamNameTaken = errors.New("team name already taken")

// Gear kinds stored in hero_gear.kind.
const (
	kindAbility = "ability"
	kindWeapon  = "weapon"
	kindArmor   = "armor"
)

// RosterRepository stores team definitions: heroes and their gear. Kill and
// death counters are not persisted.
type RosterRepository struct {
	db *pgxpool.Pool
}

// NewRosterRepository creates a RosterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRosterRepository(db *pgxpool.Pool) *RosterRepository {
	return &RosterRepository{db: db}
}

// SaveTeam inserts def in a single transaction. Heroes without an ID are
// assigned one.
//
// Precondition: def must pass Validate.
// Postcondition: Returns the stored team's ID, or ErrTeamNameTaken on duplicate name.
func (r *RosterRepository) SaveTeam(ctx context.Context, def roster.TeamDef) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}
	teamID := uuid.NewString()
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO teams (id, name) VALUES ($1, $2)`, teamID, def.Name); err != nil {
			return err
		}
		return insertHeroes(ctx, tx, teamID, def.Heroes)
	})
	if err != nil {
		if isDuplicateKeyError(err) && violatedConstraint(err) == "teams_name_key" {
			return "", fmt.Errorf("team %q: %w", def.Name, ErrTeamNameTaken)
		}
		return "", fmt.Errorf("saving team %q: %w", def.Name, err)
	}
	return teamID, nil
}

// ReplaceTeam stores def under its name, replacing any existing team of that
// name and all of its heroes.
//
// Precondition: def must pass Validate.
func (r *RosterRepository) ReplaceTeam(ctx context.Context, def roster.TeamDef) (string, error) {
	if err := def.Validate(); err != nil {
		return "", err
	}
	teamID := uuid.NewString()
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM teams WHERE name = $1`, def.Name); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO teams (id, name) VALUES ($1, $2)`, teamID, def.Name); err != nil {
			return err
		}
		return insertHeroes(ctx, tx, teamID, def.Heroes)
	})
	if err != nil {
		return "", fmt.Errorf("replacing team %q: %w", def.Name, err)
	}
	return teamID, nil
}

func insertHeroes(ctx context.Context, tx pgx.Tx, teamID string, heroes []roster.HeroDef) error {
	batch := &pgx.Batch{}
	for pos, h := range heroes {
		heroID := h.ID
		if heroID == "" {
			heroID = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO heroes (id, team_id, name, starting_health, position)
			VALUES ($1, $2, $3, $4, $5)`,
			heroID, teamID, h.Name, h.StartingHealth, pos)
		queueGear := func(kind string, i int, name string, value int) {
			batch.Queue(`
				INSERT INTO hero_gear (hero_id, kind, position, name, value)
				VALUES ($1, $2, $3, $4, $5)`,
				heroID, kind, i, name, value)
		}
		for i, c := range h.Abilities {
			queueGear(kindAbility, i, c.Name, c.MaxDamage)
		}
		for i, c := range h.Weapons {
			queueGear(kindWeapon, i, c.Name, c.MaxDamage)
		}
		for i, a := range h.Armors {
			queueGear(kindArmor, i, a.Name, a.MaxBlock)
		}
	}
	return tx.SendBatch(ctx, batch).Close()
}

// LoadTeam reads the team named name with heroes and gear in saved order.
//
// Postcondition: Returns the definition or ErrTeamNotFound.
func (r *RosterRepository) LoadTeam(ctx context.Context, name string) (roster.TeamDef, error) {
	def := roster.TeamDef{Name: name}
	var teamID string
	err := r.db.QueryRow(ctx, `SELECT id FROM teams WHERE name = $1`, name).Scan(&teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return roster.TeamDef{}, fmt.Errorf("team %q: %w", name, ErrTeamNotFound)
		}
		return roster.TeamDef{}, fmt.Errorf("querying team %q: %w", name, err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, name, starting_health
		FROM heroes WHERE team_id = $1 ORDER BY position ASC`, teamID)
	if err != nil {
		return roster.TeamDef{}, fmt.Errorf("listing heroes of %q: %w", name, err)
	}
	index := make(map[string]int)
	for rows.Next() {
		var h roster.HeroDef
		if err := rows.Scan(&h.ID, &h.Name, &h.StartingHealth); err != nil {
			rows.Close()
			return roster.TeamDef{}, fmt.Errorf("scanning hero row: %w", err)
		}
		index[h.ID] = len(def.Heroes)
		def.Heroes = append(def.Heroes, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return roster.TeamDef{}, fmt.Errorf("listing heroes of %q: %w", name, err)
	}

	gear, err := r.db.Query(ctx, `
		SELECT g.hero_id, g.kind, g.name, g.value
		FROM hero_gear g JOIN heroes h ON h.id = g.hero_id
		WHERE h.team_id = $1
		ORDER BY g.hero_id, g.kind, g.position ASC`, teamID)
	if err != nil {
		return roster.TeamDef{}, fmt.Errorf("listing gear of %q: %w", name, err)
	}
	defer gear.Close()
	for gear.Next() {
		var heroID, kind, gname string
		var value int
		if err := gear.Scan(&heroID, &kind, &gname, &value); err != nil {
			return roster.TeamDef{}, fmt.Errorf("scanning gear row: %w", err)
		}
		h := &def.Heroes[index[heroID]]
		switch kind {
		case kindAbility:
			h.Abilities = append(h.Abilities, roster.CapabilityDef{Name: gname, MaxDamage: value})
		case kindWeapon:
			h.Weapons = append(h.Weapons, roster.CapabilityDef{Name: gname, MaxDamage: value})
		case kindArmor:
			h.Armors = append(h.Armors, roster.ArmorDef{Name: gname, MaxBlock: value})
		}
	}
	if err := gear.Err(); err != nil {
		return roster.TeamDef{}, fmt.Errorf("listing gear of %q: %w", name, err)
	}
	return def, nil
}

// ListTeams returns every stored team name in alphabetical order.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RosterRepository) ListTeams(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// DeleteTeam removes the team named name along with its heroes and gear.
//
// Postcondition: Returns nil on success, ErrTeamNotFound if no row was deleted.
func (r *RosterRepository) DeleteTeam(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teams WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting team %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("team %q: %w", name, ErrTeamNotFound)
	}
	return nil
}
