package roster

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gear"
	"github.com/cory-johannsen/arena/internal/game/hero"
	"github.com/cory-johannsen/arena/internal/game/team"
)

// Build creates a live hero from d. Capabilities draw from src.
//
// Precondition: defaultHealth > 0; d has passed validation.
// Postcondition: Returns a hero at full health with d's counters restored.
func (d HeroDef) Build(src dice.Source, defaultHealth int) (*hero.Hero, error) {
	hp := d.StartingHealth
	if hp == 0 {
		hp = defaultHealth
	}
	opts := []hero.Option{hero.WithStartingHealth(hp)}
	if d.ID != "" {
		opts = append(opts, hero.WithID(d.ID))
	}
	h, err := hero.New(d.Name, opts...)
	if err != nil {
		return nil, err
	}
	for _, c := range d.Abilities {
		a, err := gear.NewAbility(c.Name, c.MaxDamage, src)
		if err != nil {
			return nil, fmt.Errorf("hero %q: %w", d.Name, err)
		}
		h.AddAbility(a)
	}
	for _, c := range d.Weapons {
		w, err := gear.NewWeapon(c.Name, c.MaxDamage, src)
		if err != nil {
			return nil, fmt.Errorf("hero %q: %w", d.Name, err)
		}
		h.AddWeapon(w)
	}
	for _, c := range d.Armors {
		a, err := gear.NewArmor(c.Name, c.MaxBlock, src)
		if err != nil {
			return nil, fmt.Errorf("hero %q: %w", d.Name, err)
		}
		h.AddArmor(a)
	}
	h.RestoreCounters(d.Kills, d.Deaths)
	return h, nil
}

// Build creates a live team from d.
//
// Precondition: defaultHealth > 0.
// Postcondition: Every hero in d is present, alive, in definition order.
func (d TeamDef) Build(src dice.Source, defaultHealth int) (*team.Team, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	t := team.New(d.Name)
	for _, hd := range d.Heroes {
		h, err := hd.Build(src, defaultHealth)
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", d.Name, err)
		}
		t.AddHero(h)
	}
	return t, nil
}

// Build creates both teams of f.
func (f *File) Build(src dice.Source, defaultHealth int) (*team.Team, *team.Team, error) {
	if len(f.Teams) != 2 {
		return nil, nil, fmt.Errorf("%w: want 2 teams, got %d", ErrInvalidRoster, len(f.Teams))
	}
	one, err := f.Teams[0].Build(src, defaultHealth)
	if err != nil {
		return nil, nil, err
	}
	two, err := f.Teams[1].Build(src, defaultHealth)
	if err != nil {
		return nil, nil, err
	}
	return one, two, nil
}

// FromTeam captures t's roster, gear and counters as a definition.
// Weapons are recognised by type; every other capability is an ability.
func FromTeam(t *team.Team) TeamDef {
	def := TeamDef{Name: t.Name}
	for _, h := range t.Heroes() {
		hd := HeroDef{
			ID:             h.ID,
			Name:           h.Name,
			StartingHealth: h.StartingHealth,
			Kills:          h.Kills(),
			Deaths:         h.Deaths(),
		}
		for _, c := range h.Abilities() {
			cd := CapabilityDef{Name: c.Name(), MaxDamage: c.MaxDamage()}
			if _, ok := c.(*gear.Weapon); ok {
				hd.Weapons = append(hd.Weapons, cd)
			} else {
				hd.Abilities = append(hd.Abilities, cd)
			}
		}
		for _, a := range h.Armors() {
			hd.Armors = append(hd.Armors, ArmorDef{Name: a.Name(), MaxBlock: a.MaxBlock()})
		}
		def.Heroes = append(def.Heroes, hd)
	}
	return def
}
