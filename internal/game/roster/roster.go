// Package roster provides YAML definitions for teams of heroes and builds
// live teams from them.
package roster

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalidRoster is wrapped by every validation failure.
var ErrInvalidRoster = errors.New("invalid roster")

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// CapabilityDef describes an ability or weapon.
type CapabilityDef struct {
	Name      string `yaml:"name" validate:"notblank"`
	MaxDamage int    `yaml:"max_damage" validate:"gte=0,lte=1000000"`
}

// ArmorDef describes a piece of armor.
type ArmorDef struct {
	Name     string `yaml:"name" validate:"notblank"`
	MaxBlock int    `yaml:"max_block" validate:"gte=0,lte=1000000"`
}

// HeroDef describes a hero and everything it carries.
type HeroDef struct {
	ID   string `yaml:"id,omitempty" validate:"omitempty,uuid"`
	Name string `yaml:"name" validate:"notblank,max=64"`
	// StartingHealth of zero means the default is used at build time.
	StartingHealth int             `yaml:"starting_health,omitempty" validate:"gte=0"`
	Abilities      []CapabilityDef `yaml:"abilities,omitempty" validate:"dive"`
	// Weapons must have max_damage of at least 2.
	Weapons []CapabilityDef `yaml:"weapons,omitempty" validate:"dive"`
	Armors  []ArmorDef      `yaml:"armors,omitempty" validate:"dive"`
	// Kills and Deaths restore standings saved by a previous session.
	Kills  int `yaml:"kills,omitempty" validate:"gte=0"`
	Deaths int `yaml:"deaths,omitempty" validate:"gte=0"`
}

// TeamDef describes a named team.
type TeamDef struct {
	Name   string    `yaml:"name" validate:"notblank,max=64"`
	Heroes []HeroDef `yaml:"heroes" validate:"min=1,unique=Name,dive"`
}

// File is the top level of a roster file: exactly two teams.
type File struct {
	Teams []TeamDef `yaml:"teams" validate:"len=2,unique=Name,dive"`
}

// Validate reports every tag and weapon-range violation in t.
//
// Postcondition: Returns nil iff t is well-formed; otherwise the error wraps
// ErrInvalidRoster.
func (t *TeamDef) Validate() error {
	return check(validate.Struct(t), t.weaponErrors())
}

// Validate reports every violation in f.
//
// Postcondition: Returns nil iff f is well-formed; otherwise the error wraps
// ErrInvalidRoster.
func (f *File) Validate() error {
	var extra []string
	for i := range f.Teams {
		extra = append(extra, f.Teams[i].weaponErrors()...)
	}
	return check(validate.Struct(f), extra)
}

func (t *TeamDef) weaponErrors() []string {
	var out []string
	for _, h := range t.Heroes {
		for _, w := range h.Weapons {
			if w.MaxDamage < 2 {
				out = append(out, fmt.Sprintf("team %q hero %q weapon %q: max_damage must be >= 2, got %d", t.Name, h.Name, w.Name, w.MaxDamage))
			}
		}
	}
	return out
}

func check(err error, extra []string) error {
	msgs := append([]string(nil), extra...)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidRoster, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRoster, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Namespace())
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", fe.Namespace(), fe.Param())
	case "len", "min", "max", "gte", "lte":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}

// LoadFromBytes parses and validates a roster file from raw YAML.
//
// Postcondition: Returns a validated *File, or an error.
func LoadFromBytes(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and validates the roster file at path.
//
// Precondition: path must name a readable file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %q: %w", path, err)
	}
	f, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return f, nil
}

// Marshal renders f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
