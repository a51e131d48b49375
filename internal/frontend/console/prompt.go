// Package console builds heroes and teams from interactive line prompts and
// renders battle outcomes as terminal text.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gear"
	"github.com/cory-johannsen/arena/internal/game/hero"
	"github.com/cory-johannsen/arena/internal/game/team"
)

// ErrInputClosed is returned when the input ends, or the console's context is
// cancelled, before a prompt is answered.
var ErrInputClosed = errors.New("input closed")

// MaxTeamSize bounds the roster size prompt.
const MaxTeamSize = 100

// Console reads answers line by line from in and writes prompts and reports
// to out. It is not safe for concurrent use.
type Console struct {
	ctx           context.Context
	in            *bufio.Scanner
	lines         chan line
	start         sync.Once
	out           io.Writer
	src           dice.Source
	defaultHealth int
	color         bool
	lang          language.Tag
	printer       *message.Printer
}

// Option configures a Console.
type Option func(*Console)

type line struct {
	text string
	err  error
}

// WithContext makes every pending prompt return ErrInputClosed once ctx is
// done. A nil ctx is ignored.
func WithContext(ctx context.Context) Option {
	return func(c *Console) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithColor enables or disables ANSI styling.
func WithColor(on bool) Option {
	return func(c *Console) { c.color = on }
}

// WithStartingHealth sets the health given to heroes created at the prompt.
// Values <= 0 are ignored.
func WithStartingHealth(hp int) Option {
	return func(c *Console) {
		if hp > 0 {
			c.defaultHealth = hp
		}
	}
}

// WithLanguage sets the locale used for number formatting and title casing.
func WithLanguage(tag language.Tag) Option {
	return func(c *Console) { c.lang = tag }
}

// New creates a Console. Gear created at the prompt draws from src.
//
// Precondition: in, out and src must be non-nil.
func New(in io.Reader, out io.Writer, src dice.Source, opts ...Option) *Console {
	c := &Console{
		ctx:           context.Background(),
		in:            bufio.NewScanner(in),
		out:           out,
		src:           src,
		defaultHealth: hero.DefaultStartingHealth,
		lang:          language.English,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.printer = message.NewPrinter(c.lang)
	return c
}

func (c *Console) style(color, text string) string {
	if !c.color {
		return text
	}
	return Colorize(color, text)
}

func (c *Console) write(s string) {
	if !c.color {
		s = StripANSI(s)
	}
	_, _ = io.WriteString(c.out, s)
}

// readLines forwards input lines to c.lines so prompts can also wait on c.ctx.
func (c *Console) readLines() {
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- line{text: c.in.Text()}
	}
	if err := c.in.Err(); err != nil {
		c.lines <- line{err: err}
	}
}

func (c *Console) prompt(label string) (string, error) {
	c.start.Do(func() {
		c.lines = make(chan line)
		go c.readLines()
	})
	c.write(c.style(Cyan, label) + " ")
	if err := c.ctx.Err(); err != nil {
		return "", fmt.Errorf("awaiting %q: %w: %w", label, ErrInputClosed, err)
	}
	select {
	case <-c.ctx.Done():
		return "", fmt.Errorf("awaiting %q: %w: %w", label, ErrInputClosed, c.ctx.Err())
	case l, ok := <-c.lines:
		if !ok {
			return "", fmt.Errorf("awaiting %q: %w", label, ErrInputClosed)
		}
		if l.err != nil {
			return "", fmt.Errorf("reading %q: %w", label, l.err)
		}
		return strings.TrimSpace(l.text), nil
	}
}

func (c *Console) complain(msg string) {
	c.write(c.style(Yellow, msg) + "\n")
}

// ReadName prompts until a non-blank answer is given.
func (c *Console) ReadName(label string) (string, error) {
	for {
		s, err := c.prompt(label)
		if err != nil {
			return "", err
		}
		if s != "" {
			return s, nil
		}
		c.complain("A name is required.")
	}
}

// ReadInt prompts until an integer in [min, max] is given.
//
// Precondition: min <= max.
func (c *Console) ReadInt(label string, min, max int) (int, error) {
	for {
		s, err := c.prompt(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(s)
		if err == nil && n >= min && n <= max {
			return n, nil
		}
		c.complain(c.printer.Sprintf("Enter a whole number from %d to %d.", min, max))
	}
}

// Confirm asks a yes/no question until it gets y, yes, n or no in any case.
func (c *Console) Confirm(label string) (bool, error) {
	for {
		s, err := c.prompt(label)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(s) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.complain("Answer y or n.")
	}
}

// ReadAbility prompts for an ability's name and max damage.
func (c *Console) ReadAbility() (*gear.Ability, error) {
	name, err := c.ReadName("Ability name:")
	if err != nil {
		return nil, err
	}
	max, err := c.ReadInt("Max damage:", 0, gear.MaxStat)
	if err != nil {
		return nil, err
	}
	return gear.NewAbility(name, max, c.src)
}

// ReadWeapon prompts for a weapon's name and max damage.
func (c *Console) ReadWeapon() (*gear.Weapon, error) {
	name, err := c.ReadName("Weapon name:")
	if err != nil {
		return nil, err
	}
	max, err := c.ReadInt("Max damage:", gear.MinWeaponDamage, gear.MaxStat)
	if err != nil {
		return nil, err
	}
	return gear.NewWeapon(name, max, c.src)
}

// ReadArmor prompts for an armor's name and max block.
func (c *Console) ReadArmor() (*gear.Armor, error) {
	name, err := c.ReadName("Armor name:")
	if err != nil {
		return nil, err
	}
	max, err := c.ReadInt("Max block:", 0, gear.MaxStat)
	if err != nil {
		return nil, err
	}
	return gear.NewArmor(name, max, c.src)
}

// ReadHero prompts for a hero name and then offers armor, ability and weapon
// loops until each is declined.
func (c *Console) ReadHero() (*hero.Hero, error) {
	name, err := c.ReadName("Hero name:")
	if err != nil {
		return nil, err
	}
	h, err := hero.New(name, hero.WithStartingHealth(c.defaultHealth))
	if err != nil {
		return nil, err
	}
	for {
		more, err := c.Confirm("Add armor (y/n)?")
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		a, err := c.ReadArmor()
		if err != nil {
			return nil, err
		}
		h.AddArmor(a)
	}
	for {
		more, err := c.Confirm("Add ability (y/n)?")
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		a, err := c.ReadAbility()
		if err != nil {
			return nil, err
		}
		h.AddAbility(a)
	}
	for {
		more, err := c.Confirm("Add weapon (y/n)?")
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		w, err := c.ReadWeapon()
		if err != nil {
			return nil, err
		}
		h.AddWeapon(w)
	}
	return h, nil
}

// ReadTeam prompts for a team name, a roster size of at least one, and then
// each hero in turn.
func (c *Console) ReadTeam(label string) (*team.Team, error) {
	c.write(c.style(Bold+BrightYellow, label) + "\n")
	name, err := c.ReadName("Team name:")
	if err != nil {
		return nil, err
	}
	n, err := c.ReadInt("# of heroes:", 1, MaxTeamSize)
	if err != nil {
		return nil, err
	}
	t := team.New(name)
	for i := 0; i < n; i++ {
		c.write(c.printer.Sprintf("Hero %d of %d\n", i+1, n))
		h, err := c.ReadHero()
		if err != nil {
			return nil, fmt.Errorf("team %q: %w", name, err)
		}
		t.AddHero(h)
	}
	return t, nil
}

// PlayAgain asks whether to run another battle.
func (c *Console) PlayAgain() (bool, error) {
	return c.Confirm("Play again (y/n)?")
}
