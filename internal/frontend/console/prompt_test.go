package console_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/frontend/console"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/gear"
)

func newConsole(input string, opts ...console.Option) (*console.Console, *bytes.Buffer) {
	var out bytes.Buffer
	return console.New(strings.NewReader(input), &out, dice.NewSeededSource(1), opts...), &out
}

func lines(s ...string) string { return strings.Join(s, "\n") + "\n" }

func TestReadName_RepromptsOnBlank(t *testing.T) {
	c, out := newConsole(lines("", "   ", "Thor"))
	name, err := c.ReadName("Name:")
	require.NoError(t, err)
	assert.Equal(t, "Thor", name)
	assert.Equal(t, 2, strings.Count(out.String(), "A name is required."))
}

func TestReadInt_Validation(t *testing.T) {
	c, out := newConsole(lines("abc", "-1", "2000000", "7"))
	n, err := c.ReadInt("Max damage:", 0, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, 3, strings.Count(out.String(), "Enter a whole number from 0 to 1,000,000."))
}

func TestConfirm(t *testing.T) {
	c, out := newConsole(lines("maybe", "YES", "n"))
	yes, err := c.Confirm("Continue?")
	require.NoError(t, err)
	assert.True(t, yes)
	no, err := c.Confirm("Continue?")
	require.NoError(t, err)
	assert.False(t, no)
	assert.Contains(t, out.String(), "Answer y or n.")
}

func TestPrompt_InputClosed(t *testing.T) {
	c, _ := newConsole("")
	_, err := c.ReadName("Name:")
	assert.ErrorIs(t, err, console.ErrInputClosed)

	c, _ = newConsole(lines("Thor", "y"))
	_, err = c.ReadHero()
	assert.ErrorIs(t, err, console.ErrInputClosed)
}

func TestPrompt_CancelledWhilePending(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	c := console.New(pr, &out, dice.NewSeededSource(1), console.WithContext(ctx))

	done := make(chan error, 1)
	go func() {
		_, err := c.ReadTeam("First team")
		done <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, console.ErrInputClosed)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("prompt did not return after cancellation")
	}
}

func TestPrompt_CancelledBeforeAsking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := newConsole(lines("y"), console.WithContext(ctx))
	_, err := c.PlayAgain()
	assert.ErrorIs(t, err, console.ErrInputClosed)
}

func TestReadHero_GearLoops(t *testing.T) {
	c, out := newConsole(lines(
		"Thor",
		"y", "Plate", "10",
		"y", "Cape", "2",
		"n",
		"y", "Lightning", "40",
		"n",
		"y", "Mjolnir", "1", "60",
		"n",
	), console.WithStartingHealth(150))
	h, err := c.ReadHero()
	require.NoError(t, err)

	assert.Equal(t, "Thor", h.Name)
	assert.Equal(t, 150, h.StartingHealth)
	require.Len(t, h.Armors(), 2)
	assert.Equal(t, "Cape", h.Armors()[1].Name())
	require.Len(t, h.Abilities(), 2)
	assert.Equal(t, 40, h.Abilities()[0].MaxDamage())
	w, ok := h.Abilities()[1].(*gear.Weapon)
	require.True(t, ok)
	assert.Equal(t, 60, w.MaxDamage())
	assert.Contains(t, out.String(), "Enter a whole number from 2 to", "degenerate weapon rejected at the prompt")
	assert.NotContains(t, out.String(), "\033[", "color is off by default")
}

func TestReadTeam(t *testing.T) {
	c, out := newConsole(lines(
		"Avengers",
		"0", "2",
		"Thor", "n", "y", "Hammer", "30", "n", "n",
		"Hulk", "n", "n", "n",
	))
	tm, err := c.ReadTeam("Team one")
	require.NoError(t, err)
	assert.Equal(t, "Avengers", tm.Name)
	assert.Equal(t, 2, tm.Size())
	assert.Equal(t, 2, tm.LivingCount())
	assert.Contains(t, out.String(), "Hero 2 of 2")
	assert.Contains(t, out.String(), "Enter a whole number from 1 to 100.")
}

func TestPlayAgain(t *testing.T) {
	c, _ := newConsole(lines("N"))
	again, err := c.PlayAgain()
	require.NoError(t, err)
	assert.False(t, again)
}

func TestWithColor_StylesPrompts(t *testing.T) {
	c, out := newConsole(lines("x"), console.WithColor(true))
	_, err := c.ReadName("Name:")
	require.NoError(t, err)
	assert.Contains(t, out.String(), console.Colorize(console.Cyan, "Name:"))
}
