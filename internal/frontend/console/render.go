package console

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/cory-johannsen/arena/internal/game/arena"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/team"
)

func (c *Console) title(s string) string {
	return cases.Title(c.lang, cases.NoLower).String(s)
}

// RenderDuel formats a single duel outcome.
func (c *Console) RenderDuel(r combat.Result) string {
	switch {
	case r.Winner != nil:
		return c.style(Green, r.Summary())
	case r.Stalemate:
		return c.style(Yellow, c.printer.Sprintf("%s (stalemate after %d exchanges)", r.Summary(), r.Exchanges))
	default:
		return c.style(Dim, r.Summary())
	}
}

// RenderBattle formats every duel of a battle followed by a tally line.
func (c *Console) RenderBattle(res team.BattleResult) string {
	var b strings.Builder
	for _, r := range res.Results {
		b.WriteString(c.RenderDuel(r))
		b.WriteString("\n")
	}
	b.WriteString(c.printer.Sprintf("%d duels fought, %d forced to a draw\n", res.Duels, res.Stalemates))
	return b.String()
}

func (c *Console) ratio(s arena.SideReport) string {
	if !s.RatioDefined {
		return c.printer.Sprintf("undefined (%d kills, %d deaths)", s.Kills, s.Deaths)
	}
	return c.printer.Sprintf("%.2f", s.Ratio)
}

// RenderReport formats the winner, each side's kill/death ratio and every
// hero's standing.
func (c *Console) RenderReport(rep arena.Report) string {
	var b strings.Builder
	b.WriteString(c.style(Bold+BrightYellow, c.printer.Sprintf("Round %d: the winner is %s", rep.Round, c.title(rep.Winner))))
	b.WriteString("\n")
	for _, s := range rep.Sides {
		b.WriteString(c.printer.Sprintf("%s average kill/death: %s\n", c.title(s.Team), c.ratio(s)))
	}
	for _, s := range rep.Sides {
		b.WriteString(c.style(Cyan, c.title(s.Team)))
		b.WriteString("\n")
		b.WriteString(c.renderStats(s.Heroes))
	}
	return b.String()
}

func (c *Console) renderStats(stats []team.HeroStats) string {
	var b strings.Builder
	for _, s := range stats {
		mark := c.style(BrightGreen, "alive")
		if !s.Alive {
			mark = c.style(BrightRed, "fallen")
		}
		b.WriteString(c.printer.Sprintf("  %s - deaths: %d kills: %d [%s]\n", s.Name, s.Deaths, s.Kills, mark))
	}
	return b.String()
}

// RenderStats formats each member's kills and deaths.
func (c *Console) RenderStats(t *team.Team) string {
	return c.renderStats(t.Stats())
}

// RenderHeroes lists every member of t with current health.
func (c *Console) RenderHeroes(t *team.Team) string {
	var b strings.Builder
	b.WriteString(c.style(Cyan, c.title(t.Name)))
	b.WriteString("\n")
	for _, h := range t.Heroes() {
		b.WriteString(c.printer.Sprintf("  %s (%d/%d hp, %d abilities, %d armors)\n",
			h.Name, h.CurrentHealth, h.StartingHealth, len(h.Abilities()), len(h.Armors())))
	}
	return b.String()
}

// Println writes s followed by a newline.
func (c *Console) Println(s string) {
	c.write(s + "\n")
}

// Print writes s as is.
func (c *Console) Print(s string) {
	c.write(s)
}

// Warn writes s highlighted as a warning.
func (c *Console) Warn(s string) {
	c.write(c.style(BrightRed, s) + "\n")
}
