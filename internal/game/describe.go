package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// DescribeState renders the whole game as deterministic text: the
// adjudicator prompt and the console observer both build on it. Zone
// listings are sorted by card name so equal states always render
// identically regardless of arrival order.
func DescribeState(g *GameState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Turn %d, %s / %s, active: %s, priority: %s\n",
		g.Turn.TurnNumber(),
		g.Turn.CurrentPhase(),
		g.Turn.CurrentStep(),
		playerName(g, g.Turn.ActivePlayer()),
		playerName(g, g.Turn.PriorityPlayer()),
	)

	if items := g.Stack.List(); len(items) > 0 {
		b.WriteString("Stack (top first):\n")
		for i := len(items) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "  %d. %s (%s)\n", len(items)-i, items[i].Description, playerName(g, items[i].Controller))
		}
	} else {
		b.WriteString("Stack: empty\n")
	}

	for _, playerID := range g.Order {
		p := g.Player(playerID)
		fmt.Fprintf(&b, "%s: %d life", p.Name, p.Life)
		if p.Poison > 0 {
			fmt.Fprintf(&b, ", %d poison", p.Poison)
		}
		fmt.Fprintf(&b, ", hand %d, library %d", g.HandSize(playerID), g.LibrarySize(playerID))
		if p.HasLost {
			fmt.Fprintf(&b, ", LOST (%s)", p.LossReason)
		}
		b.WriteString("\n")

		writeZoneLine(&b, "Battlefield", describePermanents(g, playerID))
		writeZoneLine(&b, "Hand", zoneNames(g, playerID, rules.ZoneHand))
		writeZoneLine(&b, "Graveyard", zoneNames(g, playerID, rules.ZoneGraveyard))
		writeZoneLine(&b, "Exile", zoneNames(g, playerID, rules.ZoneExile))
	}

	if g.Over {
		fmt.Fprintf(&b, "Game over: %s\n", g.EndReason)
	}
	return b.String()
}

func writeZoneLine(b *strings.Builder, label string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, strings.Join(entries, ", "))
}

func zoneNames(g *GameState, playerID string, zone rules.Zone) []string {
	var names []string
	for _, ci := range g.CardsOf(playerID, zone) {
		names = append(names, ci.Name())
	}
	sort.Strings(names)
	return names
}

// describePermanents renders each battlefield permanent with its
// visible state: tap status, stats and damage for creatures, loyalty
// for planeswalkers, lore for sagas.
func describePermanents(g *GameState, playerID string) []string {
	var entries []string
	for _, ci := range g.BattlefieldOf(playerID) {
		entries = append(entries, describePermanent(g, ci))
	}
	sort.Strings(entries)
	return entries
}

func describePermanent(g *GameState, ci *CardInstance) string {
	var parts []string
	if ci.IsCreature() {
		stat := fmt.Sprintf("%d/%d", g.EffectivePower(ci), g.EffectiveToughness(ci))
		if ci.Damage > 0 {
			stat += fmt.Sprintf(", %d damage", ci.Damage)
		}
		parts = append(parts, stat)
	}
	if ci.Def.IsPlaneswalker() {
		parts = append(parts, fmt.Sprintf("%d loyalty", ci.Counters.Count(counters.Loyalty)))
	}
	if ci.Def.IsSaga() {
		parts = append(parts, fmt.Sprintf("chapter %d", ci.Counters.Count(counters.Lore)))
	}
	if n := ci.Counters.Count(counters.P1P1); n > 0 {
		parts = append(parts, fmt.Sprintf("%d +1/+1", n))
	}
	if ci.Tapped {
		parts = append(parts, "tapped")
	}
	if ci.Token {
		parts = append(parts, "token")
	}
	if len(parts) == 0 {
		return ci.Name()
	}
	return fmt.Sprintf("%s (%s)", ci.Name(), strings.Join(parts, ", "))
}

func playerName(g *GameState, playerID string) string {
	if p := g.Player(playerID); p != nil {
		return p.Name
	}
	return playerID
}
