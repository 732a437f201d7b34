package game

import (
	"sort"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// resolveLoyalty runs a loyalty ability coming off the stack. The
// loyalty cost was already paid on activation.
func (e *Engine) resolveLoyalty(g *GameState, key string, it rules.StackItem) error {
	switch key {
	case "Liliana of the Veil +1":
		// Each player discards, active player first.
		active := g.Turn.ActivePlayer()
		e.discardChosen(g, active, 1)
		e.discardChosen(g, g.Opponent(active).ID, 1)

	case "Liliana of the Veil -2":
		if len(it.Targets) == 0 {
			return nil
		}
		if playerID, isPlayer := TargetPlayerID(it.Targets[0]); isPlayer {
			if !e.chooseSacrifice(g, playerID, func(c *CardInstance) bool { return c.IsCreature() }) {
				g.Logf("%s has no creature to sacrifice", g.Player(playerID).Name)
			}
		}

	case "Liliana of the Veil -6":
		if len(it.Targets) == 0 {
			return nil
		}
		if playerID, isPlayer := TargetPlayerID(it.Targets[0]); isPlayer {
			e.sacrificePile(g, playerID)
		}

	case "Teferi, Time Raveler +1":
		if teferi := g.Card(it.SourceID); teferi != nil && teferi.Zone == rules.ZoneBattlefield {
			teferi.Counters.Add(counters.SorceryFlash, 1)
			g.Logf("%s may cast sorceries as though they had flash", g.Player(teferi.Controller).Name)
		}

	case "Teferi, Time Raveler -3":
		if len(it.Targets) > 0 {
			if bounced := g.Card(it.Targets[0]); bounced != nil && bounced.Zone == rules.ZoneBattlefield {
				g.MoveCard(bounced.ID, rules.ZoneHand)
				g.Logf("%s is returned to its owner's hand", bounced.Name())
			}
		}
		if _, drew := g.Draw(it.Controller); drew {
			g.Logf("%s draws a card", g.Player(it.Controller).Name)
		}
	}
	return nil
}

// sacrificePile implements the two-pile ultimatum: permanents are dealt
// into two piles balanced by mana value, and the player keeps the more
// valuable pile.
func (e *Engine) sacrificePile(g *GameState, playerID string) {
	perms := g.BattlefieldOf(playerID)
	if len(perms) == 0 {
		return
	}
	sorted := append([]*CardInstance(nil), perms...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Def.CMC > sorted[j].Def.CMC
	})

	var pileA, pileB []*CardInstance
	totalA, totalB := 0, 0
	for i, ci := range sorted {
		if i%2 == 0 {
			pileA = append(pileA, ci)
			totalA += ci.Def.CMC
		} else {
			pileB = append(pileB, ci)
			totalB += ci.Def.CMC
		}
	}

	doomed := pileB
	if totalA < totalB || (totalA == totalB && len(pileA) < len(pileB)) {
		doomed = pileA
	}
	g.Logf("%s sacrifices a pile of %d permanent(s)", g.Player(playerID).Name, len(doomed))
	for _, ci := range doomed {
		e.sacrificePermanent(g, ci)
	}
}
