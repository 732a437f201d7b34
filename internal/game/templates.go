package game

import (
	"strconv"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// templateFunc resolves one named spell. The card is still in the stack
// zone when the template runs; the caller moves it to the graveyard or
// battlefield afterwards.
type templateFunc func(e *Engine, g *GameState, item rules.StackItem) error

// buildTemplates is the deterministic resolution tier: every card in
// the builtin pool that needs more than the default permanent arrival
// has an entry here. Cards outside this table fall through to the
// external adjudicator.
func buildTemplates() map[string]templateFunc {
	return map[string]templateFunc{
		"Thoughtseize": func(e *Engine, g *GameState, item rules.StackItem) error {
			target, ok := itemPlayerTarget(item)
			if !ok {
				return nil
			}
			e.revealAndDiscard(g, item.Controller, target, func(c *CardInstance) bool { return !c.Def.IsLand() })
			e.loseLife(g, item.Controller, 2, item.CardID)
			return nil
		},

		"Inquisition of Kozilek": func(e *Engine, g *GameState, item rules.StackItem) error {
			target, ok := itemPlayerTarget(item)
			if !ok {
				return nil
			}
			e.revealAndDiscard(g, item.Controller, target, func(c *CardInstance) bool {
				return !c.Def.IsLand() && c.Def.CMC <= 3
			})
			return nil
		},

		"Raven's Crime": func(e *Engine, g *GameState, item rules.StackItem) error {
			if target, ok := itemPlayerTarget(item); ok {
				e.discardChosen(g, target, 1)
			}
			return nil
		},

		"Wrench Mind": func(e *Engine, g *GameState, item rules.StackItem) error {
			target, ok := itemPlayerTarget(item)
			if !ok {
				return nil
			}
			var artifacts []string
			for _, c := range g.CardsOf(target, rules.ZoneHand) {
				if c.Def.IsArtifact() {
					artifacts = append(artifacts, c.ID)
				}
			}
			if len(artifacts) > 0 {
				choice := chooseFrom(e.agents[target].DiscardFromHand(g, target, artifacts), artifacts)
				e.discardCard(g, target, choice)
				return nil
			}
			for i := 0; i < 2; i++ {
				hand := g.CardsOf(target, rules.ZoneHand)
				if len(hand) == 0 {
					return nil
				}
				e.discardCard(g, target, hand[g.Rng().Intn(len(hand))].ID)
			}
			return nil
		},

		"Funeral Charm": func(e *Engine, g *GameState, item rules.StackItem) error {
			switch itemMode(item) {
			case 0:
				if target, ok := itemPlayerTarget(item); ok {
					e.discardChosen(g, target, 1)
				}
			case 1:
				if victim := itemCardTarget(g, item); victim != nil {
					victim.Counters.Pump(2, -1)
					g.Logf("%s gets +2/-1 until end of turn", victim.Name())
				}
			case 2:
				if victim := itemCardTarget(g, item); victim != nil {
					victim.Counters.Add(counters.Swampwalk, 1)
					g.Logf("%s gains swampwalk until end of turn", victim.Name())
				}
			}
			return nil
		},

		"Smallpox": func(e *Engine, g *GameState, item rules.StackItem) error {
			order := apnap(g)
			for _, playerID := range order {
				e.loseLife(g, playerID, 1, item.CardID)
			}
			for _, playerID := range order {
				e.discardChosen(g, playerID, 1)
			}
			for _, playerID := range order {
				e.chooseSacrifice(g, playerID, func(c *CardInstance) bool { return c.IsCreature() })
			}
			for _, playerID := range order {
				e.chooseSacrifice(g, playerID, func(c *CardInstance) bool { return c.Def.IsLand() })
			}
			return nil
		},

		"Bontu's Last Reckoning": func(e *Engine, g *GameState, item rules.StackItem) error {
			for _, ci := range g.Battlefield() {
				if ci.IsCreature() {
					e.destroyPermanent(g, ci)
				}
			}
			for _, ci := range g.BattlefieldOf(item.Controller) {
				if ci.Def.IsLand() {
					ci.Counters.Add(counters.SkipUntap, 1)
				}
			}
			g.Logf("%s's lands won't untap next turn", g.Player(item.Controller).Name)
			return nil
		},

		"Fatal Push": func(e *Engine, g *GameState, item rules.StackItem) error {
			victim := itemCardTarget(g, item)
			if victim == nil {
				return nil
			}
			threshold := 2
			if g.PermanentsLeftThisTurn(item.Controller) > 0 {
				threshold = 4
			}
			if victim.Def.CMC > threshold {
				g.Logf("%s survives Fatal Push, mana value %d is too high", victim.Name(), victim.Def.CMC)
				return nil
			}
			e.destroyPermanent(g, victim)
			return nil
		},

		"Bloodchief's Thirst": func(e *Engine, g *GameState, item rules.StackItem) error {
			victim := itemCardTarget(g, item)
			if victim == nil {
				return nil
			}
			if itemMode(item) == 0 && victim.Def.CMC > 2 {
				g.Logf("%s survives Bloodchief's Thirst, mana value %d is too high", victim.Name(), victim.Def.CMC)
				return nil
			}
			e.destroyPermanent(g, victim)
			return nil
		},

		"Sheoldred's Edict": func(e *Engine, g *GameState, item rules.StackItem) error {
			opp := g.Opponent(item.Controller).ID
			if itemMode(item) == 0 {
				if !e.chooseSacrifice(g, opp, func(c *CardInstance) bool { return c.IsCreature() }) {
					g.Logf("%s has no creature to sacrifice", g.Player(opp).Name)
				}
			} else {
				if !e.chooseSacrifice(g, opp, func(c *CardInstance) bool { return c.Def.IsPlaneswalker() }) {
					g.Logf("%s has no planeswalker to sacrifice", g.Player(opp).Name)
				}
			}
			return nil
		},

		"Dismember": func(e *Engine, g *GameState, item rules.StackItem) error {
			if victim := itemCardTarget(g, item); victim != nil {
				victim.Counters.Pump(-5, -5)
				g.Logf("%s gets -5/-5 until end of turn", victim.Name())
			}
			return nil
		},

		"Lightning Bolt": func(e *Engine, g *GameState, item rules.StackItem) error {
			if len(item.Targets) > 0 {
				e.damageTarget(g, g.Card(item.CardID), item.Targets[0], 3)
			}
			return nil
		},

		"Grapeshot": func(e *Engine, g *GameState, item rules.StackItem) error {
			if len(item.Targets) == 0 {
				return nil
			}
			// One copy per spell cast before it this turn, plus the
			// original.
			count := g.SpellsCastThisTurn()
			if count < 1 {
				count = 1
			}
			g.Logf("Grapeshot storm count %d", count-1)
			for i := 0; i < count; i++ {
				e.damageTarget(g, g.Card(item.CardID), item.Targets[0], 1)
			}
			return nil
		},

		"Prismatic Ending": func(e *Engine, g *GameState, item rules.StackItem) error {
			victim := itemCardTarget(g, item)
			if victim == nil {
				return nil
			}
			if victim.Def.CMC > itemX(item) {
				g.Logf("%s survives Prismatic Ending, mana value %d exceeds X", victim.Name(), victim.Def.CMC)
				return nil
			}
			g.MoveCard(victim.ID, rules.ZoneExile)
			g.Logf("%s is exiled", victim.Name())
			return nil
		},

		"All Is Dust": func(e *Engine, g *GameState, item rules.StackItem) error {
			for _, playerID := range apnap(g) {
				for _, ci := range g.BattlefieldOf(playerID) {
					if len(ci.Def.Colors) > 0 {
						e.sacrificePermanent(g, ci)
					}
				}
			}
			return nil
		},

		"Desperate Ritual": ritualTemplate,
		"Pyretic Ritual":   ritualTemplate,

		"Manamorphose": func(e *Engine, g *GameState, item rules.StackItem) error {
			g.Player(item.Controller).Pool.Add(mana.ManaRed, 2)
			g.Logf("%s adds {R}{R}", g.Player(item.Controller).Name)
			if _, drew := g.Draw(item.Controller); drew {
				g.Logf("%s draws a card", g.Player(item.Controller).Name)
			}
			return nil
		},
	}
}

func ritualTemplate(e *Engine, g *GameState, item rules.StackItem) error {
	g.Player(item.Controller).Pool.Add(mana.ManaRed, 3)
	g.Logf("%s adds {R}{R}{R}", g.Player(item.Controller).Name)
	return nil
}

// destroyPermanent is removal that respects indestructible, unlike a
// sacrifice or a zero-toughness death.
func (e *Engine) destroyPermanent(g *GameState, ci *CardInstance) {
	if ci == nil || ci.Zone != rules.ZoneBattlefield {
		return
	}
	if ci.IsCreature() && g.CreatureHasKeyword(ci, "Indestructible") {
		g.Logf("%s is indestructible", ci.Name())
		return
	}
	g.Logf("%s is destroyed", ci.Name())
	g.PutIntoGraveyard(ci)
}

// apnap is the turn-order pair: active player, then the other.
func apnap(g *GameState) []string {
	active := g.Turn.ActivePlayer()
	return []string{active, g.Opponent(active).ID}
}

func itemMode(item rules.StackItem) int {
	n, _ := strconv.Atoi(item.Metadata["mode"])
	return n
}

func itemX(item rules.StackItem) int {
	n, _ := strconv.Atoi(item.Metadata["x"])
	return n
}

// itemPlayerTarget unwraps a player target tag from the item's first
// target.
func itemPlayerTarget(item rules.StackItem) (string, bool) {
	if len(item.Targets) == 0 {
		return "", false
	}
	return TargetPlayerID(item.Targets[0])
}

// itemCardTarget fetches the first target as a battlefield permanent,
// nil when it has left.
func itemCardTarget(g *GameState, item rules.StackItem) *CardInstance {
	if len(item.Targets) == 0 {
		return nil
	}
	ci := g.Card(item.Targets[0])
	if ci == nil || ci.Zone != rules.ZoneBattlefield {
		return nil
	}
	return ci
}
