// Package agent provides the stock Agent implementations the simulator
// ships with: a priority-list pilot for the deck under test, a
// curve-following scripted opponent, and a goldfish that never acts.
// All three are deterministic so replaying a seed replays the game.
package agent

import (
	"sort"

	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// cardCMC looks up the printed mana value of an instance, 0 when the
// ID is unknown (token cleanup races in observers, never in the loop).
func cardCMC(g *game.GameState, cardID string) int {
	ci := g.Card(cardID)
	if ci == nil {
		return 0
	}
	return ci.Def.CMC
}

func isLandCard(g *game.GameState, cardID string) bool {
	ci := g.Card(cardID)
	return ci != nil && ci.Def.IsLand()
}

func isBasicCard(g *game.GameState, cardID string) bool {
	ci := g.Card(cardID)
	return ci != nil && ci.Def.IsBasicLand()
}

// landsInHand counts land cards among a hand's instance IDs.
func landsInHand(g *game.GameState, ids []string) int {
	n := 0
	for _, id := range ids {
		if isLandCard(g, id) {
			n++
		}
	}
	return n
}

// landsInPlay counts lands the player controls.
func landsInPlay(g *game.GameState, playerID string) int {
	n := 0
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Def.IsLand() {
			n++
		}
	}
	return n
}

func handIDs(g *game.GameState, playerID string) []string {
	cards := g.CardsOf(playerID, rules.ZoneHand)
	ids := make([]string, 0, len(cards))
	for _, ci := range cards {
		ids = append(ids, ci.ID)
	}
	return ids
}

// sortByCMCDesc orders instance IDs from most to least expensive,
// stable so equal costs keep their offer order.
func sortByCMCDesc(g *game.GameState, ids []string) []string {
	out := append([]string(nil), ids...)
	sort.SliceStable(out, func(i, j int) bool {
		return cardCMC(g, out[i]) > cardCMC(g, out[j])
	})
	return out
}

// firstOfType returns the first legal action of the given type, or
// false when the list offers none.
func firstOfType(legal []game.Action, t game.ActionType) (game.Action, bool) {
	for _, a := range legal {
		if a.Type == t {
			return a, true
		}
	}
	return game.Action{}, false
}

func hasType(legal []game.Action, t game.ActionType) bool {
	_, ok := firstOfType(legal, t)
	return ok
}
