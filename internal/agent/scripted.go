package agent

import (
	"github.com/spellstack/gauntlet/internal/game"
)

// ScriptedOpponent follows a curve: land drop, then the cheapest
// castable spell, then attacks with everything into the player. It
// blocks only when a block kills the attacker without losing the
// blocker, keeps every seven, and otherwise takes first offers.
type ScriptedOpponent struct{}

// NewScriptedOpponent builds the curve follower.
func NewScriptedOpponent() *ScriptedOpponent {
	return &ScriptedOpponent{}
}

func (s *ScriptedOpponent) ChooseAction(g *game.GameState, playerID string, legal []game.Action) game.Action {
	if a, ok := firstOfType(legal, game.ActionPlayLand); ok {
		return a
	}
	best := game.Action{}
	bestCMC := -1
	for _, a := range legal {
		if a.Type != game.ActionCast {
			continue
		}
		cmc := cardCMC(g, a.CardID)
		if bestCMC == -1 || cmc < bestCMC {
			best = a
			bestCMC = cmc
		}
	}
	if bestCMC != -1 {
		return best
	}
	for _, a := range legal {
		if a.Type != game.ActionAttack || len(a.Targets) == 0 {
			continue
		}
		if _, isPlayer := game.TargetPlayerID(a.Targets[0]); isPlayer {
			return a
		}
	}
	if hasType(legal, game.ActionBlock) {
		return s.chooseBlock(g, legal)
	}
	return legal[0]
}

func (s *ScriptedOpponent) chooseBlock(g *game.GameState, legal []game.Action) game.Action {
	for _, a := range legal {
		if a.Type != game.ActionBlock || len(a.Targets) == 0 {
			continue
		}
		blocker := g.Card(a.CardID)
		attacker := g.Card(a.Targets[0])
		if blocker == nil || attacker == nil {
			continue
		}
		kills := g.EffectivePower(blocker) >= g.EffectiveToughness(attacker)-attacker.Damage
		survives := g.EffectivePower(attacker) < g.EffectiveToughness(blocker)-blocker.Damage
		if kills && survives {
			return a
		}
	}
	return legal[0]
}

func (s *ScriptedOpponent) Mulligan(g *game.GameState, playerID string) bool {
	return false
}

func (s *ScriptedOpponent) CardsToBottom(g *game.GameState, playerID string, n int) []string {
	hand := handIDs(g, playerID)
	if n > len(hand) {
		n = len(hand)
	}
	return hand[:n]
}

func (s *ScriptedOpponent) DiscardTarget(g *game.GameState, playerID, opponentID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

// DiscardFromHand keeps lands so the curve keeps coming.
func (s *ScriptedOpponent) DiscardFromHand(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, id := range candidates {
		if !isLandCard(g, id) {
			return id
		}
	}
	return candidates[0]
}

func (s *ScriptedOpponent) SacrificeTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (s *ScriptedOpponent) SearchTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (s *ScriptedOpponent) Scry(g *game.GameState, playerID string, top []string) (keep, bottom []string) {
	return top, nil
}
