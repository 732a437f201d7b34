package agent

import (
	"github.com/spellstack/gauntlet/internal/game"
)

// GoldfishOpponent does nothing at all: it passes every priority,
// never attacks or blocks, and takes the first offer whenever a choice
// is forced on it. Useful for measuring a deck's raw speed.
type GoldfishOpponent struct{}

// NewGoldfishOpponent builds the do-nothing opponent.
func NewGoldfishOpponent() *GoldfishOpponent {
	return &GoldfishOpponent{}
}

func (gf *GoldfishOpponent) ChooseAction(g *game.GameState, playerID string, legal []game.Action) game.Action {
	return legal[0]
}

func (gf *GoldfishOpponent) Mulligan(g *game.GameState, playerID string) bool {
	return false
}

func (gf *GoldfishOpponent) CardsToBottom(g *game.GameState, playerID string, n int) []string {
	hand := handIDs(g, playerID)
	if n > len(hand) {
		n = len(hand)
	}
	return hand[:n]
}

func (gf *GoldfishOpponent) DiscardTarget(g *game.GameState, playerID, opponentID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (gf *GoldfishOpponent) DiscardFromHand(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (gf *GoldfishOpponent) SacrificeTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (gf *GoldfishOpponent) SearchTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (gf *GoldfishOpponent) Scry(g *game.GameState, playerID string, top []string) (keep, bottom []string) {
	return top, nil
}
