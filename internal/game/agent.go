package game

// Agent makes every decision the game asks of a player. Calls are
// synchronous and single-threaded; implementations must return one of
// the offered candidates. An out-of-range or foreign selection is
// replaced by the first candidate, so a buggy agent degrades to the
// safest choice instead of wedging the game.
type Agent interface {
	// ChooseAction picks one of the legal actions. The slice is never
	// empty; index 0 is always the pass or done action.
	ChooseAction(g *GameState, playerID string, legal []Action) Action

	// Mulligan reports whether the player ships the current opening
	// hand. Asked repeatedly until it returns false or the mulligan
	// limit is reached.
	Mulligan(g *GameState, playerID string) bool

	// CardsToBottom picks n cards from hand to put on the bottom of
	// the library after keeping a mulliganed hand.
	CardsToBottom(g *GameState, playerID string, n int) []string

	// DiscardTarget picks a card ID from the revealed hand of the
	// named opponent for a forced discard the choosing player controls.
	DiscardTarget(g *GameState, playerID, opponentID string, candidates []string) string

	// DiscardFromHand picks one of the player's own cards to discard.
	DiscardFromHand(g *GameState, playerID string, candidates []string) string

	// SacrificeTarget picks one of the player's own permanents to
	// sacrifice.
	SacrificeTarget(g *GameState, playerID string, candidates []string) string

	// SearchTarget picks a card from the library candidates a search
	// effect offers, empty string to fail the search.
	SearchTarget(g *GameState, playerID string, candidates []string) string

	// Scry orders the top cards: keep stays on top in order, bottom
	// goes under in order.
	Scry(g *GameState, playerID string, top []string) (keep, bottom []string)
}

// chooseFrom guards an agent's choice: anything outside candidates
// falls back to the first candidate.
func chooseFrom(choice string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, c := range candidates {
		if c == choice {
			return choice
		}
	}
	return candidates[0]
}
