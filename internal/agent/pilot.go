package agent

import (
	"github.com/spellstack/gauntlet/internal/game"
)

// DeterministicPilot plays the deck under test. It drops a land every
// turn it can, then casts and activates by a fixed priority list of
// card names, attacks with everything that survives or trades, and
// blocks only when the block is free or the race demands a chump.
type DeterministicPilot struct {
	// priority orders card names from most to least important. Offers
	// for unlisted names rank below every listed name, in offer order.
	priority map[string]int
	unknown  int
}

// NewDeterministicPilot builds a pilot around a cast order. Names
// earlier in the list are cast first when several offers are legal.
func NewDeterministicPilot(castOrder ...string) *DeterministicPilot {
	p := &DeterministicPilot{priority: make(map[string]int, len(castOrder)), unknown: len(castOrder)}
	for i, name := range castOrder {
		p.priority[name] = i
	}
	return p
}

func (p *DeterministicPilot) rank(g *game.GameState, a game.Action) int {
	ci := g.Card(a.CardID)
	if ci == nil {
		return p.unknown
	}
	if r, ok := p.priority[ci.Name()]; ok {
		return r
	}
	return p.unknown
}

// ChooseAction picks the land drop first, then the best-ranked cast or
// activation, then combat declarations, and passes when nothing ranks.
// Without a cast order the pilot casts up the curve instead.
func (p *DeterministicPilot) ChooseAction(g *game.GameState, playerID string, legal []game.Action) game.Action {
	if a, ok := firstOfType(legal, game.ActionPlayLand); ok {
		return a
	}
	best := game.Action{}
	bestRank := -1
	for _, a := range legal {
		if a.Type != game.ActionCast && a.Type != game.ActionActivate {
			continue
		}
		r := p.rank(g, a)
		if r == p.unknown {
			if p.unknown > 0 {
				continue
			}
			r = cardCMC(g, a.CardID)
		}
		if bestRank == -1 || r < bestRank {
			best = a
			bestRank = r
		}
	}
	if bestRank != -1 {
		return best
	}
	if hasType(legal, game.ActionAttack) {
		return p.chooseAttack(g, legal)
	}
	if hasType(legal, game.ActionBlock) {
		return p.chooseBlock(g, playerID, legal)
	}
	return legal[0]
}

// chooseAttack declares the first attacker that either survives combat
// or trades up, preferring the player over planeswalkers. An offer
// whose creature would die to a bigger untapped defender for nothing
// is skipped.
func (p *DeterministicPilot) chooseAttack(g *game.GameState, legal []game.Action) game.Action {
	for _, a := range legal {
		if a.Type != game.ActionAttack {
			continue
		}
		attacker := g.Card(a.CardID)
		if attacker == nil || len(a.Targets) == 0 {
			continue
		}
		if _, isPlayer := game.TargetPlayerID(a.Targets[0]); !isPlayer {
			continue
		}
		if p.attackIsSafe(g, attacker) {
			return a
		}
	}
	// No safe swing at the player; take any remaining offer at a
	// planeswalker before giving up the combat.
	for _, a := range legal {
		if a.Type != game.ActionAttack {
			continue
		}
		if attacker := g.Card(a.CardID); attacker != nil && p.attackIsSafe(g, attacker) {
			return a
		}
	}
	return legal[0]
}

// attackIsSafe reports whether no untapped defending creature can eat
// the attacker without dying itself.
func (p *DeterministicPilot) attackIsSafe(g *game.GameState, attacker *game.CardInstance) bool {
	opp := g.Opponent(attacker.Controller)
	power := g.EffectivePower(attacker)
	toughness := g.EffectiveToughness(attacker) - attacker.Damage
	for _, blocker := range g.BattlefieldOf(opp.ID) {
		if !blocker.IsCreature() || blocker.Tapped {
			continue
		}
		kills := g.EffectivePower(blocker) >= toughness || g.CreatureHasKeyword(blocker, "Deathtouch")
		dies := power >= g.EffectiveToughness(blocker)-blocker.Damage || g.CreatureHasKeyword(attacker, "Deathtouch")
		if kills && !dies {
			return false
		}
	}
	return true
}

// chooseBlock blocks when the blocker kills the attacker and lives, or
// chumps the biggest attacker when the unblocked swing is lethal.
func (p *DeterministicPilot) chooseBlock(g *game.GameState, playerID string, legal []game.Action) game.Action {
	for _, a := range legal {
		if a.Type != game.ActionBlock {
			continue
		}
		blocker := g.Card(a.CardID)
		if blocker == nil || len(a.Targets) == 0 {
			continue
		}
		attacker := g.Card(a.Targets[0])
		if attacker == nil {
			continue
		}
		kills := g.EffectivePower(blocker) >= g.EffectiveToughness(attacker)-attacker.Damage ||
			g.CreatureHasKeyword(blocker, "Deathtouch")
		survives := g.EffectivePower(attacker) < g.EffectiveToughness(blocker)-blocker.Damage &&
			!g.CreatureHasKeyword(attacker, "Deathtouch")
		if kills && survives {
			return a
		}
	}
	if p.incomingDamage(g, playerID) >= g.Player(playerID).Life {
		return p.chumpBiggest(g, legal)
	}
	return legal[0]
}

// incomingDamage totals power of attackers not yet blocked by anyone.
func (p *DeterministicPilot) incomingDamage(g *game.GameState, playerID string) int {
	total := 0
	for _, attackerID := range g.Combat.Attackers {
		attacker := g.Card(attackerID)
		if attacker == nil {
			continue
		}
		if g.Combat.AttackTargets[attackerID] != game.PlayerTarget(playerID) {
			continue
		}
		if len(g.Combat.BlockersOf(attackerID)) > 0 {
			continue
		}
		total += g.EffectivePower(attacker)
	}
	return total
}

func (p *DeterministicPilot) chumpBiggest(g *game.GameState, legal []game.Action) game.Action {
	best := legal[0]
	bestPower := -1
	for _, a := range legal {
		if a.Type != game.ActionBlock || len(a.Targets) == 0 {
			continue
		}
		attacker := g.Card(a.Targets[0])
		if attacker == nil {
			continue
		}
		if pw := g.EffectivePower(attacker); pw > bestPower {
			best = a
			bestPower = pw
		}
	}
	return best
}

// Mulligan ships hands that cannot play a game: no lands or almost
// nothing but lands. The engine caps how often this is asked.
func (p *DeterministicPilot) Mulligan(g *game.GameState, playerID string) bool {
	hand := handIDs(g, playerID)
	if len(hand) <= 5 {
		return false
	}
	lands := landsInHand(g, hand)
	return lands == 0 || lands >= len(hand)-1
}

// CardsToBottom bottoms excess lands beyond three, then the most
// expensive spells.
func (p *DeterministicPilot) CardsToBottom(g *game.GameState, playerID string, n int) []string {
	hand := handIDs(g, playerID)
	var lands, spells []string
	for _, id := range hand {
		if isLandCard(g, id) {
			lands = append(lands, id)
		} else {
			spells = append(spells, id)
		}
	}
	var bottom []string
	for len(lands) > 3 && len(bottom) < n {
		bottom = append(bottom, lands[len(lands)-1])
		lands = lands[:len(lands)-1]
	}
	for _, id := range sortByCMCDesc(g, spells) {
		if len(bottom) == n {
			break
		}
		bottom = append(bottom, id)
	}
	for _, id := range lands {
		if len(bottom) == n {
			break
		}
		bottom = append(bottom, id)
	}
	return bottom
}

// DiscardTarget strips the most expensive nonland from the revealed
// hand, falling back to the most expensive card of any kind.
func (p *DeterministicPilot) DiscardTarget(g *game.GameState, playerID, opponentID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ordered := sortByCMCDesc(g, candidates)
	for _, id := range ordered {
		if !isLandCard(g, id) {
			return id
		}
	}
	return ordered[0]
}

// DiscardFromHand gives up a spare land when flooded, otherwise the
// most expensive card furthest from castable.
func (p *DeterministicPilot) DiscardFromHand(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if landsInPlay(g, playerID) >= 3 && landsInHand(g, candidates) >= 2 {
		for _, id := range candidates {
			if isLandCard(g, id) {
				return id
			}
		}
	}
	return sortByCMCDesc(g, candidates)[0]
}

// SacrificeTarget gives up a token first, then the cheapest permanent.
func (p *DeterministicPilot) SacrificeTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, id := range candidates {
		if ci := g.Card(id); ci != nil && ci.Token {
			return id
		}
	}
	cheapest := candidates[0]
	for _, id := range candidates[1:] {
		if cardCMC(g, id) < cardCMC(g, cheapest) {
			cheapest = id
		}
	}
	return cheapest
}

// SearchTarget prefers a basic land so the pick stays good under
// nonbasic hosers, then takes the first offer.
func (p *DeterministicPilot) SearchTarget(g *game.GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, id := range candidates {
		if isBasicCard(g, id) {
			return id
		}
	}
	return candidates[0]
}

// Scry bottoms lands once the battlefield has four and keeps
// everything else.
func (p *DeterministicPilot) Scry(g *game.GameState, playerID string, top []string) (keep, bottom []string) {
	flooded := landsInPlay(g, playerID) >= 4
	for _, id := range top {
		if flooded && isLandCard(g, id) {
			bottom = append(bottom, id)
		} else {
			keep = append(keep, id)
		}
	}
	return keep, bottom
}
