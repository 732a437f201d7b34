package game

import (
	"fmt"

	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// LegalActions enumerates every action the player may take with
// priority right now. Index 0 is always Pass; Concede is always last.
// Casting actions are only listed when the mana solver confirms the
// cost is payable from floating mana plus untapped sources.
func (e *Engine) LegalActions(g *GameState, playerID string) []Action {
	actions := []Action{Pass(playerID)}
	if g.Over {
		return actions
	}
	sorcery := e.sorcerySpeed(g, playerID)

	if sorcery && g.Player(playerID).LandsPlayed < 1 {
		for _, ci := range g.CardsOf(playerID, rules.ZoneHand) {
			if ci.Def.IsLand() {
				actions = append(actions, Action{
					Type:        ActionPlayLand,
					Player:      playerID,
					CardID:      ci.ID,
					Description: fmt.Sprintf("Play %s", ci.Name()),
				})
			}
		}
	}

	for _, ci := range g.CardsOf(playerID, rules.ZoneHand) {
		if ci.Def.IsLand() {
			continue
		}
		actions = append(actions, e.castActions(g, playerID, ci, sorcery)...)
	}
	for _, ci := range g.CardsOf(playerID, rules.ZoneGraveyard) {
		actions = append(actions, e.graveyardCastActions(g, playerID, ci, sorcery)...)
	}
	for _, ci := range g.BattlefieldOf(playerID) {
		actions = append(actions, e.activationActions(g, playerID, ci, sorcery)...)
	}

	actions = append(actions, Action{Type: ActionConcede, Player: playerID, Description: "Concede"})
	return actions
}

// sorcerySpeed reports whether the player could cast a sorcery right
// now: their own main phase with an empty stack.
func (e *Engine) sorcerySpeed(g *GameState, playerID string) bool {
	return playerID == g.Turn.ActivePlayer() &&
		g.Turn.CurrentStep().IsMain() &&
		g.Stack.IsEmpty()
}

func (e *Engine) timingOK(g *GameState, playerID string, def *card.Definition, sorcery bool) bool {
	if sorcery || def.IsInstant() || def.HasFlash() {
		return true
	}
	return def.IsSorcery() && g.sorceriesAsFlash(playerID)
}

func (g *GameState) sorceriesAsFlash(playerID string) bool {
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Counters.Has(counters.SorceryFlash) {
			return true
		}
	}
	return false
}

// castActions expands one hand card into its castable variants: one
// action per choice of mode, X value, and target set that is payable
// right now.
func (e *Engine) castActions(g *GameState, playerID string, ci *CardInstance, sorcery bool) []Action {
	def := ci.Def
	if !e.timingOK(g, playerID, def, sorcery) {
		return nil
	}
	cost := e.castingCost(g, playerID, def)
	affordable := !cost.X && e.CanAfford(g, playerID, cost)

	cast := func(desc string, mutate func(*Action)) []Action {
		act := Action{
			Type:        ActionCast,
			Player:      playerID,
			CardID:      ci.ID,
			Description: desc,
		}
		if mutate != nil {
			mutate(&act)
		}
		return []Action{act}
	}

	var actions []Action
	switch def.Name {
	case "Thoughtseize", "Inquisition of Kozilek", "Raven's Crime", "Wrench Mind":
		if !affordable {
			return nil
		}
		for _, target := range e.playerTargets(g, playerID) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast %s targeting %s", def.Name, e.describeTarget(g, target)),
				func(a *Action) { a.Targets = []string{target} })...)
		}

	case "Funeral Charm":
		if !affordable {
			return nil
		}
		for _, target := range e.playerTargets(g, playerID) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast Funeral Charm (discard) targeting %s", e.describeTarget(g, target)),
				func(a *Action) { a.Targets = []string{target} })...)
		}
		for _, target := range e.creatureTargets(g, nil) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast Funeral Charm (+2/-1) targeting %s", e.describeTarget(g, target)),
				func(a *Action) { a.Mode = 1; a.Targets = []string{target} })...)
			actions = append(actions, cast(
				fmt.Sprintf("Cast Funeral Charm (swampwalk) targeting %s", e.describeTarget(g, target)),
				func(a *Action) { a.Mode = 2; a.Targets = []string{target} })...)
		}

	case "Sheoldred's Edict":
		if !affordable {
			return nil
		}
		actions = append(actions, cast("Cast Sheoldred's Edict (creature)", nil)...)
		actions = append(actions, cast("Cast Sheoldred's Edict (planeswalker)",
			func(a *Action) { a.Mode = 1 })...)

	case "Fatal Push":
		if !affordable {
			return nil
		}
		threshold := 2
		if g.PermanentsLeftThisTurn(playerID) > 0 {
			threshold = 4
		}
		for _, target := range e.creatureTargets(g, func(c *CardInstance) bool { return c.Def.CMC <= threshold }) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast Fatal Push targeting %s", e.describeTarget(g, target)),
				func(a *Action) { a.Targets = []string{target} })...)
		}

	case "Bloodchief's Thirst":
		if affordable {
			for _, target := range e.creatureOrPlaneswalkerTargets(g, func(c *CardInstance) bool { return c.Def.CMC <= 2 }) {
				actions = append(actions, cast(
					fmt.Sprintf("Cast Bloodchief's Thirst targeting %s", e.describeTarget(g, target)),
					func(a *Action) { a.Targets = []string{target} })...)
			}
		}
		kicked := mana.MustParseCost("{2}{B}{B}")
		if e.CanAfford(g, playerID, kicked) {
			for _, target := range e.creatureOrPlaneswalkerTargets(g, nil) {
				actions = append(actions, cast(
					fmt.Sprintf("Cast Bloodchief's Thirst (kicked) targeting %s", e.describeTarget(g, target)),
					func(a *Action) { a.Mode = 1; a.Targets = []string{target} })...)
			}
		}

	case "Dismember":
		if !affordable || g.Player(playerID).Life < 4 {
			return nil
		}
		for _, target := range e.creatureTargets(g, nil) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast Dismember targeting %s", e.describeTarget(g, target)),
				func(a *Action) { a.Targets = []string{target} })...)
		}

	case "Lightning Bolt", "Grapeshot":
		if !affordable {
			return nil
		}
		for _, target := range e.anyTargets(g, playerID) {
			actions = append(actions, cast(
				fmt.Sprintf("Cast %s targeting %s", def.Name, e.describeTarget(g, target)),
				func(a *Action) { a.Targets = []string{target} })...)
		}

	case "Prismatic Ending":
		for _, target := range e.nonlandPermanentTargets(g, nil) {
			x := g.Card(target).Def.CMC
			fixed := cost.WithX(x)
			if !e.CanAfford(g, playerID, fixed) {
				continue
			}
			actions = append(actions, cast(
				fmt.Sprintf("Cast Prismatic Ending with X=%d targeting %s", x, e.describeTarget(g, target)),
				func(a *Action) { a.X = x; a.Targets = []string{target} })...)
		}

	case "Solitude", "Grief", "Fury", "Endurance", "Subtlety":
		if affordable {
			actions = append(actions, cast(fmt.Sprintf("Cast %s", def.Name), nil)...)
		}
		if e.evokePitch(g, playerID, ci) != nil {
			actions = append(actions, cast(fmt.Sprintf("Cast %s (evoke)", def.Name),
				func(a *Action) { a.Alternate = "evoke" })...)
		}

	default:
		if !affordable {
			return nil
		}
		actions = append(actions, cast(fmt.Sprintf("Cast %s", def.Name), nil)...)
	}
	return actions
}

// castingCost returns the printed cost after static reductions. Leyline
// Binding pays one less for each basic land type among its controller's
// lands.
func (e *Engine) castingCost(g *GameState, playerID string, def *card.Definition) *mana.Cost {
	cost := mana.MustParseCost(def.ManaCost)
	if def.Name == "Leyline Binding" {
		cost = cost.ReduceGeneric(e.domainCount(g, playerID))
	}
	return cost
}

// domainCount counts basic land types represented among the player's
// lands, including types granted by Urborg.
func (e *Engine) domainCount(g *GameState, playerID string) int {
	seen := map[string]bool{}
	for _, ci := range g.BattlefieldOf(playerID) {
		if !ci.Def.IsLand() {
			continue
		}
		for _, subtype := range ci.Def.Subtypes() {
			if _, basic := basicTypeMana[subtype]; basic {
				seen[subtype] = true
			}
		}
		if g.IsSwamp(ci) {
			seen["Swamp"] = true
		}
	}
	return len(seen)
}

// evokePitch finds a card that could pay an evoke cost: another hand
// card sharing a color with the elemental.
func (e *Engine) evokePitch(g *GameState, playerID string, evoked *CardInstance) *CardInstance {
	for _, other := range g.CardsOf(playerID, rules.ZoneHand) {
		if other.ID == evoked.ID {
			continue
		}
		if sharesColor(other.Def, evoked.Def) {
			return other
		}
	}
	return nil
}

func sharesColor(a, b *card.Definition) bool {
	for _, ca := range a.Colors {
		for _, cb := range b.Colors {
			if ca == cb {
				return true
			}
		}
	}
	return false
}

// graveyardCastActions covers the two recursion mechanics in the pool:
// Phlage's escape and Raven's Crime retrace.
func (e *Engine) graveyardCastActions(g *GameState, playerID string, ci *CardInstance, sorcery bool) []Action {
	switch ci.Name() {
	case "Phlage, Titan of Fire's Fury":
		if !sorcery {
			return nil
		}
		others := 0
		for _, gy := range g.CardsOf(playerID, rules.ZoneGraveyard) {
			if gy.ID != ci.ID {
				others++
			}
		}
		if others < 5 || !e.CanAfford(g, playerID, mana.MustParseCost("{2}{R}{R}")) {
			return nil
		}
		return []Action{{
			Type:        ActionCast,
			Player:      playerID,
			CardID:      ci.ID,
			Alternate:   "escape",
			Description: "Cast Phlage, Titan of Fire's Fury (escape)",
		}}

	case "Raven's Crime":
		if !sorcery || !e.CanAfford(g, playerID, mana.MustParseCost("{B}")) {
			return nil
		}
		hasLand := false
		for _, hand := range g.CardsOf(playerID, rules.ZoneHand) {
			if hand.Def.IsLand() {
				hasLand = true
				break
			}
		}
		if !hasLand {
			return nil
		}
		var actions []Action
		for _, target := range e.playerTargets(g, playerID) {
			actions = append(actions, Action{
				Type:        ActionCast,
				Player:      playerID,
				CardID:      ci.ID,
				Alternate:   "retrace",
				Targets:     []string{target},
				Description: fmt.Sprintf("Cast Raven's Crime (retrace) targeting %s", e.describeTarget(g, target)),
			})
		}
		return actions
	}
	return nil
}

// activationActions lists the activated abilities of one permanent the
// player controls. Mana abilities are not offered; the payment solver
// taps sources implicitly.
func (e *Engine) activationActions(g *GameState, playerID string, ci *CardInstance, sorcery bool) []Action {
	activate := func(ability, desc string, targets ...string) Action {
		return Action{
			Type:        ActionActivate,
			Player:      playerID,
			CardID:      ci.ID,
			Ability:     ability,
			Targets:     targets,
			Description: desc,
		}
	}

	switch {
	case isFetchLand(ci.Def):
		if ci.Tapped || g.Player(playerID).Life < 1 {
			return nil
		}
		return []Action{activate("fetch", fmt.Sprintf("Sacrifice %s", ci.Name()))}

	case ci.Name() == "Mishra's Factory":
		if ci.Animated || !e.CanAfford(g, playerID, mana.MustParseCost("{1}")) {
			return nil
		}
		return []Action{activate("animate", "Animate Mishra's Factory")}

	case ci.Name() == "Castle Locthwain":
		if ci.Tapped || !e.CanAfford(g, playerID, mana.MustParseCost("{1}{B}{B}")) {
			return nil
		}
		return []Action{activate("draw", "Activate Castle Locthwain")}

	case ci.Name() == "Nihil Spellbomb":
		if ci.Tapped {
			return nil
		}
		opp := PlayerTarget(g.Opponent(playerID).ID)
		return []Action{activate("crack",
			fmt.Sprintf("Crack Nihil Spellbomb targeting %s", e.describeTarget(g, opp)), opp)}

	case ci.Name() == "Urza's Saga":
		if ci.Tapped || ci.Counters.Count(counters.Lore) < 2 ||
			!e.CanAfford(g, playerID, mana.MustParseCost("{2}")) {
			return nil
		}
		return []Action{activate("construct", "Activate Urza's Saga: create a Construct")}

	case ci.Def.IsPlaneswalker():
		return e.loyaltyActions(g, playerID, ci, sorcery)
	}
	return nil
}

// loyaltyActions lists the loyalty abilities the planeswalker can use:
// sorcery speed, once per turn, and never below zero loyalty.
func (e *Engine) loyaltyActions(g *GameState, playerID string, ci *CardInstance, sorcery bool) []Action {
	if !sorcery || ci.Counters.Count(counters.LoyaltyUsed) > 0 {
		return nil
	}
	loyalty := ci.Counters.Count(counters.Loyalty)
	activate := func(ability, desc string, targets ...string) Action {
		return Action{
			Type:        ActionActivate,
			Player:      playerID,
			CardID:      ci.ID,
			Ability:     ability,
			Targets:     targets,
			Description: desc,
		}
	}

	var actions []Action
	switch ci.Name() {
	case "Liliana of the Veil":
		actions = append(actions, activate("+1", "Liliana of the Veil +1: each player discards"))
		if loyalty >= 2 {
			for _, target := range e.playerTargets(g, playerID) {
				actions = append(actions, activate("-2",
					fmt.Sprintf("Liliana of the Veil -2 targeting %s", e.describeTarget(g, target)), target))
			}
		}
		if loyalty >= 6 {
			for _, target := range e.playerTargets(g, playerID) {
				actions = append(actions, activate("-6",
					fmt.Sprintf("Liliana of the Veil -6 targeting %s", e.describeTarget(g, target)), target))
			}
		}

	case "Teferi, Time Raveler":
		actions = append(actions, activate("+1", "Teferi, Time Raveler +1"))
		if loyalty >= 3 {
			for _, target := range e.nonlandPermanentTargets(g, func(c *CardInstance) bool {
				return c.Def.IsArtifact() || c.IsCreature() || c.Def.IsEnchantment()
			}) {
				actions = append(actions, activate("-3",
					fmt.Sprintf("Teferi, Time Raveler -3 targeting %s", e.describeTarget(g, target)), target))
			}
		}
	}
	return actions
}

// isFetchLand recognizes the sacrifice-to-search lands by their oracle
// shape rather than by name, the pool has ten of them.
func isFetchLand(def *card.Definition) bool {
	return def.IsLand() && def.OracleContains("Sacrifice "+def.Name+": Search your library")
}

// playerTargets lists both players as target tags, opponent first.
func (e *Engine) playerTargets(g *GameState, playerID string) []string {
	return []string{
		PlayerTarget(g.Opponent(playerID).ID),
		PlayerTarget(playerID),
	}
}

// creatureTargets lists battlefield creatures in seat order, optionally
// filtered.
func (e *Engine) creatureTargets(g *GameState, pred func(*CardInstance) bool) []string {
	var targets []string
	for _, ci := range g.Battlefield() {
		if !ci.IsCreature() {
			continue
		}
		if pred != nil && !pred(ci) {
			continue
		}
		targets = append(targets, ci.ID)
	}
	return targets
}

func (e *Engine) creatureOrPlaneswalkerTargets(g *GameState, pred func(*CardInstance) bool) []string {
	var targets []string
	for _, ci := range g.Battlefield() {
		if !ci.IsCreature() && !ci.Def.IsPlaneswalker() {
			continue
		}
		if pred != nil && !pred(ci) {
			continue
		}
		targets = append(targets, ci.ID)
	}
	return targets
}

func (e *Engine) nonlandPermanentTargets(g *GameState, pred func(*CardInstance) bool) []string {
	var targets []string
	for _, ci := range g.Battlefield() {
		if ci.Def.IsLand() && !ci.Animated {
			continue
		}
		if pred != nil && !pred(ci) {
			continue
		}
		targets = append(targets, ci.ID)
	}
	return targets
}

// anyTargets is the "any target" set: the opponent, every creature and
// planeswalker on the battlefield, then the caster.
func (e *Engine) anyTargets(g *GameState, playerID string) []string {
	targets := []string{PlayerTarget(g.Opponent(playerID).ID)}
	targets = append(targets, e.creatureOrPlaneswalkerTargets(g, nil)...)
	targets = append(targets, PlayerTarget(playerID))
	return targets
}
