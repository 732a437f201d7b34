package game

import (
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

var basicTypeMana = map[string]mana.ManaType{
	"Plains":   mana.ManaWhite,
	"Island":   mana.ManaBlue,
	"Swamp":    mana.ManaBlack,
	"Mountain": mana.ManaRed,
	"Forest":   mana.ManaGreen,
}

// manaSources lists the player's untapped payment options in a form the
// solver understands: lands by their current types and Treasures as
// any-color producers that sacrifice on use.
func (e *Engine) manaSources(g *GameState, playerID string) []mana.Source {
	moon := g.bloodMoonActive()
	sources := make([]mana.Source, 0)
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Tapped {
			continue
		}
		switch {
		case ci.Def.IsLand():
			produces := e.landProduces(g, ci, moon)
			if len(produces) > 0 {
				sources = append(sources, mana.Source{
					ID:       ci.ID,
					Produces: produces,
					IsBasic:  ci.Def.IsBasicLand(),
				})
			}
		case ci.Name() == "Treasure":
			sources = append(sources, mana.Source{
				ID: ci.ID,
				Produces: []mana.ManaType{
					mana.ManaWhite, mana.ManaBlue, mana.ManaBlack, mana.ManaRed, mana.ManaGreen,
				},
			})
		}
	}
	return sources
}

// landProduces resolves what a land taps for right now. Blood Moon
// strips every nonbasic down to a plain Mountain, which also silences
// Urborg; otherwise Urborg adds black to every land's options.
func (e *Engine) landProduces(g *GameState, ci *CardInstance, moon bool) []mana.ManaType {
	if moon && !ci.Def.IsBasicLand() {
		return []mana.ManaType{mana.ManaRed}
	}

	var produces []mana.ManaType
	seen := map[mana.ManaType]bool{}
	add := func(mt mana.ManaType) {
		if !seen[mt] {
			seen[mt] = true
			produces = append(produces, mt)
		}
	}

	for _, subtype := range ci.Def.Subtypes() {
		if mt, ok := basicTypeMana[subtype]; ok {
			add(mt)
		}
	}
	switch ci.Name() {
	case "Mishra's Factory":
		add(mana.ManaColorless)
	case "Castle Locthwain":
		add(mana.ManaBlack)
	case "Urborg, Tomb of Yawgmoth":
		add(mana.ManaBlack)
	case "Urza's Saga":
		// The saga taps for mana only once chapter one has resolved.
		if ci.Counters.Count(counters.Lore) >= 1 {
			add(mana.ManaColorless)
		}
	}

	if len(produces) > 0 && !moon && g.urborgActive() {
		add(mana.ManaBlack)
	}
	return produces
}

func (g *GameState) bloodMoonActive() bool {
	for _, playerID := range g.Order {
		if g.ControlsNamed(playerID, "Blood Moon") {
			return true
		}
	}
	return false
}

func (g *GameState) urborgActive() bool {
	for _, playerID := range g.Order {
		if g.ControlsNamed(playerID, "Urborg, Tomb of Yawgmoth") {
			return true
		}
	}
	return false
}

// CanAfford reports whether the player could pay the cost with floating
// mana plus untapped sources, without committing to anything.
func (e *Engine) CanAfford(g *GameState, playerID string, cost *mana.Cost) bool {
	p := g.Player(playerID)
	if p == nil {
		return false
	}
	_, ok := mana.Solve(cost, p.Pool, e.manaSources(g, playerID))
	return ok
}

// payFor executes a payment: solve, tap the planned sources into the
// pool, then drain the cost from it. Treasures planned by the solver
// are sacrificed as they produce. Returns false, with nothing spent,
// when the cost cannot be met.
func (e *Engine) payFor(g *GameState, playerID string, cost *mana.Cost) bool {
	p := g.Player(playerID)
	if p == nil {
		return false
	}
	plan, ok := mana.Solve(cost, p.Pool, e.manaSources(g, playerID))
	if !ok {
		return false
	}
	for _, tap := range plan {
		src := g.Card(tap.SourceID)
		if src == nil {
			continue
		}
		src.Tapped = true
		p.Pool.Add(tap.Produce, 1)
		g.Publish(rules.NewEvent(rules.EventTapped, src.ID, src.ID, playerID))
		evt := rules.NewEventWithAmount(rules.EventManaAdded, src.ID, "", playerID, 1)
		evt.Metadata["mana"] = tap.Produce.Symbol()
		g.Publish(evt)
		if src.Name() == "Treasure" {
			g.Publish(rules.NewEvent(rules.EventSacrificedPermanent, src.ID, src.ID, playerID))
			g.PutIntoGraveyard(src)
		}
	}
	if !p.Pool.Pay(cost) {
		// The solver guaranteed coverage; reaching this means the
		// source table and the solver disagree.
		g.Logf("payment for %s failed after tapping", cost)
		return false
	}
	return true
}
