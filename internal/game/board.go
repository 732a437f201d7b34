package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// enterPermanent brings a permanent onto the battlefield through the
// full arrival pipeline: entry payments, battlefield state, trigger
// registration, and the card's own arrival triggers.
func (e *Engine) enterPermanent(g *GameState, ci *CardInstance, controllerID string) {
	paidShock := false
	if ci.Def.OracleContains("you may pay 2 life") {
		if p := g.Player(controllerID); p != nil && p.Life > 2 {
			e.loseLife(g, controllerID, 2, ci.ID)
			paidShock = true
		}
	}

	g.EnterBattlefield(ci, controllerID)

	if ci.Def.OracleContains("you may pay 2 life") && !paidShock {
		ci.Tapped = true
		g.Logf("%s enters the battlefield tapped", ci.Name())
	}

	e.attachTriggers(g, ci)
	e.pushArrivalTriggers(g, ci)
	if ci.Def.IsSaga() {
		e.pushSagaChapter(g, ci, 1)
	}
}

// discardCard moves a hand card to the graveyard, or wherever a
// replacement sends it, and announces the discard.
func (e *Engine) discardCard(g *GameState, playerID, cardID string) {
	ci := g.Card(cardID)
	if ci == nil || ci.Zone != rules.ZoneHand {
		return
	}
	dest := g.GraveyardDestination(ci.Owner)
	g.MoveCard(ci.ID, dest)
	g.Logf("%s discards %s", g.Player(playerID).Name, ci.Name())
	evt := rules.NewEvent(rules.EventDiscardedCard, ci.ID, ci.ID, playerID)
	evt.Metadata["card_name"] = ci.Name()
	g.Publish(evt)
}

// discardChosen makes the player discard n cards of their own choice.
func (e *Engine) discardChosen(g *GameState, playerID string, n int) {
	agent := e.agents[playerID]
	for i := 0; i < n; i++ {
		hand := instanceIDs(g.CardsOf(playerID, rules.ZoneHand))
		if len(hand) == 0 {
			return
		}
		choice := chooseFrom(agent.DiscardFromHand(g, playerID, hand), hand)
		e.discardCard(g, playerID, choice)
	}
}

// sacrificePermanent announces and executes a sacrifice.
func (e *Engine) sacrificePermanent(g *GameState, ci *CardInstance) {
	if ci == nil || ci.Zone != rules.ZoneBattlefield {
		return
	}
	g.Logf("%s sacrifices %s", g.Player(ci.Controller).Name, ci.Name())
	g.Publish(rules.NewEvent(rules.EventSacrificedPermanent, ci.ID, ci.ID, ci.Controller))
	g.PutIntoGraveyard(ci)
}

// chooseSacrifice asks the player to pick one of their permanents
// matching pred and sacrifices it. Reports whether anything was
// sacrificed.
func (e *Engine) chooseSacrifice(g *GameState, playerID string, pred func(*CardInstance) bool) bool {
	var candidates []string
	for _, ci := range g.BattlefieldOf(playerID) {
		if pred == nil || pred(ci) {
			candidates = append(candidates, ci.ID)
		}
	}
	if len(candidates) == 0 {
		return false
	}
	choice := chooseFrom(e.agents[playerID].SacrificeTarget(g, playerID, candidates), candidates)
	e.sacrificePermanent(g, g.Card(choice))
	return true
}

// createToken mints a token from a catalog definition and puts it onto
// the battlefield.
func (e *Engine) createToken(g *GameState, controllerID, name string) *CardInstance {
	def, found := e.catalog.Get(name)
	if !found {
		g.Logf("token definition %q missing", name)
		return nil
	}
	ci := NewCardInstance(def, controllerID)
	ci.Token = true
	g.AddCard(ci)
	e.enterPermanent(g, ci, controllerID)
	g.Logf("%s creates a %s token", g.Player(controllerID).Name, name)
	g.Publish(rules.NewEvent(rules.EventCreatedToken, ci.ID, ci.ID, controllerID))
	return ci
}

// resolveFetch is the search half of a fetch land activation: pick a
// land of the right type, battlefield it, shuffle either way.
func (e *Engine) resolveFetch(g *GameState, playerID string, types []string) error {
	var candidates []string
	for _, ci := range g.CardsOf(playerID, rules.ZoneLibrary) {
		for _, landType := range types {
			if ci.Def.HasSubtype(landType) {
				candidates = append(candidates, ci.ID)
				break
			}
		}
	}

	if len(candidates) > 0 {
		choice := e.agents[playerID].SearchTarget(g, playerID, candidates)
		if choice != "" {
			picked := g.Card(chooseFrom(choice, candidates))
			g.Publish(rules.NewEvent(rules.EventLibrarySearched, picked.ID, picked.ID, playerID))
			e.enterPermanent(g, picked, playerID)
			g.Logf("%s fetches %s", g.Player(playerID).Name, picked.Name())
		} else {
			g.Logf("%s fails to find", g.Player(playerID).Name)
		}
	} else {
		g.Logf("%s fails to find", g.Player(playerID).Name)
	}

	g.ShuffleLibrary(playerID)
	g.Publish(rules.NewEvent(rules.EventLibraryShuffled, "", "", playerID))
	return nil
}

// fetchableTypes pulls the two land types a fetch land searches for out
// of its reminder text.
func fetchableTypes(def *card.Definition) []string {
	_, after, found := strings.Cut(def.OracleText, "Search your library for a ")
	if !found {
		return nil
	}
	clause, _, found := strings.Cut(after, " card")
	if !found {
		return nil
	}
	return strings.Split(clause, " or ")
}

// advanceSagas adds the next lore counter to each saga the player
// controls and stacks the chapter ability.
func (e *Engine) advanceSagas(g *GameState, playerID string) {
	for _, ci := range g.BattlefieldOf(playerID) {
		if !ci.Def.IsSaga() {
			continue
		}
		ci.Counters.Add(counters.Lore, 1)
		chapter := ci.Counters.Count(counters.Lore)
		g.Publish(rules.NewEventWithAmount(rules.EventCounterAdded, ci.ID, ci.ID, playerID, 1))
		g.Logf("%s advances to chapter %d", ci.Name(), chapter)
		e.pushSagaChapter(g, ci, chapter)
	}
}

// pushSagaChapter stacks one chapter of a saga. The first two chapters
// of Urza's Saga grant abilities the rest of the engine reads from the
// lore count, so only the third has a resolution body.
func (e *Engine) pushSagaChapter(g *GameState, saga *CardInstance, chapter int) {
	if saga.Name() != "Urza's Saga" || chapter > sagaFinalChapter {
		return
	}
	item := rules.StackItem{
		ID:          uuid.NewString(),
		Controller:  saga.Controller,
		Kind:        rules.StackItemKindTriggered,
		SourceID:    saga.ID,
		Metadata:    map[string]string{"card_name": saga.Name(), "chapter": fmt.Sprintf("%d", chapter)},
		Description: fmt.Sprintf("%s chapter %d", saga.Name(), chapter),
	}
	item.Resolve = func(it rules.StackItem) error {
		switch chapter {
		case 1:
			g.Logf("%s gains its mana ability", saga.Name())
		case 2:
			g.Logf("%s gains its Construct ability", saga.Name())
		case 3:
			return e.resolveSagaTutor(g, it.Controller)
		}
		return nil
	}
	g.Stack.Push(item)
	g.Publish(rules.NewEvent(rules.EventTriggeredAbility, saga.ID, saga.ID, saga.Controller))
}

// resolveSagaTutor searches for a zero or one cost artifact and puts it
// onto the battlefield.
func (e *Engine) resolveSagaTutor(g *GameState, playerID string) error {
	var candidates []string
	for _, ci := range g.CardsOf(playerID, rules.ZoneLibrary) {
		if ci.Def.IsArtifact() && ci.Def.CMC <= 1 {
			candidates = append(candidates, ci.ID)
		}
	}
	if len(candidates) > 0 {
		choice := e.agents[playerID].SearchTarget(g, playerID, candidates)
		if choice != "" {
			picked := g.Card(chooseFrom(choice, candidates))
			g.Publish(rules.NewEvent(rules.EventLibrarySearched, picked.ID, picked.ID, playerID))
			e.enterPermanent(g, picked, playerID)
			g.Logf("%s puts %s onto the battlefield", g.Player(playerID).Name, picked.Name())
		}
	}
	g.ShuffleLibrary(playerID)
	g.Publish(rules.NewEvent(rules.EventLibraryShuffled, "", "", playerID))
	return nil
}
