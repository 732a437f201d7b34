package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// Apply executes an action against the game state. Actions come from
// LegalActions, but everything is revalidated here: failures are
// reported, never panic.
func (e *Engine) Apply(g *GameState, act Action) ActionResult {
	switch act.Type {
	case ActionPass, ActionDone:
		return ok()
	case ActionPlayLand:
		return e.playLand(g, act)
	case ActionCast:
		return e.castSpell(g, act)
	case ActionActivate:
		return e.activateAbility(g, act)
	case ActionConcede:
		g.Player(act.Player).Conceded = true
		g.Player(act.Player).Lose("conceded")
		e.checkGameOver(g)
		return ok()
	default:
		return failf("unknown action type %q", act.Type)
	}
}

func (e *Engine) playLand(g *GameState, act Action) ActionResult {
	ci := g.Card(act.CardID)
	if ci == nil || ci.Zone != rules.ZoneHand || ci.Owner != act.Player {
		return failf("land is not in %s's hand", act.Player)
	}
	if !ci.Def.IsLand() {
		return failf("%s is not a land", ci.Name())
	}
	player := g.Player(act.Player)
	if player.LandsPlayed >= 1 {
		return failf("%s already played a land this turn", player.Name)
	}
	player.LandsPlayed++
	e.enterPermanent(g, ci, act.Player)
	g.Logf("%s plays %s", player.Name, ci.Name())
	g.Publish(rules.NewEvent(rules.EventLandPlayed, ci.ID, ci.ID, act.Player))
	return ok()
}

// castSpell pays for a spell and puts it on the stack. Payment is
// atomic: cost problems are detected before any mana is tapped or any
// additional cost is paid.
func (e *Engine) castSpell(g *GameState, act Action) ActionResult {
	ci := g.Card(act.CardID)
	if ci == nil {
		return failf("unknown card %s", act.CardID)
	}
	player := g.Player(act.Player)

	fromZone := rules.ZoneHand
	if act.Alternate == "escape" || act.Alternate == "retrace" {
		fromZone = rules.ZoneGraveyard
	}
	if ci.Zone != fromZone || ci.Owner != act.Player {
		return failf("%s is not castable from %s's %s", ci.Name(), act.Player, strings.ToLower(string(fromZone)))
	}

	var pitch *CardInstance
	var retraceLand *CardInstance
	cost := e.castingCost(g, act.Player, ci.Def)

	switch act.Alternate {
	case "":
		if cost.X {
			cost = cost.WithX(act.X)
		}
	case "evoke":
		pitch = e.evokePitch(g, act.Player, ci)
		if pitch == nil {
			return failf("no card to pitch for evoking %s", ci.Name())
		}
		cost = mana.MustParseCost("")
	case "escape":
		others := 0
		for _, gy := range g.CardsOf(act.Player, rules.ZoneGraveyard) {
			if gy.ID != ci.ID {
				others++
			}
		}
		if others < 5 {
			return failf("escape needs five other cards in the graveyard")
		}
		cost = mana.MustParseCost("{2}{R}{R}")
	case "retrace":
		for _, hand := range g.CardsOf(act.Player, rules.ZoneHand) {
			if hand.Def.IsLand() {
				retraceLand = hand
				break
			}
		}
		if retraceLand == nil {
			return failf("retrace needs a land to discard")
		}
		cost = mana.MustParseCost("{B}")
	default:
		return failf("unknown alternate cost %q", act.Alternate)
	}

	if ci.Name() == "Dismember" && player.Life < 4 {
		return failf("%s cannot pay 4 life", player.Name)
	}
	if !e.payFor(g, act.Player, cost) {
		return failf("%s cannot pay %s for %s", player.Name, cost, ci.Name())
	}

	switch act.Alternate {
	case "evoke":
		g.MoveCard(pitch.ID, rules.ZoneExile)
		g.Logf("%s exiles %s to evoke %s", player.Name, pitch.Name(), ci.Name())
		ci.Counters.Add(counters.Evoke, 1)
	case "escape":
		exiled := 0
		for _, gy := range g.CardsOf(act.Player, rules.ZoneGraveyard) {
			if gy.ID == ci.ID {
				continue
			}
			g.MoveCard(gy.ID, rules.ZoneExile)
			if exiled++; exiled == 5 {
				break
			}
		}
		g.Logf("%s escapes %s, exiling five cards", player.Name, ci.Name())
	case "retrace":
		e.discardCard(g, act.Player, retraceLand.ID)
	}
	if ci.Name() == "Dismember" {
		e.loseLife(g, act.Player, 4, ci.ID)
	}

	g.MoveCard(ci.ID, rules.ZoneStack)

	desc := ci.Name()
	if len(act.Targets) > 0 {
		names := make([]string, len(act.Targets))
		for i, target := range act.Targets {
			names[i] = e.describeTarget(g, target)
		}
		desc = fmt.Sprintf("%s targeting %s", desc, strings.Join(names, ", "))
	}

	item := rules.StackItem{
		ID:         uuid.NewString(),
		Controller: act.Player,
		Kind:       rules.StackItemKindSpell,
		SourceID:   ci.ID,
		CardID:     ci.ID,
		Targets:    append([]string(nil), act.Targets...),
		Metadata: map[string]string{
			"card_name": ci.Name(),
			"mode":      fmt.Sprintf("%d", act.Mode),
			"x":         fmt.Sprintf("%d", act.X),
			"alternate": act.Alternate,
		},
		Description: desc,
	}
	item.Resolve = func(it rules.StackItem) error {
		return e.resolveSpell(g, it)
	}
	g.Stack.Push(item)

	g.Logf("%s casts %s", player.Name, desc)
	evt := rules.NewEvent(rules.EventSpellCast, ci.ID, ci.ID, act.Player)
	evt.Metadata["card_name"] = ci.Name()
	evt.Metadata["noncreature"] = fmt.Sprintf("%t", !ci.Def.IsCreature())
	g.Publish(evt)
	return ok()
}

// resolveSpell runs the three resolution tiers for a spell coming off
// the stack: a per-card template when one exists, the default
// permanent arrival otherwise, and the external adjudicator for
// anything the first two tiers cannot handle.
func (e *Engine) resolveSpell(g *GameState, item rules.StackItem) error {
	ci := g.Card(item.CardID)
	if ci == nil {
		return fmt.Errorf("spell card %s vanished", item.CardID)
	}

	if tmpl, found := e.templates[ci.Name()]; found {
		err := tmpl(e, g, item)
		e.finishSpell(g, ci)
		return err
	}

	if ci.Def.IsPermanent() {
		e.enterPermanent(g, ci, item.Controller)
		return nil
	}

	if e.adjudicator != nil {
		if err := e.adjudicateItem(g, item); err != nil {
			g.Logf("adjudication of %s failed: %v", item.Description, err)
		}
		e.finishSpell(g, ci)
		return nil
	}

	g.Logf("%s resolves with no effect", item.Description)
	e.finishSpell(g, ci)
	return nil
}

// finishSpell moves a resolved spell out of the stack zone: permanents
// to the battlefield, everything else to the graveyard.
func (e *Engine) finishSpell(g *GameState, ci *CardInstance) {
	if ci.Zone != rules.ZoneStack {
		return
	}
	if ci.Def.IsPermanent() {
		e.enterPermanent(g, ci, ci.Controller)
		return
	}
	g.PutIntoGraveyard(ci)
}

// activateAbility pays an ability's costs on the spot and puts the
// effect on the stack.
func (e *Engine) activateAbility(g *GameState, act Action) ActionResult {
	ci := g.Card(act.CardID)
	if ci == nil || ci.Zone != rules.ZoneBattlefield || ci.Controller != act.Player {
		return failf("%s does not control that permanent", act.Player)
	}
	player := g.Player(act.Player)

	push := func(desc string, resolve func(rules.StackItem) error, targets ...string) {
		item := rules.StackItem{
			ID:          uuid.NewString(),
			Controller:  act.Player,
			Kind:        rules.StackItemKindActivated,
			SourceID:    ci.ID,
			Targets:     targets,
			Metadata:    map[string]string{"ability": act.Ability, "card_name": ci.Name()},
			Description: desc,
			Resolve:     resolve,
		}
		g.Stack.Push(item)
		g.Logf("%s activates %s", player.Name, desc)
		evt := rules.NewEvent(rules.EventActivatedAbility, ci.ID, ci.ID, act.Player)
		evt.Metadata["ability"] = act.Ability
		g.Publish(evt)
	}

	switch {
	case act.Ability == "fetch" && isFetchLand(ci.Def):
		if ci.Tapped {
			return failf("%s is tapped", ci.Name())
		}
		if player.Life < 1 {
			return failf("%s cannot pay 1 life", player.Name)
		}
		ci.Tapped = true
		e.loseLife(g, act.Player, 1, ci.ID)
		g.Publish(rules.NewEvent(rules.EventSacrificedPermanent, ci.ID, ci.ID, act.Player))
		g.PutIntoGraveyard(ci)
		types := fetchableTypes(ci.Def)
		push(fmt.Sprintf("%s: search for %s", ci.Name(), strings.Join(types, " or ")),
			func(it rules.StackItem) error {
				return e.resolveFetch(g, it.Controller, types)
			})
		return ok()

	case act.Ability == "animate" && ci.Name() == "Mishra's Factory":
		if !e.payFor(g, act.Player, mana.MustParseCost("{1}")) {
			return failf("cannot pay for %s", ci.Name())
		}
		push("Mishra's Factory: become a 2/2 creature", func(it rules.StackItem) error {
			factory := g.Card(it.SourceID)
			if factory == nil || factory.Zone != rules.ZoneBattlefield {
				return nil
			}
			factory.Animated = true
			factory.AnimPower = 2
			factory.AnimToughness = 2
			g.Logf("Mishra's Factory becomes a 2/2 Assembly-Worker")
			return nil
		})
		return ok()

	case act.Ability == "draw" && ci.Name() == "Castle Locthwain":
		if ci.Tapped {
			return failf("%s is tapped", ci.Name())
		}
		if !e.payFor(g, act.Player, mana.MustParseCost("{1}{B}{B}")) {
			return failf("cannot pay for %s", ci.Name())
		}
		ci.Tapped = true
		push("Castle Locthwain: draw a card", func(it rules.StackItem) error {
			if _, drew := g.Draw(it.Controller); drew {
				g.Logf("%s draws from Castle Locthwain", g.Player(it.Controller).Name)
			}
			e.loseLife(g, it.Controller, g.HandSize(it.Controller), it.SourceID)
			return nil
		})
		return ok()

	case act.Ability == "crack" && ci.Name() == "Nihil Spellbomb":
		if ci.Tapped {
			return failf("%s is tapped", ci.Name())
		}
		ci.Tapped = true
		g.Publish(rules.NewEvent(rules.EventSacrificedPermanent, ci.ID, ci.ID, act.Player))
		g.PutIntoGraveyard(ci)
		push("Nihil Spellbomb: exile a graveyard", func(it rules.StackItem) error {
			if len(it.Targets) == 0 {
				return nil
			}
			playerID, isPlayer := TargetPlayerID(it.Targets[0])
			if !isPlayer {
				return nil
			}
			for _, gy := range g.CardsOf(playerID, rules.ZoneGraveyard) {
				g.MoveCard(gy.ID, rules.ZoneExile)
			}
			g.Logf("%s's graveyard is exiled", g.Player(playerID).Name)
			return nil
		}, act.Targets...)
		return ok()

	case act.Ability == "construct" && ci.Name() == "Urza's Saga":
		if ci.Tapped || ci.Counters.Count(counters.Lore) < 2 {
			return failf("%s cannot make a Construct yet", ci.Name())
		}
		if !e.payFor(g, act.Player, mana.MustParseCost("{2}")) {
			return failf("cannot pay for %s", ci.Name())
		}
		ci.Tapped = true
		push("Urza's Saga: create a Construct", func(it rules.StackItem) error {
			e.createToken(g, it.Controller, "Construct")
			return nil
		})
		return ok()

	case ci.Def.IsPlaneswalker():
		return e.activateLoyalty(g, act, ci, push)
	}
	return failf("%s has no ability %q", ci.Name(), act.Ability)
}

// activateLoyalty pays the loyalty cost immediately and stacks the
// ability. One loyalty ability per planeswalker per turn.
func (e *Engine) activateLoyalty(g *GameState, act Action, ci *CardInstance, push func(string, func(rules.StackItem) error, ...string)) ActionResult {
	if ci.Counters.Count(counters.LoyaltyUsed) > 0 {
		return failf("%s already used a loyalty ability this turn", ci.Name())
	}
	cost, known := loyaltyCost(ci.Name(), act.Ability)
	if !known {
		return failf("%s has no ability %q", ci.Name(), act.Ability)
	}
	loyalty := ci.Counters.Count(counters.Loyalty)
	if cost < 0 && loyalty < -cost {
		return failf("%s has only %d loyalty", ci.Name(), loyalty)
	}
	if cost >= 0 {
		ci.Counters.Add(counters.Loyalty, cost)
		g.Publish(rules.NewEventWithAmount(rules.EventCounterAdded, ci.ID, ci.ID, act.Player, cost))
	} else {
		ci.Counters.Remove(counters.Loyalty, -cost)
		g.Publish(rules.NewEventWithAmount(rules.EventCounterRemoved, ci.ID, ci.ID, act.Player, -cost))
	}
	ci.Counters.Add(counters.LoyaltyUsed, 1)

	key := ci.Name() + " " + act.Ability
	push(fmt.Sprintf("%s %s", ci.Name(), act.Ability), func(it rules.StackItem) error {
		return e.resolveLoyalty(g, key, it)
	}, act.Targets...)
	return ok()
}

// loyaltyCost returns the loyalty delta of a planeswalker ability key:
// positive for plus abilities, negative for costs.
func loyaltyCost(name, ability string) (int, bool) {
	switch name + " " + ability {
	case "Liliana of the Veil +1", "Teferi, Time Raveler +1":
		return 1, true
	case "Liliana of the Veil -2":
		return -2, true
	case "Liliana of the Veil -6":
		return -6, true
	case "Teferi, Time Raveler -3":
		return -3, true
	}
	return 0, false
}
