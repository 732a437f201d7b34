package game

import (
	"fmt"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// checkStateBasedActions performs one sweep of the Rule 704 checks and
// reports whether anything changed. The engine calls it in a loop until
// a sweep finds nothing, since one action can expose another, such as a
// creature dying into a Leyline exile that shrinks a graveyard count.
func (e *Engine) checkStateBasedActions(g *GameState) bool {
	somethingHappened := false

	// Rule 704.5a and 704.5c, player loss checks.
	for _, playerID := range g.Order {
		p := g.Player(playerID)
		if p == nil || p.HasLost {
			continue
		}
		if p.Life <= 0 {
			p.Lose(fmt.Sprintf("life total is %d", p.Life))
			g.Logf("%s loses the game (Rule 704.5a)", p.Name)
			somethingHappened = true
			continue
		}
		if p.Poison >= 10 {
			p.Lose("has ten or more poison counters")
			g.Logf("%s loses the game (Rule 704.5c)", p.Name)
			somethingHappened = true
		}
	}

	// Rule 704.5q, matched +1/+1 and -1/-1 counters annihilate. Done
	// before the toughness checks so they see the net stats.
	for _, ci := range g.Battlefield() {
		if ci.Counters.Count(counters.P1P1) > 0 && ci.Counters.Count(counters.M1M1) > 0 {
			ci.Counters.AnnihilatePairs()
			g.Logf("+1/+1 and -1/-1 counters on %s annihilate (Rule 704.5q)", ci.Name())
			somethingHappened = true
		}
	}

	dying := make([]*CardInstance, 0)
	marked := make(map[string]bool)
	condemn := func(ci *CardInstance) {
		if !marked[ci.ID] {
			marked[ci.ID] = true
			dying = append(dying, ci)
		}
	}

	for _, ci := range g.Battlefield() {
		switch {
		case ci.IsCreature():
			toughness := g.EffectiveToughness(ci)
			if toughness <= 0 {
				// Rule 704.5f ignores indestructible: zero toughness
				// is not destruction.
				g.Logf("%s has toughness %d and dies (Rule 704.5f)", ci.Name(), toughness)
				condemn(ci)
				continue
			}
			if g.CreatureHasKeyword(ci, "Indestructible") {
				continue
			}
			if ci.Damage >= toughness {
				g.Logf("%s has lethal damage and is destroyed (Rule 704.5g)", ci.Name())
				condemn(ci)
			} else if ci.DeathtouchHit && ci.Damage > 0 {
				g.Logf("%s was dealt damage by a deathtouch source and is destroyed (Rule 704.5h)", ci.Name())
				condemn(ci)
			}
		case ci.Def.IsPlaneswalker():
			if ci.Counters.Count(counters.Loyalty) <= 0 {
				g.Logf("%s has no loyalty and is put into the graveyard (Rule 704.5i)", ci.Name())
				condemn(ci)
			}
		}
	}

	// Rule 704.5j, the legend rule. Duplicates under one controller are
	// resolved by keeping the most recent arrival.
	for _, keep := range e.legendRuleKeepers(g) {
		for _, extra := range keep.extras {
			g.Logf("legend rule: %s keeps the newest %s (Rule 704.5j)", g.Player(keep.controller).Name, extra.Name())
			condemn(extra)
		}
	}

	// Sagas are sacrificed once their final chapter has resolved
	// (Rule 714.4). A chapter still on the stack defers the sacrifice.
	for _, ci := range g.Battlefield() {
		if !ci.Def.IsSaga() || marked[ci.ID] {
			continue
		}
		_, chapterPending := g.Stack.FindBySource(ci.ID)
		if ci.Counters.Count(counters.Lore) >= sagaFinalChapter && !chapterPending {
			g.Logf("%s has told its last chapter and is sacrificed (Rule 714.4)", ci.Name())
			g.Publish(rules.NewEvent(rules.EventSacrificedPermanent, ci.ID, ci.ID, ci.Controller))
			condemn(ci)
		}
	}

	for _, ci := range dying {
		g.PutIntoGraveyard(ci)
	}
	if len(dying) > 0 {
		somethingHappened = true
	}
	if somethingHappened {
		g.Publish(rules.NewEvent(rules.EventStateBasedActions, "", "", ""))
	}
	return somethingHappened
}

// sagaFinalChapter is the last chapter number of every saga in the
// builtin pool.
const sagaFinalChapter = 3

type legendGroup struct {
	controller string
	extras     []*CardInstance
}

// legendRuleKeepers groups legendary permanents by controller and name
// and returns, per duplicated name, everything except the newest copy.
func (e *Engine) legendRuleKeepers(g *GameState) []legendGroup {
	byKey := make(map[string][]*CardInstance)
	order := make([]string, 0)
	for _, ci := range g.Battlefield() {
		if !ci.Def.IsLegendary() {
			continue
		}
		key := ci.Controller + "\x00" + ci.Name()
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], ci)
	}

	groups := make([]legendGroup, 0)
	for _, key := range order {
		copies := byKey[key]
		if len(copies) < 2 {
			continue
		}
		newest := copies[0]
		for _, ci := range copies[1:] {
			if ci.enteredSeq > newest.enteredSeq {
				newest = ci
			}
		}
		grp := legendGroup{controller: copies[0].Controller}
		for _, ci := range copies {
			if ci.ID != newest.ID {
				grp.extras = append(grp.extras, ci)
			}
		}
		groups = append(groups, grp)
	}
	return groups
}
