package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spellstack/gauntlet/internal/adjudicator"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// adjudicateItem sends a stack item the template tier cannot resolve to
// the external adjudicator and applies whatever changes come back. The
// adjudicator only ever speaks the closed change vocabulary; anything
// else is logged and skipped.
func (e *Engine) adjudicateItem(g *GameState, item rules.StackItem) error {
	ctx := e.runCtx
	if ctx == nil {
		ctx = context.Background()
	}

	action := fmt.Sprintf("Resolve: %s.", item.Description)
	if name := item.Metadata["card_name"]; name != "" {
		if def, found := e.catalog.Get(name); found && def.OracleText != "" {
			action = fmt.Sprintf("%s Card text: %s", action, def.OracleText)
		}
	}

	resp, err := e.adjudicator.Adjudicate(ctx, adjudicator.Request{
		State:  DescribeState(g),
		Action: action,
	})
	if err != nil {
		return fmt.Errorf("adjudicator: %w", err)
	}
	if !resp.Legal {
		g.Logf("adjudicator ruled %s has no effect: %s", item.Description, resp.Resolution)
		return nil
	}

	g.Logf("adjudicator resolves %s: %s", item.Description, resp.Resolution)
	for _, change := range resp.Changes {
		if err := change.Validate(); err != nil {
			g.Logf("adjudicator change skipped: %v", err)
			continue
		}
		if err := e.applyStateChange(g, item, change); err != nil {
			g.Logf("adjudicator change skipped: %v", err)
		}
	}
	return nil
}

// applyStateChange executes one directive from the adjudicator against
// the live game state.
func (e *Engine) applyStateChange(g *GameState, item rules.StackItem, change adjudicator.StateChange) error {
	switch change.TargetType {
	case adjudicator.TargetPlayer:
		p := g.Player(strings.TrimPrefix(change.TargetID, playerTargetPrefix))
		if p == nil {
			return fmt.Errorf("unknown player %q", change.TargetID)
		}
		amount, err := strconv.Atoi(change.Value)
		if err != nil {
			return fmt.Errorf("bad amount %q: %w", change.Value, err)
		}
		switch change.Field {
		case adjudicator.FieldLife:
			if amount >= 0 {
				e.gainLife(g, p.ID, amount, item.SourceID)
			} else {
				e.loseLife(g, p.ID, -amount, item.SourceID)
			}
		case adjudicator.FieldDamage:
			e.damagePlayer(g, g.Card(item.SourceID), p.ID, amount)
		default:
			return fmt.Errorf("field %q does not apply to players", change.Field)
		}

	case adjudicator.TargetCard:
		ci := g.Card(change.TargetID)
		if ci == nil {
			return fmt.Errorf("unknown card %q", change.TargetID)
		}
		switch change.Field {
		case adjudicator.FieldZone:
			return e.adjudicatedZoneMove(g, ci, change.Value)
		case adjudicator.FieldDamage:
			amount, err := strconv.Atoi(change.Value)
			if err != nil {
				return fmt.Errorf("bad amount %q: %w", change.Value, err)
			}
			e.damagePermanent(g, g.Card(item.SourceID), ci, amount)
		case adjudicator.FieldCounters:
			amount, err := strconv.Atoi(change.Value)
			if err != nil {
				return fmt.Errorf("bad amount %q: %w", change.Value, err)
			}
			name := change.CounterName
			if name == "" {
				name = counters.P1P1
			}
			if amount >= 0 {
				ci.Counters.Add(name, amount)
				g.Publish(rules.NewEventWithAmount(rules.EventCounterAdded, ci.ID, ci.ID, ci.Controller, amount))
			} else {
				ci.Counters.Remove(name, -amount)
				g.Publish(rules.NewEventWithAmount(rules.EventCounterRemoved, ci.ID, ci.ID, ci.Controller, -amount))
			}
		default:
			return fmt.Errorf("field %q does not apply to cards", change.Field)
		}
	}
	return nil
}

// adjudicatedZoneMove routes a zone directive through the same entry
// points the rest of the engine uses, so triggers and replacement
// effects still apply.
func (e *Engine) adjudicatedZoneMove(g *GameState, ci *CardInstance, zoneName string) error {
	switch rules.Zone(strings.ToUpper(strings.TrimSpace(zoneName))) {
	case rules.ZoneBattlefield:
		e.enterPermanent(g, ci, ci.Controller)
	case rules.ZoneGraveyard:
		g.PutIntoGraveyard(ci)
	case rules.ZoneExile:
		g.MoveCard(ci.ID, rules.ZoneExile)
	case rules.ZoneHand:
		g.MoveCard(ci.ID, rules.ZoneHand)
	case rules.ZoneLibrary:
		g.MoveCard(ci.ID, rules.ZoneLibrary)
		g.PutOnBottom(ci.ID)
	default:
		return fmt.Errorf("unknown zone %q", zoneName)
	}
	return nil
}
