package game

import (
	"strings"
	"testing"

	"github.com/spellstack/gauntlet/internal/game/rules"
)

func TestResponsesResolveInReverseOrder(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	s.untappedLand("Mountain", aliceID)
	s.untappedLand("Swamp", bobID)
	bolt := s.inHand("Lightning Bolt", aliceID)
	push := s.inHand("Fatal Push", bobID)
	guide := s.named("Goblin Guide", aliceID)

	cast := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionCast && a.CardID == bolt.ID &&
			len(a.Targets) > 0 && a.Targets[0] == PlayerTarget(bobID)
	})
	s.apply(cast)

	response := findAction(t, s.legalFor(bobID), func(a Action) bool {
		return a.Type == ActionCast && a.CardID == push.ID &&
			len(a.Targets) > 0 && a.Targets[0] == guide.ID
	})
	s.apply(response)
	s.resolveAll()

	if guide.Zone != rules.ZoneGraveyard {
		t.Errorf("expected the guide destroyed by the response, got zone %s", guide.Zone)
	}
	if got := s.g.Player(bobID).Life; got != 17 {
		t.Errorf("expected the bolt to land afterwards, Bob at %d", got)
	}

	destroyed, bolted := -1, -1
	for i, line := range s.g.Log {
		if destroyed == -1 && strings.Contains(line, "Goblin Guide is destroyed") {
			destroyed = i
		}
		if bolted == -1 && strings.Contains(line, "Lightning Bolt deals 3 damage") {
			bolted = i
		}
	}
	if destroyed == -1 || bolted == -1 || destroyed > bolted {
		t.Errorf("expected the second cast to resolve first, log:\n%s", strings.Join(s.g.Log, "\n"))
	}
}

func TestSameCasterStacksTwoSpells(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	s.untappedLand("Mountain", aliceID)
	s.untappedLand("Mountain", aliceID)
	first := s.inHand("Lightning Bolt", aliceID)
	second := s.inHand("Lightning Bolt", aliceID)

	for _, id := range []string{first.ID, second.ID} {
		cardID := id
		s.apply(findAction(t, s.legalFor(aliceID), func(a Action) bool {
			return a.Type == ActionCast && a.CardID == cardID &&
				len(a.Targets) > 0 && a.Targets[0] == PlayerTarget(bobID)
		}))
	}
	if got := s.g.Stack.Size(); got != 2 {
		t.Fatalf("expected both bolts on the stack, size %d", got)
	}
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 14 {
		t.Errorf("expected 6 damage in total, Bob at %d", got)
	}
	if first.Zone != rules.ZoneGraveyard || second.Zone != rules.ZoneGraveyard {
		t.Errorf("expected both spent bolts in the graveyard, zones %s and %s", first.Zone, second.Zone)
	}
}
