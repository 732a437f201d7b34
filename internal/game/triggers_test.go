package game

import (
	"testing"

	"github.com/spellstack/gauntlet/internal/game/rules"
)

// upkeepOf publishes the step change that upkeep triggers listen for.
func upkeepOf(s *scenario, playerID string) {
	evt := rules.NewEvent(rules.EventStepChanged, "", "", playerID)
	evt.Metadata["step"] = rules.StepUpkeep.String()
	evt.Metadata["phase"] = rules.PhaseBeginning.String()
	s.g.Publish(evt)
}

func TestTheRackPunishesAnEmptyHand(t *testing.T) {
	s := newScenario(t)
	s.named("The Rack", aliceID)

	upkeepOf(s, bobID)
	if s.g.Stack.IsEmpty() {
		t.Fatal("expected The Rack to trigger on the opponent's upkeep")
	}
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 17 {
		t.Errorf("expected 3 damage with no cards in hand, Bob at %d", got)
	}
}

func TestTheRackQuietWithAFullHand(t *testing.T) {
	s := newScenario(t)
	s.named("The Rack", aliceID)
	s.inHand("Swamp", bobID)
	s.inHand("Swamp", bobID)
	s.inHand("Swamp", bobID)

	upkeepOf(s, bobID)
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 20 {
		t.Errorf("expected no damage with three cards in hand, Bob at %d", got)
	}
}

func TestTheRackIgnoresItsControllersUpkeep(t *testing.T) {
	s := newScenario(t)
	s.named("The Rack", aliceID)

	upkeepOf(s, aliceID)

	if !s.g.Stack.IsEmpty() {
		t.Error("expected no trigger on the controller's own upkeep")
	}
}

func TestShriekingAfflictionDrainsAtOneCard(t *testing.T) {
	s := newScenario(t)
	s.named("Shrieking Affliction", aliceID)
	s.inHand("Swamp", bobID)

	upkeepOf(s, bobID)
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 17 {
		t.Errorf("expected 3 life lost at one card in hand, Bob at %d", got)
	}
}

func TestShriekingAfflictionRecheckedOnResolution(t *testing.T) {
	s := newScenario(t)
	s.named("Shrieking Affliction", aliceID)
	s.inHand("Swamp", bobID)

	upkeepOf(s, bobID)
	if s.g.Stack.IsEmpty() {
		t.Fatal("expected the affliction to trigger")
	}

	// The hand refills before the trigger resolves; the intervening
	// condition fails again under Rule 603.4 and nothing happens.
	s.inHand("Swamp", bobID)
	s.inHand("Swamp", bobID)
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 20 {
		t.Errorf("expected no life loss after the hand refilled, Bob at %d", got)
	}
}

func TestBowmastersPunishExtraDraws(t *testing.T) {
	s := newScenario(t)
	s.named("Orcish Bowmasters", aliceID)

	s.g.Draw(bobID)
	s.resolveAll()
	s.g.Draw(bobID)
	s.resolveAll()

	if got := s.g.Player(bobID).Life; got != 18 {
		t.Errorf("expected 1 damage per draw, Bob at %d", got)
	}
	army := s.g.FirstNamed(aliceID, "Orc Army")
	if army == nil {
		t.Fatal("expected an amassed Orc Army")
	}
	if got := s.g.EffectivePower(army); got != 2 {
		t.Errorf("expected the army at 2 power after amassing twice, got %d", got)
	}
}

func TestBowmastersIgnoreTheControllersDraws(t *testing.T) {
	s := newScenario(t)
	s.named("Orcish Bowmasters", aliceID)

	s.g.Draw(aliceID)

	if !s.g.Stack.IsEmpty() {
		t.Error("expected no trigger on the controller's own draw")
	}
}

func TestProwessGrowsOnNoncreatureSpells(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	spear := s.named("Monastery Swiftspear", aliceID)
	s.untappedLand("Mountain", aliceID)
	bolt := s.inHand("Lightning Bolt", aliceID)

	cast := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionCast && a.CardID == bolt.ID &&
			len(a.Targets) > 0 && a.Targets[0] == PlayerTarget(bobID)
	})
	s.apply(cast)
	s.resolveAll()

	if got := s.g.EffectivePower(spear); got != 2 {
		t.Errorf("expected the swiftspear pumped to 2 power, got %d", got)
	}
	if got := s.g.Player(bobID).Life; got != 17 {
		t.Errorf("expected the bolt to land, Bob at %d", got)
	}
}

func TestGoblinGuideGivesTheDefenderLands(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	guide := s.named("Goblin Guide", aliceID)
	s.alice.attacks = map[string]string{guide.ID: ""}

	s.declareCombat()
	s.resolveAll()

	// The stub library is all Swamps: the revealed top card goes to hand.
	if got := s.g.HandSize(bobID); got != 1 {
		t.Errorf("expected the revealed land in Bob's hand, hand size %d", got)
	}
}

func TestNihilSpellbombDrawsOnDeath(t *testing.T) {
	s := newScenario(t)
	bomb := s.named("Nihil Spellbomb", aliceID)
	swamp := s.untappedLand("Swamp", aliceID)

	s.g.PutIntoGraveyard(bomb)
	if s.g.Stack.IsEmpty() {
		t.Fatal("expected the death trigger on the stack")
	}
	s.resolveAll()

	if !swamp.Tapped {
		t.Error("expected {B} paid for the draw")
	}
	if got := s.g.HandSize(aliceID); got != 1 {
		t.Errorf("expected one card drawn, hand size %d", got)
	}
}

func TestTriggersDetachWhenTheSourceLeaves(t *testing.T) {
	s := newScenario(t)
	rack := s.named("The Rack", aliceID)

	s.g.PutIntoGraveyard(rack)
	upkeepOf(s, bobID)

	if !s.g.Stack.IsEmpty() {
		t.Error("expected no trigger after the source left the battlefield")
	}
}
