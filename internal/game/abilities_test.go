package game

import (
	"testing"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

func TestFetchLandSearchesOntoTheBattlefield(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	mire := s.untappedLand("Bloodstained Mire", aliceID)

	crack := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == mire.ID
	})
	s.apply(crack)

	if mire.Zone != rules.ZoneGraveyard {
		t.Errorf("expected the fetch sacrificed up front, got zone %s", mire.Zone)
	}
	if got := s.g.Player(aliceID).Life; got != 19 {
		t.Errorf("expected 1 life paid, Alice at %d", got)
	}

	s.resolveAll()

	battlefield := s.g.BattlefieldOf(aliceID)
	if len(battlefield) != 1 || !battlefield[0].Def.HasSubtype("Swamp") {
		t.Fatalf("expected one fetched Swamp on the battlefield, got %d permanents", len(battlefield))
	}
	if got := len(s.g.CardsOf(aliceID, rules.ZoneLibrary)); got != 7 {
		t.Errorf("expected 7 cards left in the library, got %d", got)
	}
}

func TestFetchFailToFindStillShuffles(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	mire := s.untappedLand("Bloodstained Mire", aliceID)
	s.alice.failSearch = true

	crack := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == mire.ID
	})
	s.apply(crack)
	s.resolveAll()

	if got := len(s.g.BattlefieldOf(aliceID)); got != 0 {
		t.Errorf("expected nothing fetched, got %d permanents", got)
	}
	if got := len(s.g.CardsOf(aliceID, rules.ZoneLibrary)); got != 8 {
		t.Errorf("expected the library intact at 8 cards, got %d", got)
	}
}

func TestFetchedShockCanPayTwoLife(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	mire := s.untappedLand("Bloodstained Mire", aliceID)
	grave := s.inLibrary("Watery Grave", aliceID)
	s.alice.searchPick = grave.ID

	crack := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == mire.ID
	})
	s.apply(crack)
	s.resolveAll()

	if grave.Zone != rules.ZoneBattlefield {
		t.Fatalf("expected the shock land fetched, got zone %s", grave.Zone)
	}
	if grave.Tapped {
		t.Error("expected the shock untapped after paying 2 life")
	}
	if got := s.g.Player(aliceID).Life; got != 17 {
		t.Errorf("expected 1 life for the fetch and 2 for the shock, Alice at %d", got)
	}
}

func TestShockEntersTappedAtLowLife(t *testing.T) {
	s := newScenario(t)
	grave := s.inHand("Watery Grave", aliceID)
	s.g.Player(aliceID).Life = 2

	s.e.enterPermanent(s.g, grave, aliceID)

	if !grave.Tapped {
		t.Error("expected the shock tapped when 2 life cannot be spared")
	}
	if got := s.g.Player(aliceID).Life; got != 2 {
		t.Errorf("expected no life paid, Alice at %d", got)
	}
}

func TestCastleLocthwainDrawsAndDrains(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	castle := s.untappedLand("Castle Locthwain", aliceID)
	s.untappedLand("Swamp", aliceID)
	s.untappedLand("Swamp", aliceID)
	s.untappedLand("Swamp", aliceID)

	draw := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == castle.ID
	})
	s.apply(draw)

	if !castle.Tapped {
		t.Error("expected the castle tapped as part of the cost")
	}
	s.resolveAll()

	if got := s.g.HandSize(aliceID); got != 1 {
		t.Errorf("expected one card drawn, hand size %d", got)
	}
	if got := s.g.Player(aliceID).Life; got != 19 {
		t.Errorf("expected life lost equal to the new hand size, Alice at %d", got)
	}
}

func TestMishrasFactoryAnimates(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	factory := s.untappedLand("Mishra's Factory", aliceID)
	s.untappedLand("Swamp", aliceID)

	animate := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == factory.ID
	})
	s.apply(animate)
	s.resolveAll()

	if !factory.Animated {
		t.Fatal("expected the factory animated")
	}
	if p, to := s.g.EffectivePower(factory), s.g.EffectiveToughness(factory); p != 2 || to != 2 {
		t.Errorf("expected a 2/2, got %d/%d", p, to)
	}
	if !factory.IsCreature() {
		t.Error("expected the animated factory to count as a creature")
	}
}

func TestUrzasSagaMintsAConstruct(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	saga := s.untappedLand("Urza's Saga", aliceID)
	saga.Counters.Add(counters.Lore, 1)
	s.untappedLand("Swamp", aliceID)
	s.untappedLand("Swamp", aliceID)

	build := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == saga.ID
	})
	s.apply(build)
	s.resolveAll()

	construct := s.g.FirstNamed(aliceID, "Construct")
	if construct == nil {
		t.Fatal("expected a Construct token")
	}
	// The Construct counts itself among the artifacts it grows with.
	if got := s.g.EffectivePower(construct); got != 1 {
		t.Errorf("expected the Construct at 1 power, got %d", got)
	}
}

func TestLilianaPlusOneMakesBothPlayersDiscard(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	liliana := s.named("Liliana of the Veil", aliceID)
	s.inHand("Swamp", aliceID)
	s.inHand("Swamp", bobID)

	plus := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == liliana.ID && a.Ability == "+1"
	})
	s.apply(plus)

	if got := liliana.Counters.Count(counters.Loyalty); got != 4 {
		t.Errorf("expected loyalty paid up to 4, got %d", got)
	}
	s.resolveAll()

	if got := s.g.HandSize(aliceID); got != 0 {
		t.Errorf("expected Alice's hand emptied, %d left", got)
	}
	if got := s.g.HandSize(bobID); got != 0 {
		t.Errorf("expected Bob's hand emptied, %d left", got)
	}
}

func TestLilianaMinusTwoForcesASacrifice(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	liliana := s.named("Liliana of the Veil", aliceID)
	bear := s.creature("Bear", bobID, 2, 2)

	edict := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == liliana.ID && a.Ability == "-2" &&
			len(a.Targets) > 0 && a.Targets[0] == PlayerTarget(bobID)
	})
	s.apply(edict)

	if got := liliana.Counters.Count(counters.Loyalty); got != 1 {
		t.Errorf("expected loyalty down to 1, got %d", got)
	}
	s.resolveAll()

	if bear.Zone != rules.ZoneGraveyard {
		t.Errorf("expected the bear sacrificed, got zone %s", bear.Zone)
	}
}

func TestOneLoyaltyAbilityPerTurn(t *testing.T) {
	s := newScenario(t)
	s.toMain()
	liliana := s.named("Liliana of the Veil", aliceID)

	plus := findAction(t, s.legalFor(aliceID), func(a Action) bool {
		return a.Type == ActionActivate && a.CardID == liliana.ID && a.Ability == "+1"
	})
	s.apply(plus)
	s.resolveAll()

	if hasAction(s.legalFor(aliceID), func(a Action) bool { return a.CardID == liliana.ID }) {
		t.Error("expected no second loyalty activation this turn")
	}
}
