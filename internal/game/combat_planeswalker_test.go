package game

import (
	"testing"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

func TestCombatAttackPlaneswalker(t *testing.T) {
	s := newScenario(t)
	bear := s.creature("Bear", aliceID, 2, 2)
	liliana := s.named("Liliana of the Veil", bobID)
	s.alice.attacks = map[string]string{bear.ID: liliana.ID}

	s.declareCombat()
	s.dealCombatDamage()

	if loyalty := liliana.Counters.Count(counters.Loyalty); loyalty != 1 {
		t.Errorf("expected Liliana at 1 loyalty after 2 damage, got %d", loyalty)
	}
	if life := s.g.Player(bobID).Life; life != 20 {
		t.Errorf("expected planeswalker attack to spare Bob's life, got %d", life)
	}
}

func TestCombatLethalDamageFellsPlaneswalker(t *testing.T) {
	s := newScenario(t)
	brute := s.creature("Brute", aliceID, 4, 4)
	liliana := s.named("Liliana of the Veil", bobID)
	s.alice.attacks = map[string]string{brute.ID: liliana.ID}

	s.declareCombat()
	s.dealCombatDamage()

	if liliana.Zone != rules.ZoneGraveyard {
		t.Errorf("expected Liliana to die at 0 loyalty, got zone %s", liliana.Zone)
	}
}
