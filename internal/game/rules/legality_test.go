package rules

import (
	"testing"
)

// mockGameStateAccessor implements GameStateAccessor for testing
type mockGameStateAccessor struct {
	cards   map[string]CardInfo
	players map[string]PlayerInfo
	zones   map[string]Zone
}

func newMockGameStateAccessor() *mockGameStateAccessor {
	return &mockGameStateAccessor{
		cards:   make(map[string]CardInfo),
		players: make(map[string]PlayerInfo),
		zones:   make(map[string]Zone),
	}
}

func (m *mockGameStateAccessor) FindCard(cardID string) (CardInfo, bool) {
	card, ok := m.cards[cardID]
	return card, ok
}

func (m *mockGameStateAccessor) FindPlayer(playerID string) (PlayerInfo, bool) {
	player, ok := m.players[playerID]
	return player, ok
}

func (m *mockGameStateAccessor) GetCardZone(cardID string) (Zone, bool) {
	zone, ok := m.zones[cardID]
	return zone, ok
}

func (m *mockGameStateAccessor) addCard(id string, zone Zone) {
	m.cards[id] = CardInfo{ID: id, Zone: zone}
	m.zones[id] = zone
}

func TestLegalityChecker_ControllerValidation(t *testing.T) {
	mockState := newMockGameStateAccessor()
	mockState.players["player1"] = PlayerInfo{
		PlayerID: "player1",
		Name:     "Player 1",
		Life:     20,
	}

	checker := NewLegalityChecker(mockState)

	// Valid item with controller in game
	item := StackItem{
		ID:          "spell1",
		Controller:  "player1",
		Description: "Test Spell",
		Kind:        StackItemKindSpell,
	}

	result := checker.CheckStackItemLegality(item)
	if !result.Legal {
		t.Errorf("Expected legal item, got illegal: %s", result.Reason)
	}

	// Invalid: controller not found
	item.Controller = "nonexistent"
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected illegal item (controller not found), got legal")
	}
	if result.Reason != "Controller not found" {
		t.Errorf("Expected reason 'Controller not found', got '%s'", result.Reason)
	}

	// Invalid: controller lost
	mockState.players["player2"] = PlayerInfo{
		PlayerID: "player2",
		Name:     "Player 2",
		Life:     0,
		Lost:     true,
	}
	item.Controller = "player2"
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected illegal item (controller lost), got legal")
	}
}

func TestLegalityChecker_AllTargetsIllegalFizzles(t *testing.T) {
	mockState := newMockGameStateAccessor()
	mockState.players["player1"] = PlayerInfo{PlayerID: "player1", Life: 20}
	mockState.addCard("target1", ZoneBattlefield)

	checker := NewLegalityChecker(mockState)

	item := StackItem{
		ID:         "spell1",
		Controller: "player1",
		Kind:       StackItemKindSpell,
		Targets:    []string{"target1"},
	}

	result := checker.CheckStackItemLegality(item)
	if !result.Legal {
		t.Errorf("Expected legal spell with valid target, got illegal: %s", result.Reason)
	}

	// Target moved to graveyard in response
	mockState.addCard("target1", ZoneGraveyard)
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected spell to fizzle once its only target moved")
	}

	// Target gone entirely
	item.Targets = []string{"nonexistent"}
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected spell to fizzle with unknown target")
	}
}

func TestLegalityChecker_PartialTargetsStillResolve(t *testing.T) {
	mockState := newMockGameStateAccessor()
	mockState.players["player1"] = PlayerInfo{PlayerID: "player1", Life: 20}
	mockState.addCard("dead", ZoneGraveyard)
	mockState.addCard("alive", ZoneBattlefield)

	checker := NewLegalityChecker(mockState)

	item := StackItem{
		ID:         "spell1",
		Controller: "player1",
		Kind:       StackItemKindSpell,
		Targets:    []string{"dead", "alive"},
	}

	result := checker.CheckStackItemLegality(item)
	if !result.Legal {
		t.Errorf("Expected spell with one legal target to resolve, got: %s", result.Reason)
	}

	valid := checker.ValidTargets(item)
	if len(valid) != 1 || valid[0] != "alive" {
		t.Errorf("Expected only the surviving target, got %v", valid)
	}
}

func TestLegalityChecker_PlayerTargetsNeverFizzle(t *testing.T) {
	mockState := newMockGameStateAccessor()
	mockState.players["player1"] = PlayerInfo{PlayerID: "player1", Life: 20}
	mockState.players["player2"] = PlayerInfo{PlayerID: "player2", Life: 3}

	checker := NewLegalityChecker(mockState)

	item := StackItem{
		ID:         "spell1",
		Controller: "player1",
		Kind:       StackItemKindSpell,
		Targets:    []string{"player2"},
	}

	result := checker.CheckStackItemLegality(item)
	if !result.Legal {
		t.Errorf("Expected player target to stay legal, got: %s", result.Reason)
	}

	// Only a lost player becomes an illegal target
	mockState.players["player2"] = PlayerInfo{PlayerID: "player2", Life: 0, Lost: true}
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected target illegal once the player lost")
	}
}

func TestLegalityChecker_StackTargetsStayLegal(t *testing.T) {
	mockState := newMockGameStateAccessor()
	mockState.players["player1"] = PlayerInfo{PlayerID: "player1", Life: 20}
	mockState.addCard("spell-on-stack", ZoneStack)

	checker := NewLegalityChecker(mockState)

	// A spell targeting another spell on the stack
	item := StackItem{
		ID:         "counter1",
		Controller: "player1",
		Kind:       StackItemKindSpell,
		Targets:    []string{"spell-on-stack"},
	}

	result := checker.CheckStackItemLegality(item)
	if !result.Legal {
		t.Errorf("Expected stack target legal, got: %s", result.Reason)
	}

	// Once it resolves and leaves the stack, the target is gone
	mockState.addCard("spell-on-stack", ZoneGraveyard)
	result = checker.CheckStackItemLegality(item)
	if result.Legal {
		t.Error("Expected target illegal once the spell left the stack")
	}
}
