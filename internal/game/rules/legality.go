package rules

import (
	"fmt"
	"strings"
)

// Zone identifies where a card currently lives.
type Zone string

const (
	ZoneLibrary     Zone = "LIBRARY"
	ZoneHand        Zone = "HAND"
	ZoneBattlefield Zone = "BATTLEFIELD"
	ZoneGraveyard   Zone = "GRAVEYARD"
	ZoneStack       Zone = "STACK"
	ZoneExile       Zone = "EXILE"
)

// LegalityChecker validates stack items when they would resolve. A
// spell whose targets have all become illegal is removed from the
// stack without effect.
type LegalityChecker struct {
	gameState GameStateAccessor
}

// GameStateAccessor provides access to game state needed for legality checks.
type GameStateAccessor interface {
	// FindCard finds a card by ID in any zone
	FindCard(cardID string) (CardInfo, bool)
	// FindPlayer finds player info by ID
	FindPlayer(playerID string) (PlayerInfo, bool)
	// GetCardZone returns the zone a card is currently in
	GetCardZone(cardID string) (Zone, bool)
}

// CardInfo provides information about a card for legality checks.
type CardInfo struct {
	ID           string
	Name         string
	Zone         Zone
	ControllerID string
	OwnerID      string
	Tapped       bool
}

// PlayerInfo provides information about a player for legality checks.
type PlayerInfo struct {
	PlayerID string
	Name     string
	Life     int
	Lost     bool
}

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal   bool
	Reason  string
	Details map[string]string
}

// NewLegalityChecker creates a new legality checker.
func NewLegalityChecker(gameState GameStateAccessor) *LegalityChecker {
	return &LegalityChecker{
		gameState: gameState,
	}
}

// TargetLegal reports whether a single target is still legal. Player
// targets stay legal until that player has lost. Card targets must
// still be on the battlefield or the stack; a card that moved to any
// other zone since being targeted is gone.
func (lc *LegalityChecker) TargetLegal(targetID string) bool {
	if lc == nil || lc.gameState == nil {
		return true
	}
	if player, found := lc.gameState.FindPlayer(targetID); found {
		return !player.Lost
	}
	zone, found := lc.gameState.GetCardZone(targetID)
	if !found {
		return false
	}
	return zone == ZoneBattlefield || zone == ZoneStack
}

// ValidTargets filters the item's targets down to those still legal.
func (lc *LegalityChecker) ValidTargets(item StackItem) []string {
	if len(item.Targets) == 0 {
		return nil
	}
	valid := make([]string, 0, len(item.Targets))
	for _, targetID := range item.Targets {
		if lc.TargetLegal(targetID) {
			valid = append(valid, targetID)
		}
	}
	return valid
}

// CheckStackItemLegality validates a stack item at resolution time.
// An item with targets is illegal only when every target has become
// illegal (Rule 608.2b); untargeted items always resolve.
func (lc *LegalityChecker) CheckStackItemLegality(item StackItem) LegalityResult {
	if lc == nil || lc.gameState == nil {
		return LegalityResult{
			Legal:  true,
			Reason: "Legality checker not initialized",
		}
	}

	if item.Controller != "" {
		player, found := lc.gameState.FindPlayer(item.Controller)
		if !found {
			return LegalityResult{
				Legal:  false,
				Reason: "Controller not found",
				Details: map[string]string{
					"controller_id": item.Controller,
				},
			}
		}
		if player.Lost {
			return LegalityResult{
				Legal:  false,
				Reason: "Controller has lost the game",
				Details: map[string]string{
					"controller_id": item.Controller,
				},
			}
		}
	}

	if len(item.Targets) == 0 {
		return LegalityResult{
			Legal:  true,
			Reason: "No targets to validate",
		}
	}

	valid := lc.ValidTargets(item)
	if len(valid) == 0 {
		return LegalityResult{
			Legal:  false,
			Reason: "All targets are illegal",
			Details: map[string]string{
				"targets": strings.Join(item.Targets, ","),
			},
		}
	}

	return LegalityResult{
		Legal:  true,
		Reason: fmt.Sprintf("%d of %d targets remain legal", len(valid), len(item.Targets)),
	}
}
