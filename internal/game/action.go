package game

import "fmt"

// ActionType classifies the actions a player can take when asked for
// one, during a priority window or a combat declaration round.
type ActionType string

const (
	// ActionPass yields priority without doing anything.
	ActionPass ActionType = "PASS"
	// ActionPlayLand plays a land from hand, once per turn.
	ActionPlayLand ActionType = "PLAY_LAND"
	// ActionCast casts a spell from hand, paying its cost.
	ActionCast ActionType = "CAST"
	// ActionActivate activates an ability of a permanent.
	ActionActivate ActionType = "ACTIVATE"
	// ActionAttack declares one attacker during the declaration round.
	ActionAttack ActionType = "ATTACK"
	// ActionBlock declares one blocker during the declaration round.
	ActionBlock ActionType = "BLOCK"
	// ActionDone finishes a combat declaration round.
	ActionDone ActionType = "DONE"
	// ActionConcede concedes the game on the spot.
	ActionConcede ActionType = "CONCEDE"
)

// Action is one concrete choice offered to or taken by a player.
// CardID names the card being played, cast, activated, or declared;
// Targets carries chosen card IDs or player target tags. Mode selects
// a modal line, X fixes an {X} cost, and Alternate names an alternate
// casting cost such as evoke.
type Action struct {
	Type      ActionType
	Player    string
	CardID    string
	Targets   []string
	Mode      int
	X         int
	Alternate string
	Ability   string

	Description string
}

// String renders the action for logs and agent prompts.
func (a Action) String() string {
	if a.Description != "" {
		return a.Description
	}
	return fmt.Sprintf("%s %s", a.Type, a.CardID)
}

// Pass builds the always-legal pass action for a player.
func Pass(playerID string) Action {
	return Action{Type: ActionPass, Player: playerID, Description: "Pass"}
}

// Done builds the declaration round terminator for a player.
func Done(playerID string) Action {
	return Action{Type: ActionDone, Player: playerID, Description: "Done"}
}

// ActionResult reports the outcome of applying an action. Failures are
// values, not errors: the game continues and the message lands in the
// log.
type ActionResult struct {
	OK      bool
	Message string
}

func ok() ActionResult {
	return ActionResult{OK: true}
}

func okf(format string, args ...interface{}) ActionResult {
	return ActionResult{OK: true, Message: fmt.Sprintf(format, args...)}
}

func failf(format string, args ...interface{}) ActionResult {
	return ActionResult{OK: false, Message: fmt.Sprintf(format, args...)}
}
