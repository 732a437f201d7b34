// Package adjudicator defines the contract for the external rules
// oracle the engine consults when neither the deterministic tier nor a
// card template can resolve an action. Implementations translate a
// textual game state and action into a legality verdict plus a bounded
// list of state changes.
package adjudicator

import (
	"context"
	"fmt"
	"strings"
)

// Request carries everything an adjudicator sees: a rendered game
// state and the action text to adjudicate. Both are plain text so the
// transport never depends on engine types.
type Request struct {
	State  string `json:"state"`
	Action string `json:"action"`
}

// Response is the adjudicator's verdict. Changes use the closed
// vocabulary below; anything an implementation returns outside it is
// logged by the engine as unresolved and skipped.
type Response struct {
	Legal      bool          `json:"legal"`
	Resolution string        `json:"resolution"`
	Changes    []StateChange `json:"state_changes"`
	Reasoning  string        `json:"reasoning,omitempty"`
}

// Change vocabulary. TargetType selects what TargetID names; Field
// picks the property to modify.
const (
	TargetPlayer = "player"
	TargetCard   = "card"

	FieldLife     = "life"
	FieldZone     = "zone"
	FieldCounters = "counters"
	FieldDamage   = "damage"
)

// StateChange is one directive: adjust life, move a card between
// zones, add or remove counters, or mark damage. Value is a signed
// amount for numeric fields and a zone name for zone moves.
type StateChange struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	// CounterName qualifies counter changes; empty means +1/+1.
	CounterName string `json:"counter_name,omitempty"`
}

// Validate reports whether the change stays inside the vocabulary.
func (sc StateChange) Validate() error {
	switch sc.TargetType {
	case TargetPlayer, TargetCard:
	default:
		return fmt.Errorf("unknown target type %q", sc.TargetType)
	}
	switch sc.Field {
	case FieldLife, FieldZone, FieldCounters, FieldDamage:
	default:
		return fmt.Errorf("unknown field %q", sc.Field)
	}
	if strings.TrimSpace(sc.TargetID) == "" {
		return fmt.Errorf("missing target id")
	}
	return nil
}

// Adjudicator resolves actions the engine cannot. Implementations must
// be safe for sequential reuse across games; the engine never calls
// one concurrently.
type Adjudicator interface {
	Adjudicate(ctx context.Context, req Request) (Response, error)
}

// Null is the unconfigured adjudicator: every request comes back not
// legal with no changes, which the engine turns into its best-effort
// fallback path.
type Null struct{}

// Adjudicate implements Adjudicator.
func (Null) Adjudicate(context.Context, Request) (Response, error) {
	return Response{
		Legal:      false,
		Resolution: "no adjudicator configured",
	}, nil
}
