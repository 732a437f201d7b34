package game

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// scenario wires an engine and a two-player game for direct state
// manipulation. Decks are stub piles of Swamps; tests place the cards
// they care about by hand.
type scenario struct {
	t     *testing.T
	e     *Engine
	g     *GameState
	alice *scriptAgent
	bob   *scriptAgent
}

const (
	aliceID = "alice"
	bobID   = "bob"
)

func newScenario(t *testing.T) *scenario {
	t.Helper()
	alice := &scriptAgent{}
	bob := &scriptAgent{}
	e := NewEngine(card.NewBuiltin(), Options{Seed: 1}, zaptest.NewLogger(t))
	g, err := e.NewGame(
		PlayerSetup{ID: aliceID, Name: "Alice", Deck: stubDeck(), Agent: alice},
		PlayerSetup{ID: bobID, Name: "Bob", Deck: stubDeck(), Agent: bob},
	)
	if err != nil {
		t.Fatalf("failed to build game: %v", err)
	}
	return &scenario{t: t, e: e, g: g, alice: alice, bob: bob}
}

func stubDeck() *card.Decklist {
	deck := &card.Decklist{Name: "stub"}
	for i := 0; i < 8; i++ {
		deck.Main = append(deck.Main, "Swamp")
	}
	return deck
}

// creature builds a synthetic creature on the battlefield, already
// free of summoning sickness.
func (s *scenario) creature(name, controller string, power, toughness int, keywords ...string) *CardInstance {
	s.t.Helper()
	def := &card.Definition{
		Name:      name,
		TypeLine:  "Creature — Test",
		Power:     fmt.Sprintf("%d", power),
		Toughness: fmt.Sprintf("%d", toughness),
		Keywords:  keywords,
	}
	ci := NewCardInstance(def, controller)
	s.g.AddCard(ci)
	s.g.EnterBattlefield(ci, controller)
	ci.Sick = false
	return ci
}

// def looks a name up in the builtin catalog.
func (s *scenario) def(name string) *card.Definition {
	s.t.Helper()
	def, found := s.e.catalog.Get(name)
	if !found {
		s.t.Fatalf("unknown builtin card %q", name)
	}
	return def
}

// named places a builtin card directly onto the battlefield with its
// triggers attached, the state a resolved permanent would be in.
func (s *scenario) named(name, controller string) *CardInstance {
	s.t.Helper()
	ci := NewCardInstance(s.def(name), controller)
	s.g.AddCard(ci)
	s.g.EnterBattlefield(ci, controller)
	s.e.attachTriggers(s.g, ci)
	ci.Sick = false
	return ci
}

// inHand places a builtin card into a player's hand.
func (s *scenario) inHand(name, player string) *CardInstance {
	s.t.Helper()
	ci := NewCardInstance(s.def(name), player)
	s.g.AddCard(ci)
	ci.Zone = rules.ZoneHand
	return ci
}

// inLibrary places a builtin card on top of a player's library.
// AddCard appends to the owner's card list, so the new instance is
// rotated to the front where Draw looks.
func (s *scenario) inLibrary(name, player string) *CardInstance {
	s.t.Helper()
	ci := NewCardInstance(s.def(name), player)
	s.g.AddCard(ci)
	p := s.g.Player(player)
	if n := len(p.Cards); n > 0 && p.Cards[n-1] == ci.ID {
		copy(p.Cards[1:], p.Cards[:n-1])
		p.Cards[0] = ci.ID
	}
	return ci
}

// inGraveyard places a builtin card into a player's graveyard.
func (s *scenario) inGraveyard(name, player string) *CardInstance {
	s.t.Helper()
	ci := NewCardInstance(s.def(name), player)
	s.g.AddCard(ci)
	ci.Zone = rules.ZoneGraveyard
	return ci
}

// untappedLand puts a named builtin land onto the battlefield untapped.
func (s *scenario) untappedLand(name, controller string) *CardInstance {
	ci := s.named(name, controller)
	ci.Tapped = false
	return ci
}

// toMain advances the turn to Alice's first main phase without running
// steps, so tests start from a sorcery-speed window.
func (s *scenario) toMain() {
	for s.g.Turn.CurrentStep() != rules.StepMain1 {
		s.g.Turn.AdvanceStep(bobID)
	}
}

// declareCombat runs both declaration rounds with the scripted plans.
func (s *scenario) declareCombat() {
	s.e.declareAttackers(s.g)
	s.e.declareBlockers(s.g)
}

// dealCombatDamage plays out the damage steps the declarations call
// for: the first strike pass when one is needed, then the regular
// pass, with state-based actions after each.
func (s *scenario) dealCombatDamage() {
	if s.g.Turn.HasFirstStrike() {
		s.e.combatDamagePass(s.g, true)
		s.e.runStateBasedActions(s.g)
		if s.g.Over {
			return
		}
	}
	s.e.combatDamagePass(s.g, false)
	s.e.runStateBasedActions(s.g)
}

// apply routes an action through the resolver and fails the test when
// it is rejected.
func (s *scenario) apply(act Action) {
	s.t.Helper()
	res := s.e.Apply(s.g, act)
	if !res.OK {
		s.t.Fatalf("action %s rejected: %s", act.String(), res.Message)
	}
}

// resolveAll pops and resolves the whole stack, running state-based
// actions after each resolution.
func (s *scenario) resolveAll() {
	for !s.g.Stack.IsEmpty() {
		s.e.resolveTop(s.g)
		s.e.runStateBasedActions(s.g)
	}
}

// legalFor fetches the current legal actions for a player.
func (s *scenario) legalFor(player string) []Action {
	return s.e.LegalActions(s.g, player)
}

// scriptAgent follows per-test plans: attack with the listed
// creatures, block per the map, otherwise take the first offer, which
// is always pass or done.
type scriptAgent struct {
	// attacks maps attacker instance IDs to a target tag; an empty
	// value attacks the defending player.
	attacks map[string]string
	// blocks maps blocker instance IDs to the attacker they block.
	blocks map[string]string
	// discardPick names the card the agent picks when asked to choose
	// a discard from a revealed hand.
	discardPick string
	// searchPick names the card fetched from library candidates;
	// failSearch declines the search entirely.
	searchPick string
	failSearch bool
	// mulligans is how many opening hands the agent ships back.
	mulligans int
	// concede makes the agent give up at its first priority.
	concede bool
}

func (a *scriptAgent) ChooseAction(g *GameState, playerID string, legal []Action) Action {
	if a.concede {
		for _, act := range legal {
			if act.Type == ActionConcede {
				return act
			}
		}
	}
	for _, act := range legal {
		switch act.Type {
		case ActionAttack:
			want, planned := a.attacks[act.CardID]
			if !planned || len(act.Targets) == 0 {
				continue
			}
			if want == "" {
				if _, isPlayer := TargetPlayerID(act.Targets[0]); isPlayer {
					return act
				}
				continue
			}
			if act.Targets[0] == want {
				return act
			}
		case ActionBlock:
			want, planned := a.blocks[act.CardID]
			if planned && len(act.Targets) > 0 && act.Targets[0] == want {
				return act
			}
		}
	}
	return legal[0]
}

func (a *scriptAgent) Mulligan(g *GameState, playerID string) bool {
	if a.mulligans > 0 {
		a.mulligans--
		return true
	}
	return false
}

func (a *scriptAgent) CardsToBottom(g *GameState, playerID string, n int) []string {
	ids := instanceIDs(g.CardsOf(playerID, rules.ZoneHand))
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}

func (a *scriptAgent) DiscardTarget(g *GameState, playerID, opponentID string, candidates []string) string {
	return a.pick(candidates)
}

func (a *scriptAgent) DiscardFromHand(g *GameState, playerID string, candidates []string) string {
	return a.pick(candidates)
}

func (a *scriptAgent) SacrificeTarget(g *GameState, playerID string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (a *scriptAgent) SearchTarget(g *GameState, playerID string, candidates []string) string {
	if a.failSearch {
		return ""
	}
	if a.searchPick != "" {
		return a.searchPick
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}

func (a *scriptAgent) Scry(g *GameState, playerID string, top []string) (keep, bottom []string) {
	return top, nil
}

func (a *scriptAgent) pick(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	if a.discardPick != "" {
		for _, c := range candidates {
			if c == a.discardPick {
				return c
			}
		}
	}
	return candidates[0]
}

// findAction locates a legal action by predicate, or fails.
func findAction(t *testing.T, legal []Action, pred func(Action) bool) Action {
	t.Helper()
	for _, act := range legal {
		if pred(act) {
			return act
		}
	}
	t.Fatalf("no matching legal action among %d offers", len(legal))
	return Action{}
}

// hasAction reports whether any legal action satisfies the predicate.
func hasAction(legal []Action, pred func(Action) bool) bool {
	for _, act := range legal {
		if pred(act) {
			return true
		}
	}
	return false
}
