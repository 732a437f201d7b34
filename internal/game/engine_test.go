package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

func deckOf(n int, name string) *card.Decklist {
	deck := &card.Decklist{Name: "mono " + name}
	for i := 0; i < n; i++ {
		deck.Main = append(deck.Main, name)
	}
	return deck
}

// newMatchup builds a symmetric two-player game with scripted agents
// that pass every priority.
func newMatchup(t *testing.T, opts Options, deckSize int) (*Engine, *GameState, *scriptAgent, *scriptAgent) {
	t.Helper()
	alice := &scriptAgent{}
	bob := &scriptAgent{}
	e := NewEngine(card.NewBuiltin(), opts, zaptest.NewLogger(t))
	g, err := e.NewGame(
		PlayerSetup{ID: aliceID, Name: "Alice", Deck: deckOf(deckSize, "Swamp"), Agent: alice},
		PlayerSetup{ID: bobID, Name: "Bob", Deck: deckOf(deckSize, "Swamp"), Agent: bob},
	)
	if err != nil {
		t.Fatalf("failed to build game: %v", err)
	}
	return e, g, alice, bob
}

func TestRunStopsAtTheTurnLimit(t *testing.T) {
	e, g, _, _ := newMatchup(t, Options{Seed: 1, MaxTurns: 3}, 40)

	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Winner != "" {
		t.Errorf("expected a draw, winner %q", res.Winner)
	}
	if res.Reason != "turn limit (3) reached" {
		t.Errorf("unexpected end reason %q", res.Reason)
	}
	if res.Turns != 4 {
		t.Errorf("expected the break on the untap of turn 4, got %d", res.Turns)
	}
	if len(res.Log) == 0 {
		t.Error("expected the game log carried into the result")
	}
}

func TestDeckedPlayerLosesTheGame(t *testing.T) {
	// Eight-card decks leave one card in each library after the deal.
	// The first player skips the first draw, so Bob runs dry first.
	e, g, _, _ := newMatchup(t, Options{Seed: 1}, 8)

	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Winner != aliceID {
		t.Errorf("expected Alice to win the deck race, winner %q", res.Winner)
	}
	if !strings.Contains(res.Reason, "drew from an empty library") {
		t.Errorf("unexpected end reason %q", res.Reason)
	}
	if res.Turns != 4 {
		t.Errorf("expected Bob decked on turn 4, got %d", res.Turns)
	}
}

func TestOpeningHandsAreSevenCards(t *testing.T) {
	e, g, _, _ := newMatchup(t, Options{Seed: 1}, 20)

	e.dealOpeningHands(g)

	for _, id := range []string{aliceID, bobID} {
		if got := g.HandSize(id); got != 7 {
			t.Errorf("player %s hand size %d, want 7", id, got)
		}
		if got := len(g.CardsOf(id, rules.ZoneLibrary)); got != 13 {
			t.Errorf("player %s library %d, want 13", id, got)
		}
		if got := g.Player(id).MulliganCount; got != 0 {
			t.Errorf("player %s took %d unasked mulligans", id, got)
		}
	}
}

func TestMulliganBottomsOnePerTrip(t *testing.T) {
	e, g, alice, _ := newMatchup(t, Options{Seed: 1, MaxMulligans: 3}, 20)
	alice.mulligans = 1

	e.dealOpeningHands(g)

	if got := g.HandSize(aliceID); got != 6 {
		t.Errorf("expected a six-card keep, hand size %d", got)
	}
	if got := g.Player(aliceID).MulliganCount; got != 1 {
		t.Errorf("expected one mulligan recorded, got %d", got)
	}
	if got := len(g.CardsOf(aliceID, rules.ZoneLibrary)); got != 14 {
		t.Errorf("expected the bottomed card back in the library, %d there", got)
	}
	if got := g.HandSize(bobID); got != 7 {
		t.Errorf("expected Bob untouched, hand size %d", got)
	}
}

func TestMulligansAreCapped(t *testing.T) {
	e, g, alice, _ := newMatchup(t, Options{Seed: 1, MaxMulligans: 2}, 20)
	alice.mulligans = 99

	e.dealOpeningHands(g)

	if got := g.Player(aliceID).MulliganCount; got != 2 {
		t.Errorf("expected the cap to hold at 2, got %d", got)
	}
	if got := g.HandSize(aliceID); got != 5 {
		t.Errorf("expected a five-card keep, hand size %d", got)
	}
}

func TestLeylineBeginsOnTheBattlefield(t *testing.T) {
	alice := &scriptAgent{}
	bob := &scriptAgent{}
	e := NewEngine(card.NewBuiltin(), Options{Seed: 1}, zaptest.NewLogger(t))
	g, err := e.NewGame(
		PlayerSetup{ID: aliceID, Name: "Alice", Deck: deckOf(8, "Leyline of the Void"), Agent: alice},
		PlayerSetup{ID: bobID, Name: "Bob", Deck: deckOf(8, "Swamp"), Agent: bob},
	)
	if err != nil {
		t.Fatalf("failed to build game: %v", err)
	}

	e.dealOpeningHands(g)

	if got := len(g.BattlefieldOf(aliceID)); got != 7 {
		t.Errorf("expected every drawn leyline dropped for free, %d on the battlefield", got)
	}
	if got := g.HandSize(aliceID); got != 0 {
		t.Errorf("expected an emptied hand, %d cards left", got)
	}
}

func TestConcedeEndsTheGameOnTheSpot(t *testing.T) {
	e, g, alice, _ := newMatchup(t, Options{Seed: 1}, 20)
	alice.concede = true

	res, err := e.Run(context.Background(), g)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Winner != bobID {
		t.Errorf("expected Bob handed the win, winner %q", res.Winner)
	}
	if !strings.Contains(res.Reason, "conceded") {
		t.Errorf("unexpected end reason %q", res.Reason)
	}
	if res.Turns != 1 {
		t.Errorf("expected the game over on turn 1, got %d", res.Turns)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	e, g, _, _ := newMatchup(t, Options{Seed: 1}, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, g)
	if err == nil {
		t.Fatal("expected an aborted run to report an error")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the cancellation wrapped, got %v", err)
	}
}

func TestNewGameRejectsUnknownCards(t *testing.T) {
	e := NewEngine(card.NewBuiltin(), Options{Seed: 1}, zaptest.NewLogger(t))
	bad := &card.Decklist{Name: "bad", Main: []string{"Swamp", "Completely Made Up"}}

	_, err := e.NewGame(
		PlayerSetup{ID: aliceID, Name: "Alice", Deck: bad, Agent: &scriptAgent{}},
		PlayerSetup{ID: bobID, Name: "Bob", Deck: deckOf(8, "Swamp"), Agent: &scriptAgent{}},
	)
	if err == nil {
		t.Fatal("expected an unknown card to fail deck loading")
	}
	if !strings.Contains(err.Error(), "Completely Made Up") {
		t.Errorf("expected the offender named, got %v", err)
	}
}

func TestRunGameBuildsAndFinishes(t *testing.T) {
	e := NewEngine(card.NewBuiltin(), Options{Seed: 1, MaxTurns: 2}, zaptest.NewLogger(t))

	res, err := e.RunGame(context.Background(),
		PlayerSetup{ID: aliceID, Name: "Alice", Deck: deckOf(40, "Swamp"), Agent: &scriptAgent{}},
		PlayerSetup{ID: bobID, Name: "Bob", Deck: deckOf(40, "Swamp"), Agent: &scriptAgent{}},
	)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Reason != "turn limit (2) reached" {
		t.Errorf("unexpected end reason %q", res.Reason)
	}
}
