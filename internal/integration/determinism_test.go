// Package integration exercises whole games and matches end to end,
// wired the way cmd/gauntlet wires them: real decks from the builtin
// pool, stock agents, and a seeded engine.
package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spellstack/gauntlet/internal/agent"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/match"
)

// burnDeck is a red aggro list the scripted opponent can pilot without
// choices: lands and haste one-drops, nothing that targets.
func burnDeck() *card.Decklist {
	main := make([]string, 0, 24)
	for i := 0; i < 10; i++ {
		main = append(main, "Mountain")
	}
	for i := 0; i < 7; i++ {
		main = append(main, "Goblin Guide")
	}
	for i := 0; i < 7; i++ {
		main = append(main, "Monastery Swiftspear")
	}
	return &card.Decklist{Name: "burn", Main: main}
}

// swampPile gives the goldfish enough library that it cannot deck
// before the burn deck closes the game.
func swampPile(n int) *card.Decklist {
	main := make([]string, n)
	for i := range main {
		main[i] = "Swamp"
	}
	return &card.Decklist{Name: "pile", Main: main}
}

func burnSeat() match.Seat {
	return match.Seat{ID: "burn", Name: "Burn", Deck: burnDeck(), Agent: agent.NewScriptedOpponent()}
}

func pileSeat() match.Seat {
	return match.Seat{ID: "pile", Name: "Pile", Deck: swampPile(40), Agent: agent.NewGoldfishOpponent()}
}

func TestSameSeedReproducesAGame(t *testing.T) {
	run := func() *game.Result {
		engine := game.NewEngine(card.NewBuiltin(), game.Options{Seed: 11}, zaptest.NewLogger(t))
		res, err := engine.RunGame(context.Background(),
			game.PlayerSetup{ID: "burn", Name: "Burn", Deck: burnDeck(), Agent: agent.NewScriptedOpponent()},
			game.PlayerSetup{ID: "pile", Name: "Pile", Deck: swampPile(40), Agent: agent.NewGoldfishOpponent()},
		)
		require.NoError(t, err)
		return res
	}

	first := run()
	second := run()

	require.Equal(t, first, second)
	require.Equal(t, "burn", first.Winner)
	require.NotEmpty(t, first.Log)
}

func TestSameSeedReproducesTheWholeMatch(t *testing.T) {
	play := func() *match.MatchResult {
		runner := match.NewRunner(card.NewBuiltin(), game.Options{Seed: 11}, zaptest.NewLogger(t))
		runner.KeepLogs = true
		res, err := runner.Play(context.Background(), "rerun", burnSeat(), pileSeat())
		require.NoError(t, err)
		return res
	}

	first := play()
	second := play()

	require.Equal(t, first, second)
	require.Equal(t, "burn", first.Winner)
	for _, gr := range first.GameResults {
		require.Equal(t, "burn", gr.Winner)
		require.NotEmpty(t, gr.Log)
	}
}
