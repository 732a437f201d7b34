package match

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spellstack/gauntlet/internal/agent"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game"
)

func TestFingerprintIgnoresListOrder(t *testing.T) {
	a := &card.Decklist{
		Name:      "rack",
		Main:      []string{"Swamp", "The Rack", "Swamp", "Thoughtseize"},
		Sideboard: []string{"Fatal Push"},
	}
	b := &card.Decklist{
		Name:      "rack",
		Main:      []string{"Thoughtseize", "Swamp", "Swamp", "The Rack"},
		Sideboard: []string{"Fatal Push"},
	}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 64)

	c := &card.Decklist{Name: "rack", Main: []string{"Swamp"}}
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}

func TestApplySideboardSwapsBothWays(t *testing.T) {
	logger := zaptest.NewLogger(t)
	deck := &card.Decklist{
		Name:      "rack",
		Main:      []string{"Thoughtseize", "Swamp", "Swamp"},
		Sideboard: []string{"Leyline of the Void", "Fatal Push"},
	}

	out := applySideboard(deck, []Swap{{Out: "Thoughtseize", In: "Fatal Push"}}, logger)

	assert.Equal(t, []string{"Fatal Push", "Swamp", "Swamp"}, out.Main)
	assert.Equal(t, []string{"Leyline of the Void", "Thoughtseize"}, out.Sideboard)

	// The original list is untouched; game one replays from it.
	assert.Equal(t, []string{"Thoughtseize", "Swamp", "Swamp"}, deck.Main)
	assert.Equal(t, []string{"Leyline of the Void", "Fatal Push"}, deck.Sideboard)
}

func TestApplySideboardSkipsUnknownNames(t *testing.T) {
	logger := zaptest.NewLogger(t)
	deck := &card.Decklist{
		Name:      "rack",
		Main:      []string{"Swamp"},
		Sideboard: []string{"Fatal Push"},
	}

	out := applySideboard(deck, []Swap{
		{Out: "Island", In: "Fatal Push"},
		{Out: "Swamp", In: "Lightning Bolt"},
	}, logger)

	assert.Equal(t, deck.Main, out.Main)
	assert.Equal(t, deck.Sideboard, out.Sideboard)
}

func TestApplySideboardWithoutSwapsReturnsSameList(t *testing.T) {
	deck := &card.Decklist{Name: "rack", Main: []string{"Swamp"}}
	assert.Same(t, deck, applySideboard(deck, nil, zaptest.NewLogger(t)))
}

func TestPlayRejectsBadSeats(t *testing.T) {
	runner := NewRunner(card.NewBuiltin(), game.Options{Seed: 1}, zaptest.NewLogger(t))
	deck := &card.Decklist{Name: "stub", Main: []string{"Swamp"}}
	good := Seat{ID: "ok", Deck: deck, Agent: agent.NewGoldfishOpponent()}

	_, err := runner.Play(context.Background(), "m", Seat{Deck: deck, Agent: agent.NewGoldfishOpponent()}, good)
	require.ErrorContains(t, err, "missing seat id")

	_, err = runner.Play(context.Background(), "m", good, Seat{ID: "bad", Agent: agent.NewGoldfishOpponent()})
	require.ErrorContains(t, err, "missing deck")

	_, err = runner.Play(context.Background(), "m", good, Seat{ID: "bad", Deck: deck})
	require.ErrorContains(t, err, "missing agent")
}

func TestSinkWritesOneJSONLinePerValue(t *testing.T) {
	var buf bytes.Buffer
	sink := NewResultSink(&buf)

	require.NoError(t, sink.Write(GameResult{Number: 1, OnPlay: "a"}))
	require.NoError(t, sink.Write(map[string]string{"k": "v"}))
	require.NoError(t, sink.Close())

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var gr GameResult
	require.NoError(t, json.Unmarshal(lines[0], &gr))
	assert.Equal(t, 1, gr.Number)
	assert.Equal(t, "a", gr.OnPlay)
}
