package observer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/spellstack/gauntlet/internal/agent"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

func newTestGame(t *testing.T) *game.GameState {
	t.Helper()
	deck := &card.Decklist{Name: "stub"}
	for i := 0; i < 8; i++ {
		deck.Main = append(deck.Main, "Swamp")
	}
	e := game.NewEngine(card.NewBuiltin(), game.Options{Seed: 1}, zaptest.NewLogger(t))
	g, err := e.NewGame(
		game.PlayerSetup{ID: "p1", Name: "P1", Deck: deck, Agent: agent.NewGoldfishOpponent()},
		game.PlayerSetup{ID: "p2", Name: "P2", Deck: deck, Agent: agent.NewGoldfishOpponent()},
	)
	require.NoError(t, err)
	return g
}

func fielded(g *game.GameState, def *card.Definition, player string) *game.CardInstance {
	ci := game.NewCardInstance(def, player)
	g.AddCard(ci)
	g.EnterBattlefield(ci, player)
	return ci
}

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestHubStreamsFramesToSpectators(t *testing.T) {
	g := newTestGame(t)
	hub := NewHub(zaptest.NewLogger(t))
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	conn := dialHub(t, srv)
	hub.OnPhaseChange(g, rules.PhaseBeginning, rules.StepUpkeep)

	frame := readFrame(t, conn)
	require.Equal(t, "phase", frame.Type)
	assert.Equal(t, "BEGINNING", frame.Phase)
	assert.Equal(t, "UPKEEP", frame.Step)
	assert.Equal(t, g.Turn.TurnNumber(), frame.Turn)
	require.Len(t, frame.State.Players, 2)
	for _, p := range frame.State.Players {
		assert.Equal(t, 20, p.Life)
		assert.Equal(t, 8, p.LibraryCount)
		assert.Zero(t, p.HandCount)
	}

	// A pass is never broadcast, so the next frame is the cast.
	hub.OnAction(g, "p1", game.Pass("p1"), game.ActionResult{OK: true})
	act := game.Action{Type: game.ActionCast, Player: "p1", CardID: "x", Description: "Cast Lightning Bolt"}
	hub.OnAction(g, "p1", act, game.ActionResult{OK: true, Message: "resolved"})

	for frame.Type != "action" {
		frame = readFrame(t, conn)
	}
	assert.Equal(t, "Cast Lightning Bolt", frame.Action)
	assert.Equal(t, "p1", frame.Player)
	assert.Equal(t, "resolved", frame.Note)
}

func TestHubReplaysTheLastFrameToLateJoiners(t *testing.T) {
	g := newTestGame(t)
	hub := NewHub(zaptest.NewLogger(t))
	go hub.Run()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	defer srv.Close()

	hub.OnResult(g, &game.Result{Winner: "p1", Turns: 3, Reason: "P2 has lost"})

	conn := dialHub(t, srv)
	frame := readFrame(t, conn)
	assert.Equal(t, "result", frame.Type)
	require.NotNil(t, frame.Result)
	assert.Equal(t, "p1", frame.Result.Winner)
	assert.Equal(t, 3, frame.Result.Turns)
}

func TestSnapshotCapturesTheBoard(t *testing.T) {
	g := newTestGame(t)
	bear := fielded(g, &card.Definition{Name: "Bear", TypeLine: "Creature — Bear", Power: "2", Toughness: "2"}, "p1")
	bear.Tapped = true
	g.Combat.AddAttacker(bear.ID, game.PlayerTarget("p2"))
	wall := fielded(g, &card.Definition{Name: "Wall", TypeLine: "Creature — Wall", Power: "0", Toughness: "4"}, "p2")
	g.Combat.AddBlock(wall.ID, bear.ID)
	liliana, ok := card.NewBuiltin().Get("Liliana of the Veil")
	require.True(t, ok)
	fielded(g, liliana, "p1")

	snap := snapshot(g)
	assert.Equal(t, g.Turn.TurnNumber(), snap.Turn)
	assert.Equal(t, g.Turn.ActivePlayer(), snap.Active)
	require.Len(t, snap.Players, 2)
	require.Len(t, snap.Battlefield, 3)

	byName := make(map[string]cardSnapshot, len(snap.Battlefield))
	for _, cs := range snap.Battlefield {
		byName[cs.Name] = cs
	}
	b := byName["Bear"]
	assert.True(t, b.Tapped)
	assert.True(t, b.Attacking)
	assert.False(t, b.Blocking)
	assert.Equal(t, 2, b.Power)
	assert.Equal(t, 2, b.Toughness)
	assert.Equal(t, "p1", b.Controller)

	w := byName["Wall"]
	assert.True(t, w.Blocking)
	assert.False(t, w.Attacking)
	assert.Equal(t, 4, w.Toughness)

	l := byName["Liliana of the Veil"]
	assert.Equal(t, 3, l.Loyalty, "loyalty counters arrive with the walker")
	assert.Zero(t, l.Power)

	assert.Empty(t, snap.Stack)
}

func TestConsoleLogsActionsAndResults(t *testing.T) {
	g := newTestGame(t)
	core, logs := zapobserver.New(zapcore.DebugLevel)
	c := NewConsole(zap.New(core))

	c.OnAction(g, "p1", game.Pass("p1"), game.ActionResult{OK: true})
	assert.Zero(t, logs.Len(), "passes are not logged")

	act := game.Action{Type: game.ActionCast, Player: "p1", CardID: "x", Description: "Cast Fatal Push"}
	c.OnAction(g, "p1", act, game.ActionResult{OK: true, Message: "resolved"})
	c.OnAction(g, "p1", act, game.ActionResult{OK: false, Message: "not enough mana"})
	c.OnResult(g, &game.Result{Winner: "p1", Turns: 4, Reason: "P2 has lost"})
	c.OnPhaseChange(g, rules.PhaseCombat, rules.StepDeclareAttackers)

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "action", entries[0].Message)
	assert.Equal(t, "Cast Fatal Push", entries[0].ContextMap()["action"])
	assert.Equal(t, "resolved", entries[0].ContextMap()["note"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "not enough mana", entries[1].ContextMap()["rejected"])

	assert.Equal(t, "game over", entries[2].Message)
	assert.Equal(t, "p1", entries[2].ContextMap()["winner"])
	assert.Equal(t, int64(4), entries[2].ContextMap()["turns"])
	assert.Contains(t, entries[2].ContextMap(), "life_p1")
	assert.Contains(t, entries[2].ContextMap(), "life_p2")

	assert.Equal(t, zapcore.DebugLevel, entries[3].Level)
	assert.Equal(t, "step", entries[3].Message)
	assert.Equal(t, "DECLARE_ATTACKERS", entries[3].ContextMap()["step"])
}
