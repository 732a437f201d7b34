package observer

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Frame is one spectator message. Type is "phase", "action" or
// "result"; State carries a snapshot after the event.
type Frame struct {
	Type   string        `json:"type"`
	Turn   int           `json:"turn"`
	Phase  string        `json:"phase,omitempty"`
	Step   string        `json:"step,omitempty"`
	Player string        `json:"player,omitempty"`
	Action string        `json:"action,omitempty"`
	Note   string        `json:"note,omitempty"`
	Result *game.Result  `json:"result,omitempty"`
	State  stateSnapshot `json:"state"`
}

type stateSnapshot struct {
	Turn        int              `json:"turn"`
	Phase       string           `json:"phase"`
	Step        string           `json:"step"`
	Active      string           `json:"active_player"`
	Priority    string           `json:"priority_player"`
	Players     []playerSnapshot `json:"players"`
	Battlefield []cardSnapshot   `json:"battlefield"`
	Stack       []string         `json:"stack"`
}

type playerSnapshot struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Life           int    `json:"life"`
	Poison         int    `json:"poison,omitempty"`
	HandCount      int    `json:"hand_count"`
	LibraryCount   int    `json:"library_count"`
	GraveyardCount int    `json:"graveyard_count"`
	Lost           bool   `json:"lost,omitempty"`
}

type cardSnapshot struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Controller string `json:"controller"`
	Power      int    `json:"power,omitempty"`
	Toughness  int    `json:"toughness,omitempty"`
	Damage     int    `json:"damage,omitempty"`
	Loyalty    int    `json:"loyalty,omitempty"`
	Tapped     bool   `json:"tapped,omitempty"`
	Attacking  bool   `json:"attacking,omitempty"`
	Blocking   bool   `json:"blocking,omitempty"`
	Token      bool   `json:"token,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts game frames to websocket spectators. The engine calls
// the Observer methods from its single game goroutine; the hub hands
// marshaled frames to its own run loop so a slow spectator never
// stalls the game.
type Hub struct {
	logger     *zap.Logger
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client

	mu   sync.RWMutex
	last []byte
}

// NewHub builds the spectator hub. Call Run in its own goroutine
// before attaching the hub to an engine.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run owns the client set. New spectators receive the most recent
// frame immediately so they join mid-game with a populated board.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.mu.RLock()
			last := h.last
			h.mu.RUnlock()
			if last != nil {
				select {
				case c.send <- last:
				default:
				}
			}
			h.logger.Debug("spectator joined", zap.Int("spectators", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.logger.Debug("spectator left", zap.Int("spectators", len(h.clients)))

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
		}
	}
}

// ServeWS upgrades an HTTP request into a spectator connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c
	go c.writePump()
	go c.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	// Spectators send nothing meaningful; the pump exists to notice
	// disconnects.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

func (h *Hub) publish(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Warn("frame marshal failed", zap.Error(err))
		return
	}
	h.mu.Lock()
	h.last = data
	h.mu.Unlock()
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("frame dropped, broadcast backlog full")
	}
}

func (h *Hub) OnPhaseChange(g *game.GameState, phase rules.Phase, step rules.Step) {
	h.publish(Frame{
		Type:  "phase",
		Turn:  g.Turn.TurnNumber(),
		Phase: phase.String(),
		Step:  step.String(),
		State: snapshot(g),
	})
}

func (h *Hub) OnAction(g *game.GameState, playerID string, action game.Action, result game.ActionResult) {
	if action.Type == game.ActionPass {
		return
	}
	h.publish(Frame{
		Type:   "action",
		Turn:   g.Turn.TurnNumber(),
		Player: playerID,
		Action: action.String(),
		Note:   result.Message,
		State:  snapshot(g),
	})
}

func (h *Hub) OnResult(g *game.GameState, result *game.Result) {
	h.publish(Frame{
		Type:   "result",
		Turn:   g.Turn.TurnNumber(),
		Result: result,
		State:  snapshot(g),
	})
}

func snapshot(g *game.GameState) stateSnapshot {
	snap := stateSnapshot{
		Turn:     g.Turn.TurnNumber(),
		Phase:    g.Turn.CurrentPhase().String(),
		Step:     g.Turn.CurrentStep().String(),
		Active:   g.Turn.ActivePlayer(),
		Priority: g.Turn.PriorityPlayer(),
	}
	for _, id := range g.Order {
		p := g.Player(id)
		snap.Players = append(snap.Players, playerSnapshot{
			ID:             p.ID,
			Name:           p.Name,
			Life:           p.Life,
			Poison:         p.Poison,
			HandCount:      g.HandSize(id),
			LibraryCount:   g.LibrarySize(id),
			GraveyardCount: len(g.CardsOf(id, rules.ZoneGraveyard)),
			Lost:           p.HasLost,
		})
	}
	for _, ci := range g.Battlefield() {
		cs := cardSnapshot{
			ID:         ci.ID,
			Name:       ci.Name(),
			Controller: ci.Controller,
			Damage:     ci.Damage,
			Tapped:     ci.Tapped,
			Token:      ci.Token,
			Attacking:  g.Combat.IsAttacking(ci.ID),
		}
		if _, blocking := g.Combat.Blocks[ci.ID]; blocking {
			cs.Blocking = true
		}
		if ci.IsCreature() {
			cs.Power = g.EffectivePower(ci)
			cs.Toughness = g.EffectiveToughness(ci)
		}
		if ci.Def.IsPlaneswalker() {
			cs.Loyalty = ci.Counters.Count(counters.Loyalty)
		}
		snap.Battlefield = append(snap.Battlefield, cs)
	}
	for _, item := range g.Stack.List() {
		snap.Stack = append(snap.Stack, item.Description)
	}
	return snap
}
