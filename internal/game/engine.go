package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spellstack/gauntlet/internal/adjudicator"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
	"github.com/spellstack/gauntlet/internal/game/watchers"
	"go.uber.org/zap"
)

// Options tunes the fixed limits of a game.
type Options struct {
	StartingLife int
	MaxTurns     int
	MaxActions   int
	MaxMulligans int
	Seed         int64
}

// DefaultOptions returns the standard two-player configuration: 20
// life, a 50 turn ceiling, 200 actions per priority window, and up to
// 3 mulligans.
func DefaultOptions() Options {
	return Options{
		StartingLife: 20,
		MaxTurns:     50,
		MaxActions:   200,
		MaxMulligans: 3,
	}
}

// PlayerSetup binds a seat to a deck and the agent piloting it.
type PlayerSetup struct {
	ID    string
	Name  string
	Deck  *card.Decklist
	Agent Agent
}

// Result summarizes a finished game. An empty Winner means a draw.
type Result struct {
	Winner string   `json:"winner"`
	Turns  int      `json:"turns"`
	Reason string   `json:"reason"`
	Log    []string `json:"log,omitempty"`
}

// Engine drives games to completion. One engine can run any number of
// games sequentially; it owns no per-game state beyond the agents of
// the game currently running.
type Engine struct {
	logger      *zap.Logger
	catalog     card.Catalog
	adjudicator adjudicator.Adjudicator
	observers   []Observer
	templates   map[string]templateFunc
	agents      map[string]Agent
	opts        Options
	runCtx      context.Context
}

// NewEngine creates an engine over a card catalog. The template table
// is built once here and never changes afterwards.
func NewEngine(catalog card.Catalog, opts Options, logger *zap.Logger) *Engine {
	if opts.StartingLife <= 0 {
		opts.StartingLife = 20
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 50
	}
	if opts.MaxActions <= 0 {
		opts.MaxActions = 200
	}
	if opts.MaxMulligans < 0 {
		opts.MaxMulligans = 3
	}
	return &Engine{
		logger:    logger,
		catalog:   catalog,
		templates: buildTemplates(),
		agents:    make(map[string]Agent),
		opts:      opts,
	}
}

// SetAdjudicator installs the external oracle for actions outside the
// template tier. Without one the engine falls back to generic
// resolution.
func (e *Engine) SetAdjudicator(a adjudicator.Adjudicator) {
	e.adjudicator = a
}

// AddObserver attaches a spectator feed.
func (e *Engine) AddObserver(obs Observer) {
	if obs != nil {
		e.observers = append(e.observers, obs)
	}
}

// NewGame builds the initial game state for two seats: instantiates
// both decks into the arena, registers the turn watchers, and wires
// triggered abilities to the event bus. Libraries are not yet shuffled
// and hands not dealt; Run does that.
func (e *Engine) NewGame(a, b PlayerSetup) (*GameState, error) {
	if e.catalog == nil {
		return nil, errors.New("engine has no card catalog")
	}
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		return nil, fmt.Errorf("invalid player ids %q, %q", a.ID, b.ID)
	}
	if a.Agent == nil || b.Agent == nil {
		return nil, errors.New("both players need an agent")
	}
	if a.Deck == nil || b.Deck == nil {
		return nil, errors.New("both players need a deck")
	}

	pa := NewPlayerState(a.ID, a.Name, e.opts.StartingLife)
	pb := NewPlayerState(b.ID, b.Name, e.opts.StartingLife)
	g := NewGameState(pa, pb, e.opts.Seed, e.logger)

	e.agents = map[string]Agent{a.ID: a.Agent, b.ID: b.Agent}

	g.Watchers.AddWatcher(watchers.NewSpellsCastWatcher())
	g.Watchers.AddWatcher(watchers.NewCreaturesDiedWatcher())
	g.Watchers.AddWatcher(watchers.NewCardsDrawnWatcher())
	g.Watchers.AddWatcher(watchers.NewPermanentsLeftWatcher())

	// Triggered abilities raised by any event go straight onto the
	// stack; a permanent leaving the battlefield takes its registered
	// triggers with it. Both happen in one listener so the order is
	// fixed: the leave event itself can still fire the dying
	// permanent's own triggers.
	g.Bus.Subscribe(func(evt rules.Event) {
		for _, item := range g.Triggers.Handle(evt) {
			g.Stack.Push(item)
			g.Logf("Triggered ability: %s", item.Description)
		}
		if evt.Type == rules.EventZoneChange && evt.Metadata["from"] == string(rules.ZoneBattlefield) {
			g.Triggers.UnregisterBySource(evt.SourceID)
		}
	})

	for _, setup := range []PlayerSetup{a, b} {
		if err := e.loadDeck(g, setup); err != nil {
			return nil, err
		}
	}

	if e.logger != nil {
		e.logger.Info("game created",
			zap.String("game_id", g.ID),
			zap.String("player_a", a.ID),
			zap.String("player_b", b.ID),
			zap.Int("deck_a", a.Deck.Size()),
			zap.Int("deck_b", b.Deck.Size()),
		)
	}
	return g, nil
}

func (e *Engine) loadDeck(g *GameState, setup PlayerSetup) error {
	defs, missing := card.Resolve(e.catalog, setup.Deck.Main)
	if len(missing) > 0 {
		return fmt.Errorf("deck %q has unknown cards: %s", setup.Deck.Name, strings.Join(missing, ", "))
	}
	for _, name := range setup.Deck.Main {
		g.AddCard(NewCardInstance(defs[name], setup.ID))
	}
	return nil
}

// RunGame is the one-call entry point: build the game and play it out.
func (e *Engine) RunGame(ctx context.Context, a, b PlayerSetup) (*Result, error) {
	g, err := e.NewGame(a, b)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, g)
}

// Run plays a prepared game to completion: opening hands and
// mulligans, then turns until a player loses, the turn ceiling forces
// a draw, or the context is canceled. The context is checked once per
// turn.
func (e *Engine) Run(ctx context.Context, g *GameState) (*Result, error) {
	if g == nil {
		return nil, errors.New("nil game state")
	}
	e.runCtx = ctx
	e.dealOpeningHands(g)

	for !g.Over {
		if g.Turn.CurrentStep() == rules.StepUntap {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("game %s aborted: %w", g.ID, err)
			}
			if g.Turn.TurnNumber() > e.opts.MaxTurns {
				g.Over = true
				g.EndReason = fmt.Sprintf("turn limit (%d) reached", e.opts.MaxTurns)
				g.Logf("turn limit reached, game is a draw")
				break
			}
		}

		e.runStep(g)
		if g.Over {
			break
		}

		prevPhase := g.Turn.CurrentPhase()
		next := g.Opponent(g.Turn.ActivePlayer()).ID
		phase, step := g.Turn.AdvanceStep(next)
		if phase != prevPhase {
			g.Publish(rules.NewEvent(rules.EventPhaseChanged, "", "", g.Turn.ActivePlayer()))
		}
		e.notifyPhase(g, phase, step)
	}

	result := &Result{
		Winner: g.Winner,
		Turns:  g.Turn.TurnNumber(),
		Reason: g.EndReason,
		Log:    g.Log,
	}
	if e.logger != nil {
		e.logger.Info("game finished",
			zap.String("game_id", g.ID),
			zap.String("winner", result.Winner),
			zap.Int("turns", result.Turns),
			zap.String("reason", result.Reason),
		)
	}
	e.notifyResult(g, result)
	return result, nil
}

// runStep performs the turn-based actions of the current step and runs
// its priority windows. Every step announces itself on the bus first,
// which is what upkeep-class triggered abilities listen for.
func (e *Engine) runStep(g *GameState) {
	step := g.Turn.CurrentStep()
	evt := rules.NewEvent(rules.EventStepChanged, "", "", g.Turn.ActivePlayer())
	evt.Metadata["step"] = step.String()
	evt.Metadata["phase"] = g.Turn.CurrentPhase().String()
	g.Publish(evt)

	switch step {
	case rules.StepUntap:
		e.untapStep(g)
	case rules.StepUpkeep:
		e.priorityLoop(g)
	case rules.StepDraw:
		e.drawStep(g)
		e.priorityLoop(g)
	case rules.StepMain1, rules.StepMain2:
		e.priorityLoop(g)
	case rules.StepBeginCombat:
		g.Combat.Reset()
	case rules.StepDeclareAttackers:
		e.declareAttackers(g)
		if len(g.Combat.Attackers) > 0 {
			e.priorityLoop(g)
		}
	case rules.StepDeclareBlockers:
		if len(g.Combat.Attackers) > 0 {
			e.declareBlockers(g)
			e.priorityLoop(g)
		}
	case rules.StepFirstStrikeDamage:
		e.combatDamageStep(g, true)
	case rules.StepCombatDamage:
		e.combatDamageStep(g, false)
	case rules.StepEndCombat:
		g.Combat.Reset()
	case rules.StepEnd:
		e.priorityLoop(g)
	case rules.StepCleanup:
		e.cleanupStep(g)
	}
}

func (e *Engine) untapStep(g *GameState) {
	active := g.Turn.ActivePlayer()
	player := g.Player(active)
	player.LandsPlayed = 0
	player.DrawsInDrawStep = 0
	g.Watchers.ResetWatchers()

	g.Publish(rules.NewEventWithAmount(rules.EventBeginTurn, "", "", active, g.Turn.TurnNumber()))
	g.Logf("%s begins turn %d", player.Name, g.Turn.TurnNumber())

	for _, ci := range g.BattlefieldOf(active) {
		ci.Sick = false
		ci.Counters.RemoveAll(counters.SorceryFlash)
		skip := ci.Counters.Has(counters.SkipUntap)
		if skip {
			ci.Counters.Remove(counters.SkipUntap, 1)
		}
		if !ci.Tapped {
			continue
		}
		if skip {
			g.Logf("%s doesn't untap", ci.Name())
			continue
		}
		ci.Tapped = false
		g.Publish(rules.NewEvent(rules.EventUntapped, ci.ID, ci.ID, active))
	}
}

func (e *Engine) drawStep(g *GameState) {
	active := g.Turn.ActivePlayer()
	if g.Turn.TurnNumber() == 1 && active == g.Order[0] {
		g.Logf("%s skips the first draw of the game", g.Player(active).Name)
	} else if _, ok := g.Draw(active); ok {
		g.Logf("%s draws a card", g.Player(active).Name)
	}
	e.advanceSagas(g, active)
}

func (e *Engine) cleanupStep(g *GameState) {
	active := g.Turn.ActivePlayer()
	agent := e.agents[active]

	for g.HandSize(active) > 7 {
		hand := g.CardsOf(active, rules.ZoneHand)
		ids := instanceIDs(hand)
		choice := chooseFrom(agent.DiscardFromHand(g, active, ids), ids)
		e.discardCard(g, active, choice)
	}

	for _, ci := range g.Battlefield() {
		ci.ClearCombatDamage()
		ci.Counters.ClearTemporary()
		if ci.Animated {
			ci.Animated = false
			ci.AnimPower = 0
			ci.AnimToughness = 0
		}
	}
	for _, playerID := range g.Order {
		g.Player(playerID).Pool.Empty()
	}
}

// priorityLoop alternates priority between the players until both pass
// in succession. Two passes over a non-empty stack resolve its top
// item and hand priority back to the active player; two passes over an
// empty stack end the step. Non-pass actions keep priority with the
// actor and are capped so a runaway agent cannot wedge the game.
func (e *Engine) priorityLoop(g *GameState) {
	e.runStateBasedActions(g)
	if g.Over {
		return
	}
	g.Turn.SetPriority(g.Turn.ActivePlayer())
	passes := 0
	actions := 0

	for !g.Over {
		current := g.Turn.PriorityPlayer()
		legal := e.LegalActions(g, current)
		chosen := e.agents[current].ChooseAction(g, current, legal)
		act := validateChoice(chosen, legal)

		switch act.Type {
		case ActionPass:
			passes++
			if passes >= len(g.Order) {
				if g.Stack.IsEmpty() {
					return
				}
				e.resolveTop(g)
				e.runStateBasedActions(g)
				passes = 0
				g.Turn.SetPriority(g.Turn.ActivePlayer())
				continue
			}
			g.Turn.SetPriority(g.Opponent(current).ID)

		case ActionConcede:
			g.Player(current).Conceded = true
			g.Player(current).Lose("conceded")
			g.Logf("%s concedes", g.Player(current).Name)
			e.checkGameOver(g)
			return

		default:
			actions++
			if actions > e.opts.MaxActions {
				g.Logf("action limit (%d) reached, ending step", e.opts.MaxActions)
				return
			}
			res := e.Apply(g, act)
			if !res.OK {
				g.Logf("action rejected: %s", res.Message)
			}
			e.notifyAction(g, current, act, res)
			e.runStateBasedActions(g)
			passes = 0
			g.Turn.SetPriority(current)
		}
	}
}

// resolveTop pops and resolves the top of the stack. A spell whose
// targets have all become illegal fizzles: it moves to the graveyard
// with no effect (Rule 608.2b).
func (e *Engine) resolveTop(g *GameState) {
	item, err := g.Stack.Pop()
	if err != nil {
		return
	}

	check := g.Legality.CheckStackItemLegality(item)
	if !check.Legal {
		if item.CardID != "" {
			if ci := g.Card(item.CardID); ci != nil && ci.Zone == rules.ZoneStack {
				g.PutIntoGraveyard(ci)
			}
		}
		g.Logf("%s fizzles (%s)", item.Description, check.Reason)
		evt := rules.NewEvent(rules.EventStackItemFizzled, item.ID, item.SourceID, item.Controller)
		evt.Description = item.Description
		g.Publish(evt)
		return
	}

	g.Logf("Resolving %s", item.Description)
	if item.Resolve != nil {
		if err := item.Resolve(item); err != nil {
			g.Logf("%s did not fully resolve: %v", item.Description, err)
		}
	}
	evt := rules.NewEvent(rules.EventStackItemResolved, item.ID, item.SourceID, item.Controller)
	evt.Description = item.Description
	g.Publish(evt)
}

// runStateBasedActions applies state-based actions to a fixed point,
// then checks whether the game has ended.
func (e *Engine) runStateBasedActions(g *GameState) {
	for e.checkStateBasedActions(g) {
	}
	e.checkGameOver(g)
}

// checkGameOver settles the game once at least one player has lost.
// Both losing at once is a draw.
func (e *Engine) checkGameOver(g *GameState) bool {
	if g.Over {
		return true
	}
	var alive, lost []*PlayerState
	for _, id := range g.Order {
		p := g.Players[id]
		if p.HasLost {
			lost = append(lost, p)
		} else {
			alive = append(alive, p)
		}
	}
	if len(lost) == 0 {
		return false
	}
	g.Over = true
	if len(alive) == 1 {
		g.Winner = alive[0].ID
		g.EndReason = fmt.Sprintf("%s: %s", lost[0].Name, lost[0].LossReason)
	} else {
		g.EndReason = "both players lost"
	}
	g.Logf("game over: %s", g.EndReason)
	evt := rules.NewEvent(rules.EventGameOver, "", "", g.Winner)
	evt.Description = g.EndReason
	g.Publish(evt)
	return true
}

// dealOpeningHands shuffles, deals, and runs London mulligans: each
// mulligan redraws a full seven, and after keeping, the player bottoms
// one card per mulligan taken. Free permanents that may begin the game
// on the battlefield are dropped from the kept hand at the end.
func (e *Engine) dealOpeningHands(g *GameState) {
	for _, id := range g.Order {
		g.ShuffleLibrary(id)
		e.drawN(g, id, 7)
	}

	for _, id := range g.Order {
		player := g.Player(id)
		agent := e.agents[id]

		for player.MulliganCount < e.opts.MaxMulligans && agent.Mulligan(g, id) {
			player.MulliganCount++
			for _, ci := range g.CardsOf(id, rules.ZoneHand) {
				ci.Zone = rules.ZoneLibrary
			}
			g.ShuffleLibrary(id)
			e.drawN(g, id, 7)
			g.Publish(rules.NewEventWithAmount(rules.EventMulligan, "", "", id, player.MulliganCount))
			g.Logf("%s takes mulligan %d", player.Name, player.MulliganCount)
		}

		if n := player.MulliganCount; n > 0 {
			hand := instanceIDs(g.CardsOf(id, rules.ZoneHand))
			picks := agent.CardsToBottom(g, id, n)
			bottomed := 0
			for _, pick := range picks {
				if bottomed == n {
					break
				}
				if containsString(hand, pick) && g.Card(pick).Zone == rules.ZoneHand {
					g.PutOnBottom(pick)
					bottomed++
				}
			}
			// An agent that picked badly still owes n cards.
			for bottomed < n {
				hand = instanceIDs(g.CardsOf(id, rules.ZoneHand))
				g.PutOnBottom(hand[0])
				bottomed++
			}
			g.Logf("%s bottoms %d card(s)", player.Name, n)
		}
	}

	for _, id := range g.Order {
		for _, ci := range g.CardsOf(id, rules.ZoneHand) {
			if ci.Def.OracleContains("begin the game with it on the battlefield") {
				e.enterPermanent(g, ci, id)
				g.Logf("%s begins the game with %s on the battlefield", g.Player(id).Name, ci.Name())
			}
		}
	}
}

func (e *Engine) drawN(g *GameState, playerID string, n int) {
	for i := 0; i < n; i++ {
		if _, ok := g.Draw(playerID); !ok {
			return
		}
	}
}

// validateChoice keeps agents honest: the returned action must be one
// of the offered ones, otherwise the first candidate (always pass or
// done) is used instead.
func validateChoice(chosen Action, legal []Action) Action {
	for _, l := range legal {
		if sameAction(chosen, l) {
			return l
		}
	}
	return legal[0]
}

func sameAction(a, b Action) bool {
	if a.Type != b.Type || a.CardID != b.CardID || a.Mode != b.Mode ||
		a.X != b.X || a.Alternate != b.Alternate || a.Ability != b.Ability {
		return false
	}
	if len(a.Targets) != len(b.Targets) {
		return false
	}
	for i := range a.Targets {
		if a.Targets[i] != b.Targets[i] {
			return false
		}
	}
	return true
}

func instanceIDs(cards []*CardInstance) []string {
	ids := make([]string, len(cards))
	for i, ci := range cards {
		ids[i] = ci.ID
	}
	return ids
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
