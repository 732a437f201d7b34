package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
	"go.uber.org/zap"
)

// playerTargetPrefix tags stack item targets that point at a player
// rather than a card instance.
const playerTargetPrefix = "player:"

// PlayerTarget builds the target tag for a player ID.
func PlayerTarget(playerID string) string {
	return playerTargetPrefix + playerID
}

// TargetPlayerID extracts the player ID from a player target tag.
func TargetPlayerID(target string) (string, bool) {
	if strings.HasPrefix(target, playerTargetPrefix) {
		return strings.TrimPrefix(target, playerTargetPrefix), true
	}
	return "", false
}

// CardInstance is one physical card (or token) in the game. The zone a
// card occupies is exactly the Zone field; every zone listing is a
// filter over the arena, never a second copy.
type CardInstance struct {
	ID         string
	Def        *card.Definition
	Zone       rules.Zone
	Owner      string
	Controller string

	Tapped bool
	Sick   bool

	Counters *counters.Counters
	Damage   int
	// DeathtouchHit marks that a source with deathtouch damaged this
	// creature since damage was last cleared (Rule 704.5h).
	DeathtouchHit bool

	AttachedTo string
	Token      bool

	// Animated is set while a noncreature permanent has been turned
	// into a creature until end of turn. AnimPower/AnimToughness hold
	// the granted base stats.
	Animated      bool
	AnimPower     int
	AnimToughness int

	// EnteredTurn and enteredSeq record when the permanent arrived on
	// the battlefield. enteredSeq breaks same-turn ties for the legend
	// rule.
	EnteredTurn int
	enteredSeq  int
}

// NewCardInstance creates an instance of a definition owned by a player,
// starting in the library.
func NewCardInstance(def *card.Definition, owner string) *CardInstance {
	return &CardInstance{
		ID:         uuid.NewString(),
		Def:        def,
		Zone:       rules.ZoneLibrary,
		Owner:      owner,
		Controller: owner,
		Counters:   counters.NewCounters(),
	}
}

// Name returns the definition name.
func (ci *CardInstance) Name() string {
	return ci.Def.Name
}

// IsCreature reports whether the card is currently a creature, counting
// animated permanents.
func (ci *CardInstance) IsCreature() bool {
	return ci.Def.IsCreature() || ci.Animated
}

// HasKeyword reports whether the printed card carries the keyword.
// Conditional grants are decided by the game state, not here.
func (ci *CardInstance) HasKeyword(keyword string) bool {
	return ci.Def.HasKeyword(keyword)
}

// ClearCombatDamage wipes marked damage and the deathtouch flag.
func (ci *CardInstance) ClearCombatDamage() {
	ci.Damage = 0
	ci.DeathtouchHit = false
}

// resetOnLeave clears battlefield-only state when the card changes zone.
func (ci *CardInstance) resetOnLeave() {
	ci.Tapped = false
	ci.Sick = false
	ci.Damage = 0
	ci.DeathtouchHit = false
	ci.AttachedTo = ""
	ci.Animated = false
	ci.AnimPower = 0
	ci.AnimToughness = 0
	ci.Counters = counters.NewCounters()
}

// PlayerState holds everything owned by one player. Cards is the full
// list of owned card IDs in a stable order; the library order is the
// relative order of the IDs whose instance is in the library zone.
type PlayerState struct {
	ID   string
	Name string

	Life   int
	Poison int

	Pool *mana.Pool

	Cards []string

	LandsPlayed   int
	MulliganCount int

	// DrawsInDrawStep counts cards drawn during the player's own draw
	// step this turn. Orcish Bowmasters exempts the first one.
	DrawsInDrawStep int

	HasLost    bool
	LossReason string
	Conceded   bool
}

// NewPlayerState creates a player with the configured starting life.
func NewPlayerState(id, name string, life int) *PlayerState {
	return &PlayerState{
		ID:   id,
		Name: name,
		Life: life,
		Pool: mana.NewPool(),
	}
}

// Lose marks the player as having lost for the given reason. The first
// reason sticks.
func (p *PlayerState) Lose(reason string) {
	if p.HasLost {
		return
	}
	p.HasLost = true
	p.LossReason = reason
}

// CombatState tracks the current combat. Attackers keeps declaration
// order; Blocks maps each blocker to the single attacker it blocks,
// with blockOrder preserving declaration order for damage assignment.
type CombatState struct {
	Attackers     []string
	AttackTargets map[string]string // attacker -> player target tag or planeswalker ID
	Blocks        map[string]string // blocker -> attacker
	blockOrder    []string
	firstStrikers map[string]bool // dealt damage in the first strike step
}

// NewCombatState creates an empty combat state.
func NewCombatState() *CombatState {
	return &CombatState{
		AttackTargets: make(map[string]string),
		Blocks:        make(map[string]string),
		firstStrikers: make(map[string]bool),
	}
}

// Reset clears all combat assignments.
func (cs *CombatState) Reset() {
	cs.Attackers = nil
	cs.AttackTargets = make(map[string]string)
	cs.Blocks = make(map[string]string)
	cs.blockOrder = nil
	cs.firstStrikers = make(map[string]bool)
}

// AddAttacker records an attack declaration against the given target.
func (cs *CombatState) AddAttacker(attackerID, target string) {
	for _, id := range cs.Attackers {
		if id == attackerID {
			return
		}
	}
	cs.Attackers = append(cs.Attackers, attackerID)
	cs.AttackTargets[attackerID] = target
}

// AddBlock records a block declaration. A blocker blocks exactly one
// attacker; re-declaring moves the block.
func (cs *CombatState) AddBlock(blockerID, attackerID string) {
	if _, already := cs.Blocks[blockerID]; !already {
		cs.blockOrder = append(cs.blockOrder, blockerID)
	}
	cs.Blocks[blockerID] = attackerID
}

// RemoveBlock drops a blocker's assignment, used when an evasion check
// invalidates a declared block.
func (cs *CombatState) RemoveBlock(blockerID string) {
	delete(cs.Blocks, blockerID)
	for i, id := range cs.blockOrder {
		if id == blockerID {
			cs.blockOrder = append(cs.blockOrder[:i], cs.blockOrder[i+1:]...)
			break
		}
	}
}

// BlockersOf returns the blockers assigned to an attacker in declaration
// order.
func (cs *CombatState) BlockersOf(attackerID string) []string {
	var blockers []string
	for _, blockerID := range cs.blockOrder {
		if cs.Blocks[blockerID] == attackerID {
			blockers = append(blockers, blockerID)
		}
	}
	return blockers
}

// IsAttacking reports whether the creature is a declared attacker.
func (cs *CombatState) IsAttacking(cardID string) bool {
	for _, id := range cs.Attackers {
		if id == cardID {
			return true
		}
	}
	return false
}

// GameState is the aggregate root for one game. It owns both players,
// the card arena, the turn and stack managers, and the event bus. All
// mutation goes through the engine and the resolver tiers.
type GameState struct {
	ID string

	Players map[string]*PlayerState
	Order   []string

	Turn     *rules.TurnManager
	Stack    *rules.StackManager
	Bus      *rules.EventBus
	Watchers *rules.WatcherRegistry
	Triggers *rules.TriggerManager
	Legality *rules.LegalityChecker
	Combat   *CombatState

	cards map[string]*CardInstance

	Over      bool
	Winner    string
	EndReason string

	Log []string

	rng    *rand.Rand
	logger *zap.Logger
	seq    int
}

// NewGameState builds an empty game for the given seat order. Seed 0
// derives one from the clock.
func NewGameState(playerA, playerB *PlayerState, seed int64, logger *zap.Logger) *GameState {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &GameState{
		ID:      uuid.NewString(),
		Players: map[string]*PlayerState{playerA.ID: playerA, playerB.ID: playerB},
		Order:   []string{playerA.ID, playerB.ID},
		Turn:    rules.NewTurnManager(playerA.ID),
		Stack:   rules.NewStackManager(),
		Bus:     rules.NewEventBus(),
		Triggers: rules.NewTriggerManager(),
		Combat:   NewCombatState(),
		cards:    make(map[string]*CardInstance),
		rng:      rand.New(rand.NewSource(seed)),
		logger:   logger,
	}
	g.Watchers = rules.NewWatcherRegistry()
	g.Legality = rules.NewLegalityChecker(g)
	return g
}

// Player returns the player state for an ID, nil if unknown.
func (g *GameState) Player(playerID string) *PlayerState {
	return g.Players[playerID]
}

// Opponent returns the other player in a two-player game.
func (g *GameState) Opponent(playerID string) *PlayerState {
	for _, id := range g.Order {
		if id != playerID {
			return g.Players[id]
		}
	}
	return nil
}

// Card returns the instance for an ID, nil if unknown.
func (g *GameState) Card(cardID string) *CardInstance {
	return g.cards[cardID]
}

// AddCard registers an instance in the arena and in its owner's card
// list.
func (g *GameState) AddCard(ci *CardInstance) {
	g.cards[ci.ID] = ci
	owner := g.Players[ci.Owner]
	if owner != nil {
		owner.Cards = append(owner.Cards, ci.ID)
	}
}

// RemoveCard drops an instance from the arena entirely. Tokens cease to
// exist this way once they leave the battlefield.
func (g *GameState) RemoveCard(cardID string) {
	ci := g.cards[cardID]
	if ci == nil {
		return
	}
	delete(g.cards, cardID)
	owner := g.Players[ci.Owner]
	if owner == nil {
		return
	}
	for i, id := range owner.Cards {
		if id == cardID {
			owner.Cards = append(owner.Cards[:i], owner.Cards[i+1:]...)
			break
		}
	}
}

// CardsOf returns a player's cards in the given zone, in card-list
// order. For the library that order is top first.
func (g *GameState) CardsOf(playerID string, zone rules.Zone) []*CardInstance {
	player := g.Players[playerID]
	if player == nil {
		return nil
	}
	var out []*CardInstance
	for _, id := range player.Cards {
		ci := g.cards[id]
		if ci != nil && ci.Zone == zone {
			out = append(out, ci)
		}
	}
	return out
}

// HandSize returns the number of cards in a player's hand.
func (g *GameState) HandSize(playerID string) int {
	return len(g.CardsOf(playerID, rules.ZoneHand))
}

// LibrarySize returns the number of cards left in a player's library.
func (g *GameState) LibrarySize(playerID string) int {
	return len(g.CardsOf(playerID, rules.ZoneLibrary))
}

// Battlefield returns every battlefield permanent in seat order, each
// player's cards in list order. Iteration over the shared battlefield
// is deterministic this way.
func (g *GameState) Battlefield() []*CardInstance {
	var out []*CardInstance
	for _, playerID := range g.Order {
		out = append(out, g.CardsOf(playerID, rules.ZoneBattlefield)...)
	}
	return out
}

// BattlefieldOf returns the battlefield permanents a player controls,
// regardless of owner.
func (g *GameState) BattlefieldOf(playerID string) []*CardInstance {
	var out []*CardInstance
	for _, ci := range g.Battlefield() {
		if ci.Controller == playerID {
			out = append(out, ci)
		}
	}
	return out
}

// ControlsNamed reports whether the player controls a battlefield
// permanent with the given name.
func (g *GameState) ControlsNamed(playerID, name string) bool {
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Name() == name {
			return true
		}
	}
	return false
}

// FirstNamed returns the first battlefield permanent with the given
// name under the player's control.
func (g *GameState) FirstNamed(playerID, name string) *CardInstance {
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Name() == name {
			return ci
		}
	}
	return nil
}

// MoveCard transitions a card between zones and publishes the zone
// change. Battlefield-only state is wiped on exit; tokens that leave
// the battlefield cease to exist after the event is seen.
func (g *GameState) MoveCard(cardID string, to rules.Zone) {
	ci := g.cards[cardID]
	if ci == nil || ci.Zone == to {
		return
	}
	from := ci.Zone
	if from == rules.ZoneBattlefield {
		ci.resetOnLeave()
		ci.Controller = ci.Owner
	}
	ci.Zone = to

	evt := rules.NewEvent(rules.EventZoneChange, ci.ID, ci.ID, ci.Controller)
	evt.Metadata["from"] = string(from)
	evt.Metadata["to"] = string(to)
	evt.Metadata["card_name"] = ci.Name()
	g.Publish(evt)

	if ci.Token && from == rules.ZoneBattlefield {
		g.RemoveCard(cardID)
	}
}

// EnterBattlefield places a card onto the battlefield under a
// controller, applying entry state: summoning sickness for creatures,
// printed loyalty, the first saga chapter, and arrival bookkeeping for
// the legend rule.
func (g *GameState) EnterBattlefield(ci *CardInstance, controllerID string) {
	ci.Controller = controllerID
	from := ci.Zone
	ci.Zone = rules.ZoneBattlefield
	ci.Tapped = false
	ci.Sick = ci.Def.IsCreature()
	g.seq++
	ci.enteredSeq = g.seq
	ci.EnteredTurn = g.Turn.TurnNumber()

	if loyalty := ci.Def.BaseLoyalty(); loyalty > 0 {
		ci.Counters.Add(counters.Loyalty, loyalty)
	}
	if ci.Def.IsSaga() {
		ci.Counters.Add(counters.Lore, 1)
	}

	evt := rules.NewEvent(rules.EventEntersTheBattlefield, ci.ID, ci.ID, controllerID)
	evt.Metadata["from"] = string(from)
	evt.Metadata["card_name"] = ci.Name()
	evt.Metadata["is_creature"] = fmt.Sprintf("%t", ci.Def.IsCreature())
	g.Publish(evt)
}

// GraveyardDestination returns where a card owned by the player goes
// when it would be put into a graveyard. A Leyline of the Void under an
// opponent redirects it to exile.
func (g *GameState) GraveyardDestination(ownerID string) rules.Zone {
	opp := g.Opponent(ownerID)
	if opp != nil && g.ControlsNamed(opp.ID, "Leyline of the Void") {
		return rules.ZoneExile
	}
	return rules.ZoneGraveyard
}

// PutIntoGraveyard moves a card to its owner's graveyard, honoring
// replacement redirections. Dying from the battlefield publishes the
// dies event before the zone change so watchers see battlefield state.
func (g *GameState) PutIntoGraveyard(ci *CardInstance) {
	dest := g.GraveyardDestination(ci.Owner)
	if ci.Zone == rules.ZoneBattlefield {
		evt := rules.NewEvent(rules.EventPermanentDies, ci.ID, ci.ID, ci.Controller)
		evt.PlayerID = ci.Owner
		evt.Metadata["card_name"] = ci.Name()
		evt.Metadata["is_creature"] = fmt.Sprintf("%t", ci.IsCreature())
		g.Publish(evt)
	}
	if dest != rules.ZoneGraveyard {
		g.Logf("%s is exiled instead of dying", ci.Name())
	}
	g.MoveCard(ci.ID, dest)
}

// Draw moves the top library card to hand. Drawing from an empty
// library loses the game on the spot.
func (g *GameState) Draw(playerID string) (*CardInstance, bool) {
	player := g.Players[playerID]
	if player == nil {
		return nil, false
	}
	library := g.CardsOf(playerID, rules.ZoneLibrary)
	if len(library) == 0 {
		player.Lose("drew from an empty library")
		g.Logf("%s tries to draw from an empty library and loses", player.Name)
		return nil, false
	}
	top := library[0]
	top.Zone = rules.ZoneHand

	firstInDrawStep := false
	if g.Turn.CurrentStep() == rules.StepDraw && g.Turn.ActivePlayer() == playerID {
		player.DrawsInDrawStep++
		firstInDrawStep = player.DrawsInDrawStep == 1
	}

	evt := rules.NewEvent(rules.EventDrewCard, top.ID, top.ID, playerID)
	evt.Metadata["card_name"] = top.Name()
	evt.Metadata["first_in_draw_step"] = fmt.Sprintf("%t", firstInDrawStep)
	g.Publish(evt)
	return top, true
}

// ShuffleLibrary permutes the library members of a player's card list
// in place, leaving cards in other zones where they are.
func (g *GameState) ShuffleLibrary(playerID string) {
	player := g.Players[playerID]
	if player == nil {
		return
	}
	var slots []int
	var ids []string
	for i, id := range player.Cards {
		ci := g.cards[id]
		if ci != nil && ci.Zone == rules.ZoneLibrary {
			slots = append(slots, i)
			ids = append(ids, id)
		}
	}
	g.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	for n, slot := range slots {
		player.Cards[slot] = ids[n]
	}
	g.Publish(rules.NewEvent(rules.EventLibraryShuffled, "", "", playerID))
}

// PutOnBottom moves a card to the bottom of its owner's library.
func (g *GameState) PutOnBottom(cardID string) {
	ci := g.cards[cardID]
	if ci == nil {
		return
	}
	owner := g.Players[ci.Owner]
	if owner == nil {
		return
	}
	for i, id := range owner.Cards {
		if id == cardID {
			owner.Cards = append(owner.Cards[:i], owner.Cards[i+1:]...)
			break
		}
	}
	owner.Cards = append(owner.Cards, cardID)
	ci.Zone = rules.ZoneLibrary
}

// Rng exposes the game's random source for shuffles and coin flips.
func (g *GameState) Rng() *rand.Rand {
	return g.rng
}

// Publish sends an event through the bus and notifies watchers. The
// watcher registry is not a bus listener so resets stay explicit.
func (g *GameState) Publish(evt rules.Event) {
	if g.Bus != nil {
		g.Bus.Publish(evt)
	}
	if g.Watchers != nil {
		g.Watchers.NotifyWatchers(evt)
	}
}

// Logf appends a turn-stamped line to the game log and mirrors it to
// the debug logger.
func (g *GameState) Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("T%d %s: %s", g.Turn.TurnNumber(), g.Turn.CurrentStep().String(), msg)
	g.Log = append(g.Log, line)
	if g.logger != nil {
		g.logger.Debug(msg,
			zap.Int("turn", g.Turn.TurnNumber()),
			zap.String("step", g.Turn.CurrentStep().String()),
		)
	}
}

// FindCard implements rules.GameStateAccessor.
func (g *GameState) FindCard(cardID string) (rules.CardInfo, bool) {
	ci := g.cards[cardID]
	if ci == nil {
		return rules.CardInfo{}, false
	}
	return rules.CardInfo{
		ID:           ci.ID,
		Name:         ci.Name(),
		Zone:         ci.Zone,
		ControllerID: ci.Controller,
		OwnerID:      ci.Owner,
		Tapped:       ci.Tapped,
	}, true
}

// FindPlayer implements rules.GameStateAccessor. Both bare player IDs
// and player target tags resolve.
func (g *GameState) FindPlayer(playerID string) (rules.PlayerInfo, bool) {
	if id, ok := TargetPlayerID(playerID); ok {
		playerID = id
	}
	player := g.Players[playerID]
	if player == nil {
		return rules.PlayerInfo{}, false
	}
	return rules.PlayerInfo{
		PlayerID: player.ID,
		Name:     player.Name,
		Life:     player.Life,
		Lost:     player.HasLost,
	}, true
}

// GetCardZone implements rules.GameStateAccessor.
func (g *GameState) GetCardZone(cardID string) (rules.Zone, bool) {
	ci := g.cards[cardID]
	if ci == nil {
		return "", false
	}
	return ci.Zone, true
}
