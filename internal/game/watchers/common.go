package watchers

import (
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// SpellsCastWatcher tracks spells cast by players this turn. Storm
// counts and prowess both read it.
type SpellsCastWatcher struct {
	*rules.BaseWatcher
	spellsCast map[string][]string // playerID -> list of spell IDs
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	w := &SpellsCastWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		spellsCast:  make(map[string][]string),
	}
	w.SetKey("SpellsCastWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast {
		return
	}
	playerID := event.PlayerID
	if playerID == "" {
		playerID = event.Controller
	}
	if playerID == "" {
		return
	}
	spellID := event.TargetID
	if spellID == "" {
		spellID = event.SourceID
	}
	if spellID == "" {
		return
	}
	w.spellsCast[playerID] = append(w.spellsCast[playerID], spellID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.spellsCast = make(map[string][]string)
}

// GetSpellsCast returns the list of spell IDs cast by a player.
func (w *SpellsCastWatcher) GetSpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// GetCount returns the number of spells cast by a player.
func (w *SpellsCastWatcher) GetCount(playerID string) int {
	return len(w.spellsCast[playerID])
}

// TotalCount returns the number of spells cast by all players, the
// storm count before the storm spell itself.
func (w *SpellsCastWatcher) TotalCount() int {
	total := 0
	for _, spells := range w.spellsCast {
		total += len(spells)
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *SpellsCastWatcher) Copy() rules.Watcher {
	cp := NewSpellsCastWatcher()
	cp.SetControllerID(w.GetControllerID())
	cp.SetSourceID(w.GetSourceID())
	cp.SetCondition(w.ConditionMet())
	cp.spellsCast = make(map[string][]string)
	for k, v := range w.spellsCast {
		cp.spellsCast[k] = append([]string(nil), v...)
	}
	return cp
}

// CreaturesDiedWatcher tracks creatures that died (went to graveyard
// from the battlefield) this turn.
type CreaturesDiedWatcher struct {
	*rules.BaseWatcher
	creaturesDiedByController map[string]int // controllerID -> count
	creaturesDiedByOwner      map[string]int // ownerID -> count
}

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	w := &CreaturesDiedWatcher{
		BaseWatcher:               rules.NewBaseWatcher(rules.WatcherScopeGame),
		creaturesDiedByController: make(map[string]int),
		creaturesDiedByOwner:      make(map[string]int),
	}
	w.SetKey("CreaturesDiedWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventPermanentDies {
		return
	}
	if event.Metadata["is_creature"] == "false" {
		return
	}
	controllerID := event.Controller
	ownerID := event.Metadata["owner_id"]
	if ownerID == "" {
		ownerID = controllerID
	}
	if controllerID != "" {
		w.creaturesDiedByController[controllerID]++
	}
	if ownerID != "" {
		w.creaturesDiedByOwner[ownerID]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.creaturesDiedByController = make(map[string]int)
	w.creaturesDiedByOwner = make(map[string]int)
}

// GetAmountByController returns the number of creatures that died for a controller.
func (w *CreaturesDiedWatcher) GetAmountByController(controllerID string) int {
	return w.creaturesDiedByController[controllerID]
}

// GetAmountByOwner returns the number of creatures that died for an owner.
func (w *CreaturesDiedWatcher) GetAmountByOwner(ownerID string) int {
	return w.creaturesDiedByOwner[ownerID]
}

// GetTotalAmount returns the total number of creatures that died.
func (w *CreaturesDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.creaturesDiedByController {
		total += count
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *CreaturesDiedWatcher) Copy() rules.Watcher {
	cp := NewCreaturesDiedWatcher()
	cp.SetControllerID(w.GetControllerID())
	cp.SetSourceID(w.GetSourceID())
	cp.SetCondition(w.ConditionMet())
	cp.creaturesDiedByController = make(map[string]int)
	for k, v := range w.creaturesDiedByController {
		cp.creaturesDiedByController[k] = v
	}
	cp.creaturesDiedByOwner = make(map[string]int)
	for k, v := range w.creaturesDiedByOwner {
		cp.creaturesDiedByOwner[k] = v
	}
	return cp
}

// CardsDrawnWatcher tracks cards drawn by players this turn.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[string]int // playerID -> count
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		cardsDrawn:  make(map[string]int),
	}
	w.SetKey("CardsDrawnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrewCard {
		return
	}
	playerID := event.PlayerID
	if playerID == "" {
		playerID = event.Controller
	}
	if playerID == "" {
		return
	}
	w.cardsDrawn[playerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[string]int)
}

// GetCount returns the number of cards drawn by a player.
func (w *CardsDrawnWatcher) GetCount(playerID string) int {
	return w.cardsDrawn[playerID]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	cp := NewCardsDrawnWatcher()
	cp.SetControllerID(w.GetControllerID())
	cp.SetSourceID(w.GetSourceID())
	cp.SetCondition(w.ConditionMet())
	cp.cardsDrawn = make(map[string]int)
	for k, v := range w.cardsDrawn {
		cp.cardsDrawn[k] = v
	}
	return cp
}

// PermanentsLeftWatcher tracks permanents that left the battlefield
// this turn, per controller. Revolt conditions read it.
type PermanentsLeftWatcher struct {
	*rules.BaseWatcher
	permanentsLeft map[string][]string // controllerID -> list of permanent IDs
}

// NewPermanentsLeftWatcher creates a new permanents left watcher.
func NewPermanentsLeftWatcher() *PermanentsLeftWatcher {
	w := &PermanentsLeftWatcher{
		BaseWatcher:    rules.NewBaseWatcher(rules.WatcherScopeGame),
		permanentsLeft: make(map[string][]string),
	}
	w.SetKey("PermanentsLeftWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *PermanentsLeftWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventZoneChange {
		return
	}
	if event.Metadata["from"] != "BATTLEFIELD" {
		return
	}
	controllerID := event.Controller
	if controllerID == "" {
		return
	}
	permanentID := event.TargetID
	if permanentID == "" {
		permanentID = event.SourceID
	}
	if permanentID == "" {
		return
	}
	w.permanentsLeft[controllerID] = append(w.permanentsLeft[controllerID], permanentID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PermanentsLeftWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.permanentsLeft = make(map[string][]string)
}

// GetCount returns how many permanents the controller lost this turn.
func (w *PermanentsLeftWatcher) GetCount(controllerID string) int {
	return len(w.permanentsLeft[controllerID])
}

// Copy creates a copy of this watcher.
func (w *PermanentsLeftWatcher) Copy() rules.Watcher {
	cp := NewPermanentsLeftWatcher()
	cp.SetControllerID(w.GetControllerID())
	cp.SetSourceID(w.GetSourceID())
	cp.SetCondition(w.ConditionMet())
	cp.permanentsLeft = make(map[string][]string)
	for k, v := range w.permanentsLeft {
		cp.permanentsLeft[k] = append([]string(nil), v...)
	}
	return cp
}
