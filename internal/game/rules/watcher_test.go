package rules

import "testing"

// countingWatcher counts events of one type, the shape most real
// watchers take.
type countingWatcher struct {
	*BaseWatcher
	watched EventType
	count   int
}

func newCountingWatcher(key string, scope WatcherScope, watched EventType) *countingWatcher {
	w := &countingWatcher{BaseWatcher: NewBaseWatcher(scope), watched: watched}
	w.SetKey(key)
	return w
}

func (w *countingWatcher) Watch(event Event) {
	if event.Type == w.watched {
		w.count++
		w.SetCondition(true)
	}
}

func (w *countingWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.count = 0
}

func (w *countingWatcher) Copy() Watcher {
	cp := newCountingWatcher(w.GetKey(), w.GetScope(), w.watched)
	cp.count = w.count
	cp.SetCondition(w.ConditionMet())
	return cp
}

func TestRegistryStoresAndRemovesWatchers(t *testing.T) {
	reg := NewWatcherRegistry()
	w := newCountingWatcher("SpellsCast", WatcherScopeGame, EventSpellCast)
	reg.AddWatcher(w)

	if got := reg.GetWatcher("SpellsCast"); got == nil {
		t.Fatal("stored watcher not found by key")
	}
	if got := len(reg.GetWatchersByScope(WatcherScopeGame)); got != 1 {
		t.Fatalf("scope listing has %d watchers, want 1", got)
	}

	reg.RemoveWatcher("SpellsCast")
	if reg.GetWatcher("SpellsCast") != nil {
		t.Fatal("removed watcher still retrievable")
	}
	if got := len(reg.GetWatchersByScope(WatcherScopeGame)); got != 0 {
		t.Fatalf("scope listing kept %d watchers after removal", got)
	}
}

func TestRegistryIgnoresKeylessWatchers(t *testing.T) {
	reg := NewWatcherRegistry()
	w := &countingWatcher{BaseWatcher: NewBaseWatcher(WatcherScopeGame), watched: EventSpellCast}

	reg.AddWatcher(w)
	reg.AddWatcher(nil)

	if got := len(reg.GetAllWatchers()); got != 0 {
		t.Fatalf("registry accepted %d invalid watchers", got)
	}
}

func TestNotifyReachesEveryWatcher(t *testing.T) {
	reg := NewWatcherRegistry()
	spells := newCountingWatcher("SpellsCast", WatcherScopeGame, EventSpellCast)
	draws := newCountingWatcher("CardsDrawn", WatcherScopePlayer, EventDrewCard)
	reg.AddWatcher(spells)
	reg.AddWatcher(draws)

	reg.NotifyWatchers(NewEvent(EventSpellCast, "spell-1", "spell-1", "alice"))
	reg.NotifyWatchers(NewEvent(EventSpellCast, "spell-2", "spell-2", "alice"))
	reg.NotifyWatchers(NewEvent(EventDrewCard, "", "", "bob"))

	if spells.count != 2 {
		t.Errorf("spell watcher saw %d events, want 2", spells.count)
	}
	if draws.count != 1 {
		t.Errorf("draw watcher saw %d events, want 1", draws.count)
	}
	if !spells.ConditionMet() || !draws.ConditionMet() {
		t.Error("watchers did not record their condition")
	}
}

func TestResetByScopeLeavesOtherScopesAlone(t *testing.T) {
	reg := NewWatcherRegistry()
	game := newCountingWatcher("SpellsCast", WatcherScopeGame, EventSpellCast)
	player := newCountingWatcher("CardsDrawn", WatcherScopePlayer, EventDrewCard)
	reg.AddWatcher(game)
	reg.AddWatcher(player)

	reg.NotifyWatchers(NewEvent(EventSpellCast, "spell-1", "spell-1", "alice"))
	reg.NotifyWatchers(NewEvent(EventDrewCard, "", "", "alice"))

	reg.ResetWatchersByScope(WatcherScopePlayer)
	if player.count != 0 {
		t.Errorf("player watcher kept count %d through its reset", player.count)
	}
	if game.count != 1 {
		t.Errorf("game watcher reset alongside, count %d", game.count)
	}

	reg.ResetWatchers()
	if game.count != 0 || game.ConditionMet() {
		t.Error("full reset left game watcher state behind")
	}
}

func TestCopyDetachesState(t *testing.T) {
	w := newCountingWatcher("SpellsCast", WatcherScopeGame, EventSpellCast)
	w.Watch(NewEvent(EventSpellCast, "spell-1", "spell-1", "alice"))

	cp := w.Copy().(*countingWatcher)
	w.Watch(NewEvent(EventSpellCast, "spell-2", "spell-2", "alice"))

	if cp.count != 1 {
		t.Errorf("copy count %d, want the state at copy time", cp.count)
	}
	if w.count != 2 {
		t.Errorf("original count %d after two events", w.count)
	}
}
