package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spellstack/gauntlet/internal/game/rules"
)

// Replay is the recorded history of one game: an ordered list of
// snapshots and a cursor for stepping through them. The cursor methods
// are what a viewer drives; Record is what the recorder feeds.
type Replay struct {
	GameID string

	mu     sync.RWMutex
	states []*Snapshot
	cursor int
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Record appends a snapshot to the history.
func (r *Replay) Record(snap *Snapshot) {
	if snap == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, snap)
}

// Start rewinds the cursor to the first snapshot.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Next returns the snapshot under the cursor and advances it, or nil
// at the end of the replay.
func (r *Replay) Next() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor >= len(r.states) {
		return nil
	}
	snap := r.states[r.cursor]
	r.cursor++
	return snap
}

// Previous steps the cursor back and returns the snapshot there, or
// nil at the start of the replay.
func (r *Replay) Previous() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cursor == 0 {
		return nil
	}
	r.cursor--
	return r.states[r.cursor]
}

// Skip moves the cursor by count in either direction, clamped to the
// recorded range, and returns the snapshot it lands on.
func (r *Replay) Skip(count int) *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return nil
	}
	next := r.cursor + count
	if next >= len(r.states) {
		next = len(r.states) - 1
	}
	if next < 0 {
		next = 0
	}
	r.cursor = next
	return r.states[next]
}

// Size returns the number of recorded snapshots.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

// StateAt returns the snapshot at an index without moving the cursor,
// or nil when out of range.
func (r *Replay) StateAt(index int) *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.states) {
		return nil
	}
	return r.states[index]
}

// replayMetadata heads every replay file.
type replayMetadata struct {
	GameID     string
	Recorded   time.Time
	Version    int
	StateCount int
}

const replayVersion = 1

// SaveToFile writes the replay as gzipped gob to <dir>/<gameID>.replay.
func (r *Replay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return fmt.Errorf("create replay directory: %w", err)
	}
	file, err := os.Create(replayPath(directory, r.GameID))
	if err != nil {
		return fmt.Errorf("create replay file: %w", err)
	}
	defer file.Close()

	zw := gzip.NewWriter(file)
	defer zw.Close()
	enc := gob.NewEncoder(zw)

	meta := replayMetadata{
		GameID:     r.GameID,
		Recorded:   time.Now(),
		Version:    replayVersion,
		StateCount: len(r.states),
	}
	if err := enc.Encode(&meta); err != nil {
		return fmt.Errorf("encode replay metadata: %w", err)
	}
	for i, snap := range r.states {
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot %d: %w", i, err)
		}
	}
	return nil
}

// LoadReplayFromFile reads a replay written by SaveToFile.
func LoadReplayFromFile(directory, gameID string) (*Replay, error) {
	file, err := os.Open(replayPath(directory, gameID))
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer file.Close()

	zr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()
	dec := gob.NewDecoder(zr)

	var meta replayMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode replay metadata: %w", err)
	}
	if meta.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version %d", meta.Version)
	}

	replay := NewReplay(meta.GameID)
	for i := 0; i < meta.StateCount; i++ {
		var snap Snapshot
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", i, err)
		}
		replay.states = append(replay.states, &snap)
	}
	return replay, nil
}

func replayPath(directory, gameID string) string {
	return filepath.Join(directory, gameID+".replay")
}

// ReplayRecorder captures every game it observes, one snapshot per
// step boundary and per accepted action. Attach it to an engine or a
// match runner with AddObserver. When a save directory is configured
// each finished game is flushed to disk and dropped from memory.
type ReplayRecorder struct {
	logger  *zap.Logger
	saveDir string

	mu      sync.Mutex
	replays map[string]*Replay
}

// NewReplayRecorder builds a recorder. An empty saveDir keeps finished
// replays in memory for the caller to collect.
func NewReplayRecorder(logger *zap.Logger, saveDir string) *ReplayRecorder {
	return &ReplayRecorder{
		logger:  logger,
		saveDir: saveDir,
		replays: make(map[string]*Replay),
	}
}

func (rr *ReplayRecorder) replayFor(gameID string) *Replay {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	replay, ok := rr.replays[gameID]
	if !ok {
		replay = NewReplay(gameID)
		rr.replays[gameID] = replay
		if rr.logger != nil {
			rr.logger.Info("recording replay", zap.String("game_id", gameID))
		}
	}
	return replay
}

// OnPhaseChange records the state at every step boundary.
func (rr *ReplayRecorder) OnPhaseChange(g *GameState, phase rules.Phase, step rules.Step) {
	rr.replayFor(g.ID).Record(g.Snapshot())
}

// OnAction records the state after each accepted action. Rejected
// actions change nothing and are skipped.
func (rr *ReplayRecorder) OnAction(g *GameState, playerID string, action Action, result ActionResult) {
	if !result.OK {
		return
	}
	rr.replayFor(g.ID).Record(g.Snapshot())
}

// OnResult records the final state and, when a save directory is set,
// flushes the replay to disk.
func (rr *ReplayRecorder) OnResult(g *GameState, result *Result) {
	replay := rr.replayFor(g.ID)
	replay.Record(g.Snapshot())

	if rr.saveDir == "" {
		return
	}
	if err := rr.SaveReplay(g.ID); err != nil && rr.logger != nil {
		rr.logger.Warn("replay save failed",
			zap.String("game_id", g.ID),
			zap.Error(err),
		)
	}
}

// Replay returns the in-memory replay for a game.
func (rr *ReplayRecorder) Replay(gameID string) (*Replay, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	replay, ok := rr.replays[gameID]
	return replay, ok
}

// SaveReplay writes a game's replay to the save directory and drops it
// from memory.
func (rr *ReplayRecorder) SaveReplay(gameID string) error {
	rr.mu.Lock()
	replay, ok := rr.replays[gameID]
	if ok {
		delete(rr.replays, gameID)
	}
	rr.mu.Unlock()
	if !ok {
		return fmt.Errorf("no replay recorded for game %s", gameID)
	}

	if err := replay.SaveToFile(rr.saveDir); err != nil {
		return err
	}
	if rr.logger != nil {
		rr.logger.Info("replay saved",
			zap.String("game_id", gameID),
			zap.Int("states", replay.Size()),
			zap.String("directory", rr.saveDir),
		)
	}
	return nil
}

// LoadReplay reads a previously saved replay from the save directory.
func (rr *ReplayRecorder) LoadReplay(gameID string) (*Replay, error) {
	return LoadReplayFromFile(rr.saveDir, gameID)
}

// Drop discards a game's replay without saving it.
func (rr *ReplayRecorder) Drop(gameID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.replays, gameID)
}
