package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Snapshot is a self-contained copy of everything observable about a
// game at one moment. Snapshots feed replays and state checksums;
// they carry no pointers into the live game.
type Snapshot struct {
	GameID         string
	TurnNumber     int
	Phase          string
	Step           string
	ActivePlayer   string
	PriorityPlayer string
	Over           bool
	Winner         string
	EndReason      string

	PlayerOrder []string
	Players     map[string]PlayerSnapshot
	Cards       map[string]CardSnapshot
	Stack       []StackSnapshot
}

// PlayerSnapshot is one player's observable state.
type PlayerSnapshot struct {
	Name         string
	Life         int
	Poison       int
	LandsPlayed  int
	HandCount    int
	LibraryCount int
	Lost         bool
}

// CardSnapshot is one card instance's observable state.
type CardSnapshot struct {
	Name       string
	Owner      string
	Controller string
	Zone       string
	Tapped     bool
	Sick       bool
	Token      bool
	Animated   bool
	Damage     int
	AttachedTo string
	Counters   map[string]int
}

// StackSnapshot is one stack entry, top last.
type StackSnapshot struct {
	ID          string
	Controller  string
	Description string
}

// Snapshot captures the current game state.
func (g *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		GameID:         g.ID,
		TurnNumber:     g.Turn.TurnNumber(),
		Phase:          g.Turn.CurrentPhase().String(),
		Step:           g.Turn.CurrentStep().String(),
		ActivePlayer:   g.Turn.ActivePlayer(),
		PriorityPlayer: g.Turn.PriorityPlayer(),
		Over:           g.Over,
		Winner:         g.Winner,
		EndReason:      g.EndReason,
		PlayerOrder:    append([]string(nil), g.Order...),
		Players:        make(map[string]PlayerSnapshot, len(g.Players)),
		Cards:          make(map[string]CardSnapshot, len(g.cards)),
	}

	for id, p := range g.Players {
		snap.Players[id] = PlayerSnapshot{
			Name:         p.Name,
			Life:         p.Life,
			Poison:       p.Poison,
			LandsPlayed:  p.LandsPlayed,
			HandCount:    g.HandSize(id),
			LibraryCount: g.LibrarySize(id),
			Lost:         p.HasLost,
		}
	}

	for id, ci := range g.cards {
		cs := CardSnapshot{
			Name:       ci.Name(),
			Owner:      ci.Owner,
			Controller: ci.Controller,
			Zone:       string(ci.Zone),
			Tapped:     ci.Tapped,
			Sick:       ci.Sick,
			Token:      ci.Token,
			Animated:   ci.Animated,
			Damage:     ci.Damage,
			AttachedTo: ci.AttachedTo,
		}
		for name, counter := range ci.Counters.Counters {
			if counter.Count == 0 {
				continue
			}
			if cs.Counters == nil {
				cs.Counters = make(map[string]int)
			}
			cs.Counters[name] = counter.Count
		}
		snap.Cards[id] = cs
	}

	for _, item := range g.Stack.List() {
		snap.Stack = append(snap.Stack, StackSnapshot{
			ID:          item.ID,
			Controller:  item.Controller,
			Description: item.Description,
		})
	}
	return snap
}

// Checksum is a deterministic digest of a snapshot. Equal states yield
// equal hashes regardless of map iteration order.
type Checksum struct {
	Hash    string
	Version int
}

const checksumVersion = 1

// ComputeChecksum hashes the snapshot's canonical representation.
func (s *Snapshot) ComputeChecksum() Checksum {
	sum := sha256.Sum256([]byte(s.canonical()))
	return Checksum{
		Hash:    hex.EncodeToString(sum[:]),
		Version: checksumVersion,
	}
}

// canonical renders the snapshot as a stable text form: maps sorted by
// key, the stack in order. Instance IDs are included, so two games
// only hash alike when they really are the same game.
func (s *Snapshot) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%s|%s|%s|%s|%t|%s\n",
		s.GameID, s.TurnNumber, s.Phase, s.Step,
		s.ActivePlayer, s.PriorityPlayer, s.Over, s.Winner)

	playerIDs := make([]string, 0, len(s.Players))
	for id := range s.Players {
		playerIDs = append(playerIDs, id)
	}
	sort.Strings(playerIDs)
	for _, id := range playerIDs {
		p := s.Players[id]
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%d|%d|%d|%d|%t\n",
			id, p.Name, p.Life, p.Poison, p.LandsPlayed,
			p.HandCount, p.LibraryCount, p.Lost)
	}

	cardIDs := make([]string, 0, len(s.Cards))
	for id := range s.Cards {
		cardIDs = append(cardIDs, id)
	}
	sort.Strings(cardIDs)
	for _, id := range cardIDs {
		c := s.Cards[id]
		fmt.Fprintf(&buf, "CARD:%s|%s|%s|%s|%s|%t|%t|%t|%t|%d|%s\n",
			id, c.Name, c.Owner, c.Controller, c.Zone,
			c.Tapped, c.Sick, c.Token, c.Animated, c.Damage, c.AttachedTo)
		counterNames := make([]string, 0, len(c.Counters))
		for name := range c.Counters {
			counterNames = append(counterNames, name)
		}
		sort.Strings(counterNames)
		for _, name := range counterNames {
			fmt.Fprintf(&buf, "  COUNTER:%s=%d\n", name, c.Counters[name])
		}
	}

	buf.WriteString("STACK:\n")
	for i, item := range s.Stack {
		fmt.Fprintf(&buf, "  %d:%s|%s|%s\n", i, item.ID, item.Controller, item.Description)
	}

	buf.WriteString("PLAYER_ORDER:")
	buf.WriteString(strings.Join(s.PlayerOrder, ","))
	buf.WriteString("\n")

	return buf.String()
}

// SerializeToBytes encodes the snapshot with gob, the format replay
// files use.
func (s *Snapshot) SerializeToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// SnapshotFromBytes decodes a gob-encoded snapshot.
func SnapshotFromBytes(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// ValidateSerializationRoundtrip checks that a snapshot survives a
// gob roundtrip with its checksum intact.
func ValidateSerializationRoundtrip(s *Snapshot) error {
	original := s.ComputeChecksum()
	data, err := s.SerializeToBytes()
	if err != nil {
		return err
	}
	restored, err := SnapshotFromBytes(data)
	if err != nil {
		return err
	}
	if got := restored.ComputeChecksum(); got.Hash != original.Hash {
		return fmt.Errorf("checksum mismatch after roundtrip: %s != %s", got.Hash, original.Hash)
	}
	return nil
}

// CardsInZone lists a snapshot's card IDs in one zone, sorted for
// determinism.
func (s *Snapshot) CardsInZone(zone string) []string {
	var ids []string
	for id, c := range s.Cards {
		if c.Zone == zone {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Summary renders a one-line digest useful in replay listings.
func (s *Snapshot) Summary() string {
	parts := make([]string, 0, len(s.PlayerOrder)+1)
	parts = append(parts, fmt.Sprintf("T%d %s/%s", s.TurnNumber, s.Phase, s.Step))
	for _, id := range s.PlayerOrder {
		p := s.Players[id]
		parts = append(parts, fmt.Sprintf("%s %d", p.Name, p.Life))
	}
	return strings.Join(parts, ", ")
}
