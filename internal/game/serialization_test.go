package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// createTestSnapshot builds a snapshot by hand, detached from any game.
func createTestSnapshot() *Snapshot {
	return &Snapshot{
		GameID:         "game-1",
		TurnNumber:     3,
		Phase:          rules.PhaseCombat.String(),
		Step:           rules.StepDeclareAttackers.String(),
		ActivePlayer:   "alice",
		PriorityPlayer: "bob",
		PlayerOrder:    []string{"alice", "bob"},
		Players: map[string]PlayerSnapshot{
			"alice": {Name: "Alice", Life: 18, HandCount: 5, LibraryCount: 48},
			"bob":   {Name: "Bob", Life: 14, Poison: 2, HandCount: 6, LibraryCount: 50},
		},
		Cards: map[string]CardSnapshot{
			"c1": {Name: "Gray Bear", Owner: "alice", Controller: "alice", Zone: string(rules.ZoneBattlefield), Tapped: true},
			"c2": {Name: "Swamp", Owner: "bob", Controller: "bob", Zone: string(rules.ZoneBattlefield)},
			"c3": {Name: "Lightning Bolt", Owner: "bob", Controller: "bob", Zone: string(rules.ZoneHand)},
		},
		Stack: []StackSnapshot{
			{ID: "s1", Controller: "bob", Description: "a pending trigger"},
		},
	}
}

func TestDeterministicChecksum(t *testing.T) {
	checksums := make([]string, 10)
	for i := range checksums {
		checksums[i] = createTestSnapshot().ComputeChecksum().Hash
	}
	for i := 1; i < len(checksums); i++ {
		assert.Equal(t, checksums[0], checksums[i],
			"checksum %d differs from checksum 0", i)
	}
}

func TestChecksumVersioned(t *testing.T) {
	sum := createTestSnapshot().ComputeChecksum()
	assert.NotEmpty(t, sum.Hash)
	assert.Equal(t, checksumVersion, sum.Version)
}

func TestChecksumSeparatesStates(t *testing.T) {
	base := createTestSnapshot().ComputeChecksum()

	turned := createTestSnapshot()
	turned.TurnNumber = 5
	assert.NotEqual(t, base.Hash, turned.ComputeChecksum().Hash, "turn number must move the hash")

	hurt := createTestSnapshot()
	p := hurt.Players["bob"]
	p.Life = 13
	hurt.Players["bob"] = p
	assert.NotEqual(t, base.Hash, hurt.ComputeChecksum().Hash, "life total must move the hash")

	untapped := createTestSnapshot()
	c := untapped.Cards["c1"]
	c.Tapped = false
	untapped.Cards["c1"] = c
	assert.NotEqual(t, base.Hash, untapped.ComputeChecksum().Hash, "tap state must move the hash")
}

func TestSnapshotGobRoundtrip(t *testing.T) {
	snap := createTestSnapshot()

	data, err := snap.SerializeToBytes()
	require.NoError(t, err)

	restored, err := SnapshotFromBytes(data)
	require.NoError(t, err)

	assert.Equal(t, snap.ComputeChecksum().Hash, restored.ComputeChecksum().Hash)
	assert.Equal(t, snap.TurnNumber, restored.TurnNumber)
	assert.Equal(t, snap.Players["bob"].Poison, restored.Players["bob"].Poison)
	require.Len(t, restored.Stack, 1)
	assert.Equal(t, "s1", restored.Stack[0].ID)
}

func TestValidateSerializationRoundtrip(t *testing.T) {
	assert.NoError(t, ValidateSerializationRoundtrip(createTestSnapshot()))
}

func TestCardsInZoneFiltersAndSorts(t *testing.T) {
	snap := createTestSnapshot()

	field := snap.CardsInZone(string(rules.ZoneBattlefield))
	assert.Equal(t, []string{"c1", "c2"}, field)

	hand := snap.CardsInZone(string(rules.ZoneHand))
	assert.Equal(t, []string{"c3"}, hand)

	assert.Empty(t, snap.CardsInZone(string(rules.ZoneExile)))
}

func TestLiveGameSnapshotDetaches(t *testing.T) {
	s := newScenario(t)
	bear := s.creature("Bear", aliceID, 2, 2)
	bear.Counters.Add(counters.P1P1, 2)

	snap := s.g.Snapshot()
	s.g.Player(aliceID).Life = 3
	bear.Tapped = true
	bear.Counters.Add(counters.P1P1, 5)

	assert.Equal(t, 20, snap.Players[aliceID].Life, "snapshot life moved with the game")
	assert.False(t, snap.Cards[bear.ID].Tapped, "snapshot tap state moved with the game")
	assert.Equal(t, 2, snap.Cards[bear.ID].Counters[counters.P1P1], "snapshot counters moved with the game")
}

func TestLiveGameChecksumTracksTheBoard(t *testing.T) {
	s := newScenario(t)
	land := s.untappedLand("Swamp", aliceID)

	before := s.g.Snapshot().ComputeChecksum()
	land.Tapped = true
	after := s.g.Snapshot().ComputeChecksum()

	assert.NotEqual(t, before.Hash, after.Hash, "tapping a permanent must move the checksum")
}

func TestSummaryNamesPlayersInSeatOrder(t *testing.T) {
	s := newScenario(t)
	s.g.Player(bobID).Life = 12

	line := s.g.Snapshot().Summary()

	assert.Contains(t, line, "Alice 20")
	assert.Contains(t, line, "Bob 12")
	assert.True(t, strings.HasPrefix(line, "T1 "), "summary %q missing turn prefix", line)
	assert.Less(t, strings.Index(line, "Alice"), strings.Index(line, "Bob"), "summary %q out of seat order", line)
}
