package counters

import "testing"

func TestCounters_AddRemove(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 2)
	cs.Add(P1P1, 1)

	if cs.Count(P1P1) != 3 {
		t.Errorf("Expected 3 +1/+1 counters, got %d", cs.Count(P1P1))
	}

	cs.Remove(P1P1, 5)
	if cs.Has(P1P1) {
		t.Error("Expected entry removed once count reaches zero")
	}
	if cs.Remove("missing", 1) {
		t.Error("Expected removing an absent counter to report false")
	}
}

func TestCounters_Deltas(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 2)
	cs.Add(M1M1, 1)
	cs.Pump(3, -1)

	if got := cs.PowerDelta(); got != 4 {
		t.Errorf("Expected power delta 4, got %d", got)
	}
	if got := cs.ToughnessDelta(); got != 0 {
		t.Errorf("Expected toughness delta 0, got %d", got)
	}

	cs.ClearTemporary()
	if got := cs.PowerDelta(); got != 1 {
		t.Errorf("Expected power delta 1 after cleanup, got %d", got)
	}
}

func TestCounters_AnnihilatePairs(t *testing.T) {
	cs := NewCounters()
	cs.Add(P1P1, 3)
	cs.Add(M1M1, 1)

	cs.AnnihilatePairs()
	if cs.Count(P1P1) != 2 {
		t.Errorf("Expected 2 +1/+1 counters after annihilation, got %d", cs.Count(P1P1))
	}
	if cs.Has(M1M1) {
		t.Error("Expected -1/-1 counters gone after annihilation")
	}
}

func TestCounters_CopyIndependent(t *testing.T) {
	cs := NewCounters()
	cs.Add(Loyalty, 3)

	copied := cs.Copy()
	copied.Add(Loyalty, 2)

	if cs.Count(Loyalty) != 3 {
		t.Errorf("Expected original untouched, got %d", cs.Count(Loyalty))
	}
	if copied.Count(Loyalty) != 5 {
		t.Errorf("Expected copy at 5, got %d", copied.Count(Loyalty))
	}
}
