package counters

// PowerDelta returns the net power shift from counters: +1/+1 minus
// -1/-1 plus any until-end-of-turn pump.
func (cs *Counters) PowerDelta() int {
	return cs.Count(P1P1) - cs.Count(M1M1) + cs.Count(PumpPower) - cs.Count(ShrinkPower)
}

// ToughnessDelta returns the net toughness shift from counters.
func (cs *Counters) ToughnessDelta() int {
	return cs.Count(P1P1) - cs.Count(M1M1) + cs.Count(PumpToughness) - cs.Count(ShrinkToughness)
}

// Pump records an until-end-of-turn power/toughness boost. Negative
// values become shrink counters so counts never go negative.
func (cs *Counters) Pump(power, toughness int) {
	switch {
	case power > 0:
		cs.Add(PumpPower, power)
	case power < 0:
		cs.Add(ShrinkPower, -power)
	}
	switch {
	case toughness > 0:
		cs.Add(PumpToughness, toughness)
	case toughness < 0:
		cs.Add(ShrinkToughness, -toughness)
	}
}

// ClearTemporary removes the until-end-of-turn bookkeeping counters.
// Called during the cleanup step.
func (cs *Counters) ClearTemporary() {
	cs.RemoveAll(PumpPower)
	cs.RemoveAll(PumpToughness)
	cs.RemoveAll(ShrinkPower)
	cs.RemoveAll(ShrinkToughness)
	cs.RemoveAll(LoyaltyUsed)
	cs.RemoveAll(Swampwalk)
}

// AnnihilatePairs removes matched +1/+1 and -1/-1 pairs, the state
// based action from Rule 704.5q.
func (cs *Counters) AnnihilatePairs() {
	plus := cs.Count(P1P1)
	minus := cs.Count(M1M1)
	pairs := plus
	if minus < pairs {
		pairs = minus
	}
	if pairs > 0 {
		cs.Remove(P1P1, pairs)
		cs.Remove(M1M1, pairs)
	}
}
