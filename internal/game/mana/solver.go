package mana

import "sort"

// Source describes an untapped permanent that can produce one mana.
// The engine builds these from the battlefield; the solver never sees
// game objects directly.
type Source struct {
	ID       string
	Produces []ManaType
	IsBasic  bool
}

// Tap is one step of a payment plan: tap the source, produce the type.
type Tap struct {
	SourceID string
	Produce  ManaType
}

func (s Source) produces(manaType ManaType) bool {
	for _, produced := range s.Produces {
		if produced == manaType {
			return true
		}
	}
	return false
}

// Solve computes which sources to tap so that, after adding their mana
// to the pool, the pool covers the cost. Colored pips are satisfied
// first, preferring single-type producers and basics over duals so
// flexible sources stay free for later pips. The generic portion then
// takes colorless producers before colored ones. Returns nil, false
// when the cost cannot be covered; X costs must be fixed with WithX
// before solving.
func Solve(cost *Cost, pool *Pool, sources []Source) ([]Tap, bool) {
	if cost == nil {
		return nil, true
	}
	if cost.X {
		return nil, false
	}

	avail := map[ManaType]int{}
	if pool != nil {
		for _, manaType := range []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless} {
			avail[manaType] = pool.Amount(manaType)
		}
	}

	used := make([]bool, len(sources))
	var plan []Tap

	// Pip requirements beyond what the pool already holds, scarcest
	// type first so contested duals go where they are needed.
	type pipNeed struct {
		manaType   ManaType
		count      int
		candidates int
	}
	var needs []pipNeed
	for _, manaType := range []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless} {
		pips := cost.Pips[manaType]
		if pips == 0 {
			continue
		}
		fromPool := min(pips, avail[manaType])
		avail[manaType] -= fromPool
		remaining := pips - fromPool
		if remaining == 0 {
			continue
		}
		candidates := 0
		for _, source := range sources {
			if source.produces(manaType) {
				candidates++
			}
		}
		needs = append(needs, pipNeed{manaType: manaType, count: remaining, candidates: candidates})
	}
	sort.SliceStable(needs, func(i, j int) bool {
		return needs[i].candidates < needs[j].candidates
	})

	for _, need := range needs {
		for n := 0; n < need.count; n++ {
			idx := pickPipSource(sources, used, need.manaType)
			if idx < 0 {
				return nil, false
			}
			used[idx] = true
			plan = append(plan, Tap{SourceID: sources[idx].ID, Produce: need.manaType})
		}
	}

	generic := cost.Generic
	for _, amount := range avail {
		generic -= amount
	}
	for generic > 0 {
		idx := pickGenericSource(sources, used)
		if idx < 0 {
			return nil, false
		}
		used[idx] = true
		plan = append(plan, Tap{SourceID: sources[idx].ID, Produce: genericProduce(sources[idx])})
		generic--
	}
	return plan, true
}

// pickPipSource chooses an unused source producing the type: fewest
// produced types first, basics before nonbasics, earliest listed last.
func pickPipSource(sources []Source, used []bool, manaType ManaType) int {
	best := -1
	for i, source := range sources {
		if used[i] || !source.produces(manaType) {
			continue
		}
		if best < 0 || pipRank(source) < pipRank(sources[best]) {
			best = i
		}
	}
	return best
}

func pipRank(source Source) int {
	rank := len(source.Produces) * 2
	if !source.IsBasic {
		rank++
	}
	return rank
}

// pickGenericSource chooses an unused source for the generic portion,
// spending the least flexible mana first: colorless-only producers,
// then basics, then everything else in listed order.
func pickGenericSource(sources []Source, used []bool) int {
	best := -1
	for i, source := range sources {
		if used[i] || len(source.Produces) == 0 {
			continue
		}
		if best < 0 || genericRank(source) < genericRank(sources[best]) {
			best = i
		}
	}
	return best
}

func genericRank(source Source) int {
	onlyColorless := len(source.Produces) == 1 && source.Produces[0] == ManaColorless
	switch {
	case onlyColorless:
		return 0
	case source.IsBasic:
		return 1
	default:
		return 2 + len(source.Produces)
	}
}

func genericProduce(source Source) ManaType {
	if source.produces(ManaColorless) {
		return ManaColorless
	}
	return source.Produces[0]
}
