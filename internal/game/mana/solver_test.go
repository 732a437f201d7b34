package mana

import (
	"testing"
)

func tapsByID(plan []Tap) map[string]ManaType {
	out := make(map[string]ManaType, len(plan))
	for _, tap := range plan {
		out[tap.SourceID] = tap.Produce
	}
	return out
}

func TestSolve_ColoredPipsPreferBasics(t *testing.T) {
	sources := []Source{
		{ID: "watery-grave", Produces: []ManaType{ManaBlue, ManaBlack}},
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
	}

	plan, ok := Solve(MustParseCost("{B}"), NewPool(), sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	if len(plan) != 1 {
		t.Fatalf("Expected 1 tap, got %d", len(plan))
	}
	if plan[0].SourceID != "swamp" {
		t.Errorf("Expected the basic to pay the pip, got %s", plan[0].SourceID)
	}
}

func TestSolve_DualSavedForContestedPip(t *testing.T) {
	// {W}{B} with a Swamp and a dual: the dual must cover white.
	sources := []Source{
		{ID: "godless-shrine", Produces: []ManaType{ManaWhite, ManaBlack}},
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
	}

	plan, ok := Solve(MustParseCost("{W}{B}"), NewPool(), sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	byID := tapsByID(plan)
	if byID["godless-shrine"] != ManaWhite {
		t.Errorf("Expected dual tapped for white, got %s", byID["godless-shrine"])
	}
	if byID["swamp"] != ManaBlack {
		t.Errorf("Expected swamp tapped for black, got %s", byID["swamp"])
	}
}

func TestSolve_GenericPrefersColorless(t *testing.T) {
	sources := []Source{
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
		{ID: "factory", Produces: []ManaType{ManaColorless}},
		{ID: "swamp-2", Produces: []ManaType{ManaBlack}, IsBasic: true},
	}

	plan, ok := Solve(MustParseCost("{1}{B}"), NewPool(), sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	byID := tapsByID(plan)
	if _, tapped := byID["factory"]; !tapped {
		t.Error("Expected colorless source to pay the generic portion")
	}
	if len(plan) != 2 {
		t.Errorf("Expected 2 taps, got %d", len(plan))
	}
}

func TestSolve_PoolManaUsedFirst(t *testing.T) {
	pool := NewPool()
	pool.Add(ManaBlack, 1)
	sources := []Source{
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
	}

	plan, ok := Solve(MustParseCost("{B}"), pool, sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	if len(plan) != 0 {
		t.Errorf("Expected floating mana to cover the pip without taps, got %d taps", len(plan))
	}

	plan, ok = Solve(MustParseCost("{1}{B}"), pool, sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	if len(plan) != 1 {
		t.Errorf("Expected 1 tap beyond the pool, got %d", len(plan))
	}
}

func TestSolve_Insufficient(t *testing.T) {
	sources := []Source{
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
		{ID: "mountain", Produces: []ManaType{ManaRed}, IsBasic: true},
	}

	if _, ok := Solve(MustParseCost("{W}"), NewPool(), sources); ok {
		t.Error("Expected no plan for an unproducible pip")
	}
	if _, ok := Solve(MustParseCost("{3}"), NewPool(), sources); ok {
		t.Error("Expected no plan when total mana falls short")
	}
}

func TestSolve_ScarcePipAssignedFirst(t *testing.T) {
	// {U}{B}: only the dual makes blue, so black must come from the
	// swamp even though the dual is listed first.
	sources := []Source{
		{ID: "watery-grave", Produces: []ManaType{ManaBlue, ManaBlack}},
		{ID: "swamp", Produces: []ManaType{ManaBlack}, IsBasic: true},
	}

	plan, ok := Solve(MustParseCost("{U}{B}"), NewPool(), sources)
	if !ok {
		t.Fatal("Expected a plan")
	}
	byID := tapsByID(plan)
	if byID["watery-grave"] != ManaBlue {
		t.Errorf("Expected dual tapped for blue, got %s", byID["watery-grave"])
	}
	if byID["swamp"] != ManaBlack {
		t.Errorf("Expected swamp tapped for black, got %s", byID["swamp"])
	}
}

func TestSolve_XMustBeFixed(t *testing.T) {
	sources := []Source{
		{ID: "mountain", Produces: []ManaType{ManaRed}, IsBasic: true},
	}
	if _, ok := Solve(MustParseCost("{X}{R}"), NewPool(), sources); ok {
		t.Error("Expected unfixed X cost to be rejected")
	}
	if _, ok := Solve(MustParseCost("{X}{R}").WithX(0), NewPool(), sources); !ok {
		t.Error("Expected X=0 cost to solve")
	}
}
