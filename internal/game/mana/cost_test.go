package mana

import (
	"testing"
)

func TestParseCost(t *testing.T) {
	tests := []struct {
		input   string
		generic int
		pips    map[ManaType]int
		x       bool
		err     bool
	}{
		{input: ""},
		{input: "{1}", generic: 1},
		{input: "{G}", pips: map[ManaType]int{ManaGreen: 1}},
		{input: "{1}{G}", generic: 1, pips: map[ManaType]int{ManaGreen: 1}},
		{input: "{2}{R}{R}", generic: 2, pips: map[ManaType]int{ManaRed: 2}},
		{input: "{X}{R}", x: true, pips: map[ManaType]int{ManaRed: 1}},
		{input: "{W}{U}{B}{R}{G}", pips: map[ManaType]int{ManaWhite: 1, ManaBlue: 1, ManaBlack: 1, ManaRed: 1, ManaGreen: 1}},
		{input: "{C}{C}", pips: map[ManaType]int{ManaColorless: 2}},
		{input: "{10}", generic: 10},
		{input: "{W/U}", err: true},
		{input: "{B/P}", err: true},
		{input: "{S}", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseCost(tt.input)
			if tt.err {
				if err == nil {
					t.Errorf("Expected error for %s, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error for %s: %v", tt.input, err)
				return
			}
			if result.Generic != tt.generic {
				t.Errorf("Generic: expected %d, got %d", tt.generic, result.Generic)
			}
			if result.X != tt.x {
				t.Errorf("X: expected %v, got %v", tt.x, result.X)
			}
			for _, manaType := range []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless} {
				if result.Pips[manaType] != tt.pips[manaType] {
					t.Errorf("%s: expected %d, got %d", manaType, tt.pips[manaType], result.Pips[manaType])
				}
			}
		})
	}
}

func TestCost_WithX(t *testing.T) {
	cost := MustParseCost("{X}{R}")

	fixed := cost.WithX(3)
	if fixed.X {
		t.Error("Expected X cleared after WithX")
	}
	if fixed.Generic != 3 {
		t.Errorf("Expected generic 3, got %d", fixed.Generic)
	}
	if fixed.Pips[ManaRed] != 1 {
		t.Errorf("Expected red pip preserved, got %d", fixed.Pips[ManaRed])
	}
	if !cost.X || cost.Generic != 0 {
		t.Error("Expected original cost untouched")
	}
}

func TestCost_ConvertedCost(t *testing.T) {
	tests := []struct {
		input string
		cmc   int
	}{
		{"", 0},
		{"{1}{B}{B}", 3},
		{"{X}{W}", 1},
		{"{7}", 7},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParseCost(tt.input).ConvertedCost(); got != tt.cmc {
				t.Errorf("Expected converted cost %d, got %d", tt.cmc, got)
			}
		})
	}
}

func TestCost_ReduceGeneric(t *testing.T) {
	cost := MustParseCost("{3}{G}{G}")

	reduced := cost.ReduceGeneric(1)
	if reduced.Generic != 2 {
		t.Errorf("Expected generic 2, got %d", reduced.Generic)
	}
	if reduced.Pips[ManaGreen] != 2 {
		t.Errorf("Expected green 2, got %d", reduced.Pips[ManaGreen])
	}

	// Can't reduce below 0, and pips never shrink
	floored := cost.ReduceGeneric(5)
	if floored.Generic != 0 {
		t.Errorf("Expected generic 0, got %d", floored.Generic)
	}
	if floored.Pips[ManaGreen] != 2 {
		t.Errorf("Expected green 2, got %d", floored.Pips[ManaGreen])
	}
}

func TestCost_String(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "{0}"},
		{"{1}{B}{B}", "{1}{B}{B}"},
		{"{B}{B}{1}", "{1}{B}{B}"},
		{"{X}{R}", "{X}{R}"},
		{"{G}{W}", "{W}{G}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParseCost(tt.input).String(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
