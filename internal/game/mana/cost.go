package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost is a parsed mana cost: colored and colorless pips, a generic
// portion, and an optional X.
type Cost struct {
	Generic int
	Pips    map[ManaType]int
	X       bool
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string such as "{1}{B}{B}" or "{X}{R}".
// Supported symbols are numbers, W U B R G C, and X. Anything else,
// including hybrid and phyrexian symbols, is an error.
func ParseCost(costStr string) (*Cost, error) {
	cost := &Cost{Pips: map[ManaType]int{}}
	if costStr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "X":
			cost.X = true
		default:
			if manaType, ok := TypeForSymbol(symbol); ok {
				cost.Pips[manaType]++
				continue
			}
			num, err := strconv.Atoi(symbol)
			if err != nil {
				return nil, fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			cost.Generic += num
		}
	}
	return cost, nil
}

// MustParseCost parses a cost and panics on error. For fixed costs in
// card templates, never for catalog input.
func MustParseCost(costStr string) *Cost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// WithX returns a copy of the cost with the X portion fixed to the
// given value, folded into the generic requirement.
func (c *Cost) WithX(x int) *Cost {
	fixed := c.Copy()
	if fixed.X {
		fixed.X = false
		if x > 0 {
			fixed.Generic += x
		}
	}
	return fixed
}

// Copy creates a deep copy of the cost.
func (c *Cost) Copy() *Cost {
	out := &Cost{Generic: c.Generic, X: c.X, Pips: make(map[ManaType]int, len(c.Pips))}
	for manaType, pips := range c.Pips {
		out.Pips[manaType] = pips
	}
	return out
}

// ColoredPips returns the total number of non-generic pips.
func (c *Cost) ColoredPips() int {
	total := 0
	for _, pips := range c.Pips {
		total += pips
	}
	return total
}

// ConvertedCost returns the converted cost with X counted as zero.
func (c *Cost) ConvertedCost() int {
	return c.Generic + c.ColoredPips()
}

// ReduceGeneric returns a copy with the generic portion reduced,
// floored at zero. Colored pips are never reduced.
func (c *Cost) ReduceGeneric(by int) *Cost {
	reduced := c.Copy()
	reduced.Generic -= by
	if reduced.Generic < 0 {
		reduced.Generic = 0
	}
	return reduced
}

// String renders the cost in canonical symbol order: X, generic, then
// W U B R G C.
func (c *Cost) String() string {
	var b strings.Builder
	if c.X {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	order := []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}
	for _, manaType := range order {
		for i := 0; i < c.Pips[manaType]; i++ {
			fmt.Fprintf(&b, "{%s}", manaType.Symbol())
		}
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
