package mana

import (
	"fmt"
	"strings"
	"sync"
)

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
)

// ColorOrder is the deterministic order used when generic costs consume
// colored mana: colorless first, then this fixed color sequence.
var ColorOrder = []ManaType{ManaBlack, ManaRed, ManaGreen, ManaWhite, ManaBlue}

// Symbol returns the single-letter cost symbol for a mana type.
func (mt ManaType) Symbol() string {
	switch mt {
	case ManaWhite:
		return "W"
	case ManaBlue:
		return "U"
	case ManaBlack:
		return "B"
	case ManaRed:
		return "R"
	case ManaGreen:
		return "G"
	case ManaColorless:
		return "C"
	default:
		return "?"
	}
}

// TypeForSymbol maps a cost symbol back to its mana type.
func TypeForSymbol(symbol string) (ManaType, bool) {
	switch strings.ToUpper(symbol) {
	case "W":
		return ManaWhite, true
	case "U":
		return ManaBlue, true
	case "B":
		return ManaBlack, true
	case "R":
		return ManaRed, true
	case "G":
		return ManaGreen, true
	case "C":
		return ManaColorless, true
	default:
		return "", false
	}
}

// Pool is a player's mana pool: six non-negative counters. Pools are
// emptied between steps, so nothing here tracks duration.
type Pool struct {
	mu sync.RWMutex

	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

// NewPool creates a new empty mana pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add adds mana of the given type.
func (p *Pool) Add(manaType ManaType, amount int) {
	if amount <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch manaType {
	case ManaWhite:
		p.White += amount
	case ManaBlue:
		p.Blue += amount
	case ManaBlack:
		p.Black += amount
	case ManaRed:
		p.Red += amount
	case ManaGreen:
		p.Green += amount
	case ManaColorless:
		p.Colorless += amount
	}
}

// Amount returns the current amount of a mana type.
func (p *Pool) Amount(manaType ManaType) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.amountLocked(manaType)
}

func (p *Pool) amountLocked(manaType ManaType) int {
	switch manaType {
	case ManaWhite:
		return p.White
	case ManaBlue:
		return p.Blue
	case ManaBlack:
		return p.Black
	case ManaRed:
		return p.Red
	case ManaGreen:
		return p.Green
	case ManaColorless:
		return p.Colorless
	default:
		return 0
	}
}

// Total returns the total mana count across all types.
func (p *Pool) Total() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// Spend removes mana of one type. Returns false (and removes nothing)
// if the pool holds less than the requested amount.
func (p *Pool) Spend(manaType ManaType, amount int) bool {
	if amount <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.amountLocked(manaType) < amount {
		return false
	}
	switch manaType {
	case ManaWhite:
		p.White -= amount
	case ManaBlue:
		p.Blue -= amount
	case ManaBlack:
		p.Black -= amount
	case ManaRed:
		p.Red -= amount
	case ManaGreen:
		p.Green -= amount
	case ManaColorless:
		p.Colorless -= amount
	}
	return true
}

// CanPay reports whether the pool can cover the cost: every colored and
// colorless pip, plus the generic portion from whatever remains.
func (p *Pool) CanPay(cost *Cost) bool {
	if cost == nil {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	remaining := map[ManaType]int{
		ManaWhite:     p.White,
		ManaBlue:      p.Blue,
		ManaBlack:     p.Black,
		ManaRed:       p.Red,
		ManaGreen:     p.Green,
		ManaColorless: p.Colorless,
	}
	for manaType, pips := range cost.Pips {
		if remaining[manaType] < pips {
			return false
		}
		remaining[manaType] -= pips
	}
	total := 0
	for _, amount := range remaining {
		total += amount
	}
	return total >= cost.Generic
}

// Pay removes the cost from the pool: colored pips first, then the
// generic portion from colorless followed by the fixed color order.
// Returns false and leaves the pool untouched when the cost cannot be
// fully covered.
func (p *Pool) Pay(cost *Cost) bool {
	if cost == nil {
		return true
	}
	if !p.CanPay(cost) {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	spend := func(manaType ManaType, amount int) {
		switch manaType {
		case ManaWhite:
			p.White -= amount
		case ManaBlue:
			p.Blue -= amount
		case ManaBlack:
			p.Black -= amount
		case ManaRed:
			p.Red -= amount
		case ManaGreen:
			p.Green -= amount
		case ManaColorless:
			p.Colorless -= amount
		}
	}

	for manaType, pips := range cost.Pips {
		spend(manaType, pips)
	}

	generic := cost.Generic
	if generic > 0 {
		fromColorless := min(generic, p.Colorless)
		spend(ManaColorless, fromColorless)
		generic -= fromColorless
	}
	for _, manaType := range ColorOrder {
		if generic == 0 {
			break
		}
		fromColor := min(generic, p.amountLocked(manaType))
		spend(manaType, fromColor)
		generic -= fromColor
	}
	return true
}

// Empty clears the pool.
func (p *Pool) Empty() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.White = 0
	p.Blue = 0
	p.Black = 0
	p.Red = 0
	p.Green = 0
	p.Colorless = 0
}

// Copy creates a deep copy of the pool.
func (p *Pool) Copy() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &Pool{
		White:     p.White,
		Blue:      p.Blue,
		Black:     p.Black,
		Red:       p.Red,
		Green:     p.Green,
		Colorless: p.Colorless,
	}
}

// String renders the pool as cost symbols, e.g. "{B}{B}{C}".
func (p *Pool) String() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var b strings.Builder
	write := func(manaType ManaType, amount int) {
		for i := 0; i < amount; i++ {
			fmt.Fprintf(&b, "{%s}", manaType.Symbol())
		}
	}
	write(ManaWhite, p.White)
	write(ManaBlue, p.Blue)
	write(ManaBlack, p.Black)
	write(ManaRed, p.Red)
	write(ManaGreen, p.Green)
	write(ManaColorless, p.Colorless)
	if b.Len() == 0 {
		return "{}"
	}
	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
