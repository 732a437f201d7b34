package game

import (
	"strings"

	"github.com/spellstack/gauntlet/internal/game/watchers"
)

// EffectivePower returns a creature's power after counters and
// temporary pumps. Animated permanents use their granted base stats;
// Construct tokens grow with the controller's artifact count.
func (g *GameState) EffectivePower(ci *CardInstance) int {
	base := ci.Def.BasePower()
	if ci.Animated {
		base = ci.AnimPower
	}
	base += g.dynamicStatBonus(ci)
	return base + ci.Counters.PowerDelta()
}

// EffectiveToughness returns a creature's toughness after counters and
// temporary pumps.
func (g *GameState) EffectiveToughness(ci *CardInstance) int {
	base := ci.Def.BaseToughness()
	if ci.Animated {
		base = ci.AnimToughness
	}
	base += g.dynamicStatBonus(ci)
	return base + ci.Counters.ToughnessDelta()
}

// dynamicStatBonus covers printed stats that read the board. The
// Construct token from Urza's Saga is +1/+1 per artifact its controller
// controls.
func (g *GameState) dynamicStatBonus(ci *CardInstance) int {
	if ci.Name() != "Construct" {
		return 0
	}
	bonus := 0
	for _, perm := range g.BattlefieldOf(ci.Controller) {
		if perm.Def.IsArtifact() {
			bonus++
		}
	}
	return bonus
}

// LethalDamage returns how much more damage kills the creature. A
// deathtouch source only ever needs 1.
func (g *GameState) LethalDamage(ci *CardInstance, fromDeathtouch bool) int {
	if fromDeathtouch {
		return 1
	}
	remaining := g.EffectiveToughness(ci) - ci.Damage
	if remaining < 1 {
		return 1
	}
	return remaining
}

// CreatureHasKeyword reports whether a creature currently has the
// keyword, including conditional grants the printed list cannot
// express. Ice-Fang Coatl has deathtouch only while its controller
// controls three or more snow lands.
func (g *GameState) CreatureHasKeyword(ci *CardInstance, keyword string) bool {
	if ci.Def.HasKeyword(keyword) {
		if ci.Name() == "Ice-Fang Coatl" && strings.EqualFold(keyword, "Deathtouch") {
			return g.snowLandCount(ci.Controller) >= 3
		}
		return true
	}
	return false
}

func (g *GameState) snowLandCount(playerID string) int {
	count := 0
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Def.IsLand() && strings.Contains(ci.Def.TypeLine, "Snow") {
			count++
		}
	}
	return count
}

// IsSwamp reports whether a land currently has the Swamp type. Urborg,
// Tomb of Yawgmoth makes every land a Swamp in addition to its types.
func (g *GameState) IsSwamp(ci *CardInstance) bool {
	if !ci.Def.IsLand() {
		return false
	}
	if ci.Def.HasSubtype("Swamp") {
		return true
	}
	for _, playerID := range g.Order {
		if g.ControlsNamed(playerID, "Urborg, Tomb of Yawgmoth") {
			return true
		}
	}
	return false
}

// SpellsCastThisTurn returns the running storm count from the spell
// watcher, zero when the watcher is not registered.
func (g *GameState) SpellsCastThisTurn() int {
	if sw, ok := g.Watchers.GetWatcher("SpellsCastWatcher").(*watchers.SpellsCastWatcher); ok {
		return sw.TotalCount()
	}
	return 0
}

// PermanentsLeftThisTurn reports how many permanents left the player's
// battlefield this turn. Revolt abilities read it.
func (g *GameState) PermanentsLeftThisTurn(playerID string) int {
	if pw, ok := g.Watchers.GetWatcher("PermanentsLeftWatcher").(*watchers.PermanentsLeftWatcher); ok {
		return pw.GetCount(playerID)
	}
	return 0
}
