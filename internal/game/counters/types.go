package counters

// Canonical counter names used by the engine. Permanents can carry
// arbitrary named counters; these are the ones rules code reads back.
const (
	// P1P1 and M1M1 shift a creature's power and toughness for as
	// long as they remain.
	P1P1 = "+1/+1"
	M1M1 = "-1/-1"

	// Loyalty tracks planeswalker loyalty. LoyaltyUsed marks that a
	// loyalty ability was activated this turn; cleared during cleanup.
	Loyalty     = "loyalty"
	LoyaltyUsed = "loyalty_used"

	// Lore advances sagas one chapter per counter.
	Lore = "lore"

	// PumpPower and PumpToughness carry until-end-of-turn boosts;
	// ShrinkPower and ShrinkToughness the matching penalties. All
	// four are cleared during cleanup.
	PumpPower       = "pump_power"
	PumpToughness   = "pump_toughness"
	ShrinkPower     = "shrink_power"
	ShrinkToughness = "shrink_toughness"

	// SkipUntap keeps a permanent tapped through its controller's next
	// untap step. One counter is consumed per untap step.
	SkipUntap = "skip_untap"

	// Swampwalk marks an until-end-of-turn landwalk grant; cleared
	// during cleanup.
	Swampwalk = "swampwalk"

	// SorceryFlash marks a permanent whose controller may cast
	// sorceries at instant speed until their next turn.
	SorceryFlash = "sorcery_flash"

	// Evoke marks a creature cast for its evoke cost; it is sacrificed
	// when its arrival trigger resolves.
	Evoke = "evoke"
)
