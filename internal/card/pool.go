package card

// builtinDefinitions returns the fixed card pool the simulator ships
// with: the discard deck, its removal and disruption suite, the lands it
// plays, and the creatures and spells of the stock opponent lists. The
// template tier covers exactly these names; anything outside the pool
// goes through the external adjudicator.
func builtinDefinitions() []*Definition {
	return []*Definition{
		// Basic lands.
		land("Plains", "Basic Land — Plains", "({T}: Add {W}.)"),
		land("Island", "Basic Land — Island", "({T}: Add {U}.)"),
		land("Swamp", "Basic Land — Swamp", "({T}: Add {B}.)"),
		land("Mountain", "Basic Land — Mountain", "({T}: Add {R}.)"),
		land("Forest", "Basic Land — Forest", "({T}: Add {G}.)"),

		// Utility lands.
		land("Urborg, Tomb of Yawgmoth", "Legendary Land", "Each land is a Swamp in addition to its other land types."),
		land("Mishra's Factory", "Land", "{T}: Add {C}. {1}: Mishra's Factory becomes a 2/2 Assembly-Worker artifact creature until end of turn. It's still a land."),
		land("Castle Locthwain", "Land", "{T}: Add {B}. {1}{B}{B}, {T}: Draw a card, then you lose life equal to the number of cards in your hand."),
		land("Urza's Saga", "Enchantment Land — Urza's Saga", "Chapter I: Urza's Saga gains '{T}: Add {C}.' Chapter II: Urza's Saga gains '{2}, {T}: Create a 0/0 colorless Construct artifact creature token with +1/+1 for each artifact you control.' Chapter III: Search your library for an artifact card with mana cost {0} or {1} and put it onto the battlefield."),

		// Fetch lands.
		fetch("Marsh Flats", "Plains", "Swamp"),
		fetch("Bloodstained Mire", "Swamp", "Mountain"),
		fetch("Polluted Delta", "Island", "Swamp"),
		fetch("Flooded Strand", "Plains", "Island"),
		fetch("Windswept Heath", "Forest", "Plains"),
		fetch("Wooded Foothills", "Mountain", "Forest"),
		fetch("Scalding Tarn", "Island", "Mountain"),
		fetch("Verdant Catacombs", "Swamp", "Forest"),
		fetch("Arid Mesa", "Mountain", "Plains"),
		fetch("Misty Rainforest", "Forest", "Island"),

		// Shock lands.
		shock("Godless Shrine", "Plains", "Swamp"),
		shock("Watery Grave", "Island", "Swamp"),
		shock("Blood Crypt", "Swamp", "Mountain"),
		shock("Overgrown Tomb", "Swamp", "Forest"),
		shock("Hallowed Fountain", "Plains", "Island"),
		shock("Steam Vents", "Island", "Mountain"),
		shock("Sacred Foundry", "Mountain", "Plains"),
		shock("Temple Garden", "Forest", "Plains"),
		shock("Breeding Pool", "Forest", "Island"),
		shock("Stomping Ground", "Mountain", "Forest"),

		// The discard core.
		{Name: "The Rack", ManaCost: "{1}", CMC: 1, TypeLine: "Artifact",
			OracleText: "At the beginning of each opponent's upkeep, The Rack deals X damage to that player, where X is 3 minus the number of cards in their hand."},
		{Name: "Shrieking Affliction", ManaCost: "{B}", CMC: 1, TypeLine: "Enchantment", Colors: []string{"B"},
			OracleText: "At the beginning of each opponent's upkeep, if that player has one or fewer cards in hand, they lose 3 life."},
		{Name: "Thoughtseize", ManaCost: "{B}", CMC: 1, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Target player reveals their hand. You choose a nonland card from it. That player discards that card. You lose 2 life."},
		{Name: "Inquisition of Kozilek", ManaCost: "{B}", CMC: 1, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Target player reveals their hand. You choose a nonland card from it with mana value 3 or less. That player discards that card."},
		{Name: "Raven's Crime", ManaCost: "{B}", CMC: 1, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Target player discards a card. Retrace."},
		{Name: "Wrench Mind", ManaCost: "{B}{B}", CMC: 2, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Target player discards two cards at random unless they discard an artifact card."},
		{Name: "Funeral Charm", ManaCost: "{B}", CMC: 1, TypeLine: "Instant", Colors: []string{"B"},
			OracleText: "Choose one — Target player discards a card; or target creature gets +2/-1 until end of turn; or target creature gains swampwalk until end of turn."},
		{Name: "Smallpox", ManaCost: "{B}{B}", CMC: 2, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Each player loses 1 life, discards a card, sacrifices a creature, then sacrifices a land."},
		{Name: "Liliana of the Veil", ManaCost: "{1}{B}{B}", CMC: 3, TypeLine: "Legendary Planeswalker — Liliana", Loyalty: "3", Colors: []string{"B"},
			OracleText: "+1: Each player discards a card. -2: Target player sacrifices a creature. -6: Separate all permanents target player controls into two piles. That player sacrifices all permanents in the pile of their choice."},
		{Name: "Nihil Spellbomb", ManaCost: "{1}", CMC: 1, TypeLine: "Artifact",
			OracleText: "{T}, Sacrifice Nihil Spellbomb: Exile target player's graveyard. When Nihil Spellbomb is put into a graveyard from the battlefield, you may pay {B}. If you do, draw a card."},
		{Name: "Ensnaring Bridge", ManaCost: "{3}", CMC: 3, TypeLine: "Artifact",
			OracleText: "Creatures with power greater than the number of cards in your hand can't attack."},
		{Name: "Leyline of the Void", ManaCost: "{2}{B}{B}", CMC: 4, TypeLine: "Enchantment", Colors: []string{"B"},
			OracleText: "If Leyline of the Void is in your opening hand, you may begin the game with it on the battlefield. If a card would be put into an opponent's graveyard from anywhere, exile it instead."},
		{Name: "Bontu's Last Reckoning", ManaCost: "{1}{B}{B}", CMC: 3, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Destroy all creatures. Lands you control don't untap during your next untap step."},

		// Removal and interaction.
		{Name: "Fatal Push", ManaCost: "{B}", CMC: 1, TypeLine: "Instant", Colors: []string{"B"},
			OracleText: "Destroy target creature if it has mana value 2 or less. Revolt — Destroy that creature if it has mana value 4 or less instead."},
		{Name: "Bloodchief's Thirst", ManaCost: "{B}", CMC: 1, TypeLine: "Sorcery", Colors: []string{"B"},
			OracleText: "Kicker {2}{B}. Destroy target creature or planeswalker with mana value 2 or less. If this spell was kicked, instead destroy target creature or planeswalker."},
		{Name: "Sheoldred's Edict", ManaCost: "{1}{B}", CMC: 2, TypeLine: "Instant", Colors: []string{"B"},
			OracleText: "Choose one — Each opponent sacrifices a creature; or each opponent sacrifices a planeswalker."},
		{Name: "Dismember", ManaCost: "{1}", CMC: 1, TypeLine: "Instant", Colors: []string{"B"},
			OracleText: "As an additional cost to cast this spell, pay 4 life. Target creature gets -5/-5 until end of turn."},
		{Name: "Lightning Bolt", ManaCost: "{R}", CMC: 1, TypeLine: "Instant", Colors: []string{"R"},
			OracleText: "Lightning Bolt deals 3 damage to any target."},
		{Name: "Prismatic Ending", ManaCost: "{X}{W}", CMC: 1, TypeLine: "Sorcery", Colors: []string{"W"},
			OracleText: "Exile target nonland permanent with mana value X or less."},
		{Name: "Leyline Binding", ManaCost: "{5}{W}", CMC: 6, TypeLine: "Enchantment", Colors: []string{"W"}, Keywords: []string{"Flash"},
			OracleText: "Flash. This spell costs {1} less to cast for each land type among lands you control. When Leyline Binding enters the battlefield, exile target nonland permanent an opponent controls until Leyline Binding leaves the battlefield."},
		{Name: "All Is Dust", ManaCost: "{7}", CMC: 7, TypeLine: "Tribal Sorcery — Eldrazi",
			OracleText: "Each player sacrifices each colored permanent they control."},
		{Name: "Blood Moon", ManaCost: "{2}{R}", CMC: 3, TypeLine: "Enchantment", Colors: []string{"R"},
			OracleText: "Nonbasic lands are Mountains."},

		// Evoke elementals.
		{Name: "Solitude", ManaCost: "{3}{W}{W}", CMC: 5, TypeLine: "Creature — Elemental Incarnation", Power: "3", Toughness: "2", Colors: []string{"W"},
			Keywords:   []string{"Flash", "Lifelink"},
			OracleText: "Flash. Lifelink. When Solitude enters the battlefield, exile up to one target creature. Evoke."},
		{Name: "Grief", ManaCost: "{2}{B}{B}", CMC: 4, TypeLine: "Creature — Elemental Incarnation", Power: "3", Toughness: "2", Colors: []string{"B"},
			Keywords:   []string{"Flash", "Menace"},
			OracleText: "Flash. Menace. When Grief enters the battlefield, target opponent reveals their hand. You choose a nonland card from it. That player discards that card. Evoke."},
		{Name: "Fury", ManaCost: "{3}{R}{R}", CMC: 5, TypeLine: "Creature — Elemental Incarnation", Power: "3", Toughness: "3", Colors: []string{"R"},
			Keywords:   []string{"Double strike"},
			OracleText: "When Fury enters the battlefield, it deals 4 damage divided as you choose among any number of target creatures and/or planeswalkers. Evoke."},
		{Name: "Endurance", ManaCost: "{1}{G}{G}", CMC: 3, TypeLine: "Creature — Elemental Incarnation", Power: "3", Toughness: "4", Colors: []string{"G"},
			Keywords:   []string{"Flash", "Reach"},
			OracleText: "Flash. Reach. When Endurance enters the battlefield, up to one target player puts their graveyard on the bottom of their library. Evoke."},
		{Name: "Subtlety", ManaCost: "{2}{U}{U}", CMC: 4, TypeLine: "Creature — Elemental Incarnation", Power: "3", Toughness: "3", Colors: []string{"U"},
			Keywords:   []string{"Flash", "Flying"},
			OracleText: "Flash. Flying. When Subtlety enters the battlefield, put up to one target spell or creature on top or bottom of its owner's library. Evoke."},

		// Opponent threats and burn.
		{Name: "Monastery Swiftspear", ManaCost: "{R}", CMC: 1, TypeLine: "Creature — Human Monk", Power: "1", Toughness: "2", Colors: []string{"R"},
			Keywords:   []string{"Haste", "Prowess"},
			OracleText: "Haste. Prowess."},
		{Name: "Goblin Guide", ManaCost: "{R}", CMC: 1, TypeLine: "Creature — Goblin Scout", Power: "2", Toughness: "2", Colors: []string{"R"},
			Keywords:   []string{"Haste"},
			OracleText: "Haste. When Goblin Guide attacks, defending player reveals the top card of their library. If it's a land card, that player puts it into their hand."},
		{Name: "Seasoned Pyromancer", ManaCost: "{1}{R}{R}", CMC: 3, TypeLine: "Creature — Human Shaman", Power: "2", Toughness: "2", Colors: []string{"R"},
			OracleText: "When Seasoned Pyromancer enters the battlefield, discard two cards, then draw two cards. For each nonland card discarded this way, create a 1/1 red Elemental creature token."},
		{Name: "Phlage, Titan of Fire's Fury", ManaCost: "{1}{R}{R}", CMC: 3, TypeLine: "Legendary Creature — Elder Giant", Power: "6", Toughness: "5", Colors: []string{"R", "W"},
			OracleText: "When Phlage enters the battlefield or attacks, it deals 3 damage to any target and you gain 3 life. Escape."},
		{Name: "Orcish Bowmasters", ManaCost: "{1}{B}", CMC: 2, TypeLine: "Creature — Orc Archer", Power: "1", Toughness: "1", Colors: []string{"B"},
			Keywords:   []string{"Flash"},
			OracleText: "Flash. Whenever an opponent draws a card except the first one they draw in each of their draw steps, Orcish Bowmasters deals 1 damage to any target. Then amass Orcs 1."},
		{Name: "Thought-Knot Seer", ManaCost: "{3}{C}", CMC: 4, TypeLine: "Creature — Eldrazi", Power: "4", Toughness: "4",
			OracleText: "When Thought-Knot Seer enters the battlefield, target opponent reveals their hand. You choose a nonland card from it and exile that card. When Thought-Knot Seer leaves the battlefield, target opponent draws a card."},
		{Name: "Ice-Fang Coatl", ManaCost: "{G}{U}", CMC: 2, TypeLine: "Snow Creature — Snake", Power: "1", Toughness: "1", Colors: []string{"G", "U"},
			Keywords:   []string{"Flash", "Flying", "Deathtouch"},
			OracleText: "Flash. Flying. When Ice-Fang Coatl enters the battlefield, draw a card. Ice-Fang Coatl has deathtouch as long as you control three or more snow lands."},
		{Name: "Teferi, Time Raveler", ManaCost: "{1}{W}{U}", CMC: 3, TypeLine: "Legendary Planeswalker — Teferi", Loyalty: "4", Colors: []string{"W", "U"},
			OracleText: "+1: Until your next turn, you may cast sorcery spells as though they had flash. -3: Return up to one target artifact, creature, or enchantment to its owner's hand. Draw a card."},

		// Storm and rituals.
		{Name: "Desperate Ritual", ManaCost: "{1}{R}", CMC: 2, TypeLine: "Instant — Arcane", Colors: []string{"R"},
			OracleText: "Add {R}{R}{R}."},
		{Name: "Pyretic Ritual", ManaCost: "{1}{R}", CMC: 2, TypeLine: "Instant", Colors: []string{"R"},
			OracleText: "Add {R}{R}{R}."},
		{Name: "Manamorphose", ManaCost: "{1}{R}", CMC: 2, TypeLine: "Instant", Colors: []string{"R"},
			OracleText: "Add two mana in any combination of colors. Draw a card."},
		{Name: "Grapeshot", ManaCost: "{1}{R}", CMC: 2, TypeLine: "Sorcery", Colors: []string{"R"},
			OracleText: "Grapeshot deals 1 damage to any target. Storm."},

		// Token definitions.
		{Name: "Treasure", TypeLine: "Token Artifact — Treasure",
			OracleText: "{T}, Sacrifice Treasure: Add one mana of any color."},
		{Name: "Construct", TypeLine: "Token Artifact Creature — Construct", Power: "0", Toughness: "0",
			OracleText: "This creature gets +1/+1 for each artifact you control."},
		{Name: "Orc Army", TypeLine: "Token Creature — Orc Army", Power: "0", Toughness: "0", Colors: []string{"B"}},
		{Name: "Elemental", TypeLine: "Token Creature — Elemental", Power: "1", Toughness: "1", Colors: []string{"R"}},
	}
}

func land(name, typeLine, oracle string) *Definition {
	return &Definition{Name: name, TypeLine: typeLine, OracleText: oracle}
}

func fetch(name, typeA, typeB string) *Definition {
	return &Definition{
		Name:     name,
		TypeLine: "Land",
		OracleText: "{T}, Pay 1 life, Sacrifice " + name + ": Search your library for a " +
			typeA + " or " + typeB + " card, put it onto the battlefield, then shuffle.",
	}
}

func shock(name, typeA, typeB string) *Definition {
	return &Definition{
		Name:       name,
		TypeLine:   "Land — " + typeA + " " + typeB,
		OracleText: "As " + name + " enters the battlefield, you may pay 2 life. If you don't, it enters the battlefield tapped.",
	}
}
