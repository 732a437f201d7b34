package card

import (
	"strconv"
	"strings"
)

// Definition holds the static, game-independent properties of a card.
// Definitions are immutable once loaded; game state references them and
// never writes through them.
type Definition struct {
	Name       string   `json:"name"`
	ManaCost   string   `json:"mana_cost"`
	CMC        int      `json:"cmc"`
	TypeLine   string   `json:"type_line"`
	OracleText string   `json:"oracle_text"`
	Power      string   `json:"power,omitempty"`
	Toughness  string   `json:"toughness,omitempty"`
	Loyalty    string   `json:"loyalty,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

// Supertypes and types sit left of the dash in a type line, subtypes right.
const typeDash = "—"

func (d *Definition) typeLineParts() (left, right string) {
	parts := strings.SplitN(d.TypeLine, typeDash, 2)
	left = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		right = strings.TrimSpace(parts[1])
	}
	return left, right
}

// Types returns the card types (Creature, Land, Instant, ...), excluding
// supertypes such as Basic or Legendary.
func (d *Definition) Types() []string {
	left, _ := d.typeLineParts()
	var types []string
	for _, word := range strings.Fields(left) {
		switch word {
		case "Basic", "Legendary", "Snow", "Tribal", "World":
			continue
		default:
			types = append(types, word)
		}
	}
	return types
}

// Subtypes returns the subtype words right of the dash, if any.
func (d *Definition) Subtypes() []string {
	_, right := d.typeLineParts()
	if right == "" {
		return nil
	}
	return strings.Fields(right)
}

func (d *Definition) hasType(t string) bool {
	for _, ct := range d.Types() {
		if ct == t {
			return true
		}
	}
	return false
}

// HasSubtype reports whether the type line carries the given subtype.
func (d *Definition) HasSubtype(sub string) bool {
	for _, st := range d.Subtypes() {
		if st == sub {
			return true
		}
	}
	return false
}

func (d *Definition) IsCreature() bool     { return d.hasType("Creature") }
func (d *Definition) IsLand() bool         { return d.hasType("Land") }
func (d *Definition) IsInstant() bool      { return d.hasType("Instant") }
func (d *Definition) IsSorcery() bool      { return d.hasType("Sorcery") }
func (d *Definition) IsArtifact() bool     { return d.hasType("Artifact") }
func (d *Definition) IsEnchantment() bool  { return d.hasType("Enchantment") }
func (d *Definition) IsPlaneswalker() bool { return d.hasType("Planeswalker") }

// IsBasicLand reports whether the card carries the Basic supertype.
func (d *Definition) IsBasicLand() bool {
	left, _ := d.typeLineParts()
	return strings.Contains(left, "Basic") && d.IsLand()
}

// IsLegendary reports whether the card carries the Legendary supertype.
func (d *Definition) IsLegendary() bool {
	left, _ := d.typeLineParts()
	return strings.Contains(left, "Legendary")
}

// IsSaga reports whether the card is a Saga enchantment.
func (d *Definition) IsSaga() bool {
	return d.IsEnchantment() && d.HasSubtype("Saga")
}

// IsPermanent reports whether resolving the card puts it onto the battlefield.
func (d *Definition) IsPermanent() bool {
	return d.IsCreature() || d.IsLand() || d.IsArtifact() || d.IsEnchantment() || d.IsPlaneswalker()
}

// HasKeyword reports whether the definition lists the given keyword
// (case-insensitive). Keywords granted mid-game live on the instance,
// not here.
func (d *Definition) HasKeyword(keyword string) bool {
	for _, k := range d.Keywords {
		if strings.EqualFold(k, keyword) {
			return true
		}
	}
	return false
}

// HasFlash reports whether the card may be cast at instant speed.
func (d *Definition) HasFlash() bool {
	return d.HasKeyword("Flash")
}

// BasePower returns the printed power as an int; "*" and absent values
// count as zero.
func (d *Definition) BasePower() int {
	return parseStat(d.Power)
}

// BaseToughness returns the printed toughness as an int; "*" and absent
// values count as zero.
func (d *Definition) BaseToughness() int {
	return parseStat(d.Toughness)
}

// BaseLoyalty returns the printed starting loyalty, zero if absent.
func (d *Definition) BaseLoyalty() int {
	return parseStat(d.Loyalty)
}

func parseStat(s string) int {
	if s == "" || s == "*" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// OracleContains reports whether the oracle text contains the given
// fragment, ignoring case. Used by the fallback paths that key behavior
// off rules text rather than a known name.
func (d *Definition) OracleContains(fragment string) bool {
	return strings.Contains(strings.ToLower(d.OracleText), strings.ToLower(fragment))
}
