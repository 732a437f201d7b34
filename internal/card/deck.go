package card

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decklist is a parsed deck: main deck and sideboard as ordered name
// lists with one entry per physical card.
type Decklist struct {
	Name      string
	Main      []string
	Sideboard []string
}

// Size returns the number of main-deck cards.
func (d *Decklist) Size() int { return len(d.Main) }

// Canonical renders the list in a stable "N Name" form, main deck then
// sideboard, sorted within each section. Fingerprinting and tests rely
// on this being deterministic.
func (d *Decklist) Canonical() string {
	var b strings.Builder
	writeSection := func(header string, names []string) {
		counts := make(map[string]int, len(names))
		order := make([]string, 0, len(names))
		for _, n := range names {
			if counts[n] == 0 {
				order = append(order, n)
			}
			counts[n]++
		}
		sort.Strings(order)
		b.WriteString(header)
		b.WriteByte('\n')
		for _, n := range order {
			fmt.Fprintf(&b, "%d %s\n", counts[n], n)
		}
	}
	writeSection("[main]", d.Main)
	if len(d.Sideboard) > 0 {
		writeSection("[sideboard]", d.Sideboard)
	}
	return b.String()
}

// DeckFile is the YAML deck file structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is a single named deck within a deck file.
type DeckEntry struct {
	Name      string      `yaml:"name"`
	Cards     []CardEntry `yaml:"cards"`
	Sideboard []CardEntry `yaml:"sideboard,omitempty"`
}

// CardEntry is a card name with its count.
type CardEntry struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// LoadDecklist reads a deck from disk. ".yaml"/".yml" files use the deck
// file format (first deck wins unless deckName selects one); anything
// else is parsed as a text list of "4 Card Name" lines with an optional
// "Sideboard" section.
func LoadDecklist(path, deckName string) (*Decklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLDecklist(data, deckName)
	default:
		return parseTextDecklist(data, deckName)
	}
}

func parseYAMLDecklist(data []byte, deckName string) (*Decklist, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	if len(df.Decks) == 0 {
		return nil, fmt.Errorf("deck file contains no decks")
	}

	entry := df.Decks[0]
	if deckName != "" {
		found := false
		for _, d := range df.Decks {
			if strings.EqualFold(d.Name, deckName) {
				entry, found = d, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("deck %q not found in file", deckName)
		}
	}

	deck := &Decklist{Name: entry.Name}
	for _, c := range entry.Cards {
		deck.Main = append(deck.Main, expand(c)...)
	}
	for _, c := range entry.Sideboard {
		deck.Sideboard = append(deck.Sideboard, expand(c)...)
	}
	if len(deck.Main) == 0 {
		return nil, fmt.Errorf("deck %q has no main-deck cards", entry.Name)
	}
	return deck, nil
}

func expand(entry CardEntry) []string {
	count := entry.Count
	if count <= 0 {
		count = 1
	}
	names := make([]string, count)
	for i := range names {
		names[i] = entry.Name
	}
	return names
}

func parseTextDecklist(data []byte, name string) (*Decklist, error) {
	deck := &Decklist{Name: name}
	section := &deck.Main

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.EqualFold(line, "sideboard") || strings.EqualFold(line, "sideboard:") {
			section = &deck.Sideboard
			continue
		}

		count, cardName, err := parseCountedLine(line)
		if err != nil {
			return nil, fmt.Errorf("decklist line %d: %w", lineNo, err)
		}
		for i := 0; i < count; i++ {
			*section = append(*section, cardName)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read decklist: %w", err)
	}
	if len(deck.Main) == 0 {
		return nil, fmt.Errorf("decklist has no main-deck cards")
	}
	return deck, nil
}

// parseCountedLine accepts "4 Thoughtseize", "4x Thoughtseize", and a
// bare "Thoughtseize" (count 1).
func parseCountedLine(line string) (int, string, error) {
	fields := strings.SplitN(line, " ", 2)
	countField := strings.TrimSuffix(strings.ToLower(fields[0]), "x")
	if count, err := strconv.Atoi(countField); err == nil {
		if count <= 0 {
			return 0, "", fmt.Errorf("invalid card count %q", fields[0])
		}
		if len(fields) < 2 || strings.TrimSpace(fields[1]) == "" {
			return 0, "", fmt.Errorf("count without a card name")
		}
		return count, strings.TrimSpace(fields[1]), nil
	}
	return 1, line, nil
}
