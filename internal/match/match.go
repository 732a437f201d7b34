// Package match plays best-of-three matches between two seats and
// streams results to a JSONL sink. Decklists are fingerprinted so
// sweeps over many runs can group identical 75s.
package match

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/spellstack/gauntlet/internal/adjudicator"
	"github.com/spellstack/gauntlet/internal/card"
	"github.com/spellstack/gauntlet/internal/game"
)

// Seat is one side of a match: identity, deck, the agent that pilots
// it, and the sideboard plan applied after game one.
type Seat struct {
	ID    string
	Name  string
	Deck  *card.Decklist
	Agent game.Agent

	// Sideboard lists the swaps made for games two and three. Swaps
	// that name cards not in the deck or board are skipped.
	Sideboard []Swap
}

// Swap exchanges one main-deck card for one sideboard card.
type Swap struct {
	Out string `json:"out"`
	In  string `json:"in"`
}

// GameResult is one game's outcome within a match.
type GameResult struct {
	Number int    `json:"game"`
	OnPlay string `json:"on_play"`
	game.Result
}

// MatchResult is the outcome of a full match. An empty Winner means
// the match ended without two wins for either side.
type MatchResult struct {
	MatchID          string            `json:"match_id"`
	Winner           string            `json:"winner"`
	GameResults      []GameResult      `json:"game_results"`
	DeckFingerprints map[string]string `json:"deck_fingerprints"`
}

// Runner plays matches. One runner can play any number of matches
// sequentially; each game gets a fresh engine so no state leaks
// between games.
type Runner struct {
	catalog     card.Catalog
	opts        game.Options
	logger      *zap.Logger
	adjudicator adjudicator.Adjudicator
	observers   []game.Observer
	sink        *ResultSink

	// KeepLogs retains each game's full text log in the streamed
	// results. Logs dominate the line size, so sweeps turn this off.
	KeepLogs bool
}

// NewRunner builds a match runner over a catalog. The options seed is
// the base seed; game n of a match plays with seed base+n so games
// differ but a rerun reproduces the whole match.
func NewRunner(catalog card.Catalog, opts game.Options, logger *zap.Logger) *Runner {
	return &Runner{catalog: catalog, opts: opts, logger: logger}
}

// SetAdjudicator installs the tier-3 oracle for all games.
func (r *Runner) SetAdjudicator(a adjudicator.Adjudicator) {
	r.adjudicator = a
}

// AddObserver attaches an observer to every game the runner plays.
func (r *Runner) AddObserver(obs game.Observer) {
	if obs != nil {
		r.observers = append(r.observers, obs)
	}
}

// SetSink streams each game and the final match result as JSON lines.
func (r *Runner) SetSink(s *ResultSink) {
	r.sink = s
}

// Play runs a best-of-three between the two seats. Seat a is on the
// play in game one; afterwards the loser plays first. Both seats swap
// in their sideboard plan before game two and keep it.
func (r *Runner) Play(ctx context.Context, matchID string, a, b Seat) (*MatchResult, error) {
	if err := validateSeat(a); err != nil {
		return nil, fmt.Errorf("seat %s: %w", a.ID, err)
	}
	if err := validateSeat(b); err != nil {
		return nil, fmt.Errorf("seat %s: %w", b.ID, err)
	}

	result := &MatchResult{
		MatchID: matchID,
		DeckFingerprints: map[string]string{
			a.ID: Fingerprint(a.Deck),
			b.ID: Fingerprint(b.Deck),
		},
	}

	decks := map[string]*card.Decklist{a.ID: a.Deck, b.ID: b.Deck}
	wins := map[string]int{}
	onPlay, onDraw := a, b

	for n := 1; n <= 3 && wins[a.ID] < 2 && wins[b.ID] < 2; n++ {
		if n == 2 {
			decks[a.ID] = applySideboard(a.Deck, a.Sideboard, r.logger)
			decks[b.ID] = applySideboard(b.Deck, b.Sideboard, r.logger)
		}

		res, err := r.playGame(ctx, n, seatWithDeck(onPlay, decks), seatWithDeck(onDraw, decks))
		if err != nil {
			return result, fmt.Errorf("game %d: %w", n, err)
		}
		if !r.KeepLogs {
			res.Log = nil
		}

		gr := GameResult{Number: n, OnPlay: onPlay.ID, Result: *res}
		result.GameResults = append(result.GameResults, gr)
		if r.sink != nil {
			if err := r.sink.Write(gr); err != nil {
				r.logger.Warn("result sink write failed", zap.Error(err))
			}
		}

		if res.Winner != "" {
			wins[res.Winner]++
			// Loser of the last game is on the play next game.
			if res.Winner == onPlay.ID {
				onPlay, onDraw = onDraw, onPlay
			}
		}
		r.logger.Info("game finished",
			zap.String("match_id", matchID),
			zap.Int("game", n),
			zap.String("winner", res.Winner),
			zap.Int("turns", res.Turns),
			zap.String("reason", res.Reason),
		)
	}

	switch {
	case wins[a.ID] > wins[b.ID]:
		result.Winner = a.ID
	case wins[b.ID] > wins[a.ID]:
		result.Winner = b.ID
	}
	if r.sink != nil {
		if err := r.sink.Write(result); err != nil {
			r.logger.Warn("result sink write failed", zap.Error(err))
		}
	}
	return result, nil
}

func (r *Runner) playGame(ctx context.Context, number int, onPlay, onDraw game.PlayerSetup) (*game.Result, error) {
	opts := r.opts
	if opts.Seed != 0 {
		opts.Seed += int64(number)
	}
	engine := game.NewEngine(r.catalog, opts, r.logger)
	if r.adjudicator != nil {
		engine.SetAdjudicator(r.adjudicator)
	}
	for _, obs := range r.observers {
		engine.AddObserver(obs)
	}
	return engine.RunGame(ctx, onPlay, onDraw)
}

func validateSeat(s Seat) error {
	if s.ID == "" {
		return fmt.Errorf("missing seat id")
	}
	if s.Deck == nil || s.Deck.Size() == 0 {
		return fmt.Errorf("missing deck")
	}
	if s.Agent == nil {
		return fmt.Errorf("missing agent")
	}
	return nil
}

func seatWithDeck(s Seat, decks map[string]*card.Decklist) game.PlayerSetup {
	return game.PlayerSetup{ID: s.ID, Name: s.Name, Deck: decks[s.ID], Agent: s.Agent}
}

// applySideboard returns a new decklist with each swap applied: the
// named main-deck card goes to the board, the named sideboard card
// comes in. Invalid swaps are logged and skipped.
func applySideboard(deck *card.Decklist, swaps []Swap, logger *zap.Logger) *card.Decklist {
	if len(swaps) == 0 {
		return deck
	}
	out := &card.Decklist{
		Name:      deck.Name,
		Main:      append([]string(nil), deck.Main...),
		Sideboard: append([]string(nil), deck.Sideboard...),
	}
	for _, sw := range swaps {
		mi := indexOf(out.Main, sw.Out)
		si := indexOf(out.Sideboard, sw.In)
		if mi < 0 || si < 0 {
			logger.Warn("sideboard swap skipped",
				zap.String("deck", deck.Name),
				zap.String("out", sw.Out),
				zap.String("in", sw.In),
			)
			continue
		}
		out.Main[mi] = sw.In
		out.Sideboard[si] = sw.Out
	}
	return out
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

// Fingerprint hashes a decklist's canonical form with blake2b-256.
// Identical 75s produce identical fingerprints regardless of list
// order.
func Fingerprint(deck *card.Decklist) string {
	sum := blake2b.Sum256([]byte(deck.Canonical()))
	return hex.EncodeToString(sum[:])
}
