// Package tournament runs round-robin leagues: every seat plays a
// best-of-three match against every other seat, and standings rank by
// match points. It sits on top of the match runner; each pairing is an
// ordinary match with its own result stream.
package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spellstack/gauntlet/internal/match"
)

// LeagueState represents the state of a league
type LeagueState int

const (
	LeagueStateWaiting LeagueState = iota
	LeagueStateInProgress
	LeagueStateFinished
)

func (s LeagueState) String() string {
	switch s {
	case LeagueStateWaiting:
		return "WAITING"
	case LeagueStateInProgress:
		return "IN_PROGRESS"
	case LeagueStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Match points: 3 for a win, 1 for a draw. A bye counts as a win.
const (
	pointsWin  = 3
	pointsDraw = 1
)

// Standing is one seat's running record.
type Standing struct {
	SeatID     string
	Name       string
	Points     int
	Wins       int
	Losses     int
	Draws      int
	GameWins   int
	GameLosses int
}

// Pairing is one match of a round. An empty SeatB marks a bye.
type Pairing struct {
	SeatA   string
	SeatB   string
	MatchID string
	Winner  string
	GamesA  int
	GamesB  int
}

// Round groups the pairings played together.
type Round struct {
	Number   int
	Pairings []*Pairing
	Finished bool
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Finished bool
	Pairings []Pairing
}

// LeagueSnapshot captures a consistent view of a league.
type LeagueSnapshot struct {
	ID        string
	Name      string
	State     LeagueState
	Standings []Standing
	Rounds    []RoundSnapshot
	Created   time.Time
	Started   *time.Time
	Ended     *time.Time
}

// League plays a fixed round-robin schedule over its seats. Seats are
// immutable after construction; standings and pairings mutate under
// the lock as matches finish.
type League struct {
	ID   string
	Name string

	runner *match.Runner
	logger *zap.Logger
	seats  map[string]match.Seat

	mu        sync.RWMutex
	state     LeagueState
	seatOrder []string
	standings map[string]*Standing
	rounds    []*Round
	created   time.Time
	started   *time.Time
	ended     *time.Time
}

// NewLeague creates a league over the given seats. Seat ids must be
// unique; at least two seats are required.
func NewLeague(name string, seats []match.Seat, runner *match.Runner, logger *zap.Logger) (*League, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("league needs at least two seats, got %d", len(seats))
	}
	l := &League{
		ID:        uuid.NewString(),
		Name:      name,
		runner:    runner,
		logger:    logger,
		seats:     make(map[string]match.Seat, len(seats)),
		state:     LeagueStateWaiting,
		standings: make(map[string]*Standing, len(seats)),
		created:   time.Now(),
	}
	for _, s := range seats {
		if s.ID == "" {
			return nil, fmt.Errorf("seat without an id")
		}
		if _, dup := l.seats[s.ID]; dup {
			return nil, fmt.Errorf("duplicate seat id %q", s.ID)
		}
		l.seats[s.ID] = s
		l.seatOrder = append(l.seatOrder, s.ID)
		l.standings[s.ID] = &Standing{SeatID: s.ID, Name: s.Name}
	}
	return l, nil
}

// Start fixes the schedule and opens the league. Every seat meets
// every other seat exactly once; an odd seat count gives one seat per
// round a bye.
func (l *League) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != LeagueStateWaiting {
		return fmt.Errorf("league already started")
	}
	l.rounds = l.schedule()
	l.state = LeagueStateInProgress
	now := time.Now()
	l.started = &now
	return nil
}

// schedule builds the rounds with the circle method: the first seat
// stays put, the rest rotate one position per round. Caller holds the
// lock.
func (l *League) schedule() []*Round {
	ids := append([]string(nil), l.seatOrder...)
	if len(ids)%2 == 1 {
		ids = append(ids, "") // bye slot
	}
	n := len(ids)

	rounds := make([]*Round, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := &Round{Number: r + 1}
		for i := 0; i < n/2; i++ {
			a, b := ids[i], ids[n-1-i]
			if a == "" {
				a, b = b, a
			}
			round.Pairings = append(round.Pairings, &Pairing{SeatA: a, SeatB: b})
		}
		rounds = append(rounds, round)

		rest := ids[1:]
		last := rest[len(rest)-1]
		copy(rest[1:], rest[:len(rest)-1])
		rest[0] = last
	}
	return rounds
}

// Run plays the whole schedule in order. The context is checked before
// every match; cancellation aborts the league mid-round.
func (l *League) Run(ctx context.Context) error {
	l.mu.RLock()
	state := l.state
	l.mu.RUnlock()
	switch state {
	case LeagueStateWaiting:
		if err := l.Start(); err != nil {
			return err
		}
	case LeagueStateFinished:
		return fmt.Errorf("league already finished")
	}

	for _, round := range l.rounds {
		l.logger.Info("league round starting",
			zap.String("league", l.Name),
			zap.Int("round", round.Number),
			zap.Int("pairings", len(round.Pairings)),
		)
		for _, p := range round.Pairings {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("league %s aborted: %w", l.Name, err)
			}
			if p.SeatB == "" {
				l.recordBye(round.Number, p)
				continue
			}
			matchID := fmt.Sprintf("%s-r%d-%s-vs-%s", l.Name, round.Number, p.SeatA, p.SeatB)
			res, err := l.runner.Play(ctx, matchID, l.seats[p.SeatA], l.seats[p.SeatB])
			if err != nil {
				return fmt.Errorf("round %d, %s vs %s: %w", round.Number, p.SeatA, p.SeatB, err)
			}
			l.recordResult(p, matchID, res)
		}
		l.mu.Lock()
		round.Finished = true
		l.mu.Unlock()
	}

	l.mu.Lock()
	l.state = LeagueStateFinished
	now := time.Now()
	l.ended = &now
	l.mu.Unlock()
	return nil
}

// recordResult folds one match outcome into the pairing and both
// standings.
func (l *League) recordResult(p *Pairing, matchID string, res *match.MatchResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p.MatchID = matchID
	p.Winner = res.Winner
	for _, gr := range res.GameResults {
		switch gr.Winner {
		case p.SeatA:
			p.GamesA++
		case p.SeatB:
			p.GamesB++
		}
	}

	a := l.standings[p.SeatA]
	b := l.standings[p.SeatB]
	a.GameWins += p.GamesA
	a.GameLosses += p.GamesB
	b.GameWins += p.GamesB
	b.GameLosses += p.GamesA

	switch res.Winner {
	case p.SeatA:
		a.Wins++
		a.Points += pointsWin
		b.Losses++
	case p.SeatB:
		b.Wins++
		b.Points += pointsWin
		a.Losses++
	default:
		a.Draws++
		a.Points += pointsDraw
		b.Draws++
		b.Points += pointsDraw
	}

	l.logger.Info("league match recorded",
		zap.String("match_id", matchID),
		zap.String("winner", res.Winner),
		zap.Int("games_a", p.GamesA),
		zap.Int("games_b", p.GamesB),
	)
}

// recordBye awards the odd seat out its free match win.
func (l *League) recordBye(roundNum int, p *Pairing) {
	l.mu.Lock()
	defer l.mu.Unlock()

	p.Winner = p.SeatA
	s := l.standings[p.SeatA]
	s.Wins++
	s.Points += pointsWin

	l.logger.Info("league bye",
		zap.String("league", l.Name),
		zap.Int("round", roundNum),
		zap.String("seat", p.SeatA),
	)
}

// State returns the current league state.
func (l *League) State() LeagueState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Standings returns the table sorted by points, then game wins, with
// seat order breaking remaining ties.
func (l *League) Standings() []Standing {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Standing, 0, len(l.seatOrder))
	for _, id := range l.seatOrder {
		out = append(out, *l.standings[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].GameWins > out[j].GameWins
	})
	return out
}

// Snapshot returns a consistent copy of the league state.
func (l *League) Snapshot() LeagueSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	standings := make([]Standing, 0, len(l.seatOrder))
	for _, id := range l.seatOrder {
		standings = append(standings, *l.standings[id])
	}

	rounds := make([]RoundSnapshot, 0, len(l.rounds))
	for _, r := range l.rounds {
		pairings := make([]Pairing, 0, len(r.Pairings))
		for _, p := range r.Pairings {
			pairings = append(pairings, *p)
		}
		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Finished: r.Finished,
			Pairings: pairings,
		})
	}

	return LeagueSnapshot{
		ID:        l.ID,
		Name:      l.Name,
		State:     l.state,
		Standings: standings,
		Rounds:    rounds,
		Created:   l.created,
		Started:   cloneTime(l.started),
		Ended:     cloneTime(l.ended),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
