// Package session drives a single play-through of the recall game.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/easenetics/easenetics/internal/catalog"
	"github.com/easenetics/easenetics/internal/game"
	"github.com/easenetics/easenetics/internal/model"
)

// State is the session phase.
type State int

const (
	// StateIdle means no round is active (level select).
	StateIdle State = iota
	// StateShowing means the target sequence is on screen.
	StateShowing
	// StateAwaitingInput means the player is reproducing the sequence.
	StateAwaitingInput
	// StateResult means the round has been scored.
	StateResult
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowing:
		return "showing"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}

// Sequencer produces a target sequence for a level.
type Sequencer interface {
	Generate(level model.Level) ([]string, error)
}

// ProgressStore persists completions and round history. Failures are
// reported to the player but never roll back an in-memory unlock.
type ProgressStore interface {
	SaveCompletedLevel(ctx context.Context, gameID string, levelNumber, scorePercent int) error
	InsertRound(ctx context.Context, round model.RoundStats) error
}

// Result is the outcome of a scored round.
type Result struct {
	Score         int
	Passed        bool
	UnlockedLevel int // 0 when nothing new unlocked
	SaveNotice    string
}

// Session is the game state machine. It is driven from a single event loop
// and is not safe for concurrent use; only the catalog's lock flags are
// shared state, and the catalog guards those itself.
type Session struct {
	catalog *catalog.Catalog
	seq     Sequencer
	store   ProgressStore
	gameID  string

	state   State
	level   model.Level
	attempt model.Attempt

	// serial identifies the current round. The flash timeout carries the
	// serial it was scheduled with; a stale serial is ignored, which is how
	// an abandoned round's timer is disarmed.
	serial int

	inputStartedAt time.Time

	result    Result
	hasResult bool

	now func() time.Time
}

// New builds an idle session for one game.
func New(cat *catalog.Catalog, seq Sequencer, store ProgressStore, gameID string) *Session {
	return &Session{
		catalog: cat,
		seq:     seq,
		store:   store,
		gameID:  gameID,
		state:   StateIdle,
		now:     time.Now,
	}
}

// State returns the current phase.
func (s *Session) State() State { return s.state }

// Level returns the active level. Meaningful outside StateIdle.
func (s *Session) Level() model.Level { return s.level }

// Serial returns the current round serial.
func (s *Session) Serial() int { return s.serial }

// Input returns a copy of the player's selections so far.
func (s *Session) Input() []string {
	return append([]string(nil), s.attempt.Input...)
}

// VisibleTarget returns the target sequence while it is revealed, nil once
// the input phase begins.
func (s *Session) VisibleTarget() []string {
	if !s.attempt.Revealed {
		return nil
	}
	return append([]string(nil), s.attempt.Target...)
}

// LastResult returns the most recent round outcome.
func (s *Session) LastResult() (Result, bool) {
	return s.result, s.hasResult
}

// Marks reports per-position correctness of the last completed attempt.
// Only meaningful in StateResult.
func (s *Session) Marks() []bool {
	if s.state != StateResult {
		return nil
	}
	marks := make([]bool, len(s.attempt.Target))
	for i := range s.attempt.Target {
		marks[i] = i < len(s.attempt.Input) && s.attempt.Input[i] == s.attempt.Target[i]
	}
	return marks
}

// StartRound begins a round for the given level, replacing any round in
// flight: bumping the serial disarms a still-pending flash timeout from
// the previous round. Returns the new serial and the flash duration the
// caller must schedule the timeout with.
func (s *Session) StartRound(level model.Level) (int, time.Duration, error) {
	target, err := s.seq.Generate(level)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to generate sequence: %w", err)
	}
	s.serial++
	s.level = level
	s.attempt = model.Attempt{Target: target, Revealed: true}
	s.inputStartedAt = time.Time{}
	s.state = StateShowing
	return s.serial, time.Duration(level.FlashDurationMs) * time.Millisecond, nil
}

// FlashDone moves the round into the input phase. The serial must match
// the current round; a stale timeout is a no-op. Returns whether the
// transition happened.
func (s *Session) FlashDone(serial int) bool {
	if serial != s.serial || s.state != StateShowing {
		return false
	}
	s.attempt.Revealed = false
	s.inputStartedAt = s.now()
	s.state = StateAwaitingInput
	return true
}

// Select appends a token to the attempt. Ignored outside the input phase,
// so a stale tap after an auto-transition cannot corrupt the round. The
// input-completing selection scores the round immediately.
func (s *Session) Select(token string) {
	if s.state != StateAwaitingInput {
		return
	}
	if len(s.attempt.Input) >= len(s.attempt.Target) {
		return
	}
	s.attempt.Input = append(s.attempt.Input, token)
	if len(s.attempt.Input) == len(s.attempt.Target) {
		s.finishRound()
	}
}

// ClearInput resets the attempt's input. Only available during the input
// phase.
func (s *Session) ClearInput() {
	if s.state != StateAwaitingInput {
		return
	}
	s.attempt.Input = nil
}

// Retry restarts the current level from the result screen.
func (s *Session) Retry() (int, time.Duration, error) {
	if s.state != StateResult {
		return 0, 0, fmt.Errorf("retry is only available from the result state")
	}
	return s.StartRound(s.level)
}

// SelectLevel returns to level select, abandoning any round in flight.
func (s *Session) SelectLevel() {
	s.serial++
	s.attempt = model.Attempt{}
	s.state = StateIdle
}

func (s *Session) finishRound() {
	elapsed := s.now().Sub(s.inputStartedAt).Milliseconds()
	target := s.attempt.Target
	input := s.attempt.Input
	score := game.Score(target, input, elapsed, s.level)
	passed := game.ShouldUnlockNext(score, s.level.RequiredScorePercent)
	res := Result{Score: score, Passed: passed}

	ctx := context.Background()
	round := model.RoundStats{
		GameID:          s.gameID,
		LevelNumber:     s.level.Number,
		PlayedAt:        s.now(),
		Score:           score,
		AccuracyPercent: game.MatchCount(target, input) * 100 / len(target),
		ElapsedMs:       elapsed,
		Passed:          passed,
	}
	if err := s.store.InsertRound(ctx, round); err != nil {
		res.SaveNotice = fmt.Sprintf("round history may not have saved: %v", err)
	}

	if passed {
		// Unlock locally first; a failed persistence write must not block
		// the player. Divergence reconciles on the next successful load.
		if s.catalog.Unlock(s.level.Number + 1) {
			res.UnlockedLevel = s.level.Number + 1
		}
		if err := s.store.SaveCompletedLevel(ctx, s.gameID, s.level.Number, score); err != nil {
			res.SaveNotice = fmt.Sprintf("your progress may not have saved: %v", err)
		}
	}

	s.result = res
	s.hasResult = true
	s.state = StateResult
}
