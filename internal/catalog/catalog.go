// Package catalog owns the ordered level definitions and their lock state.
package catalog

import (
	"sync"

	"github.com/easenetics/easenetics/internal/model"
)

// Catalog holds the fixed level list. The lock flags are the only mutable
// state shared across rounds, so all access goes through the mutex.
type Catalog struct {
	mu     sync.Mutex
	levels []model.Level
}

// New validates the level definitions and builds a catalog. Level 1 starts
// unlocked, every later level starts locked, regardless of the input flags.
func New(levels []model.Level) (*Catalog, error) {
	if err := validate(levels); err != nil {
		return nil, err
	}
	owned := make([]model.Level, len(levels))
	for i, lvl := range levels {
		lvl.ShapeSet = append([]string(nil), lvl.ShapeSet...)
		lvl.Locked = i != 0
		owned[i] = lvl
	}
	return &Catalog{levels: owned}, nil
}

func validate(levels []model.Level) error {
	if len(levels) == 0 {
		return &model.ConfigError{Reason: "no levels defined"}
	}
	prevThreshold := 0
	for i, lvl := range levels {
		if lvl.Number != i+1 {
			return &model.ConfigError{Level: lvl.Number, Reason: "level numbers must be contiguous starting at 1"}
		}
		if len(lvl.ShapeSet) == 0 {
			return &model.ConfigError{Level: lvl.Number, Reason: "shape set is empty"}
		}
		if lvl.SequenceLength <= 0 {
			return &model.ConfigError{Level: lvl.Number, Reason: "sequence length must be positive"}
		}
		if lvl.SequenceLength > len(lvl.ShapeSet) {
			return &model.ConfigError{Level: lvl.Number, Reason: "sequence length exceeds shape set size"}
		}
		if lvl.FlashDurationMs <= 0 {
			return &model.ConfigError{Level: lvl.Number, Reason: "flash duration must be positive"}
		}
		if lvl.RequiredScorePercent < 0 || lvl.RequiredScorePercent > 100 {
			return &model.ConfigError{Level: lvl.Number, Reason: "required score must be between 0 and 100"}
		}
		if lvl.RequiredScorePercent < prevThreshold {
			return &model.ConfigError{Level: lvl.Number, Reason: "required score must not decrease across levels"}
		}
		prevThreshold = lvl.RequiredScorePercent
	}
	return nil
}

// Levels returns all levels in ascending number order.
func (c *Catalog) Levels() []model.Level {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Level, len(c.levels))
	copy(out, c.levels)
	return out
}

// Level returns the level with the given number.
func (c *Catalog) Level(number int) (model.Level, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if number < 1 || number > len(c.levels) {
		return model.Level{}, false
	}
	return c.levels[number-1], true
}

// Unlock flips the level's locked flag. It is idempotent: unlocking an
// already-unlocked or unknown level is a no-op. Returns true only when a
// level actually changed state.
func (c *Catalog) Unlock(number int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if number < 1 || number > len(c.levels) {
		return false
	}
	if !c.levels[number-1].Locked {
		return false
	}
	c.levels[number-1].Locked = false
	return true
}

// ApplyProgress unlocks levels from a persisted progress record: a
// completed level unlocks itself and its successor.
func (c *Catalog) ApplyProgress(rec model.ProgressRecord) {
	for number := range rec.CompletedLevels {
		c.Unlock(number)
		c.Unlock(number + 1)
	}
}
