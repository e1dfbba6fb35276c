// Package game generates target sequences and scores attempts.
package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/easenetics/easenetics/internal/model"
)

// timeBonusMax is the extra score available for answering faster than the
// flash window.
const timeBonusMax = 20.0

// Generator produces randomized target sequences.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Generator backed by the given source. Used by
// tests that need reproducible sequences.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate samples the level's shape set without replacement, producing
// SequenceLength distinct tokens in uniformly random order. A sequence
// length larger than the shape set is a catalog-authoring bug and fails
// with a ConfigError.
func (g *Generator) Generate(level model.Level) ([]string, error) {
	if level.SequenceLength > len(level.ShapeSet) {
		return nil, &model.ConfigError{Level: level.Number, Reason: "sequence length exceeds shape set size"}
	}
	tokens := append([]string(nil), level.ShapeSet...)
	g.rnd.Shuffle(len(tokens), func(i, j int) {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	})
	return tokens[:level.SequenceLength], nil
}

// MatchCount counts position-exact matches between target and input.
func MatchCount(target, input []string) int {
	n := len(target)
	if len(input) < n {
		n = len(input)
	}
	matched := 0
	for i := 0; i < n; i++ {
		if target[i] == input[i] {
			matched++
		}
	}
	return matched
}

// Score combines position-exact accuracy with a time bonus into a score in
// [0, 100]. A length mismatch scores 0; the session only scores complete
// attempts, so that branch is a precondition guard, not a reachable path.
func Score(target, input []string, elapsedMs int64, level model.Level) int {
	if len(target) == 0 || len(target) != len(input) {
		return 0
	}
	accuracy := float64(MatchCount(target, input)) / float64(len(target)) * 100
	bonus := 0.0
	if level.FlashDurationMs > 0 {
		flash := float64(level.FlashDurationMs)
		bonus = (flash - float64(elapsedMs)) / flash * timeBonusMax
		if bonus < 0 {
			bonus = 0
		}
	}
	score := int(math.Floor(accuracy + bonus))
	if score > 100 {
		score = 100
	}
	return score
}

// ShouldUnlockNext reports whether a score clears a level's threshold.
func ShouldUnlockNext(score, requiredScorePercent int) bool {
	return score >= requiredScorePercent
}
