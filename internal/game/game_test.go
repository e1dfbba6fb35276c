package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/easenetics/easenetics/internal/model"
)

func testLevel() model.Level {
	return model.Level{
		Number:               1,
		FlashDurationMs:      3000,
		SequenceLength:       3,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣"},
		RequiredScorePercent: 70,
	}
}

func TestGenerateLengthMembershipUniqueness(t *testing.T) {
	gen := NewWithSource(rand.NewSource(42))
	level := testLevel()
	allowed := map[string]struct{}{}
	for _, token := range level.ShapeSet {
		allowed[token] = struct{}{}
	}
	for trial := 0; trial < 200; trial++ {
		seq, err := gen.Generate(level)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(seq) != level.SequenceLength {
			t.Fatalf("expected length %d, got %d", level.SequenceLength, len(seq))
		}
		seen := map[string]struct{}{}
		for _, token := range seq {
			if _, ok := allowed[token]; !ok {
				t.Fatalf("token %q not in shape set", token)
			}
			if _, dup := seen[token]; dup {
				t.Fatalf("duplicate token %q in sequence %v", token, seq)
			}
			seen[token] = struct{}{}
		}
	}
}

func TestGenerateVariesOrderings(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))
	level := testLevel()
	firsts := map[string]struct{}{}
	for trial := 0; trial < 100; trial++ {
		seq, err := gen.Generate(level)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		firsts[seq[0]] = struct{}{}
	}
	if len(firsts) < 2 {
		t.Fatalf("expected varying orderings, always got the same first token")
	}
}

func TestGenerateRejectsOversizedSequence(t *testing.T) {
	gen := New()
	level := testLevel()
	level.SequenceLength = len(level.ShapeSet) + 1
	_, err := gen.Generate(level)
	if err == nil {
		t.Fatalf("expected error for oversized sequence length")
	}
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T: %v", err, err)
	}
}

func TestScorePerfectInstant(t *testing.T) {
	level := testLevel()
	target := []string{"🔺", "🔷", "🔴"}
	if got := Score(target, target, 0, level); got != 100 {
		t.Fatalf("perfect instant attempt should score 100, got %d", got)
	}
	if got := Score(target, target, -50, level); got != 100 {
		t.Fatalf("negative elapsed must still clamp to 100, got %d", got)
	}
}

func TestScoreTotalMiss(t *testing.T) {
	level := testLevel()
	target := []string{"🔺", "🔷", "🔴"}
	input := []string{"🔷", "🔴", "🔺"}
	if got := Score(target, input, int64(level.FlashDurationMs), level); got != 0 {
		t.Fatalf("no matches at full duration should score 0, got %d", got)
	}
}

func TestScoreMonotonicInElapsed(t *testing.T) {
	level := testLevel()
	target := []string{"🔺", "🔷", "🔴"}
	input := []string{"🔺", "🔷", "🟢"}
	prev := 101
	for elapsed := int64(0); elapsed <= int64(level.FlashDurationMs)+1000; elapsed += 250 {
		got := Score(target, input, elapsed, level)
		if got > prev {
			t.Fatalf("score increased from %d to %d at elapsed=%d", prev, got, elapsed)
		}
		prev = got
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	level := testLevel()
	target := []string{"🔺", "🔷", "🔴"}
	if got := Score(target, []string{"🔺"}, 0, level); got != 0 {
		t.Fatalf("length mismatch must score 0, got %d", got)
	}
	if got := Score(nil, nil, 0, level); got != 0 {
		t.Fatalf("empty target must score 0, got %d", got)
	}
}

func TestScorePartialWithBonus(t *testing.T) {
	level := testLevel()
	target := []string{"🔺", "🔷", "🔴"}
	input := []string{"🔺", "🔴", "🔷"}
	// One match of three is 33.33 accuracy; instant answer adds the full
	// 20-point bonus: floor(33.33 + 20) = 53.
	if got := Score(target, input, 0, level); got != 53 {
		t.Fatalf("expected 53, got %d", got)
	}
	// At half the flash window the bonus halves: floor(33.33 + 10) = 43.
	if got := Score(target, input, int64(level.FlashDurationMs)/2, level); got != 43 {
		t.Fatalf("expected 43, got %d", got)
	}
}

func TestMatchCount(t *testing.T) {
	target := []string{"a", "b", "c"}
	if got := MatchCount(target, []string{"a", "c", "b"}); got != 1 {
		t.Fatalf("expected 1 match, got %d", got)
	}
	if got := MatchCount(target, []string{"a", "b"}); got != 2 {
		t.Fatalf("expected 2 matches on shorter input, got %d", got)
	}
}

func TestShouldUnlockNext(t *testing.T) {
	if !ShouldUnlockNext(70, 70) {
		t.Fatalf("score equal to threshold must unlock")
	}
	if ShouldUnlockNext(69, 70) {
		t.Fatalf("score below threshold must not unlock")
	}
}
