package catalog

import (
	"errors"
	"testing"

	"github.com/easenetics/easenetics/internal/model"
)

func testLevels() []model.Level {
	return []model.Level{
		{Number: 1, Title: "One", FlashDurationMs: 3000, SequenceLength: 3, ShapeSet: []string{"a", "b", "c", "d"}, RequiredScorePercent: 60},
		{Number: 2, Title: "Two", FlashDurationMs: 3000, SequenceLength: 4, ShapeSet: []string{"a", "b", "c", "d", "e"}, RequiredScorePercent: 70},
		{Number: 3, Title: "Three", FlashDurationMs: 3000, SequenceLength: 5, ShapeSet: []string{"a", "b", "c", "d", "e"}, RequiredScorePercent: 80},
	}
}

func TestNewLockContract(t *testing.T) {
	cat, err := New(testLevels())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	levels := cat.Levels()
	if levels[0].Locked {
		t.Fatalf("level 1 must start unlocked")
	}
	for _, lvl := range levels[1:] {
		if !lvl.Locked {
			t.Fatalf("level %d must start locked", lvl.Number)
		}
	}
}

func TestNewRejectsBadDefinitions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func([]model.Level) []model.Level
	}{
		{"empty", func([]model.Level) []model.Level { return nil }},
		{"sequence exceeds shapes", func(ls []model.Level) []model.Level {
			ls[1].SequenceLength = len(ls[1].ShapeSet) + 1
			return ls
		}},
		{"empty shape set", func(ls []model.Level) []model.Level {
			ls[0].ShapeSet = nil
			return ls
		}},
		{"zero flash", func(ls []model.Level) []model.Level {
			ls[2].FlashDurationMs = 0
			return ls
		}},
		{"zero length", func(ls []model.Level) []model.Level {
			ls[0].SequenceLength = 0
			return ls
		}},
		{"gap in numbers", func(ls []model.Level) []model.Level {
			ls[2].Number = 5
			return ls
		}},
		{"threshold over 100", func(ls []model.Level) []model.Level {
			ls[2].RequiredScorePercent = 101
			return ls
		}},
		{"decreasing threshold", func(ls []model.Level) []model.Level {
			ls[2].RequiredScorePercent = ls[1].RequiredScorePercent - 10
			return ls
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.mutate(testLevels()))
			if err == nil {
				t.Fatalf("expected construction to fail")
			}
			var cfgErr *model.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestUnlockIdempotent(t *testing.T) {
	cat, err := New(testLevels())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	if !cat.Unlock(2) {
		t.Fatalf("first unlock should flip the level")
	}
	if cat.Unlock(2) {
		t.Fatalf("second unlock must be a no-op")
	}
	lvl, ok := cat.Level(2)
	if !ok || lvl.Locked {
		t.Fatalf("level 2 should be unlocked")
	}
	if cat.Unlock(99) {
		t.Fatalf("unknown level must be a no-op")
	}
}

func TestApplyProgress(t *testing.T) {
	cat, err := New(testLevels())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	cat.ApplyProgress(model.ProgressRecord{
		CompletedLevels: map[int]struct{}{1: {}},
	})
	if lvl, _ := cat.Level(2); lvl.Locked {
		t.Fatalf("completing level 1 should unlock level 2")
	}
	if lvl, _ := cat.Level(3); !lvl.Locked {
		t.Fatalf("level 3 should remain locked")
	}
}

func TestLevelsReturnsCopy(t *testing.T) {
	cat, err := New(testLevels())
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	levels := cat.Levels()
	levels[1].Locked = false
	if lvl, _ := cat.Level(2); !lvl.Locked {
		t.Fatalf("mutating the returned slice must not touch catalog state")
	}
}

func TestBuiltinLevelsValid(t *testing.T) {
	if _, err := New(BuiltinLevels()); err != nil {
		t.Fatalf("builtin levels must pass validation: %v", err)
	}
}

func TestScaleFlash(t *testing.T) {
	levels := ScaleFlash(testLevels(), 1.5)
	if levels[0].FlashDurationMs != 4500 {
		t.Fatalf("expected 4500ms, got %d", levels[0].FlashDurationMs)
	}
	same := ScaleFlash(testLevels(), 1)
	if same[0].FlashDurationMs != 3000 {
		t.Fatalf("factor 1 must not change durations")
	}
}
