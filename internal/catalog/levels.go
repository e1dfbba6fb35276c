package catalog

import "github.com/easenetics/easenetics/internal/model"

// builtinLevels is the shipped curriculum for the sequence-recall game.
// Thresholds rise with the levels; flash windows shrink as sequences grow.
var builtinLevels = []model.Level{
	{
		Number:               1,
		Title:                "First Steps",
		Description:          "Watch three shapes and repeat them in order.",
		FlashDurationMs:      3000,
		SequenceLength:       3,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣"},
		RequiredScorePercent: 60,
	},
	{
		Number:               2,
		Title:                "Warming Up",
		Description:          "Four shapes, same pace. Take your time.",
		FlashDurationMs:      3500,
		SequenceLength:       4,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣", "🟠"},
		RequiredScorePercent: 65,
	},
	{
		Number:               3,
		Title:                "Finding Rhythm",
		Description:          "Five shapes with a shorter look.",
		FlashDurationMs:      3500,
		SequenceLength:       5,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣", "🟠", "⬛"},
		RequiredScorePercent: 70,
	},
	{
		Number:               4,
		Title:                "Sharp Eyes",
		Description:          "Six shapes. The window is getting tight.",
		FlashDurationMs:      4000,
		SequenceLength:       6,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣", "🟠", "⬛", "⬜"},
		RequiredScorePercent: 75,
	},
	{
		Number:               5,
		Title:                "Memory Master",
		Description:          "Seven shapes from the full set.",
		FlashDurationMs:      4000,
		SequenceLength:       7,
		ShapeSet:             []string{"🔺", "🔷", "🔴", "🟢", "⭐", "🟡", "🟣", "🟠", "⬛", "⬜", "🔶", "💠"},
		RequiredScorePercent: 80,
	},
}

// BuiltinLevels returns a copy of the shipped level definitions.
func BuiltinLevels() []model.Level {
	out := make([]model.Level, len(builtinLevels))
	for i, lvl := range builtinLevels {
		lvl.ShapeSet = append([]string(nil), lvl.ShapeSet...)
		out[i] = lvl
	}
	return out
}

// ScaleFlash multiplies every level's flash duration by factor. Scaling
// happens before catalog construction so display timing and the score's
// time-bonus denominator stay consistent.
func ScaleFlash(levels []model.Level, factor float64) []model.Level {
	if factor <= 0 || factor == 1 {
		return levels
	}
	out := make([]model.Level, len(levels))
	for i, lvl := range levels {
		lvl.FlashDurationMs = int(float64(lvl.FlashDurationMs) * factor)
		out[i] = lvl
	}
	return out
}
