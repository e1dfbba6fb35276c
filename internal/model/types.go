// Package model defines shared data structures.
package model

import "time"

// DefaultGameID identifies the sequence-recall game in the progress store.
const DefaultGameID = "sequence_recall"

// Level defines one difficulty tier of the recall game.
type Level struct {
	Number               int
	Title                string
	Description          string
	FlashDurationMs      int
	SequenceLength       int
	ShapeSet             []string
	RequiredScorePercent int
	Locked               bool
}

// Attempt holds one round's target sequence and the player's reproduction.
// Input never grows beyond Target; Revealed is true only while the target
// is shown to the player.
type Attempt struct {
	Target   []string
	Input    []string
	Revealed bool
}

// ProgressRecord is the persisted per-game progress.
type ProgressRecord struct {
	CompletedLevels   map[int]struct{}
	BestScorePerLevel map[int]int
}

// RoundStats captures a completed round for history and reporting.
type RoundStats struct {
	GameID          string
	LevelNumber     int
	PlayedAt        time.Time
	Score           int
	AccuracyPercent int
	ElapsedMs       int64
	Passed          bool
}

// Config defines play settings.
type Config struct {
	GameID       string
	FlashScale   float64
	LevelsPath   string
	RecentWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	GameID      string
	Level       int
	Since       *time.Time
	Last        int
	CurveWindow int
}

// RoundAggregate summarizes a stored round for reporting.
type RoundAggregate struct {
	RoundID         int64
	LevelNumber     int
	PlayedAt        time.Time
	Score           int
	AccuracyPercent int
	ElapsedMs       int64
	Passed          bool
}

// LevelAggregate aggregates round history per level.
type LevelAggregate struct {
	LevelNumber int
	Rounds      int
	Passes      int
	BestScore   int
	AvgScore    float64
}
