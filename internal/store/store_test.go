package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/easenetics/easenetics/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "easenetics.db")
	st, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestLoadProgressAbsent(t *testing.T) {
	st := openTestStore(t)
	_, found, err := st.LoadProgress(context.Background(), model.DefaultGameID)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if found {
		t.Fatalf("expected no progress in a fresh store")
	}
}

func TestSaveCompletedLevelMonotonicBest(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if err := st.SaveCompletedLevel(ctx, model.DefaultGameID, 1, 80); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.SaveCompletedLevel(ctx, model.DefaultGameID, 1, 60); err != nil {
		t.Fatalf("save lower score: %v", err)
	}
	rec, found, err := st.LoadProgress(ctx, model.DefaultGameID)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if !found {
		t.Fatalf("expected progress")
	}
	if rec.BestScorePerLevel[1] != 80 {
		t.Fatalf("best score must not decrease, got %d", rec.BestScorePerLevel[1])
	}

	if err := st.SaveCompletedLevel(ctx, model.DefaultGameID, 1, 95); err != nil {
		t.Fatalf("save higher score: %v", err)
	}
	rec, _, err = st.LoadProgress(ctx, model.DefaultGameID)
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if rec.BestScorePerLevel[1] != 95 {
		t.Fatalf("best score should rise to 95, got %d", rec.BestScorePerLevel[1])
	}
	if _, ok := rec.CompletedLevels[1]; !ok {
		t.Fatalf("level 1 should be recorded as completed")
	}
}

func TestRoundsHistoryAndFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rounds := []model.RoundStats{
		{GameID: model.DefaultGameID, LevelNumber: 1, PlayedAt: base, Score: 50, AccuracyPercent: 33, ElapsedMs: 2500, Passed: false},
		{GameID: model.DefaultGameID, LevelNumber: 1, PlayedAt: base.Add(time.Minute), Score: 80, AccuracyPercent: 66, ElapsedMs: 2000, Passed: true},
		{GameID: model.DefaultGameID, LevelNumber: 2, PlayedAt: base.Add(2 * time.Minute), Score: 90, AccuracyPercent: 100, ElapsedMs: 1800, Passed: true},
		{GameID: "other_game", LevelNumber: 1, PlayedAt: base.Add(3 * time.Minute), Score: 10, AccuracyPercent: 0, ElapsedMs: 100, Passed: false},
	}
	for _, round := range rounds {
		if err := st.InsertRound(ctx, round); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}

	got, err := st.ListRounds(ctx, model.StatsConfig{GameID: model.DefaultGameID})
	if err != nil {
		t.Fatalf("list rounds: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rounds for the game, got %d", len(got))
	}
	if !got[0].PlayedAt.Before(got[1].PlayedAt) || !got[1].PlayedAt.Before(got[2].PlayedAt) {
		t.Fatalf("rounds must be ordered oldest first")
	}
	if got[1].Score != 80 || !got[1].Passed {
		t.Fatalf("unexpected round: %+v", got[1])
	}

	byLevel, err := st.ListRounds(ctx, model.StatsConfig{GameID: model.DefaultGameID, Level: 2})
	if err != nil {
		t.Fatalf("list rounds by level: %v", err)
	}
	if len(byLevel) != 1 || byLevel[0].LevelNumber != 2 {
		t.Fatalf("unexpected level filter result: %+v", byLevel)
	}

	since := base.Add(90 * time.Second)
	bySince, err := st.ListRounds(ctx, model.StatsConfig{GameID: model.DefaultGameID, Since: &since})
	if err != nil {
		t.Fatalf("list rounds since: %v", err)
	}
	if len(bySince) != 1 || bySince[0].Score != 90 {
		t.Fatalf("unexpected since filter result: %+v", bySince)
	}
}

func TestListLevelAggregates(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	scores := []struct {
		level  int
		score  int
		passed bool
	}{
		{1, 40, false},
		{1, 60, true},
		{1, 80, true},
		{2, 90, true},
	}
	for i, s := range scores {
		round := model.RoundStats{
			GameID:      model.DefaultGameID,
			LevelNumber: s.level,
			PlayedAt:    base.Add(time.Duration(i) * time.Minute),
			Score:       s.score,
			Passed:      s.passed,
		}
		if err := st.InsertRound(ctx, round); err != nil {
			t.Fatalf("insert round: %v", err)
		}
	}

	aggs, err := st.ListLevelAggregates(ctx, model.DefaultGameID)
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 level aggregates, got %d", len(aggs))
	}
	first := aggs[0]
	if first.LevelNumber != 1 || first.Rounds != 3 || first.Passes != 2 || first.BestScore != 80 {
		t.Fatalf("unexpected aggregate: %+v", first)
	}
	if first.AvgScore < 59.9 || first.AvgScore > 60.1 {
		t.Fatalf("expected avg near 60, got %f", first.AvgScore)
	}
}
