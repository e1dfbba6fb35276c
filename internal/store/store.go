// Package store handles SQLite persistence for progress and round history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/easenetics/easenetics/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game progress.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			game_id TEXT NOT NULL,
			level_number INTEGER NOT NULL,
			best_score INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			PRIMARY KEY (game_id, level_number)
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY,
			game_id TEXT NOT NULL,
			level_number INTEGER NOT NULL,
			played_at TEXT NOT NULL,
			score INTEGER NOT NULL,
			accuracy_percent INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			passed INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_played_at ON rounds(played_at);`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_level ON rounds(game_id, level_number);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadProgress reads the per-level progress for a game. The second return
// value is false when no progress has been recorded yet.
func (s *Store) LoadProgress(ctx context.Context, gameID string) (model.ProgressRecord, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_number, best_score FROM progress WHERE game_id = ?`, gameID)
	if err != nil {
		return model.ProgressRecord{}, false, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	rec := model.ProgressRecord{
		CompletedLevels:   map[int]struct{}{},
		BestScorePerLevel: map[int]int{},
	}
	found := false
	for rows.Next() {
		var level, best int
		if err := rows.Scan(&level, &best); err != nil {
			return model.ProgressRecord{}, false, err
		}
		rec.CompletedLevels[level] = struct{}{}
		rec.BestScorePerLevel[level] = best
		found = true
	}
	if err := rows.Err(); err != nil {
		return model.ProgressRecord{}, false, err
	}
	return rec, found, nil
}

// SaveCompletedLevel upserts a completion. The stored best score is
// monotonically non-decreasing per level.
func (s *Store) SaveCompletedLevel(ctx context.Context, gameID string, levelNumber, scorePercent int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO progress (game_id, level_number, best_score, completed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (game_id, level_number) DO UPDATE SET
			best_score = MAX(best_score, excluded.best_score),
			completed_at = excluded.completed_at`,
		gameID, levelNumber, scorePercent, time.Now().Format(time.RFC3339Nano))
	return err
}

// InsertRound stores one completed round for history.
func (s *Store) InsertRound(ctx context.Context, round model.RoundStats) error {
	passed := 0
	if round.Passed {
		passed = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (game_id, level_number, played_at, score, accuracy_percent, elapsed_ms, passed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		round.GameID,
		round.LevelNumber,
		round.PlayedAt.Format(time.RFC3339Nano),
		round.Score,
		round.AccuracyPercent,
		round.ElapsedMs,
		passed)
	return err
}

// ListRounds returns round history filtered by stats config, oldest first.
func (s *Store) ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error) {
	clauses := []string{"game_id = ?"}
	args := []any{cfg.GameID}
	if cfg.Level > 0 {
		clauses = append(clauses, "level_number = ?")
		args = append(args, cfg.Level)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "played_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, level_number, played_at, score, accuracy_percent, elapsed_ms, passed
		FROM rounds
		WHERE %s
		ORDER BY played_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var rounds []model.RoundAggregate
	for rows.Next() {
		var agg model.RoundAggregate
		var playedAt string
		var passed int
		if err := rows.Scan(&agg.RoundID, &agg.LevelNumber, &playedAt, &agg.Score, &agg.AccuracyPercent, &agg.ElapsedMs, &passed); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, err
		}
		agg.PlayedAt = parsed
		agg.Passed = passed != 0
		rounds = append(rounds, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// ListLevelAggregates summarizes round history per level.
func (s *Store) ListLevelAggregates(ctx context.Context, gameID string) ([]model.LevelAggregate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT level_number, COUNT(*), SUM(passed), MAX(score), AVG(score)
		 FROM rounds
		 WHERE game_id = ?
		 GROUP BY level_number
		 ORDER BY level_number ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var aggs []model.LevelAggregate
	for rows.Next() {
		var agg model.LevelAggregate
		if err := rows.Scan(&agg.LevelNumber, &agg.Rounds, &agg.Passes, &agg.BestScore, &agg.AvgScore); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}
