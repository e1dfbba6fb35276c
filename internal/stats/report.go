package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/easenetics/easenetics/internal/model"
	"github.com/easenetics/easenetics/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds []model.RoundAggregate
	Levels []model.LevelAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	rounds, err := st.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}
	levels, err := st.ListLevelAggregates(ctx, cfg.GameID)
	if err != nil {
		return Report{}, err
	}
	return Report{Rounds: rounds, Levels: levels}, nil
}

// LevelScores groups round scores per level, oldest first.
func (r Report) LevelScores() map[int][]int {
	out := map[int][]int{}
	for _, round := range r.Rounds {
		out[round.LevelNumber] = append(out[round.LevelNumber], round.Score)
	}
	return out
}

// RenderSummary prints overall totals for the report.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Rounds) == 0 {
		_, err := fmt.Fprintln(w, "No rounds played yet.")
		return err
	}
	totalScore := 0
	passes := 0
	best := 0
	for _, round := range report.Rounds {
		totalScore += round.Score
		if round.Passed {
			passes++
		}
		if round.Score > best {
			best = round.Score
		}
	}
	count := len(report.Rounds)
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds: %d\n", count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Passed: %d (%.0f%%)\n", passes, PassRate(passes, count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best score: %d\n", best); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg score: %.1f\n", float64(totalScore)/float64(count)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLevelTable prints per-level aggregates.
func RenderLevelTable(w io.Writer, report Report) error {
	if len(report.Levels) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Level"); err != nil {
		return err
	}
	headers := []string{"Level", "Rounds", "Passes", "Best", "Avg"}
	rows := make([][]string, 0, len(report.Levels))
	for _, agg := range report.Levels {
		rows = append(rows, []string{
			fmt.Sprintf("%d", agg.LevelNumber),
			fmt.Sprintf("%d", agg.Rounds),
			fmt.Sprintf("%d", agg.Passes),
			fmt.Sprintf("%d", agg.BestScore),
			fmt.Sprintf("%.1f", agg.AvgScore),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints a smoothed score curve per level, sized to width.
func RenderCurves(w io.Writer, report Report, window, width int) error {
	scores := report.LevelScores()
	if len(scores) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Score Curves"); err != nil {
		return err
	}
	for _, agg := range report.Levels {
		series, ok := scores[agg.LevelNumber]
		if !ok || len(series) == 0 {
			continue
		}
		curve := MovingAverage(ScoreCurve(series), window)
		if width > 0 && len(curve) > width {
			curve = curve[len(curve)-width:]
		}
		if _, err := fmt.Fprintf(w, "Level %d: %s\n", agg.LevelNumber, Sparkline(curve)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderReport prints the full plain-text report.
func RenderReport(w io.Writer, report Report, window, width int) error {
	if err := RenderSummary(w, report); err != nil {
		return err
	}
	if err := RenderLevelTable(w, report); err != nil {
		return err
	}
	return RenderCurves(w, report, window, width)
}
