// Package main provides the CLI entrypoint for easenetics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/easenetics/easenetics/internal/catalog"
	"github.com/easenetics/easenetics/internal/config"
	"github.com/easenetics/easenetics/internal/game"
	"github.com/easenetics/easenetics/internal/model"
	"github.com/easenetics/easenetics/internal/session"
	"github.com/easenetics/easenetics/internal/stats"
	"github.com/easenetics/easenetics/internal/statsui"
	"github.com/easenetics/easenetics/internal/store"
	"github.com/easenetics/easenetics/internal/tui"
)

const (
	defaultFlashScale   = 1.0
	defaultRecentWindow = 5
	defaultCurveWindow  = 5
)

var (
	playFlashScale float64
	playLevelsPath string

	statsLevel       int
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "easenetics",
		Short:         "Terminal trainer for the Easenetics memory game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().Float64Var(&playFlashScale, "flash-scale", defaultFlashScale, "multiply flash durations (>1 slows the game down)")
	rootCmd.Flags().StringVar(&playLevelsPath, "levels", "", "custom level file (TOML)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPlayConfig(cmd)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to load levels: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	progress, found, err := st.LoadProgress(context.Background(), cfg.GameID)
	if err != nil {
		logErrf("failed to load progress: %v\n", err)
	} else if found {
		cat.ApplyProgress(progress)
	}

	sess := session.New(cat, game.New(), st, cfg.GameID)
	uiModel := tui.NewModel(sess, cat, st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadPlayConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "flash-scale", &playFlashScale, fileCfg.Game.FlashScale)
	applyStringConfig(cmd, "levels", &playLevelsPath, fileCfg.Game.Levels)

	cfg := model.Config{
		GameID:       model.DefaultGameID,
		FlashScale:   playFlashScale,
		LevelsPath:   playLevelsPath,
		RecentWindow: defaultRecentWindow,
	}
	if fileCfg.Game.RecentWindow != nil {
		cfg.RecentWindow = *fileCfg.Game.RecentWindow
	}
	if cfg.FlashScale < 0.1 {
		return model.Config{}, fmt.Errorf("--flash-scale must be at least 0.1")
	}
	return cfg, nil
}

func loadCatalog(cfg model.Config) (*catalog.Catalog, error) {
	levels := catalog.BuiltinLevels()
	if cfg.LevelsPath != "" {
		loaded, err := catalog.LoadFile(cfg.LevelsPath)
		if err != nil {
			return nil, err
		}
		levels = loaded
	}
	return catalog.New(catalog.ScaleFlash(levels, cfg.FlashScale))
}

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List levels and their lock state",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().StringVar(&playLevelsPath, "levels", "", "custom level file (TOML)")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadPlayConfig(cmd)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("failed to load levels: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	progress, found, err := st.LoadProgress(context.Background(), cfg.GameID)
	if err != nil {
		logErrf("failed to load progress: %v\n", err)
	} else if found {
		cat.ApplyProgress(progress)
	}

	out := cmd.OutOrStdout()
	for _, level := range cat.Levels() {
		state := "unlocked"
		if level.Locked {
			state = "locked"
		}
		if best, ok := progress.BestScorePerLevel[level.Number]; ok {
			state = fmt.Sprintf("best %d", best)
		}
		line := fmt.Sprintf("%d. %-15s %d shapes of %d, %dms flash, %d%% to pass  [%s]",
			level.Number, level.Title, level.SequenceLength, len(level.ShapeSet),
			level.FlashDurationMs, level.RequiredScorePercent, state)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLevel, "level", 0, "level filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		GameID:      model.DefaultGameID,
		Level:       statsLevel,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !stats.IsTerminal(os.Stdout) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(os.Stdout, report, cfg.CurveWindow, stats.TerminalWidth())
	}

	uiModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# easenetics configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# flash-scale = %.1f      # Multiply flash durations; raise to slow the game down
# levels = %q             # Custom level file (TOML)
# recent-window = %d      # Rounds shown in the in-game footer
`,
		defaultFlashScale,
		config.DefaultLevelsPath(),
		defaultRecentWindow,
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
