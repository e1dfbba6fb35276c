// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easenetics/easenetics/internal/catalog"
	"github.com/easenetics/easenetics/internal/model"
	"github.com/easenetics/easenetics/internal/session"
	"github.com/easenetics/easenetics/internal/store"
)

// flashMsg is the scheduled end of the flash window. It carries the round
// serial it was scheduled for; the session ignores stale serials.
type flashMsg struct {
	serial int
}

// countdownMsg redraws the flash countdown bar while the target is shown.
type countdownMsg struct {
	serial int
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	passStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#73D13D")).Bold(true)
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	noticeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cursorCell    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#4A4A4A")).Bold(true)
)

// Model implements the Bubble Tea game UI.
type Model struct {
	sess    *session.Session
	catalog *catalog.Catalog
	store   *store.Store
	cfg     model.Config

	width  int
	height int

	levelCursor  int
	keypadCursor int
	notice       string

	recentAvg   float64
	recentCount int

	flashBar       progress.Model
	flashStartedAt time.Time
	flashDur       time.Duration
}

// NewModel constructs a game UI model.
func NewModel(sess *session.Session, cat *catalog.Catalog, st *store.Store, cfg model.Config) *Model {
	bar := progress.New(progress.WithSolidFill("#C89A3A"))
	bar.ShowPercentage = false
	m := &Model{
		sess:     sess,
		catalog:  cat,
		store:    st,
		cfg:      cfg,
		flashBar: bar,
	}
	m.loadFooterStats()
	return m
}

func (m *Model) loadFooterStats() {
	rounds, err := m.store.ListRounds(context.Background(), model.StatsConfig{GameID: m.cfg.GameID})
	if err != nil {
		logErrf("failed to load round stats: %v\n", err)
		return
	}
	if m.cfg.RecentWindow > 0 && len(rounds) > m.cfg.RecentWindow {
		rounds = rounds[len(rounds)-m.cfg.RecentWindow:]
	}
	m.recentCount = len(rounds)
	if len(rounds) == 0 {
		m.recentAvg = 0
		return
	}
	total := 0
	for _, round := range rounds {
		total += round.Score
	}
	m.recentAvg = float64(total) / float64(len(rounds))
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := m.width - 10
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.flashBar.Width = barWidth
		return m, nil
	case flashMsg:
		if m.sess.FlashDone(msg.serial) {
			m.keypadCursor = 0
		}
		return m, nil
	case countdownMsg:
		if msg.serial != m.sess.Serial() || m.sess.State() != session.StateShowing {
			return m, nil
		}
		return m, countdownCmd(msg.serial)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || (msg.String() == "q" && m.sess.State() != session.StateAwaitingInput) {
		return m, tea.Quit
	}
	switch m.sess.State() {
	case session.StateIdle:
		return m.handleLevelSelectKey(msg)
	case session.StateShowing:
		if msg.String() == "esc" {
			m.sess.SelectLevel()
		}
		return m, nil
	case session.StateAwaitingInput:
		return m.handleInputKey(msg)
	case session.StateResult:
		return m.handleResultKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleLevelSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	levels := m.catalog.Levels()
	switch msg.String() {
	case "up", "k":
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case "down", "j":
		if m.levelCursor < len(levels)-1 {
			m.levelCursor++
		}
	case "enter", " ":
		level := levels[m.levelCursor]
		if level.Locked {
			m.notice = fmt.Sprintf("Complete level %d first to unlock %q.", level.Number-1, level.Title)
			return m, nil
		}
		m.notice = ""
		return m, m.startRound(level)
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	shapes := m.sess.Level().ShapeSet
	switch msg.String() {
	case "esc":
		m.sess.SelectLevel()
		return m, nil
	case "left", "h":
		if m.keypadCursor > 0 {
			m.keypadCursor--
		}
	case "right", "l":
		if m.keypadCursor < len(shapes)-1 {
			m.keypadCursor++
		}
	case "enter", " ":
		m.selectShape(shapes[m.keypadCursor])
	case "backspace", "c":
		m.sess.ClearInput()
	default:
		// Number keys are shortcuts for the first ten shapes.
		if idx, ok := keypadDigit(msg.String(), len(shapes)); ok {
			m.keypadCursor = idx
			m.selectShape(shapes[idx])
		}
	}
	return m, nil
}

func (m *Model) selectShape(token string) {
	m.sess.Select(token)
	if m.sess.State() == session.StateResult {
		m.loadFooterStats()
	}
}

func (m *Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "r":
		serial, flash, err := m.sess.Retry()
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		return m, m.armFlash(serial, flash)
	case "enter", "esc", " ":
		m.sess.SelectLevel()
	}
	return m, nil
}

func (m *Model) startRound(level model.Level) tea.Cmd {
	serial, flash, err := m.sess.StartRound(level)
	if err != nil {
		m.notice = err.Error()
		return nil
	}
	return m.armFlash(serial, flash)
}

func (m *Model) armFlash(serial int, flash time.Duration) tea.Cmd {
	m.flashStartedAt = time.Now()
	m.flashDur = flash
	return tea.Batch(flashCmd(serial, flash), countdownCmd(serial))
}

func flashCmd(serial int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return flashMsg{serial: serial}
	})
}

func countdownCmd(serial int) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return countdownMsg{serial: serial}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.sess.State() {
	case session.StateIdle:
		body = m.viewLevelSelect()
	case session.StateShowing:
		body = m.viewShowing()
	case session.StateAwaitingInput:
		body = m.viewInput()
	case session.StateResult:
		body = m.viewResult()
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	footer := m.renderFooter()
	bodyHeight := m.height - 1
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return placed + "\n" + footerLine
}

func (m *Model) viewLevelSelect() string {
	lines := []string{titleStyle.Render("Easenetics · Sequence Recall"), ""}
	for i, level := range m.catalog.Levels() {
		label := fmt.Sprintf("%d. %s — %d shapes, %d%% to pass", level.Number, level.Title, level.SequenceLength, level.RequiredScorePercent)
		switch {
		case level.Locked:
			label = lockedStyle.Render(label + "  [locked]")
		case i == m.levelCursor:
			label = selectedStyle.Render("> " + label)
		default:
			label = normalStyle.Render("  " + label)
		}
		lines = append(lines, label)
	}
	if m.notice != "" {
		lines = append(lines, "", noticeStyle.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewShowing() string {
	level := m.sess.Level()
	remaining := m.flashDur - time.Since(m.flashStartedAt)
	if remaining < 0 {
		remaining = 0
	}
	pct := 0.0
	if m.flashDur > 0 {
		pct = float64(remaining) / float64(m.flashDur)
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Level %d · %s", level.Number, level.Title)),
		subtitleStyle.Render("Remember the order!"),
		"",
		renderSymbolRow(m.sess.VisibleTarget()),
		"",
		m.flashBar.ViewAs(pct),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewInput() string {
	level := m.sess.Level()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Level %d · %s", level.Number, level.Title)),
		subtitleStyle.Render("Repeat the sequence."),
		"",
		renderSlots(m.sess.Input(), level.SequenceLength),
		"",
		renderKeypad(level.ShapeSet, m.keypadCursor),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewResult() string {
	level := m.sess.Level()
	res, ok := m.sess.LastResult()
	if !ok {
		return ""
	}
	verdict := failStyle.Render(fmt.Sprintf("Score %d — below %d%%. Try again!", res.Score, level.RequiredScorePercent))
	if res.Passed {
		verdict = passStyle.Render(fmt.Sprintf("Score %d — passed!", res.Score))
	}
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Level %d · %s", level.Number, level.Title)),
		"",
		renderMarks(m.sess.Input(), m.sess.Marks()),
		"",
		verdict,
	}
	if res.UnlockedLevel > 0 {
		if next, found := m.catalog.Level(res.UnlockedLevel); found {
			lines = append(lines, noticeStyle.Render(fmt.Sprintf("Unlocked level %d: %s", next.Number, next.Title)))
		}
	}
	if res.SaveNotice != "" {
		lines = append(lines, noticeStyle.Render(res.SaveNotice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var help string
	switch m.sess.State() {
	case session.StateIdle:
		help = "up/down: choose  enter: play  q: quit"
		if m.recentCount > 0 {
			help = fmt.Sprintf("Recent avg %.0f (%d rounds)  ·  %s", m.recentAvg, m.recentCount, help)
		}
	case session.StateShowing:
		help = "esc: back"
	case session.StateAwaitingInput:
		help = "left/right: choose  enter: pick  backspace: clear  esc: back"
	case session.StateResult:
		help = "r: retry  enter: levels  q: quit"
	}
	return footerStyle.Render(help)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
