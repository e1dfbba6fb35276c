// Package statsui provides the Bubble Tea progress-report interface.
package statsui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/easenetics/easenetics/internal/model"
	"github.com/easenetics/easenetics/internal/stats"
	"github.com/easenetics/easenetics/internal/store"
)

const (
	tabOverview = iota
	tabRounds
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	overview    viewport.Model
	roundsTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Rounds"},
	}
	m.overview = viewport.New(0, 0)
	m.roundsTable = buildRoundsTable(nil, 0, 1)
	m.refreshReport()
	return m
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
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.activeTab == tabRounds {
				m.roundsTable.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRounds {
				m.roundsTable.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabRounds {
				var cmd tea.Cmd
				m.roundsTable, cmd = m.roundsTable.Update(msg)
				return m, cmd
			}
			var cmd tea.Cmd
			m.overview, cmd = m.overview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs()
	footer := m.renderFooter()
	var body string
	if m.activeTab == tabRounds {
		if len(m.report.Rounds) == 0 {
			body = "No rounds played yet."
		} else {
			body = m.roundsTable.View()
		}
	} else {
		body = m.overview.View()
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabRounds {
		m.roundsTable.Focus()
	} else {
		m.roundsTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load stats.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.roundsTable = buildRoundsTable(report.Rounds, m.width, m.tableHeight())
	m.renderOverview()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	bodyHeight := m.bodyHeight()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.roundsTable = buildRoundsTable(m.report.Rounds, m.width, bodyHeight)
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight := 1
	if m.errMsg != "" {
		footerHeight++
	}
	h := m.height - tabsHeight - footerHeight - 1
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) tableHeight() int {
	if m.height == 0 {
		return 10
	}
	return m.bodyHeight()
}

func (m *Model) renderOverview() {
	if len(m.report.Rounds) == 0 {
		m.overview.SetContent("No rounds played yet.")
		return
	}
	cards := m.renderCards()
	curves := m.renderCurves()
	m.overview.SetContent(cards + "\n\n" + curves)
}

func (m *Model) renderCards() string {
	passes := 0
	best := 0
	total := 0
	for _, round := range m.report.Rounds {
		if round.Passed {
			passes++
		}
		if round.Score > best {
			best = round.Score
		}
		total += round.Score
	}
	count := len(m.report.Rounds)
	avg := float64(total) / float64(count)
	cards := []string{
		renderCard("Rounds", fmt.Sprintf("%d", count)),
		renderCard("Passed", fmt.Sprintf("%d (%.0f%%)", passes, stats.PassRate(passes, count)*100)),
		renderCard("Best", fmt.Sprintf("%d", best)),
		renderCard("Avg", fmt.Sprintf("%.1f", avg)),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(title, value string) string {
	content := cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func (m *Model) renderCurves() string {
	scores := m.report.LevelScores()
	width := m.width - 12
	if width < 10 {
		width = 10
	}
	lines := []string{headerStyle.Render("Score curves (smoothed)")}
	for _, agg := range m.report.Levels {
		series, ok := scores[agg.LevelNumber]
		if !ok || len(series) == 0 {
			continue
		}
		curve := stats.MovingAverage(stats.ScoreCurve(series), m.cfg.CurveWindow)
		if len(curve) > width {
			curve = curve[len(curve)-width:]
		}
		lines = append(lines, fmt.Sprintf("Level %d  %s", agg.LevelNumber, stats.Sparkline(curve)))
	}
	return strings.Join(lines, "\n")
}

func buildRoundsTable(rounds []model.RoundAggregate, width, height int) table.Model {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Level", Width: 5},
		{Title: "Score", Width: 5},
		{Title: "Accuracy", Width: 8},
		{Title: "Time", Width: 7},
		{Title: "Result", Width: 6},
	}
	rows := make([]table.Row, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		round := rounds[i]
		result := "fail"
		if round.Passed {
			result = "pass"
		}
		rows = append(rows, table.Row{
			round.PlayedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", round.LevelNumber),
			fmt.Sprintf("%d", round.Score),
			fmt.Sprintf("%d%%", round.AccuracyPercent),
			fmt.Sprintf("%.1fs", float64(round.ElapsedMs)/1000),
			result,
		})
	}
	if height < 1 {
		height = 1
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	if width > 0 {
		t.SetWidth(width)
	}
	return t
}
