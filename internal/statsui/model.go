// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shuttle/internal/model"
	"github.com/verte-zerg/shuttle/internal/stats"
	"github.com/verte-zerg/shuttle/internal/store"
)

const (
	tabOverview = iota
	tabCorners
	tabHistory
)

const plotHeight = 10

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
	history     viewport.Model
	cornerTable table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store: st,
		cfg:   cfg,
		tabs:  []string{"Overview", "Corners", "History"},
	}
	m.initCornerTable()
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
		m.resize()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.activeTab = (m.activeTab + 1) % len(m.tabs)
			return m, nil
		case "shift+tab", "left", "h":
			m.activeTab = (m.activeTab + len(m.tabs) - 1) % len(m.tabs)
			return m, nil
		}
		return m.updateActive(msg)
	default:
		return m, nil
	}
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case tabCorners:
		m.cornerTable, cmd = m.cornerTable.Update(msg)
	case tabHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	nav := m.renderNav()
	if m.errMsg != "" {
		return nav + "\n" + errorStyle.Render(m.errMsg)
	}
	var body string
	switch m.activeTab {
	case tabOverview:
		body = m.overview.View()
	case tabCorners:
		body = m.cornerTable.View()
	case tabHistory:
		body = m.history.View()
	}
	footer := headerStyle.Render("tab switch · ↑/↓ scroll · q quit")
	return nav + "\n" + body + "\n" + footer
}

func (m *Model) renderNav() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) initCornerTable() {
	columns := []table.Column{
		{Title: "Corner", Width: 16},
		{Title: "Picks", Width: 8},
		{Title: "Share", Width: 8},
	}
	m.cornerTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(model.NumCorners+1),
	)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.cornerTable.SetRows(cornerRows(report.CornersAll))
	m.setContent()
}

func (m *Model) resize() {
	bodyHeight := m.height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	bodyWidth := m.width
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	m.overview = viewport.New(bodyWidth, bodyHeight)
	m.history = viewport.New(bodyWidth, bodyHeight)
	m.cornerTable.SetHeight(min(bodyHeight, model.NumCorners+1))
	m.setContent()
}

func (m *Model) setContent() {
	m.overview.SetContent(m.overviewContent())
	m.history.SetContent(m.historyContent())
}

func (m *Model) overviewContent() string {
	var buf bytes.Buffer
	if err := stats.RenderSummary(&buf, m.report.Drills); err != nil {
		return fmt.Sprintf("failed to render summary: %v", err)
	}
	if top := stats.BusiestCorners(m.report.CornersAll, 1); len(top) == 1 {
		fmt.Fprintf(&buf, "Busiest corner: %d %s\n", top[0]+1, model.CornerNames[top[0]])
	}
	if idx := stats.LeastVisitedCorner(m.report.CornersWindow); idx >= 0 {
		fmt.Fprintf(&buf, "Least visited (last %d drills): %d %s\n", len(m.report.WindowIDs), idx+1, model.CornerNames[idx])
	}
	buf.WriteString("\n")
	if err := stats.RenderPaceCurve(&buf, m.report.Drills, m.cfg.CurveWindow, m.width, plotHeight); err != nil {
		return fmt.Sprintf("failed to render pace curve: %v", err)
	}
	return buf.String()
}

func (m *Model) historyContent() string {
	if len(m.report.Drills) == 0 {
		return "No drills found."
	}
	var b strings.Builder
	paces := make([]float64, len(m.report.Drills))
	for i, d := range m.report.Drills {
		pace, completion := stats.DrillMetrics(d.Picks, d.Planned, d.DurationMs)
		paces[i] = pace
		outcome := "stopped"
		if d.Completed {
			outcome = "done"
		}
		fmt.Fprintf(&b, "%s  %3d/%3d picks  %5.1f/min  %5.1f%%  %s\n",
			d.EndedAt.Format("2006-01-02 15:04"), d.Picks, d.Planned, pace, completion*100, outcome)
	}
	b.WriteString("\nPace: ")
	b.WriteString(stats.Sparkline(paces))
	b.WriteString("\n")
	return b.String()
}

func cornerRows(aggs []model.CornerAggregate) []table.Row {
	total := 0
	for _, agg := range aggs {
		total += agg.Picks
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		share := 0.0
		if total > 0 {
			share = float64(agg.Picks) / float64(total) * 100
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d %s", agg.Corner+1, model.CornerNames[agg.Corner]),
			fmt.Sprintf("%d", agg.Picks),
			fmt.Sprintf("%.1f%%", share),
		})
	}
	return rows
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
