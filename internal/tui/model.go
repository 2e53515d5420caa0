// Package tui provides the Bubble Tea drill interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/shuttle/internal/audio"
	"github.com/verte-zerg/shuttle/internal/config"
	"github.com/verte-zerg/shuttle/internal/drill"
	"github.com/verte-zerg/shuttle/internal/model"
	"github.com/verte-zerg/shuttle/internal/picker"
	"github.com/verte-zerg/shuttle/internal/stats"
	"github.com/verte-zerg/shuttle/internal/store"
)

// recentWindow is how many recent drills feed the least-visited hint.
const recentWindow = 20

// Setup field indexes, in display order.
const (
	fieldSets = iota
	fieldBirds
	fieldRecovery
	fieldPreview
	fieldBreak
	fieldSound
	fieldCount
)

var fieldNames = [fieldCount]string{
	"Sets",
	"Birds per set",
	"Recovery (s)",
	"Preview (s)",
	"Set break (s)",
	"Sound",
}

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	countdownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cornerStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A")).Foreground(lipgloss.Color("#B0B0B0"))
	cornerOffStyle  = cornerStyle.Copy().Foreground(lipgloss.Color("#4A4A4A")).BorderForeground(lipgloss.Color("#333333"))
	cornerHotStyle  = cornerStyle.Copy().Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#C89A3A")).BorderForeground(lipgloss.Color("#C89A3A")).Bold(true)
	cornerLastStyle = cornerStyle.Copy().Foreground(lipgloss.Color("#C89A3A")).BorderForeground(lipgloss.Color("#6E6E6E"))
)

type drillEventMsg struct {
	ev drill.Event
}

// Model implements the Bubble Tea drill UI.
type Model struct {
	cfg model.DrillConfig
	seq *drill.Sequencer
	st  *store.Store

	program *tea.Program

	width  int
	height int

	snap      drill.Snapshot
	cursor    int
	startErr  string
	hint      string
	lastStats *model.DrillStats
	setBar    progress.Model
}

// NewModel constructs a drill TUI model. A nil store disables history; a nil
// rng falls back to the crypto-backed default.
func NewModel(cfg model.DrillConfig, st *store.Store, rng picker.RandomSource) *Model {
	m := &Model{
		cfg:    cfg,
		st:     st,
		setBar: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.seq = drill.New(drill.WallClock{}, picker.New(rng), audio.NewBell(os.Stdout), m.forward)
	m.snap = m.seq.Snapshot()
	m.loadHint()
	return m
}

func (m *Model) loadHint() {
	if m.st == nil {
		return
	}
	aggs, err := m.st.CornerAggregatesRecent(context.Background(), recentWindow)
	if err != nil {
		logErrf("failed to load corner stats: %v\n", err)
		return
	}
	if idx := stats.LeastVisitedCorner(aggs); idx >= 0 {
		m.hint = fmt.Sprintf("Least visited recently: %d %s", idx+1, model.CornerNames[idx])
	}
}

// Attach wires the running program so sequencer events reach Update.
// Must be called before Program.Run.
func (m *Model) Attach(p *tea.Program) {
	m.program = p
}

func (m *Model) forward(ev drill.Event) {
	if m.program != nil {
		m.program.Send(drillEventMsg{ev: ev})
	}
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
		m.setBar.Width = barWidth(msg.Width)
		return m, nil
	case drillEventMsg:
		m.handleEvent(msg.ev)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.seq.Stop()
		return m, tea.Quit
	}

	if m.snap.InProgress {
		switch msg.String() {
		case "esc", " ":
			m.seq.Stop()
		}
		return m, nil
	}

	// Setup view: config edits are only accepted while no drill runs.
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < fieldCount-1 {
			m.cursor++
		}
	case "left", "h":
		m.adjustField(-1)
	case "right", "l":
		m.adjustField(1)
	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		m.cfg.Corners[idx] = !m.cfg.Corners[idx]
		m.startErr = ""
	case "enter", " ":
		m.startDrill()
	}
	return m, nil
}

func (m *Model) adjustField(dir int) {
	m.startErr = ""
	switch m.cursor {
	case fieldSets:
		m.cfg.Sets = clampInt(m.cfg.Sets+dir, 1, 20)
	case fieldBirds:
		m.cfg.BirdsPerSet = clampInt(m.cfg.BirdsPerSet+dir, 1, 60)
	case fieldRecovery:
		m.cfg.RecoverySec += 0.1 * float64(dir)
	case fieldPreview:
		m.cfg.PreviewSec += 0.1 * float64(dir)
	case fieldBreak:
		m.cfg.SetBreakSec += 5 * float64(dir)
	case fieldSound:
		m.cfg.SoundEnabled = !m.cfg.SoundEnabled
	}
	m.cfg = drill.ClampTimings(m.cfg)
}

func (m *Model) startDrill() {
	m.lastStats = nil
	if err := m.seq.Start(m.cfg); err != nil {
		m.startErr = err.Error()
		return
	}
	m.startErr = ""
	m.snap = m.seq.Snapshot()
}

func (m *Model) handleEvent(ev drill.Event) {
	m.snap = ev.Snapshot
	if ev.Kind != drill.EventFinished && ev.Kind != drill.EventStopped {
		return
	}
	runStats := m.seq.Stats()
	m.lastStats = &runStats
	if m.st == nil || runStats.Picks == 0 {
		return
	}
	if _, err := m.st.InsertDrill(context.Background(), runStats, m.seq.CornerPicks()); err != nil {
		logErrf("failed to save drill: %v\n", err)
	}
	m.loadHint()
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.snap.InProgress {
		content = m.drillView()
	} else {
		content = m.setupView()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) setupView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("shuttle"))
	b.WriteString("\n\n")
	if m.lastStats != nil {
		b.WriteString(valueStyle.Render(resultLine(*m.lastStats)))
		b.WriteString("\n\n")
	}
	for i := 0; i < fieldCount; i++ {
		marker := "  "
		name := labelStyle.Render(fieldNames[i])
		if i == m.cursor {
			marker = selectedStyle.Render("> ")
			name = selectedStyle.Render(fieldNames[i])
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", marker, name, valueStyle.Render(m.fieldValue(i))))
	}
	b.WriteString("\n")
	b.WriteString(m.courtView())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Corners: " + config.FormatCorners(m.cfg.Corners)))
	b.WriteString("\n")
	if m.startErr != "" {
		b.WriteString(errorStyle.Render(m.startErr))
		b.WriteString("\n")
	}
	if m.hint != "" {
		b.WriteString(labelStyle.Render(m.hint))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("↑/↓ field · ←/→ adjust · 1-6 toggle corner · space start · q quit"))
	return b.String()
}

func (m *Model) fieldValue(field int) string {
	switch field {
	case fieldSets:
		return fmt.Sprintf("%d", m.cfg.Sets)
	case fieldBirds:
		return fmt.Sprintf("%d", m.cfg.BirdsPerSet)
	case fieldRecovery:
		return fmt.Sprintf("%.1f", m.cfg.RecoverySec)
	case fieldPreview:
		return fmt.Sprintf("%.1f", m.cfg.PreviewSec)
	case fieldBreak:
		return fmt.Sprintf("%.0f", m.cfg.SetBreakSec)
	case fieldSound:
		if m.cfg.SoundEnabled {
			return "on"
		}
		return "off"
	default:
		return ""
	}
}

func (m *Model) drillView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("shuttle"))
	b.WriteString("\n\n")
	b.WriteString(countdownStyle.Render(m.statusLine()))
	b.WriteString("\n\n")
	b.WriteString(m.courtView())
	b.WriteString("\n")
	if m.snap.State == drill.SetActive {
		done := m.cfg.BirdsPerSet - m.snap.RemainingBirds
		b.WriteString(m.setBar.ViewAs(float64(done) / float64(m.cfg.BirdsPerSet)))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(countersLine(m.snap)))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("space stop · q quit"))
	return b.String()
}

// statusLine renders the phase headline for the in-drill view.
func (m *Model) statusLine() string {
	switch m.snap.State {
	case drill.Countdown:
		return fmt.Sprintf("Starting in %d...", m.snap.CountdownLeft)
	case drill.SetActive:
		current := m.cfg.Sets - m.snap.RemainingSets
		return fmt.Sprintf("Set %d of %d", current, m.cfg.Sets)
	case drill.InterSetBreak:
		return fmt.Sprintf("Rest — next set in %ds", m.snap.RemainingBreak)
	case drill.Complete:
		return "Drill complete"
	default:
		return ""
	}
}

func countersLine(snap drill.Snapshot) string {
	return fmt.Sprintf("Birds left %d · Sets left %d · Picks %d",
		snap.RemainingBirds, snap.RemainingSets, snap.Picks)
}

// courtView draws the six corners as a 2x3 grid, front row on top.
func (m *Model) courtView() string {
	positions := m.snap.Positions
	if len(positions) == 0 {
		positions = picker.NewPositions(m.cfg.Corners[:])
	}
	rows := make([]string, 0, model.NumCorners/2)
	for row := 0; row < model.NumCorners/2; row++ {
		left := cornerCell(positions, 2*row)
		right := cornerCell(positions, 2*row+1)
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func cornerCell(positions []picker.Position, idx int) string {
	label := fmt.Sprintf("%d %s", idx+1, model.CornerNames[idx])
	p := positions[idx]
	switch {
	case p.IsActive:
		return cornerHotStyle.Render(label)
	case !p.Enabled:
		return cornerOffStyle.Render(label)
	case p.WasLastVisited:
		return cornerLastStyle.Render(label)
	default:
		return cornerStyle.Render(label)
	}
}

func barWidth(total int) int {
	w := total / 2
	if w < 10 {
		w = 10
	}
	if w > 40 {
		w = 40
	}
	return w
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func resultLine(stats model.DrillStats) string {
	outcome := "stopped"
	if stats.Completed {
		outcome = "completed"
	}
	return fmt.Sprintf("Last drill %s: %d picks in %ds", outcome, stats.Picks, stats.DurationMs/1000)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
