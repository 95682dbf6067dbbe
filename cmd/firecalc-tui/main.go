package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/firecalc/pkg/battery"
	"github.com/dd0wney/firecalc/pkg/catalog"
	"github.com/dd0wney/firecalc/pkg/engine"
	"github.com/dd0wney/firecalc/pkg/wire"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F00")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF5F00")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	circuitsView
	batteryView
)

const viewCount = 3

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	eng          *engine.Engine
	currentView  view
	circuitTable table.Model
	help         help.Model
	keys         keyMap
	width        int
	height       int
	analyses     []engine.Analysis
	batteries    map[string]battery.Calculation
}

func initialModel(eng *engine.Engine, panels []string) model {
	columns := []table.Column{
		{Title: "Circuit", Width: 16},
		{Title: "Type", Width: 6},
		{Title: "Devices", Width: 8},
		{Title: "Length (ft)", Width: 12},
		{Title: "Drop (V)", Width: 10},
		{Title: "Drop (%)", Width: 9},
		{Title: "Status", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF5F00")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		eng:          eng,
		currentView:  dashboardView,
		circuitTable: t,
		help:         help.New(),
		keys:         keys,
		batteries:    make(map[string]battery.Calculation),
	}
	m.refresh(panels)
	return m
}

// refresh pulls fresh analyses and battery sizing out of the engine.
func (m *model) refresh(panels []string) {
	m.analyses = m.analyses[:0]
	rows := make([]table.Row, 0)
	for _, id := range m.eng.Circuits() {
		a := m.eng.Analyze(id)
		m.analyses = append(m.analyses, a)
		rows = append(rows, table.Row{
			a.CircuitID,
			string(a.CircuitType),
			fmt.Sprintf("%d", a.DeviceCount),
			fmt.Sprintf("%.0f", a.TotalLengthFt),
			fmt.Sprintf("%.3f", a.TotalVoltageDrop),
			fmt.Sprintf("%.2f", a.VoltageDropPercent),
			a.ComplianceStatus,
		})
	}
	m.circuitTable.SetRows(rows)

	for _, panel := range panels {
		calc, err := m.eng.CalculateBatteryRequirements(panel)
		if err != nil {
			continue
		}
		m.batteries[panel] = calc
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
		}
	}

	if m.currentView == circuitsView {
		m.circuitTable, cmd = m.circuitTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔥 FireCalc - Circuit Dashboard"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case circuitsView:
		s.WriteString(m.renderCircuits())
	case batteryView:
		s.WriteString(m.renderBattery())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Circuits", "Battery"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	var devices int
	var lengthFt float64
	var pass, warn, fail int
	for _, a := range m.analyses {
		devices += a.DeviceCount
		lengthFt += a.TotalLengthFt
		switch a.ComplianceStatus {
		case engine.StatusPass:
			pass++
		case engine.StatusWarn:
			warn++
		case engine.StatusFail:
			fail++
		}
	}

	statsContent := fmt.Sprintf(`📊 System
━━━━━━━━━━━━━━━
Circuits:  %d
Devices:   %d
Wire:      %.0f ft`,
		len(m.analyses),
		devices,
		lengthFt,
	)

	complianceContent := fmt.Sprintf(`✓ Compliance
━━━━━━━━━━━━━━━
%s   %d
%s   %d
%s   %d`,
		passStyle.Render("PASS"), pass,
		warnStyle.Render("WARN"), warn,
		failStyle.Render("FAIL"), fail,
	)

	statsBox := statsBoxStyle.Render(statsContent)
	complianceBox := statsBoxStyle.Render(complianceContent)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, complianceBox),
	)
}

func (m model) renderCircuits() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Circuit Analyses"))
	s.WriteString("\n\n")

	s.WriteString(m.circuitTable.View())

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Navigate with ↑/↓"))

	return contentStyle.Render(s.String())
}

func (m model) renderBattery() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Battery Sizing"))
	s.WriteString("\n\n")

	if len(m.batteries) == 0 {
		s.WriteString(helpStyle.Render("No panels with circuits"))
		return contentStyle.Render(s.String())
	}

	for panel, calc := range m.batteries {
		content := fmt.Sprintf(`🔋 %s
━━━━━━━━━━━━━━━━━━━
Standby:   %.4f A × 24 h
Alarm:     %.4f A × 5 min
Required:  %.2f AH
Battery:   %g AH (%s)`,
			panel,
			calc.StandbyCurrentA,
			calc.AlarmCurrentA,
			calc.TotalRequiredAH(),
			calc.RecommendedAH,
			calc.BatterySKU,
		)
		s.WriteString(statsBoxStyle.Render(content))
		s.WriteString("\n")
	}

	return contentStyle.Render(s.String())
}

// seedDemoProject loads a representative two-panel layout so the dashboard
// has something to show when launched without a project file.
func seedDemoProject(eng *engine.Engine) {
	segments := []struct {
		from, to string
		lengthFt float64
		gauge    wire.Gauge
		currentA float64
		ctype    wire.CircuitType
	}{
		{"PANEL1", "SMOKE_101", 40, wire.Gauge14, 0.006, wire.CircuitSLC},
		{"SMOKE_101", "SMOKE_102", 40, wire.Gauge14, 0.006, wire.CircuitSLC},
		{"SMOKE_102", "SMOKE_103", 40, wire.Gauge14, 0.006, wire.CircuitSLC},
		{"PANEL1", "HORN_101", 120, wire.Gauge14, 0.070, wire.CircuitNAC},
		{"HORN_101", "HORN_102", 80, wire.Gauge14, 0.070, wire.CircuitNAC},
		{"PANEL2", "HORN_201", 8000, wire.Gauge18, 0.1, wire.CircuitNAC},
	}
	for _, s := range segments {
		seg, err := wire.NewSegment(s.from, s.to, s.lengthFt, s.gauge, s.currentA, s.ctype)
		if err != nil {
			log.Fatalf("seed segment: %v", err)
		}
		if _, err := eng.AddSegment(seg); err != nil {
			log.Fatalf("seed add segment: %v", err)
		}
	}
}

func main() {
	cat := catalog.New()
	cat.Register(catalog.DeviceSpec{Model: "SD-751", DeviceType: "smoke", StandbyA: 0.0003, AlarmA: 0.006})
	cat.Register(catalog.DeviceSpec{Model: "HS-24", DeviceType: "horn-strobe", StandbyA: 0.001, AlarmA: 0.070})

	eng := engine.New(engine.WithCatalog(cat))
	seedDemoProject(eng)

	p := tea.NewProgram(initialModel(eng, []string{"PANEL1", "PANEL2"}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
