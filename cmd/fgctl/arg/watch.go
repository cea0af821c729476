package arg

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"focusguard/internal/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of the daemon's state",
	Run: func(cmd *cobra.Command, args []string) {
		conn, obj := daemon()
		defer conn.Close()

		m := watchModel{obj: obj, snap: fetchStatus(obj)}
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			log.Fatal("Dashboard error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

type watchModel struct {
	obj    dbus.BusObject
	snap   engine.Snapshot
	width  int
	height int
}

var (
	watchHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#4A90E2")).
				Padding(0, 1).
				MarginBottom(1)

	watchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2).
			MarginBottom(1)

	focusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

type watchTickMsg time.Time

func watchTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return watchTickCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case watchTickMsg:
		m.snap = fetchStatus(m.obj)
		return m, watchTickCmd()
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	s := m.snap

	header := watchHeaderStyle.Width(m.width).Render(
		fmt.Sprintf("Focus Guard - %s", s.Date))

	var timerLines []string
	timerLines = append(timerLines, s.TimerText)
	if s.TimerPhase != "inactive" {
		timerLines = append(timerLines,
			fmt.Sprintf("Pauses used: %d/%d", s.PausesUsed, s.MaxPauses))
		if s.Pomodoro {
			timerLines = append(timerLines, "Pomodoro cycling: on")
		}
	}
	timerBox := watchBoxStyle.Render(strings.Join(timerLines, "\n"))

	var monLines []string
	if s.MonitorEnabled {
		monLines = append(monLines, focusStyle.Render("Monitoring: on"))
	} else {
		monLines = append(monLines, dimStyle.Render("Monitoring: off"))
	}
	app := s.ActiveApp
	if app == "" {
		app = "(no process)"
	}
	if s.IllegalFocused {
		monLines = append(monLines, alertStyle.Render("Focused: "+app))
	} else {
		monLines = append(monLines, "Focused: "+app)
	}
	if s.Alerting {
		monLines = append(monLines, alertStyle.Render("ALERTING"))
	}
	monLines = append(monLines, "Targets: "+s.Targets)
	monLines = append(monLines, s.LimitText)
	monitorBox := watchBoxStyle.Render(strings.Join(monLines, "\n"))

	usageBox := watchBoxStyle.Render(renderUsage(s.Usage))

	gameLines := []string{
		fmt.Sprintf("Today: %d pts  study %s  illegal %s  breaks %s",
			s.Day.Totals.Points,
			engine.FormatMMSS(s.Day.Totals.StudySec),
			engine.FormatMMSS(s.Day.Totals.IllegalSec),
			engine.FormatMMSS(s.Day.Totals.BreakSec)),
		fmt.Sprintf("Level %d  XP %d  (%.0f%% to next)", s.Level, s.XP, s.LevelProgress*100),
		fmt.Sprintf("Streak: %d day(s), best %d", s.Streak, s.BestStreak),
	}
	if s.ActiveSession != nil {
		gameLines = append(gameLines,
			fmt.Sprintf("Session so far: %d pts (%s)", s.SessionScore, s.SessionReward))
	}
	gameBox := watchBoxStyle.Render(strings.Join(gameLines, "\n"))

	footer := dimStyle.Width(m.width).Render("Press q to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header, timerBox, monitorBox, usageBox, gameBox, footer)
}

func renderUsage(usage map[string]float64) string {
	if len(usage) == 0 {
		return "No tracked usage yet today"
	}
	keys := make([]string, 0, len(usage))
	for k := range usage {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys)+1)
	lines = append(lines, "Usage today:")
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("  %-24s %s", k, engine.FormatMMSS(usage[k])))
	}
	return strings.Join(lines, "\n")
}
