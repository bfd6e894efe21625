package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/gogio/internal/gio"
	"github.com/dustin/go-humanize"
)

const (
	maxEventLines = 500
	maxLogLines   = 100
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// EventMsg is a [tea.Msg] describing one event of the watched location.
type EventMsg struct {
	Time  time.Time
	Event gio.FileMonitorEvent
	Path  string
	Other string

	// Size is the size of the file after the event, or -1 if unknown.
	Size int64
}

// tickMsg refreshes the relative times shown in the summary.
type tickMsg time.Time

// TeaModel is the principal [tea.Model] for the watch view.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler
	location  string

	fullWidthWithBorders int

	started   time.Time
	lastEvent time.Time
	total     int
	counts    map[gio.FileMonitorEvent]int

	eventsViewport viewport.Model
	events         []string

	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, location string, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		uiHandler:      uiHandler,
		location:       location,
		cancel:         cancel,
		started:        time.Now(),
		counts:         make(map[gio.FileMonitorEvent]int),
		eventsViewport: viewport.New(80, 20),
		events:         make([]string, 0, maxEventLines),
		logsViewport:   viewport.New(80, 10),
		logs:           make([]string, 0, maxLogLines),
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tick(),
	)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2

		// The events panel takes about 60% of the height, minus the summary.
		upperHeight := m.height * 3 / 5
		lowerHeight := m.height - upperHeight

		m.eventsViewport.Width = m.fullWidthWithBorders
		m.eventsViewport.Height = max(upperHeight-6, 1)

		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(lowerHeight-4, 1)

		m.eventsViewport.SetContent(m.render(m.eventsViewport.Width, m.events, "\n"))
		m.eventsViewport.GotoBottom()
		m.logsViewport.SetContent(m.render(m.logsViewport.Width, m.logs, ""))
		m.logsViewport.GotoBottom()

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case EventMsg:
		m.total++
		m.counts[msg.Event]++
		m.lastEvent = msg.Time

		if len(m.events) >= maxEventLines {
			m.events = m.events[1:]
		}
		m.events = append(m.events, formatEvent(msg))

		m.eventsViewport.SetContent(m.render(m.eventsViewport.Width, m.events, "\n"))
		m.eventsViewport.GotoBottom()

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))

		m.logsViewport.SetContent(m.render(m.logsViewport.Width, m.logs, ""))
		m.logsViewport.GotoBottom()

	case tickMsg:
		cmds = append(cmds, tick())
	}

	m.eventsViewport, cmd = m.eventsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m TeaModel) render(width int, lines []string, sep string) string {
	return lipgloss.NewStyle().
		Width(width).
		Render(strings.TrimSuffix(strings.Join(lines, sep), "\n"))
}

// formatEvent renders one line of the events panel.
func formatEvent(ev EventMsg) string {
	var s strings.Builder

	fmt.Fprintf(&s, "%s  %-18s %s", ev.Time.Format("15:04:05"), ev.Event, ev.Path)

	if ev.Other != "" {
		fmt.Fprintf(&s, " -> %s", ev.Other)
	}

	if ev.Size >= 0 {
		fmt.Fprintf(&s, " (%s)", humanize.IBytes(uint64(ev.Size)))
	}

	return s.String()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	eventsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Watching "+m.location),
				infoStyle.Width(m.fullWidthWithBorders).Render(m.summary()),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.eventsViewport.View()),
			),
		)

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Process Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: quit program • ↑/↓: scroll events")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		eventsSection,
		logsSection,
		helpSection,
	)
}

// summary renders the event counters of the watched location.
func (m TeaModel) summary() string {
	kinds := make([]gio.FileMonitorEvent, 0, len(m.counts))
	for kind := range m.counts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)

	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		parts = append(parts, fmt.Sprintf("%s=%s", kind, humanize.Comma(int64(m.counts[kind]))))
	}

	last := "never"
	if !m.lastEvent.IsZero() {
		last = humanize.Time(m.lastEvent)
	}

	return fmt.Sprintf("Events: %s (%s)\nStarted: %s, last event: %s\n",
		humanize.Comma(int64(m.total)),
		strings.Join(parts, ", "),
		humanize.Time(m.started),
		last,
	)
}
