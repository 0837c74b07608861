// Package historyui provides the Bubble Tea session history browser.
package historyui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/stats"
	"github.com/verte-zerg/docquiz/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabTopics
)

var tabNames = []string{"Overview", "Sessions", "Topics"}

// windowSteps are the trend windows the +/- keys move between.
var windowSteps = []int{1, 3, 5, 10, 20}

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	cfg    model.StatsConfig
	window int

	report stats.Report
	errMsg string

	activeTab int
	overview  viewport.Model
	sessions  table.Model
	topics    table.Model

	filter    filterForm
	filtering bool

	keys keyMap
	help help.Model

	width  int
	height int
}

// NewModel constructs a history UI model. window is the number of recent
// sessions used for the trend and the topic table.
func NewModel(st *store.Store, cfg model.StatsConfig, window int) *Model {
	m := &Model{
		store:    st,
		cfg:      cfg,
		window:   maxInt(1, window),
		overview: viewport.New(0, 0),
		sessions: newTable(sessionColumns(80)),
		topics:   newTable(topicColumns(80)),
		filter:   newFilterForm(),
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
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
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		m.fillViews()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.updateBrowse(msg)
	}
	if m.filtering {
		return m, m.filter.update(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.selectTab(m.activeTab - 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Next):
		m.selectTab(m.activeTab + 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Grow):
		m.setWindow(nextWindow(m.window))
		return nil
	case key.Matches(msg, m.keys.Shrink):
		m.setWindow(prevWindow(m.window))
		return nil
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.load(m.cfg, m.window)
		return m.filter.focusAt(0)
	case key.Matches(msg, m.keys.Top):
		if t := m.activeTable(); t != nil {
			t.GotoTop()
		} else {
			m.overview.GotoTop()
		}
		return nil
	case key.Matches(msg, m.keys.Bottom):
		if t := m.activeTable(); t != nil {
			t.GotoBottom()
		} else {
			m.overview.GotoBottom()
		}
		return nil
	}
	var cmd tea.Cmd
	if t := m.activeTable(); t != nil {
		*t, cmd = t.Update(msg)
		return cmd
	}
	m.overview, cmd = m.overview.Update(msg)
	return cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		return nil
	case key.Matches(msg, m.keys.Apply):
		cfg, window, err := m.filter.parse()
		if err != nil {
			m.filter.err = err.Error()
			return nil
		}
		m.cfg = cfg
		if window > 0 {
			m.window = window
		}
		m.filtering = false
		m.refreshReport()
		m.layout()
		return nil
	case key.Matches(msg, m.keys.Field):
		return m.filter.shift(msg)
	}
	return m.filter.update(msg)
}

func (m *Model) activeTable() *table.Model {
	switch m.activeTab {
	case tabSessions:
		return &m.sessions
	case tabTopics:
		return &m.topics
	default:
		return nil
	}
}

func (m *Model) selectTab(idx int) {
	m.activeTab = (idx + len(tabNames)) % len(tabNames)
	m.sessions.Blur()
	m.topics.Blur()
	if t := m.activeTable(); t != nil {
		t.Focus()
	}
}

func (m *Model) setWindow(window int) {
	if window == m.window {
		return
	}
	m.window = window
	m.refreshReport()
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, body, _ := m.layoutHeights()
	m.help.Width = m.width
	m.overview.Width = m.width
	m.overview.Height = body
	m.sessions.SetColumns(sessionColumns(m.width))
	m.topics.SetColumns(topicColumns(m.width))
	for _, t := range []*table.Model{&m.sessions, &m.topics} {
		t.SetWidth(m.width)
		t.SetHeight(maxInt(1, body-1))
	}
	m.filter.setWidth(m.width)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg, m.window)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.fillViews()
}

func (m *Model) fillViews() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, m.window, width))
	_, sessionRows := stats.SessionRows(m.report.Sessions)
	m.sessions.SetRows(toRows(sessionRows))
	_, topicRows := stats.TopicRows(stats.SortByAccuracy(m.report.TopicAggsWindow))
	m.topics.SetRows(toRows(topicRows))
}

func nextWindow(n int) int {
	for _, step := range windowSteps {
		if step > n {
			return step
		}
	}
	return n
}

func prevWindow(n int) int {
	for i := len(windowSteps) - 1; i >= 0; i-- {
		if windowSteps[i] < n {
			return windowSteps[i]
		}
	}
	return windowSteps[0]
}
