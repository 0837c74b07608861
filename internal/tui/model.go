// Package tui provides the Bubble Tea study interface.
package tui

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/docquiz/internal/api"
	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
	statsPkg "github.com/verte-zerg/docquiz/internal/stats"
)

const maxUploadMB = api.MaxUploadBytes >> 20

// History is the session store used for saving results and the footer.
type History interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	GetWeakTopics(ctx context.Context, window int, lang string) ([]model.TopicAggregate, error)
}

// Options configures NewModel.
type Options struct {
	Backend session.Backend
	// History may be nil, in which case nothing is saved.
	History History
	Logger  *zap.Logger
	Config  model.Config
	File    string
	// WeakWindow is the number of recent quiz sessions scanned for the
	// cross-session review list. Zero disables it.
	WeakWindow int
	WeakTop    int
}

type fetchDoneMsg struct {
	submitID int
	outcome  session.Outcome
}

type tickMsg struct{ viewID int }

type expireMsg struct{ viewID int }

type cardMsg struct{ viewID int }

// Model implements the Bubble Tea study UI.
type Model struct {
	ctrl    *session.Controller
	backend session.Backend
	history History
	log     *zap.Logger

	weakWindow int
	weakTop    int

	width  int
	height int

	form    *uploadForm
	spinner spinner.Model
	bar     progress.Model
	help    help.Model
	keys    keyMap

	submitID int
	cancel   context.CancelFunc

	// viewID names the mounted session view. Timer and card messages that
	// carry a different id belong to a dismissed view and are dropped.
	viewID     int
	picking    bool
	topicIndex int
	quiz       *session.Quiz
	deck       *session.Deck
	cursor     int
	startedAt  time.Time

	recentWeak []string
	saveErr    string

	lastPct  int
	hasLast  bool
	allPct   float64
	allCount int

	now func() time.Time
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle     = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs the study UI on the upload stage.
func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle
	m := &Model{
		ctrl:       session.NewController(log),
		backend:    opts.Backend,
		history:    opts.History,
		log:        log,
		weakWindow: opts.WeakWindow,
		weakTop:    opts.WeakTop,
		form:       newUploadForm(opts.Config, opts.File),
		spinner:    sp,
		bar:        progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage(), progress.WithWidth(40)),
		help:       help.New(),
		keys:       defaultKeyMap(),
		now:        time.Now,
	}
	m.loadFooterStats()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = minInt(40, maxInt(10, contentWidth(m.width)-10))
		m.help.Width = m.width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.shutdown()
			return m, tea.Quit
		}
		return m.updateKey(msg)
	case fetchDoneMsg:
		return m.handleFetched(msg)
	case tickMsg:
		return m.handleTick(msg)
	case expireMsg:
		return m.handleExpire(msg)
	case cardMsg:
		if msg.viewID == m.viewID && m.deck != nil {
			m.deck.Advance()
		}
		return m, nil
	case spinner.TickMsg:
		if m.ctrl.Stage() != session.StageProcessing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		if m.ctrl.Stage() == session.StageUpload {
			return m, m.form.Forward(msg)
		}
		return m, nil
	}
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ctrl.Stage() {
	case session.StageUpload:
		submit, cmd := m.form.Update(msg)
		if submit {
			return m.submit()
		}
		return m, cmd
	case session.StageProcessing:
		if key.Matches(msg, m.keys.Back) {
			return m, m.reset()
		}
		return m, nil
	case session.StageQuiz, session.StageFlashcard:
		if key.Matches(msg, m.keys.Back) {
			m.log.Info("session abandoned", zap.Stringer("stage", m.ctrl.Stage()))
			return m, m.reset()
		}
		if m.picking {
			return m, m.updatePicker(msg)
		}
		if m.quiz != nil {
			return m, m.updateQuiz(msg)
		}
		if m.deck != nil {
			return m, m.updateDeck(msg)
		}
		return m, nil
	case session.StageSummary, session.StageError:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.shutdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			return m, m.reset()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Begin(m.form.File(), m.form.Config()); err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.form.load(m.ctrl.Config())
	m.form.err = ""
	m.submitID++
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.log.Info("submitting document",
		zap.String("file", m.ctrl.File()),
		zap.String("mode", string(m.ctrl.Config().Mode)),
		zap.Int("questions", m.ctrl.Config().NumQuestions),
	)
	return m, tea.Batch(m.spinner.Tick, fetchCmd(ctx, m.backend, m.submitID, m.ctrl.File(), m.ctrl.Config()))
}

func fetchCmd(ctx context.Context, backend session.Backend, id int, file string, cfg model.Config) tea.Cmd {
	return func() tea.Msg {
		return fetchDoneMsg{submitID: id, outcome: session.Fetch(ctx, backend, file, cfg)}
	}
}

func (m *Model) handleFetched(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.submitID != m.submitID {
		return m, nil
	}
	m.releaseFetch()
	if err := m.ctrl.Finish(msg.outcome); err != nil {
		m.log.Warn("dropping generation result", zap.Error(err))
		return m, nil
	}
	switch m.ctrl.Stage() {
	case session.StageQuiz, session.StageFlashcard:
		if len(m.ctrl.Topics()) >= 2 {
			m.picking = true
			m.topicIndex = 0
			return m, nil
		}
		return m, m.mount()
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	topics := m.ctrl.Topics()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.topicIndex = cycle(m.topicIndex, -1, len(topics)+1)
	case key.Matches(msg, m.keys.Down):
		m.topicIndex = cycle(m.topicIndex, 1, len(topics)+1)
	case key.Matches(msg, m.keys.Select):
		if m.topicIndex == 0 {
			m.ctrl.ClearTopic()
		} else if err := m.ctrl.SelectTopic(topics[m.topicIndex-1]); err != nil {
			m.log.Warn("topic selection failed", zap.Error(err))
			m.ctrl.ClearTopic()
		}
		m.picking = false
		return m.mount()
	}
	return nil
}

// mount starts the session view for the active items.
func (m *Model) mount() tea.Cmd {
	m.viewID++
	m.cursor = 0
	m.startedAt = m.now()
	cfg := m.ctrl.Config()
	switch m.ctrl.Stage() {
	case session.StageQuiz:
		items, ok := m.ctrl.ActiveQuiz()
		if !ok {
			return nil
		}
		limit := 0
		if cfg.TimerEnabled {
			limit = cfg.TimeLimitSeconds()
		}
		m.quiz = session.NewQuiz(items, limit)
		if res, done := m.quiz.Result(); done {
			return m.complete(res)
		}
	case session.StageFlashcard:
		cards, ok := m.ctrl.ActiveFlashcards()
		if !ok {
			return nil
		}
		m.deck = session.NewDeck(cards)
		if res, done := m.deck.Result(); done {
			return m.complete(res)
		}
	default:
		return nil
	}
	m.log.Debug("session view mounted", zap.Int("view", m.viewID), zap.String("topic", m.ctrl.Topic()))
	return tickCmd(m.viewID)
}

// unmount stops the session view. Messages scheduled for it are ignored
// from here on.
func (m *Model) unmount() {
	if m.quiz != nil {
		m.quiz.Stop()
	}
	if m.deck != nil {
		m.deck.Stop()
	}
	m.quiz = nil
	m.deck = nil
	m.picking = false
	m.viewID++
}

func tickCmd(id int) tea.Cmd {
	return tea.Tick(session.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{viewID: id}
	})
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.viewID != m.viewID {
		return m, nil
	}
	var ev session.TickEvent
	switch {
	case m.quiz != nil:
		ev = m.quiz.Tick()
	case m.deck != nil:
		ev = m.deck.Tick()
	default:
		return m, nil
	}
	switch ev {
	case session.TickAdvanced:
		return m, tickCmd(m.viewID)
	case session.TickExpired:
		id := m.viewID
		m.log.Info("quiz time expired", zap.Int("answered", len(m.quiz.History())), zap.Int("total", m.quiz.Len()))
		return m, tea.Tick(session.ExpiryGrace, func(time.Time) tea.Msg {
			return expireMsg{viewID: id}
		})
	}
	return m, nil
}

func (m *Model) handleExpire(msg expireMsg) (tea.Model, tea.Cmd) {
	if msg.viewID != m.viewID || m.quiz == nil {
		return m, nil
	}
	res, ok := m.quiz.Expire()
	if !ok {
		return m, nil
	}
	return m, m.complete(res)
}

func (m *Model) updateQuiz(msg tea.KeyMsg) tea.Cmd {
	item, ok := m.quiz.Current()
	if !ok {
		return nil
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if r := msg.Runes[0]; r >= '1' && r <= '9' {
			idx := int(r - '1')
			if m.quiz.Answer(idx) {
				m.cursor = idx
			}
			return nil
		}
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		if !m.quiz.Answered() {
			m.cursor = cycle(m.cursor, -1, len(item.Options))
		}
	case key.Matches(msg, m.keys.Down):
		if !m.quiz.Answered() {
			m.cursor = cycle(m.cursor, 1, len(item.Options))
		}
	case key.Matches(msg, m.keys.Select):
		if !m.quiz.Answered() {
			m.quiz.Answer(m.cursor)
			return nil
		}
		return m.advanceQuiz()
	case key.Matches(msg, m.keys.Next):
		return m.advanceQuiz()
	}
	return nil
}

func (m *Model) advanceQuiz() tea.Cmd {
	switch m.quiz.Advance() {
	case session.StepNext:
		m.cursor = 0
	case session.StepFinished:
		res, _ := m.quiz.Result()
		return m.complete(res)
	}
	return nil
}

func (m *Model) updateDeck(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Flip):
		m.deck.Flip()
	case key.Matches(msg, m.keys.Known):
		return m.rate(true)
	case key.Matches(msg, m.keys.Unknown):
		return m.rate(false)
	}
	return nil
}

func (m *Model) rate(known bool) tea.Cmd {
	switch m.deck.Rate(known) {
	case session.StepNext:
		id := m.viewID
		return tea.Tick(session.CardTransition, func(time.Time) tea.Msg {
			return cardMsg{viewID: id}
		})
	case session.StepFinished:
		res, _ := m.deck.Result()
		return m.complete(res)
	}
	return nil
}

// complete unmounts the session view, hands the result to the controller
// and records it.
func (m *Model) complete(res model.Result) tea.Cmd {
	endedAt := m.now()
	startedAt := m.startedAt
	m.unmount()
	if err := m.ctrl.Complete(res); err != nil {
		m.log.Error("failed to complete session", zap.Error(err))
		return nil
	}
	m.log.Info("session complete",
		zap.String("mode", string(res.Type)),
		zap.Int("correct", res.Correct()),
		zap.Int("total", res.Total),
		zap.Int("elapsed", res.TimeElapsed),
	)
	m.saveSession(model.SessionRecord{
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Document:  filepath.Base(m.ctrl.File()),
		Config:    m.ctrl.Config(),
		Result:    res,
	})
	m.loadRecentWeak()
	m.loadFooterStats()
	return nil
}

// reset returns to the upload form, keeping the last settings.
func (m *Model) reset() tea.Cmd {
	m.releaseFetch()
	m.unmount()
	m.ctrl.Reset()
	m.recentWeak = nil
	m.saveErr = ""
	m.form.err = ""
	return m.form.focusField(fieldFile)
}

func (m *Model) releaseFetch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) shutdown() {
	m.releaseFetch()
	m.unmount()
}

func (m *Model) saveSession(rec model.SessionRecord) {
	m.saveErr = ""
	if m.history == nil {
		return
	}
	if _, err := m.history.InsertSession(context.Background(), rec); err != nil {
		m.log.Error("failed to save session", zap.Error(err))
		m.saveErr = "History not saved: " + err.Error()
	}
}

func (m *Model) loadRecentWeak() {
	m.recentWeak = nil
	if m.history == nil || m.weakWindow <= 0 {
		return
	}
	aggs, err := m.history.GetWeakTopics(context.Background(), m.weakWindow, m.ctrl.Config().Lang)
	if err != nil {
		m.log.Warn("failed to load weak topics", zap.Error(err))
		return
	}
	m.recentWeak = statsPkg.SelectWeakTopics(aggs, m.weakTop)
}

func (m *Model) loadFooterStats() {
	m.hasLast = false
	m.allCount = 0
	if m.history == nil {
		return
	}
	sessions, err := m.history.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.log.Warn("failed to load session stats", zap.Error(err))
		return
	}
	if len(sessions) == 0 {
		return
	}
	m.lastPct = statsPkg.SessionPercent(sessions[len(sessions)-1])
	m.hasLast = true
	sum := statsPkg.Summarize(sessions)
	m.allPct = sum.AvgPercent
	m.allCount = sum.Sessions
}
