package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/docquiz/internal/api"
	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
)

type fakeBackend struct {
	content   model.Content
	uploadErr error
	genErr    error
}

func (f *fakeBackend) Upload(ctx context.Context, path string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "sess-1", nil
}

func (f *fakeBackend) Generate(ctx context.Context, sessionID string, cfg model.Config) (model.Content, error) {
	if f.genErr != nil {
		return model.Content{}, f.genErr
	}
	return f.content, nil
}

type fakeHistory struct {
	saved []model.SessionRecord
	weak  []model.TopicAggregate
}

func (f *fakeHistory) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	f.saved = append(f.saved, rec)
	return int64(len(f.saved)), nil
}

func (f *fakeHistory) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	out := make([]model.SessionAggregate, 0, len(f.saved))
	for i, rec := range f.saved {
		out = append(out, model.SessionAggregate{
			SessionID: int64(i + 1),
			EndedAt:   rec.EndedAt,
			Mode:      rec.Result.Type,
			Correct:   rec.Result.Correct(),
			Total:     rec.Result.Total,
		})
	}
	return out, nil
}

func (f *fakeHistory) GetWeakTopics(ctx context.Context, window int, lang string) ([]model.TopicAggregate, error) {
	return f.weak, nil
}

func quizItems(tags ...string) []model.QuizItem {
	items := make([]model.QuizItem, len(tags))
	for i, tag := range tags {
		items[i] = model.QuizItem{
			Question:     "Question " + tag,
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: 0,
			Explanation:  "A is right.",
			Tag:          tag,
		}
	}
	return items
}

func newTestModel(backend *fakeBackend, hist *fakeHistory, cfg model.Config) *Model {
	opts := Options{Backend: backend, Config: cfg, File: "notes.pdf", WeakWindow: 5, WeakTop: 3}
	if hist != nil {
		opts.History = hist
	}
	return NewModel(opts)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// submitAndFetch presses enter on the form and delivers the fetch result
// synchronously.
func submitAndFetch(t *testing.T, m *Model) tea.Cmd {
	t.Helper()
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, session.StageProcessing, m.ctrl.Stage())
	msg := fetchCmd(context.Background(), m.backend, m.submitID, m.ctrl.File(), m.ctrl.Config())()
	_, cmd := m.Update(msg)
	return cmd
}

func TestUploadFailureShowsServerMessage(t *testing.T) {
	backend := &fakeBackend{uploadErr: &api.Error{Op: "upload", Status: 400, Message: "file too large"}}
	m := newTestModel(backend, nil, session.DefaultConfig())

	submitAndFetch(t, m)

	assert.Equal(t, session.StageError, m.ctrl.Stage())
	assert.Equal(t, "file too large", m.ctrl.Error())
	assert.Contains(t, m.View(), "file too large")

	press(m, runes("r"))
	assert.Equal(t, session.StageUpload, m.ctrl.Stage())
	assert.Empty(t, m.ctrl.Error())
}

func TestEmptyFileStaysOnForm(t *testing.T) {
	m := NewModel(Options{Backend: &fakeBackend{}, Config: session.DefaultConfig()})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, session.StageUpload, m.ctrl.Stage())
	assert.Equal(t, session.ErrNoFile.Error(), m.form.err)
}

func TestQuizFlowScoresAndSaves(t *testing.T) {
	hist := &fakeHistory{weak: []model.TopicAggregate{{Tag: "Cells", Correct: 1, Total: 3}}}
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Cells", "Cells", "Cells")}}
	m := newTestModel(backend, hist, session.DefaultConfig())

	cmd := submitAndFetch(t, m)
	require.NotNil(t, cmd, "mounting should schedule a tick")
	require.Equal(t, session.StageQuiz, m.ctrl.Stage())
	require.NotNil(t, m.quiz)
	assert.False(t, m.picking)

	press(m, runes("1"), tea.KeyMsg{Type: tea.KeyEnter})
	press(m, runes("2"), tea.KeyMsg{Type: tea.KeyEnter})
	press(m, runes("1"), tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, session.StageSummary, m.ctrl.Stage())
	res, ok := m.ctrl.Result()
	require.True(t, ok)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.History, 3)

	require.Len(t, hist.saved, 1)
	assert.Equal(t, "notes.pdf", hist.saved[0].Document)
	assert.Equal(t, []string{"Cells"}, m.recentWeak)
	assert.True(t, m.hasLast)
	assert.Equal(t, 67, m.lastPct)
}

func TestAnswerIsFinal(t *testing.T) {
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Cells")}}
	m := newTestModel(backend, nil, session.DefaultConfig())
	submitAndFetch(t, m)

	press(m, runes("2"), runes("1"))
	sel, ok := m.quiz.Selected()
	require.True(t, ok)
	assert.Equal(t, 1, sel)
	assert.Equal(t, 0, m.quiz.Score())
}

func TestTopicPickerNarrowsItems(t *testing.T) {
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Biology", "Chemistry", "Biology")}}
	m := newTestModel(backend, nil, session.DefaultConfig())

	cmd := submitAndFetch(t, m)
	assert.Nil(t, cmd)
	require.True(t, m.picking)
	assert.Nil(t, m.quiz)

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, m.quiz)
	assert.Equal(t, "Biology", m.ctrl.Topic())
	assert.Equal(t, 2, m.quiz.Len())
}

func TestTickAfterAbandonIsIgnored(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.TimerEnabled = true
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Cells", "Cells")}}
	m := newTestModel(backend, nil, cfg)
	submitAndFetch(t, m)

	oldView := m.viewID
	quiz := m.quiz
	press(m, tickMsg{viewID: oldView})
	require.Equal(t, 1, quiz.Timer().Elapsed())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, session.StageUpload, m.ctrl.Stage())

	cmd := press(m, tickMsg{viewID: oldView})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, quiz.Timer().Elapsed())
	assert.True(t, quiz.Timer().Stopped())
}

func TestTimerExpiryUsesCurrentAnswers(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.TimerEnabled = true
	cfg.TimeLimit = 1
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Cells", "Cells", "Cells")}}
	m := newTestModel(backend, nil, cfg)
	submitAndFetch(t, m)

	press(m, runes("1"))
	var cmd tea.Cmd
	for i := 0; i < 60; i++ {
		cmd = press(m, tickMsg{viewID: m.viewID})
		require.NotNil(t, cmd)
	}
	require.True(t, m.quiz.Timer().Expired())
	assert.Contains(t, m.View(), "Time's up")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.quiz.Index(), "advancing after expiry is refused")

	press(m, expireMsg{viewID: m.viewID})
	require.Equal(t, session.StageSummary, m.ctrl.Stage())
	res, _ := m.ctrl.Result()
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
	assert.Len(t, res.History, 1)
	assert.Equal(t, 60, res.TimeElapsed)
}

func TestFlashcardFlowCountsBothRatings(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Mode = model.ModeFlashcard
	backend := &fakeBackend{content: model.Content{Flashcards: []model.Flashcard{
		{Front: "ATP", Back: "Energy currency", Tag: "Cells"},
		{Front: "DNA", Back: "Genetic material", Tag: "Cells"},
	}}}
	hist := &fakeHistory{}
	m := newTestModel(backend, hist, cfg)
	submitAndFetch(t, m)
	require.Equal(t, session.StageFlashcard, m.ctrl.Stage())

	press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.deck.Flipped())
	cmd := press(m, runes("y"))
	require.NotNil(t, cmd)
	require.True(t, m.deck.Pending())
	press(m, runes("n"))
	assert.Equal(t, 0, m.deck.Unknown(), "rating while pending is ignored")

	press(m, cardMsg{viewID: m.viewID})
	assert.Equal(t, 1, m.deck.Index())
	press(m, runes("n"))

	require.Equal(t, session.StageSummary, m.ctrl.Stage())
	res, _ := m.ctrl.Result()
	assert.Equal(t, 1, res.Known)
	assert.Equal(t, 1, res.Unknown)
	assert.Equal(t, 2, res.Total)
	require.Len(t, hist.saved, 1)
}

func TestStaleFetchAfterCancelIsDropped(t *testing.T) {
	backend := &fakeBackend{content: model.Content{Quiz: quizItems("Cells")}}
	m := newTestModel(backend, nil, session.DefaultConfig())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	stale := fetchCmd(context.Background(), m.backend, m.submitID, m.ctrl.File(), m.ctrl.Config())()
	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, session.StageUpload, m.ctrl.Stage())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, session.StageProcessing, m.ctrl.Stage())
	press(m, stale)
	assert.Equal(t, session.StageProcessing, m.ctrl.Stage())
}

func TestGenerateFailureFallsBackToGenericMessage(t *testing.T) {
	backend := &fakeBackend{genErr: errors.New(" ")}
	m := newTestModel(backend, nil, session.DefaultConfig())
	submitAndFetch(t, m)
	assert.Equal(t, session.StageError, m.ctrl.Stage())
	assert.Equal(t, session.GenericErrorMessage, m.ctrl.Error())
}

func TestWeakListOrdersByMisses(t *testing.T) {
	history := []model.AnswerRecord{
		{QuizItem: model.QuizItem{Tag: "Cells"}, UserCorrect: false},
		{QuizItem: model.QuizItem{Tag: "Atoms"}, UserCorrect: false},
		{QuizItem: model.QuizItem{Tag: "Cells"}, UserCorrect: false},
		{QuizItem: model.QuizItem{Tag: "Genes"}, UserCorrect: true},
	}
	got := weakList(history)
	require.Len(t, got, 2)
	assert.Equal(t, weakEntry{tag: "Cells", misses: 2}, got[0])
	assert.Equal(t, weakEntry{tag: "Atoms", misses: 1}, got[1])
}
