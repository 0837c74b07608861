package store

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/docquiz/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func answer(tag string, correct bool) model.AnswerRecord {
	return model.AnswerRecord{QuizItem: model.QuizItem{Question: "Q " + tag, Tag: tag}, UserCorrect: correct}
}

func quizSession(ended time.Time, lang string, history ...model.AnswerRecord) model.SessionRecord {
	score := 0
	for _, h := range history {
		if h.UserCorrect {
			score++
		}
	}
	return model.SessionRecord{
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
		Document:  "notes.pdf",
		Config:    model.Config{Mode: model.ModeQuiz, NumQuestions: len(history), Difficulty: model.DifficultyMedium, Lang: lang},
		Result:    model.Result{Type: model.ModeQuiz, Score: score, Total: len(history), History: history, TimeElapsed: 60},
	}
}

func sortTopics(aggs []model.TopicAggregate) {
	sort.Slice(aggs, func(i, j int) bool { return aggs[i].Tag < aggs[j].Tag })
}

func TestInsertAndListSessions(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := st.InsertSession(ctx, quizSession(base.Add(time.Hour), "en", answer("Cells", true), answer("Atoms", false)))
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, quizSession(base, "de", answer("Cells", false)))
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, model.SessionRecord{
		StartedAt: base.Add(2 * time.Hour),
		EndedAt:   base.Add(2*time.Hour + time.Minute),
		Document:  "cards.txt",
		Config:    model.Config{Mode: model.ModeFlashcard, Difficulty: model.DifficultyBasic, Lang: "en"},
		Result:    model.Result{Type: model.ModeFlashcard, Known: 3, Unknown: 1, Total: 4, TimeElapsed: 30},
	})
	require.NoError(t, err)

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "de", all[0].Lang)
	assert.True(t, all[0].EndedAt.Equal(base))
	assert.Equal(t, 1, all[1].Correct)
	assert.Equal(t, 2, all[1].Total)
	assert.Equal(t, model.ModeFlashcard, all[2].Mode)
	assert.Equal(t, 3, all[2].Correct)
	assert.Equal(t, "cards.txt", all[2].Document)

	en, err := st.ListSessions(ctx, model.StatsConfig{Lang: "en"})
	require.NoError(t, err)
	assert.Len(t, en, 2)

	quizzes, err := st.ListSessions(ctx, model.StatsConfig{Mode: model.ModeQuiz})
	require.NoError(t, err)
	assert.Len(t, quizzes, 2)

	since := base.Add(30 * time.Minute)
	recent, err := st.ListSessions(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestTopicAggregatesForSessions(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := st.InsertSession(ctx, quizSession(base, "en", answer("Cells", true), answer("Atoms", false)))
	require.NoError(t, err)
	second, err := st.InsertSession(ctx, quizSession(base.Add(time.Hour), "en", answer("Cells", false)))
	require.NoError(t, err)

	aggs, err := st.ListTopicAggregatesForSessions(ctx, []int64{first, second})
	require.NoError(t, err)
	sortTopics(aggs)
	assert.Equal(t, []model.TopicAggregate{
		{Tag: "Atoms", Correct: 0, Total: 1},
		{Tag: "Cells", Correct: 1, Total: 2},
	}, aggs)

	none, err := st.ListTopicAggregatesForSessions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetWeakTopicsUsesRecentWindow(t *testing.T) {
	ctx := context.Background()
	st := openTemp(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := st.InsertSession(ctx, quizSession(base, "en", answer("Old", false)))
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, quizSession(base.Add(time.Hour), "de", answer("German", false)))
	require.NoError(t, err)
	_, err = st.InsertSession(ctx, quizSession(base.Add(2*time.Hour), "en", answer("Cells", false), answer("Cells", true)))
	require.NoError(t, err)

	aggs, err := st.GetWeakTopics(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, []model.TopicAggregate{{Tag: "Cells", Correct: 1, Total: 2}}, aggs)

	aggs, err = st.GetWeakTopics(ctx, 10, "en")
	require.NoError(t, err)
	sortTopics(aggs)
	require.Len(t, aggs, 2)
	assert.Equal(t, "Cells", aggs[0].Tag)
	assert.Equal(t, "Old", aggs[1].Tag)

	aggs, err = st.GetWeakTopics(ctx, 0, "")
	require.NoError(t, err)
	assert.Empty(t, aggs)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	st, err := Open(path)
	require.NoError(t, err)
	_, err = st.InsertSession(context.Background(), quizSession(time.Now(), "en", answer("Cells", true)))
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = st.Close() }()
	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}
