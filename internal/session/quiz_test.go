package session

import (
	"testing"

	"github.com/verte-zerg/docquiz/internal/model"
)

func testItems(tags ...string) []model.QuizItem {
	items := make([]model.QuizItem, len(tags))
	for i, tag := range tags {
		items[i] = model.QuizItem{
			Question:     "Q" + tag,
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 2,
			Tag:          tag,
		}
	}
	return items
}

func TestQuizScoresAnswers(t *testing.T) {
	q := NewQuiz(testItems("Cells", "Atoms", "Cells"), 0)
	answers := []int{2, 0, 2}
	for i, a := range answers {
		if !q.Answer(a) {
			t.Fatalf("answer %d rejected", i)
		}
		step := q.Advance()
		if i < len(answers)-1 && step != StepNext {
			t.Fatalf("expected next after answer %d, got %v", i, step)
		}
		if i == len(answers)-1 && step != StepFinished {
			t.Fatalf("expected finish after last answer, got %v", step)
		}
	}
	res, ok := q.Result()
	if !ok {
		t.Fatalf("expected finished quiz")
	}
	if res.Type != model.ModeQuiz || res.Score != 2 || res.Total != 3 || len(res.History) != 3 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.History[0].UserCorrect || res.History[1].UserCorrect || !res.History[2].UserCorrect {
		t.Fatalf("unexpected history: %+v", res.History)
	}
}

func TestQuizAnswerOncePerItem(t *testing.T) {
	q := NewQuiz(testItems("Cells", "Cells"), 0)
	if !q.Answer(0) {
		t.Fatalf("first answer rejected")
	}
	if q.Answer(2) {
		t.Fatalf("second answer on the same item accepted")
	}
	if q.Score() != 0 || len(q.History()) != 1 {
		t.Fatalf("second answer changed the score")
	}
}

func TestQuizRejectsOutOfRangeAndUnansweredAdvance(t *testing.T) {
	q := NewQuiz(testItems("Cells"), 0)
	if q.Advance() != StepIgnored {
		t.Fatalf("advance before answering should be ignored")
	}
	if q.Answer(4) || q.Answer(-1) {
		t.Fatalf("out of range answer accepted")
	}
	if q.Answered() {
		t.Fatalf("no answer should be recorded")
	}
}

func TestQuizExpiryFinishesWithCurrentState(t *testing.T) {
	q := NewQuiz(testItems("Cells", "Atoms", "Genes"), 60)
	q.Answer(2)
	q.Advance()
	q.Answer(1)
	var ev TickEvent
	for i := 0; i < 60; i++ {
		ev = q.Tick()
	}
	if ev != TickExpired {
		t.Fatalf("expected expiry on the 60th tick, got %v", ev)
	}
	if q.Advance() != StepIgnored || q.Answer(0) {
		t.Fatalf("input after expiry should be ignored")
	}
	res, ok := q.Expire()
	if !ok {
		t.Fatalf("expected expire to finish the quiz")
	}
	if res.Score != 1 || res.Total != 3 || len(res.History) != 2 || res.TimeElapsed != 60 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if _, again := q.Expire(); again {
		t.Fatalf("expire should only finish once")
	}
}

func TestQuizExpiryWithNoAnswers(t *testing.T) {
	q := NewQuiz(testItems("Cells", "Atoms"), 60)
	for i := 0; i < 60; i++ {
		q.Tick()
	}
	res, ok := q.Expire()
	if !ok {
		t.Fatalf("expected result")
	}
	if res.Score != 0 || res.Total != 2 || len(res.History) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQuizExpireBeforeLimitIsNoop(t *testing.T) {
	q := NewQuiz(testItems("Cells"), 60)
	q.Tick()
	if _, ok := q.Expire(); ok {
		t.Fatalf("expire before the limit should do nothing")
	}
	if q.Finished() {
		t.Fatalf("quiz should still be running")
	}
}

func TestQuizStopIgnoresLaterTicks(t *testing.T) {
	q := NewQuiz(testItems("Cells"), 60)
	q.Tick()
	q.Stop()
	for i := 0; i < 100; i++ {
		if q.Tick() != TickIgnored {
			t.Fatalf("tick after stop changed state")
		}
	}
	if q.Timer().Elapsed() != 1 || q.Timer().Expired() {
		t.Fatalf("unexpected timer state after stop")
	}
}

func TestEmptyQuizFinishesImmediately(t *testing.T) {
	q := NewQuiz(nil, 60)
	res, ok := q.Result()
	if !ok || res.Total != 0 || res.Score != 0 {
		t.Fatalf("unexpected empty quiz result: %+v ok=%v", res, ok)
	}
	if q.Tick() != TickIgnored {
		t.Fatalf("finished quiz should ignore ticks")
	}
}
