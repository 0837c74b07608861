package session

import "github.com/verte-zerg/docquiz/internal/model"

// Step reports what Advance or Rate did.
type Step int

// Step outcomes.
const (
	StepIgnored Step = iota
	StepNext
	StepFinished
)

// Quiz scores a timed multiple-choice session. It owns its timer so every
// read of score and history at expiry sees the current values.
type Quiz struct {
	items    []model.QuizItem
	index    int
	selected int
	score    int
	history  []model.AnswerRecord
	timer    *Timer
	finished bool
	result   model.Result
}

// NewQuiz starts a quiz over items. limitSeconds of zero disables expiry.
// An empty item list finishes immediately with a 0/0 result.
func NewQuiz(items []model.QuizItem, limitSeconds int) *Quiz {
	q := &Quiz{
		items:    items,
		selected: -1,
		timer:    NewTimer(limitSeconds),
	}
	if len(items) == 0 {
		q.finish()
	}
	return q
}

// Current returns the item being shown.
func (q *Quiz) Current() (model.QuizItem, bool) {
	if q.index >= len(q.items) {
		return model.QuizItem{}, false
	}
	return q.items[q.index], true
}

// Index returns the zero-based position of the current item.
func (q *Quiz) Index() int { return q.index }

// Len returns the number of items.
func (q *Quiz) Len() int { return len(q.items) }

// Score returns the running count of correct answers.
func (q *Quiz) Score() int { return q.score }

// History returns a copy of the answer records in answer order.
func (q *Quiz) History() []model.AnswerRecord {
	return append([]model.AnswerRecord(nil), q.history...)
}

// Selected returns the option chosen for the current item.
func (q *Quiz) Selected() (int, bool) {
	return q.selected, q.selected >= 0
}

// Answered reports whether the current item has been answered.
func (q *Quiz) Answered() bool { return q.selected >= 0 }

// Timer exposes the quiz timer for display.
func (q *Quiz) Timer() *Timer { return q.timer }

// Finished reports whether the result has been produced.
func (q *Quiz) Finished() bool { return q.finished }

// Result returns the final result once Finished is true.
func (q *Quiz) Result() (model.Result, bool) {
	return q.result, q.finished
}

// Answer records option index for the current item. It returns false and
// changes nothing when the item is already answered, time has expired, the
// quiz is finished, or index is not an option.
func (q *Quiz) Answer(index int) bool {
	if q.finished || q.Answered() || q.timer.Expired() {
		return false
	}
	item, ok := q.Current()
	if !ok || index < 0 || index >= len(item.Options) {
		return false
	}
	q.selected = index
	correct := index == item.CorrectIndex
	if correct {
		q.score++
	}
	q.history = append(q.history, model.AnswerRecord{QuizItem: item, UserCorrect: correct})
	return true
}

// Advance moves to the next item, or finishes after the last one. The
// current item must be answered first.
func (q *Quiz) Advance() Step {
	if q.finished || !q.Answered() || q.timer.Expired() {
		return StepIgnored
	}
	if q.index < len(q.items)-1 {
		q.index++
		q.selected = -1
		return StepNext
	}
	q.finish()
	return StepFinished
}

// Tick forwards a one-second tick to the timer. It is ignored once the quiz
// is finished.
func (q *Quiz) Tick() TickEvent {
	if q.finished {
		return TickIgnored
	}
	return q.timer.Tick()
}

// Expire finishes the quiz after the timer expired, using the score and
// history as they are now. It is a no-op unless the timer has expired.
func (q *Quiz) Expire() (model.Result, bool) {
	if q.finished {
		return q.result, false
	}
	if !q.timer.Expired() {
		return model.Result{}, false
	}
	q.finish()
	return q.result, true
}

// Stop halts the timer without producing a result, for when the view is
// dismissed early.
func (q *Quiz) Stop() {
	q.timer.Stop()
}

func (q *Quiz) finish() {
	q.timer.Stop()
	q.finished = true
	q.result = model.Result{
		Type:        model.ModeQuiz,
		Score:       q.score,
		Total:       len(q.items),
		History:     q.History(),
		TimeElapsed: q.timer.Elapsed(),
	}
}
