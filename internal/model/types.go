// Package model defines shared data structures.
package model

import "time"

// Mode selects the kind of generated content.
type Mode string

// Supported session modes.
const (
	ModeQuiz      Mode = "quiz"
	ModeFlashcard Mode = "flashcard"
)

// Difficulty is passed through to the generator.
type Difficulty string

// Supported difficulty levels.
const (
	DifficultyBasic    Difficulty = "basic"
	DifficultyMedium   Difficulty = "medium"
	DifficultyAdvanced Difficulty = "advanced"
)

// Config defines session settings chosen on the upload stage.
type Config struct {
	Mode         Mode
	NumQuestions int
	Difficulty   Difficulty
	Lang         string
	TimerEnabled bool
	// TimeLimit is in minutes.
	TimeLimit int
}

// TimeLimitSeconds returns the configured limit in seconds.
func (c Config) TimeLimitSeconds() int {
	return c.TimeLimit * 60
}

// QuizItem is a generated multiple-choice question.
type QuizItem struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"min=2,dive,required"`
	CorrectIndex int      `json:"correctIndex" validate:"min=0"`
	Explanation  string   `json:"explanation"`
	Tag          string   `json:"tag"`
}

// Flashcard is a generated front/back card.
type Flashcard struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
	Tag   string `json:"tag"`
}

// AnswerRecord is a quiz item with the outcome of the user's answer.
type AnswerRecord struct {
	QuizItem
	UserCorrect bool
}

// Result captures a completed session. Type selects which fields are set.
type Result struct {
	Type        Mode
	Score       int
	Known       int
	Unknown     int
	Total       int
	History     []AnswerRecord
	TimeElapsed int
}

// Correct returns the score for quizzes and the known count for flashcards.
func (r Result) Correct() int {
	if r.Type == ModeFlashcard {
		return r.Known
	}
	return r.Score
}

// TopicStat is the per-topic aggregate for one session.
type TopicStat struct {
	Correct int
	Total   int
}

// StatsConfig defines filters for the history stats.
type StatsConfig struct {
	Lang  string
	Mode  Mode
	Since *time.Time
	Last  int
}

// SessionRecord is a completed session as stored in the history database.
type SessionRecord struct {
	StartedAt time.Time
	EndedAt   time.Time
	Document  string
	Config    Config
	Result    Result
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID   int64
	EndedAt     time.Time
	Document    string
	Mode        Mode
	Lang        string
	Difficulty  Difficulty
	Correct     int
	Total       int
	TimeElapsed int
}

// TopicAggregate aggregates answer records for one topic across sessions.
type TopicAggregate struct {
	Tag     string
	Correct int
	Total   int
}

// Topic returns the item's tag.
func (q QuizItem) Topic() string { return q.Tag }

// Topic returns the card's tag.
func (f Flashcard) Topic() string { return f.Tag }

// Content is the generated item list for one session. Only the list that
// matches the requested mode is set.
type Content struct {
	Quiz       []QuizItem  `json:"quiz,omitempty"`
	Flashcards []Flashcard `json:"flashcards,omitempty"`
}

// Len returns the number of items for the given mode.
func (c Content) Len(mode Mode) int {
	if mode == ModeFlashcard {
		return len(c.Flashcards)
	}
	return len(c.Quiz)
}
