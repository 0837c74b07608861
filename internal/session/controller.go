package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/docquiz/internal/model"
)

// Stage is a state of the session flow.
type Stage int

// Stages. Transitions only move forward, except Reset which returns to
// StageUpload from anywhere.
const (
	StageUpload Stage = iota
	StageProcessing
	StageQuiz
	StageFlashcard
	StageSummary
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageProcessing:
		return "processing"
	case StageQuiz:
		return "quiz"
	case StageFlashcard:
		return "flashcard"
	case StageSummary:
		return "summary"
	case StageError:
		return "error"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// GenericErrorMessage is shown when a failure carries no message.
const GenericErrorMessage = "Something went wrong. Please try again."

// EmptyDeckMessage is shown when generation returns no items.
const EmptyDeckMessage = "No questions were generated from this document"

// Controller errors.
var (
	ErrBusy          = errors.New("a submission is already in progress")
	ErrNotReady      = errors.New("submit is only allowed from the upload stage")
	ErrNoFile        = errors.New("no file selected")
	ErrEmptyDeck     = errors.New(EmptyDeckMessage)
	ErrNotProcessing = errors.New("no submission in progress")
	ErrNoSession     = errors.New("no active session")
	ErrUnknownTopic  = errors.New("unknown topic")
	ErrResultType    = errors.New("result type does not match session mode")
)

// Backend is the remote upload and generation service.
type Backend interface {
	Upload(ctx context.Context, path string) (string, error)
	Generate(ctx context.Context, sessionID string, cfg model.Config) (model.Content, error)
}

// Outcome is the result of one upload and generate sequence.
type Outcome struct {
	SessionID string
	Content   model.Content
	Err       error
}

// Controller owns all session state. Every transition reads and writes the
// current value; nothing is captured elsewhere.
type Controller struct {
	log *zap.Logger

	stage     Stage
	cfg       model.Config
	file      string
	sessionID string
	content   model.Content
	topics    []string
	topic     string
	result    model.Result
	hasResult bool
	errMsg    string
}

// NewController returns a controller on the upload stage.
func NewController(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{log: log, cfg: DefaultConfig()}
}

// Stage returns the current stage.
func (c *Controller) Stage() Stage { return c.stage }

// Config returns the settings of the current submission.
func (c *Controller) Config() model.Config { return c.cfg }

// File returns the submitted document path.
func (c *Controller) File() string { return c.file }

// SessionID returns the server session identifier, if upload succeeded.
func (c *Controller) SessionID() string { return c.sessionID }

// Topics returns the distinct topics of the generated items.
func (c *Controller) Topics() []string { return append([]string(nil), c.topics...) }

// Topic returns the selected topic, or "" for all topics.
func (c *Controller) Topic() string { return c.topic }

// Error returns the message shown on the error stage.
func (c *Controller) Error() string { return c.errMsg }

// Result returns the completed session result on the summary stage.
func (c *Controller) Result() (model.Result, bool) { return c.result, c.hasResult }

// Begin moves from upload to processing. It rejects re-entry while a
// submission is in flight, so at most one sequence runs per session.
func (c *Controller) Begin(file string, cfg model.Config) error {
	switch c.stage {
	case StageUpload:
	case StageProcessing:
		return ErrBusy
	default:
		return ErrNotReady
	}
	if strings.TrimSpace(file) == "" {
		return ErrNoFile
	}
	c.file = file
	c.cfg = Normalize(cfg)
	c.errMsg = ""
	c.transition(StageProcessing)
	return nil
}

// Fetch uploads file and then requests generated content. Generation runs
// only if upload returned a session id. Fetch does not touch controller
// state and may run on another goroutine.
func Fetch(ctx context.Context, backend Backend, file string, cfg model.Config) Outcome {
	sessionID, err := backend.Upload(ctx, file)
	if err != nil {
		return Outcome{Err: err}
	}
	content, err := backend.Generate(ctx, sessionID, cfg)
	if err != nil {
		return Outcome{SessionID: sessionID, Err: err}
	}
	if content.Len(cfg.Mode) == 0 {
		return Outcome{SessionID: sessionID, Err: ErrEmptyDeck}
	}
	return Outcome{SessionID: sessionID, Content: content}
}

// Finish applies an outcome and moves to the session stage or the error
// stage.
func (c *Controller) Finish(o Outcome) error {
	if c.stage != StageProcessing {
		return ErrNotProcessing
	}
	c.sessionID = o.SessionID
	if o.Err != nil {
		c.errMsg = ErrorMessage(o.Err)
		c.log.Error("session submission failed", zap.String("file", c.file), zap.Error(o.Err))
		c.transition(StageError)
		return nil
	}
	c.content = o.Content
	if c.cfg.Mode == model.ModeFlashcard {
		c.topics = UniqueTopics(c.content.Flashcards)
		c.transition(StageFlashcard)
	} else {
		c.topics = UniqueTopics(c.content.Quiz)
		c.transition(StageQuiz)
	}
	c.log.Info("session ready",
		zap.String("session_id", c.sessionID),
		zap.String("mode", string(c.cfg.Mode)),
		zap.Int("items", c.content.Len(c.cfg.Mode)),
		zap.Strings("topics", c.topics),
	)
	return nil
}

// Submit runs Begin, Fetch and Finish in sequence.
func (c *Controller) Submit(ctx context.Context, backend Backend, file string, cfg model.Config) error {
	if err := c.Begin(file, cfg); err != nil {
		return err
	}
	return c.Finish(Fetch(ctx, backend, c.file, c.cfg))
}

// SelectTopic narrows the active items to tag. It is allowed only while a
// session stage is active and tag is one of Topics.
func (c *Controller) SelectTopic(tag string) error {
	if !c.inSession() {
		return ErrNoSession
	}
	for _, t := range c.topics {
		if t == tag {
			c.topic = tag
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownTopic, tag)
}

// ClearTopic selects all topics.
func (c *Controller) ClearTopic() {
	c.topic = ""
}

// ActiveQuiz returns the quiz items for the current topic selection.
func (c *Controller) ActiveQuiz() ([]model.QuizItem, bool) {
	if c.stage != StageQuiz || c.content.Quiz == nil {
		return nil, false
	}
	return FilterByTopic(c.content.Quiz, c.topic), true
}

// ActiveFlashcards returns the cards for the current topic selection.
func (c *Controller) ActiveFlashcards() ([]model.Flashcard, bool) {
	if c.stage != StageFlashcard || c.content.Flashcards == nil {
		return nil, false
	}
	return FilterByTopic(c.content.Flashcards, c.topic), true
}

// Complete stores the session result and moves to the summary stage.
func (c *Controller) Complete(result model.Result) error {
	if !c.inSession() {
		return ErrNoSession
	}
	if (c.stage == StageQuiz) != (result.Type == model.ModeQuiz) {
		return ErrResultType
	}
	c.result = result
	c.hasResult = true
	c.transition(StageSummary)
	return nil
}

// Reset returns to the upload stage and discards every piece of session
// state. The last used settings are kept for the next upload form.
func (c *Controller) Reset() {
	cfg := c.cfg
	*c = Controller{log: c.log, cfg: cfg}
	c.log.Debug("session reset")
}

func (c *Controller) inSession() bool {
	return c.stage == StageQuiz || c.stage == StageFlashcard
}

func (c *Controller) transition(next Stage) {
	c.log.Debug("stage transition", zap.Stringer("from", c.stage), zap.Stringer("to", next))
	c.stage = next
}

// ErrorMessage returns the text shown for err on the error stage.
func ErrorMessage(err error) string {
	if err == nil {
		return GenericErrorMessage
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return GenericErrorMessage
}
