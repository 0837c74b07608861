package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
)

const (
	fieldFile = iota
	fieldMode
	fieldQuestions
	fieldDifficulty
	fieldLang
	fieldTimer
	fieldTimeLimit
	fieldCount
)

var (
	formModes        = []model.Mode{model.ModeQuiz, model.ModeFlashcard}
	formDifficulties = []model.Difficulty{model.DifficultyBasic, model.DifficultyMedium, model.DifficultyAdvanced}
)

// uploadForm collects the document path and session settings.
type uploadForm struct {
	file      textinput.Model
	questions textinput.Model
	timeLimit textinput.Model

	modeIdx int
	diffIdx int
	langIdx int
	timer   bool

	focus int
	err   string
}

func newUploadForm(cfg model.Config, file string) *uploadForm {
	f := &uploadForm{}
	f.file = textinput.New()
	f.file.Prompt = ""
	f.file.Placeholder = "path/to/document.pdf"
	f.file.CharLimit = 4096
	f.file.Width = 48

	f.questions = textinput.New()
	f.questions.Prompt = ""
	f.questions.CharLimit = 3
	f.questions.Width = 4

	f.timeLimit = textinput.New()
	f.timeLimit.Prompt = ""
	f.timeLimit.CharLimit = 3
	f.timeLimit.Width = 4

	f.file.SetValue(file)
	f.load(cfg)
	f.focusField(fieldFile)
	return f
}

// load copies cfg into the form controls.
func (f *uploadForm) load(cfg model.Config) {
	cfg = session.Normalize(cfg)
	f.questions.SetValue(strconv.Itoa(cfg.NumQuestions))
	f.timeLimit.SetValue(strconv.Itoa(cfg.TimeLimit))
	f.timer = cfg.TimerEnabled
	f.modeIdx = 0
	for i, mode := range formModes {
		if mode == cfg.Mode {
			f.modeIdx = i
		}
	}
	f.diffIdx = 0
	for i, d := range formDifficulties {
		if d == cfg.Difficulty {
			f.diffIdx = i
		}
	}
	f.langIdx = 0
	for i, lang := range session.Languages {
		if lang.Code == cfg.Lang {
			f.langIdx = i
		}
	}
}

// Config returns the settings entered so far. Numeric fields fall back to
// their defaults and are clamped to range.
func (f *uploadForm) Config() model.Config {
	return model.Config{
		Mode:         formModes[f.modeIdx],
		NumQuestions: session.ParseQuestions(f.questions.Value()),
		Difficulty:   formDifficulties[f.diffIdx],
		Lang:         session.Languages[f.langIdx].Code,
		TimerEnabled: f.timer,
		TimeLimit:    session.ParseTimeLimit(f.timeLimit.Value()),
	}
}

// File returns the trimmed document path.
func (f *uploadForm) File() string {
	return strings.TrimSpace(f.file.Value())
}

func (f *uploadForm) timerApplies() bool {
	return formModes[f.modeIdx] == model.ModeQuiz
}

func (f *uploadForm) visible(field int) bool {
	switch field {
	case fieldTimer:
		return f.timerApplies()
	case fieldTimeLimit:
		return f.timerApplies() && f.timer
	default:
		return true
	}
}

func (f *uploadForm) move(delta int) tea.Cmd {
	next := f.focus
	for i := 0; i < fieldCount; i++ {
		next = (next + delta + fieldCount) % fieldCount
		if f.visible(next) {
			break
		}
	}
	return f.focusField(next)
}

func (f *uploadForm) focusField(field int) tea.Cmd {
	f.focus = field
	f.file.Blur()
	f.questions.Blur()
	f.timeLimit.Blur()
	switch field {
	case fieldFile:
		return f.file.Focus()
	case fieldQuestions:
		return f.questions.Focus()
	case fieldTimeLimit:
		return f.timeLimit.Focus()
	}
	return nil
}

// Update handles a key press. submit is true when the user asked to start.
func (f *uploadForm) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	switch msg.String() {
	case "enter":
		return true, nil
	case "tab", "down":
		return false, f.move(1)
	case "shift+tab", "up":
		return false, f.move(-1)
	}
	switch f.focus {
	case fieldFile:
		f.err = ""
		f.file, cmd = f.file.Update(msg)
		return false, cmd
	case fieldQuestions:
		if isNumericKey(msg) {
			f.questions, cmd = f.questions.Update(msg)
		}
		return false, cmd
	case fieldTimeLimit:
		if isNumericKey(msg) {
			f.timeLimit, cmd = f.timeLimit.Update(msg)
		}
		return false, cmd
	}
	delta := 0
	switch msg.String() {
	case "left", "h":
		delta = -1
	case "right", "l", " ":
		delta = 1
	default:
		return false, nil
	}
	switch f.focus {
	case fieldMode:
		f.modeIdx = cycle(f.modeIdx, delta, len(formModes))
	case fieldDifficulty:
		f.diffIdx = cycle(f.diffIdx, delta, len(formDifficulties))
	case fieldLang:
		f.langIdx = cycle(f.langIdx, delta, len(session.Languages))
	case fieldTimer:
		f.timer = !f.timer
	}
	return false, nil
}

// Forward passes non-key messages such as cursor blinks to the inputs.
func (f *uploadForm) Forward(msg tea.Msg) tea.Cmd {
	var cmds [3]tea.Cmd
	f.file, cmds[0] = f.file.Update(msg)
	f.questions, cmds[1] = f.questions.Update(msg)
	f.timeLimit, cmds[2] = f.timeLimit.Update(msg)
	return tea.Batch(cmds[:]...)
}

func isNumericKey(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cycle(idx, delta, n int) int {
	if n == 0 {
		return 0
	}
	return (idx + delta + n) % n
}

// View renders the form.
func (f *uploadForm) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upload a document"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("PDF, DOCX or TXT, up to %d MB", maxUploadMB)))
	b.WriteString("\n\n")
	rows := []struct {
		field int
		label string
		value string
	}{
		{fieldFile, "Document", f.file.View()},
		{fieldMode, "Mode", choiceView([]string{"Quiz", "Flashcards"}, f.modeIdx)},
		{fieldQuestions, "Questions", f.questions.View() + mutedStyle.Render(fmt.Sprintf(" (%d-%d)", session.MinQuestions, session.MaxQuestions))},
		{fieldDifficulty, "Difficulty", choiceView([]string{"Basic", "Medium", "Advanced"}, f.diffIdx)},
		{fieldLang, "Language", choiceView([]string{session.Languages[f.langIdx].Name}, 0)},
		{fieldTimer, "Timer", choiceView([]string{"Off", "On"}, boolIndex(f.timer))},
		{fieldTimeLimit, "Time limit", f.timeLimit.View() + mutedStyle.Render(fmt.Sprintf(" min (%d-%d)", session.MinTimeLimit, session.MaxTimeLimit))},
	}
	for _, row := range rows {
		if !f.visible(row.field) {
			continue
		}
		marker := "  "
		label := labelStyle.Render(fmt.Sprintf("%-11s", row.label))
		if row.field == f.focus {
			marker = accentStyle.Render("> ")
			label = accentStyle.Render(fmt.Sprintf("%-11s", row.label))
		}
		b.WriteString(marker + label + " " + row.value + "\n")
	}
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	return b.String()
}

func choiceView(options []string, selected int) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		if i == selected {
			parts[i] = selectedStyle.Render("[" + opt + "]")
		} else {
			parts[i] = mutedStyle.Render(" " + opt + " ")
		}
	}
	return strings.Join(parts, " ")
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}
