package historyui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
)

const dateLayout = "2006-01-02"

const (
	fieldLang = iota
	fieldMode
	fieldSince
	fieldLast
	fieldWindow
	fieldCount
)

var fieldPrompts = [fieldCount]string{
	fieldLang:   "Lang: ",
	fieldMode:   "Mode (quiz/flashcard): ",
	fieldSince:  "Since (YYYY-MM-DD): ",
	fieldLast:   "Last: ",
	fieldWindow: "Window: ",
}

// filterForm edits the report filters in place of the tab body.
type filterForm struct {
	inputs []textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	f := filterForm{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = fieldPrompts[i]
		in.Cursor.SetMode(cursor.CursorBlink)
		f.inputs[i] = in
	}
	return f
}

// load shows the active filters.
func (f *filterForm) load(cfg model.StatsConfig, window int) {
	since := ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	last := ""
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldLang].SetValue(cfg.Lang)
	f.inputs[fieldMode].SetValue(string(cfg.Mode))
	f.inputs[fieldSince].SetValue(since)
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(window))
	f.err = ""
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = maxInt(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

func (f *filterForm) focusAt(idx int) tea.Cmd {
	f.focus = (idx + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *filterForm) shift(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyShiftTab {
		return f.focusAt(f.focus - 1)
	}
	return f.focusAt(f.focus + 1)
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *filterForm) parse() (model.StatsConfig, int, error) {
	return ParseFilters(
		f.inputs[fieldLang].Value(),
		f.inputs[fieldMode].Value(),
		f.inputs[fieldSince].Value(),
		f.inputs[fieldLast].Value(),
		f.inputs[fieldWindow].Value(),
	)
}

func (f *filterForm) view() string {
	lines := make([]string, 0, len(f.inputs)+2)
	lines = append(lines, cardTitleStyle.Render("Filters"))
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// ParseFilters validates raw filter values. An empty window returns 0.
func ParseFilters(lang, mode, since, last, window string) (model.StatsConfig, int, error) {
	var cfg model.StatsConfig
	cfg.Lang = strings.ToLower(strings.TrimSpace(lang))
	if cfg.Lang != "" && !session.IsSupportedLang(cfg.Lang) {
		return model.StatsConfig{}, 0, fmt.Errorf("invalid lang %q (use one of %s)", cfg.Lang, strings.Join(session.LanguageCodes(), ", "))
	}
	switch m := model.Mode(strings.ToLower(strings.TrimSpace(mode))); m {
	case "", model.ModeQuiz, model.ModeFlashcard:
		cfg.Mode = m
	default:
		return model.StatsConfig{}, 0, fmt.Errorf("invalid mode %q (use quiz or flashcard)", mode)
	}
	if s := strings.TrimSpace(since); s != "" {
		parsed, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			return model.StatsConfig{}, 0, fmt.Errorf("invalid since date %q (expected YYYY-MM-DD)", s)
		}
		cfg.Since = &parsed
	}
	if s := strings.TrimSpace(last); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return model.StatsConfig{}, 0, fmt.Errorf("invalid last value %q (use 0 or a positive integer)", s)
		}
		cfg.Last = n
	}
	w := 0
	if s := strings.TrimSpace(window); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return model.StatsConfig{}, 0, fmt.Errorf("invalid window %q (use an integer >= 1)", s)
		}
		w = n
	}
	return cfg, w, nil
}
