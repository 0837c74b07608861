package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
)

var bandColors = map[string]string{
	"strong":   "#52C41A",
	"moderate": "#FAAD14",
	"weak":     "#FF4D4F",
}

// View implements tea.Model.
func (m *Model) View() string {
	width := contentWidth(m.width)
	body := lipgloss.NewStyle().Width(width).Render(m.renderStage(width))
	helpLine := m.help.ShortHelpView(m.helpBindings())
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		parts := []string{body, "", helpLine}
		if footer != "" {
			parts = append(parts, footer)
		}
		return strings.Join(parts, "\n")
	}
	bottom := []string{lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)}
	if footer != "" {
		bottom = append(bottom, lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer))
	}
	if m.height <= len(bottom)+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	main := lipgloss.Place(m.width, m.height-len(bottom), lipgloss.Center, lipgloss.Center, body)
	return main + "\n" + strings.Join(bottom, "\n")
}

func (m *Model) renderStage(width int) string {
	switch m.ctrl.Stage() {
	case session.StageUpload:
		return m.form.View()
	case session.StageProcessing:
		return m.renderProcessing()
	case session.StageQuiz, session.StageFlashcard:
		switch {
		case m.picking:
			return m.renderPicker()
		case m.quiz != nil:
			return m.renderQuiz(width)
		case m.deck != nil:
			return m.renderDeck(width)
		}
		return ""
	case session.StageSummary:
		return m.renderSummary(width)
	case session.StageError:
		return m.renderError(width)
	}
	return ""
}

func (m *Model) helpBindings() []key.Binding {
	switch m.ctrl.Stage() {
	case session.StageUpload:
		return m.keys.uploadHelp()
	case session.StageProcessing:
		return []key.Binding{m.keys.Back}
	case session.StageQuiz, session.StageFlashcard:
		switch {
		case m.picking:
			return m.keys.pickerHelp()
		case m.quiz != nil:
			return m.keys.quizHelp(m.quiz.Answered())
		case m.deck != nil:
			return m.keys.deckHelp()
		}
	case session.StageSummary, session.StageError:
		return m.keys.endHelp()
	}
	return nil
}

func (m *Model) renderProcessing() string {
	var b strings.Builder
	b.WriteString(m.spinner.View() + " " + titleStyle.Render("Generating your session"))
	b.WriteString("\n\n")
	cfg := m.ctrl.Config()
	noun := "questions"
	if cfg.Mode == model.ModeFlashcard {
		noun = "flashcards"
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Reading %s and writing %d %s. This can take a minute.", displayName(m.ctrl.File()), cfg.NumQuestions, noun)))
	return b.String()
}

func (m *Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Choose a topic"))
	b.WriteString("\n\n")
	options := append([]string{"All Topics"}, m.ctrl.Topics()...)
	for i, opt := range options {
		if i == m.topicIndex {
			b.WriteString(accentStyle.Render("> " + opt))
		} else {
			b.WriteString(labelStyle.Render("  " + opt))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderQuiz(width int) string {
	item, ok := m.quiz.Current()
	if !ok {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("Question %d of %d", m.quiz.Index()+1, m.quiz.Len())
	if topic := m.ctrl.Topic(); topic != "" {
		header += "  ·  " + topic
	}
	b.WriteString(mutedStyle.Render(header))
	if clock := m.quizClock(); clock != "" {
		b.WriteString("  " + clock)
	}
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.quiz.Index()) / float64(maxInt(1, m.quiz.Len()))))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(wrapText(item.Question, width)))
	b.WriteString("\n\n")

	selected, answered := m.quiz.Selected()
	for i, opt := range item.Options {
		line := wrapText(fmt.Sprintf("%d. %s", i+1, opt), maxInt(1, width-4))
		switch {
		case answered && i == item.CorrectIndex:
			b.WriteString(correctStyle.Render("✓ " + line))
		case answered && i == selected:
			b.WriteString(errorStyle.Render("✗ " + line))
		case answered:
			b.WriteString(mutedStyle.Render("  " + line))
		case i == m.cursor:
			b.WriteString(accentStyle.Render("> " + line))
		default:
			b.WriteString(labelStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.quiz.Timer().Expired() {
		b.WriteString("\n" + warnStyle.Render("Time's up! Finishing the quiz..."))
		return b.String()
	}
	if answered {
		b.WriteString("\n")
		if selected == item.CorrectIndex {
			b.WriteString(correctStyle.Render("Correct!"))
		} else {
			b.WriteString(errorStyle.Render("Not quite."))
		}
		if strings.TrimSpace(item.Explanation) != "" {
			b.WriteString("\n" + mutedStyle.Render(wrapText(item.Explanation, width)))
		}
		next := "Press enter for the next question"
		if m.quiz.Index() == m.quiz.Len()-1 {
			next = "Press enter to see your results"
		}
		b.WriteString("\n\n" + labelStyle.Render(next))
	}
	return b.String()
}

func (m *Model) quizClock() string {
	t := m.quiz.Timer()
	if t.Limit() <= 0 {
		return mutedStyle.Render(session.FormatClock(t.Elapsed()))
	}
	remaining := t.Remaining()
	clock := session.FormatClock(remaining)
	switch {
	case remaining == 0:
		return errorStyle.Render(clock)
	case remaining <= 60:
		return warnStyle.Render(clock)
	default:
		return labelStyle.Render(clock)
	}
}

func (m *Model) renderDeck(width int) string {
	var b strings.Builder
	header := fmt.Sprintf("Card %d of %d", m.deck.Index()+1, m.deck.Len())
	if topic := m.ctrl.Topic(); topic != "" {
		header += "  ·  " + topic
	}
	b.WriteString(mutedStyle.Render(header) + "  " + mutedStyle.Render(session.FormatClock(m.deck.Timer().Elapsed())))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.deck.Index()) / float64(maxInt(1, m.deck.Len()))))
	b.WriteString("\n")
	b.WriteString(correctStyle.Render(fmt.Sprintf("Known %d", m.deck.Known())) + "  " + errorStyle.Render(fmt.Sprintf("Still learning %d", m.deck.Unknown())))
	b.WriteString("\n\n")

	card, ok := m.deck.Current()
	if !ok {
		return b.String()
	}
	inner := maxInt(1, width-6)
	var face string
	switch {
	case m.deck.Pending():
		face = mutedStyle.Render("...")
	case m.deck.Flipped():
		face = mutedStyle.Render("Back") + "\n\n" + wrapText(card.Back, inner)
	default:
		face = mutedStyle.Render("Front") + "\n\n" + titleStyle.Render(wrapText(card.Front, inner))
	}
	b.WriteString(cardStyle.Width(inner + 4).Render(face))
	return b.String()
}

func (m *Model) renderSummary(width int) string {
	res, ok := m.ctrl.Result()
	if !ok {
		return ""
	}
	var b strings.Builder
	if res.Type == model.ModeFlashcard {
		b.WriteString(titleStyle.Render("Review complete"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			correctStyle.Render(fmt.Sprintf("Known %d", res.Known)),
			errorStyle.Render(fmt.Sprintf("Still learning %d", res.Unknown)),
			labelStyle.Render(fmt.Sprintf("Total %d", res.Total)),
		))
		b.WriteString(labelStyle.Render(fmt.Sprintf("Mastery %d%%", session.Percent(res.Known, res.Total))))
		b.WriteString("\n")
	} else {
		pct := session.Percent(res.Score, res.Total)
		b.WriteString(titleStyle.Render("Quiz complete"))
		b.WriteString("\n\n")
		b.WriteString(bandStyle(session.Band(pct)).Render(fmt.Sprintf("Score %d / %d  (%d%%)", res.Score, res.Total, pct)))
		b.WriteString("\n")
		if answered := len(res.History); answered < res.Total {
			b.WriteString(warnStyle.Render(fmt.Sprintf("Answered %d of %d before time ran out", answered, res.Total)))
			b.WriteString("\n")
		}
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("Time %s  ·  %ds per item", session.FormatDuration(res.TimeElapsed), session.AveragePerItem(res))))
	b.WriteString("\n")

	if res.Type == model.ModeQuiz && len(res.History) > 0 {
		b.WriteString("\n" + titleStyle.Render("By topic") + "\n")
		b.WriteString(renderTopicBreakdown(res.History, width))
		b.WriteString("\n" + renderWeakTopics(res.History, width))
	}
	if len(m.recentWeak) > 0 {
		b.WriteString("\n" + labelStyle.Render(wrapText("Topics to review across recent sessions: "+strings.Join(m.recentWeak, ", "), width)) + "\n")
	}
	if m.saveErr != "" {
		b.WriteString("\n" + warnStyle.Render(wrapText(m.saveErr, width)) + "\n")
	}
	return b.String()
}

func renderTopicBreakdown(history []model.AnswerRecord, width int) string {
	stats := session.TopicStats(history)
	tags := session.UniqueTopics(history)
	labelWidth := 0
	for _, tag := range tags {
		labelWidth = maxInt(labelWidth, lipgloss.Width(topicName(tag)))
	}
	labelWidth = minInt(labelWidth, maxInt(8, width/3))
	var b strings.Builder
	for _, tag := range tags {
		st := stats[tag]
		pct := session.Percent(st.Correct, st.Total)
		band := session.Band(pct)
		bar := progress.New(progress.WithSolidFill(bandColors[band]), progress.WithoutPercentage(), progress.WithWidth(16))
		label := padRight(truncate(topicName(tag), labelWidth), labelWidth)
		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			labelStyle.Render(label),
			bar.ViewAs(float64(pct)/100),
			bandStyle(band).Render(fmt.Sprintf("%3d%%", pct)),
			mutedStyle.Render(fmt.Sprintf("%d/%d %s", st.Correct, st.Total, band)),
		))
	}
	return b.String()
}

type weakEntry struct {
	tag    string
	misses int
}

// weakList orders the missed topics by miss count, then name.
func weakList(history []model.AnswerRecord) []weakEntry {
	weak := session.WeakTopics(history)
	out := make([]weakEntry, 0, len(weak))
	for tag, n := range weak {
		out = append(out, weakEntry{tag: tag, misses: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].misses == out[j].misses {
			return out[i].tag < out[j].tag
		}
		return out[i].misses > out[j].misses
	})
	return out
}

func renderWeakTopics(history []model.AnswerRecord, width int) string {
	entries := weakList(history)
	if len(entries) == 0 {
		return correctStyle.Render("No weak topics this round.") + "\n"
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s (%d missed)", topicName(e.tag), e.misses)
	}
	return errorStyle.Render(wrapText("Topics to review: "+strings.Join(parts, ", "), width)) + "\n"
}

func (m *Model) renderError(width int) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Something went wrong"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(wrapText(m.ctrl.Error(), width)))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderFooter() string {
	if !m.hasLast {
		return ""
	}
	segments := []string{fmt.Sprintf("Last %d%%", m.lastPct)}
	if m.allCount > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f%% over %d sessions", m.allPct, m.allCount))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func bandStyle(band string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(bandColors[band]))
}

func topicName(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return "General"
	}
	return tag
}

func displayName(path string) string {
	if path == "" {
		return "the document"
	}
	return filepath.Base(path)
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	head, _ := splitAtWidth(s, maxInt(1, width-1))
	return head + "…"
}

func padRight(s string, width int) string {
	if pad := width - lipgloss.Width(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
