package historyui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/stats"
)

var (
	colorAccent = lipgloss.Color("#C89A3A")
	colorBright = lipgloss.Color("#F0F0F0")
	colorDim    = lipgloss.Color("#6E6E6E")
	colorEdge   = lipgloss.Color("#4A4A4A")

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorEdge).
			Foreground(lipgloss.Color("#B0B0B0"))
	activeTabStyle = tabStyle.
			BorderForeground(colorAccent).
			Foreground(colorBright).
			Bold(true)
	headerStyle    = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle      = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(colorEdge)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	trendStyle     = lipgloss.NewStyle().Foreground(colorAccent)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	return lipgloss.JoinVertical(lipgloss.Left,
		fitBlock(m.renderHeader(), m.width, headerHeight),
		fitBlock(m.renderBody(), m.width, bodyHeight),
		fitBlock(m.renderFooter(), m.width, footerHeight),
	)
}

func (m *Model) layoutHeights() (header, body, footer int) {
	header = lipgloss.Height(tabStyle.Render("x")) + 1
	footer = 1
	if !m.filtering && m.errMsg != "" {
		footer++
	}
	body = maxInt(1, m.height-header-footer)
	return header, body, footer
}

func (m *Model) renderHeader() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if i == m.activeTab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + headerStyle.Render(runewidth.Truncate(m.filterSummary(), m.width, "..."))
}

func (m *Model) filterSummary() string {
	lang := orAny(m.cfg.Lang)
	mode := orAny(string(m.cfg.Mode))
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return fmt.Sprintf("Filters: lang=%s  mode=%s  since=%s  last=%s  window=%d", lang, mode, since, last, m.window)
}

func orAny(v string) string {
	if v == "" {
		return "any"
	}
	return v
}

func (m *Model) renderFooter() string {
	bindings := m.keys.browseHelp()
	if m.filtering {
		bindings = m.keys.filterHelp()
	}
	line := m.help.ShortHelpView(bindings)
	if !m.filtering && m.errMsg != "" {
		line += "\n" + errorStyle.Render(m.errMsg)
	}
	return line
}

func (m *Model) renderBody() string {
	if m.filtering {
		return m.filter.view()
	}
	switch m.activeTab {
	case tabSessions:
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
		return mutedStyle.Render(m.sessions.View())
	case tabTopics:
		if len(m.report.TopicAggsWindow) == 0 {
			return "No topic stats found. Topics are recorded for quiz sessions."
		}
		return mutedStyle.Render(m.topics.View())
	default:
		return m.overview.View()
	}
}

// renderOverview lays out the summary cards, the score trend and the topic
// highlights of report.
func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	blocks := []string{summaryCards(report.Sessions, width), trendBlock(report.Sessions, window, width)}
	if weak := stats.SelectWeakTopics(report.TopicAggsWindow, 5); len(weak) > 0 {
		blocks = append(blocks, cardTitleStyle.Render("Topics to review: ")+strings.Join(weak, ", "))
	}
	if top := stats.TopTopicsByFrequency(report.TopicAggsAll, 5); len(top) > 0 {
		blocks = append(blocks, cardTitleStyle.Render("Most practiced: ")+strings.Join(top, ", "))
	}
	return strings.Join(blocks, "\n\n")
}

func summaryCards(sessions []model.SessionAggregate, width int) string {
	sum := stats.Summarize(sessions)
	cards := []string{
		card("Sessions", strconv.Itoa(sum.Sessions)),
		card("Quiz / Flashcard", fmt.Sprintf("%d / %d", sum.QuizSessions, sum.FlashSessions)),
		card("Items", strconv.Itoa(sum.Items)),
		card("Avg Score", fmt.Sprintf("%.1f%%", sum.AvgPercent)),
		card("Best Score", fmt.Sprintf("%d%%", sum.BestPercent)),
		card("Avg Time/Item", fmt.Sprintf("%.1fs", sum.AvgSecPerItem)),
	}
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
		lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...),
	)
}

func card(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func trendBlock(sessions []model.SessionAggregate, window, width int) string {
	values := stats.ScoreTrend(sessions, window, maxInt(1, width-2))
	latest := ""
	if n := len(values); n > 0 {
		latest = fmt.Sprintf("latest %.0f%%", values[n-1])
	}
	return cardTitleStyle.Render(fmt.Sprintf("Score trend (avg of %d)", window)) + "\n" +
		trendStyle.Render(stats.Sparkline(values)) + "\n" +
		headerStyle.Render(latest)
}

func newTable(columns []table.Column) table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorEdge).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1, 0, 0)
	styles.Cell = styles.Cell.Padding(0, 1, 0, 0)
	styles.Selected = styles.Cell.Foreground(colorBright).Bold(true)

	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	t.SetStyles(styles)
	return t
}

// sessionColumns gives the document column whatever width is left.
func sessionColumns(width int) []table.Column {
	const date, mode, lang, score, elapsed = 16, 10, 5, 14, 8
	return []table.Column{
		{Title: "Date", Width: date},
		{Title: "Mode", Width: mode},
		{Title: "Lang", Width: lang},
		{Title: "Document", Width: maxInt(10, width-date-mode-lang-score-elapsed-6)},
		{Title: "Score", Width: score},
		{Title: "Time", Width: elapsed},
	}
}

func topicColumns(width int) []table.Column {
	const accuracy, correct, total, band = 9, 8, 6, 9
	return []table.Column{
		{Title: "Topic", Width: maxInt(12, width-accuracy-correct-total-band)},
		{Title: "Accuracy", Width: accuracy},
		{Title: "Correct", Width: correct},
		{Title: "Total", Width: total},
		{Title: "Band", Width: band},
	}
}

func toRows(cells [][]string) []table.Row {
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

// fitBlock pads or clips s to exactly width by height cells.
func fitBlock(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.NewStyle().
		Width(width).MaxWidth(width).
		Height(height).MaxHeight(height).
		Render(s)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
