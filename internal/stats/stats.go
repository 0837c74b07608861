// Package stats contains cross-session statistics and text reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Summary holds overall numbers for a set of sessions.
type Summary struct {
	Sessions      int
	Items         int
	AvgPercent    float64
	BestPercent   int
	AvgSecPerItem float64
	QuizSessions  int
	FlashSessions int
	TotalElapsed  int
}

// SessionPercent returns the rounded score percentage of a stored session.
func SessionPercent(s model.SessionAggregate) int {
	return session.Percent(s.Correct, s.Total)
}

// Summarize computes overall numbers for sessions.
func Summarize(sessions []model.SessionAggregate) Summary {
	var sum Summary
	if len(sessions) == 0 {
		return sum
	}
	var totalPct float64
	for _, s := range sessions {
		pct := SessionPercent(s)
		totalPct += float64(pct)
		if pct > sum.BestPercent {
			sum.BestPercent = pct
		}
		sum.Items += s.Total
		sum.TotalElapsed += s.TimeElapsed
		if s.Mode == model.ModeFlashcard {
			sum.FlashSessions++
		} else {
			sum.QuizSessions++
		}
	}
	sum.Sessions = len(sessions)
	sum.AvgPercent = totalPct / float64(len(sessions))
	if sum.Items > 0 {
		sum.AvgSecPerItem = float64(sum.TotalElapsed) / float64(sum.Items)
	}
	return sum
}

// MovingAverage returns, for each position, the mean of the values in the
// trailing window ending there. Windows of 1 or less copy values.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	prefix := make([]float64, len(values)+1)
	for i, v := range values {
		prefix[i+1] = prefix[i] + v
	}
	for i := range values {
		lo := i + 1 - window
		if lo < 0 {
			lo = 0
		}
		out[i] = (prefix[i+1] - prefix[lo]) / float64(i+1-lo)
	}
	return out
}

// Sparkline renders percentages (0 to 100) as one block character each.
// Values outside the range are clamped.
func Sparkline(percents []float64) string {
	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, p := range percents {
		idx := int(math.Round(p / 100 * float64(top)))
		idx = max(0, min(top, idx))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// ScoreTrend returns the moving average of session percentages, limited to
// the last width sessions when width is positive.
func ScoreTrend(sessions []model.SessionAggregate, window, width int) []float64 {
	values := make([]float64, len(sessions))
	for i, s := range sessions {
		values[i] = float64(SessionPercent(s))
	}
	values = MovingAverage(values, window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	return values
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate, window int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	sum := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d quiz, %d flashcard)", sum.Sessions, sum.QuizSessions, sum.FlashSessions),
		fmt.Sprintf("Items: %d", sum.Items),
		fmt.Sprintf("Avg Score: %.1f%%", sum.AvgPercent),
		fmt.Sprintf("Best Score: %d%%", sum.BestPercent),
		fmt.Sprintf("Avg Time/Item: %.1fs", sum.AvgSecPerItem),
		fmt.Sprintf("Trend: %s", Sparkline(ScoreTrend(sessions, window, TerminalWidth()-len("Trend: ")))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessionTable prints one row per stored session.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Sessions"); err != nil {
		return err
	}
	header, lines := tableOf(SessionRows(sessions)).withRight(4, 5).render()
	for _, line := range append([]string{header}, lines...) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SessionRows builds table headers and rows for sessions, newest first.
func SessionRows(sessions []model.SessionAggregate) ([]string, [][]string) {
	headers := []string{"Date", "Mode", "Lang", "Document", "Score", "Time"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			string(s.Mode),
			s.Lang,
			fitCell(s.Document, 32),
			fmt.Sprintf("%d/%d (%d%%)", s.Correct, s.Total, SessionPercent(s)),
			session.FormatDuration(s.TimeElapsed),
		})
	}
	return headers, rows
}

// RenderTopicTable prints per-topic aggregates, weakest first.
func RenderTopicTable(w io.Writer, aggs []model.TopicAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No topic stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Topics (Windowed)"); err != nil {
		return err
	}
	useColor := UseColor(w)
	sorted := SortByAccuracy(aggs)
	header, lines := tableOf(TopicRows(sorted)).withRight(1, 2, 3).render()
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for i, line := range lines {
		line = colorize(line, session.Band(topicPercent(sorted[i])), useColor)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// TopicRows builds table headers and rows for topic aggregates in the given
// order.
func TopicRows(aggs []model.TopicAggregate) ([]string, [][]string) {
	headers := []string{"Topic", "Accuracy", "Correct", "Total", "Band"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		pct := topicPercent(agg)
		rows = append(rows, []string{
			topicLabel(agg.Tag),
			fmt.Sprintf("%d%%", pct),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Total),
			session.Band(pct),
		})
	}
	return headers, rows
}

// SortByAccuracy returns a copy of aggs ordered by lowest accuracy, then tag.
func SortByAccuracy(aggs []model.TopicAggregate) []model.TopicAggregate {
	out := append([]model.TopicAggregate(nil), aggs...)
	sort.Slice(out, func(i, j int) bool {
		ai := accuracy(out[i])
		aj := accuracy(out[j])
		if ai == aj {
			return out[i].Tag < out[j].Tag
		}
		return ai < aj
	})
	return out
}

func topicPercent(agg model.TopicAggregate) int {
	return session.Percent(agg.Correct, agg.Total)
}

func topicLabel(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return "<untagged>"
	}
	return tag
}
