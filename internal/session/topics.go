package session

import (
	"math"

	"github.com/verte-zerg/docquiz/internal/model"
)

// Tagged is an item carrying a topic label.
type Tagged interface {
	Topic() string
}

// UniqueTopics returns the distinct tags of items in first-occurrence order.
func UniqueTopics[T Tagged](items []T) []string {
	seen := make(map[string]struct{}, len(items))
	topics := make([]string, 0, len(items))
	for _, item := range items {
		tag := item.Topic()
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		topics = append(topics, tag)
	}
	return topics
}

// FilterByTopic returns the items whose tag equals topic, in their original
// order. An empty topic selects every item.
func FilterByTopic[T Tagged](items []T, topic string) []T {
	if topic == "" {
		return append([]T(nil), items...)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item.Topic() == topic {
			out = append(out, item)
		}
	}
	return out
}

// TopicStats groups history by tag and counts correct and total answers.
func TopicStats(history []model.AnswerRecord) map[string]model.TopicStat {
	stats := make(map[string]model.TopicStat)
	for _, rec := range history {
		s := stats[rec.Tag]
		s.Total++
		if rec.UserCorrect {
			s.Correct++
		}
		stats[rec.Tag] = s
	}
	return stats
}

// WeakTopics counts incorrect answers per tag. Tags without misses are
// absent.
func WeakTopics(history []model.AnswerRecord) map[string]int {
	weak := make(map[string]int)
	for _, rec := range history {
		if !rec.UserCorrect {
			weak[rec.Tag]++
		}
	}
	return weak
}

// Percent returns round(correct/total*100), or 0 when total is zero.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// Band labels a topic percentage for display.
func Band(percent int) string {
	switch {
	case percent >= 70:
		return "strong"
	case percent >= 50:
		return "moderate"
	default:
		return "weak"
	}
}

// AveragePerItem returns round(elapsed/total) seconds, or 0 when total is
// zero.
func AveragePerItem(r model.Result) int {
	if r.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(r.TimeElapsed) / float64(r.Total)))
}
