package stats

import (
	"sort"

	"github.com/verte-zerg/docquiz/internal/model"
)

// TopTopicsByFrequency returns the n most answered topics.
func TopTopicsByFrequency(aggs []model.TopicAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := append([]model.TopicAggregate(nil), aggs...)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Total == items[j].Total {
			return items[i].Tag < items[j].Tag
		}
		return items[i].Total > items[j].Total
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Tag)
	}
	return out
}
