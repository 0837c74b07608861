package stats

import "github.com/verte-zerg/docquiz/internal/model"

// SelectWeakTopics returns up to top tags with the lowest accuracy, weakest
// first. Topics answered without a miss are never selected.
func SelectWeakTopics(aggs []model.TopicAggregate, top int) []string {
	if len(aggs) == 0 {
		return nil
	}
	candidates := make([]model.TopicAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Total > agg.Correct {
			candidates = append(candidates, agg)
		}
	}
	candidates = SortByAccuracy(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]string, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Tag)
	}
	return out
}

func accuracy(agg model.TopicAggregate) float64 {
	if agg.Total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(agg.Total)
}
