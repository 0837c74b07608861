package stats

import (
	"testing"

	"github.com/verte-zerg/docquiz/internal/model"
)

func TestTopTopicsByFrequency(t *testing.T) {
	aggs := []model.TopicAggregate{
		{Tag: "Genes", Correct: 3, Total: 4},
		{Tag: "Atoms", Correct: 2, Total: 4},
		{Tag: "Cells", Correct: 1, Total: 1},
	}
	top := TopTopicsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(top))
	}
	if top[0] != "Atoms" || top[1] != "Genes" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestTopTopicsByFrequencyEmpty(t *testing.T) {
	if top := TopTopicsByFrequency(nil, 3); top != nil {
		t.Fatalf("expected nil, got %v", top)
	}
}
