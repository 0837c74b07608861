package tui

import (
	"strings"
	"testing"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		hasLast:  true,
		lastPct:  80,
		allPct:   72.5,
		allCount: 12,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Last 80%", "All-time 72.5%", "12 sessions"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmptyWithoutHistory(t *testing.T) {
	m := &Model{}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected no footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
