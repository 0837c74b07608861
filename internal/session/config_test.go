package session

import (
	"testing"

	"github.com/verte-zerg/docquiz/internal/model"
)

func TestParseQuestions(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", DefaultQuestions},
		{"abc", DefaultQuestions},
		{"0", DefaultQuestions},
		{"1", MinQuestions},
		{"-4", MinQuestions},
		{"7", 7},
		{" 12 ", 12},
		{"99", MaxQuestions},
	}
	for _, tc := range cases {
		if got := ParseQuestions(tc.raw); got != tc.want {
			t.Fatalf("ParseQuestions(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseTimeLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", DefaultTimeLimit},
		{"x", DefaultTimeLimit},
		{"0", DefaultTimeLimit},
		{"-1", MinTimeLimit},
		{"30", 30},
		{"120", MaxTimeLimit},
	}
	for _, tc := range cases {
		if got := ParseTimeLimit(tc.raw); got != tc.want {
			t.Fatalf("ParseTimeLimit(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeFillsAndClamps(t *testing.T) {
	got := Normalize(model.Config{NumQuestions: 50, TimeLimit: -2, Lang: " FR "})
	want := model.Config{
		Mode:         model.ModeQuiz,
		NumQuestions: MaxQuestions,
		Difficulty:   model.DifficultyMedium,
		Lang:         "fr",
		TimeLimit:    MinTimeLimit,
	}
	if got != want {
		t.Fatalf("unexpected config: %+v", got)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(DefaultConfig()); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	bad := []model.Config{
		{Mode: "essay", Difficulty: model.DifficultyBasic, Lang: "en"},
		{Mode: model.ModeQuiz, Difficulty: "expert", Lang: "en"},
		{Mode: model.ModeFlashcard, Difficulty: model.DifficultyBasic, Lang: "de"},
	}
	for _, cfg := range bad {
		if err := ValidateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestTimeLimitSeconds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeLimit = 1
	if got := cfg.TimeLimitSeconds(); got != 60 {
		t.Fatalf("expected 60 seconds, got %d", got)
	}
}

func TestLanguageCodes(t *testing.T) {
	codes := LanguageCodes()
	if len(codes) != 5 || codes[0] != "en" || codes[4] != "ar" {
		t.Fatalf("unexpected codes: %v", codes)
	}
	if !IsSupportedLang("ur") || IsSupportedLang("EN") {
		t.Fatalf("unexpected language support result")
	}
}
