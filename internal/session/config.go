// Package session implements the upload, quiz and flashcard session flow:
// the stage controller, the per-second timer, the scorers and the topic
// aggregation used by the summary.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/docquiz/internal/model"
)

// Bounds and defaults for session settings.
const (
	MinQuestions     = 3
	MaxQuestions     = 20
	MinTimeLimit     = 1
	MaxTimeLimit     = 60
	DefaultQuestions = 5
	DefaultTimeLimit = 5
	DefaultLang      = "en"
)

// Language is a generation language offered by the server.
type Language struct {
	Code string
	Name string
}

// Languages lists the languages the generator accepts.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "ur", Name: "اردو"},
	{Code: "es", Name: "Español"},
	{Code: "fr", Name: "Français"},
	{Code: "ar", Name: "العربية"},
}

// DefaultConfig returns the settings shown on a fresh upload stage.
func DefaultConfig() model.Config {
	return model.Config{
		Mode:         model.ModeQuiz,
		NumQuestions: DefaultQuestions,
		Difficulty:   model.DifficultyMedium,
		Lang:         DefaultLang,
		TimerEnabled: false,
		TimeLimit:    DefaultTimeLimit,
	}
}

// ClampQuestions limits n to [MinQuestions, MaxQuestions].
func ClampQuestions(n int) int {
	return clamp(n, MinQuestions, MaxQuestions)
}

// ClampTimeLimit limits minutes to [MinTimeLimit, MaxTimeLimit].
func ClampTimeLimit(minutes int) int {
	return clamp(minutes, MinTimeLimit, MaxTimeLimit)
}

// ParseQuestions reads a question count typed by the user. Empty, zero or
// non-numeric input yields DefaultQuestions; anything else is clamped.
func ParseQuestions(raw string) int {
	return parseBounded(raw, DefaultQuestions, ClampQuestions)
}

// ParseTimeLimit reads a time limit in minutes typed by the user. Empty, zero
// or non-numeric input yields DefaultTimeLimit; anything else is clamped.
func ParseTimeLimit(raw string) int {
	return parseBounded(raw, DefaultTimeLimit, ClampTimeLimit)
}

func parseBounded(raw string, def int, clampFn func(int) int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n == 0 {
		return def
	}
	return clampFn(n)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Normalize clamps the numeric settings and fills empty fields with defaults.
func Normalize(cfg model.Config) model.Config {
	if cfg.Mode == "" {
		cfg.Mode = model.ModeQuiz
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = model.DifficultyMedium
	}
	cfg.Lang = strings.ToLower(strings.TrimSpace(cfg.Lang))
	if cfg.Lang == "" {
		cfg.Lang = DefaultLang
	}
	if cfg.NumQuestions == 0 {
		cfg.NumQuestions = DefaultQuestions
	}
	cfg.NumQuestions = ClampQuestions(cfg.NumQuestions)
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = DefaultTimeLimit
	}
	cfg.TimeLimit = ClampTimeLimit(cfg.TimeLimit)
	return cfg
}

// ValidateConfig rejects settings the generator does not accept.
func ValidateConfig(cfg model.Config) error {
	switch cfg.Mode {
	case model.ModeQuiz, model.ModeFlashcard:
	default:
		return fmt.Errorf("invalid mode %q (use quiz or flashcard)", cfg.Mode)
	}
	switch cfg.Difficulty {
	case model.DifficultyBasic, model.DifficultyMedium, model.DifficultyAdvanced:
	default:
		return fmt.Errorf("invalid difficulty %q (use basic, medium or advanced)", cfg.Difficulty)
	}
	if !IsSupportedLang(cfg.Lang) {
		return fmt.Errorf("unsupported language %q (available: %s)", cfg.Lang, strings.Join(LanguageCodes(), ", "))
	}
	return nil
}

// IsSupportedLang reports whether code is in Languages.
func IsSupportedLang(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguageCodes returns the codes of Languages in order.
func LanguageCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}
