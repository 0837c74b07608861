// Package main provides the CLI entrypoint for docquiz.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/docquiz/internal/api"
	"github.com/verte-zerg/docquiz/internal/config"
	"github.com/verte-zerg/docquiz/internal/historyui"
	"github.com/verte-zerg/docquiz/internal/logging"
	"github.com/verte-zerg/docquiz/internal/model"
	"github.com/verte-zerg/docquiz/internal/session"
	"github.com/verte-zerg/docquiz/internal/stats"
	"github.com/verte-zerg/docquiz/internal/store"
	"github.com/verte-zerg/docquiz/internal/tui"
)

const (
	defaultMode          = string(model.ModeQuiz)
	defaultDifficulty    = string(model.DifficultyMedium)
	defaultWeakTop       = 3
	defaultWeakWindow    = 10
	defaultHistoryWindow = 10
)

var (
	sessionMode       string
	sessionQuestions  int
	sessionDifficulty string
	sessionLang       string
	sessionTimer      bool
	sessionTimeLimit  int
	sessionWeakTop    int
	sessionWeakWindow int

	apiURL     string
	apiTimeout time.Duration
	logLevel   string

	historyLang   string
	historyMode   string
	historySince  string
	historyLast   int
	historyWindow int
	historyPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "docquiz [file]",
		Short:         "Turn a document into a quiz or flashcards in the terminal",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().StringVar(&sessionMode, "mode", defaultMode, "session mode (quiz or flashcard)")
	rootCmd.Flags().IntVar(&sessionQuestions, "questions", session.DefaultQuestions, fmt.Sprintf("number of items to generate (%d-%d)", session.MinQuestions, session.MaxQuestions))
	rootCmd.Flags().StringVar(&sessionDifficulty, "difficulty", defaultDifficulty, "difficulty (basic, medium or advanced)")
	rootCmd.Flags().StringVar(&sessionLang, "lang", session.DefaultLang, "language code for generated content")
	rootCmd.Flags().BoolVar(&sessionTimer, "timer", false, "enable the quiz time limit")
	rootCmd.Flags().IntVar(&sessionTimeLimit, "time-limit", session.DefaultTimeLimit, fmt.Sprintf("quiz time limit in minutes (%d-%d)", session.MinTimeLimit, session.MaxTimeLimit))
	rootCmd.Flags().IntVar(&sessionWeakTop, "weak-top", defaultWeakTop, "number of weak topics listed from recent sessions")
	rootCmd.Flags().IntVar(&sessionWeakWindow, "weak-window", defaultWeakWindow, "number of recent quiz sessions used for weak topics (0 disables)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "service base URL (overrides "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", api.DefaultTimeout, "per-request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn or error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "mode", &sessionMode, fileCfg.Session.Mode)
	applyConfig(cmd, "questions", &sessionQuestions, fileCfg.Session.Questions)
	applyConfig(cmd, "difficulty", &sessionDifficulty, fileCfg.Session.Difficulty)
	applyConfig(cmd, "lang", &sessionLang, fileCfg.Session.Lang)
	applyConfig(cmd, "timer", &sessionTimer, fileCfg.Session.Timer)
	applyConfig(cmd, "time-limit", &sessionTimeLimit, fileCfg.Session.TimeLimit)
	if !cmd.Flags().Changed("timeout") {
		d, err := fileCfg.API.ParseTimeout()
		if err != nil {
			return err
		}
		if d > 0 {
			apiTimeout = d
		}
	}

	cfg := model.Config{
		Mode:         model.Mode(strings.ToLower(strings.TrimSpace(sessionMode))),
		NumQuestions: sessionQuestions,
		Difficulty:   model.Difficulty(strings.ToLower(strings.TrimSpace(sessionDifficulty))),
		Lang:         strings.ToLower(strings.TrimSpace(sessionLang)),
		TimerEnabled: sessionTimer,
		TimeLimit:    sessionTimeLimit,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	cfg = session.Normalize(cfg)

	file := ""
	if len(args) == 1 {
		file = args[0]
		if err := api.CheckFile(file); err != nil {
			return err
		}
	}

	log, closeLog := openLogger(logLevel)
	defer closeLog()

	baseURL := config.ResolveBaseURL(apiURL, fileCfg.API)
	client := api.New(baseURL, api.WithTimeout(apiTimeout), api.WithLogger(log))
	log.Info("starting session UI", zap.String("api", client.BaseURL()), zap.Duration("timeout", apiTimeout))

	opts := tui.Options{
		Backend:    client,
		Logger:     log,
		Config:     cfg,
		File:       file,
		WeakWindow: sessionWeakWindow,
		WeakTop:    sessionWeakTop,
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("history disabled: failed to open db: %v\n", err)
		log.Warn("history disabled", zap.Error(err))
	} else {
		opts.History = st
		defer closeStore(st)
	}

	program := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func openLogger(level string) (*zap.Logger, func()) {
	log, err := logging.New(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return logging.Nop(), func() {}
	}
	return log, func() {
		// Best-effort flush.
		_ = log.Sync()
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}
	return openEditor(path)
}

// ensureConfigFile writes the commented template unless path already exists.
func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// openEditor runs $EDITOR (vi when unset) on path. EDITOR may carry
// arguments, as in "code --wait".
func openEditor(path string) error {
	argv := strings.Fields(os.Getenv("EDITOR"))
	if len(argv) == 0 {
		argv = []string{"vi"}
	}
	editor := exec.Command(argv[0], append(argv[1:], path)...)
	editor.Stdin, editor.Stdout, editor.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := editor.Run(); err != nil {
		return fmt.Errorf("failed to open editor %s: %w", argv[0], err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List languages for generated content",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	for _, lang := range session.Languages {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", lang.Code, lang.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past sessions and topic accuracy",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&historyMode, "mode", "", "mode filter (quiz or flashcard)")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyWindow, "window", defaultHistoryWindow, "sessions in the trend average and topic table")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print text tables instead of opening the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	cfg, _, err := historyui.ParseFilters(historyLang, historyMode, historySince, fmt.Sprint(historyLast), "")
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer closeStore(st)

	if historyPlain {
		return renderPlainHistory(cmd, st, cfg)
	}

	ui := historyui.NewModel(st, cfg, historyWindow)
	if _, err := tea.NewProgram(ui, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func renderPlainHistory(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(context.Background(), st, cfg, historyWindow)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions, historyWindow); err != nil {
		return err
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderSessionTable(out, report.Sessions); err != nil {
		return err
	}
	return stats.RenderTopicTable(out, report.TopicAggsWindow)
}

// applyConfig copies a config file value into target unless the flag was
// set on the command line.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close history: %v\n", err)
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# docquiz configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# mode = %q            # quiz or flashcard
# questions = %d            # Items to generate (%d-%d)
# difficulty = %q     # basic, medium or advanced
# lang = %q               # Language code, see: docquiz langs
# timer = false             # Enable the quiz time limit
# time-limit = %d           # Quiz time limit in minutes (%d-%d)

[api]
# url = "http://localhost:%d"   # Service base URL (%s overrides)
# timeout = %q              # Per-request timeout
`,
		defaultMode,
		session.DefaultQuestions, session.MinQuestions, session.MaxQuestions,
		defaultDifficulty,
		session.DefaultLang,
		session.DefaultTimeLimit, session.MinTimeLimit, session.MaxTimeLimit,
		config.DefaultAPIPort, config.EnvAPIURL,
		api.DefaultTimeout.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.NumQuestions < 0 {
		return fmt.Errorf("--questions must be >= 0")
	}
	if cfg.TimeLimit < 0 {
		return fmt.Errorf("--time-limit must be >= 0")
	}
	if sessionWeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if sessionWeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if apiTimeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	return session.ValidateConfig(cfg)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
