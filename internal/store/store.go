// Package store handles SQLite persistence of completed sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/docquiz/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// migrations are applied in order; PRAGMA user_version records how many
// have run.
var migrations = []string{
	`CREATE TABLE sessions (
		id INTEGER PRIMARY KEY,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		document TEXT NOT NULL,
		mode TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		lang TEXT NOT NULL,
		num_questions INTEGER NOT NULL,
		timer_enabled INTEGER NOT NULL,
		time_limit INTEGER NOT NULL,
		correct INTEGER NOT NULL,
		unknown INTEGER NOT NULL,
		total INTEGER NOT NULL,
		time_elapsed INTEGER NOT NULL
	);
	CREATE INDEX idx_sessions_ended_at ON sessions(ended_at);
	CREATE TABLE session_answers (
		session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		tag TEXT NOT NULL,
		question TEXT NOT NULL,
		correct INTEGER NOT NULL,
		PRIMARY KEY (session_id, position)
	);
	CREATE INDEX idx_session_answers_tag ON session_answers(tag);`,
}

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One connection keeps PRAGMAs and transactions on the same handle.
	db.SetMaxOpenConns(1)
	st := &Store{db: db}
	if err := st.migrate(context.Background()); err != nil {
		closeQuietly(db)
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, v+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", v+1, err)
		}
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// InsertSession stores a completed session and, for quizzes, its answer
// history. It returns the new session id.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (started_at, ended_at, document, mode, difficulty, lang, num_questions, timer_enabled, time_limit, correct, unknown, total, time_elapsed)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			formatTime(rec.StartedAt),
			formatTime(rec.EndedAt),
			rec.Document,
			string(rec.Result.Type),
			string(rec.Config.Difficulty),
			rec.Config.Lang,
			rec.Config.NumQuestions,
			rec.Config.TimerEnabled,
			rec.Config.TimeLimit,
			rec.Result.Correct(),
			rec.Result.Unknown,
			rec.Result.Total,
			rec.Result.TimeElapsed,
		)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertAnswers(ctx, tx, id, rec.Result.History)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save session: %w", err)
	}
	return id, nil
}

func insertAnswers(ctx context.Context, tx *sql.Tx, sessionID int64, history []model.AnswerRecord) error {
	if len(history) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO session_answers (session_id, position, tag, question, correct) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer closeQuietly(stmt)
	for pos, a := range history {
		if _, err := stmt.ExecContext(ctx, sessionID, pos, a.Tag, a.Question, a.UserCorrect); err != nil {
			return err
		}
	}
	return nil
}

// sessionFilter renders cfg as a WHERE clause and its arguments.
func sessionFilter(cfg model.StatsConfig) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if cfg.Lang != "" {
		add("lang = ?", cfg.Lang)
	}
	if cfg.Mode != "" {
		add("mode = ?", string(cfg.Mode))
	}
	if cfg.Since != nil {
		add("ended_at >= ?", formatTime(*cfg.Since))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// ListSessions returns session aggregates matching cfg, oldest first.
// cfg.Last is applied by the caller.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	where, args := sessionFilter(cfg)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ended_at, document, mode, lang, difficulty, correct, total, time_elapsed
		 FROM sessions `+where+`
		 ORDER BY ended_at ASC, id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer closeQuietly(rows)

	var out []model.SessionAggregate
	for rows.Next() {
		agg, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

func scanSession(rows *sql.Rows) (model.SessionAggregate, error) {
	var agg model.SessionAggregate
	var endedAt, mode, difficulty string
	if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Document, &mode, &agg.Lang, &difficulty, &agg.Correct, &agg.Total, &agg.TimeElapsed); err != nil {
		return agg, err
	}
	t, err := time.Parse(time.RFC3339Nano, endedAt)
	if err != nil {
		return agg, fmt.Errorf("session %d has a bad end time %q: %w", agg.SessionID, endedAt, err)
	}
	agg.EndedAt = t
	agg.Mode = model.Mode(mode)
	agg.Difficulty = model.Difficulty(difficulty)
	return agg, nil
}

// ListTopicAggregatesForSessions aggregates quiz answers by tag across the
// given sessions.
func (s *Store) ListTopicAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.TopicAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	return s.topicAggregates(ctx,
		`SELECT tag, SUM(correct), COUNT(*) FROM session_answers
		 WHERE session_id IN (`+marks+`)
		 GROUP BY tag`, args...)
}

// GetWeakTopics aggregates quiz answers by tag over the window most recent
// quiz sessions, optionally limited to one language.
func (s *Store) GetWeakTopics(ctx context.Context, window int, lang string) ([]model.TopicAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	return s.topicAggregates(ctx,
		`WITH recent AS (
			SELECT id FROM sessions
			WHERE mode = 'quiz' AND (?1 = '' OR lang = ?1)
			ORDER BY ended_at DESC, id DESC
			LIMIT ?2
		)
		SELECT a.tag, SUM(a.correct), COUNT(*)
		FROM session_answers a
		JOIN recent r ON r.id = a.session_id
		GROUP BY a.tag`, lang, window)
}

func (s *Store) topicAggregates(ctx context.Context, query string, args ...any) ([]model.TopicAggregate, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate topics: %w", err)
	}
	defer closeQuietly(rows)

	var out []model.TopicAggregate
	for rows.Next() {
		var agg model.TopicAggregate
		if err := rows.Scan(&agg.Tag, &agg.Correct, &agg.Total); err != nil {
			return nil, err
		}
		out = append(out, agg)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
