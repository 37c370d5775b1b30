// Package sqlite provides a durable core.ResultStore and core.ArtifactStore
// backed by a single SQLite database file (pure Go driver, no cgo).
//
// Sessions are upserted; orchestration and meeting results are stored as
// JSON documents next to a few queryable columns. Decisions get their own
// table so they can be listed per meeting or across all meetings.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/agentcouncil/artifact"
	"github.com/hupe1980/agentcouncil/core"
	"github.com/hupe1980/agentcouncil/logging"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Options configures a Store.
type Options struct {
	Logger logging.Logger
}

// Store persists sessions, results, decisions and artifacts in SQLite. It is
// safe for concurrent use.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string, optFns ...func(o *Options)) (*Store, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, logger: opts.Logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	opts.Logger.Debug("store.sqlite.open", "path", path)
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			strategy TEXT NOT NULL DEFAULT '',
			assignments_json TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS orchestrations (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			strategy TEXT NOT NULL,
			final_output TEXT NOT NULL DEFAULT '',
			total_tokens INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			result_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_orchestrations_session ON orchestrations(session_id);`,
		`CREATE TABLE IF NOT EXISTS meetings (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			total_tokens INTEGER NOT NULL DEFAULT 0,
			result_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_meetings_session ON meetings(session_id);`,
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			meeting_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			stage TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			rationale TEXT NOT NULL DEFAULT '',
			alternatives_json TEXT NOT NULL DEFAULT '[]',
			made_by TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_meeting ON decisions(meeting_id, seq);`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			meeting_id TEXT NOT NULL,
			artifact_id TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY(meeting_id, artifact_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimeOrZero(input string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, input)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SaveSession upserts a session snapshot.
func (s *Store) SaveSession(sess *core.Session) error {
	snap := sess.Clone()
	assignments, err := json.Marshal(snap.Assignments)
	if err != nil {
		return fmt.Errorf("encode assignments: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions(id,name,status,strategy,assignments_json,created_at,updated_at)
		 VALUES(?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, status=excluded.status, strategy=excluded.strategy,
		   assignments_json=excluded.assignments_json, updated_at=excluded.updated_at`,
		snap.ID, snap.Name, string(snap.Status), string(snap.Strategy), string(assignments),
		formatTime(snap.Created), formatTime(snap.Updated),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", snap.ID, err)
	}
	return nil
}

// Session loads a session snapshot. Conversations are not persisted on the
// session row; they live inside the stored results.
func (s *Store) Session(id string) (*core.Session, error) {
	var (
		sess                 core.Session
		status, strategy     string
		assignments          string
		createdAt, updatedAt string
	)
	err := s.db.QueryRow(
		`SELECT id,name,status,strategy,assignments_json,created_at,updated_at FROM sessions WHERE id=?`, id,
	).Scan(&sess.ID, &sess.Name, &status, &strategy, &assignments, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	sess.Status = core.SessionStatus(status)
	sess.Strategy = core.StrategyKind(strategy)
	sess.Created = parseTimeOrZero(createdAt)
	sess.Updated = parseTimeOrZero(updatedAt)
	if err := json.Unmarshal([]byte(assignments), &sess.Assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return &sess, nil
}

// SaveOrchestration stores an orchestration result under sessionID.
func (s *Store) SaveOrchestration(sessionID string, r *core.OrchestrationResult) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode orchestration: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO orchestrations(id,session_id,strategy,final_output,total_tokens,duration_ms,result_json,created_at)
		 VALUES(?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET result_json=excluded.result_json`,
		r.ID, sessionID, string(r.Strategy), r.FinalOutput, r.TokenUsage.TotalTokens,
		r.Duration.Milliseconds(), string(doc), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save orchestration %s: %w", r.ID, err)
	}
	return nil
}

// Orchestrations returns the results stored for a session, oldest first.
func (s *Store) Orchestrations(sessionID string) ([]core.OrchestrationResult, error) {
	rows, err := s.db.Query(
		`SELECT result_json FROM orchestrations WHERE session_id=? ORDER BY created_at, id`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orchestrations: %w", err)
	}
	defer rows.Close()

	var out []core.OrchestrationResult
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r core.OrchestrationResult
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fmt.Errorf("decode orchestration: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveMeeting stores a meeting result and its decisions in one transaction.
func (s *Store) SaveMeeting(sessionID string, r *core.MeetingResult) (err error) {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode meeting: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := formatTime(time.Now())
	if _, err = tx.Exec(
		`INSERT INTO meetings(id,session_id,title,type,summary,total_tokens,result_json,created_at)
		 VALUES(?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET summary=excluded.summary, result_json=excluded.result_json`,
		r.ID, sessionID, r.Agenda.Title, string(r.Agenda.Type), r.Summary, r.TokenUsage.TotalTokens, string(doc), now,
	); err != nil {
		return fmt.Errorf("save meeting %s: %w", r.ID, err)
	}

	for i, d := range r.Decisions {
		alternatives, merr := json.Marshal(d.Alternatives)
		if merr != nil {
			err = fmt.Errorf("encode alternatives: %w", merr)
			return err
		}
		if _, err = tx.Exec(
			`INSERT INTO decisions(id,meeting_id,seq,stage,title,description,rationale,alternatives_json,made_by,created_at)
			 VALUES(?,?,?,?,?,?,?,?,?,?)
			 ON CONFLICT(id) DO NOTHING`,
			d.ID, r.ID, i, string(d.Stage), d.Title, d.Description, d.Rationale, string(alternatives),
			string(d.MadeBy), formatTime(d.Timestamp),
		); err != nil {
			return fmt.Errorf("save decision %s: %w", d.ID, err)
		}
	}

	return tx.Commit()
}

// Meeting loads a stored meeting result.
func (s *Store) Meeting(id string) (*core.MeetingResult, error) {
	var doc string
	err := s.db.QueryRow(`SELECT result_json FROM meetings WHERE id=?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("meeting %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load meeting %s: %w", id, err)
	}
	var r core.MeetingResult
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("decode meeting: %w", err)
	}
	return &r, nil
}

// Decisions returns the decisions of one meeting in extraction order.
func (s *Store) Decisions(meetingID string) ([]core.Decision, error) {
	return s.queryDecisions(`WHERE meeting_id=? ORDER BY seq`, meetingID)
}

// AllDecisions returns every stored decision, newest meeting last.
func (s *Store) AllDecisions() ([]core.Decision, error) {
	return s.queryDecisions(`ORDER BY created_at, meeting_id, seq`)
}

func (s *Store) queryDecisions(clause string, args ...any) ([]core.Decision, error) {
	rows, err := s.db.Query(
		`SELECT id,meeting_id,stage,title,description,rationale,alternatives_json,made_by,created_at FROM decisions `+clause,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	out := []core.Decision{}
	for rows.Next() {
		var (
			d                           core.Decision
			stage, madeBy, alternatives string
			createdAt                   string
		)
		if err := rows.Scan(&d.ID, &d.MeetingID, &stage, &d.Title, &d.Description, &d.Rationale, &alternatives, &madeBy, &createdAt); err != nil {
			return nil, err
		}
		d.Stage = core.Stage(stage)
		d.MadeBy = core.Role(madeBy)
		d.Timestamp = parseTimeOrZero(createdAt)
		if err := json.Unmarshal([]byte(alternatives), &d.Alternatives); err != nil {
			return nil, fmt.Errorf("decode alternatives: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Save stores (or overwrites) artifact bytes for a meeting.
func (s *Store) Save(meetingID, artifactID string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO artifacts(meeting_id,artifact_id,data,updated_at) VALUES(?,?,?,?)
		 ON CONFLICT(meeting_id,artifact_id) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at`,
		meetingID, artifactID, data, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save artifact %s: %w", artifactID, err)
	}
	return nil
}

// Get returns the stored artifact bytes or artifact.ErrNotFound.
func (s *Store) Get(meetingID, artifactID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(
		`SELECT data FROM artifacts WHERE meeting_id=? AND artifact_id=?`, meetingID, artifactID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, artifact.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load artifact %s: %w", artifactID, err)
	}
	return data, nil
}

// List returns the sorted artifact ids of a meeting.
func (s *Store) List(meetingID string) ([]string, error) {
	rows, err := s.db.Query(`SELECT artifact_id FROM artifacts WHERE meeting_id=? ORDER BY artifact_id`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes an artifact or returns artifact.ErrNotFound.
func (s *Store) Delete(meetingID, artifactID string) error {
	res, err := s.db.Exec(`DELETE FROM artifacts WHERE meeting_id=? AND artifact_id=?`, meetingID, artifactID)
	if err != nil {
		return fmt.Errorf("delete artifact %s: %w", artifactID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return artifact.ErrNotFound
	}
	return nil
}
