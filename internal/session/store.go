package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// ErrStorageCorrupt marks unparsable persisted state. It never reaches
// callers of Load: corruption is recovered locally by discarding the
// row and starting empty.
var ErrStorageCorrupt = errors.New("storage corrupt")

// HistoryCapacity bounds the trend log; the oldest entry is evicted
// beyond it.
const HistoryCapacity = 20

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS session_state (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	session_id    TEXT NOT NULL,
	status        TEXT NOT NULL,
	payload_json  TEXT NOT NULL,
	result_json   TEXT,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assessment_history (
	ts_key         TEXT PRIMARY KEY,
	overall_score  REAL NOT NULL,
	maturity_label TEXT NOT NULL,
	system_name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	event       TEXT NOT NULL,
	detail      TEXT,
	created_at  TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store persists the session aggregate and the history log in SQLite.
// Single-writer, single-reader from one process; two tabs racing on
// the same file is out of scope.
type Store struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}
// #endregion db-accessor

// #region save
// Save overwrites the in-progress aggregate. Called synchronously on
// every answer-store mutation so a tab close mid-edit loses nothing.
func (s *Store) Save(snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	now := time.Now().UTC()

	_, err = s.db.Exec(
		`INSERT INTO session_state (id, session_id, status, payload_json, result_json, updated_at)
		 VALUES (1, ?, ?, ?, NULL, ?)
		 ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			status = excluded.status,
			payload_json = excluded.payload_json,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at`,
		snap.SessionID, string(StatusInProgress), string(payload), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
// #endregion save

// #region complete
// Complete transitions the aggregate to completed and appends the
// history entry in one transaction. The completed write and history
// append land before anything that could drop the in-progress state;
// the status flip itself is what retires it, so a crash at any point
// leaves either the old in-progress row or the full completed row,
// never neither.
func (s *Store) Complete(snap Snapshot, resultJSON string, entry HistoryEntry) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO session_state (id, session_id, status, payload_json, result_json, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			session_id = excluded.session_id,
			status = excluded.status,
			payload_json = excluded.payload_json,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at`,
		snap.SessionID, string(StatusCompleted), string(payload), resultJSON, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write completed snapshot: %w", err)
	}

	if err := appendHistoryTx(tx, entry, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// appendHistoryTx inserts a history row under a de-duplicated key and
// evicts the oldest rows beyond capacity.
func appendHistoryTx(tx *sql.Tx, entry HistoryEntry, now time.Time) error {
	key := entry.Key
	ts := now
	if key == "" {
		key = ts.Format(time.RFC3339Nano)
	}
	for {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM assessment_history WHERE ts_key = ?`, key).Scan(&exists); err != nil {
			return fmt.Errorf("check history key: %w", err)
		}
		if exists == 0 {
			break
		}
		// Collision: bump by 1ms, keeping keys monotone and unique.
		ts = ts.Add(time.Millisecond)
		key = ts.Format(time.RFC3339Nano)
	}

	_, err := tx.Exec(
		`INSERT INTO assessment_history (ts_key, overall_score, maturity_label, system_name)
		 VALUES (?, ?, ?, ?)`,
		key, entry.OverallScore, entry.MaturityLabel, entry.SystemName,
	)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM assessment_history WHERE ts_key NOT IN (
			SELECT ts_key FROM assessment_history ORDER BY ts_key DESC LIMIT ?
		)`, HistoryCapacity,
	)
	if err != nil {
		return fmt.Errorf("evict history: %w", err)
	}
	return nil
}
// #endregion complete

// #region load
// Load reads the session aggregate. Returns nil without error when no
// session exists. A corrupt payload is discarded and logged, degrading
// to "no prior data" instead of propagating a failure.
func (s *Store) Load() (*Snapshot, error) {
	var (
		sessionID  string
		status     string
		payload    string
		resultJSON sql.NullString
		updatedStr string
	)
	err := s.db.QueryRow(
		`SELECT session_id, status, payload_json, result_json, updated_at FROM session_state WHERE id = 1`,
	).Scan(&sessionID, &status, &payload, &resultJSON, &updatedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		s.discardCorrupt(sessionID, fmt.Errorf("%w: %v", ErrStorageCorrupt, err))
		return nil, nil
	}
	if status != string(StatusInProgress) && status != string(StatusCompleted) {
		s.discardCorrupt(sessionID, fmt.Errorf("%w: unknown status %q", ErrStorageCorrupt, status))
		return nil, nil
	}

	snap.SessionID = sessionID
	snap.Status = Status(status)
	if resultJSON.Valid {
		snap.ResultJSON = resultJSON.String
	}
	snap.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return &snap, nil
}

func (s *Store) discardCorrupt(sessionID string, err error) {
	log.Printf("[SESSION] discarding snapshot: %v", err)
	if _, derr := s.db.Exec(`DELETE FROM session_state WHERE id = 1`); derr != nil {
		log.Printf("[SESSION] discard failed: %v", derr)
	}
	_, _ = s.db.Exec(
		`INSERT INTO audit_log (session_id, event, detail, created_at) VALUES (?, ?, ?, ?)`,
		sessionID, "storage_corrupt", err.Error(), time.Now().UTC().Format(time.RFC3339Nano),
	)
}
// #endregion load

// #region reset
// Reset destroys the session aggregate. History is trend data and
// survives resets.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(`DELETE FROM session_state WHERE id = 1`); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}
// #endregion reset

// #region history
// History returns the most recent history entries, newest first.
func (s *Store) History(limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT ts_key, overall_score, maturity_label, system_name
		 FROM assessment_history ORDER BY ts_key DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Key, &e.OverallScore, &e.MaturityLabel, &e.SystemName); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion history
