// Package logging records the audit trail of session lifecycle events.
// Entries live in the same SQLite database as the session aggregate so
// a single file carries everything needed to reconstruct what happened.
package logging

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// #region events
const (
	EventRestore        = "restore"
	EventSave           = "save"
	EventSubmitOK       = "submit_ok"
	EventSubmitFail     = "submit_fail"
	EventReset          = "reset"
	EventStorageCorrupt = "storage_corrupt"
	EventPositionClamp  = "position_clamp"
)
// #endregion events

// #region entry
// AuditEntry is one lifecycle event tied to a session.
type AuditEntry struct {
	SessionID string
	Event     string
	Detail    string
	CreatedAt time.Time
}
// #endregion entry

// #region log-event
// LogEvent appends an audit entry and mirrors it to the process log.
// Audit failures are logged but never block the operation being
// audited.
func LogEvent(db *sql.DB, e AuditEntry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	log.Printf("[AUDIT] session=%s event=%s %s", e.SessionID, e.Event, e.Detail)

	_, err := db.Exec(
		`INSERT INTO audit_log (session_id, event, detail, created_at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Event, e.Detail, e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		log.Printf("[AUDIT] write failed: %v", err)
	}
}
// #endregion log-event

// #region recent
// Recent returns the newest audit entries, most recent first.
func Recent(db *sql.DB, limit int) ([]AuditEntry, error) {
	rows, err := db.Query(
		`SELECT session_id, event, detail, created_at FROM audit_log ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var created string
		if err := rows.Scan(&e.SessionID, &e.Event, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
// #endregion recent
