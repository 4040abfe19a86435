// Package record persists raw tread-band frames to a SQLite session log
// for bench replay and detector debugging. It stores sensor input only;
// zone history and trend state are never persisted.
package record

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

const schema = `
CREATE TABLE IF NOT EXISTS frames (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	corner TEXT NOT NULL,
	recorded_at INTEGER NOT NULL,
	band_rows INTEGER NOT NULL,
	band_width INTEGER NOT NULL,
	temps TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_frames_session ON frames(session_id, id);
`

// Recorder appends frames to a session log. One Recorder instance is one
// session, identified by a fresh UUID.
type Recorder struct {
	db        *sql.DB
	sessionID string
}

// OpenRecorder opens (creating if needed) the session log at path and
// starts a new session.
func OpenRecorder(path string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create frames table: %w", err)
	}
	return &Recorder{db: db, sessionID: uuid.NewString()}, nil
}

// SessionID returns the identifier of the recording session.
func (r *Recorder) SessionID() string { return r.sessionID }

// Record appends one frame. Implements ingest.FrameSink.
func (r *Recorder) Record(corner thermal.Corner, frame *thermal.ThermalFrame, ts time.Time) error {
	temps, err := json.Marshal(frame.Temps)
	if err != nil {
		return fmt.Errorf("failed to encode temps: %w", err)
	}
	_, err = r.db.Exec(
		`INSERT INTO frames (session_id, corner, recorded_at, band_rows, band_width, temps)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.sessionID, string(corner), ts.UnixNano(), frame.Rows, frame.Width, string(temps),
	)
	if err != nil {
		return fmt.Errorf("failed to insert frame: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
