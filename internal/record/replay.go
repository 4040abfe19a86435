package record

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// ReplaySource plays a recorded session back through the ingestion loop
// in insertion order, one frame per corner per ReadFrame call. Once a
// corner's frames are exhausted it reports "no frame", so replayed
// sessions drain cleanly. Frames are loaded eagerly and the database is
// closed before ReplaySource is returned.
type ReplaySource struct {
	queues map[thermal.Corner][]*thermal.ThermalFrame
}

// OpenReplaySource loads the given session from the log at path. An empty
// sessionID selects the most recently recorded session.
func OpenReplaySource(path, sessionID string) (*ReplaySource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}
	defer db.Close()

	if sessionID == "" {
		row := db.QueryRow(`SELECT session_id FROM frames ORDER BY id DESC LIMIT 1`)
		if err := row.Scan(&sessionID); err != nil {
			return nil, fmt.Errorf("no recorded sessions: %w", err)
		}
	}

	rows, err := db.Query(
		`SELECT corner, band_rows, band_width, temps FROM frames
		 WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}
	defer rows.Close()

	src := &ReplaySource{queues: make(map[thermal.Corner][]*thermal.ThermalFrame, 4)}
	for rows.Next() {
		var corner string
		var bandRows, bandWidth int
		var tempsJSON string
		if err := rows.Scan(&corner, &bandRows, &bandWidth, &tempsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan frame: %w", err)
		}

		var temps []float64
		if err := json.Unmarshal([]byte(tempsJSON), &temps); err != nil {
			return nil, fmt.Errorf("failed to decode temps: %w", err)
		}
		if len(temps) != bandRows*bandWidth {
			return nil, fmt.Errorf("frame cell count %d does not match %dx%d", len(temps), bandRows, bandWidth)
		}

		c := thermal.Corner(corner)
		src.queues[c] = append(src.queues[c], &thermal.ThermalFrame{
			Rows:  bandRows,
			Width: bandWidth,
			Temps: temps,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session: %w", err)
	}
	return src, nil
}

// ReadFrame pops the next recorded frame for the corner. Implements
// ingest.FrameSource.
func (s *ReplaySource) ReadFrame(corner thermal.Corner) (*thermal.ThermalFrame, bool) {
	q := s.queues[corner]
	if len(q) == 0 {
		return nil, false
	}
	s.queues[corner] = q[1:]
	return q[0], true
}

// Remaining returns the number of unread frames for a corner.
func (s *ReplaySource) Remaining(corner thermal.Corner) int {
	return len(s.queues[corner])
}
