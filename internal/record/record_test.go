package record

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

func testFrame(fill float64) *thermal.ThermalFrame {
	f := thermal.NewThermalFrame(4, 32)
	for i := range f.Temps {
		f.Temps[i] = fill
	}
	return f
}

func TestRecordReplayRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	rec, err := OpenRecorder(path)
	if err != nil {
		t.Fatalf("failed to open recorder: %v", err)
	}
	if rec.SessionID() == "" {
		t.Fatal("expected a session ID")
	}

	ts := time.Date(2026, 8, 30, 16, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := rec.Record(thermal.FrontLeft, testFrame(20.0+float64(i)), ts); err != nil {
			t.Fatalf("failed to record FL frame %d: %v", i, err)
		}
	}
	if err := rec.Record(thermal.RearRight, testFrame(55.0), ts); err != nil {
		t.Fatalf("failed to record RR frame: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("failed to close recorder: %v", err)
	}

	src, err := OpenReplaySource(path, "")
	if err != nil {
		t.Fatalf("failed to open replay: %v", err)
	}

	if got := src.Remaining(thermal.FrontLeft); got != 3 {
		t.Fatalf("expected 3 FL frames, got %d", got)
	}

	// insertion order preserved
	for i := 0; i < 3; i++ {
		f, ok := src.ReadFrame(thermal.FrontLeft)
		if !ok {
			t.Fatalf("expected FL frame %d", i)
		}
		if want := 20.0 + float64(i); f.Temps[0] != want {
			t.Fatalf("frame %d out of order: got %v, want %v", i, f.Temps[0], want)
		}
		if f.Rows != 4 || f.Width != 32 {
			t.Fatalf("frame %d has wrong shape %dx%d", i, f.Rows, f.Width)
		}
	}

	// exhausted corner reports no frame
	if _, ok := src.ReadFrame(thermal.FrontLeft); ok {
		t.Fatal("expected no frame after session drained")
	}

	// untouched corner unaffected
	if _, ok := src.ReadFrame(thermal.RearRight); !ok {
		t.Fatal("expected RR frame")
	}

	// never-recorded corner reports no frame
	if _, ok := src.ReadFrame(thermal.FrontRight); ok {
		t.Fatal("expected no frame for unrecorded corner")
	}
}

func TestReplaySelectsLatestSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ts := time.Date(2026, 8, 30, 16, 0, 0, 0, time.UTC)

	first, err := OpenRecorder(path)
	if err != nil {
		t.Fatalf("failed to open first recorder: %v", err)
	}
	if err := first.Record(thermal.FrontLeft, testFrame(10.0), ts); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	first.Close()

	second, err := OpenRecorder(path)
	if err != nil {
		t.Fatalf("failed to open second recorder: %v", err)
	}
	if err := second.Record(thermal.FrontLeft, testFrame(99.0), ts); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	second.Close()

	src, err := OpenReplaySource(path, "")
	if err != nil {
		t.Fatalf("failed to open replay: %v", err)
	}
	f, ok := src.ReadFrame(thermal.FrontLeft)
	if !ok {
		t.Fatal("expected a frame")
	}
	if f.Temps[0] != 99.0 {
		t.Fatalf("expected latest session frame (99.0), got %v", f.Temps[0])
	}

	// explicit session ID selects the older session
	src, err = OpenReplaySource(path, first.SessionID())
	if err != nil {
		t.Fatalf("failed to open replay for explicit session: %v", err)
	}
	f, ok = src.ReadFrame(thermal.FrontLeft)
	if !ok {
		t.Fatal("expected a frame")
	}
	if f.Temps[0] != 10.0 {
		t.Fatalf("expected first session frame (10.0), got %v", f.Temps[0])
	}
}

func TestReplayMissingSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")

	rec, err := OpenRecorder(path)
	if err != nil {
		t.Fatalf("failed to open recorder: %v", err)
	}
	rec.Close()

	if _, err := OpenReplaySource(path, ""); err == nil {
		t.Fatal("expected an error for a log with no sessions")
	}
}
