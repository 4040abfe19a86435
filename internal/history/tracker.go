// Package history maintains multi-window zone temperature trends per tyre
// corner and publishes them to the render path as immutable snapshots.
package history

import (
	"sync"
	"time"

	"github.com/SamSkjord/open-TPT-sub002/internal/thermal"
)

// Plausibility bounds for zone temperature readings, Celsius. Readings
// outside this range are rejected per zone without aborting the update.
const (
	PlausibleMinC = -40.0
	PlausibleMaxC = 250.0
)

// EMA smoothing factors, pre-computed for the nominal 10 Hz update
// cadence. Longer windows forget old readings more slowly.
const (
	Alpha5s  = 0.039
	Alpha15s = 0.013
	Alpha30s = 0.0066
	Alpha1m  = 0.0033
	Alpha5m  = 0.00066
	Alpha15m = 0.00022
)

// Bands holds the seven trend values for one zone: the instantaneous
// reading plus six exponentially-weighted moving averages over increasing
// half-lives.
type Bands struct {
	Current float64 `json:"current"`
	EMA5s   float64 `json:"ema_5s"`
	EMA15s  float64 `json:"ema_15s"`
	EMA30s  float64 `json:"ema_30s"`
	EMA1m   float64 `json:"ema_1m"`
	EMA5m   float64 `json:"ema_5m"`
	EMA15m  float64 `json:"ema_15m"`

	// Initialised is false until the zone's first accepted reading.
	Initialised bool `json:"initialised"`
}

// update folds a reading into the bands. The first accepted reading
// initialises every band outright so trends do not ramp in from zero.
func (b *Bands) update(v float64) {
	if !b.Initialised {
		b.Current = v
		b.EMA5s = v
		b.EMA15s = v
		b.EMA30s = v
		b.EMA1m = v
		b.EMA5m = v
		b.EMA15m = v
		b.Initialised = true
		return
	}
	b.Current = v
	b.EMA5s = Alpha5s*v + (1-Alpha5s)*b.EMA5s
	b.EMA15s = Alpha15s*v + (1-Alpha15s)*b.EMA15s
	b.EMA30s = Alpha30s*v + (1-Alpha30s)*b.EMA30s
	b.EMA1m = Alpha1m*v + (1-Alpha1m)*b.EMA1m
	b.EMA5m = Alpha5m*v + (1-Alpha5m)*b.EMA5m
	b.EMA15m = Alpha15m*v + (1-Alpha15m)*b.EMA15m
}

// Snapshot is an immutable copy of one corner's trend state, stamped with
// the update time. Once published a snapshot is never mutated; readers
// observe either the previous complete snapshot or this one.
type Snapshot struct {
	Corner    thermal.Corner `json:"corner"`
	UpdatedAt time.Time      `json:"updated_at"`
	Inner     Bands          `json:"inner"`
	Centre    Bands          `json:"centre"`
	Outer     Bands          `json:"outer"`
}

// cornerHistory is the mutable trend state for one corner. It is owned
// exclusively by the ingestion loop and never read by the render path.
type cornerHistory struct {
	inner  Bands
	centre Bands
	outer  Bands
}

// Tracker converts instantaneous zone temperatures into multi-horizon
// trend data. Update is called from the ingestion loop only; Snapshot and
// AllSnapshots may be called concurrently from the render loop and never
// block on an in-progress update beyond the slot swap.
type Tracker struct {
	mu        sync.RWMutex
	snapshots map[thermal.Corner]*Snapshot

	histories map[thermal.Corner]*cornerHistory
}

// NewTracker creates a tracker with empty histories for all four corners.
func NewTracker() *Tracker {
	histories := make(map[thermal.Corner]*cornerHistory, 4)
	for _, c := range thermal.Corners() {
		histories[c] = &cornerHistory{}
	}
	return &Tracker{
		snapshots: make(map[thermal.Corner]*Snapshot, 4),
		histories: histories,
	}
}

// Update folds one triple of zone readings into the corner's trend state
// and publishes a fresh snapshot. Each reading is gated independently
// against the plausibility bounds: an implausible reading leaves that
// zone's bands unchanged without aborting the other zones. The number of
// accepted readings is returned; when zero, no snapshot is published and
// the previously published snapshot remains current.
func (t *Tracker) Update(corner thermal.Corner, inner, centre, outer float64, ts time.Time) int {
	h, ok := t.histories[corner]
	if !ok {
		return 0
	}

	accepted := 0
	if plausible(inner) {
		h.inner.update(inner)
		accepted++
	}
	if plausible(centre) {
		h.centre.update(centre)
		accepted++
	}
	if plausible(outer) {
		h.outer.update(outer)
		accepted++
	}
	if accepted == 0 {
		return 0
	}

	// Build the snapshot fully before the swap; the slot only ever holds
	// complete snapshots.
	snap := &Snapshot{
		Corner:    corner,
		UpdatedAt: ts,
		Inner:     h.inner,
		Centre:    h.centre,
		Outer:     h.outer,
	}

	t.mu.Lock()
	t.snapshots[corner] = snap
	t.mu.Unlock()
	return accepted
}

// Snapshot returns the most recently published snapshot for a corner, or
// nil until the corner's first accepted reading.
func (t *Tracker) Snapshot(corner thermal.Corner) *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshots[corner]
}

// AllSnapshots returns the latest snapshot for every corner that has one.
func (t *Tracker) AllSnapshots() map[thermal.Corner]*Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[thermal.Corner]*Snapshot, len(t.snapshots))
	for c, s := range t.snapshots {
		out[c] = s
	}
	return out
}

func plausible(v float64) bool {
	return v >= PlausibleMinC && v <= PlausibleMaxC
}
