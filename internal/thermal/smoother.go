package thermal

// SmoothedSuffix is appended to the method tag when temporal smoothing
// changed the raw boundary.
const SmoothedSuffix = "+smoothed"

// SmoothedBoundary is a boundary estimate damped over a short history of
// raw estimates. Invariant: Left <= Right.
type SmoothedBoundary struct {
	Left    int
	Right   int
	Method  string
	Success bool
}

// Width returns the smoothed width in columns.
func (s SmoothedBoundary) Width() int { return s.Right - s.Left }

// BoundarySmoother damps frame-to-frame jitter in detected boundaries
// using a recency-weighted average over a bounded ring of recent
// estimates. The tyre's true contact width barely changes between
// consecutive frames at the sensor refresh rate, so threshold flicker can
// be averaged out without perceptible lag.
type BoundarySmoother struct {
	lefts    []int
	rights   []int
	capacity int
	head     int
	size     int
}

// NewBoundarySmoother creates a smoother keeping the given number of
// recent estimates. Depth below 1 falls back to 3.
func NewBoundarySmoother(depth int) *BoundarySmoother {
	if depth < 1 {
		depth = 3
	}
	return &BoundarySmoother{
		lefts:    make([]int, depth),
		rights:   make([]int, depth),
		capacity: depth,
	}
}

// Size returns the number of estimates currently held.
func (s *BoundarySmoother) Size() int { return s.size }

// Reset discards all held estimates.
func (s *BoundarySmoother) Reset() {
	s.head = 0
	s.size = 0
}

// Smooth records the raw estimate and returns the recency-weighted
// average over the held history, truncated to integer columns. With fewer
// than two samples the raw estimate is passed through unchanged. The
// method tag of the raw estimate is preserved, with a diagnostic suffix
// appended when smoothing changed the output.
func (s *BoundarySmoother) Smooth(raw BoundaryEstimate) SmoothedBoundary {
	s.lefts[s.head] = raw.Left
	s.rights[s.head] = raw.Right
	s.head = (s.head + 1) % s.capacity
	if s.size < s.capacity {
		s.size++
	}

	out := SmoothedBoundary{
		Left:    raw.Left,
		Right:   raw.Right,
		Method:  raw.Method,
		Success: raw.Success,
	}
	if s.size < 2 {
		return out
	}

	// Ascending weights, oldest first: 1, 2, ..., size.
	var leftSum, rightSum, weightSum float64
	for i := 0; i < s.size; i++ {
		idx := (s.head - s.size + i + s.capacity) % s.capacity
		w := float64(i + 1)
		leftSum += w * float64(s.lefts[idx])
		rightSum += w * float64(s.rights[idx])
		weightSum += w
	}

	out.Left = int(leftSum / weightSum)
	out.Right = int(rightSum / weightSum)
	if out.Left != raw.Left || out.Right != raw.Right {
		out.Method += SmoothedSuffix
	}
	return out
}
