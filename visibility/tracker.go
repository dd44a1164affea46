// Package visibility decides which feed item is "the" visible one.
//
// The hosting list reports batches of viewable items; the Tracker reduces them to a
// single active index, debounced so that a fast fling does not hand the player from
// item to item dozens of times per second.
package visibility

import (
	"time"
)

// Viewable is one entry of a visibility batch.
type Viewable struct {
	Index   int
	Percent float64
}

// Options configures a Tracker.
type Options struct {
	// Threshold is the minimum visible percentage (0-100) for an item to be considered.
	Threshold float64
	// Dwell is how long a candidate must remain the most visible item before it is promoted.
	Dwell time.Duration
}

// DefaultOptions returns an 80% threshold and a 150ms dwell time.
func DefaultOptions() Options {
	return Options{Threshold: 80, Dwell: 150 * time.Millisecond}
}

// Tracker is a pure reducer over visibility batches. It is not safe for concurrent use;
// the feed screen drives it from its update loop.
type Tracker struct {
	opts Options

	active int

	pending      int
	pendingSince time.Time
	hasPending   bool
}

// NewTracker returns a tracker with no active index.
func NewTracker(opts Options) *Tracker {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultOptions().Threshold
	}
	if opts.Dwell < 0 {
		opts.Dwell = 0
	}
	return &Tracker{opts: opts, active: -1}
}

// Active returns the current active index, or -1 if none was ever promoted.
func (t *Tracker) Active() int {
	return t.active
}

// Dwell returns the configured dwell time, so callers know when to call Settle.
func (t *Tracker) Dwell() time.Duration {
	return t.opts.Dwell
}

// Observe records a batch delivered at the given instant.
// An empty batch, or one with nothing above the threshold, keeps the current active index
// and drops any pending candidate.
func (t *Tracker) Observe(batch []Viewable, at time.Time) {
	candidate, ok := t.pick(batch)
	if !ok {
		t.hasPending = false
		return
	}

	if candidate == t.active {
		t.hasPending = false
		return
	}

	if t.hasPending && t.pending == candidate {
		return
	}

	t.pending = candidate
	t.pendingSince = at
	t.hasPending = true
}

// Settle promotes the pending candidate once it has been stable for the dwell time.
// It returns the new active index and true only when the active index changed.
func (t *Tracker) Settle(at time.Time) (int, bool) {
	if !t.hasPending {
		return t.active, false
	}

	if at.Sub(t.pendingSince) < t.opts.Dwell {
		return t.active, false
	}

	t.hasPending = false
	t.active = t.pending
	return t.active, true
}

// Reset forgets the active index and any pending candidate, e.g. after a refresh
// replaced the list.
func (t *Tracker) Reset() {
	t.active = -1
	t.hasPending = false
}

// Clamp keeps the active index inside a list of the given length.
// It returns the corrected index and whether it changed.
func (t *Tracker) Clamp(length int) (int, bool) {
	if length <= 0 || t.active < length {
		return t.active, false
	}
	t.active = length - 1
	t.hasPending = false
	return t.active, true
}

// pick selects the most visible entry above the threshold, breaking ties by lowest index.
func (t *Tracker) pick(batch []Viewable) (int, bool) {
	best := Viewable{Index: -1}
	for _, v := range batch {
		if v.Index < 0 || v.Percent < t.opts.Threshold {
			continue
		}
		if best.Index == -1 ||
			v.Percent > best.Percent ||
			(v.Percent == best.Percent && v.Index < best.Index) {
			best = v
		}
	}
	return best.Index, best.Index != -1
}
