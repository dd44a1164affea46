// Package playback keeps track of the one media handle that is allowed to produce output.
package playback

import (
	"sync"

	"github.com/reelfeed/reelfeed/log"
	"github.com/sirupsen/logrus"
)

// Handle is a back-reference to a media resource. The registry never owns it:
// it only pauses it when another handle takes over.
type Handle interface {
	// Pause stops output without releasing the resource.
	Pause() error
}

// Registry holds zero or one active Handle. It is safe for concurrent use and
// never calls into a handle while holding its lock.
type Registry struct {
	mu     sync.Mutex
	active Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Active returns the current handle or nil.
func (r *Registry) Active() Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// SetActive makes h the active handle, pausing the previous one first.
// Setting the handle that is already active is a no-op.
func (r *Registry) SetActive(h Handle) {
	r.Claim(h, nil)
}

// Claim is SetActive guarded by allow, which runs under the registry lock and
// must not call back into the registry. Nothing changes when allow returns false.
func (r *Registry) Claim(h Handle, allow func() bool) bool {
	if h == nil {
		return false
	}

	r.mu.Lock()
	if allow != nil && !allow() {
		r.mu.Unlock()
		return false
	}
	prev := r.active
	r.active = h
	r.mu.Unlock()

	if prev != nil && prev != h {
		pause(prev)
	}
	return true
}

// ClearActive pauses and forgets h, but only if h is still the active handle.
// A late clear from an item that already lost the handle to another one is ignored.
func (r *Registry) ClearActive(h Handle) bool {
	if h == nil {
		return false
	}

	r.mu.Lock()
	if r.active != h {
		r.mu.Unlock()
		log.Debug("ignoring stale clear of a handle that is no longer active")
		return false
	}
	r.active = nil
	r.mu.Unlock()

	pause(h)
	return true
}

// Reset pauses and forgets whatever handle is active. Called when the feed screen goes away.
func (r *Registry) Reset() {
	r.mu.Lock()
	prev := r.active
	r.active = nil
	r.mu.Unlock()

	if prev != nil {
		pause(prev)
	}
}

func pause(h Handle) {
	if err := h.Pause(); err != nil {
		log.WithFields(logrus.Fields{"error": err}).Warn("pause previous handle")
	}
}
