package item

import (
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/playback"
	"github.com/reelfeed/reelfeed/player"
)

// State is the lifecycle stage of a feed item's media.
type State int

const (
	// Dormant items hold no output, and maybe a paused media resource.
	Dormant State = iota
	// Active items own the playback registry and are playing.
	Active
	// Failed items render a placeholder until they are left and re-entered.
	Failed
	// Disposed items ignore everything.
	Disposed
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Active:
		return "active"
	case Failed:
		return "failed"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Event is reported after every state or status change.
type Event struct {
	ID     string
	State  State
	Status player.Status
	Err    error
}

// Registry is the shared single-active playback slot, usually a *playback.Registry.
type Registry interface {
	Active() playback.Handle
	SetActive(h playback.Handle)
	Claim(h playback.Handle, allow func() bool) bool
	ClearActive(h playback.Handle) bool
}

type Options struct {
	Factory        player.Factory
	Registry       Registry
	Muted          bool
	Loop           bool
	ResumeOnReturn bool

	// OnChange is called outside any lock, possibly from a player goroutine.
	OnChange func(Event)
}

// handle is the registry's back-reference for one acquisition. It talks to the
// media directly so the registry never waits on a controller.
type handle struct {
	media player.Media
}

func (h *handle) Pause() error {
	return h.media.Pause()
}

// Locked items are never played.
func playable(it *feed.Item) bool {
	return it != nil && !it.Locked()
}
