// Package player drives the external process that renders a feed item's video.
// The primary backend is mpv through its JSON-IPC socket; IINA is supported on macOS
// through the same protocol.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Status is the last playback state reported by a backend.
type Status struct {
	Playing   bool
	Buffering bool
	// Position and Duration are in seconds. Duration is zero while unknown.
	Position float64
	Duration float64
}

// Progress returns the watched fraction in [0, 1].
func (s Status) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(s.Position/s.Duration, 0), 1)
}

// StatusFunc receives status updates from the backend's event loop.
type StatusFunc func(Status)

// Media is a single loaded video. Implementations must be safe for concurrent use
// and Release must be idempotent.
type Media interface {
	Play() error
	Pause() error
	Seek(seconds float64) error
	SetLoop(loop bool) error
	SetMute(muted bool) error
	Release() error
}

// Options describe the media to load.
type Options struct {
	URI   string
	Title string
	Muted bool
	Loop  bool

	// OnStatus may be nil.
	OnStatus StatusFunc
}

// Factory creates a paused Media for the given options.
// It blocks until the backend is ready or ctx is done.
type Factory func(ctx context.Context, opts Options) (Media, error)

const (
	NameMPV  = "mpv"
	NameIINA = "iina"
)

var launchers = map[string]launcher{
	NameMPV:  mpvLauncher,
	NameIINA: iinaLauncher,
}

// Names lists the supported backends.
func Names() []string {
	names := lo.Keys(launchers)
	slices.Sort(names)
	return names
}

// NewFactory returns the Factory for the named backend.
func NewFactory(name string) (Factory, error) {
	l, ok := launchers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown player %q, supported: %s", name, strings.Join(Names(), ", "))
	}

	return func(ctx context.Context, opts Options) (Media, error) {
		return launch(ctx, l, opts)
	}, nil
}

// Available reports whether the backend's executable is on PATH.
func Available(name string) bool {
	l, ok := launchers[name]
	if !ok {
		return false
	}
	_, err := exec.LookPath(l.binary)
	return err == nil
}
