// Package item drives the media of a single feed item from its visibility.
//
// A Controller is told only whether its item is the active one. Side effects run
// on a background goroutine in the order they were issued. Lifecycle effects carry
// the epoch they were issued in and are dropped once a newer call supersedes them.
package item

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/player"
	"github.com/sirupsen/logrus"
)

// ErrNoMedia is reported for items without a media URI.
var ErrNoMedia = errors.New("item has no playable media")

var errDisposed = errors.New("controller disposed")

type Controller struct {
	item *feed.Item
	opts Options

	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	queueMu  sync.Mutex
	queue    []func()
	draining bool

	mu         sync.Mutex
	state      State
	epoch      uint64
	media      player.Media
	handle     *handle
	status     player.Status
	err        error
	muted      bool
	userPaused bool
	suspended  bool
}

// New returns a dormant controller. Nothing is spawned until the item becomes active.
func New(it *feed.Item, opts Options) *Controller {
	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		item:   it,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
		muted:  opts.Muted,
	}
}

func (c *Controller) ID() string {
	return c.item.ID
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the last status reported by the media.
func (c *Controller) Status() player.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the failure that put the item into the Failed state.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Controller) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Paused reports whether the user paused the active item.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userPaused
}

// SetActive is the only input that moves the item between Dormant, Active and Failed.
// It returns immediately.
func (c *Controller) SetActive(active bool) {
	c.mu.Lock()
	if c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	c.run(func() {
		if active {
			c.activate(epoch)
		} else {
			c.deactivate(epoch)
		}
	})
}

// Dispose deactivates the item and releases its media in the background.
// Status reported after Dispose is ignored.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.epoch++
	c.state = Disposed
	media, h := c.media, c.handle
	c.media, c.handle = nil, nil
	ev := c.eventLocked()
	c.mu.Unlock()

	// unblocks an acquisition in flight
	c.cancel()
	c.notify(ev)

	c.run(func() {
		if media == nil {
			return
		}

		if h == nil || !c.opts.Registry.ClearActive(h) {
			c.mediaCall("pause", media.Pause)
		}
		c.mediaCall("release", media.Release)
	})
}

// Sync waits until every queued side effect has run.
func (c *Controller) Sync() {
	c.pending.Wait()
}

// Suspend pauses the active item while something covers it.
func (c *Controller) Suspend() {
	c.mu.Lock()
	if c.suspended || c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.suspended = true
	c.mu.Unlock()

	c.run(c.reconcile)
}

// Resume undoes Suspend, unless the user paused the item.
func (c *Controller) Resume() {
	c.mu.Lock()
	if !c.suspended || c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.suspended = false
	c.mu.Unlock()

	c.run(c.reconcile)
}

// TogglePause flips the user pause of the active item and returns the new value.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		return false
	}
	c.userPaused = !c.userPaused
	paused := c.userPaused
	c.mu.Unlock()

	c.run(c.reconcile)

	return paused
}

// Replay seeks the active item back to the start and clears a user pause.
func (c *Controller) Replay() {
	c.mu.Lock()
	if c.state != Active {
		c.mu.Unlock()
		return
	}
	c.userPaused = false
	c.mu.Unlock()

	c.run(func() {
		if media, ok := c.ownedMedia(); ok {
			c.mediaCall("seek", func() error { return media.Seek(0) })
		}
		c.reconcile()
	})
}

// SetMuted applies now if the media exists, otherwise on acquisition.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	if c.muted == muted || c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.muted = muted
	media := c.media
	c.mu.Unlock()

	if media == nil {
		return
	}

	c.run(func() {
		c.mu.Lock()
		muted := c.muted
		c.mu.Unlock()
		c.mediaCall("mute", func() error { return media.SetMute(muted) })
	})
}

// ToggleMute flips the mute flag and returns the new value.
func (c *Controller) ToggleMute() bool {
	muted := !c.Muted()
	c.SetMuted(muted)
	return muted
}

// run queues op behind every effect issued before it. A drain goroutine lives
// only while the queue is non-empty.
func (c *Controller) run(op func()) {
	c.pending.Add(1)

	c.queueMu.Lock()
	c.queue = append(c.queue, op)
	start := !c.draining
	c.draining = true
	c.queueMu.Unlock()

	if start {
		go c.drain()
	}
}

func (c *Controller) drain() {
	for {
		c.queueMu.Lock()
		if len(c.queue) == 0 {
			c.draining = false
			c.queueMu.Unlock()
			return
		}
		op := c.queue[0]
		c.queue[0] = nil
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		op()
		c.pending.Done()
	}
}

func (c *Controller) current(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch && c.state != Disposed
}

func (c *Controller) activate(epoch uint64) {
	if !c.current(epoch) || !playable(c.item) {
		return
	}

	media, err := c.acquire()
	if err != nil {
		c.fail(epoch, err)
		return
	}

	h := &handle{media: media}
	if !c.register(epoch, h) {
		c.logger().Debug("dropping stale acquisition")
		return
	}

	c.mu.Lock()
	muted := c.muted
	c.mu.Unlock()

	c.mediaCall("mute", func() error { return media.SetMute(muted) })
	if !c.opts.ResumeOnReturn {
		c.mediaCall("seek", func() error { return media.Seek(0) })
	}

	// superseded while registering: the queued deactivation or disposal takes it from here
	c.mu.Lock()
	stale := c.epoch != epoch || c.state == Disposed
	suspended := c.suspended
	c.mu.Unlock()
	if stale {
		return
	}

	if !suspended {
		if err := media.Play(); err != nil {
			c.opts.Registry.ClearActive(h)
			c.fail(epoch, fmt.Errorf("play: %w", err))
			return
		}

		// a newer item took over between registration and Play
		if c.opts.Registry.Active() != h {
			c.mediaCall("pause", media.Pause)
		}
	}

	c.setState(epoch, Active)
}

// register claims the registry for h. The epoch check and the claim happen
// atomically, so an activation superseded before it registers never pauses the
// item that replaced it.
func (c *Controller) register(epoch uint64, h *handle) bool {
	return c.opts.Registry.Claim(h, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.epoch != epoch || c.state == Disposed {
			return false
		}
		c.handle = h
		c.userPaused = false
		return true
	})
}

func (c *Controller) deactivate(epoch uint64) {
	if !c.current(epoch) {
		return
	}

	c.mu.Lock()
	media, h := c.media, c.handle
	c.handle = nil
	c.mu.Unlock()

	if media != nil {
		if h == nil || !c.opts.Registry.ClearActive(h) {
			c.mediaCall("pause", media.Pause)
		}
		if !c.opts.ResumeOnReturn {
			c.mediaCall("seek", func() error { return media.Seek(0) })
		}
	}

	c.setState(epoch, Dormant)
}

// acquire returns the existing media or creates it. It blocks on the factory.
func (c *Controller) acquire() (player.Media, error) {
	c.mu.Lock()
	media, muted := c.media, c.muted
	c.mu.Unlock()

	if media != nil {
		return media, nil
	}

	if c.item.MediaURI == "" {
		return nil, ErrNoMedia
	}

	media, err := c.opts.Factory(c.ctx, player.Options{
		URI:      c.item.MediaURI,
		Title:    c.item.Title,
		Muted:    muted,
		Loop:     c.opts.Loop,
		OnStatus: c.onStatus,
	})
	if err != nil {
		return nil, fmt.Errorf("acquire media: %w", err)
	}

	c.mu.Lock()
	if c.state == Disposed {
		c.mu.Unlock()
		c.mediaCall("release", media.Release)
		return nil, errDisposed
	}
	c.media = media
	c.mu.Unlock()

	return media, nil
}

// fail moves to Failed and drops the media so the next activation starts fresh.
func (c *Controller) fail(epoch uint64, err error) {
	c.mu.Lock()
	if c.epoch != epoch || c.state == Disposed {
		c.mu.Unlock()
		c.logger().Debugf("ignoring failure of a superseded activation: %v", err)
		return
	}

	c.state = Failed
	c.err = err
	media := c.media
	c.media, c.handle = nil, nil
	ev := c.eventLocked()
	c.mu.Unlock()

	c.logger().Warnf("playback failed: %v", err)

	if media != nil {
		c.mediaCall("release", media.Release)
	}

	c.notify(ev)
}

func (c *Controller) setState(epoch uint64, s State) {
	c.mu.Lock()
	if c.epoch != epoch || c.state == Disposed {
		c.mu.Unlock()
		return
	}

	changed := c.state != s
	c.state = s
	c.err = nil
	ev := c.eventLocked()
	c.mu.Unlock()

	if changed {
		c.notify(ev)
	}
}

func (c *Controller) onStatus(s player.Status) {
	c.mu.Lock()
	if c.state == Disposed {
		c.mu.Unlock()
		return
	}
	c.status = s
	ev := c.eventLocked()
	c.mu.Unlock()

	c.notify(ev)
}

// ownedMedia returns the media of an active item that still holds the registry.
func (c *Controller) ownedMedia() (player.Media, bool) {
	c.mu.Lock()
	media, h, active := c.media, c.handle, c.state == Active
	c.mu.Unlock()

	if !active || media == nil || h == nil || c.opts.Registry.Active() != h {
		return nil, false
	}
	return media, true
}

// reconcile plays or pauses the owned media from the pause and suspend flags
// as they are when it runs, not when it was queued.
func (c *Controller) reconcile() {
	media, ok := c.ownedMedia()
	if !ok {
		return
	}

	c.mu.Lock()
	hold := c.userPaused || c.suspended
	c.mu.Unlock()

	if hold {
		c.mediaCall("pause", media.Pause)
	} else {
		c.mediaCall("play", media.Play)
	}
}

func (c *Controller) eventLocked() Event {
	return Event{ID: c.item.ID, State: c.state, Status: c.status, Err: c.err}
}

func (c *Controller) notify(ev Event) {
	if c.opts.OnChange != nil {
		c.opts.OnChange(ev)
	}
}

func (c *Controller) mediaCall(op string, fn func() error) {
	if err := fn(); err != nil {
		c.logger().Warnf("%s: %v", op, err)
	}
}

func (c *Controller) logger() *logrus.Entry {
	return log.WithFields(logrus.Fields{"video": c.item.ID})
}
