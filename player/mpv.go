package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/log"
	"github.com/sirupsen/logrus"
)

const (
	socketPollDelay = 100 * time.Millisecond
	socketTimeout   = 5 * time.Second
	quitTimeout     = 3 * time.Second
)

// ErrExited is returned by commands sent after the player process is gone.
var ErrExited = errors.New("player process exited")

// launcher describes how to spawn a backend that speaks mpv's IPC protocol.
type launcher struct {
	binary string
	// prefix is prepended to every mpv option name.
	prefix string
	extra  []string
	goos   string
}

var (
	mpvLauncher  = launcher{binary: "mpv", prefix: "--"}
	iinaLauncher = launcher{binary: "iina", prefix: "--mpv-", extra: []string{"--no-stdin"}, goos: "darwin"}
)

func (l launcher) args(socket, target string, opts Options) []string {
	opt := func(name, value string) string {
		return fmt.Sprintf("%s%s=%s", l.prefix, name, value)
	}

	title := sanitizeTitle(opts.Title)
	if title == "" {
		title = constant.ReelFeed
	}

	args := append([]string{}, l.extra...)
	args = append(args,
		opt("input-ipc-server", socket),
		opt("terminal", "no"),
		opt("really-quiet", "yes"),
		opt("force-media-title", title),
		opt("force-window", "yes"),
		opt("idle", "yes"),
		opt("keep-open", "yes"),
		opt("pause", "yes"),
		opt("loop-file", loopValue(opts.Loop)),
		opt("mute", yesNo(opts.Muted)),
	)

	return append(args, target)
}

// MPV is a Media backed by an mpv (or mpv-compatible) process.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex // serializes IPC round trips
	listener   *EventListener

	statusMu sync.Mutex
	status   Status
	onStatus StatusFunc
	released bool

	releaseOnce sync.Once
}

// NewMPV spawns mpv paused with the given media loaded.
func NewMPV(ctx context.Context, opts Options) (*MPV, error) {
	return launch(ctx, mpvLauncher, opts)
}

func launch(ctx context.Context, l launcher, opts Options) (*MPV, error) {
	if l.goos != "" && l.goos != runtime.GOOS {
		return nil, fmt.Errorf("%s is only supported on %s", l.binary, l.goos)
	}

	target, err := sanitizeMediaTarget(opts.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	socket, err := newSocketPath()
	if err != nil {
		return nil, err
	}

	m := &MPV{
		socketPath: socket,
		exited:     make(chan struct{}),
		onStatus:   opts.OnStatus,
	}

	m.cmd = exec.Command(l.binary, l.args(socket, target, opts)...)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", l.binary, err)
	}

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		_ = killProcess(m.cmd)
		_ = os.Remove(socket)
		return nil, fmt.Errorf("%s socket not ready: %w", l.binary, err)
	}

	m.listener = NewEventListener(socket, m.handleEvent)
	if err := m.listener.Start(); err != nil {
		// commands still work, the item just gets no status updates
		log.WithFields(logrus.Fields{"socket": socket}).Warnf("status events unavailable: %v", err)
	}

	return m, nil
}

func newSocketPath() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate socket name: %w", err)
	}

	// os.TempDir, not /tmp: macOS uses a per-user temp dir
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%x.sock", constant.ReelFeed, b)), nil
}

func (m *MPV) waitForSocket(ctx context.Context) error {
	deadline := time.NewTimer(socketTimeout)
	defer deadline.Stop()

	poll := time.NewTicker(socketPollDelay)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return ErrExited
		case <-deadline.C:
			return fmt.Errorf("no socket at %s after %s", m.socketPath, socketTimeout)
		case <-poll.C:
			conn, err := net.Dial("unix", m.socketPath)
			if err == nil {
				_ = conn.Close()
				return nil
			}
		}
	}
}

// Wait returns a channel closed when the process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Seek moves to an absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", max(seconds, 0), "absolute")
	return err
}

func (m *MPV) SetLoop(loop bool) error {
	return m.set("loop-file", loopValue(loop))
}

func (m *MPV) SetMute(muted bool) error {
	return m.set("mute", muted)
}

// Status returns the last reported state.
func (m *MPV) Status() Status {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()
	return m.status
}

// Release quits the process and removes its socket. Status callbacks stop
// before Release returns.
func (m *MPV) Release() error {
	m.releaseOnce.Do(func() {
		m.statusMu.Lock()
		m.released = true
		m.statusMu.Unlock()

		if m.listener != nil {
			m.listener.Stop()
		}

		select {
		case <-m.exited:
		default:
			_, _ = m.sendCommand("quit")
		}

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			log.Warnf("mpv did not quit in %s, killing", quitTimeout)
			_ = killProcess(m.cmd)
		}

		_ = os.Remove(m.socketPath)
	})

	return nil
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

func (m *MPV) handleEvent(name string, data any) {
	m.statusMu.Lock()
	if m.released {
		m.statusMu.Unlock()
		return
	}

	next, changed := applyProperty(m.status, name, data)
	if !changed {
		m.statusMu.Unlock()
		return
	}
	m.status = next
	callback := m.onStatus
	m.statusMu.Unlock()

	if callback != nil {
		callback(next)
	}
}

// applyProperty folds an observed property change into s.
func applyProperty(s Status, name string, data any) (Status, bool) {
	next := s

	switch name {
	case "pause":
		paused, ok := data.(bool)
		if !ok {
			return s, false
		}
		next.Playing = !paused
	case "paused-for-cache":
		buffering, ok := data.(bool)
		if !ok {
			return s, false
		}
		next.Buffering = buffering
	case "time-pos":
		pos, ok := data.(float64)
		if !ok {
			return s, false
		}
		next.Position = pos
	case "duration":
		dur, ok := data.(float64)
		if !ok {
			return s, false
		}
		next.Duration = dur
	default:
		return s, false
	}

	return next, next != s
}

// sanitizeMediaTarget rejects anything mpv could read as a flag and limits
// remote targets to http(s).
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URI")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("control characters in URI")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("URI must not start with '-'")
	}

	if !strings.Contains(l, "://") {
		return filepath.Clean(l), nil
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("parse URI: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	case "file":
		return filepath.Clean(u.Path), nil
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

func loopValue(loop bool) string {
	if loop {
		return "inf"
	}
	return "no"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
