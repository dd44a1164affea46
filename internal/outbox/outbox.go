// Package outbox keeps interactions that failed on the network and replays them later.
//
// Entries are appended as JSON lines. Reconcile sends them in order with an
// exponential backoff and rewrites the file with whatever is still pending.
package outbox

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/where"
	"github.com/sirupsen/logrus"
)

const (
	baseDelay = 200 * time.Millisecond
	maxDelay  = 10 * time.Second
	maxJitter = 100 * time.Millisecond

	// MaxAge drops entries nobody managed to send for a week.
	MaxAge = 7 * 24 * time.Hour
)

// Sender is implemented by *api.Client.
type Sender interface {
	Send(ctx context.Context, in api.Interaction) (feed.Counters, error)
}

// Result summarizes a reconciliation.
type Result struct {
	Sent    int
	Dropped int
	Kept    int
}

type Outbox struct {
	path string
	mu   sync.Mutex

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func New(path string) *Outbox {
	return &Outbox{path: path, now: time.Now, sleep: sleep}
}

var (
	defaultOnce sync.Once
	defaultBox  *Outbox
)

// Default is the outbox stored in the config directory.
func Default() *Outbox {
	defaultOnce.Do(func() {
		defaultBox = New(where.Outbox())
	})
	return defaultBox
}

// Queue appends an interaction.
func (o *Outbox) Queue(in api.Interaction) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if in.At.IsZero() {
		in.At = o.now()
	}

	if err := filesystem.API().MkdirAll(filepath.Dir(o.path), os.ModePerm); err != nil {
		return err
	}

	f, err := filesystem.API().OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(in)
}

// Pending returns the queued interactions. Unreadable lines are skipped.
func (o *Outbox) Pending() ([]api.Interaction, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.read()
}

func (o *Outbox) read() ([]api.Interaction, error) {
	f, err := filesystem.API().Open(o.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pending []api.Interaction
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var in api.Interaction
		if err := json.Unmarshal(scanner.Bytes(), &in); err != nil {
			log.Warnf("outbox: skipping unreadable entry: %v", err)
			continue
		}
		pending = append(pending, in)
	}

	return pending, scanner.Err()
}

func (o *Outbox) write(pending []api.Interaction) error {
	if len(pending) == 0 {
		err := filesystem.API().Remove(o.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return filesystem.WriteAtomic(o.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for _, in := range pending {
			if err := enc.Encode(in); err != nil {
				return err
			}
		}
		return nil
	})
}

// Reconcile sends the queued interactions. Sent entries and entries rejected for
// good are dropped. The first retryable failure stops the run and keeps the rest.
func (o *Outbox) Reconcile(ctx context.Context, sender Sender) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var result Result

	pending, err := o.read()
	if err != nil || len(pending) == 0 {
		return result, err
	}

	var kept []api.Interaction
	for i, in := range pending {
		if ctx.Err() != nil || result.Kept > 0 {
			kept = append(kept, pending[i:]...)
			break
		}

		entry := log.WithFields(logrus.Fields{"kind": in.Kind, "video": in.VideoID})

		if o.now().Sub(in.At) > MaxAge {
			entry.Info("outbox: dropping expired interaction")
			result.Dropped++
			continue
		}

		if err := o.sleep(ctx, backoff(i)); err != nil {
			kept = append(kept, pending[i:]...)
			break
		}

		_, err := sender.Send(ctx, in)
		switch {
		case err == nil:
			result.Sent++
		case api.Retryable(err):
			entry.Warnf("outbox: still failing, keeping: %v", err)
			kept = append(kept, in)
			result.Kept++
		default:
			entry.Warnf("outbox: rejected, dropping: %v", err)
			result.Dropped++
		}
	}

	result.Kept = len(kept)

	return result, o.write(kept)
}

// backoff is the delay before the i-th send.
func backoff(i int) time.Duration {
	d := maxDelay
	if i < 16 {
		d = min(baseDelay<<i, maxDelay)
	}
	return d + rand.N(maxJitter)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
