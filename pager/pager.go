// Package pager loads a feed page by page and keeps the de-duplicated item list.
//
// Every refresh starts a new generation. A response that belongs to an older
// generation, or arrives after Close, is dropped without touching the list.
package pager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/sirupsen/logrus"
)

// ErrClosed is returned by fetches started after Close.
var ErrClosed = errors.New("pager closed")

// Source serves feed pages, numbered from 1.
type Source interface {
	FetchPage(ctx context.Context, page, limit int) (*feed.Page, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, page, limit int) (*feed.Page, error)

func (f SourceFunc) FetchPage(ctx context.Context, page, limit int) (*feed.Page, error) {
	return f(ctx, page, limit)
}

type Options struct {
	PageSize int
	// PrefetchDistance is how many items before the end a prefetch starts.
	PrefetchDistance int
}

var DefaultOptions = Options{PageSize: 10, PrefetchDistance: 2}

// Snapshot is a read-only view of the controller.
// Items are never mutated after they enter the list, so they can be shared.
type Snapshot struct {
	Items      []*feed.Item
	HasMore    bool
	Loading    bool
	Err        error
	Page       int
	Generation uint64
}

// Empty reports a finished load that produced nothing.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0 && !s.Loading && s.Err == nil && !s.HasMore
}

type Controller struct {
	source Source
	opts   Options

	mu         sync.Mutex
	items      []*feed.Item
	page       int
	hasMore    bool
	loading    bool
	err        error
	generation uint64
	closed     bool
}

func New(source Source, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions.PageSize
	}
	if opts.PrefetchDistance < 0 {
		opts.PrefetchDistance = DefaultOptions.PrefetchDistance
	}

	return &Controller{
		source:  source,
		opts:    opts,
		hasMore: true,
	}
}

// FetchPage requests page n and appends the new items. On failure the error is
// recorded and the list is left as it was.
func (c *Controller) FetchPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loading = true
	gen := c.generation
	c.mu.Unlock()

	return c.fetch(ctx, gen, n)
}

// Refresh drops the list and loads page 1 in a new generation.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.generation++
	c.items = nil
	c.page = 0
	c.hasMore = true
	c.err = nil
	c.loading = true
	gen := c.generation
	c.mu.Unlock()

	return c.fetch(ctx, gen, 1)
}

// Prefetch loads the next page when visibleIndex is within the prefetch
// distance of the end, more pages exist and nothing is loading.
// It reports whether a fetch ran.
func (c *Controller) Prefetch(ctx context.Context, visibleIndex int) (bool, error) {
	c.mu.Lock()
	if c.closed || c.loading || !c.hasMore || visibleIndex < len(c.items)-c.opts.PrefetchDistance {
		c.mu.Unlock()
		return false, nil
	}
	c.loading = true
	gen, next := c.generation, c.page+1
	c.mu.Unlock()

	return true, c.fetch(ctx, gen, next)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, n int) error {
	page, err := c.source.FetchPage(ctx, n, c.opts.PageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		log.WithFields(logrus.Fields{"page": n, "generation": gen}).Debug("dropping superseded page")
		return nil
	}

	c.loading = false

	if err == nil && page == nil {
		err = fmt.Errorf("page %d: empty response", n)
	}
	if err != nil {
		c.err = err
		return err
	}

	merged, added := feed.Merge(c.items, page.Items)
	c.items = merged
	c.page = max(c.page, n)
	c.hasMore = page.HasMore && page.Len() >= c.opts.PageSize
	c.err = nil

	log.WithFields(logrus.Fields{"page": n, "added": added, "total": len(merged)}).Debug("page loaded")
	return nil
}

// Update replaces the item with the given id by a copy modified by fn.
// It reports whether the item was found.
func (c *Controller) Update(id string, fn func(*feed.Item)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := feed.IndexOf(c.items, id)
	if i < 0 {
		return false
	}

	clone := c.items[i].Clone()
	fn(clone)

	items := make([]*feed.Item, len(c.items))
	copy(items, c.items)
	items[i] = clone
	c.items = items

	return true
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Items:      c.items,
		HasMore:    c.hasMore,
		Loading:    c.loading,
		Err:        c.err,
		Page:       c.page,
		Generation: c.generation,
	}
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close makes every pending and future response a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.loading = false
	c.generation++
}
