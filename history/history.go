// Package history records the feed items that became active, so they can be marked as seen.
package history

import (
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/where"
)

// Entry is the record of one watched item.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Creator   string    `json:"creator"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Views     int       `json:"views"`
}

var (
	mu     sync.Mutex
	cacher = gache.New[map[string]*Entry](
		&gache.Options{
			Path:       where.History(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
)

// now is replaced in tests.
var now = time.Now

// Get returns every entry keyed by item id.
func Get() (map[string]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()
	return get()
}

func get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the entries, most recently seen first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})

	return entries, nil
}

// Save records a view of the item.
func Save(it *feed.Item) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	t := now()
	entry, ok := saved[it.ID]
	if !ok {
		entry = &Entry{ID: it.ID, FirstSeen: t}
		saved[it.ID] = entry
	}

	entry.Title = it.Title
	entry.Creator = it.Creator.Username
	entry.LastSeen = t
	entry.Views++

	return cacher.Set(saved)
}

// Remove deletes the entry of one item.
func Remove(id string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	delete(saved, id)
	return cacher.Set(saved)
}

// Clear deletes every entry.
func Clear() error {
	mu.Lock()
	defer mu.Unlock()

	return cacher.Set(make(map[string]*Entry))
}
