// Package community resolves communities by name for community-scoped feeds.
package community

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/internal/cache"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
)

// Lifetime is how long the community list is reused before it is fetched again.
const Lifetime = 6 * time.Hour

const listKey = "all"

// ErrNotFound is returned when no community matches a query.
var ErrNotFound = errors.New("community not found")

// Lister is implemented by *api.Client.
type Lister interface {
	Communities(ctx context.Context) ([]api.Community, error)
}

var listCache = cache.New[string, []api.Community](where.Communities(), Lifetime, nil)

// List returns the communities, from the cache unless refresh is set or it expired.
func List(ctx context.Context, lister Lister, refresh bool) ([]api.Community, error) {
	if !refresh {
		if cached, ok := listCache.Get(listKey).Get(); ok {
			return cached, nil
		}
	}

	communities, err := lister.Communities(ctx)
	if err != nil {
		return nil, err
	}

	if err := listCache.Set(listKey, communities); err != nil {
		log.Warnf("caching communities: %v", err)
	}

	return communities, nil
}

// Find picks the community for a user query: an exact id or name first, then
// the closest fuzzy match by name.
func Find(communities []api.Community, query string) (api.Community, error) {
	q := normalize(query)
	if q == "" {
		return api.Community{}, fmt.Errorf("empty query: %w", ErrNotFound)
	}

	for _, c := range communities {
		if c.ID == query || normalize(c.Name) == q {
			return c, nil
		}
	}

	matches := lo.Filter(communities, func(c api.Community, _ int) bool {
		return fuzzy.MatchNormalizedFold(q, c.Name)
	})

	if len(matches) == 0 {
		if len(communities) == 0 {
			return api.Community{}, fmt.Errorf("%q: %w", query, ErrNotFound)
		}

		closest := lo.MinBy(communities, func(a, b api.Community) bool {
			return distance(q, a.Name) < distance(q, b.Name)
		})
		return api.Community{}, fmt.Errorf("%q: %w, did you mean %q?", query, ErrNotFound, closest.Name)
	}

	return lo.MinBy(matches, func(a, b api.Community) bool {
		da, db := distance(q, a.Name), distance(q, b.Name)
		if da != db {
			return da < db
		}
		return a.Members > b.Members
	}), nil
}

func distance(q, name string) int {
	return levenshtein.Distance(q, normalize(name))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
