package community

import (
	"sort"

	"github.com/metafates/gache"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
)

type record struct {
	Rank int           `json:"rank"`
	Last api.Community `json:"last"`
}

var recent = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.RecentCommunities(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Remember bumps the rank of a community the user opened.
func Remember(c api.Community) error {
	cached, expired, err := recent.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if r, ok := cached[c.ID]; ok {
		r.Rank++
		r.Last = c
	} else {
		cached[c.ID] = &record{Rank: 1, Last: c}
	}

	return recent.Set(cached)
}

// Recent returns remembered communities, most opened first.
func Recent() []api.Community {
	cached, expired, err := recent.Get()
	if err != nil || expired || cached == nil {
		return nil
	}

	records := lo.Values(cached)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Rank != records[j].Rank {
			return records[i].Rank > records[j].Rank
		}
		return records[i].Last.Name < records[j].Last.Name
	})

	return lo.Map(records, func(r *record, _ int) api.Community {
		return r.Last
	})
}
