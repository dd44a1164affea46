package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/samber/mo"
	"github.com/tidwall/gjson"
)

// Scope selects which feed endpoint is paged.
type Scope string

const (
	ScopeTrending        Scope = "trending"
	ScopeRecommendations Scope = "recommendations"
	ScopeCommunity       Scope = "community"
)

var Scopes = []Scope{ScopeTrending, ScopeRecommendations, ScopeCommunity}

func ParseScope(s string) (Scope, error) {
	scope := Scope(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Scopes {
		if scope == known {
			return scope, nil
		}
	}
	return "", fmt.Errorf("unknown feed scope %q", s)
}

// endpoint returns the path and the envelope keys of a scope.
func (s Scope) endpoint(community string) (string, []string, error) {
	switch s {
	case ScopeTrending:
		return "/videos/trending", []string{"data", "videos"}, nil
	case ScopeRecommendations:
		return "/videos/recommendations", []string{"recommendations", "data"}, nil
	case ScopeCommunity:
		if community == "" {
			return "", nil, fmt.Errorf("community scope needs a community id")
		}
		return "/communities/" + url.PathEscape(community) + "/videos", []string{"data", "videos"}, nil
	default:
		return "", nil, fmt.Errorf("unknown feed scope %q", s)
	}
}

// Videos fetches one page of a feed.
func (c *Client) Videos(ctx context.Context, scope Scope, community string, page, limit int) (*feed.Page, error) {
	path, keys, err := scope.endpoint(community)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.do(ctx, "GET", path, query, nil)
	if err != nil {
		return nil, err
	}

	list, err := envelope(body, keys...)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	records := len(list.Array())
	items := make([]*feed.Item, 0, records)
	list.ForEach(func(_, v gjson.Result) bool {
		if it := decodeItem(v); it != nil {
			items = append(items, it)
		}
		return true
	})

	hasMore := records >= limit
	if v := first(body, "hasMore", "pagination.hasMore", "meta.hasMore"); v.Exists() {
		hasMore = v.Bool()
	}

	return &feed.Page{Number: page, Items: items, HasMore: hasMore, Size: records}, nil
}

// Feed adapts a scope into a pager source.
func (c *Client) Feed(scope Scope, community string) pager.Source {
	return pager.SourceFunc(func(ctx context.Context, page, limit int) (*feed.Page, error) {
		return c.Videos(ctx, scope, community, page, limit)
	})
}

// first returns the first existing value among paths.
func first(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// count reads a counter sent either as a number or as the list of its entries.
func count(r gjson.Result, paths ...string) int {
	v := first(r, paths...)
	switch {
	case !v.Exists():
		return -1
	case v.IsArray():
		return len(v.Array())
	default:
		return int(v.Int())
	}
}

func decodeItem(v gjson.Result) *feed.Item {
	id := first(v, "id", "_id").String()
	if id == "" {
		return nil
	}

	it := &feed.Item{
		ID:       id,
		MediaURI: first(v, "videoUrl", "url", "mediaUrl").String(),
		Title:    first(v, "title", "name").String(),
		Counters: decodeCounters(v),
		Liked:    first(v, "isLiked", "liked").Bool(),
		Creator: feed.Creator{
			ID:       first(v, "creator.id", "creator._id", "createdBy._id").String(),
			Username: first(v, "creator.username", "createdBy.username").String(),
			Photo:    first(v, "creator.profilePhoto", "createdBy.profilePhoto").String(),
		},
		Access: feed.Access{
			Price:     first(v, "amount", "price").Float(),
			Paid:      first(v, "type").String() == "Paid" || first(v, "isPaid").Bool(),
			Purchased: first(v, "isPurchased", "hasPurchased").Bool(),
		},
		Series: mo.None[feed.Series](),
	}

	// unknown counters render as zero in a list
	it.Counters = feed.Counters{
		Likes:    max(it.Counters.Likes, 0),
		Gifts:    max(it.Counters.Gifts, 0),
		Shares:   max(it.Counters.Shares, 0),
		Comments: max(it.Counters.Comments, 0),
	}

	if s := first(v, "series"); s.IsObject() {
		it.Series = mo.Some(feed.Series{
			ID:      first(s, "id", "_id").String(),
			Title:   s.Get("title").String(),
			Episode: int(first(v, "episodeNumber", "episode").Int()),
		})
	}

	return it
}

func decodeCounters(v gjson.Result) feed.Counters {
	return feed.Counters{
		Likes:    count(v, "likes", "likesCount"),
		Gifts:    count(v, "gifts", "giftsCount"),
		Shares:   count(v, "shares", "sharesCount"),
		Comments: count(v, "comments", "commentsCount"),
	}
}
