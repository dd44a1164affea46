package inline

import (
	"fmt"
	"io"
	"strings"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/samber/mo"
)

// Filter keeps the items it returns true for.
type Filter func(*feed.Item) bool

type Options struct {
	Out       io.Writer
	Source    pager.Source
	Scope     api.Scope
	Community string
	// Pages is the number of pages to read, 0 reads until the feed ends.
	Pages    int
	PageSize int
	Json     bool
	Filter   mo.Option[Filter]
}

// ParseFilter parses a filter description.
// Format: "all", "free", "locked", "liked", "series", "@creator", "~substring~"
func ParseFilter(description string) (Filter, error) {
	switch description {
	case "all":
		return func(*feed.Item) bool { return true }, nil
	case "free":
		return func(it *feed.Item) bool { return !it.Locked() }, nil
	case "locked":
		return func(it *feed.Item) bool { return it.Locked() }, nil
	case "liked":
		return func(it *feed.Item) bool { return it.Liked }, nil
	case "series":
		return func(it *feed.Item) bool { return it.Series.IsPresent() }, nil
	}

	// Creator: "@name"
	if name, ok := strings.CutPrefix(description, "@"); ok && name != "" {
		return func(it *feed.Item) bool {
			return strings.EqualFold(it.Creator.Username, name)
		}, nil
	}

	// Substring: "~text~"
	if len(description) > 2 && strings.HasPrefix(description, "~") && strings.HasSuffix(description, "~") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(it *feed.Item) bool {
			return strings.Contains(strings.ToLower(it.Title), sub)
		}, nil
	}

	return nil, fmt.Errorf("invalid filter: %s", description)
}
