// Package inline reads a feed without the TUI and writes it as plain links or JSON.
package inline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/samber/lo"
)

// Output is the JSON document written with --json.
type Output struct {
	Scope     string       `json:"scope"`
	Community string       `json:"community,omitempty"`
	Pages     int          `json:"pages"`
	HasMore   bool         `json:"has_more"`
	Result    []*feed.Item `json:"result"`
}

// Run reads the feed through a pager, so duplicates across pages are dropped and
// reading stops when the backend runs out of videos.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	p := pager.New(options.Source, pager.Options{PageSize: options.PageSize})
	defer p.Close()

	for page := 1; options.Pages <= 0 || page <= options.Pages; page++ {
		if err := p.FetchPage(ctx, page); err != nil {
			return fmt.Errorf("page %d: %w", page, err)
		}
		if !p.Snapshot().HasMore {
			break
		}
	}

	snapshot := p.Snapshot()
	items := snapshot.Items
	if filter, ok := options.Filter.Get(); ok {
		items = lo.Filter(items, func(it *feed.Item, _ int) bool { return filter(it) })
	}

	log.Infof("inline: %d of %d videos after %d pages", len(items), len(snapshot.Items), snapshot.Page)

	if options.Json {
		return writeJson(options.Out, &Output{
			Scope:     string(options.Scope),
			Community: options.Community,
			Pages:     snapshot.Page,
			HasMore:   snapshot.HasMore,
			Result:    lo.Ternary(items == nil, []*feed.Item{}, items),
		})
	}

	for _, it := range items {
		if it.MediaURI == "" || it.Locked() {
			continue
		}
		if _, err := fmt.Fprintln(options.Out, it.MediaURI); err != nil {
			return err
		}
	}

	return nil
}

func writeJson(out io.Writer, output *Output) error {
	data, err := json.Marshal(output)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
