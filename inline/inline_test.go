package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// pages serves a feed that ends on page 3. Page 2 repeats video b.
func pages(calls *[]int) pager.SourceFunc {
	return func(_ context.Context, page, limit int) (*feed.Page, error) {
		*calls = append(*calls, page)
		var items []*feed.Item
		switch page {
		case 1:
			items = []*feed.Item{video("a", false), video("b", false)}
		case 2:
			items = []*feed.Item{video("b", false), video("c", true)}
		case 3:
			items = []*feed.Item{video("d", false)}
		}
		return &feed.Page{Number: page, Items: items, HasMore: page < 3}, nil
	}
}

func video(id string, locked bool) *feed.Item {
	return &feed.Item{
		ID:       id,
		Title:    "Clip " + strings.ToUpper(id),
		MediaURI: fmt.Sprintf("https://cdn.example.com/%s.mp4", id),
		Creator:  feed.Creator{Username: "user_" + id},
		Access:   feed.Access{Paid: locked, Price: 1.5},
	}
}

func TestRun(t *testing.T) {
	Convey("Given a three page feed", t, func() {
		var calls []int
		var out bytes.Buffer
		opts := &Options{Out: &out, Source: pages(&calls), Scope: api.ScopeTrending, PageSize: 2}

		Convey("Plain output lists playable media until the feed ends", func() {
			So(Run(context.Background(), opts), ShouldBeNil)
			So(calls, ShouldResemble, []int{1, 2, 3})
			So(strings.Fields(out.String()), ShouldResemble, []string{
				"https://cdn.example.com/a.mp4",
				"https://cdn.example.com/b.mp4",
				"https://cdn.example.com/d.mp4",
			})
		})

		Convey("Pages limits the reads", func() {
			opts.Pages = 1
			So(Run(context.Background(), opts), ShouldBeNil)
			So(calls, ShouldResemble, []int{1})
		})

		Convey("JSON output carries the de-duplicated items", func() {
			opts.Json = true
			So(Run(context.Background(), opts), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Scope, ShouldEqual, "trending")
			So(output.Pages, ShouldEqual, 3)
			So(output.HasMore, ShouldBeFalse)
			So(output.Result, ShouldHaveLength, 4)
		})

		Convey("Filters apply before writing", func() {
			filter, err := ParseFilter("locked")
			So(err, ShouldBeNil)
			opts.Filter = mo.Some(filter)
			opts.Json = true

			So(Run(context.Background(), opts), ShouldBeNil)
			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].ID, ShouldEqual, "c")
		})

		Convey("An empty result is still a list", func() {
			opts.Filter = mo.Some[Filter](func(*feed.Item) bool { return false })
			opts.Json = true

			So(Run(context.Background(), opts), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, `"result":[]`)
		})
	})

	Convey("A failing page is reported", t, func() {
		source := pager.SourceFunc(func(context.Context, int, int) (*feed.Page, error) {
			return nil, errors.New("boom")
		})
		err := Run(context.Background(), &Options{Out: &bytes.Buffer{}, Source: source})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "page 1")
	})
}

func TestParseFilter(t *testing.T) {
	Convey("ParseFilter", t, func() {
		liked := video("x", false)
		liked.Liked = true

		cases := map[string][2]bool{
			// description: {matches liked, matches locked}
			"all":     {true, true},
			"free":    {true, false},
			"locked":  {false, true},
			"liked":   {true, false},
			"@USER_X": {true, false},
			"~clip~":  {true, true},
		}

		locked := video("y", true)
		for description, want := range cases {
			f, err := ParseFilter(description)
			So(err, ShouldBeNil)
			So(f(liked), ShouldEqual, want[0])
			So(f(locked), ShouldEqual, want[1])
		}

		Convey("Series needs a series", func() {
			f, _ := ParseFilter("series")
			So(f(liked), ShouldBeFalse)
			liked.Series = mo.Some(feed.Series{ID: "s", Title: "Saga", Episode: 1})
			So(f(liked), ShouldBeTrue)
		})

		Convey("Unknown descriptions fail", func() {
			for _, bad := range []string{"", "@", "~~", "newest"} {
				_, err := ParseFilter(bad)
				So(err, ShouldNotBeNil)
			}
		})
	})
}
