package community

import (
	"context"
	"errors"
	"testing"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeLister struct {
	calls int
	list  []api.Community
	err   error
}

func (f *fakeLister) Communities(context.Context) ([]api.Community, error) {
	f.calls++
	return f.list, f.err
}

var sample = []api.Community{
	{ID: "c1", Name: "Street Food", Members: 40},
	{ID: "c2", Name: "Street Photography", Members: 900},
	{ID: "c3", Name: "Indie Games", Members: 12},
}

func TestFind(t *testing.T) {
	Convey("Given a few communities", t, func() {
		Convey("An exact name wins regardless of case", func() {
			c, err := Find(sample, "indie GAMES")
			So(err, ShouldBeNil)
			So(c.ID, ShouldEqual, "c3")
		})

		Convey("An id is accepted", func() {
			c, err := Find(sample, "c2")
			So(err, ShouldBeNil)
			So(c.Name, ShouldEqual, "Street Photography")
		})

		Convey("A partial name picks the closest fuzzy match", func() {
			c, err := Find(sample, "strfood")
			So(err, ShouldBeNil)
			So(c.ID, ShouldEqual, "c1")
		})

		Convey("No match suggests the closest name", func() {
			_, err := Find(sample, "indy gamez")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Indie Games")
		})

		Convey("An empty query is not found", func() {
			_, err := Find(sample, " ")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestList(t *testing.T) {
	Convey("Given a lister", t, func() {
		lister := &fakeLister{list: sample}
		ctx := context.Background()
		So(listCache.Clear(), ShouldBeNil)

		Convey("The second call is served from the cache", func() {
			_, err := List(ctx, lister, false)
			So(err, ShouldBeNil)

			list, err := List(ctx, lister, false)
			So(err, ShouldBeNil)
			So(list, ShouldHaveLength, 3)
			So(lister.calls, ShouldEqual, 1)

			Convey("Unless a refresh is asked for", func() {
				_, _ = List(ctx, lister, true)
				So(lister.calls, ShouldEqual, 2)
			})
		})

		Convey("Errors are returned and nothing is cached", func() {
			lister.err = errors.New("offline")
			_, err := List(ctx, lister, false)
			So(err, ShouldNotBeNil)

			lister.err = nil
			_, _ = List(ctx, lister, false)
			So(lister.calls, ShouldEqual, 2)
		})
	})
}

func TestRecent(t *testing.T) {
	Convey("Communities opened more often come first", t, func() {
		So(Remember(sample[2]), ShouldBeNil)
		So(Remember(sample[0]), ShouldBeNil)
		So(Remember(sample[0]), ShouldBeNil)

		recents := Recent()
		So(len(recents), ShouldBeGreaterThanOrEqualTo, 2)
		So(recents[0].ID, ShouldEqual, "c1")
	})
}
