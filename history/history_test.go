package history

import (
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		So(Clear(), ShouldBeNil)

		clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		now = func() time.Time { return clock }
		Reset(func() { now = time.Now })

		it := &feed.Item{ID: "v1", Title: "first", Creator: feed.Creator{Username: "ana"}}

		Convey("When an item is saved", func() {
			So(Save(it), ShouldBeNil)

			saved, err := Get()
			So(err, ShouldBeNil)
			So(saved, ShouldContainKey, "v1")
			So(saved["v1"].Views, ShouldEqual, 1)
			So(saved["v1"].Creator, ShouldEqual, "ana")

			Convey("Saving it again counts another view and keeps the first time", func() {
				clock = clock.Add(time.Hour)
				So(Save(it), ShouldBeNil)

				saved, _ := Get()
				So(saved["v1"].Views, ShouldEqual, 2)
				So(saved["v1"].FirstSeen.Before(saved["v1"].LastSeen), ShouldBeTrue)
			})

			Convey("List puts the latest view first", func() {
				clock = clock.Add(time.Minute)
				So(Save(&feed.Item{ID: "v2"}), ShouldBeNil)

				entries, err := List()
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)
				So(entries[0].ID, ShouldEqual, "v2")
			})

			Convey("Remove deletes it", func() {
				So(Remove("v1"), ShouldBeNil)
				saved, _ := Get()
				So(saved, ShouldNotContainKey, "v1")
			})
		})
	})
}
