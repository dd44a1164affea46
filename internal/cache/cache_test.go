package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCache(t *testing.T) {
	Convey("Given a cache with case-insensitive keys", t, func() {
		c := New[string, int]("/cache/test.json", time.Hour, strings.ToLower)
		So(c.Clear(), ShouldBeNil)

		Convey("Missing keys are absent", func() {
			So(c.Get("x").IsAbsent(), ShouldBeTrue)
		})

		Convey("Values are found through the normalized key", func() {
			So(c.Set("Cooking", 3), ShouldBeNil)
			So(c.Get("COOKING").OrEmpty(), ShouldEqual, 3)

			Convey("And can be deleted", func() {
				So(c.Delete("cooking"), ShouldBeNil)
				So(c.Get("Cooking").IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Values survive a new handle on the same file", func() {
			So(c.Set("a", 1), ShouldBeNil)
			other := New[string, int]("/cache/test.json", time.Hour, strings.ToLower)
			So(other.Get("A").OrEmpty(), ShouldEqual, 1)
		})
	})
}
