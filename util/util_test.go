package util

import (
	"math"
	"testing"

	"github.com/reelfeed/reelfeed/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "video", "videos"), ShouldEqual, "1 video")
		So(Quantify(2, "video", "videos"), ShouldEqual, "2 videos")
		So(Quantify(0, "video", "videos"), ShouldEqual, "0 videos")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("trending"), ShouldEqual, "Trending")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClock(t *testing.T) {
	Convey("Clock", t, func() {
		So(Clock(0), ShouldEqual, "0:00")
		So(Clock(12.7), ShouldEqual, "0:12")
		So(Clock(75), ShouldEqual, "1:15")
		So(Clock(3725), ShouldEqual, "1:02:05")

		Convey("Should treat garbage as zero", func() {
			So(Clock(-3), ShouldEqual, "0:00")
			So(Clock(math.NaN()), ShouldEqual, "0:00")
			So(Clock(math.Inf(1)), ShouldEqual, "0:00")
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		So(fs.MkdirAll("/cache/sub", 0o755), ShouldBeNil)
		So(fs.WriteFile("/cache/sub/a.json", []byte("{}"), 0o644), ShouldBeNil)
		So(fs.WriteFile("/single.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Delete should remove directories recursively", func() {
			So(Delete("/cache"), ShouldBeNil)
			exists, _ := fs.Exists("/cache/sub/a.json")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete should remove single files", func() {
			So(Delete("/single.json"), ShouldBeNil)
			exists, _ := fs.Exists("/single.json")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete should fail on missing paths", func() {
			So(Delete("/nope"), ShouldNotBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Given an empty stack", t, func() {
		var s Stack[string]

		Convey("Pop returns the zero value", func() {
			So(s.Pop(), ShouldEqual, "")
			So(s.Len(), ShouldEqual, 0)
		})

		Convey("Items come back in reverse order", func() {
			s.Push("feed")
			s.Push("comments")
			So(s.Len(), ShouldEqual, 2)
			So(s.Pop(), ShouldEqual, "comments")
			So(s.Pop(), ShouldEqual, "feed")
		})

		Convey("Clear empties it", func() {
			s.Push("feed")
			s.Clear()
			So(s.Len(), ShouldEqual, 0)
		})
	})
}
