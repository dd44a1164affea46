package cmd

import (
	"testing"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseValue(t *testing.T) {
	Convey("parseValue follows the type of the default", t, func() {
		v, err := parseValue(config.Default[key.FeedPageSize], []string{"25"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 25)

		v, err = parseValue(config.Default[key.PlayerLoop], []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(config.Default[key.FeedScope], []string{"community", "ignored"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "community")

		Convey("Malformed values fail", func() {
			_, err := parseValue(config.Default[key.FeedPageSize], []string{"ten"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.PlayerMuted], []string{"maybe"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEnvName(t *testing.T) {
	Convey("envName matches the variables viper binds", t, func() {
		So(envName(key.FeedDwell), ShouldEqual, "REELFEED_FEED_DWELL_MS")
		So(envName(key.APIToken), ShouldEqual, "REELFEED_API_TOKEN")
	})
}

func TestFeedTitle(t *testing.T) {
	Convey("Every scope has a title", t, func() {
		So(feedSelection{scope: api.ScopeTrending}.title(), ShouldEqual, "Trending")
		So(feedSelection{scope: api.ScopeRecommendations}.title(), ShouldEqual, "For you")
		So(feedSelection{
			scope:     api.ScopeCommunity,
			community: api.Community{ID: "c1", Name: "Gophers"},
		}.title(), ShouldContainSubstring, "Gophers")
	})
}

func TestLocationDescribe(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		Reset(filesystem.SetOsFs)

		file := &location{name: "File", path: func() string { return "/data/file.json" }}
		dir := &location{name: "Dir", path: func() string { return "/data" }}

		Convey("A missing path is reported as such", func() {
			So(file.describe().Exists, ShouldBeFalse)
		})

		Convey("Files carry their size and directories do not", func() {
			So(filesystem.API().MkdirAll("/data", 0o755), ShouldBeNil)
			So(filesystem.API().WriteFile("/data/file.json", []byte("{}"), 0o644), ShouldBeNil)

			info := file.describe()
			So(info.Exists, ShouldBeTrue)
			So(info.Size, ShouldEqual, 2)

			info = dir.describe()
			So(info.Exists, ShouldBeTrue)
			So(info.Size, ShouldEqual, 0)
		})
	})
}
