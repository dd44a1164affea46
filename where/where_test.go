package where

import (
	"path/filepath"
	"testing"

	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Directories should exist after resolution", func() {
			for _, dir := range []func() string{Config, Cache, Logs, Temp} {
				path := dir()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			}
		})

		Convey("Files should live inside their parent directories", func() {
			So(filepath.Dir(History()), ShouldEqual, Config())
			So(filepath.Dir(Outbox()), ShouldEqual, Config())
			So(filepath.Dir(Communities()), ShouldEqual, Cache())
		})

		Convey("REELFEED_CONFIG_PATH should override the config directory", func() {
			t.Setenv(EnvConfigPath, "/custom/reelfeed")
			So(Config(), ShouldEqual, "/custom/reelfeed")
		})
	})
}
