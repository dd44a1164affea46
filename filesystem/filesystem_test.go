package filesystem

import (
	"errors"
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given the gache adapter on an in-memory backend", t, func() {
		SetMemMapFs()
		fs := GacheFs{}

		Convey("It should create directories and files through the backend", func() {
			So(fs.MkdirAll("/tmp/reelfeed", os.ModePerm), ShouldBeNil)

			f, err := fs.OpenFile("/tmp/reelfeed/a.json", os.O_CREATE|os.O_RDWR, 0o644)
			So(err, ShouldBeNil)
			_, err = f.Write([]byte("{}"))
			So(err, ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			exists, err := API().Exists("/tmp/reelfeed/a.json")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})
	})
}

func TestWriteAtomic(t *testing.T) {
	Convey("Given an in-memory backend with an existing file", t, func() {
		SetMemMapFs()
		So(API().WriteFile("/data/outbox.jsonl", []byte("old"), 0o644), ShouldBeNil)

		Convey("A successful write replaces the content", func() {
			err := WriteAtomic("/data/outbox.jsonl", func(w io.Writer) error {
				_, err := io.WriteString(w, "new")
				return err
			})
			So(err, ShouldBeNil)

			data, _ := API().ReadFile("/data/outbox.jsonl")
			So(string(data), ShouldEqual, "new")

			exists, _ := API().Exists("/data/outbox.jsonl.tmp")
			So(exists, ShouldBeFalse)
		})

		Convey("A failed write keeps the old content", func() {
			err := WriteAtomic("/data/outbox.jsonl", func(w io.Writer) error {
				_, _ = io.WriteString(w, "partial")
				return errors.New("disk full")
			})
			So(err, ShouldNotBeNil)

			data, _ := API().ReadFile("/data/outbox.jsonl")
			So(string(data), ShouldEqual, "old")
		})

		Convey("Missing directories are created", func() {
			So(WriteAtomic("/fresh/dir/file", func(w io.Writer) error { return nil }), ShouldBeNil)
			exists, _ := API().Exists("/fresh/dir/file")
			So(exists, ShouldBeTrue)
		})
	})
}
