package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"1.2.3", "1.2.3", 0},
			{"v1.2.3", "1.2.3", 0},
			{"1.10.0", "1.9.9", 1},
			{"0.9.0", "1.0.0", -1},
			{"1.0.0-rc1", "1.0.0", -1},
			{"1.0.0", "1.0.0-rc1", 1},
			{"1.0.0-rc2", "1.0.0-rc1", 1},
			{"1.0.0+build5", "1.0.0", 0},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		Convey("Malformed versions fail", func() {
			for _, bad := range []string{"", "1.2", "1.x.3", "1.2.3.4"} {
				_, err := Compare(bad, "1.0.0")
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		body := `{"tag_name":"v2.1.0"}`
		status := http.StatusOK
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		Convey("The tag is returned without its prefix", func() {
			v, err := fetchLatest(context.Background(), srv.URL)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "2.1.0")
		})

		Convey("An empty tag is an error", func() {
			body = `{}`
			_, err := fetchLatest(context.Background(), srv.URL)
			So(err, ShouldNotBeNil)
		})

		Convey("A bad status is an error", func() {
			status = http.StatusForbidden
			_, err := fetchLatest(context.Background(), srv.URL)
			So(err, ShouldNotBeNil)
		})
	})
}
