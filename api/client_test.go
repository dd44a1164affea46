package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	body   map[string]any
}

func newServer(handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recorded) {
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	return srv, &calls
}

func newTestClient(srv *httptest.Server, token string) *Client {
	c, err := New(Options{BaseURL: srv.URL + "/v1", Token: StaticToken(token), HTTPClient: srv.Client()})
	So(err, ShouldBeNil)
	return c
}

func TestVideos(t *testing.T) {
	ctx := context.Background()

	Convey("Given the trending endpoint", t, func() {
		srv, calls := newServer(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"data":[
				{"_id":"v1","videoUrl":"https://cdn/v1.mp4","title":"one","likes":["u1","u2"],"gifts":3,"isLiked":true,
				 "creator":{"_id":"c1","username":"ana"},"type":"Paid","amount":2.5,
				 "series":{"_id":"s1","title":"Saga"},"episodeNumber":2},
				{"id":"v2","videoUrl":"https://cdn/v2.mp4"},
				{"title":"no id"}
			]}`)
		})
		defer srv.Close()

		c := newTestClient(srv, "tok")
		page, err := c.Videos(ctx, ScopeTrending, "", 1, 10)
		So(err, ShouldBeNil)

		So((*calls)[0].path, ShouldEqual, "/v1/videos/trending")
		So((*calls)[0].query, ShouldEqual, "limit=10&page=1")
		So((*calls)[0].auth, ShouldEqual, "Bearer tok")

		Convey("Items are decoded and invalid ones skipped", func() {
			So(page.Items, ShouldHaveLength, 2)

			v1 := page.Items[0]
			So(v1.ID, ShouldEqual, "v1")
			So(v1.Counters.Likes, ShouldEqual, 2)
			So(v1.Counters.Gifts, ShouldEqual, 3)
			So(v1.Counters.Shares, ShouldEqual, 0)
			So(v1.Liked, ShouldBeTrue)
			So(v1.Creator.Username, ShouldEqual, "ana")
			So(v1.Locked(), ShouldBeTrue)
			So(v1.Series.MustGet().Episode, ShouldEqual, 2)

			So(page.Items[1].Series.IsAbsent(), ShouldBeTrue)
		})

		Convey("The page keeps the number of records served", func() {
			So(page.Size, ShouldEqual, 3)
			So(page.Len(), ShouldEqual, 3)
		})

		Convey("A short page has no more", func() {
			So(page.HasMore, ShouldBeFalse)
		})
	})

	Convey("Given the recommendations endpoint", t, func() {
		srv, calls := newServer(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"recommendations":[{"_id":"r1"},{"_id":"r2"}],"hasMore":true}`)
		})
		defer srv.Close()

		page, err := newTestClient(srv, "tok").Videos(ctx, ScopeRecommendations, "", 3, 2)
		So(err, ShouldBeNil)
		So(page.Items, ShouldHaveLength, 2)
		So(page.Number, ShouldEqual, 3)
		So(page.HasMore, ShouldBeTrue)
		So((*calls)[0].path, ShouldEqual, "/v1/videos/recommendations")
	})

	Convey("Given a community feed", t, func() {
		srv, calls := newServer(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"data":[]}`)
		})
		defer srv.Close()

		c := newTestClient(srv, "tok")

		page, err := c.Feed(ScopeCommunity, "c 9").FetchPage(ctx, 1, 5)
		So(err, ShouldBeNil)
		So(page.Items, ShouldBeEmpty)
		So((*calls)[0].path, ShouldEqual, "/v1/communities/c 9/videos")

		_, err = c.Videos(ctx, ScopeCommunity, "", 1, 5)
		So(err, ShouldNotBeNil)
	})
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	Convey("Without a token nothing is sent", t, func() {
		srv, calls := newServer(func(w http.ResponseWriter, r *http.Request) {})
		defer srv.Close()

		_, err := newTestClient(srv, "").Videos(ctx, ScopeTrending, "", 1, 10)
		So(errors.Is(err, ErrNoToken), ShouldBeTrue)
		So(IsUnauthorized(err), ShouldBeTrue)
		So(*calls, ShouldBeEmpty)
	})

	Convey("An HTML body is reported as not JSON", t, func() {
		srv, _ := newServer(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = io.WriteString(w, "<html><body>maintenance</body></html>")
		})
		defer srv.Close()

		_, err := newTestClient(srv, "tok").Videos(ctx, ScopeTrending, "", 1, 10)
		So(errors.Is(err, ErrNotJSON), ShouldBeTrue)
		So(Retryable(err), ShouldBeFalse)
	})

	Convey("JSON without the envelope is malformed", t, func() {
		srv, _ := newServer(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"items":[]}`)
		})
		defer srv.Close()

		_, err := newTestClient(srv, "tok").Videos(ctx, ScopeRecommendations, "", 1, 10)
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})

	Convey("Non-2xx responses become status errors", t, func() {
		code := http.StatusUnauthorized
		srv, _ := newServer(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
			_, _ = io.WriteString(w, `{"message":"token expired"}`)
		})
		defer srv.Close()

		c := newTestClient(srv, "tok")

		_, err := c.Videos(ctx, ScopeTrending, "", 1, 10)
		var se *StatusError
		So(errors.As(err, &se), ShouldBeTrue)
		So(se.Code, ShouldEqual, http.StatusUnauthorized)
		So(se.Message, ShouldEqual, "token expired")
		So(IsUnauthorized(err), ShouldBeTrue)
		So(Retryable(err), ShouldBeFalse)

		code = http.StatusBadGateway
		_, err = c.Videos(ctx, ScopeTrending, "", 1, 10)
		So(Retryable(err), ShouldBeTrue)
	})

	Convey("Bad base URLs are rejected", t, func() {
		_, err := New(Options{BaseURL: "ftp://example.com"})
		So(err, ShouldNotBeNil)
	})
}

func TestInteractions(t *testing.T) {
	ctx := context.Background()

	Convey("Given an interaction endpoint", t, func() {
		srv, calls := newServer(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"data":{"likes":11,"comments":4}}`)
		})
		defer srv.Close()

		c := newTestClient(srv, "tok")

		Convey("A like posts the video id and returns counters", func() {
			counters, err := c.Like(ctx, "v1")
			So(err, ShouldBeNil)
			So(counters.Likes, ShouldEqual, 11)
			So(counters.Comments, ShouldEqual, 4)
			So(counters.Gifts, ShouldEqual, -1)

			call := (*calls)[0]
			So(call.method, ShouldEqual, http.MethodPost)
			So(call.path, ShouldEqual, "/v1/videos/like")
			So(call.body["videoId"], ShouldEqual, "v1")
		})

		Convey("A comment carries its text", func() {
			_, err := c.Comment(ctx, "v1", "nice")
			So(err, ShouldBeNil)
			So((*calls)[0].path, ShouldEqual, "/v1/videos/comment")
			So((*calls)[0].body["comment"], ShouldEqual, "nice")
		})

		Convey("A gift carries its amount", func() {
			_, err := c.Gift(ctx, "v1", 5)
			So(err, ShouldBeNil)
			So((*calls)[0].body["amount"], ShouldEqual, 5.0)
		})

		Convey("Unknown kinds are rejected locally", func() {
			_, err := c.Send(ctx, Interaction{Kind: "poke", VideoID: "v1"})
			So(err, ShouldNotBeNil)
			So(*calls, ShouldBeEmpty)
		})
	})

	Convey("Given comments and communities", t, func() {
		srv, _ := newServer(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/v1/videos/v1/comments":
				_, _ = io.WriteString(w, `{"comments":[{"_id":"m1","user":{"username":"bo"},"comment":"hi","createdAt":"2026-01-02T03:04:05Z"}]}`)
			case "/v1/communities":
				_, _ = io.WriteString(w, `{"data":[{"_id":"g1","name":"Cooking","members":["a","b"]},{"name":"orphan"}]}`)
			}
		})
		defer srv.Close()

		c := newTestClient(srv, "tok")

		comments, err := c.Comments(ctx, "v1")
		So(err, ShouldBeNil)
		So(comments, ShouldHaveLength, 1)
		So(comments[0].Username, ShouldEqual, "bo")
		So(comments[0].Created.Year(), ShouldEqual, 2026)

		communities, err := c.Communities(ctx)
		So(err, ShouldBeNil)
		So(communities, ShouldHaveLength, 1)
		So(communities[0].Members, ShouldEqual, 2)
	})
}
