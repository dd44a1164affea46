package outbox

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

type scriptedSender struct {
	errs []error
	sent []api.Interaction
}

func (s *scriptedSender) Send(_ context.Context, in api.Interaction) (feed.Counters, error) {
	s.sent = append(s.sent, in)
	if len(s.errs) == 0 {
		return feed.Counters{}, nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return feed.Counters{}, err
}

func TestOutbox(t *testing.T) {
	Convey("Given an outbox on an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()

		clock := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		box := New("/config/outbox.jsonl")
		box.now = func() time.Time { return clock }

		var delays []time.Duration
		box.sleep = func(_ context.Context, d time.Duration) error {
			delays = append(delays, d)
			return nil
		}

		ctx := context.Background()

		So(box.Queue(api.Interaction{Kind: api.KindLike, VideoID: "v1"}), ShouldBeNil)
		So(box.Queue(api.Interaction{Kind: api.KindComment, VideoID: "v2", Text: "hey"}), ShouldBeNil)
		So(box.Queue(api.Interaction{Kind: api.KindGift, VideoID: "v3", Amount: 2}), ShouldBeNil)

		pending, err := box.Pending()
		So(err, ShouldBeNil)
		So(pending, ShouldHaveLength, 3)
		So(pending[1].Text, ShouldEqual, "hey")
		So(pending[0].At, ShouldEqual, clock)

		Convey("Everything sent empties the outbox", func() {
			sender := &scriptedSender{}
			res, err := box.Reconcile(ctx, sender)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, Result{Sent: 3})
			So(sender.sent, ShouldHaveLength, 3)

			pending, _ := box.Pending()
			So(pending, ShouldBeEmpty)
		})

		Convey("Delays grow between sends", func() {
			_, _ = box.Reconcile(ctx, &scriptedSender{})
			So(delays, ShouldHaveLength, 3)
			So(delays[0], ShouldBeLessThan, delays[2])
		})

		Convey("A permanent rejection is dropped and the rest is sent", func() {
			sender := &scriptedSender{errs: []error{&api.StatusError{Code: http.StatusBadRequest}}}
			res, err := box.Reconcile(ctx, sender)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, Result{Sent: 2, Dropped: 1})
		})

		Convey("A network failure stops the run and keeps the remainder", func() {
			sender := &scriptedSender{errs: []error{nil, errors.New("connection refused")}}
			res, err := box.Reconcile(ctx, sender)
			So(err, ShouldBeNil)
			So(res, ShouldResemble, Result{Sent: 1, Kept: 2})
			So(sender.sent, ShouldHaveLength, 2)

			pending, _ := box.Pending()
			So(pending, ShouldHaveLength, 2)
			So(pending[0].VideoID, ShouldEqual, "v2")
		})

		Convey("Old entries expire", func() {
			clock = clock.Add(MaxAge + time.Hour)
			sender := &scriptedSender{}
			res, _ := box.Reconcile(ctx, sender)
			So(res, ShouldResemble, Result{Dropped: 3})
			So(sender.sent, ShouldBeEmpty)
		})
	})
}

func TestBackoff(t *testing.T) {
	Convey("Backoff is capped", t, func() {
		So(backoff(0), ShouldBeGreaterThanOrEqualTo, baseDelay)
		So(backoff(40), ShouldBeLessThan, maxDelay+maxJitter)
	})
}
