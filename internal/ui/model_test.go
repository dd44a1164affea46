package ui

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestModel(t *testing.T) {
	Convey("Given a notifier", t, func() {
		m := &Model{}

		Convey("View should pass content through when idle", func() {
			So(m.View("a\nb"), ShouldEqual, "a\nb")
		})

		Convey("A notification should land on the last line", func() {
			So(m.Update(Notify("liked")()), ShouldNotBeNil)
			So(m.Current(), ShouldEqual, "liked")

			out := m.View("a\nb")
			lines := strings.Split(out, "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldEqual, "a")
			So(lines[1], ShouldContainSubstring, "liked")
		})

		Convey("A stale clear should not hide a newer notification", func() {
			m.Update(NotificationMsg("first"))
			first := m.notifiedAt

			time.Sleep(time.Millisecond)
			m.Update(NotificationMsg("second"))

			m.Update(ClearNotificationMsg{At: first})
			So(m.Current(), ShouldEqual, "second")

			m.Update(ClearNotificationMsg{At: m.notifiedAt})
			So(m.Current(), ShouldEqual, "")
		})

		Convey("NotifyQueued should mention the queue", func() {
			msg := NotifyQueued()()
			So(string(msg.(NotificationMsg)), ShouldContainSubstring, "queued")
		})
	})
}
