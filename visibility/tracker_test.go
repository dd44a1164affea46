package visibility

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func full(index int) []Viewable {
	return []Viewable{{Index: index, Percent: 100}}
}

func TestTrackerSelection(t *testing.T) {
	Convey("Given a tracker without dwell", t, func() {
		tr := NewTracker(Options{Threshold: 80})
		now := time.Unix(0, 0)

		So(tr.Active(), ShouldEqual, -1)

		Convey("The most visible item wins", func() {
			tr.Observe([]Viewable{{Index: 3, Percent: 85}, {Index: 4, Percent: 95}}, now)
			idx, changed := tr.Settle(now)
			So(changed, ShouldBeTrue)
			So(idx, ShouldEqual, 4)
		})

		Convey("Ties go to the lowest index", func() {
			tr.Observe([]Viewable{{Index: 6, Percent: 90}, {Index: 5, Percent: 90}}, now)
			idx, _ := tr.Settle(now)
			So(idx, ShouldEqual, 5)
		})

		Convey("Items under the threshold are ignored", func() {
			tr.Observe([]Viewable{{Index: 1, Percent: 79.9}}, now)
			idx, changed := tr.Settle(now)
			So(changed, ShouldBeFalse)
			So(idx, ShouldEqual, -1)
		})

		Convey("Reporting the active index again is not a change", func() {
			tr.Observe(full(2), now)
			tr.Settle(now)
			tr.Observe(full(2), now)
			_, changed := tr.Settle(now)
			So(changed, ShouldBeFalse)
		})

		Convey("An empty batch keeps the previous active index", func() {
			tr.Observe(full(2), now)
			tr.Settle(now)
			tr.Observe(nil, now)
			idx, changed := tr.Settle(now)
			So(changed, ShouldBeFalse)
			So(idx, ShouldEqual, 2)
		})
	})
}

func TestTrackerDebounce(t *testing.T) {
	Convey("Given a tracker with a 150ms dwell", t, func() {
		tr := NewTracker(Options{Threshold: 80, Dwell: 150 * time.Millisecond})
		t0 := time.Unix(100, 0)
		ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

		Convey("A candidate is not promoted before the dwell time", func() {
			tr.Observe(full(0), t0)
			_, changed := tr.Settle(ms(149))
			So(changed, ShouldBeFalse)

			idx, changed := tr.Settle(ms(150))
			So(changed, ShouldBeTrue)
			So(idx, ShouldEqual, 0)
		})

		Convey("A fling over 2, 5 and 7 only ever activates 7", func() {
			var promoted []int
			settle := func(at time.Time) {
				if idx, changed := tr.Settle(at); changed {
					promoted = append(promoted, idx)
				}
			}

			tr.Observe(full(2), ms(0))
			settle(ms(10))
			tr.Observe(full(5), ms(20))
			settle(ms(30))
			tr.Observe(full(7), ms(45))

			// ticks scheduled one dwell after each observation
			settle(ms(150))
			settle(ms(170))
			settle(ms(195))

			So(promoted, ShouldResemble, []int{7})
			So(tr.Active(), ShouldEqual, 7)
		})

		Convey("A transient empty batch during a layout pass causes no flicker", func() {
			tr.Observe(full(1), t0)
			tr.Settle(ms(150))

			tr.Observe(nil, ms(200))
			tr.Observe(full(1), ms(210))
			_, changed := tr.Settle(ms(400))
			So(changed, ShouldBeFalse)
			So(tr.Active(), ShouldEqual, 1)
		})

		Convey("Scrolling back to the active item cancels the pending candidate", func() {
			tr.Observe(full(1), t0)
			tr.Settle(ms(150))

			tr.Observe(full(2), ms(200))
			tr.Observe(full(1), ms(220))
			_, changed := tr.Settle(ms(500))
			So(changed, ShouldBeFalse)
			So(tr.Active(), ShouldEqual, 1)
		})
	})
}

func TestTrackerClampAndReset(t *testing.T) {
	Convey("Given an active index past the end of a shrunken list", t, func() {
		tr := NewTracker(Options{Threshold: 80})
		tr.Observe(full(9), time.Unix(0, 0))
		tr.Settle(time.Unix(0, 0))

		idx, changed := tr.Clamp(4)
		So(changed, ShouldBeTrue)
		So(idx, ShouldEqual, 3)

		_, changed = tr.Clamp(0)
		So(changed, ShouldBeFalse)

		tr.Reset()
		So(tr.Active(), ShouldEqual, -1)
	})
}

func TestLayout(t *testing.T) {
	Convey("Given items of 10 rows in a 10 row viewport", t, func() {
		l := Layout{ItemHeight: 10, ViewportHeight: 10}

		Convey("An aligned offset shows one item fully", func() {
			So(l.Viewable(20, 5), ShouldResemble, []Viewable{{Index: 2, Percent: 100}})
		})

		Convey("A partial offset splits visibility between two items", func() {
			So(l.Viewable(13, 5), ShouldResemble, []Viewable{
				{Index: 1, Percent: 70},
				{Index: 2, Percent: 30},
			})
		})

		Convey("Snap rounds to the nearest item", func() {
			So(l.Snap(13, 5), ShouldEqual, 10)
			So(l.Snap(16, 5), ShouldEqual, 20)
			So(l.Snap(99, 5), ShouldEqual, 40)
			So(l.Snap(-4, 5), ShouldEqual, 0)
		})

		Convey("MaxOffset keeps the last item on screen", func() {
			So(l.MaxOffset(5), ShouldEqual, 40)
			So(l.MaxOffset(0), ShouldEqual, 0)
		})

		Convey("An empty list has nothing viewable", func() {
			So(l.Viewable(0, 0), ShouldBeNil)
		})
	})
}
