package player

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
)

// fakeMPV speaks enough of the IPC protocol to exercise the client side.
type fakeMPV struct {
	listener net.Listener

	mu       sync.Mutex
	commands []string
}

func newFakeMPV(t *testing.T) *fakeMPV {
	path := filepath.Join(t.TempDir(), "mpv.sock")
	l, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	f := &fakeMPV{listener: l}
	go f.serve()
	t.Cleanup(func() { _ = l.Close() })
	return f
}

func (f *fakeMPV) path() string {
	return f.listener.Addr().String()
}

func (f *fakeMPV) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.commands...)
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		req := gjson.ParseBytes(scanner.Bytes())
		id := req.Get("request_id").Int()
		name := req.Get("command.0").String()

		f.mu.Lock()
		f.commands = append(f.commands, fmt.Sprintf("%s %s", name, req.Get("command.1").String()))
		f.mu.Unlock()

		// a broadcast event always precedes the reply
		fmt.Fprintln(conn, `{"event":"playback-restart"}`)

		switch name {
		case "get_property":
			fmt.Fprintf(conn, `{"request_id":%d,"error":"success","data":12.5}`+"\n", id)
		case "bogus":
			fmt.Fprintf(conn, `{"request_id":%d,"error":"invalid parameter"}`+"\n", id)
		case "observe_property":
			fmt.Fprintf(conn, `{"request_id":%d,"error":"success"}`+"\n", id)
			switch req.Get("command.2").String() {
			case "pause":
				fmt.Fprintln(conn, `{"event":"property-change","id":1,"name":"pause","data":false}`)
			case "duration":
				fmt.Fprintln(conn, `{"event":"property-change","id":4,"name":"duration","data":30}`)
			}
		default:
			fmt.Fprintf(conn, `{"request_id":%d,"error":"success"}`+"\n", id)
		}
	}
}

func TestIPC(t *testing.T) {
	Convey("Given a running mpv socket", t, func() {
		fake := newFakeMPV(t)
		m := &MPV{socketPath: fake.path(), exited: make(chan struct{})}

		Convey("Replies are matched past broadcast events", func() {
			data, err := m.sendCommand("get_property", "time-pos")
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 12.5)
		})

		Convey("Errors reported by mpv are not retried", func() {
			_, err := m.sendCommand("bogus")
			So(err, ShouldNotBeNil)

			var cmdErr *CommandError
			So(err, ShouldHaveSameTypeAs, cmdErr)
			So(err.Error(), ShouldContainSubstring, "invalid parameter")
			So(fake.seen(), ShouldHaveLength, 1)
		})

		Convey("Media controls map onto properties", func() {
			So(m.Play(), ShouldBeNil)
			So(m.Pause(), ShouldBeNil)
			So(m.SetLoop(true), ShouldBeNil)
			So(m.SetMute(true), ShouldBeNil)
			So(m.Seek(0), ShouldBeNil)

			So(fake.seen(), ShouldResemble, []string{
				"set_property pause",
				"set_property pause",
				"set_property loop-file",
				"set_property mute",
				"seek 0",
			})
		})

		Convey("Commands after exit fail fast", func() {
			close(m.exited)
			_, err := m.sendCommand("get_property", "pause")
			So(err, ShouldEqual, ErrExited)
		})

		Convey("Observed properties become status updates", func() {
			updates := make(chan Status, 16)
			m.onStatus = func(s Status) { updates <- s }
			m.listener = NewEventListener(m.socketPath, m.handleEvent)
			So(m.listener.Start(), ShouldBeNil)

			var last Status
			timeout := time.After(2 * time.Second)
		wait:
			for {
				select {
				case last = <-updates:
					if last.Playing && last.Duration == 30 {
						break wait
					}
				case <-timeout:
					break wait
				}
			}

			m.listener.Stop()
			So(last.Playing, ShouldBeTrue)
			So(last.Duration, ShouldEqual, 30)
			So(m.Status(), ShouldResemble, last)
		})
	})
}

func TestApplyProperty(t *testing.T) {
	Convey("Given an empty status", t, func() {
		var s Status

		Convey("Unpausing marks it playing", func() {
			next, changed := applyProperty(s, "pause", false)
			So(changed, ShouldBeTrue)
			So(next.Playing, ShouldBeTrue)
		})

		Convey("Cache stalls mark it buffering", func() {
			next, changed := applyProperty(s, "paused-for-cache", true)
			So(changed, ShouldBeTrue)
			So(next.Buffering, ShouldBeTrue)
		})

		Convey("Unavailable properties are ignored", func() {
			_, changed := applyProperty(s, "time-pos", nil)
			So(changed, ShouldBeFalse)
		})

		Convey("Repeating a value is not a change", func() {
			_, changed := applyProperty(s, "pause", true)
			So(changed, ShouldBeFalse)
		})

		Convey("Progress is clamped", func() {
			So(Status{Position: 5, Duration: 10}.Progress(), ShouldEqual, 0.5)
			So(Status{Position: 15, Duration: 10}.Progress(), ShouldEqual, 1)
			So(Status{Position: 5}.Progress(), ShouldEqual, 0)
		})
	})
}

func TestLauncher(t *testing.T) {
	Convey("Given the mpv launcher", t, func() {
		args := mpvLauncher.args("/tmp/x.sock", "https://cdn.example.com/v.mp4", Options{Title: "clip\n1", Loop: true})

		So(args, ShouldContain, "--input-ipc-server=/tmp/x.sock")
		So(args, ShouldContain, "--pause=yes")
		So(args, ShouldContain, "--loop-file=inf")
		So(args, ShouldContain, "--mute=no")
		So(args, ShouldContain, "--force-media-title=clip 1")
		So(args[len(args)-1], ShouldEqual, "https://cdn.example.com/v.mp4")

		Convey("IINA forwards the same options with its prefix", func() {
			args := iinaLauncher.args("/tmp/x.sock", "/videos/a.mp4", Options{Muted: true})
			So(args[0], ShouldEqual, "--no-stdin")
			So(args, ShouldContain, "--mpv-mute=yes")
			So(args, ShouldContain, "--mpv-force-media-title=reelfeed")
		})
	})

	Convey("Given an unknown player name", t, func() {
		_, err := NewFactory("vlc")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "mpv")
	})

	Convey("Given an unusable URI", t, func() {
		factory, err := NewFactory("MPV")
		So(err, ShouldBeNil)

		_, err = factory(context.Background(), Options{URI: "--script=evil.lua"})
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "invalid media target")
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Media targets are validated", t, func() {
		valid := map[string]string{
			"https://cdn.example.com/a.mp4": "https://cdn.example.com/a.mp4",
			"  http://x/y.m3u8 ":            "http://x/y.m3u8",
			"file:///videos/a.mp4":          "/videos/a.mp4",
			"videos/../a.mp4":               "a.mp4",
		}
		for in, want := range valid {
			got, err := sanitizeMediaTarget(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		for _, in := range []string{"", "-flag", "ftp://x/y", "http://x/\ny"} {
			_, err := sanitizeMediaTarget(in)
			So(err, ShouldNotBeNil)
		}
	})
}
