package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/style"
)

type statefulKeymap struct {
	state state

	quit, forceQuit,
	up, down, top, bottom,
	like, share, comment, gift,
	mute, pause, replay,
	openProfile, openVideo,
	retry, refresh,
	confirm, back,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑", "previous"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓", "next"),
		),
		top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last loaded"),
		),
		like: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp(style.Fg(color.Red)("l"), style.Fg(color.Red)("like")),
		),
		share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "reshare"),
		),
		comment: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "comments"),
		),
		gift: key.NewBinding(
			key.WithKeys("$"),
			key.WithHelp("$", "gift"),
		),
		mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		pause: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "pause/resume"),
		),
		replay: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "replay"),
		),
		openProfile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "open creator"),
		),
		openVideo: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp(style.Fg(color.Orange)("r"), style.Fg(color.Orange)("retry")),
		),
		refresh: key.NewBinding(
			key.WithKeys("R", "ctrl+r"),
			key.WithHelp("R", "refresh"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case feedState:
		return h(k.up, k.down, k.like, k.comment, k.pause, k.showHelp),
			h(k.up, k.down, k.top, k.bottom, k.like, k.share, k.comment, k.gift, k.mute, k.pause, k.replay, k.retry, k.openProfile, k.openVideo, k.refresh, k.quit)
	case emptyState:
		return to2(h(k.refresh, k.quit))
	case errorState:
		return to2(h(k.retry, k.quit))
	case commentsState, giftState:
		return to2(h(k.confirm, k.back))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

// forList keeps the comment list from stealing the compose keys.
func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:   key.NewBinding(key.WithKeys("up")),
		CursorDown: key.NewBinding(key.WithKeys("down")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup")),
		Quit:       k.forceQuit,
		ForceQuit:  k.forceQuit,
	}
}
