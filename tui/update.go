package tui

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/item"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		if len(b.snapshot.Items) > 0 {
			cmds = append(cmds, b.observe())
		}
		return b, tea.Batch(cmds...)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, tea.Batch(append(cmds, cmd)...)
	case pageLoadedMsg:
		return b, tea.Batch(append(cmds, b.handlePage(msg))...)
	case settleMsg:
		return b, tea.Batch(append(cmds, b.handleSettle(msg))...)
	case itemEventMsg:
		return b, tea.Batch(append(cmds, b.handleItemEvent(item.Event(msg)), b.waitForEvent())...)
	case interactionMsg:
		return b, tea.Batch(append(cmds, b.handleInteraction(msg))...)
	case commentsMsg:
		return b, tea.Batch(append(cmds, b.handleComments(msg))...)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			b.teardown()
			return b, tea.Quit
		case bubblesKey.Matches(msg, b.keymap.showHelp) && !b.state.overlay():
			b.helpC.ShowAll = !b.helpC.ShowAll
			return b, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case loadingState:
		cmd = b.updateLoading(msg)
	case feedState:
		cmd = b.updateFeed(msg)
	case emptyState, errorState:
		cmd = b.updateIdle(msg)
	case commentsState:
		cmd = b.updateComments(msg)
	case giftState:
		cmd = b.updateGift(msg)
	}

	return b, tea.Batch(append(cmds, cmd)...)
}

func (b *statefulBubble) updateLoading(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.quit) {
		b.teardown()
		return tea.Quit
	}
	return nil
}

// updateIdle handles the empty and error screens.
func (b *statefulBubble) updateIdle(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case bubblesKey.Matches(key, b.keymap.quit):
		b.teardown()
		return tea.Quit
	case bubblesKey.Matches(key, b.keymap.retry), bubblesKey.Matches(key, b.keymap.refresh):
		return b.startRefresh()
	}
	return nil
}

func (b *statefulBubble) updateFeed(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return b.scrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			return b.scrollBy(wheelStep)
		}
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.quit):
			b.teardown()
			return tea.Quit
		case bubblesKey.Matches(msg, b.keymap.up):
			return b.scrollTo(b.position() - 1)
		case bubblesKey.Matches(msg, b.keymap.down):
			return b.scrollTo(b.position() + 1)
		case bubblesKey.Matches(msg, b.keymap.top):
			return b.scrollTo(0)
		case bubblesKey.Matches(msg, b.keymap.bottom):
			return b.scrollTo(len(b.snapshot.Items) - 1)
		case bubblesKey.Matches(msg, b.keymap.like):
			return b.toggleLike()
		case bubblesKey.Matches(msg, b.keymap.share):
			it, ok := b.focused()
			if !ok {
				return nil
			}
			return b.interact(api.Interaction{Kind: api.KindReshare, VideoID: it.ID})
		case bubblesKey.Matches(msg, b.keymap.comment):
			return b.openComments()
		case bubblesKey.Matches(msg, b.keymap.gift):
			return b.openGift()
		case bubblesKey.Matches(msg, b.keymap.mute):
			return b.toggleMute()
		case bubblesKey.Matches(msg, b.keymap.pause):
			if c, ok := b.activeController(); ok {
				c.TogglePause()
			}
		case bubblesKey.Matches(msg, b.keymap.replay):
			if c, ok := b.activeController(); ok {
				c.Replay()
			}
		case bubblesKey.Matches(msg, b.keymap.retry):
			if c, ok := b.activeController(); ok && c.State() == item.Failed {
				c.SetActive(true)
			}
		case bubblesKey.Matches(msg, b.keymap.openProfile):
			it, ok := b.focused()
			if !ok || it.Creator.Username == "" {
				return ui.Notify("This video has no public creator")
			}
			return b.openURL(b.webURL("@" + url.PathEscape(it.Creator.Username)))
		case bubblesKey.Matches(msg, b.keymap.openVideo):
			if it, ok := b.focused(); ok {
				return b.openURL(b.webURL("v/" + url.PathEscape(it.ID)))
			}
		case bubblesKey.Matches(msg, b.keymap.refresh):
			return b.startRefresh()
		}
	}

	return nil
}

func (b *statefulBubble) webURL(path string) string {
	return strings.TrimSuffix(b.webBase, "/") + "/" + path
}

// scrollTo snaps the viewport to item i.
func (b *statefulBubble) scrollTo(i int) tea.Cmd {
	n := len(b.snapshot.Items)
	if n == 0 {
		return nil
	}

	i = max(min(i, n-1), 0)
	b.wheeling = false
	b.offset = b.layout.OffsetOf(i)
	return b.observe()
}

// scrollBy moves the viewport freely. It snaps once the wheel stops.
func (b *statefulBubble) scrollBy(rows int) tea.Cmd {
	if len(b.snapshot.Items) == 0 {
		return nil
	}

	b.wheeling = true
	b.lastRoll = time.Now()
	b.offset += rows
	return b.observe()
}

// observe reports what is on screen to the tracker and schedules the settle.
func (b *statefulBubble) observe() tea.Cmd {
	n := len(b.snapshot.Items)
	b.offset = b.layout.Clamp(b.offset, n)
	b.tracker.Observe(b.layout.Viewable(b.offset, n), time.Now())
	return b.settleAfter(b.tracker.Dwell())
}

func (b *statefulBubble) handleSettle(msg settleMsg) tea.Cmd {
	// nothing changes hands under an overlay
	if b.state.overlay() {
		return b.settleAfter(b.tracker.Dwell())
	}

	var cmds []tea.Cmd

	if b.wheeling && msg.at.Sub(b.lastRoll) >= b.tracker.Dwell() {
		b.wheeling = false
		if snapped := b.layout.Snap(b.offset, len(b.snapshot.Items)); snapped != b.offset {
			b.offset = snapped
			cmds = append(cmds, b.observe())
		}
	}

	if index, changed := b.tracker.Settle(msg.at); changed {
		cmds = append(cmds, b.activate(index))
	}

	return tea.Batch(cmds...)
}

// activate hands playback from the previous active item to index.
func (b *statefulBubble) activate(index int) tea.Cmd {
	items := b.snapshot.Items
	if index < 0 || index >= len(items) {
		return nil
	}

	it := items[index]
	if prev, ok := b.activeController(); ok && b.activeID != it.ID {
		prev.SetActive(false)
	}

	b.active = index
	b.activeID = it.ID
	b.controller(it).SetActive(true)
	b.trim()

	log.WithFields(logrus.Fields{"video": it.ID, "index": index}).Debug("active item changed")

	cmds := []tea.Cmd{b.prefetch(index)}
	if b.saveHistory && !it.Locked() {
		cmds = append(cmds, b.remember(it))
	}
	b.seen[it.ID] = true

	return tea.Batch(cmds...)
}

func (b *statefulBubble) handlePage(msg pageLoadedMsg) tea.Cmd {
	b.setSnapshot(b.pager.Snapshot())

	if len(b.snapshot.Items) == 0 {
		switch {
		case b.snapshot.Loading:
		case b.snapshot.Err != nil:
			b.raiseError(b.snapshot.Err)
		default:
			b.setState(emptyState)
		}
		return nil
	}

	if lo.Contains([]state{loadingState, emptyState, errorState}, b.state) {
		b.statesHistory.Clear()
		b.setState(feedState)
	}

	cmds := []tea.Cmd{b.observe()}
	if msg.err != nil {
		cmds = append(cmds, ui.Notify(icon.Get(icon.Fail)+" Couldn't load more videos: "+msg.err.Error()))
	}
	return tea.Batch(cmds...)
}

// startRefresh drops every item and player and loads the feed from page 1.
func (b *statefulBubble) startRefresh() tea.Cmd {
	for id := range b.controllers {
		b.dispose(id)
	}

	b.active, b.activeID = -1, ""
	b.offset, b.wheeling = 0, false
	b.tracker.Reset()
	b.setSnapshot(pager.Snapshot{})

	b.statesHistory.Clear()
	b.setState(loadingState)
	return tea.Batch(b.spinnerC.Tick, b.refresh())
}

func (b *statefulBubble) handleItemEvent(ev item.Event) tea.Cmd {
	if ev.State != item.Failed || ev.ID != b.activeID || ev.Err == nil {
		return nil
	}
	return ui.Notify(icon.Get(icon.Fail) + " Couldn't play this video: " + ev.Err.Error())
}

func (b *statefulBubble) toggleMute() tea.Cmd {
	b.muted = !b.muted
	for _, c := range b.controllers {
		c.SetMuted(b.muted)
	}

	if b.muted {
		return ui.Notify(icon.Get(icon.Muted) + " Muted")
	}
	return ui.Notify("Sound on")
}

func (b *statefulBubble) toggleLike() tea.Cmd {
	it, ok := b.focused()
	if !ok {
		return nil
	}

	kind := api.KindLike
	if it.Liked {
		kind = api.KindUnlike
	}
	return b.interact(api.Interaction{Kind: kind, VideoID: it.ID})
}

// interact applies the interaction to the list right away and sends it.
func (b *statefulBubble) interact(in api.Interaction) tea.Cmd {
	in.At = time.Now()
	b.pager.Update(in.VideoID, optimistic(in.Kind, false))
	b.setSnapshot(b.pager.Snapshot())
	return b.send(in)
}

// optimistic returns the local effect of an interaction, or its inverse.
func optimistic(kind api.Kind, undo bool) func(*feed.Item) {
	d := 1
	if undo {
		d = -1
	}

	return func(it *feed.Item) {
		switch kind {
		case api.KindLike:
			it.Liked = !undo
			it.Counters.Likes += d
		case api.KindUnlike:
			it.Liked = undo
			it.Counters.Likes -= d
		case api.KindReshare:
			it.Counters.Shares += d
		case api.KindComment:
			it.Counters.Comments += d
		case api.KindGift:
			it.Counters.Gifts += d
		}

		it.Counters.Likes = max(it.Counters.Likes, 0)
		it.Counters.Shares = max(it.Counters.Shares, 0)
		it.Counters.Comments = max(it.Counters.Comments, 0)
		it.Counters.Gifts = max(it.Counters.Gifts, 0)
	}
}

func (b *statefulBubble) handleInteraction(msg interactionMsg) tea.Cmd {
	in := msg.in

	if msg.err == nil {
		b.pager.Update(in.VideoID, func(it *feed.Item) { it.Apply(msg.counters) })
		b.setSnapshot(b.pager.Snapshot())

		switch in.Kind {
		case api.KindReshare:
			return ui.Notify(icon.Get(icon.Share) + " Reshared")
		case api.KindGift:
			return ui.Notify(icon.Get(icon.Gift) + " Gift sent")
		case api.KindComment:
			if b.state == commentsState && b.target == in.VideoID {
				return b.loadComments(in.VideoID)
			}
		}
		return nil
	}

	log.WithFields(logrus.Fields{"video": in.VideoID, "kind": in.Kind}).Warnf("interaction failed: %v", msg.err)

	if api.Retryable(msg.err) && b.options.Queue != nil {
		err := b.options.Queue.Queue(in)
		if err == nil {
			return ui.NotifyQueued()
		}
		log.Warnf("queue interaction: %v", err)
	}

	b.pager.Update(in.VideoID, optimistic(in.Kind, true))
	b.setSnapshot(b.pager.Snapshot())
	return ui.Notify(fmt.Sprintf("%s %s failed: %v", icon.Get(icon.Fail), util.Capitalize(string(in.Kind)), msg.err))
}

// openOverlay pauses the active item under s, which acts on the focused item.
func (b *statefulBubble) openOverlay(s state, placeholder string, limit int) (*feed.Item, bool) {
	it, ok := b.focused()
	if !ok {
		return nil, false
	}

	if c, ok := b.activeController(); ok {
		c.Suspend()
	}

	b.target = it.ID
	b.inputC.Reset()
	b.inputC.Placeholder = placeholder
	b.inputC.CharLimit = limit
	b.inputC.Focus()
	b.newState(s)
	return it, true
}

func (b *statefulBubble) closeOverlay() {
	b.inputC.Blur()
	b.inputC.Reset()
	b.target = ""
	b.previousState()

	if c, ok := b.activeController(); ok {
		c.Resume()
	}
}

func (b *statefulBubble) openComments() tea.Cmd {
	it, ok := b.openOverlay(commentsState, "Add a comment", 500)
	if !ok {
		return nil
	}

	b.commentsC.Title = "Comments - " + it.Title
	return tea.Batch(
		b.commentsC.SetItems(nil),
		b.commentsC.StartSpinner(),
		textinput.Blink,
		b.loadComments(it.ID),
	)
}

func (b *statefulBubble) handleComments(msg commentsMsg) tea.Cmd {
	if b.state != commentsState || msg.videoID != b.target {
		return nil
	}

	b.commentsC.StopSpinner()
	if msg.err != nil {
		return ui.Notify(icon.Get(icon.Fail) + " Couldn't load comments: " + msg.err.Error())
	}

	items := lo.Map(msg.comments, func(c api.CommentEntry, _ int) list.Item {
		return &commentItem{entry: c}
	})
	return b.commentsC.SetItems(items)
}

func (b *statefulBubble) updateComments(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.closeOverlay()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			text := strings.TrimSpace(b.inputC.Value())
			if text == "" {
				return nil
			}
			b.inputC.Reset()
			return b.interact(api.Interaction{Kind: api.KindComment, VideoID: b.target, Text: text})
		case lo.Contains([]string{"up", "down", "pgup", "pgdown"}, msg.String()):
			var cmd tea.Cmd
			b.commentsC, cmd = b.commentsC.Update(msg)
			return cmd
		}
	}

	var listCmd, inputCmd tea.Cmd
	if _, ok := msg.(tea.KeyMsg); !ok {
		b.commentsC, listCmd = b.commentsC.Update(msg)
	}
	b.inputC, inputCmd = b.inputC.Update(msg)
	return tea.Batch(listCmd, inputCmd)
}

func (b *statefulBubble) openGift() tea.Cmd {
	if _, ok := b.openOverlay(giftState, "Amount", 12); !ok {
		return nil
	}
	return textinput.Blink
}

func (b *statefulBubble) updateGift(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.closeOverlay()
			return nil
		case bubblesKey.Matches(msg, b.keymap.confirm):
			amount, err := parseAmount(b.inputC.Value())
			if err != nil {
				return ui.Notify(err.Error())
			}
			target := b.target
			b.closeOverlay()
			return b.interact(api.Interaction{Kind: api.KindGift, VideoID: target, Amount: amount})
		}
	}

	var cmd tea.Cmd
	b.inputC, cmd = b.inputC.Update(msg)
	return cmd
}

func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, fmt.Errorf("enter a positive amount")
	}
	return amount, nil
}
