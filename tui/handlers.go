package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/item"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/open"
	"github.com/sirupsen/logrus"
)

type (
	// pageLoadedMsg follows every fetch. The pager holds the result; err is only
	// for reporting.
	pageLoadedMsg struct {
		err error
	}

	// settleMsg asks the tracker whether its candidate has dwelt long enough.
	settleMsg struct {
		at time.Time
	}

	itemEventMsg item.Event

	interactionMsg struct {
		in       api.Interaction
		counters feed.Counters
		err      error
	}

	commentsMsg struct {
		videoID  string
		comments []api.CommentEntry
		err      error
	}
)

func (b *statefulBubble) fetchFirstPage() tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: b.pager.FetchPage(b.ctx, 1)}
	}
}

func (b *statefulBubble) refresh() tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{err: b.pager.Refresh(b.ctx)}
	}
}

func (b *statefulBubble) prefetch(index int) tea.Cmd {
	return func() tea.Msg {
		ran, err := b.pager.Prefetch(b.ctx, index)
		if !ran {
			return nil
		}
		return pageLoadedMsg{err: err}
	}
}

func (b *statefulBubble) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-b.events:
			return itemEventMsg(ev)
		case <-b.ctx.Done():
			return nil
		}
	}
}

func (b *statefulBubble) settleAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return settleMsg{at: t}
	})
}

func (b *statefulBubble) send(in api.Interaction) tea.Cmd {
	return func() tea.Msg {
		counters, err := b.options.Client.Send(b.ctx, in)
		return interactionMsg{in: in, counters: counters, err: err}
	}
}

func (b *statefulBubble) loadComments(videoID string) tea.Cmd {
	return func() tea.Msg {
		comments, err := b.options.Client.Comments(b.ctx, videoID)
		return commentsMsg{videoID: videoID, comments: comments, err: err}
	}
}

func (b *statefulBubble) remember(it *feed.Item) tea.Cmd {
	return func() tea.Msg {
		if err := history.Save(it); err != nil {
			log.WithFields(logrus.Fields{"video": it.ID}).Warnf("save history: %v", err)
		}
		return nil
	}
}

func (b *statefulBubble) openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(url); err != nil {
			log.Warnf("open %s: %v", url, err)
			return ui.NotificationMsg(fmt.Sprintf("Couldn't open %s", url))
		}
		return nil
	}
}
