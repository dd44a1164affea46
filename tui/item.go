package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/item"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
)

// commentItem implements list.DefaultItem for a comment.
type commentItem struct {
	entry api.CommentEntry
}

func (c *commentItem) Title() string {
	title := "@" + c.entry.Username
	if !c.entry.Created.IsZero() {
		title += " " + style.Faint(humanize.Time(c.entry.Created))
	}
	return title
}

func (c *commentItem) Description() string {
	return c.entry.Text
}

func (c *commentItem) FilterValue() string {
	return c.entry.Text
}

var (
	focusedBar = lipgloss.NewStyle().Foreground(style.AccentColor).Render("┃") + " "
	plainBar   = "  "
)

// card is what the feed shows of one item.
type card struct {
	item    *feed.Item
	state   item.State
	status  player.Status
	err     error
	paused  bool
	focused bool
	seen    bool
}

// stateIcon tells at a glance whether the item plays.
func (c card) stateIcon() string {
	switch {
	case c.item.Locked():
		return style.Locked.Render(icon.Get(icon.Lock))
	case c.state == item.Failed:
		return style.Fg(color.Red)(icon.Get(icon.Fail))
	case c.state != item.Active:
		if c.seen {
			return style.Faint(icon.Get(icon.Seen))
		}
		return " "
	case c.status.Buffering:
		return icon.Get(icon.Buffering)
	case c.paused:
		return icon.Get(icon.Pause)
	default:
		return style.Fg(color.Green)(icon.Get(icon.Play))
	}
}

func (c card) counters() string {
	like := icon.Get(icon.Like)
	if c.item.Liked {
		like = style.Liked.Render(icon.Get(icon.Liked))
	}

	n := func(v int) string {
		return humanize.Comma(int64(v))
	}

	return strings.Join([]string{
		like + " " + n(c.item.Counters.Likes),
		icon.Get(icon.Comment) + " " + n(c.item.Counters.Comments),
		icon.Get(icon.Share) + " " + n(c.item.Counters.Shares),
		icon.Get(icon.Gift) + " " + n(c.item.Counters.Gifts),
	}, "   ")
}

func (c card) byline() string {
	parts := []string{style.Fg(color.Purple)("@" + c.item.Creator.Username)}
	if c.item.Creator.Username == "" {
		parts[0] = style.Faint("unknown creator")
	}

	if series, ok := c.item.Series.Get(); ok {
		parts = append(parts, fmt.Sprintf("%s, episode %d", series.Title, series.Episode))
	}

	if c.item.Locked() {
		parts = append(parts, style.Locked.Render(fmt.Sprintf("paid %s", humanize.CommafWithDigits(c.item.Access.Price, 2))))
	}

	return strings.Join(parts, style.Faint(" · "))
}

// render returns exactly height lines no wider than width.
func (c card) render(b *statefulBubble, width, height int) []string {
	title := c.item.Title
	if title == "" {
		title = c.item.ID
	}

	lines := []string{
		c.stateIcon() + " " + style.Bold(title),
		c.byline(),
		c.counters(),
	}

	switch {
	case c.item.Locked():
		lines = append(lines, style.Faint("Purchase this video on the web to watch it"))
	case c.state == item.Failed:
		msg := "Couldn't play this video"
		if c.err != nil {
			msg += ": " + c.err.Error()
		}
		lines = append(lines, style.Fg(color.Red)(msg))
	case c.state == item.Active:
		lines = append(lines, b.progressC.ViewAs(c.status.Progress())+" "+
			style.Faint(util.Clock(c.status.Position)+" / "+util.Clock(c.status.Duration)))
	}

	if b.showURLs {
		lines = append(lines, style.Faint(c.item.MediaURI))
	}

	// the last row separates cards
	body := max(height-1, 1)
	if len(lines) > body {
		lines = lines[:body]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}

	bar := plainBar
	if c.focused {
		bar = focusedBar
	}

	w := uint(max(width-lipgloss.Width(bar), 1))
	for i, line := range lines {
		if i < body {
			lines[i] = bar + truncate.StringWithTail(line, w, "…")
		}
	}

	return lines
}
