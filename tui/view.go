package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case feedState:
		output = b.viewFeed()
	case emptyState:
		output = b.viewEmpty()
	case errorState:
		output = b.viewError()
	case commentsState:
		output = b.viewComments()
	case giftState:
		output = b.viewGift()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) title() string {
	if b.options.Title == "" {
		return "Feed"
	}
	return b.options.Title
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title(b.title()),
			"",
			b.spinnerC.View() + " Loading videos",
		},
	)
}

func (b *statefulBubble) viewEmpty() string {
	return b.renderLines(
		true,
		[]string{
			style.Title(b.title()),
			"",
			"No videos available",
			"",
			style.Faint("Press R to check again"),
		},
	)
}

func (b *statefulBubble) viewError() string {
	var hint string
	if api.IsUnauthorized(b.lastError) {
		hint = "Run \"reelfeed auth login\" to sign in again"
	}

	errorMsg := wrap.String(style.Fg(color.Red)(b.lastError.Error()), b.width)
	lines := []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " Couldn't load the feed:",
		"",
		errorMsg,
	}
	if hint != "" {
		lines = append(lines, "", style.Faint(hint))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) header() string {
	n := len(b.snapshot.Items)
	count := fmt.Sprintf("%d/%d", min(b.position()+1, n), n)
	if b.snapshot.HasMore {
		count += "+"
	}

	parts := []string{style.Title(b.title()), style.Faint(count)}
	if b.muted {
		parts = append(parts, icon.Get(icon.Muted))
	}

	switch {
	case b.snapshot.Loading:
		parts = append(parts, b.spinnerC.View()+" loading more")
	case b.snapshot.Err != nil:
		parts = append(parts, style.Fg(color.Red)(icon.Get(icon.Fail)+" couldn't load more"))
	case !b.snapshot.HasMore && b.position() == n-1:
		parts = append(parts, style.Faint("you're all caught up, "+util.Quantify(n, "video", "videos")))
	}

	return strings.Join(parts, " ")
}

func (b *statefulBubble) viewFeed() string {
	lines := append([]string{b.header(), ""}, b.feedLines()...)
	return b.renderLines(true, lines)
}

// feedLines renders the rows of the viewport: one card at rest, two while scrolling.
func (b *statefulBubble) feedLines() []string {
	h, viewport := b.layout.ItemHeight, b.layout.ViewportHeight
	if h <= 0 || viewport <= 0 {
		return nil
	}

	items := b.snapshot.Items
	first := b.offset / h
	skip := b.offset - first*h
	focused := b.position()

	var lines []string
	for i := first; i < len(items) && len(lines) < skip+viewport; i++ {
		it := items[i]
		c := card{
			item:    it,
			focused: i == focused,
			seen:    b.seen[it.ID],
		}
		if ctrl, ok := b.controllers[it.ID]; ok {
			c.state, c.status, c.err, c.paused = ctrl.State(), ctrl.Status(), ctrl.Err(), ctrl.Paused()
		}
		lines = append(lines, c.render(b, b.width, h)...)
	}

	lines = lines[min(skip, len(lines)):]
	if len(lines) > viewport {
		lines = lines[:viewport]
	}
	return lines
}

func (b *statefulBubble) viewComments() string {
	return listExtraPaddingStyle.Render(b.commentsC.View()) + "\n" +
		paddingStyle.Render(b.inputC.View()+"\n\n"+b.helpC.View(b.keymap))
}

func (b *statefulBubble) viewGift() string {
	var title string
	if i, ok := b.index[b.target]; ok {
		title = b.snapshot.Items[i].Title
	}

	return b.renderLines(
		true,
		[]string{
			style.Title("Send a gift"),
			"",
			style.Fg(color.Purple)(title),
			"",
			b.inputC.View(),
			"",
			style.Faint("(Enter to send, Esc to cancel)"),
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
