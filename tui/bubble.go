package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/item"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/reelfeed/reelfeed/playback"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/reelfeed/reelfeed/visibility"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const (
	// keepAround is how many items on each side of the active one keep their player.
	keepAround = 2
	// wheelStep is the number of rows one mouse wheel notch scrolls.
	wheelStep = 2
	// chrome is the rows taken by the header and the help line.
	chrome = 3
)

// statefulBubble encapsulates the feed screen state.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	helpC     help.Model
	commentsC list.Model
	inputC    textinput.Model
	progressC progress.Model

	pager    *pager.Controller
	snapshot pager.Snapshot
	index    map[string]int

	registry *playback.Registry
	tracker  *visibility.Tracker
	layout   visibility.Layout
	offset   int
	wheeling bool
	lastRoll time.Time

	// active is the promoted index, -1 before the first promotion.
	active   int
	activeID string

	controllers map[string]*item.Controller
	itemOpts    item.Options
	events      chan item.Event
	releasing   sync.WaitGroup
	muted       bool

	seen        map[string]bool
	saveHistory bool
	showURLs    bool
	itemHeight  int
	webBase     string

	// target is the video an overlay acts on.
	target string

	ctx          context.Context
	cancel       context.CancelFunc
	teardownOnce sync.Once

	lastError     error
	width, height int
	notifier      *ui.Model

	options *Options
}

// raiseError records err and shows it full screen.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState moves to s, remembering the current state unless it is transient.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, errorState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

// resize propagates terminal dimension changes and keeps the focused item in place.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	focused := b.position()

	b.width = width - x
	b.height = height - y

	// one card per screen
	h := max(min(b.itemHeight, b.height-chrome), 1)
	b.layout = visibility.Layout{ItemHeight: h, ViewportHeight: h}

	b.commentsC.SetSize(width-xx, max(height-yy-6, 3))
	b.commentsC.Help.Width = width - xx
	b.inputC.Width = max(b.width-4, 10)
	b.progressC.Width = max(min(b.width-20, 40), 10)
	b.helpC.Width = b.width

	b.offset = b.layout.OffsetOf(focused)
}

// position is the index of the item the viewport is centered on.
func (b *statefulBubble) position() int {
	if b.layout.ItemHeight <= 0 {
		return max(b.active, 0)
	}
	n := len(b.snapshot.Items)
	return b.layout.Snap(b.offset, n) / b.layout.ItemHeight
}

// focused is the item under the cursor.
func (b *statefulBubble) focused() (*feed.Item, bool) {
	items := b.snapshot.Items
	i := b.position()
	if i < 0 || i >= len(items) {
		return nil, false
	}
	return items[i], true
}

func (b *statefulBubble) setSnapshot(s pager.Snapshot) {
	b.snapshot = s
	b.index = make(map[string]int, len(s.Items))
	for i, it := range s.Items {
		b.index[it.ID] = i
	}
}

// controller returns the controller of it, creating a dormant one on first use.
func (b *statefulBubble) controller(it *feed.Item) *item.Controller {
	if c, ok := b.controllers[it.ID]; ok {
		return c
	}

	opts := b.itemOpts
	opts.Muted = b.muted
	c := item.New(it, opts)
	b.controllers[it.ID] = c
	return c
}

func (b *statefulBubble) activeController() (*item.Controller, bool) {
	c, ok := b.controllers[b.activeID]
	return c, ok && b.activeID != ""
}

// dispose releases a controller in the background; waitReleased waits for it.
func (b *statefulBubble) dispose(id string) {
	c, ok := b.controllers[id]
	if !ok {
		return
	}
	delete(b.controllers, id)

	c.Dispose()
	b.releasing.Add(1)
	go func() {
		defer b.releasing.Done()
		c.Sync()
	}()
}

// trim disposes every controller too far from the active item.
func (b *statefulBubble) trim() {
	for id := range b.controllers {
		i, ok := b.index[id]
		if !ok || i < b.active-keepAround || i > b.active+keepAround {
			b.dispose(id)
		}
	}
}

// emit forwards controller events to the update loop, dropping them when it lags.
func (b *statefulBubble) emit(ev item.Event) {
	select {
	case b.events <- ev:
	default:
	}
}

func (b *statefulBubble) teardown() {
	b.teardownOnce.Do(func() {
		b.cancel()
		b.pager.Close()
		for id := range b.controllers {
			b.dispose(id)
		}
		b.registry.Reset()
	})
}

// waitReleased reports whether every disposed player finished within timeout.
func (b *statefulBubble) waitReleased(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		b.releasing.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func newBubble(options *Options) *statefulBubble {
	ctx, cancel := context.WithCancel(context.Background())

	bubble := &statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(),

		pager: pager.New(options.Source, pager.Options{
			PageSize:         viper.GetInt(key.FeedPageSize),
			PrefetchDistance: viper.GetInt(key.FeedPrefetchDistance),
		}),
		index:    make(map[string]int),
		registry: playback.NewRegistry(),
		tracker: visibility.NewTracker(visibility.Options{
			Threshold: viper.GetFloat64(key.FeedVisibilityThreshold),
			Dwell:     config.Milliseconds(key.FeedDwell),
		}),
		active: -1,

		controllers: make(map[string]*item.Controller),
		events:      make(chan item.Event, 64),
		muted:       viper.GetBool(key.PlayerMuted),

		seen:        make(map[string]bool),
		saveHistory: viper.GetBool(key.HistorySaveOnView),
		showURLs:    viper.GetBool(key.TUIShowURLs),
		itemHeight:  max(viper.GetInt(key.TUIItemHeight), 4),
		webBase:     viper.GetString(key.WebBaseURL),

		ctx:    ctx,
		cancel: cancel,

		notifier: &ui.Model{},
		options:  options,
	}

	bubble.itemOpts = item.Options{
		Factory:        options.Factory,
		Registry:       bubble.registry,
		Loop:           viper.GetBool(key.PlayerLoop),
		ResumeOnReturn: viper.GetBool(key.FeedResumeOnReturn),
		OnChange:       bubble.emit,
	}

	if saved, err := history.Get(); err != nil {
		log.Warn(err)
	} else {
		for id := range saved {
			bubble.seen[id] = true
		}
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.CharLimit = 500

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.commentsC = list.New(nil, delegate, 0, 0)
	bubble.commentsC.KeyMap = bubble.keymap.forList()
	bubble.commentsC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
	bubble.commentsC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
		return bubble.keymap.FullHelp()[0]
	}
	bubble.commentsC.Styles.Title = style.Badge
	bubble.commentsC.Styles.NoItems = paddingStyle
	bubble.commentsC.SetShowHelp(false)
	bubble.commentsC.SetFilteringEnabled(false)
	bubble.commentsC.SetStatusBarItemName("comment", "comments")

	bubble.layout = visibility.Layout{ItemHeight: bubble.itemHeight, ViewportHeight: bubble.itemHeight}
	bubble.setState(loadingState)

	return bubble
}
