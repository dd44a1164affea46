package tui

type state int

const (
	loadingState state = iota
	feedState
	emptyState
	errorState
	commentsState
	giftState
)

// overlay states cover the feed and stop scrolling.
func (s state) overlay() bool {
	return s == commentsState || s == giftState
}
