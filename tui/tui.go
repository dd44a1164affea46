// Package tui provides the feed screen: a vertically scrolling list of videos in which
// the most visible item plays and every other item stays paused.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/pager"
	"github.com/reelfeed/reelfeed/player"
)

// Interactor sends interactions and reads comments, usually an *api.Client.
type Interactor interface {
	Send(ctx context.Context, in api.Interaction) (feed.Counters, error)
	Comments(ctx context.Context, videoID string) ([]api.CommentEntry, error)
}

// Queue stores interactions that failed with a transient error, usually an *outbox.Outbox.
type Queue interface {
	Queue(in api.Interaction) error
}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Title is shown in the header, e.g. "Trending".
	Title string

	Source  pager.Source
	Factory player.Factory
	Client  Interactor

	// Queue is optional. Without it transient failures are reverted like any other.
	Queue Queue
}

// releaseTimeout bounds how long Run waits for players to quit on exit.
const releaseTimeout = 4 * time.Second

func (o *Options) validate() error {
	switch {
	case o.Source == nil:
		return errors.New("tui: no feed source")
	case o.Factory == nil:
		return errors.New("tui: no player")
	case o.Client == nil:
		return errors.New("tui: no api client")
	}
	return nil
}

// Run initializes and executes the primary Bubble Tea application loop.
// Every player started by the feed is stopped before Run returns.
func Run(options *Options) error {
	if err := options.validate(); err != nil {
		return err
	}

	bubble := newBubble(options)
	defer func() {
		bubble.teardown()
		if !bubble.waitReleased(releaseTimeout) {
			log.Warn("players did not quit in time")
		}
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
