// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Backend API - these keys locate and authenticate against the feed REST backend.
const (
	APIBaseURL   = "api.base_url"
	APIToken     = "api.token"
	APIRateLimit = "api.rate_limit"
	APITimeout   = "api.timeout"
)

// Web links opened in the browser (creator profiles).
const (
	WebBaseURL = "web.base_url"
)

// Feed behaviour - these keys tune pagination, visibility detection and playback handoff.
const (
	FeedScope               = "feed.scope"
	FeedCommunity           = "feed.community"
	FeedPageSize            = "feed.page_size"
	FeedVisibilityThreshold = "feed.visibility_threshold"
	FeedDwell               = "feed.dwell_ms"
	FeedPrefetchDistance    = "feed.prefetch_distance"
	FeedResumeOnReturn      = "feed.resume_on_return"
)

// Media Playback - these keys configure the external video player.
const (
	Player      = "player.default"
	PlayerMuted = "player.muted"
	PlayerLoop  = "player.loop"
)

// History Tracking - these keys configure the persistence of viewed items.
const (
	HistorySaveOnView = "history.save_on_view"
)

// Terminal User Interface (TUI) - these keys define the feed screen's layout.
const (
	TUIItemHeight = "tui.item_height"
	TUIShowURLs   = "tui.show_urls"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
