// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// ReelFeed is the canonical application identifier used for filesystem paths and CLI branding.
	ReelFeed = "reelfeed"

	// Version is the current application semantic version string.
	Version = "0.3.1"

	// UserAgent is sent with every request to the feed backend.
	UserAgent = ReelFeed + "/" + Version
)

// AsciiArtLogo is the banner shown in the root command help.
const AsciiArtLogo = `
               _  __              _
  _ __ ___  __| |/ _| ___  ___  __| |
 | '__/ _ \/ _ \ | |_ / _ \/ _ \/ _' |
 | | |  __/  __/ |  _|  __/  __/ (_| |
 |_|  \___|\___|_|_|  \___|\___|\__,_|
`

// Build metadata, set with -ldflags "-X github.com/reelfeed/reelfeed/constant.Revision=..."
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
