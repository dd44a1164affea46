// Package where resolves the application's filesystem locations across platforms.
package where

import (
	"os"
	"path/filepath"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "REELFEED_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory.
// XDG_CONFIG_HOME (or the platform equivalent) is used unless REELFEED_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.ReelFeed))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.ReelFeed))
}

// Logs resolves the directory for diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the watch history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Outbox resolves the journal of interactions waiting to be replayed.
func Outbox() string {
	return filepath.Join(Config(), "outbox.jsonl")
}

// Communities resolves the cached community directory.
func Communities() string {
	return filepath.Join(Cache(), "communities.json")
}

// RecentCommunities resolves the ranking of communities the user opened.
func RecentCommunities() string {
	return filepath.Join(Config(), "communities.json")
}

// Temp resolves a volatile directory for player sockets and other transient artifacts.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.ReelFeed))
}
