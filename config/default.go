// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.ReelFeed + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.APIBaseURL, "https://api.reelfeed.app/v1", "Base URL of the feed REST backend")
	register(key.APIToken, "", "Bearer token used for API requests.\nOverrides the token stored in the system keyring.\nPrefer \"reelfeed auth login\" over setting this in the config file")
	register(key.APIRateLimit, 8, "Maximum number of API requests per second")
	register(key.APITimeout, 30, "API request timeout in seconds")
	register(key.WebBaseURL, "https://reelfeed.app", "Base URL used when opening creator profiles in the browser")
	register(key.FeedScope, "trending", "Feed to open on start.\nAvailable options are: trending, recommendations, community")
	register(key.FeedCommunity, "", "Community ID used when the feed scope is \"community\"")
	register(key.FeedPageSize, 10, "Number of videos requested per page")
	register(key.FeedVisibilityThreshold, 80, "Minimum visible percentage of an item before it can become active. From 1 to 100")
	register(key.FeedDwell, 150, "Time in milliseconds an item must stay most visible before it starts playing")
	register(key.FeedPrefetchDistance, 2, "Fetch the next page when the active item is this close to the end of the list")
	register(key.FeedResumeOnReturn, false, "Resume a video where it stopped when scrolling back to it.\nBy default videos restart from the beginning")
	register(key.Player, "mpv", "Media player to use.\nAvailable options are: mpv, iina (macOS only)")
	register(key.PlayerMuted, false, "Start videos muted")
	register(key.PlayerLoop, true, "Loop the active video")
	register(key.HistorySaveOnView, true, "Save viewed videos to history")
	register(key.TUIItemHeight, 9, "Height of a video card in terminal rows.\nThe feed shows one card at a time, so this is capped by the terminal height")
	register(key.TUIShowURLs, false, "Show media URLs under feed items")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
