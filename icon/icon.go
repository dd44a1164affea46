// Package icon provides a flexible multi-variant rendering engine for UI symbols and feedback indicators.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/reelfeed/reelfeed/key"
	"github.com/spf13/viper"
)

// Visual Variant Constants - these define the supported aesthetic styles for icon rendering.
const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef encapsulates the visual representations of a single UI symbol across all supported variants.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

// Get retrieves the visual representation for the receiver Def based on the global icons variant configuration.
func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the rendered string for a specified Icon identifier from the global registry.
func Get(i Icon) string {
	return icons[i].Get()
}

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Like
	Liked
	Gift
	Share
	Comment
	Play
	Pause
	Buffering
	Lock
	Muted
	Seen
)

var icons = map[Icon]*iconDef{
	Fail:      {emoji: "❌", nerd: "\uf00d", plain: "x", kaomoji: "(×_×)", squares: "▣"},
	Success:   {emoji: "✅", nerd: "\uf00c", plain: "+", kaomoji: "(ᵔ◡ᵔ)", squares: "■"},
	Progress:  {emoji: "⏳", nerd: "\uf252", plain: "~", kaomoji: "(・_・;)", squares: "▤"},
	Like:      {emoji: "🤍", nerd: "\uf08a", plain: "<3", kaomoji: "(´・ω・)", squares: "□"},
	Liked:     {emoji: "❤️", nerd: "\uf004", plain: "<3!", kaomoji: "(♥ω♥)", squares: "■"},
	Gift:      {emoji: "🎁", nerd: "\uf06b", plain: "$", kaomoji: "(づ｡◕‿‿◕｡)づ", squares: "▥"},
	Share:     {emoji: "🔁", nerd: "\uf064", plain: ">>", kaomoji: "(ﾉ◕ヮ◕)ﾉ", squares: "▧"},
	Comment:   {emoji: "💬", nerd: "\uf075", plain: "#", kaomoji: "(・o・)", squares: "▨"},
	Play:      {emoji: "▶️", nerd: "\uf04b", plain: ">", kaomoji: "(•̀ᴗ•́)و", squares: "▶"},
	Pause:     {emoji: "⏸️", nerd: "\uf04c", plain: "||", kaomoji: "(－_－) zzZ", squares: "▮"},
	Buffering: {emoji: "🌀", nerd: "\uf110", plain: "...", kaomoji: "(・・ )?", squares: "▩"},
	Lock:      {emoji: "🔒", nerd: "\uf023", plain: "[locked]", kaomoji: "(ー_ー)!!", squares: "▦"},
	Muted:     {emoji: "🔇", nerd: "\uf6a9", plain: "[muted]", kaomoji: "(˘･_･˘)", squares: "▯"},
	Seen:      {emoji: "👀", nerd: "\uf06e", plain: "*", kaomoji: "(◉_◉)", squares: "▪"},
}
