package cmd

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type location struct {
	name   string
	path   func() string
	flag   string
	short  mo.Option[string]
	hidden bool
}

var locations = []*location{
	{name: "Config", path: where.Config, flag: "config", short: mo.Some("c")},
	{name: "Logs", path: where.Logs, flag: "logs", short: mo.Some("l")},
	{name: "Cache", path: where.Cache, flag: "cache"},
	{name: "History", path: where.History, flag: "history", hidden: true},
	{name: "Outbox", path: where.Outbox, flag: "outbox", hidden: true},
	{name: "Temp", path: where.Temp, flag: "temp", hidden: true},
}

type locationInfo struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
	Size   int64  `json:"size,omitempty"`
}

// describe stats the location. Directories report no size.
func (l *location) describe() locationInfo {
	info := locationInfo{Name: l.name, Path: l.path()}
	stat, err := filesystem.API().Stat(info.Path)
	if err != nil {
		return info
	}

	info.Exists = true
	if !stat.IsDir() {
		info.Size = stat.Size()
	}
	return info
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		if short, ok := l.short.Get(); ok {
			whereCmd.Flags().BoolP(l.flag, short, false, l.name+" path")
		} else {
			whereCmd.Flags().Bool(l.flag, false, l.name+" path")
		}

		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l *location, _ int) string {
		return l.flag
	})...)

	whereCmd.Flags().BoolP("json", "j", false, "print every location as json")
	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the paths where reelfeed keeps its files",
	Run: func(cmd *cobra.Command, args []string) {
		for _, l := range locations {
			if lo.Must(cmd.Flags().GetBool(l.flag)) {
				cmd.Println(l.path())
				return
			}
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(lo.Map(locations, func(l *location, _ int) locationInfo {
				return l.describe()
			})))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		visible := lo.Reject(locations, func(l *location, _ int) bool { return l.hidden })

		for i, l := range visible {
			info := l.describe()
			cmd.Printf("%s %s\n", header(l.name+"?"), style.Fg(color.Yellow)("--"+l.flag))

			switch {
			case !info.Exists:
				cmd.Println(info.Path, style.Faint("(missing)"))
			case info.Size > 0:
				cmd.Println(info.Path, style.Faint("("+humanize.Bytes(uint64(info.Size))+")"))
			default:
				cmd.Println(info.Path)
			}

			if i < len(visible)-1 {
				cmd.Println()
			}
		}
	},
}
