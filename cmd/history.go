package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/history"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Show at most this many entries, 0 for all")
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the videos you watched, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := history.List()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("Nothing watched yet"))
			return
		}

		for _, e := range entries {
			cmd.Printf("%s %s %s\n",
				style.Bold(e.Title),
				style.Fg(color.Purple)("@"+e.Creator),
				style.Faint(fmt.Sprintf("%s, %s", humanize.Time(e.LastSeen), util.Quantify(e.Views, "view", "views"))),
			)
			cmd.Println("  " + style.Faint(e.ID))
		}
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove [id...]",
	Aliases: []string{"rm"},
	Short:   "Forget the given videos",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, id := range args {
			handleErr(history.Remove(id))
		}

		fmt.Printf("%s removed %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(args), "entry", "entries"),
		)
	},
}

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every watched video",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(history.Clear())
		fmt.Printf("%s history cleared\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
