package cmd

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/community"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(communityCmd)
}

var communityCmd = &cobra.Command{
	Use:     "community",
	Aliases: []string{"communities"},
	Short:   "Browse the communities that have their own feed",
}

func printCommunities(cmd *cobra.Command, communities []api.Community, asJson bool) {
	if asJson {
		if communities == nil {
			communities = []api.Community{}
		}
		handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(communities))
		return
	}

	width := util.TerminalWidth(80)
	for _, c := range communities {
		cmd.Printf("%s %s %s\n",
			style.Fg(color.Purple)(c.Name),
			style.Faint(c.ID),
			style.Faint(humanize.Comma(int64(c.Members))+" members"),
		)
		if c.Description != "" {
			cmd.Println(indent.String(wordwrap.String(strings.TrimSpace(c.Description), max(width-2, 20)), 2))
		}
	}
}

func init() {
	communityCmd.AddCommand(communityListCmd)
	communityListCmd.Flags().BoolP("refresh", "r", false, "Ignore the cached list")
	communityListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	communityListCmd.SetOut(os.Stdout)
}

var communityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every community",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := api.FromConfig()
		handleErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		communities, err := community.List(ctx, client, lo.Must(cmd.Flags().GetBool("refresh")))
		handleErr(err)

		printCommunities(cmd, communities, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	communityCmd.AddCommand(communityFindCmd)
	communityFindCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	communityFindCmd.SetOut(os.Stdout)
}

var communityFindCmd = &cobra.Command{
	Use:   "find [query]",
	Short: "Find the community closest to a name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, err := api.FromConfig()
		handleErr(err)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		communities, err := community.List(ctx, client, false)
		handleErr(err)

		found, err := community.Find(communities, strings.Join(args, " "))
		handleErr(err)

		printCommunities(cmd, []api.Community{found}, lo.Must(cmd.Flags().GetBool("json")))
	},
}

func init() {
	communityCmd.AddCommand(communityRecentCmd)
	communityRecentCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	communityRecentCmd.SetOut(os.Stdout)
}

var communityRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the communities you opened, most opened first",
	Run: func(cmd *cobra.Command, args []string) {
		recent := community.Recent()
		asJson := lo.Must(cmd.Flags().GetBool("json"))
		if len(recent) == 0 && !asJson {
			cmd.Println(style.Faint("No communities opened yet"))
			return
		}

		printCommunities(cmd, recent, asJson)
	},
}
