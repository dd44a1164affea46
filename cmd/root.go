// Package cmd implements the command-line interface for reelfeed.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/community"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/internal/outbox"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/tui"
	"github.com/reelfeed/reelfeed/util"
	"github.com/reelfeed/reelfeed/version"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Remember the videos you watched")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnView, rootCmd.PersistentFlags().Lookup("write-history")))

	addFeedFlags(rootCmd.Flags())

	rootCmd.Flags().StringP("player", "p", "", "The player backend to use")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("player", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.Names(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.Player, rootCmd.Flags().Lookup("player")))

	rootCmd.Flags().BoolP("muted", "m", false, "Start with the sound off")
	lo.Must0(viper.BindPFlag(key.PlayerMuted, rootCmd.Flags().Lookup("muted")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// addFeedFlags registers the flags that select a feed.
func addFeedFlags(flags *pflag.FlagSet) {
	flags.StringP("scope", "s", "", "The feed to browse: "+strings.Join(lo.Map(api.Scopes, func(s api.Scope, _ int) string {
		return string(s)
	}), ", "))
	flags.StringP("community", "c", "", "The community to browse, by id or name (implies --scope community)")
}

// feedSelection is the feed picked on the command line, falling back to the config.
type feedSelection struct {
	scope     api.Scope
	community api.Community
}

func (f feedSelection) title() string {
	switch f.scope {
	case api.ScopeRecommendations:
		return "For you"
	case api.ScopeCommunity:
		return "Community " + f.community.Name
	default:
		return "Trending"
	}
}

func selectFeed(ctx context.Context, cmd *cobra.Command, client *api.Client) (feedSelection, error) {
	var sel feedSelection

	rawScope := lo.Must(cmd.Flags().GetString("scope"))
	if rawScope == "" {
		rawScope = viper.GetString(key.FeedScope)
	}

	query := lo.Must(cmd.Flags().GetString("community"))
	if query == "" {
		query = viper.GetString(key.FeedCommunity)
	} else if !cmd.Flags().Changed("scope") {
		rawScope = string(api.ScopeCommunity)
	}

	scope, err := api.ParseScope(rawScope)
	if err != nil {
		return sel, err
	}
	sel.scope = scope

	if scope != api.ScopeCommunity {
		return sel, nil
	}

	if query == "" {
		return sel, fmt.Errorf("the community feed needs --community")
	}

	communities, err := community.List(ctx, client, false)
	if err != nil {
		return sel, fmt.Errorf("listing communities: %w", err)
	}

	sel.community, err = community.Find(communities, query)
	if err != nil {
		return sel, err
	}

	if err := community.Remember(sel.community); err != nil {
		log.Warnf("remembering community: %v", err)
	}

	return sel, nil
}

// rootCmd opens the feed.
var rootCmd = &cobra.Command{
	Use:   constant.ReelFeed,
	Short: "Scroll short videos from your terminal",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Scroll short videos from your terminal"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		CheckDependencies()

		client, err := api.FromConfig()
		handleErr(err)

		factory, err := player.NewFactory(viper.GetString(key.Player))
		handleErr(err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sel, err := selectFeed(ctx, cmd, client)
		handleErr(err)

		go reconcile(ctx, client)

		options := tui.Options{
			Title:   sel.title(),
			Source:  client.Feed(sel.scope, sel.community.ID),
			Factory: factory,
			Client:  client,
			Queue:   outbox.Default(),
		}
		handleErr(tui.Run(&options))
	},
}

// reconcile replays the interactions queued while offline.
func reconcile(ctx context.Context, client *api.Client) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	result, err := outbox.Default().Reconcile(ctx, client)
	if err != nil {
		log.Warnf("outbox: %v", err)
		return
	}

	if result.Sent+result.Dropped > 0 {
		log.Infof("outbox: sent %d, dropped %d, kept %d", result.Sent, result.Dropped, result.Kept)
	}
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
