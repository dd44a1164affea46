package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/inline"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	addFeedFlags(inlineCmd.Flags())
	inlineCmd.Flags().IntP("pages", "P", 1, "Number of pages to read, 0 reads until the feed ends")
	inlineCmd.Flags().IntP("page-size", "n", 0, "Videos per page, defaults to "+key.FeedPageSize)
	inlineCmd.Flags().StringP("filter", "f", "", "Keep only some videos: all, free, locked, liked, series, @creator, ~substring~")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("filter", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"all", "free", "locked", "liked", "series"}, cobra.ShellCompDirectiveNoFileComp
	}))
}

// inlineCmd prints a feed without the interface, for scripts.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Print a feed without the interface",
	Long: `Read a feed and print it for scripts.

Without --json one playable media URL is printed per line, paid videos are skipped.

Filters:
  all - every video
  free - videos you can watch
  locked - paid videos you did not buy
  liked - videos you liked
  series - episodes of a series
  @[creator] - videos by a creator
  ~[substring]~ - videos whose title contains the substring`,
	Example: "  reelfeed inline --scope trending --pages 2 --filter free | mpv --playlist=-",
	Run: func(cmd *cobra.Command, args []string) {
		client, err := api.FromConfig()
		handleErr(err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sel, err := selectFeed(ctx, cmd, client)
		handleErr(err)

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer util.Ignore(file.Close)
			writer = file
		}

		filter := mo.None[inline.Filter]()
		if description := lo.Must(cmd.Flags().GetString("filter")); description != "" {
			fn, err := inline.ParseFilter(description)
			handleErr(err)
			filter = mo.Some(fn)
		}

		pageSize := lo.Must(cmd.Flags().GetInt("page-size"))
		if pageSize <= 0 {
			pageSize = viper.GetInt(key.FeedPageSize)
		}

		options := &inline.Options{
			Out:       writer,
			Source:    client.Feed(sel.scope, sel.community.ID),
			Scope:     sel.scope,
			Community: sel.community.ID,
			Pages:     lo.Must(cmd.Flags().GetInt("pages")),
			PageSize:  pageSize,
			Json:      lo.Must(cmd.Flags().GetBool("json")),
			Filter:    filter,
		}

		handleErr(inline.Run(ctx, options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)
}

// inlineSchemaCmd prints the JSON schema of the inline output.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the --json output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "page", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&inline.Output{})))
	},
}
