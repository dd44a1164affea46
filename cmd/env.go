package cmd

import (
	"os"
	"strings"

	"github.com/reelfeed/reelfeed/auth"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show the variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show the variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envName is the variable viper reads for a config key.
func envName(k string) string {
	return strings.ToUpper(constant.ReelFeed + "_" + config.EnvKeyReplacer.Replace(k))
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables",
	Long:  `List the supported environment variables and their values in this process.`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		names := append(lo.Map(config.EnvExposed, func(k string, _ int) string {
			return envName(k)
		}), where.EnvConfigPath)
		slices.Sort(names)

		for _, env := range names {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			switch {
			case !present:
				cmd.Println(style.Fg(color.Red)("unset"))
			case env == envName(key.APIToken):
				cmd.Println(style.Fg(color.Green)(auth.Mask(value)))
			default:
				cmd.Println(style.Fg(color.Green)(value))
			}
		}
	},
}
