package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reelfeed/reelfeed/api"
	"github.com/reelfeed/reelfeed/auth"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/network"
	"github.com/reelfeed/reelfeed/open"
	"github.com/reelfeed/reelfeed/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the token used to talk to the backend",
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authLoginCmd.Flags().StringP("token", "t", "", "The token to store, prompted for when omitted")
	authLoginCmd.Flags().Bool("no-verify", false, "Store the token without checking it against the backend")
}

// verifyToken fetches a single trending video with token.
func verifyToken(token string) error {
	client, err := api.New(api.Options{
		BaseURL:    viper.GetString(key.APIBaseURL),
		Token:      api.StaticToken(token),
		HTTPClient: network.WithTimeout(config.Seconds(key.APITimeout)),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err = client.Videos(ctx, api.ScopeTrending, "", 1, 1)
	return err
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a token in the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		token := lo.Must(cmd.Flags().GetString("token"))

		if token == "" {
			var openPage bool
			handleErr(survey.AskOne(&survey.Confirm{
				Message: "Open the token page in your browser?",
				Default: true,
			}, &openPage))

			if openPage {
				page := strings.TrimRight(viper.GetString(key.WebBaseURL), "/") + "/settings/tokens"
				if err := open.Start(page); err != nil {
					fmt.Printf("Couldn't open the browser, visit %s\n", style.Fg(color.Yellow)(page))
				}
			}

			handleErr(survey.AskOne(&survey.Password{
				Message: "Paste your token:",
			}, &token, survey.WithValidator(survey.Required)))
		}

		token = strings.TrimSpace(token)

		if !lo.Must(cmd.Flags().GetBool("no-verify")) {
			if err := verifyToken(token); err != nil {
				if api.IsUnauthorized(err) {
					handleErr(fmt.Errorf("the backend rejected this token"))
				}
				handleErr(fmt.Errorf("couldn't verify the token: %w", err))
			}
		}

		handleErr(auth.SetToken(token))
		fmt.Printf(
			"%s signed in with %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(auth.Mask(token)),
		)

		if viper.GetString(key.APIToken) != "" {
			fmt.Println(style.Faint("Note: " + key.APIToken + " is set and takes precedence over the keyring"))
		}
	},
}

func init() {
	authCmd.AddCommand(authLogoutCmd)
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the token from the system keyring",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteToken())
		fmt.Printf("%s signed out\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

func init() {
	authCmd.AddCommand(authStatusCmd)
	authStatusCmd.SetOut(os.Stdout)
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token is in use",
	Run: func(cmd *cobra.Command, args []string) {
		token, origin, err := auth.Resolve()
		handleErr(err)

		if token == "" {
			cmd.Println(style.Faint("Not signed in. Run \"reelfeed auth login\""))
			return
		}

		cmd.Printf("%s %s %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(auth.Mask(token)),
			style.Faint("from "+string(origin)),
		)
	},
}
