package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/reelfeed/reelfeed/auth"
	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/internal/outbox"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/player"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CheckDependencies exits when the configured player is not installed.
func CheckDependencies() {
	name := strings.ToLower(viper.GetString(key.Player))
	if !player.Available(name) {
		printMissingDependencyError(name)
		os.Exit(1)
	}
}

func installHint(name string) string {
	switch runtime.GOOS {
	case "darwin":
		if name == player.NameIINA {
			return "brew install --cask iina"
		}
		return "brew install mpv"
	case "linux":
		return "sudo apt install mpv"
	case "windows":
		return "scoop install mpv"
	}
	return ""
}

func printMissingDependencyError(dep string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The player '%s' was not found in your PATH.", dep))

	suggestion := ""
	if hint := installHint(dep); hint != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.SetOut(os.Stdout)
}

// checkCmd reports whether everything the feed needs is in place.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the players, the sign in and the offline queue",
	Run: func(cmd *cobra.Command, args []string) {
		ok := style.Fg(color.Green)(icon.Get(icon.Success))
		fail := style.Fg(color.Red)(icon.Get(icon.Fail))

		configured := strings.ToLower(viper.GetString(key.Player))
		for _, name := range player.Names() {
			mark, note := fail, "not found"
			if player.Available(name) {
				mark, note = ok, "found"
			}
			if name == configured {
				note += ", in use"
			}
			cmd.Printf("%s %s %s\n", mark, style.Bold(name), style.Faint(note))
		}

		token, origin, err := auth.Resolve()
		switch {
		case err != nil:
			cmd.Printf("%s token %s\n", fail, style.Faint(err.Error()))
		case token == "":
			cmd.Printf("%s token %s\n", fail, style.Faint("not signed in"))
		default:
			cmd.Printf("%s token %s %s\n", ok, auth.Mask(token), style.Faint("from "+string(origin)))
		}

		pending, err := outbox.Default().Pending()
		handleErr(err)
		cmd.Printf("%s %s waiting to sync\n", ok, util.Quantify(len(pending), "interaction", "interactions"))
	},
}
