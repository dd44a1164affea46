package version

import (
	"context"
	"fmt"
	"time"

	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/icon"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
	"github.com/spf13/viper"
)

// Notify prints a banner when a newer release is out.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(version, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/reelfeed/reelfeed/releases/tag/v"+version),
	)
}
