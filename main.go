// Package main is the entry point for reelfeed.
package main

import (
	"fmt"
	"os"

	"github.com/reelfeed/reelfeed/cmd"
	"github.com/reelfeed/reelfeed/config"
	"github.com/reelfeed/reelfeed/log"
	"github.com/samber/lo"
)

func main() {
	if err := config.Setup(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid configuration:\n%v\n", err)
		os.Exit(1)
	}
	lo.Must0(log.Setup())

	cmd.Execute()
}
