// Command epsql reads and writes EnergyPlus SQLite result files.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/epsql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
