package root

import (
	"context"
	"fmt"
	"os"

	"github.com/seaward/artifact-fetch/cmd/fetch"
)

const usage = `Usage: artifact-fetch [COMMAND] [ARGS...]

Commands:
  fetch  Fetch artifacts to local files`

func Run(ctx context.Context, args []string) {
	if len(args) < 2 {
		printUsage()
	}

	command := args[1]
	switch command {
	case "fetch":
		fetch.Run(ctx, args[2:])
	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, usage)
	os.Exit(1)
}
