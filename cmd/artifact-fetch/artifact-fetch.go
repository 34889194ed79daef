package main

import (
	"context"
	"os"

	"github.com/seaward/artifact-fetch/cmd/root"
)

func main() {
	root.Run(context.Background(), os.Args)
}
