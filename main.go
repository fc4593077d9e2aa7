// Command topsize reports the largest files or folders below a directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idelchi/topsize/internal/cli"
)

// version is set at build time.
var version = "unknown"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.New(version).Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
