// Seed tool: recreates the category/users/posts/likes schema and fills it with
// synthetic data.
//   - seed (no subcommand) drops, recreates and populates the tables
//   - seed verify checks referential integrity and distribution shape
//   - seed bench times timeline queries against the seeded posts
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		stop()
		os.Exit(1)
	}
}
