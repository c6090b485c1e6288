// Command taxi-ingest loads the NYC taxi zone lookup and one month of trip
// records into a relational database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/config"

	// register every storage backend with the factory; db-kind picks one.
	_ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps err to the process status: 0 ok, 2 configuration error,
// 1 anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, config.ErrInvalid):
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}
