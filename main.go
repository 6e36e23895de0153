// main holds the entry logic for the gitattrib CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kherrera/gitattrib/cmd"
	"github.com/kherrera/gitattrib/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Persistence and profiling shut down regardless of command outcome.
	iocache.CloseCaching()
	if perr := cmd.StopProfiling(); perr != nil {
		fmt.Fprintf(os.Stderr, "Warn stopping profiler: %v\n", perr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
