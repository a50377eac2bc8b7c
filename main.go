// main is the entry point for the metalens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/osshealth/metalens/cmd"
	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/internal/iocache"
)

func main() {
	// The global manager is populated lazily by each command's setup.
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		iocache.CloseStores() // os.Exit skips the deferred close
		os.Exit(1)
	}
}
