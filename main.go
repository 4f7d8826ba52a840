// Package main is the entry point for the civic311 pipeline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/opencivic/civic311/cmd"
	"github.com/opencivic/civic311/internal/logging"
)

// main executes the selected pipeline stage. Every failure kind —
// missing configuration, unreachable store, failed fetch, or anything
// else — surfaces here exactly once and terminates the run with status 1.
// There are no retries: the full-refresh design makes the next scheduled
// run the recovery path.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("run failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
