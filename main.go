package main

import (
	"os"

	"github.com/cloudposse/tierconf/cmd"
	errUtils "github.com/cloudposse/tierconf/errors"
	log "github.com/cloudposse/tierconf/pkg/logger"
)

func main() {
	errUtils.OsExit(run())
}

// run executes the CLI and returns the exit code, so deferred cleanup runs before exiting.
func run() int {
	defer cmd.Cleanup()

	if err := cmd.Execute(); err != nil {
		log.Debug("Command failed", "error", errUtils.Format(err, true))
		errUtils.PrintError(os.Stderr, err, "")

		exitCode := errUtils.GetExitCode(err)
		log.Debug("Exiting with exit code", "code", exitCode)
		return exitCode
	}
	return 0
}
