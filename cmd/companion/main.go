// Command companion runs the Companion account service.
package main

import (
	"os"

	"github.com/kbukum/companion/logger"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		logger.Error("companion exited", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}
