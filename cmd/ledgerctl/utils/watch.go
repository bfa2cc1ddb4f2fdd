package utils

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/concave-dev/ledger/internal/logging"
)

// clearScreen moves the cursor home and clears the terminal
const clearScreen = "\033[2J\033[H"

// RunWithWatch runs fn once, or every interval until SIGINT/SIGTERM when
// watch is enabled. Errors after the first refresh are logged and the loop
// keeps going so a daemon restart does not end the watch.
func RunWithWatch(fn func() error, enableWatch bool, interval time.Duration) error {
	if !enableWatch {
		return fn()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fmt.Print(clearScreen)
	if err := fn(); err != nil {
		return err
	}

	for {
		select {
		case <-ticker.C:
			fmt.Print(clearScreen)
			if err := fn(); err != nil {
				logging.Error("Error updating display: %v", err)
				continue
			}
		case <-sigChan:
			fmt.Println("\nWatch mode interrupted")
			return nil
		}
	}
}
