// Package utils contains utility functions for the ledger daemon.
package utils

import (
	"fmt"
)

// DisplayLogo prints the ledgerd banner with version information
func DisplayLogo(version string) {
	fmt.Println()
	fmt.Println(` ░░░░░░░░░░░░░░░░░░░░░░░░░░
 ░█░░░█▀▀░█▀▄░█▀▀░█▀▀░█▀▄░
 ░█░░░█▀▀░█░█░█░█░█▀▀░█▀▄░
 ░▀▀▀░▀▀▀░▀▀░░▀▀▀░▀▀▀░▀░▀░
 ░░░░░░░░░░░░░░░░░░░░░░░░░░`)
	fmt.Printf("\n ledgerd v%s - Account balance tracking with batched audit\n", version)
	fmt.Println()
}
