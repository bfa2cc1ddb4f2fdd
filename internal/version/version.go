// Package version provides version information for the ledger binaries.
// ledgerd and ledgerctl are versioned independently.
// All versions follow semantic versioning (semver) conventions.
package version

// LedgerdVersion holds the current ledgerd daemon version.
// Format: major.minor.patch[-prerelease][+build]
const LedgerdVersion = "0.1.0-dev"

// LedgerctlVersion holds the current ledgerctl CLI version.
// Format: major.minor.patch[-prerelease][+build]
const LedgerctlVersion = "0.1.0-dev"
