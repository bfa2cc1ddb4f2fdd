// Package names generates human-readable "adjective-noun" instance names
// for ledger daemons, e.g. "steady-ledger" or "prudent-abacus". The name
// appears in startup logs and the health response so operators can tell
// several daemons apart without comparing addresses.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	// General
	"amber", "bold", "brisk", "calm", "candid", "careful", "clever",
	"crisp", "eager", "exact", "fair", "frank", "gentle", "honest",
	"keen", "lucid", "modest", "nimble", "patient", "plain", "quiet",
	"rapid", "sharp", "silent", "solid", "steady", "stoic", "swift",
	"tidy", "vivid", "wise",

	// Accounting
	"accrued", "audited", "balanced", "booked", "cleared", "deferred",
	"fiscal", "funded", "hedged", "liquid", "netted", "posted",
	"prudent", "reconciled", "settled", "solvent", "sound", "vested",
}

var nouns = []string{
	// Instruments and records
	"abacus", "account", "almanac", "archive", "journal", "ledger",
	"logbook", "receipt", "register", "tally", "voucher",

	// Money
	"bond", "bullion", "coin", "crown", "dime", "ducat", "florin",
	"guinea", "mint", "penny", "shilling", "sovereign", "sterling",
	"treasury", "vault",

	// People
	"auditor", "banker", "bursar", "cashier", "clerk", "comptroller",
	"custodian", "examiner", "purser", "reckoner", "steward", "teller",
	"trustee",
}

// Generate returns a random name in "adjective-noun" format
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex returns a uniform index in [0, max) using crypto/rand, or 0
// if the random source fails.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}

	return int(n.Int64())
}
