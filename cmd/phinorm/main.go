// Command phinorm normalizes φ-calculus programs under a user-supplied
// ruleset, optionally dataizing the result, and property-tests a
// ruleset for confluence.
package main

import "os"

func main() {
	os.Exit(Execute())
}
