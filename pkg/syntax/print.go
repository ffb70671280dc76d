package syntax

import "github.com/phi-calculus/phinorm/pkg/phi"

// Print renders t using pkg/phi's canonical printer; kept here so
// callers that only import pkg/syntax (the parse/print boundary) don't
// need a second import for the common "parse then print" round trip.
func Print(t phi.Term) string { return phi.Print(t) }
