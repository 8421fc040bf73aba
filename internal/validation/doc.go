// Package validation implements the fail-fast schema check for fauxness
// datasets. Each column has one rule in a fixed dispatch table; the first
// rule that fails ends the pass and determines the outcome.
package validation
