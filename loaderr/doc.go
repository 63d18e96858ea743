// Package loaderr holds the structured errors produced by compiled load and
// dump routines.
//
// Every error carries a Trail: the external path from the crown root to the
// branch or field that failed. Errors of this package are expected outcomes
// of bad input; anything else a converter returns is wrapped in
// UnexpectedError by the compiler.
package loaderr
