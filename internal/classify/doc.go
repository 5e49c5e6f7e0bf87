// Package classify labels extracted script records as spoken dialogue or
// production instructions (filming, audio, editing cues). The heuristics run
// as an ordered rule chain so new rules slot in without re-deriving
// precedence by hand.
package classify
