// Package decision mines structured decisions out of free-text meeting turns
// and keeps them in a searchable in-memory log.
//
// A decision is a line of the form
//
//	DECISION: <title>
//
// optionally followed, within a bounded window, by lines such as
// "Rationale: ..." and "Alternatives: a, b". Text that does not follow this
// grammar yields no decision.
package decision
