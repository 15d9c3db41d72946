// Package progress keeps aggregated counters (documents total, converted,
// failed, nodes converted) for a batch conversion. The tracker travels in a
// context so that every component receiving the context can update the
// counters with a Delta.
package progress
