// Package orchestrator wires the load → transform → lint → render pipeline for
// survey definitions behind a single entry point.
package orchestrator
