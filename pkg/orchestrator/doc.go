// Package orchestrator wires the loader → parser → generator → file writer
// pipeline behind a single entry point, with dependency injection friendly
// options for each stage.
package orchestrator
