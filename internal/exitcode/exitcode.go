// Package exitcode defines the process exit codes.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates an operation that could not be carried out
	// (task not found, store unreadable, save failed).
	Failure = 1

	// Usage indicates bad arguments or rejected input.
	Usage = 2
)
