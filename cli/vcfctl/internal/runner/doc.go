// Package runner centralizes helpers that execute host and docker compose commands.
//
// These wrappers keep consistent timeout, dry-run echo, and exit-handling
// semantics across the CLI. A failed command is reported as *ExitError so
// callers decide whether the failure is fatal.
package runner
