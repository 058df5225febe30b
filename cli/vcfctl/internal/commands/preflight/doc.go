// Package preflight implements the "preflight" host diagnostics command.
// It checks docker and compose availability, the configured download tools,
// the compose file, and the state of the data file.
package preflight
