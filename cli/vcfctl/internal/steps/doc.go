// Package steps defines the ordered step registry behind the setup procedure.
// Each step is a named handler over a shared Context; the registry runs them
// in registration order so the procedure stays a flat, readable list.
package steps
