// Package setupcmd implements the default procedure: make sure the VCF data
// file is present, start the compose stack detached, then print a completion
// notice.
//
// Only a missing download tool stops the run. A failed download or a failed
// compose invocation is logged and the run carries on, unless --strict is set.
package setupcmd
