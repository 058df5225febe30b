// Package composecmd covers simple docker compose lifecycle commands such as
// up/down/status/logs.
//
// Unlike the setup procedure these commands surface compose failures as
// errors, so the exit status follows compose.
package composecmd
