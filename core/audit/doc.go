// Package audit records operator activity (uploads, manual matches, emissions).
//
// Writes are fire-and-forget: a Sink logs its own failures and never returns
// them, so an unavailable broker cannot abort an import.
package audit
