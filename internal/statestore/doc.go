// Package statestore persists item display statuses between daemon runs.
//
// Each rotation queue owns one SQLite database holding a path-to-status
// table. The table is loaded once at startup to seed the queue and rewritten
// wholesale at shutdown, so the database always reflects the last clean exit.
package statestore
