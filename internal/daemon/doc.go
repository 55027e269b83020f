// Package daemon runs the long-lived kiosk process.
//
// The Daemon owns both rotation queues and the display loop, enforces
// single-instance execution through a lock file, serves the HTTP control
// surface, and dumps queue statuses to the state databases on shutdown.
package daemon
