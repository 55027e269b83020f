// Package display launches the external viewer and player processes that put
// media on screen.
//
// Prefer this package over ad-hoc exec.Command usage when showing memes or
// commercials; it centralizes binary selection, alert playback, and the
// kill handling for in-flight commercials.
package display
