// Package scheduler owns the kiosk display loop.
//
// A Watcher rescans the media directories on every tick, decides between a
// meme and a commercial, and hands the pick to the display adapter. Remote
// control surfaces reach the loop through RequestCommercial and
// KillCommercial.
package scheduler
