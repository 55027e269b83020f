package ipc

import "memekiosk/internal/api"

// MemeView mirrors the HTTP API item DTO for internal IPC callers.
type MemeView = api.MemeView

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse = api.DaemonStatus

// StopRequest stops the daemon display loop.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// RecentRequest fetches the display history tail.
type RecentRequest struct {
	Count int `json:"count"`
}

// RecentResponse lists recently displayed memes, most recent last.
type RecentResponse struct {
	Memes []MemeView `json:"memes"`
}

// LastMemeRequest fetches the most recently displayed meme.
type LastMemeRequest struct{}

// LastMemeResponse carries the last displayed meme, when any.
type LastMemeResponse struct {
	Found bool     `json:"found"`
	Meme  MemeView `json:"meme"`
}

// BlockRequest blocks a meme by file name.
type BlockRequest struct {
	Name string `json:"name"`
}

// BlockResponse indicates block result.
type BlockResponse struct {
	Blocked bool   `json:"blocked"`
	Message string `json:"message"`
}

// AskCommercialRequest schedules a commercial for the next tick.
type AskCommercialRequest struct{}

// AskCommercialResponse acknowledges a commercial request.
type AskCommercialResponse struct {
	Requested bool `json:"requested"`
}

// KillCommercialRequest stops an in-flight commercial.
type KillCommercialRequest struct{}

// KillCommercialResponse acknowledges a kill request.
type KillCommercialResponse struct {
	Killed bool `json:"killed"`
}

// RegistryRequest lists every tracked item.
type RegistryRequest struct{}

// RegistryResponse contains the per-queue registries.
type RegistryResponse = api.RegistryResponse
