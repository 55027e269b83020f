package api

import (
	"time"

	"memekiosk/internal/rotation"
)

// MemeView is the wire representation of a tracked media item.
type MemeView struct {
	Name    string    `json:"name"`
	Title   string    `json:"title"`
	Status  string    `json:"status"`
	ShownAt time.Time `json:"shown_at,omitempty"`
}

// FromItem converts a rotation item into its wire representation.
func FromItem(item rotation.Item) MemeView {
	return MemeView{
		Name:    item.Name(),
		Title:   item.Title,
		Status:  string(item.Status),
		ShownAt: item.ShownAt,
	}
}

// FromItems converts a slice of rotation items.
func FromItems(items []rotation.Item) []MemeView {
	views := make([]MemeView, 0, len(items))
	for _, item := range items {
		views = append(views, FromItem(item))
	}
	return views
}

// DaemonStatus summarizes daemon runtime state.
type DaemonStatus struct {
	Running            bool      `json:"running"`
	PID                int       `json:"pid"`
	LockFilePath       string    `json:"lock_path"`
	MemeCount          int       `json:"meme_count"`
	BlockedMemes       int       `json:"blocked_memes"`
	DisplayedMemes     int       `json:"displayed_memes"`
	CommercialsEnabled bool      `json:"commercials_enabled"`
	CommercialCount    int       `json:"commercial_count"`
	LastMeme           *MemeView `json:"last_meme,omitempty"`
}

// RecentResponse lists recently displayed memes, most recent last.
type RecentResponse struct {
	Memes []MemeView `json:"memes"`
}

// RegistryResponse lists every tracked item per queue.
type RegistryResponse struct {
	Memes       []MemeView `json:"memes"`
	Commercials []MemeView `json:"commercials"`
}
