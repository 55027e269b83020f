package rotation

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status represents the lifecycle of a media item.
type Status string

const (
	// StatusNew marks an item discovered after startup that has never been shown.
	StatusNew Status = "new"
	// StatusNormal marks an item that has been shown at least once and stays in rotation.
	StatusNormal Status = "normal"
	// StatusPending marks an item soft-blocked by a report; excluded from rotation.
	StatusPending Status = "pending"
	// StatusRetracted marks an item hard-blocked by an operator; excluded from rotation.
	StatusRetracted Status = "retracted"
)

var allStatuses = []Status{
	StatusNew,
	StatusNormal,
	StatusPending,
	StatusRetracted,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// Bad reports whether the status excludes an item from rotation.
func (s Status) Bad() bool {
	return s == StatusPending || s == StatusRetracted
}

// Item is a media file tracked by a rotation queue. Path is the identity key.
type Item struct {
	Path   string
	Title  string
	Status Status

	// WasNew is set on snapshots returned by Next when the item had never
	// been shown before this turn; the display adapter uses it to play the
	// new-item alert.
	WasNew bool

	// ShownAt is set on history entries.
	ShownAt time.Time
}

// Name returns the file name component of the item path.
func (i Item) Name() string {
	return filepath.Base(i.Path)
}

// DeriveTitle builds a human-friendly title from a media file name.
func DeriveTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return base
	}
	return cases.Title(language.Und).String(title)
}
