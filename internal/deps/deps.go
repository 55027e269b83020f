// Package deps reports availability of the external binaries the kiosk
// shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"memekiosk/internal/config"
)

// Requirement defines an external dependency memekiosk relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries for the given configuration.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{
		{
			Name:        "viewer",
			Command:     cfg.Playback.Viewer,
			Description: "image viewer used to render memes",
		},
		{
			Name:        "player",
			Command:     cfg.Playback.Player,
			Description: "media player used for commercials and alerts",
			Optional:    !cfg.CommercialsEnabled() && cfg.Playback.AlertSound == "",
		},
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
