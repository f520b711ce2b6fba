package pipeline

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/forPelevin/reelcut/internal/ports"
)

// Requirement names an external binary a command needs.
type Requirement struct {
	Name    string
	Command string
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// CheckBinaries resolves every requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// Preflight fails before any work starts when a required binary is missing.
// The error wraps ports.ErrEncoderNotFound.
func Preflight(requirements []Requirement) error {
	var missing []string
	for _, s := range CheckBinaries(requirements) {
		if !s.Available {
			missing = append(missing, fmt.Sprintf("%s (%s)", s.Name, s.Detail))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ports.ErrEncoderNotFound, strings.Join(missing, ", "))
}
