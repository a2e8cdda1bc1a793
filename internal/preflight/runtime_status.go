package preflight

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// ToolVersion reports the version string printed by an external tool.
type ToolVersion struct {
	Command string
	Version string
	Err     error
}

// ProbeVersion runs "<binary> --version" with a short timeout and returns the
// first line of output. yt-dlp prints its release date here, which is the
// first thing to check when extraction starts failing.
func ProbeVersion(ctx context.Context, binary string) ToolVersion {
	binary = strings.TrimSpace(binary)
	result := ToolVersion{Command: binary}
	if binary == "" {
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		result.Err = err
		return result
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(output)), "\n")
	result.Version = strings.TrimSpace(line)
	return result
}

// Detail renders a display-friendly summary for status output.
func (v ToolVersion) Detail() string {
	switch {
	case v.Err != nil:
		return "version unknown (" + v.Err.Error() + ")"
	case v.Version == "":
		return "version unknown"
	default:
		return v.Version
	}
}
