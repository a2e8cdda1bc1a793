package preflight

import (
	"strings"

	"ytharvest/internal/config"
)

// MinFreeBytes is the free space required in the output directory before a
// run starts.
const MinFreeBytes uint64 = 512 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Output directory (always checked)
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir, MinFreeBytes))

	if cfg.Paths.InputCSV != "" {
		results = append(results, CheckReadableFile("Input sheet", cfg.Paths.InputCSV))
	}
	if cfg.Paths.CookieFile != "" {
		results = append(results, CheckReadableFile("Cookie file", cfg.Paths.CookieFile))
	}

	return results
}

// Failures returns the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}

// Summary joins failed checks into a single line for error messages.
func Summary(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, result := range failed {
		parts = append(parts, result.Name+": "+result.Detail)
	}
	return strings.Join(parts, "; ")
}
