package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the ffmpeg binary yt-dlp will use for audio extraction.
//
// yt-dlp's --ffmpeg-location accepts either the binary itself or the directory
// holding it; without it, ffmpeg is resolved from PATH. This helper follows the
// same order so status output matches what a run will execute.
func CheckFFmpeg(location string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp to extract audio",
	}

	location = strings.TrimSpace(location)
	if location != "" {
		candidate := location
		if info, err := os.Stat(location); err == nil && info.IsDir() {
			candidate = filepath.Join(location, executableName("ffmpeg"))
		}
		result.Command = candidate
		info, err := os.Stat(candidate)
		if err != nil {
			result.Detail = fmt.Sprintf("ffmpeg_location %q: %v", location, err)
			return result
		}
		if !isExecutable(info) {
			result.Detail = fmt.Sprintf("%q is not executable", candidate)
			return result
		}
		result.Available = true
		return result
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
