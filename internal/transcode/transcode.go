package transcode

// Package transcode locates the external ffmpeg binary that yt-dlp uses for
// merging and audio extraction. The binary path is configuration, never a
// hard-coded absolute path; an empty configured path means "find ffmpeg on
// PATH".

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Executable names and probe arguments.
const (
	FFmpegCommand = "ffmpeg"
	VersionFlag   = "-version"
)

// Locator resolves the ffmpeg binary used by download post-processing.
type Locator struct {
	configured string
}

// NewLocator returns a locator for the configured path. An empty path defers
// to PATH lookup.
func NewLocator(configured string) *Locator {
	return &Locator{configured: configured}
}

// Resolve returns the ffmpeg path to hand to the download library. A
// configured path must exist and be a regular file; otherwise the binary is
// looked up on PATH.
func (l *Locator) Resolve() (string, error) {
	if l.configured != "" {
		info, err := os.Stat(l.configured)
		if err != nil {
			return "", fmt.Errorf("configured ffmpeg path: %w", err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("configured ffmpeg path is a directory: %s", l.configured)
		}
		return l.configured, nil
	}

	path, err := exec.LookPath(FFmpegCommand)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}
	return path, nil
}

// Version runs ffmpeg -version and returns the first output line. Used for a
// startup log line only.
func (l *Locator) Version(ctx context.Context) (string, error) {
	path, err := l.Resolve()
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, path, VersionFlag)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg version probe failed: %v\nOutput: %s", err, out.String())
	}

	line := out.String()
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line), nil
}
