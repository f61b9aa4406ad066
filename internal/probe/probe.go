// Package probe extracts duration metadata from media files via ffprobe.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Prober reports the duration of a media file in milliseconds.
type Prober interface {
	DurationMillis(ctx context.Context, path string) (int64, error)
}

// FFprobe shells out to the ffprobe binary and parses its JSON output.
type FFprobe struct {
	binary string
}

// NewFFprobe creates a prober using the given binary, or "ffprobe" from PATH
// when empty.
func NewFFprobe(binary string) *FFprobe {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	return &FFprobe{binary: binary}
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// DurationMillis inspects the file and returns its container duration. The
// first stream's duration is the fallback when the container reports none.
func (p *FFprobe) DurationMillis(ctx context.Context, path string) (int64, error) {
	cmd := exec.CommandContext(ctx, p.binary,
		"-v", "error", "-hide_banner",
		"-show_format", "-show_streams",
		"-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, strings.TrimSpace(string(output)))
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}

	if ms, ok := parseSeconds(result.Format.Duration); ok {
		return ms, nil
	}
	for _, stream := range result.Streams {
		if ms, ok := parseSeconds(stream.Duration); ok {
			return ms, nil
		}
	}
	return 0, nil
}

func parseSeconds(value string) (int64, bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return int64(seconds * 1000), true
}
