// Package subtitle converts SubRip subtitle tracks to WebVTT.
package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// srtTiming matches an SRT cue timing line, e.g.
// "00:01:02,500 --> 00:01:05,000".
var srtTiming = regexp.MustCompile(`^(\d{1,2}:\d{2}:\d{2})[,.](\d{3})\s*-->\s*(\d{1,2}:\d{2}:\d{2})[,.](\d{3})(.*)$`)

// ConvertSRT rewrites an SRT stream as WebVTT: a WEBVTT header, cue counters
// dropped, and comma millisecond separators replaced with dots.
func ConvertSRT(r io.Reader, w io.Writer) error {
	out := bufio.NewWriter(w)
	if _, err := out.WriteString("WEBVTT\n\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	atBlockStart := true
	for scanner.Scan() {
		line := strings.TrimPrefix(scanner.Text(), "\ufeff")
		trimmed := strings.TrimSpace(line)

		// A bare number opening a block is the SRT cue counter.
		if atBlockStart && isCueCounter(trimmed) {
			continue
		}

		if m := srtTiming.FindStringSubmatch(trimmed); m != nil {
			line = fmt.Sprintf("%s.%s --> %s.%s%s", m[1], m[2], m[3], m[4], m[5])
		}

		if _, err := out.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write cue: %w", err)
		}
		atBlockStart = trimmed == ""
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read srt: %w", err)
	}
	return out.Flush()
}

func isCueCounter(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
