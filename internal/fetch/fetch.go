// Package fetch downloads remote media into the managed tree via yt-dlp.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrDownloadFailed is returned when the external downloader exits with an
// error or produces no output file.
var ErrDownloadFailed = errors.New("download failed")

// YTDLP runs the yt-dlp binary to fetch remote media. Each provider gets its
// own subdirectory under the managed media root.
type YTDLP struct {
	binary   string
	mediaDir string
	log      *slog.Logger
}

// NewYTDLP creates a downloader writing under mediaDir. An empty binary
// falls back to "yt-dlp" from PATH.
func NewYTDLP(binary, mediaDir string, log *slog.Logger) *YTDLP {
	if strings.TrimSpace(binary) == "" {
		binary = "yt-dlp"
	}
	if log == nil {
		log = slog.Default()
	}
	return &YTDLP{
		binary:   binary,
		mediaDir: mediaDir,
		log:      log.With("component", "fetch"),
	}
}

// FetchYouTube downloads the video with the given YouTube id and returns the
// local path of the downloaded file.
func (y *YTDLP) FetchYouTube(ctx context.Context, youtubeID string) (string, error) {
	return y.fetch(ctx, "youtube", "https://www.youtube.com/watch?v="+youtubeID)
}

// FetchURL downloads media from an arbitrary URL (tweets included) and
// returns the local path of the downloaded file.
func (y *YTDLP) FetchURL(ctx context.Context, rawURL string) (string, error) {
	return y.fetch(ctx, "tweet", rawURL)
}

// fetch downloads into <mediaDir>/<provider>/<token>.<ext>. On failure any
// partial output is best-effort removed and no path is returned.
func (y *YTDLP) fetch(ctx context.Context, provider, url string) (string, error) {
	dir := filepath.Join(y.mediaDir, provider)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrDownloadFailed, dir, err)
	}

	token := uuid.NewString()
	template := filepath.Join(dir, token+".%(ext)s")

	y.log.Info("downloading", "provider", provider, "url", url)

	cmd := exec.CommandContext(ctx, y.binary, "--no-playlist", "--no-progress", "-o", template, "--", url)
	output, err := cmd.CombinedOutput()
	if err != nil {
		y.removePartial(dir, token)
		y.log.Error("downloader failed", "provider", provider, "error", err)
		return "", fmt.Errorf("%w: %v: %s", ErrDownloadFailed, err, strings.TrimSpace(string(output)))
	}

	path, err := y.findOutput(dir, token)
	if err != nil {
		return "", err
	}
	y.log.Info("download complete", "provider", provider, "path", path)
	return path, nil
}

func (y *YTDLP) findOutput(dir, token string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, token+".*"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("%w: downloader produced no output file", ErrDownloadFailed)
	}
	// yt-dlp may leave a .part file next to the finished one.
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: only partial output found", ErrDownloadFailed)
}

func (y *YTDLP) removePartial(dir, token string) {
	matches, _ := filepath.Glob(filepath.Join(dir, token+".*"))
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			y.log.Warn("could not remove partial download", "path", m, "error", err)
		}
	}
}
