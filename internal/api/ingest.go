package api

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/zonelib/zonelib/internal/fetch"
	"github.com/zonelib/zonelib/internal/history"
	"github.com/zonelib/zonelib/internal/ingest"
	"github.com/zonelib/zonelib/internal/library"
	"github.com/zonelib/zonelib/internal/subtitle"
)

// createEntry handles a direct multipart upload.
func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("media")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing media file.")
		return
	}
	defer func() { _ = file.Close() }()

	title := r.FormValue("title")
	if title == "" {
		title = ingest.TitleFromFilename(header.Filename)
	}

	src, err := s.spoolUpload(file, filepath.Ext(header.Filename))
	if err != nil {
		s.log.Error("upload spool failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not store upload.")
		return
	}

	e, err := s.ingestor.Commit(r.Context(), src, title)
	if err != nil {
		_ = os.Remove(src)
		s.log.Error("upload commit failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not store upload.")
		return
	}
	s.record(history.EventCreated, e.MediaID, map[string]string{"title": e.Title, "source": "upload"})

	writeJSON(w, http.StatusOK, s.toResponse(e))
}

// spoolUpload writes the multipart payload to a temp file next to the media
// directory so the commit move stays on one filesystem.
func (s *Server) spoolUpload(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp(s.ingestor.MediaPath(""), "upload-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// putSubtitles attaches a subtitle track, converting SRT to VTT on the fly.
func (s *Server) putSubtitles(w http.ResponseWriter, r *http.Request) {
	e, ok := s.resolveEntry(w, r)
	if !ok {
		return
	}

	file, header, err := r.FormFile("subtitles")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing subtitles file.")
		return
	}
	defer func() { _ = file.Close() }()

	filename := e.MediaID + ".vtt"
	dest, err := os.Create(s.ingestor.MediaPath(filename))
	if err != nil {
		s.log.Error("subtitle write failed", "mediaId", e.MediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not store subtitles.")
		return
	}
	defer func() { _ = dest.Close() }()

	if strings.HasSuffix(strings.ToLower(header.Filename), ".vtt") {
		_, err = io.Copy(dest, file)
	} else {
		err = subtitle.ConvertSRT(file, dest)
	}
	if err != nil {
		_ = os.Remove(dest.Name())
		s.log.Error("subtitle conversion failed", "mediaId", e.MediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "Could not store subtitles.")
		return
	}

	updated, err := s.store.Update(e.MediaID, func(e *library.Entry) {
		e.Subtitle = filename
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry does not exist.")
		return
	}
	s.flush()
	s.record(history.EventSubtitle, e.MediaID, map[string]string{"subtitle": filename})

	writeJSON(w, http.StatusOK, s.toResponse(updated))
}

// getYouTube imports a video by YouTube id.
func (s *Server) getYouTube(w http.ResponseWriter, r *http.Request) {
	youtubeID := r.FormValue("youtubeId")
	if youtubeID == "" {
		writeError(w, http.StatusBadRequest, "Missing youtubeId.")
		return
	}

	path, err := s.fetcher.FetchYouTube(r.Context(), youtubeID)
	if err != nil {
		s.downloadFailed(w, err)
		return
	}
	s.commitDownload(w, r, path, youtubeID, "youtube")
}

// getTweet imports media from an arbitrary URL.
func (s *Server) getTweet(w http.ResponseWriter, r *http.Request) {
	rawURL := r.FormValue("url")
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "Missing url.")
		return
	}

	path, err := s.fetcher.FetchURL(r.Context(), rawURL)
	if err != nil {
		s.downloadFailed(w, err)
		return
	}
	s.commitDownload(w, r, path, rawURL, "tweet")
}

func (s *Server) downloadFailed(w http.ResponseWriter, err error) {
	s.log.Error("remote download failed", "error", err)
	if errors.Is(err, fetch.ErrDownloadFailed) {
		writeError(w, http.StatusServiceUnavailable, "Download failed.")
		return
	}
	writeError(w, http.StatusServiceUnavailable, "Downloader unavailable.")
}

func (s *Server) commitDownload(w http.ResponseWriter, r *http.Request, path, title, source string) {
	e, err := s.ingestor.Commit(r.Context(), path, title)
	if err != nil {
		_ = os.Remove(path)
		s.log.Error("download commit failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Download failed.")
		return
	}
	s.record(history.EventImported, e.MediaID, map[string]string{"title": e.Title, "source": source})

	writeJSON(w, http.StatusOK, s.toResponse(e))
}

// updateLocal commits everything under the dump directory.
func (s *Server) updateLocal(w http.ResponseWriter, r *http.Request) {
	added, err := s.ingestor.ScanDump(r.Context())
	if err != nil {
		s.log.Error("dump scan failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Local import failed.")
		return
	}
	for _, e := range added {
		s.record(history.EventImported, e.MediaID, map[string]string{"title": e.Title, "source": "dump"})
	}
	writeJSON(w, http.StatusCreated, s.toResponses(added))
}
