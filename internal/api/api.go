// Package api implements the library REST surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zonelib/zonelib/internal/history"
	"github.com/zonelib/zonelib/internal/ingest"
	"github.com/zonelib/zonelib/internal/library"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/zonelib/zonelib/internal/api Fetcher

// Fetcher downloads remote media and returns the local path of the result.
type Fetcher interface {
	FetchYouTube(ctx context.Context, youtubeID string) (string, error)
	FetchURL(ctx context.Context, rawURL string) (string, error)
}

// Config holds API server configuration.
type Config struct {
	Password     string
	PublicPrefix string
	UploadLimit  int64 // bytes
}

// Server is the library API server.
type Server struct {
	store    *library.Store
	ingestor *ingest.Ingestor
	fetcher  Fetcher      // nil if not configured
	history  *history.Log // nil if disabled
	cfg      Config
	log      *slog.Logger
}

// New creates the API server over its required dependencies.
func New(store *library.Store, ingestor *ingest.Ingestor, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		store:    store,
		ingestor: ingestor,
		cfg:      cfg,
		log:      log.With("component", "api"),
	}
}

// SetFetcher configures the remote downloader (requires an external yt-dlp).
func (s *Server) SetFetcher(f Fetcher) {
	s.fetcher = f
}

// SetHistory configures the mutation history log.
func (s *Server) SetHistory(h *history.Log) {
	s.history = h
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Read surface, always open
	mux.HandleFunc("GET /library", s.listEntries)
	mux.HandleFunc("GET /library/{id}", s.getEntry)
	mux.HandleFunc("GET /library-limit", s.getLimit)
	mux.HandleFunc("GET /library-history", s.requireHistory(s.listHistory))
	mux.HandleFunc("GET /library-update-local", s.updateLocal)

	// Zone client polling surface
	mux.HandleFunc("GET /library/{id}/status", s.getStatus)
	mux.HandleFunc("GET /library/{id}/progress", s.getProgress)
	mux.HandleFunc("POST /library/{id}/request", s.requestEntry)

	// Mutating surface, gated on the shared secret
	mux.HandleFunc("POST /library/auth", s.withBodyLimit(s.requireAuth(s.checkAuth)))
	mux.HandleFunc("POST /library", s.withUpload(s.requireAuth(s.createEntry)))
	mux.HandleFunc("PATCH /library/{id}", s.withBodyLimit(s.requireAuth(s.patchEntry)))
	mux.HandleFunc("PUT /library/{id}/subtitles", s.withUpload(s.requireAuth(s.putSubtitles)))
	mux.HandleFunc("DELETE /library/{id}", s.withBodyLimit(s.requireAuth(s.deleteEntry)))
	mux.HandleFunc("POST /library-get-youtube", s.requireFetcher(s.withBodyLimit(s.requireAuth(s.getYouTube))))
	mux.HandleFunc("POST /library-get-tweet", s.requireFetcher(s.withBodyLimit(s.requireAuth(s.getTweet))))
}

// errorResponse carries a human-readable summary the browser shows directly.
type errorResponse struct {
	Title string `json:"title"`
}

func writeError(w http.ResponseWriter, code int, title string) {
	writeJSON(w, code, errorResponse{Title: title})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// resolveEntry looks up the entry addressed by the {id} path parameter,
// writing a 404 when it doesn't exist.
func (s *Server) resolveEntry(w http.ResponseWriter, r *http.Request) (*library.Entry, bool) {
	e, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry does not exist.")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "Library lookup failed.")
		return nil, false
	}
	return e, true
}

// flush persists the store; failures are logged, never surfaced, since the
// in-memory state remains authoritative.
func (s *Server) flush() {
	if err := s.store.Flush(); err != nil {
		s.log.Error("library flush failed", "error", err)
	}
}

// record appends to the history log when one is configured.
func (s *Server) record(event, mediaID string, data any) {
	if s.history != nil {
		s.history.Record(event, mediaID, data)
	}
}
