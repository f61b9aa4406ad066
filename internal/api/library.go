package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/zonelib/zonelib/internal/history"
	"github.com/zonelib/zonelib/internal/library"
)

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	q := library.Query{
		Q:   r.URL.Query().Get("q"),
		Tag: r.URL.Query().Get("tag"),
	}
	writeJSON(w, http.StatusOK, s.toResponses(s.store.Search(q)))
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := s.resolveEntry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.toResponse(e))
}

func (s *Server) checkAuth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authResponse{Authorized: true})
}

func (s *Server) getLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, limitResponse{Limit: s.cfg.UploadLimit})
}

func (s *Server) patchEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveEntry(w, r); !ok {
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed patch payload.")
		return
	}

	// Validate everything before mutating anything: an invalid request must
	// not partially apply.
	if req.SetTitle != nil {
		if err := library.ValidateTitle(*req.SetTitle); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	addTags, err := library.ValidateTags(req.AddTags)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	delTags, err := library.ValidateTags(req.DelTags)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.store.Update(r.PathValue("id"), func(e *library.Entry) {
		if req.SetTitle != nil {
			e.Title = *req.SetTitle
		}
		e.AddTags(addTags)
		e.RemoveTags(delTags)
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "Entry does not exist.")
		return
	}
	s.flush()

	event := history.EventTagged
	if req.SetTitle != nil {
		event = history.EventRenamed
	}
	// Never let the body credential leak into the history log.
	s.record(event, updated.MediaID, map[string]any{
		"setTitle": req.SetTitle,
		"addTags":  addTags,
		"delTags":  delTags,
	})

	writeJSON(w, http.StatusOK, s.toResponse(updated))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveEntry(w, r); !ok {
		return
	}

	removed, err := s.store.Remove(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Entry does not exist.")
			return
		}
		writeError(w, http.StatusInternalServerError, "Could not remove entry.")
		return
	}
	s.flush()

	// The subtitle file is deliberately left behind; only the media file is
	// tied to the entry's lifetime.
	if err := os.Remove(s.ingestor.MediaPath(removed.Filename)); err != nil {
		s.log.Warn("media file removal failed", "mediaId", removed.MediaID, "error", err)
	}
	s.record(history.EventDeleted, removed.MediaID, map[string]string{"title": removed.Title})

	writeJSON(w, http.StatusOK, s.toResponse(removed))
}

// Zone client polling stubs: library media is always local and ready.

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveEntry(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, "available")
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveEntry(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, 1)
}

func (s *Server) requestEntry(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolveEntry(w, r); !ok {
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			limit = n
		}
	}
	entries, err := s.history.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "History lookup failed.")
		return
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func parsePositiveInt(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, errors.New("not positive")
	}
	return n, nil
}
