package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// uploadMemory caps how much of a multipart body is held in memory before
// spooling to disk.
const uploadMemory = 4 << 20

// jsonBodyLimit caps how much of a non-multipart request body is buffered;
// rename, tag, and import payloads are tiny.
const jsonBodyLimit = 100 << 10

// requireAuth gates a handler on the shared secret. Accepted proofs: a
// bearer credential header, or a password field in the request body. No
// state is touched when the check fails.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authorized(r) {
			next(w, r)
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid password.")
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.cfg.Password == "" {
		return false
	}

	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token) == s.cfg.Password
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return false
		}
		// Hand the body back to the handler.
		r.Body = io.NopCloser(bytes.NewReader(body))

		var creds struct {
			Password string `json:"password"`
		}
		if err := json.Unmarshal(body, &creds); err != nil {
			return false
		}
		return creds.Password == s.cfg.Password
	}

	return r.FormValue("password") == s.cfg.Password
}

// withBodyLimit rejects oversized request bodies before the auth check
// buffers them. Multipart routes use withUpload instead.
func (s *Server) withBodyLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large.")
				return
			}
			writeError(w, http.StatusBadRequest, "Malformed request body.")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

// withUpload enforces the configured upload size limit and parses the
// multipart body before the handler (or the auth check) touches it.
func (s *Server) withUpload(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.UploadLimit)

		if err := r.ParseMultipartForm(uploadMemory); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "File exceeds the upload limit.")
				return
			}
			writeError(w, http.StatusBadRequest, "Malformed upload payload.")
			return
		}
		next(w, r)
	}
}

// requireFetcher returns 503 when no remote downloader is configured.
func (s *Server) requireFetcher(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.fetcher == nil {
			writeError(w, http.StatusServiceUnavailable, "Remote downloads are not configured.")
			return
		}
		next(w, r)
	}
}

// requireHistory returns 503 when the history log is disabled.
func (s *Server) requireHistory(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.history == nil {
			writeError(w, http.StatusServiceUnavailable, "History is not configured.")
			return
		}
		next(w, r)
	}
}
