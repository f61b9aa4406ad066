package api

import "github.com/zonelib/zonelib/internal/library"

// entryResponse is the outward representation of an entry: stored fields
// plus resolved public URLs, never raw filesystem paths.
type entryResponse struct {
	MediaID  string   `json:"mediaId"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Duration int64    `json:"duration"`
	Tags     []string `json:"tags"`
	Src      string   `json:"src"`
	Subtitle string   `json:"subtitle,omitempty"`
}

func (s *Server) toResponse(e *library.Entry) entryResponse {
	resp := entryResponse{
		MediaID:  e.MediaID,
		Title:    e.Title,
		Filename: e.Filename,
		Duration: e.Duration,
		Tags:     e.Tags,
		Src:      s.cfg.PublicPrefix + "/" + e.Filename,
	}
	if e.Subtitle != "" {
		resp.Subtitle = s.cfg.PublicPrefix + "/" + e.Subtitle
	}
	return resp
}

func (s *Server) toResponses(entries []*library.Entry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = s.toResponse(e)
	}
	return out
}

// patchRequest is the rename/tag/untag payload. The password field doubles
// as the body credential.
type patchRequest struct {
	SetTitle *string  `json:"setTitle"`
	AddTags  []string `json:"addTags"`
	DelTags  []string `json:"delTags"`
	Password string   `json:"password,omitempty"`
}

type authResponse struct {
	Authorized bool `json:"authorized"`
}

type limitResponse struct {
	Limit int64 `json:"limit"`
}
