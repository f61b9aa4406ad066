package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Client wraps HTTP calls to the zonelib server.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
}

// NewClient creates a new zonelib API client.
func NewClient(serverURL, password string) *Client {
	return &Client{
		baseURL:  serverURL,
		password: password,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // uploads and remote imports can be slow
		},
	}
}

func (c *Client) do(req *http.Request, result any) error {
	if c.password != "" {
		req.Header.Set("Authorization", "Bearer "+c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var serverErr struct {
			Title string `json:"title"`
		}
		if json.Unmarshal(body, &serverErr) == nil && serverErr.Title != "" {
			return fmt.Errorf("server error %d: %s", resp.StatusCode, serverErr.Title)
		}
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, result)
}

func (c *Client) sendJSON(method, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) postForm(path string, values url.Values, result any) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path,
		bytes.NewBufferString(values.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, result)
}

// sendFile uploads a local file as a multipart form field, with optional
// extra form fields.
func (c *Client) sendFile(method, path, field, filePath string, fields map[string]string, result any) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("write field: %w", err)
		}
	}
	fw, err := mw.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, result)
}

func (c *Client) delete(path string, result any) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, result)
}

// API response types (mirror server types)

type EntryResponse struct {
	MediaID  string   `json:"mediaId"`
	Title    string   `json:"title"`
	Filename string   `json:"filename"`
	Duration int64    `json:"duration"`
	Tags     []string `json:"tags"`
	Src      string   `json:"src"`
	Subtitle string   `json:"subtitle,omitempty"`
}

type AuthResponse struct {
	Authorized bool `json:"authorized"`
}

type LimitResponse struct {
	Limit int64 `json:"limit"`
}

type HistoryEntry struct {
	ID        int64     `json:"id"`
	Event     string    `json:"event"`
	MediaID   string    `json:"mediaId"`
	Data      string    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// API methods

func (c *Client) List(q, tag string) ([]EntryResponse, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	if tag != "" {
		params.Set("tag", tag)
	}
	path := "/library"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var entries []EntryResponse
	if err := c.get(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) Get(id string) (*EntryResponse, error) {
	var e EntryResponse
	if err := c.get("/library/"+url.PathEscape(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Auth() (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.postForm("/library/auth", url.Values{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Limit() (*LimitResponse, error) {
	var resp LimitResponse
	if err := c.get("/library-limit", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Upload(filePath, title string) (*EntryResponse, error) {
	fields := map[string]string{}
	if title != "" {
		fields["title"] = title
	}
	var e EntryResponse
	if err := c.sendFile(http.MethodPost, "/library", "media", filePath, fields, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Patch(id string, setTitle *string, addTags, delTags []string) (*EntryResponse, error) {
	body := map[string]any{}
	if setTitle != nil {
		body["setTitle"] = *setTitle
	}
	if len(addTags) > 0 {
		body["addTags"] = addTags
	}
	if len(delTags) > 0 {
		body["delTags"] = delTags
	}

	var e EntryResponse
	if err := c.sendJSON(http.MethodPatch, "/library/"+url.PathEscape(id), body, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) Delete(id string) (*EntryResponse, error) {
	var e EntryResponse
	if err := c.delete("/library/"+url.PathEscape(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) PutSubtitles(id, filePath string) (*EntryResponse, error) {
	var e EntryResponse
	path := "/library/" + url.PathEscape(id) + "/subtitles"
	if err := c.sendFile(http.MethodPut, path, "subtitles", filePath, nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) GetYouTube(youtubeID string) (*EntryResponse, error) {
	var e EntryResponse
	values := url.Values{"youtubeId": {youtubeID}}
	if err := c.postForm("/library-get-youtube", values, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) GetTweet(tweetURL string) (*EntryResponse, error) {
	var e EntryResponse
	values := url.Values{"url": {tweetURL}}
	if err := c.postForm("/library-get-tweet", values, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) UpdateLocal() ([]EntryResponse, error) {
	var entries []EntryResponse
	if err := c.get("/library-update-local", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) History(limit int) ([]HistoryEntry, error) {
	path := fmt.Sprintf("/library-history?limit=%d", limit)
	var entries []HistoryEntry
	if err := c.get(path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
