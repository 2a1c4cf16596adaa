package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"ai-writing-be/pkg/article"
)

// Client wraps the backend's /api surface. Session identity travels as a
// cookie held in the client's jar, the same way a browser would carry it.
type Client struct {
	baseURL string
	http    *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client; the caller owns cookie
// handling then.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RecordSummary is one history entry as listed by /api/session/records.
type RecordSummary struct {
	Pos            int    `json:"pos"`
	HasOutline     bool   `json:"has_outline"`
	HasArticle     bool   `json:"has_article"`
	HasTopic       bool   `json:"has_topic"`
	TopicPreview   string `json:"topic_preview"`
	OutlinePreview string `json:"outline_preview"`
	ArticleCount   int    `json:"article_count"`
	Timestamp      string `json:"timestamp"`
}

// RecordDetail is the full record at one position.
type RecordDetail struct {
	Topic   string `json:"topic"`
	Outline string `json:"outline"`
	Article string `json:"article"`
}

// PrivateFile describes one uploaded library document.
type PrivateFile struct {
	Name       string `json:"name"`
	Size       int    `json:"size"`
	ChunkCount int    `json:"chunk_count"`
	UploadedAt string `json:"uploaded_at"`
}

// OutlineRequest is the body for /api/generate/outlines.
type OutlineRequest struct {
	Type               string `json:"type"`
	Prompt             string `json:"prompt"`
	PromptType         string `json:"prompt_type"`
	PolishRequirements string `json:"polish_requirements,omitempty"`
	Reference          string `json:"reference,omitempty"`
}

// ArticleRequest is the body for /api/generate/articles.
type ArticleRequest struct {
	Type              string `json:"type"`
	Outline           string `json:"outline"`
	Topic             string `json:"topic"`
	Pos               *int   `json:"pos,omitempty"`
	StartChapterIndex *int   `json:"start_chapter_index,omitempty"`
	ChapterIndex      *int   `json:"chapter_index,omitempty"`
	ChapterTitle      string `json:"chapter_title,omitempty"`
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e statusEnvelope) ok() bool { return e.Status == "success" }

// CurrentPos asks the server for the session's position.
func (c *Client) CurrentPos(ctx context.Context) (int, string, error) {
	var out struct {
		statusEnvelope
		CurrentPos  int    `json:"current_pos"`
		SessionUuid string `json:"session_uuid"`
	}
	if err := c.getJSON(ctx, "/api/session/current_pos", &out); err != nil {
		return 0, "", err
	}
	if !out.ok() {
		return 0, "", fmt.Errorf("assistant: server status %q", out.Status)
	}
	return out.CurrentPos, out.SessionUuid, nil
}

// SetCurrentPos moves the server-side position. A non-success status is an
// error; callers only commit their in-memory value after a nil return.
func (c *Client) SetCurrentPos(ctx context.Context, pos int) error {
	var out statusEnvelope
	if err := c.postJSON(ctx, "/api/session/current_pos", map[string]int{"pos": pos}, &out); err != nil {
		return err
	}
	if !out.ok() {
		return fmt.Errorf("assistant: set position rejected: %s", out.Message)
	}
	return nil
}

// Records lists the session history.
func (c *Client) Records(ctx context.Context) ([]RecordSummary, int, error) {
	var out struct {
		statusEnvelope
		Records    []RecordSummary `json:"records"`
		Total      int             `json:"total"`
		CurrentPos int             `json:"current_pos"`
	}
	if err := c.getJSON(ctx, "/api/session/records", &out); err != nil {
		return nil, 0, err
	}
	if !out.ok() {
		return nil, 0, fmt.Errorf("assistant: server status %q", out.Status)
	}
	return out.Records, out.CurrentPos, nil
}

// Record fetches the full record at pos.
func (c *Client) Record(ctx context.Context, pos int) (*RecordDetail, error) {
	var out struct {
		statusEnvelope
		Record RecordDetail `json:"record"`
	}
	if err := c.getJSON(ctx, "/api/session/records/"+strconv.Itoa(pos), &out); err != nil {
		return nil, err
	}
	if !out.ok() {
		return nil, fmt.Errorf("assistant: server status %q", out.Status)
	}
	return &out.Record, nil
}

// SaveOutline upserts the outline at pos; pos == total appends a new record.
func (c *Client) SaveOutline(ctx context.Context, pos int, outlineText string) error {
	body := map[string]interface{}{
		"outline_content": outlineText,
		"pos":             pos,
	}
	var out statusEnvelope
	if err := c.postJSON(ctx, "/api/session/outline", body, &out); err != nil {
		return err
	}
	if !out.ok() {
		return fmt.Errorf("assistant: outline save rejected: %s", out.Message)
	}
	return nil
}

// SaveArticle writes the article and its references to pos. The SDK only
// uses mode "replace".
func (c *Client) SaveArticle(ctx context.Context, pos int, articleText string, refs map[string]map[string]article.Reference, mode string) error {
	if mode == "" {
		mode = "replace"
	}
	body := map[string]interface{}{
		"article_content": articleText,
		"references":      refs,
		"pos":             pos,
		"mode":            mode,
	}
	var out statusEnvelope
	if err := c.postJSON(ctx, "/api/session/article", body, &out); err != nil {
		return err
	}
	if !out.ok() {
		return fmt.Errorf("assistant: article save rejected: %s", out.Message)
	}
	return nil
}

// ChapterReferences fetches one chapter's citation map for tooltip lookups.
func (c *Client) ChapterReferences(ctx context.Context, pos, chapterIndex int) (map[string]article.Reference, error) {
	var out struct {
		statusEnvelope
		References map[string]article.Reference `json:"references"`
	}
	path := fmt.Sprintf("/api/session/chapter_references?pos=%d&chapter_index=%d", pos, chapterIndex)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	if !out.ok() {
		return nil, fmt.Errorf("assistant: server status %q", out.Status)
	}
	return out.References, nil
}

// GenerateOutline posts an outline operation and returns the raw outline
// text the server answers with.
func (c *Client) GenerateOutline(ctx context.Context, req OutlineRequest) (string, error) {
	resp, err := c.post(ctx, "/api/generate/outlines", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp)
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// DemoOutline fetches the sanitized preset outline for a topic.
func (c *Client) DemoOutline(ctx context.Context, topic, outlineText string) (string, error) {
	resp, err := c.post(ctx, "/api/generate/demooutline", map[string]string{
		"topic":   topic,
		"outline": outlineText,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", httpError(resp)
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

// OpenArticleStream starts a streaming generation run and hands back the
// response body carrying the tagged line protocol. The caller owns closing
// it.
func (c *Client) OpenArticleStream(ctx context.Context, req ArticleRequest) (io.ReadCloser, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate/articles", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// The overall client timeout would cut long-running streams short, so
	// streaming goes through an untimed client sharing the same cookie jar.
	streamClient := &http.Client{Jar: c.http.Jar}
	resp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, httpError(resp)
	}
	return resp.Body, nil
}

// GenerateSingleChapter regenerates one chapter and returns it.
func (c *Client) GenerateSingleChapter(ctx context.Context, req ArticleRequest) (*article.Chapter, error) {
	var out struct {
		statusEnvelope
		Chapter article.Chapter `json:"chapter"`
	}
	if err := c.postJSON(ctx, "/api/generate/articles", req, &out); err != nil {
		return nil, err
	}
	if !out.ok() {
		return nil, fmt.Errorf("assistant: chapter generation rejected: %s", out.Message)
	}
	return &out.Chapter, nil
}

// UploadPrivateFiles pushes documents into the session's private library.
func (c *Client) UploadPrivateFiles(ctx context.Context, files map[string]string) ([]string, []string, error) {
	type fileInput struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	inputs := make([]fileInput, 0, len(files))
	for name, content := range files {
		inputs = append(inputs, fileInput{Name: name, Content: content})
	}

	var out struct {
		statusEnvelope
		Uploaded []string `json:"uploaded"`
		Skipped  []string `json:"skipped"`
	}
	if err := c.postJSON(ctx, "/api/upload_private_files", map[string]interface{}{"files": inputs}, &out); err != nil {
		return nil, nil, err
	}
	if !out.ok() {
		return nil, nil, fmt.Errorf("assistant: upload rejected: %s", out.Message)
	}
	return out.Uploaded, out.Skipped, nil
}

// PrivateFiles lists the session's library documents.
func (c *Client) PrivateFiles(ctx context.Context) ([]PrivateFile, error) {
	var out struct {
		statusEnvelope
		Files []PrivateFile `json:"files"`
	}
	if err := c.getJSON(ctx, "/api/get_private_files", &out); err != nil {
		return nil, err
	}
	if !out.ok() {
		return nil, fmt.Errorf("assistant: server status %q", out.Status)
	}
	return out.Files, nil
}

// DeletePrivateFile removes one library document by name.
func (c *Client) DeletePrivateFile(ctx context.Context, name string) error {
	var out statusEnvelope
	if err := c.postJSON(ctx, "/api/delete_private_file", map[string]string{"name": name}, &out); err != nil {
		return err
	}
	if !out.ok() {
		return fmt.Errorf("assistant: delete rejected: %s", out.Message)
	}
	return nil
}

// ----- transport helpers -----

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return httpError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return httpError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func httpError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("assistant: HTTP %d: %s", resp.StatusCode, msg)
}
