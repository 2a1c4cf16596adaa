package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/stream"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestStoreChapterOrdersOutOfOrderArrivals(t *testing.T) {
	s := NewState(nil)
	for _, idx := range []int{2, 0, 1} {
		s.StoreChapter(article.Chapter{Index: idx, Title: fmt.Sprintf("ch%d", idx), Content: "body"})
	}

	chapters := s.Chapters()
	if len(chapters) != 3 {
		t.Fatalf("len(chapters) = %d, want 3", len(chapters))
	}
	for i, ch := range chapters {
		if ch.Index != i {
			t.Errorf("chapters[%d].Index = %d, want %d", i, ch.Index, i)
		}
	}
}

func TestStoreChapterReplacesSameIndex(t *testing.T) {
	s := NewState(nil)
	s.StoreChapter(article.Chapter{Index: 1, Content: "first draft"})
	s.StoreChapter(article.Chapter{Index: 1, Content: "second draft"})

	chapters := s.Chapters()
	if len(chapters) != 1 {
		t.Fatalf("len(chapters) = %d, want 1", len(chapters))
	}
	if chapters[0].Content != "second draft" {
		t.Errorf("content = %q, want replacement to win", chapters[0].Content)
	}
}

func TestSetCurrentPosKeepsOldValueOnRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "position out of range"})
	}))
	defer srv.Close()

	s := NewState(newTestClient(t, srv))
	s.pos = 3

	if err := s.SetCurrentPos(context.Background(), 99); err == nil {
		t.Fatal("SetCurrentPos: want error on rejected move")
	}
	if s.CurrentPos() != 3 {
		t.Errorf("CurrentPos = %d after failed move, want 3", s.CurrentPos())
	}
}

func TestLoadRecordReplacesStateAndClearsChaptersWhenArticleEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/session/records/2":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"record": map[string]string{
					"topic":   "old topic",
					"outline": "# First\n# Second",
					"article": "",
				},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/session/current_pos":
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewState(newTestClient(t, srv))
	s.SetTopic("current topic")
	s.StoreChapter(article.Chapter{Index: 0, Content: "# Held\nstale chapter"})

	if err := s.LoadRecord(context.Background(), 2); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	if s.CurrentPos() != 2 {
		t.Errorf("CurrentPos = %d, want 2", s.CurrentPos())
	}
	if s.Topic() != "old topic" {
		t.Errorf("Topic = %q, want loaded topic", s.Topic())
	}
	if s.Outline().Len() != 2 {
		t.Errorf("outline len = %d, want 2", s.Outline().Len())
	}
	if len(s.Chapters()) != 0 {
		t.Errorf("chapters = %d after loading record with no article, want 0", len(s.Chapters()))
	}
}

func TestLoadRecordSplitsArticleIntoChapters(t *testing.T) {
	saved := "# Intro\nopening text\n\n# Methods\nmore text"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/session/records/0":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "success",
				"record": map[string]string{"topic": "t", "outline": "# Intro\n# Methods", "article": saved},
			})
		case "/api/session/current_pos":
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
		}
	}))
	defer srv.Close()

	s := NewState(newTestClient(t, srv))
	if err := s.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	chapters := s.Chapters()
	if len(chapters) != 2 {
		t.Fatalf("len(chapters) = %d, want 2", len(chapters))
	}
	if chapters[0].Title != "Intro" || chapters[1].Title != "Methods" {
		t.Errorf("titles = %q, %q", chapters[0].Title, chapters[1].Title)
	}
	if s.ArticleText() != saved {
		t.Errorf("ArticleText does not round-trip:\n%q\nwant\n%q", s.ArticleText(), saved)
	}
}

func TestReferencesKeyedByChapterIndex(t *testing.T) {
	s := NewState(nil)
	s.StoreChapter(article.Chapter{Index: 0, Content: "a"})
	s.StoreChapter(article.Chapter{
		Index:   2,
		Content: "b",
		References: map[string]article.Reference{
			"1": {Title: "src", URL: "https://example.com"},
		},
	})

	refs := s.References()
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want only chapters with references", len(refs))
	}
	if _, ok := refs["2"]; !ok {
		t.Errorf("refs keyed %v, want key \"2\"", refs)
	}
}

// stubBackend scripts the endpoints a full generation run touches and records
// the article auto-save.
type stubBackend struct {
	t           *testing.T
	outline     string
	streamLines [][]byte

	// generate overrides the default stream handler when a test needs to
	// branch on the request type.
	generate http.HandlerFunc

	savedArticle string
	savedRefs    map[string]map[string]article.Reference
	savedMode    string
	saveCalls    int
}

func (b *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/session/current_pos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "success", "current_pos": 0, "session_uuid": "s"})
	})
	mux.HandleFunc("/api/session/records/0", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"record": map[string]string{"topic": "go concurrency", "outline": b.outline, "article": ""},
		})
	})
	mux.HandleFunc("/api/generate/articles", func(w http.ResponseWriter, r *http.Request) {
		if b.generate != nil {
			b.generate(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, line := range b.streamLines {
			w.Write(line)
		}
	})
	mux.HandleFunc("/api/session/article", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ArticleContent string                                  `json:"article_content"`
			References     map[string]map[string]article.Reference `json:"references"`
			Mode           string                                  `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			b.t.Errorf("decode save body: %v", err)
		}
		b.saveCalls++
		b.savedArticle = body.ArticleContent
		b.savedRefs = body.References
		b.savedMode = body.Mode
		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	})
	return mux
}

func encodeChapter(t *testing.T, ch article.Chapter) []byte {
	t.Helper()
	line, err := stream.EncodeChapter(ch)
	if err != nil {
		t.Fatalf("EncodeChapter: %v", err)
	}
	return line
}

func encodeChapterError(t *testing.T, index int, title, message string) []byte {
	t.Helper()
	line, err := stream.EncodeChapterError(index, title, message, stream.ErrorTypeOther)
	if err != nil {
		t.Fatalf("EncodeChapterError: %v", err)
	}
	return line
}

func TestGeneratorFullRunAutoSaves(t *testing.T) {
	backend := &stubBackend{t: t, outline: "# Intro\n# Depth"}
	backend.streamLines = [][]byte{
		// Out of order on purpose; the state reorders by index.
		encodeChapter(t, article.Chapter{Index: 1, Title: "Depth", Content: "# Depth\nlater"}),
		encodeChapter(t, article.Chapter{
			Index: 0, Title: "Intro", Content: "# Intro\nearlier",
			References: map[string]article.Reference{"1": {Title: "src", URL: "https://example.com"}},
		}),
		stream.CompleteLine(),
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client := newTestClient(t, srv)
	state := NewState(client)
	if err := state.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	var progress []int
	gen := NewGenerator(client, state, nil)
	gen.OnProgress = func(completed, total int) { progress = append(progress, completed) }

	if err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.State() != RunComplete {
		t.Errorf("run state = %v, want complete", gen.State())
	}

	if backend.saveCalls != 1 {
		t.Fatalf("auto-save calls = %d, want 1", backend.saveCalls)
	}
	if backend.savedMode != "replace" {
		t.Errorf("save mode = %q, want replace", backend.savedMode)
	}
	want := "# Intro\nearlier\n\n# Depth\nlater"
	if backend.savedArticle != want {
		t.Errorf("saved article =\n%q\nwant\n%q", backend.savedArticle, want)
	}
	if _, ok := backend.savedRefs["0"]; !ok {
		t.Errorf("saved references = %v, want chapter-0 entry", backend.savedRefs)
	}
	if len(progress) != 2 || progress[len(progress)-1] != 2 {
		t.Errorf("progress = %v, want two callbacks ending at 2", progress)
	}
}

func TestGeneratorHaltsOnChapterErrorAndSkipsSave(t *testing.T) {
	backend := &stubBackend{t: t, outline: "# Intro\n# Depth"}
	backend.streamLines = [][]byte{
		encodeChapter(t, article.Chapter{Index: 0, Title: "Intro", Content: "# Intro\nok"}),
		encodeChapterError(t, 1, "Depth", "model timeout"),
		// A chapter after the failure must never be dispatched under halt.
		encodeChapter(t, article.Chapter{Index: 1, Title: "Depth", Content: "# Depth\nlate"}),
		stream.CompleteLine(),
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client := newTestClient(t, srv)
	state := NewState(client)
	if err := state.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	var failed *stream.ChapterError
	gen := NewGenerator(client, state, nil)
	gen.OnChapterError = func(e stream.ChapterError) { failed = &e }

	err := gen.Generate(context.Background())
	if err == nil {
		t.Fatal("Generate: want error when a chapter fails under halt policy")
	}
	if gen.State() != RunErrored {
		t.Errorf("run state = %v, want errored", gen.State())
	}
	if failed == nil || failed.Index != 1 {
		t.Errorf("OnChapterError = %+v, want failure at index 1", failed)
	}
	if got := gen.LastChapterError(); got == nil || got.Index != 1 {
		t.Errorf("LastChapterError = %+v, want index 1", got)
	}
	if len(state.Chapters()) != 1 {
		t.Errorf("chapters stored = %d, want only the pre-failure chapter", len(state.Chapters()))
	}
	if backend.saveCalls != 0 {
		t.Errorf("auto-save calls = %d after failed run, want 0", backend.saveCalls)
	}
}

func TestGeneratorContinueOnErrorKeepsStreaming(t *testing.T) {
	backend := &stubBackend{t: t, outline: "# Intro\n# Depth"}
	backend.streamLines = [][]byte{
		encodeChapter(t, article.Chapter{Index: 0, Title: "Intro", Content: "# Intro\nok"}),
		encodeChapterError(t, 1, "Depth", "boom"),
		encodeChapter(t, article.Chapter{Index: 1, Title: "Depth", Content: "# Depth\nrecovered"}),
		stream.CompleteLine(),
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client := newTestClient(t, srv)
	state := NewState(client)
	if err := state.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	gen := NewGenerator(client, state, nil)
	gen.HaltOnChapterError = false

	if err := gen.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(state.Chapters()) != 2 {
		t.Errorf("chapters stored = %d, want both", len(state.Chapters()))
	}
	if backend.saveCalls != 1 {
		t.Errorf("auto-save calls = %d, want 1", backend.saveCalls)
	}
}

func TestGeneratorTruncatedStreamSkipsSave(t *testing.T) {
	backend := &stubBackend{t: t, outline: "# Intro\n# Depth"}
	backend.streamLines = [][]byte{
		// Stream cut after the first chapter: no completion marker follows.
		encodeChapter(t, article.Chapter{Index: 0, Title: "Intro", Content: "# Intro\nonly half"}),
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client := newTestClient(t, srv)
	state := NewState(client)
	if err := state.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	gen := NewGenerator(client, state, nil)
	err := gen.Generate(context.Background())
	if err == nil {
		t.Fatal("Generate: want error when the stream ends without the completion marker")
	}
	if gen.State() != RunErrored {
		t.Errorf("run state = %v, want errored", gen.State())
	}
	if backend.saveCalls != 0 {
		t.Errorf("auto-save calls = %d after truncated stream, want 0", backend.saveCalls)
	}
	// The chapter that did arrive stays in memory for a later resume.
	if len(state.Chapters()) != 1 {
		t.Errorf("chapters stored = %d, want 1", len(state.Chapters()))
	}
}

func TestRetryOnFreshGeneratorContinuesRemainingChapters(t *testing.T) {
	backend := &stubBackend{t: t, outline: "# Intro\n# Depth"}

	var continuedFrom *int
	backend.generate = func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type              string `json:"type"`
			StartChapterIndex *int   `json:"start_chapter_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode generate body: %v", err)
		}
		switch req.Type {
		case "generate_single_chapter":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "success",
				"chapter": article.Chapter{Index: 0, Title: "Intro", Content: "# Intro\nregenerated"},
			})
		case "continue_generation":
			continuedFrom = req.StartChapterIndex
			w.Write(encodeChapter(t, article.Chapter{Index: 1, Title: "Depth", Content: "# Depth\nrest"}))
			w.Write(stream.CompleteLine())
		default:
			t.Errorf("unexpected generate request type %q", req.Type)
			w.WriteHeader(http.StatusBadRequest)
		}
	}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	client := newTestClient(t, srv)
	state := NewState(client)
	if err := state.LoadRecord(context.Background(), 0); err != nil {
		t.Fatalf("LoadRecord: %v", err)
	}

	// Fresh Generator, as when retry is invoked from a new process: no prior
	// Generate call has derived the planned total.
	gen := NewGenerator(client, state, nil)
	if err := gen.Retry(context.Background(), 0); err != nil {
		t.Fatalf("Retry: %v", err)
	}

	if continuedFrom == nil || *continuedFrom != 1 {
		t.Fatalf("continue_generation from = %v, want 1", continuedFrom)
	}
	if len(state.Chapters()) != 2 {
		t.Errorf("chapters stored = %d, want both", len(state.Chapters()))
	}
	if backend.saveCalls != 1 {
		t.Errorf("auto-save calls = %d, want 1 after the full sequence", backend.saveCalls)
	}
	if gen.State() != RunComplete {
		t.Errorf("run state = %v, want complete", gen.State())
	}
}

func TestClientSurfacesServerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "another client moved the position"})
	}))
	defer srv.Close()

	client := newTestClient(t, srv)
	err := client.SetCurrentPos(context.Background(), 1)
	if err == nil {
		t.Fatal("SetCurrentPos: want error")
	}
	if want := "another client moved the position"; !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to carry the server message", err)
	}
}
