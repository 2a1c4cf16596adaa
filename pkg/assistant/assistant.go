// Package assistant is the client SDK for the writing backend: an explicit
// application-state object (position, outline, chapter store), a typed REST
// client over the session endpoints, and the streaming article generator
// state machine.
package assistant

import (
	"context"
	"sort"
	"strconv"

	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/outline"
)

// NotificationSink receives user-facing notices. Implementations decide how
// to surface them (toast, terminal line, log); the default discards them.
type NotificationSink interface {
	Notify(level string, message string)
}

// Notice levels passed to a NotificationSink.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type noopSink struct{}

func (noopSink) Notify(string, string) {}

// State is the single mutable application state shared by the editor and the
// generator. It replaces ambient globals with one object and one update
// entry point per concern. Not safe for concurrent use.
type State struct {
	client *Client
	sink   NotificationSink

	pos      int
	topic    string
	outline  *outline.Document
	chapters []article.Chapter
}

type StateOption func(*State)

func WithNotificationSink(sink NotificationSink) StateOption {
	return func(s *State) {
		if sink != nil {
			s.sink = sink
		}
	}
}

func NewState(client *Client, opts ...StateOption) *State {
	s := &State{
		client:  client,
		sink:    noopSink{},
		outline: outline.NewDocument(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CurrentPos returns the in-memory position; zero until initialized.
func (s *State) CurrentPos() int {
	return s.pos
}

// SyncPos pulls the server's current position into memory. Called once on
// startup; afterwards the position only moves via SetCurrentPos or
// LoadRecord.
func (s *State) SyncPos(ctx context.Context) error {
	pos, _, err := s.client.CurrentPos(ctx)
	if err != nil {
		return err
	}
	s.pos = pos
	return nil
}

// SetCurrentPos moves the position on the server and updates the in-memory
// value only on confirmation. On failure the old value stays: the caller
// must treat the error as "retry or abandon", not "rolled back".
func (s *State) SetCurrentPos(ctx context.Context, pos int) error {
	if err := s.client.SetCurrentPos(ctx, pos); err != nil {
		return err
	}
	s.pos = pos
	return nil
}

func (s *State) Topic() string     { return s.topic }
func (s *State) SetTopic(t string) { s.topic = t }

// Outline returns the live outline document; mutations go through its
// Add/Edit/Delete/Move operations.
func (s *State) Outline() *outline.Document {
	return s.outline
}

// ReplaceOutline swaps in a freshly parsed outline, e.g. after server-driven
// regeneration.
func (s *State) ReplaceOutline(text string) {
	s.outline = outline.Load(text)
}

// SaveOutline persists the serialized outline to the current position.
func (s *State) SaveOutline(ctx context.Context) error {
	return s.client.SaveOutline(ctx, s.pos, s.outline.Serialize())
}

// Chapters returns the stored chapters in ascending index order.
func (s *State) Chapters() []article.Chapter {
	return s.chapters
}

// StoreChapter inserts a chapter at its index position regardless of arrival
// order; a chapter with an existing index replaces the stored one.
func (s *State) StoreChapter(ch article.Chapter) {
	for i, existing := range s.chapters {
		if existing.Index == ch.Index {
			s.chapters[i] = ch
			return
		}
	}
	s.chapters = append(s.chapters, ch)
	sort.Slice(s.chapters, func(i, j int) bool {
		return s.chapters[i].Index < s.chapters[j].Index
	})
}

// ClearChapters drops all stored chapters; every fresh generation run starts
// here.
func (s *State) ClearChapters() {
	s.chapters = nil
}

// ArticleText concatenates stored chapter content in index order.
func (s *State) ArticleText() string {
	chunks := make([]string, len(s.chapters))
	for i, ch := range s.chapters {
		chunks[i] = ch.Content
	}
	return article.JoinChapters(chunks)
}

// References collects every stored chapter's reference map keyed by
// stringified chapter index, the shape the article save endpoint expects.
func (s *State) References() map[string]map[string]article.Reference {
	refs := make(map[string]map[string]article.Reference)
	for _, ch := range s.chapters {
		if len(ch.References) == 0 {
			continue
		}
		refs[strconv.Itoa(ch.Index)] = ch.References
	}
	return refs
}

// LoadRecord is the destructive time-travel operation: it fetches the record
// at pos, reassigns the current position and fully replaces outline, topic
// and article state. A record without an article clears any held chapters.
// There is no undo.
func (s *State) LoadRecord(ctx context.Context, pos int) error {
	record, err := s.client.Record(ctx, pos)
	if err != nil {
		return err
	}
	if err := s.SetCurrentPos(ctx, pos); err != nil {
		return err
	}

	s.topic = record.Topic
	s.outline = outline.Load(record.Outline)
	s.chapters = nil
	if record.Article != "" {
		for i, chunk := range article.SplitChapters(record.Article) {
			s.chapters = append(s.chapters, article.Chapter{
				Index:   i,
				Title:   article.ChapterTitle(chunk),
				Content: chunk,
			})
		}
	}
	s.sink.Notify(LevelInfo, "Loaded record "+strconv.Itoa(pos))
	return nil
}
