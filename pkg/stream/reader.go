package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"ai-writing-be/pkg/article"
)

// ErrHalted is returned by Next after a chapter error line when the reader
// runs with HaltOnChapterError. Lines already buffered behind the error are
// never dispatched.
var ErrHalted = errors.New("stream: generation run halted by chapter error")

// EventKind discriminates decoded protocol events.
type EventKind int

const (
	KindChapter EventKind = iota
	KindChapterError
	KindComplete
)

// Event is one decoded protocol line.
type Event struct {
	Kind         EventKind
	Chapter      *article.Chapter
	ChapterError *ChapterError
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithHaltOnChapterError sets the chapter-error policy. The default (true)
// preserves the fail-fast behavior: one failed chapter ends the whole run and
// recovery goes through single-chapter retry plus continue. Setting it false
// lets the reader keep dispatching lines after an error event.
func WithHaltOnChapterError(halt bool) ReaderOption {
	return func(r *Reader) { r.haltOnChapterError = halt }
}

// WithMalformedLineHandler installs a callback for lines whose JSON cannot be
// decoded. Such lines are dropped and the run continues.
func WithMalformedLineHandler(fn func(line string, err error)) ReaderOption {
	return func(r *Reader) { r.onMalformed = fn }
}

// Reader decodes a protocol byte stream into events. The source is read in
// chunks and split on newlines; a trailing partial line is buffered across
// reads and only dispatched once a newline completes it or the stream ends.
// Not safe for concurrent use.
type Reader struct {
	src     io.Reader
	chunk   []byte
	partial []byte
	pending []string

	srcDone bool
	halted  bool

	haltOnChapterError bool
	onMalformed        func(line string, err error)
}

func NewReader(src io.Reader, opts ...ReaderOption) *Reader {
	r := &Reader{
		src:                src,
		chunk:              make([]byte, 4096),
		haltOnChapterError: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next decoded event. It returns io.EOF when the stream is
// exhausted and ErrHalted for every call after a halting chapter error.
func (r *Reader) Next() (*Event, error) {
	for {
		if r.halted {
			return nil, ErrHalted
		}
		if len(r.pending) > 0 {
			line := r.pending[0]
			r.pending = r.pending[1:]
			ev, ok := r.decode(line)
			if !ok {
				continue
			}
			return ev, nil
		}
		if r.srcDone {
			if len(r.partial) > 0 {
				r.pending = append(r.pending, string(r.partial))
				r.partial = nil
				continue
			}
			return nil, io.EOF
		}
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

// fill reads one chunk from the source and splits completed lines into the
// pending queue.
func (r *Reader) fill() error {
	n, err := r.src.Read(r.chunk)
	if n > 0 {
		r.partial = append(r.partial, r.chunk[:n]...)
		for {
			idx := bytes.IndexByte(r.partial, '\n')
			if idx < 0 {
				break
			}
			r.pending = append(r.pending, string(r.partial[:idx]))
			r.partial = append(r.partial[:0], r.partial[idx+1:]...)
		}
	}
	if err != nil {
		if errors.Is(err, io.EOF) {
			r.srcDone = true
			return nil
		}
		return err
	}
	return nil
}

// decode parses one complete line. Unknown tags and malformed payloads are
// dropped.
func (r *Reader) decode(line string) (*Event, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return nil, false
	case strings.HasPrefix(trimmed, TagChapter):
		var payload ChapterPayload
		if err := json.Unmarshal([]byte(trimmed[len(TagChapter):]), &payload); err != nil {
			r.reportMalformed(trimmed, err)
			return nil, false
		}
		ch := &article.Chapter{
			Index:      payload.Index,
			Title:      payload.Title,
			Content:    payload.Content,
			References: payload.References,
		}
		return &Event{Kind: KindChapter, Chapter: ch}, true
	case strings.HasPrefix(trimmed, TagChapterError):
		var payload ChapterError
		if err := json.Unmarshal([]byte(trimmed[len(TagChapterError):]), &payload); err != nil {
			r.reportMalformed(trimmed, err)
			return nil, false
		}
		if r.haltOnChapterError {
			r.halted = true
		}
		return &Event{Kind: KindChapterError, ChapterError: &payload}, true
	case trimmed == TagComplete:
		return &Event{Kind: KindComplete}, true
	default:
		return nil, false
	}
}

func (r *Reader) reportMalformed(line string, err error) {
	if r.onMalformed != nil {
		r.onMalformed(line, err)
	}
}
