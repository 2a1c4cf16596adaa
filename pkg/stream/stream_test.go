package stream

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"ai-writing-be/pkg/article"
)

// chunkReader feeds the reader a scripted sequence of byte chunks so tests
// can split protocol lines at arbitrary points.
type chunkReader struct {
	chunks [][]byte
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, c.chunks[0])
	if n < len(c.chunks[0]) {
		c.chunks[0] = c.chunks[0][n:]
	} else {
		c.chunks = c.chunks[1:]
	}
	return n, nil
}

func chapterLine(t *testing.T, index int, title string) []byte {
	t.Helper()
	line, err := EncodeChapter(article.Chapter{
		Index:   index,
		Title:   title,
		Content: "# " + title + "\nbody",
		References: map[string]article.Reference{
			"1": {Content: "snippet", Title: "src", URL: "https://example.com"},
		},
	})
	if err != nil {
		t.Fatalf("EncodeChapter: %v", err)
	}
	return line
}

func TestReaderSplitsLinesAcrossChunks(t *testing.T) {
	line := chapterLine(t, 0, "Intro")
	mid := len(line) / 2
	src := &chunkReader{chunks: [][]byte{line[:mid], line[mid:], CompleteLine()}}

	r := NewReader(src)
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Kind != KindChapter || ev.Chapter.Title != "Intro" {
		t.Fatalf("event = %+v, want chapter Intro", ev)
	}
	ev, err = r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Kind != KindComplete {
		t.Fatalf("event kind = %v, want complete", ev.Kind)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("Next after end = %v, want EOF", err)
	}
}

func TestReaderPartialLineNeverDispatchedEarly(t *testing.T) {
	line := chapterLine(t, 0, "Intro")
	// Everything except the final newline arrives first.
	src := &chunkReader{chunks: [][]byte{line[:len(line)-1], {'\n'}}}

	r := NewReader(src)
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Kind != KindChapter || ev.Chapter.Index != 0 {
		t.Fatalf("event = %+v, want chapter 0", ev)
	}
}

func TestReaderFinalLineWithoutNewline(t *testing.T) {
	src := strings.NewReader(TagComplete)
	r := NewReader(src)
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Kind != KindComplete {
		t.Fatalf("event kind = %v, want complete", ev.Kind)
	}
}

func TestReaderChapterErrorHaltsBufferedLines(t *testing.T) {
	errLine, err := EncodeChapterError(1, "Background", "connection reset", ErrorTypeNetwork)
	if err != nil {
		t.Fatalf("EncodeChapterError: %v", err)
	}
	var all []byte
	all = append(all, chapterLine(t, 0, "Intro")...)
	all = append(all, errLine...)
	all = append(all, chapterLine(t, 2, "After")...)
	all = append(all, CompleteLine()...)

	r := NewReader(bytes.NewReader(all))
	ev, err := r.Next()
	if err != nil || ev.Kind != KindChapter {
		t.Fatalf("first event = %+v, %v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev.Kind != KindChapterError {
		t.Fatalf("second event = %+v, %v", ev, err)
	}
	if ev.ChapterError.ErrorType != ErrorTypeNetwork {
		t.Errorf("ErrorType = %q, want network", ev.ChapterError.ErrorType)
	}
	if _, err := r.Next(); !errors.Is(err, ErrHalted) {
		t.Fatalf("Next after chapter error = %v, want ErrHalted", err)
	}
	// Halt is sticky.
	if _, err := r.Next(); !errors.Is(err, ErrHalted) {
		t.Fatalf("repeated Next = %v, want ErrHalted", err)
	}
}

func TestReaderContinuesPastChapterErrorWhenPolicyOff(t *testing.T) {
	errLine, _ := EncodeChapterError(0, "Intro", "boom", ErrorTypeOther)
	var all []byte
	all = append(all, errLine...)
	all = append(all, chapterLine(t, 1, "Next")...)

	r := NewReader(bytes.NewReader(all), WithHaltOnChapterError(false))
	ev, err := r.Next()
	if err != nil || ev.Kind != KindChapterError {
		t.Fatalf("first event = %+v, %v", ev, err)
	}
	ev, err = r.Next()
	if err != nil || ev.Kind != KindChapter {
		t.Fatalf("second event = %+v, %v", ev, err)
	}
}

func TestReaderDropsMalformedLines(t *testing.T) {
	var dropped []string
	var all []byte
	all = append(all, []byte(TagChapter+"{not json}\n")...)
	all = append(all, []byte("UNKNOWN_TAG:whatever\n")...)
	all = append(all, chapterLine(t, 0, "Intro")...)

	r := NewReader(bytes.NewReader(all), WithMalformedLineHandler(func(line string, err error) {
		dropped = append(dropped, line)
	}))
	ev, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if ev.Kind != KindChapter || ev.Chapter.Title != "Intro" {
		t.Fatalf("event = %+v, want chapter Intro", ev)
	}
	if len(dropped) != 1 || !strings.HasPrefix(dropped[0], TagChapter) {
		t.Errorf("dropped = %v, want one malformed CHAPTER_DATA line", dropped)
	}
}

func TestReaderPropagatesTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewReader(io.MultiReader(strings.NewReader(""), &failingReader{err: boom}))
	if _, err := r.Next(); !errors.Is(err, boom) {
		t.Fatalf("Next = %v, want transport error", err)
	}
}

type failingReader struct{ err error }

func (f *failingReader) Read(p []byte) (int, error) { return 0, f.err }

func TestWriterFramesAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriterSize(&buf, 1<<16)
	w := NewWriter(bw)

	if err := w.WriteChapter(article.Chapter{Index: 3, Title: "T", Content: "c"}); err != nil {
		t.Fatalf("WriteChapter: %v", err)
	}
	// The buffered writer is flushed per line, so the frame must already be
	// visible without an explicit caller-side flush.
	out := buf.String()
	if !strings.HasPrefix(out, TagChapter) || !strings.HasSuffix(out, "\n") {
		t.Fatalf("frame = %q", out)
	}
	var payload ChapterPayload
	if err := json.Unmarshal([]byte(strings.TrimSuffix(strings.TrimPrefix(out, TagChapter), "\n")), &payload); err != nil {
		t.Fatalf("frame payload: %v", err)
	}
	if payload.Type != "chapter" || payload.Index != 3 || payload.Depth != 1 || payload.Status != "completed" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.References == nil {
		t.Error("nil references should be framed as an empty map")
	}

	if err := w.WriteComplete(); err != nil {
		t.Fatalf("WriteComplete: %v", err)
	}
	if !strings.HasSuffix(buf.String(), TagComplete+"\n") {
		t.Errorf("output = %q, want trailing complete marker", buf.String())
	}
}

func TestWriterChapterErrorDefaultsType(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteChapterError(0, "Intro", "fail", "weird"); err != nil {
		t.Fatalf("WriteChapterError: %v", err)
	}
	var payload ChapterError
	line := strings.TrimSuffix(strings.TrimPrefix(buf.String(), TagChapterError), "\n")
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.ErrorType != ErrorTypeOther {
		t.Errorf("ErrorType = %q, want other", payload.ErrorType)
	}
	if payload.Status != "error" || payload.Type != "chapter_error" {
		t.Errorf("payload = %+v", payload)
	}
}
