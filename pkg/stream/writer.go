package stream

import (
	"io"

	"ai-writing-be/pkg/article"
)

type flusher interface {
	Flush() error
}

// Writer frames protocol lines onto dst. When dst can flush (a bufio.Writer
// over a chunked HTTP body), every line is pushed out immediately so clients
// see chapters as they finish.
type Writer struct {
	dst io.Writer
}

func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst}
}

func (w *Writer) WriteChapter(ch article.Chapter) error {
	line, err := EncodeChapter(ch)
	if err != nil {
		return err
	}
	return w.writeLine(line)
}

func (w *Writer) WriteChapterError(index int, title, message, errorType string) error {
	line, err := EncodeChapterError(index, title, message, errorType)
	if err != nil {
		return err
	}
	return w.writeLine(line)
}

func (w *Writer) WriteComplete() error {
	return w.writeLine(CompleteLine())
}

func (w *Writer) writeLine(line []byte) error {
	if _, err := w.dst.Write(line); err != nil {
		return err
	}
	if f, ok := w.dst.(flusher); ok {
		return f.Flush()
	}
	return nil
}
