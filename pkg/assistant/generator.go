package assistant

import (
	"context"
	"fmt"
	"io"

	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/stream"
)

// RunState is the generator's lifecycle state for one generation run.
type RunState int

const (
	RunIdle RunState = iota
	RunRequested
	RunStreaming
	RunComplete
	RunErrored
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRequested:
		return "requested"
	case RunStreaming:
		return "streaming"
	case RunComplete:
		return "complete"
	case RunErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Generator drives article generation runs against the backend: it opens the
// stream, decodes the line protocol, stores chapters into the shared State
// and auto-saves the assembled article on completion.
//
// HaltOnChapterError preserves the fail-fast policy: one failed chapter ends
// the run and later buffered lines are never dispatched. Recovery is manual
// via Retry. Not safe for concurrent use; one run at a time.
type Generator struct {
	client *Client
	state  *State
	sink   NotificationSink

	HaltOnChapterError bool

	// OnChapter fires for every stored chapter; OnChapterError for failures;
	// OnProgress after each chapter with (completed, total). All optional.
	OnChapter      func(article.Chapter)
	OnChapterError func(stream.ChapterError)
	OnProgress     func(completed, total int)

	runState  RunState
	total     int
	completed int
	lastError *stream.ChapterError
}

func NewGenerator(client *Client, state *State, sink NotificationSink) *Generator {
	if sink == nil {
		sink = noopSink{}
	}
	return &Generator{
		client:             client,
		state:              state,
		sink:               sink,
		HaltOnChapterError: true,
		runState:           RunIdle,
	}
}

func (g *Generator) State() RunState { return g.runState }

// Progress reports chapters completed out of the planned total for the
// current or last run.
func (g *Generator) Progress() (completed, total int) {
	return g.completed, g.total
}

// LastChapterError returns the failure that ended the last run, if any.
func (g *Generator) LastChapterError() *stream.ChapterError {
	return g.lastError
}

// Generate runs a full article generation. Prior chapter state is cleared
// first: regenerating always overwrites, there is no chapter-level
// memoization.
func (g *Generator) Generate(ctx context.Context) error {
	g.state.ClearChapters()
	g.completed = 0
	g.total = g.plannedChapters()
	g.lastError = nil

	pos := g.state.CurrentPos()
	return g.run(ctx, ArticleRequest{
		Type:    "generate_article",
		Outline: g.state.Outline().Serialize(),
		Topic:   g.state.Topic(),
		Pos:     &pos,
	})
}

// Continue resumes a run from the given chapter index over a fresh stream,
// keeping already stored chapters.
func (g *Generator) Continue(ctx context.Context, fromIndex int) error {
	if g.total == 0 {
		g.total = g.plannedChapters()
	}
	pos := g.state.CurrentPos()
	return g.run(ctx, ArticleRequest{
		Type:              "continue_generation",
		Outline:           g.state.Outline().Serialize(),
		Topic:             g.state.Topic(),
		Pos:               &pos,
		StartChapterIndex: &fromIndex,
	})
}

// Retry regenerates a single failed chapter. On success it continues the
// original sequence from index+1, or finalizes when the failed chapter was
// the last one. This is the only recovery path from a halted run, and it is
// manual by design.
func (g *Generator) Retry(ctx context.Context, index int) error {
	// A fresh Generator (retry from the CLI) has no run behind it, so the
	// planned total must be derived here for the continue decision below.
	if g.total == 0 {
		g.total = g.plannedChapters()
	}
	pos := g.state.CurrentPos()
	title := ""
	if node, err := g.state.Outline().Node(chapterNodeIndex(g.state, index)); err == nil {
		title = node.Text
	}

	chapter, err := g.client.GenerateSingleChapter(ctx, ArticleRequest{
		Type:         "generate_single_chapter",
		Outline:      g.state.Outline().Serialize(),
		Topic:        g.state.Topic(),
		Pos:          &pos,
		ChapterIndex: &index,
		ChapterTitle: title,
	})
	if err != nil {
		g.sink.Notify(LevelError, fmt.Sprintf("Retry of chapter %d failed: %v", index, err))
		return err
	}

	g.storeChapter(*chapter)
	g.lastError = nil

	if index+1 < g.total {
		return g.Continue(ctx, index+1)
	}
	return g.finalize(ctx)
}

func (g *Generator) run(ctx context.Context, req ArticleRequest) error {
	g.runState = RunRequested

	body, err := g.client.OpenArticleStream(ctx, req)
	if err != nil {
		g.runState = RunErrored
		g.sink.Notify(LevelError, "Generation request failed: "+err.Error())
		return err
	}
	defer body.Close()

	g.runState = RunStreaming
	reader := stream.NewReader(body,
		stream.WithHaltOnChapterError(g.HaltOnChapterError),
		stream.WithMalformedLineHandler(func(line string, err error) {
			g.sink.Notify(LevelWarn, "Dropped malformed stream line")
		}),
	)

	completed := false
	for {
		event, err := reader.Next()
		if err == io.EOF || err == stream.ErrHalted {
			break
		}
		if err != nil {
			g.runState = RunErrored
			return err
		}

		switch event.Kind {
		case stream.KindChapter:
			g.storeChapter(*event.Chapter)
		case stream.KindChapterError:
			g.lastError = event.ChapterError
			g.runState = RunErrored
			if g.OnChapterError != nil {
				g.OnChapterError(*event.ChapterError)
			}
			g.sink.Notify(LevelError, fmt.Sprintf("Chapter %d failed: %s", event.ChapterError.Index, event.ChapterError.Message))
			if g.HaltOnChapterError {
				return fmt.Errorf("assistant: chapter %d failed: %s", event.ChapterError.Index, event.ChapterError.Message)
			}
		case stream.KindComplete:
			completed = true
		}
	}

	// Auto-save is gated on the completion marker: a stream that just ends
	// may have been cut mid-run, and saving would overwrite the record with
	// a partial article.
	if !completed {
		g.runState = RunErrored
		if g.lastError != nil {
			return fmt.Errorf("assistant: generation run ended after error")
		}
		return fmt.Errorf("assistant: stream ended before completion marker")
	}
	return g.finalize(ctx)
}

// finalize marks the run complete and auto-saves the concatenated article to
// the current record.
func (g *Generator) finalize(ctx context.Context) error {
	g.runState = RunComplete
	err := g.client.SaveArticle(ctx, g.state.CurrentPos(), g.state.ArticleText(), g.state.References(), "replace")
	if err != nil {
		g.sink.Notify(LevelWarn, "Article auto-save failed: "+err.Error())
		return err
	}
	g.sink.Notify(LevelInfo, "Article saved")
	return nil
}

func (g *Generator) storeChapter(ch article.Chapter) {
	g.state.StoreChapter(ch)
	g.completed++
	if g.OnChapter != nil {
		g.OnChapter(ch)
	}
	if g.OnProgress != nil {
		g.OnProgress(g.completed, g.total)
	}
}

// plannedChapters counts the outline's level-1 headings, matching the
// server's chapter plan.
func (g *Generator) plannedChapters() int {
	n := 0
	for _, node := range g.state.Outline().Nodes() {
		if node.Level == 1 {
			n++
		}
	}
	return n
}

// chapterNodeIndex maps a chapter index (counting level-1 nodes) back to the
// node list index so Retry can recover the chapter title.
func chapterNodeIndex(s *State, chapterIdx int) int {
	count := 0
	for i, node := range s.Outline().Nodes() {
		if node.Level == 1 {
			if count == chapterIdx {
				return i
			}
			count++
		}
	}
	return -1
}
