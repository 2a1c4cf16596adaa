// writerctl is a terminal client for the writing backend built entirely on
// the pkg/assistant SDK: generate an outline for a topic, stream an article
// into the terminal, browse and reload session history, retry failed
// chapters.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"ai-writing-be/pkg/article"
	"ai-writing-be/pkg/assistant"
	"ai-writing-be/pkg/stream"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var serverURL string

// terminalSink prints SDK notices as colored terminal lines.
type terminalSink struct{}

func (terminalSink) Notify(level, message string) {
	switch level {
	case assistant.LevelError:
		color.Red("! %s", message)
	case assistant.LevelWarn:
		color.Yellow("~ %s", message)
	default:
		color.Cyan("- %s", message)
	}
}

func main() {
	root := &cobra.Command{
		Use:           "writerctl",
		Short:         "Terminal client for the writing assistant backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("WRITER_SERVER", "http://localhost:3000"), "backend base URL")

	root.AddCommand(outlineCmd(), generateCmd(), recordsCmd(), loadCmd(), retryCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newSession() (*assistant.Client, *assistant.State, error) {
	client, err := assistant.NewClient(serverURL)
	if err != nil {
		return nil, nil, err
	}
	state := assistant.NewState(client, assistant.WithNotificationSink(terminalSink{}))
	return client, state, nil
}

func outlineCmd() *cobra.Command {
	var promptType string
	cmd := &cobra.Command{
		Use:   "outline <topic>",
		Short: "Generate an outline for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newSession()
			if err != nil {
				return err
			}

			topic := args[0]
			color.Cyan("Generating outline for %q ...", topic)
			text, err := client.GenerateOutline(cmd.Context(), assistant.OutlineRequest{
				Type:       "generate_outline",
				Prompt:     topic,
				PromptType: promptType,
			})
			if err != nil {
				return err
			}

			return renderMarkdown(text)
		},
	}
	cmd.Flags().StringVar(&promptType, "prompt-type", "default", "outline prompt variant")
	return cmd
}

func generateCmd() *cobra.Command {
	var continueOnError bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Stream article generation for the current record",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, state, err := newSession()
			if err != nil {
				return err
			}
			if err := prime(cmd.Context(), state); err != nil {
				return err
			}
			if state.Outline().Len() == 0 {
				return fmt.Errorf("current record has no outline; run 'writerctl outline <topic>' first")
			}

			gen := newGenerator(client, state)
			gen.HaltOnChapterError = !continueOnError

			err = gen.Generate(cmd.Context())
			reportRun(gen, err)
			return err
		},
	}
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep generating after a failed chapter")
	return cmd
}

func recordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "List session history",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := newSession()
			if err != nil {
				return err
			}

			records, currentPos, err := client.Records(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				color.Yellow("No records yet.")
				return nil
			}

			bold := color.New(color.Bold)
			for _, r := range records {
				marker := "  "
				if r.Pos == currentPos {
					marker = color.GreenString("> ")
				}
				preview := r.TopicPreview
				if preview == "" {
					preview = r.OutlinePreview
				}
				bold.Printf("%s[%d]", marker, r.Pos)
				fmt.Printf(" %s  outline=%v article=%v chapters=%d  %s\n",
					preview, r.HasOutline, r.HasArticle, r.ArticleCount, r.Timestamp)
			}
			return nil
		},
	}
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <pos>",
		Short: "Load a history record as the current one (destructive, no undo)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pos must be an integer: %w", err)
			}

			_, state, err := newSession()
			if err != nil {
				return err
			}
			if err := state.LoadRecord(cmd.Context(), pos); err != nil {
				return err
			}

			if state.Topic() != "" {
				color.Cyan("Topic: %s", state.Topic())
			}
			if err := renderMarkdown(state.Outline().Serialize()); err != nil {
				return err
			}
			if text := state.ArticleText(); text != "" {
				return renderMarkdown(text)
			}
			return nil
		},
	}
}

func retryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <chapter-index>",
		Short: "Regenerate one failed chapter, then continue the run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("chapter index must be an integer: %w", err)
			}

			client, state, err := newSession()
			if err != nil {
				return err
			}
			if err := prime(cmd.Context(), state); err != nil {
				return err
			}

			gen := newGenerator(client, state)
			err = gen.Retry(cmd.Context(), index)
			reportRun(gen, err)
			return err
		},
	}
}

// prime syncs position and pulls the current record into state so commands
// operate on what the server considers current.
func prime(ctx context.Context, state *assistant.State) error {
	if err := state.SyncPos(ctx); err != nil {
		return err
	}
	return state.LoadRecord(ctx, state.CurrentPos())
}

func newGenerator(client *assistant.Client, state *assistant.State) *assistant.Generator {
	gen := assistant.NewGenerator(client, state, terminalSink{})
	gen.OnChapter = func(ch article.Chapter) {
		color.Green("== Chapter %d: %s", ch.Index, ch.Title)
		if err := renderMarkdown(ch.Content); err != nil {
			fmt.Println(ch.Content)
		}
	}
	gen.OnChapterError = func(e stream.ChapterError) {
		color.Red("== Chapter %d failed (%s): %s", e.Index, e.ErrorType, e.Message)
		color.Red("   Run 'writerctl retry %d' to regenerate it.", e.Index)
	}
	gen.OnProgress = func(completed, total int) {
		if total > 0 {
			color.Cyan("Progress: %d/%d (%d%%)", completed, total, completed*100/total)
		}
	}
	return gen
}

func reportRun(gen *assistant.Generator, err error) {
	completed, total := gen.Progress()
	if err != nil {
		color.Red("Run ended in state %s after %d/%d chapters.", gen.State(), completed, total)
		return
	}
	color.Green("Done: %d/%d chapters.", completed, total)
}

func renderMarkdown(md string) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Println(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
