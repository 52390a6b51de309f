package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-postcast/cmd/postcast/internal/bootstrap"
	"github.com/goliatone/go-postcast/internal/calendar"
	calendarcmd "github.com/goliatone/go-postcast/internal/commands/calendar"
	publishcmd "github.com/goliatone/go-postcast/internal/commands/publish"
	"github.com/goliatone/go-postcast/internal/publisher"
	"github.com/goliatone/go-postcast/internal/recordstore"
	"github.com/goliatone/go-postcast/internal/review"
	"github.com/goliatone/go-postcast/internal/schedule"
)

const contentPreviewWidth = 60

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate post suggestions without saving them",
		Example: `  postcast generate
  postcast generate --count 3 --seed 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModeGenerate)
			if err != nil {
				return err
			}
			defer module.Close()

			out := cmd.OutOrStdout()
			err = module.Container().CalendarCommands().Suggest.Execute(cmd.Context(), calendarcmd.SuggestCommand{
				Count: count,
				OnResult: func(batch calendar.Batch) {
					for _, item := range batch.Items {
						fmt.Fprintln(out, review.RenderPreview(item))
					}
				},
			})
			if err != nil {
				return wrapExit(exitCommand, "generate", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of suggestions")
	return cmd
}

func newCalendarCommand(opts *rootOptions) *cobra.Command {
	var (
		count       int
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Generate a batch of posts and append it to the content calendar",
		Long: `Generate a batch of posts, one per topic, pacing backend calls one second
apart. The batch is appended to the calendar file in a single write.

With --review every post is shown first and only approved posts are saved.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModeGenerate)
			if err != nil {
				return err
			}
			defer module.Close()

			out := cmd.OutOrStdout()
			handlers := module.Container().CalendarCommands()
			if interactive {
				n := count
				if n == 0 {
					n = module.Container().Config.Calendar.Size
				}
				err = handlers.Review.Execute(cmd.Context(), calendarcmd.ReviewCommand{
					Count: n,
					OnResult: func(outcome review.Outcome) {
						fmt.Fprintf(out, "Approved %d posts out of %d\n", len(outcome.Approved), n)
					},
				})
			} else {
				var batch calendar.Batch
				err = handlers.Build.Execute(cmd.Context(), calendarcmd.BuildCommand{
					Count:    count,
					OnResult: func(b calendar.Batch) { batch = b },
				})
				if err == nil {
					fmt.Fprintf(out, "Generated %d posts and saved to %s\n", len(batch.Items), module.LogPath())
					if batch.Fallbacks > 0 {
						fmt.Fprintf(out, "%d posts used the fallback template\n", batch.Fallbacks)
					}
				}
			}
			if err != nil {
				return wrapExit(exitCommand, "calendar", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of posts (defaults to calendar.size)")
	cmd.Flags().BoolVar(&interactive, "review", false, "approve each post before it is saved")
	return cmd
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "Show the newest rows of the content calendar",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModeGenerate)
			if err != nil {
				return err
			}
			defer module.Close()

			var records []recordstore.Record
			err = module.Container().CalendarCommands().History.Execute(cmd.Context(), calendarcmd.HistoryCommand{
				Limit:    limit,
				OnResult: func(rows []recordstore.Record) { records = rows },
			})
			if err != nil {
				return wrapExit(exitCommand, "history", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No posts recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "number of rows to show (0 for all)")
	return cmd
}

func newPublishCommand(opts *rootOptions) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:           "publish",
		Short:         "Publish one post immediately",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModePublish)
			if err != nil {
				return err
			}
			defer module.Close()

			out := cmd.OutOrStdout()
			err = module.Container().PublishCommand().Execute(cmd.Context(), publishcmd.DailyPublishCommand{
				RunID: runID,
				OnResult: func(outcome publisher.Outcome) {
					if outcome.Published() {
						fmt.Fprintf(out, "Successfully posted at %s\n", outcome.Item.CreatedAt.Format(time.DateTime))
						fmt.Fprintf(out, "Content:\n%s\n", outcome.Item.Body)
					}
				},
			})
			if err != nil {
				return wrapExit(exitCommand, "publish", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "correlation id for logs (defaults to a deterministic id for the current minute)")
	return cmd
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daily publish trigger until interrupted",
		Long: `Run only the daily publish trigger. The trigger fires once per day at
publish.time; a failed run is logged and the loop keeps going.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModePublish)
			if err != nil {
				return err
			}
			defer module.Close()

			daily := module.Container().Trigger().Schedule()
			fmt.Fprintf(cmd.OutOrStdout(), "LinkedIn automation started. Posts will be created daily at %s.\n", daily)
			if err := module.RunTrigger(cmd.Context()); err != nil {
				return wrapExit(exitCommand, "trigger", err)
			}
			return nil
		},
	}
}

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List recorded daily trigger runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := opts.open(cmd, bootstrap.ModeGenerate)
			if err != nil {
				return err
			}
			defer module.Close()

			var runs []schedule.Run
			err = module.Container().RunsCommand().Execute(cmd.Context(), publishcmd.ListRunsCommand{
				Limit:    limit,
				OnResult: func(r []schedule.Run) { runs = r },
			})
			if err != nil {
				return wrapExit(exitCommand, "runs", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of runs to show")
	return cmd
}

func renderRecords(records []recordstore.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{rec.Date, rec.Topic, rec.Type, clip(rec.Content, contentPreviewWidth), rec.Status})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(recordstore.Header...).
		Rows(rows...).
		Render()
}

func renderRuns(runs []schedule.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{run.Slot, run.FiredAt.Format(time.DateTime), string(run.Outcome), run.RunID, run.Detail})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Slot", "Fired", "Outcome", "Run", "Detail").
		Rows(rows...).
		Render()
}

// clip returns the first line of s, shortened to width runes.
func clip(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
