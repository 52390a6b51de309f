package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	postcast "github.com/goliatone/go-postcast"
	"github.com/goliatone/go-postcast/cmd/postcast/internal/bootstrap"
	"github.com/goliatone/go-postcast/internal/calendar"
	calendarcmd "github.com/goliatone/go-postcast/internal/commands/calendar"
	"github.com/goliatone/go-postcast/internal/review"
)

const menuText = `
LinkedIn Content Assistant
1. Generate single post suggestion
2. Generate multiple post suggestions
3. Create weekly content calendar
4. Exit`

func newMenuCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "menu",
		Short:         "Open the interactive menu",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, opts)
		},
	}
}

func runMenu(cmd *cobra.Command, opts *rootOptions) error {
	module, err := opts.open(cmd, bootstrap.ModeGenerate)
	if err != nil {
		return err
	}
	defer module.Close()

	m := &menu{
		module: module,
		in:     opts.streams.in,
		out:    opts.streams.out,
	}
	return m.run(cmd.Context())
}

type menu struct {
	module *postcast.Module
	in     *bufio.Reader
	out    io.Writer
}

func (m *menu) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprintln(m.out, menuText)
		choice, err := m.prompt("\nEnter your choice (1-4): ")
		if err != nil {
			return nil
		}

		switch choice {
		case "1":
			m.single(ctx)
		case "2":
			m.suggestions(ctx)
		case "3":
			m.weekly(ctx)
		case "4":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice. Please try again.")
		}
	}
}

func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (m *menu) single(ctx context.Context) {
	handlers := m.module.Container().CalendarCommands()
	err := handlers.Suggest.Execute(ctx, calendarcmd.SuggestCommand{
		Count: 1,
		OnResult: func(batch calendar.Batch) {
			for _, item := range batch.Items {
				fmt.Fprintln(m.out, review.RenderPreview(item))
			}
		},
	})
	if err != nil {
		fmt.Fprintf(m.out, "Could not generate a post: %v\n", err)
	}
}

func (m *menu) suggestions(ctx context.Context) {
	answer, err := m.prompt("How many suggestions would you like? ")
	if err != nil {
		return
	}
	count, err := strconv.Atoi(answer)
	if err != nil || count < 1 || count > calendarcmd.MaxCount {
		fmt.Fprintf(m.out, "Please enter a number between 1 and %d.\n", calendarcmd.MaxCount)
		return
	}

	handlers := m.module.Container().CalendarCommands()
	err = handlers.Review.Execute(ctx, calendarcmd.ReviewCommand{
		Count: count,
		OnResult: func(outcome review.Outcome) {
			fmt.Fprintf(m.out, "\nApproved %d posts out of %d\n", len(outcome.Approved), count)
		},
	})
	if err != nil {
		fmt.Fprintf(m.out, "Review stopped: %v\n", err)
	}
}

func (m *menu) weekly(ctx context.Context) {
	fmt.Fprintln(m.out, "\nGenerating weekly content calendar...")
	var generated int
	handlers := m.module.Container().CalendarCommands()
	err := handlers.Build.Execute(ctx, calendarcmd.BuildCommand{
		OnResult: func(batch calendar.Batch) { generated = len(batch.Items) },
	})
	if err != nil {
		fmt.Fprintf(m.out, "Could not save the calendar: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Generated %d posts and saved to %s\n", generated, m.module.LogPath())
}
