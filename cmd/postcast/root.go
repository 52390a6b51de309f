package main

import (
	"bufio"
	"io"

	"github.com/spf13/cobra"

	postcast "github.com/goliatone/go-postcast"
	"github.com/goliatone/go-postcast/cmd/postcast/internal/bootstrap"
	"github.com/goliatone/go-postcast/internal/di"
)

type streams struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func newStreams(in io.Reader, out, errOut io.Writer) *streams {
	return &streams{in: bufio.NewReader(in), out: out, errOut: errOut}
}

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	LogLevel   string
	Seed       int64

	streams *streams
	extra   []di.Option
}

func newRootCommand(s *streams, extra ...di.Option) *cobra.Command {
	opts := &rootOptions{streams: s, extra: extra}

	cmd := &cobra.Command{
		Use:   "postcast",
		Short: "Generate, review and publish LinkedIn posts",
		Long: `postcast drafts LinkedIn posts for a rotating list of topics, keeps an
append-only content calendar and publishes one post per day.

Running postcast without a subcommand opens the interactive menu.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.json", "path to the JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override logging.level (trace|debug|info|warn|error)")
	cmd.PersistentFlags().Int64Var(&opts.Seed, "seed", 0, "seed topic rotation for reproducible output")

	cmd.AddCommand(newMenuCommand(opts))
	cmd.AddCommand(newGenerateCommand(opts))
	cmd.AddCommand(newCalendarCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newPublishCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newRunsCommand(opts))

	return cmd
}

func (o *rootOptions) open(cmd *cobra.Command, mode bootstrap.Mode) (*postcast.Module, error) {
	bopts := bootstrap.Options{
		ConfigPath: o.ConfigPath,
		LogLevel:   o.LogLevel,
		Mode:       mode,
		In:         o.streams.in,
		Out:        o.streams.out,
		LogWriter:  o.streams.errOut,
		Extra:      o.extra,
	}
	if flag := cmd.Flag("seed"); flag != nil && flag.Changed {
		seed := o.Seed
		bopts.Seed = &seed
	}

	module, err := bootstrap.BuildModule(bopts)
	if err != nil {
		return nil, wrapExit(exitFailure, "startup failed", err)
	}
	return module, nil
}
