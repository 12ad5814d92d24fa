package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const version = "v0.3.0"

// app carries the state shared by every subcommand.
type app struct {
	out    io.Writer
	errOut io.Writer
	log    zerolog.Logger

	logLevel  string
	logFormat string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:     "mrdca",
		Short:   "Multi-view relational clustering with relevance weights",
		Version: version,
		Long: `mrdca partitions objects described by several dissimilarity matrices
(views). Each cluster learns how much every view matters to it and is
represented by the object closest to all its members.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setupLogging()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format (console|json)")

	root.AddCommand(newRunCmd(a), newDemoCmd(a), newScoreCmd(a))
	return root
}

func (a *app) setupLogging() error {
	level, err := zerolog.ParseLevel(strings.ToLower(a.logLevel))
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	var w io.Writer
	switch a.logFormat {
	case "console":
		w = zerolog.ConsoleWriter{Out: a.errOut, TimeFormat: time.Kitchen}
	case "json":
		w = a.errOut
	default:
		return fmt.Errorf("invalid --log-format %q, want console or json", a.logFormat)
	}
	a.log = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return nil
}
