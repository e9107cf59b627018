package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/benedoc-inc/docdiff"
)

// rootFlags are shared by every subcommand
type rootFlags struct {
	verbose bool
	noColor bool
	config  string
}

func main() {
	// Catch panics and write to stderr
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			os.Exit(2)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "docdiff",
		Short:         "Compare two versions of an HTML document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging on stderr")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable coloured output")
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML file with comparison options")

	root.AddCommand(compareCmd(flags))
	root.AddCommand(batchCmd(flags))
	root.AddCommand(versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the docdiff version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docdiff %s\n", docdiff.Version())
		},
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
