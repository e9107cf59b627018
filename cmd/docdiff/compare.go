package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/benedoc-inc/docdiff/config"
	"github.com/benedoc-inc/docdiff/core/compare"
	"github.com/benedoc-inc/docdiff/types"
)

// optionFlags override values loaded from a config file
type optionFlags struct {
	threshold   float64
	granularity string
	strategy    string
}

func (f *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0.5, "minimum similarity (exclusive) for a modified pair")
	cmd.Flags().StringVar(&f.granularity, "granularity", "block", "unit granularity: block|mixed")
	cmd.Flags().StringVar(&f.strategy, "strategy", "greedy", "alignment strategy: greedy|sequence")
}

// apply overlays the flags the user actually set on cfg
func (f *optionFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = &f.threshold
	}
	if cmd.Flags().Changed("granularity") {
		cfg.Granularity = f.granularity
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = f.strategy
	}
	return cfg.Validate()
}

func compareCmd(root *rootFlags) *cobra.Command {
	var format string
	var out string
	var exitCode bool
	opt := &optionFlags{}

	cmd := &cobra.Command{
		Use:   "compare <left> <right>",
		Short: "Compare two HTML documents and print a report",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), root.verbose)

			cfg := &config.Config{}
			if root.config != "" {
				loaded, err := config.Load(root.config)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if err := opt.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.CompareOptions()
			opts.Logger = logger

			left, err := readDocument(args[0])
			if err != nil {
				return err
			}
			right, err := readDocument(args[1])
			if err != nil {
				return err
			}

			logger.Debug("comparing documents", "left", args[0], "right", args[1])
			result := compare.CompareDocumentsWithOptions(left, right, opts)

			if err := printResult(cmd.OutOrStdout(), result, format, !root.noColor); err != nil {
				return err
			}
			if out != "" {
				if err := writeOutputs(out, result, logger); err != nil {
					return err
				}
				logger.Info("wrote annotated documents", "dir", out)
			}
			if exitCode && !result.Identical() {
				return errDifferent
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text|json|table")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory for the annotated documents and JSON report")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the documents differ")
	opt.register(cmd)
	return cmd
}

var errDifferent = errors.New("documents differ")

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", types.WrapErrorf(types.ErrCodeIOError, err, "failed to read %s", path)
	}
	return string(data), nil
}

// writeOutputs writes left.html, right.html and report.json into dir
func writeOutputs(dir string, result *compare.ComparisonResult, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.WrapErrorf(types.ErrCodeIOError, err, "failed to create %s", dir)
	}
	report, err := compare.GenerateJSONReport(result)
	if err != nil {
		return err
	}
	files := map[string]string{
		"left.html":   content(result.LeftDiffs),
		"right.html":  content(result.RightDiffs),
		"report.json": report,
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return types.WrapErrorf(types.ErrCodeIOError, err, "failed to write %s", path)
		}
		logger.Debug("wrote output", "path", path)
	}
	return nil
}

func content(diffs []compare.DocumentDiff) string {
	if len(diffs) == 0 {
		return ""
	}
	return diffs[0].Content
}
