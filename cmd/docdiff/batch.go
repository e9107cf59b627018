package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/benedoc-inc/docdiff/config"
	"github.com/benedoc-inc/docdiff/core/compare"
)

// pairOutcome is the result of one manifest pair. err is set when a document
// could not be read; comparison itself never fails.
type pairOutcome struct {
	pair   config.Pair
	result *compare.ComparisonResult
	err    error
}

func batchCmd(root *rootFlags) *cobra.Command {
	var concurrency int
	var out string
	opt := &optionFlags{}

	cmd := &cobra.Command{
		Use:   "batch <manifest>",
		Short: "Compare every document pair listed in a YAML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), root.verbose)

			manifest, err := config.LoadManifest(args[0])
			if err != nil {
				return err
			}
			cfg := &manifest.Options
			if root.config != "" {
				if cfg, err = config.Load(root.config); err != nil {
					return err
				}
			}
			if err := opt.apply(cmd, cfg); err != nil {
				return err
			}
			opts := cfg.CompareOptions()
			opts.Logger = logger

			outcomes, err := runBatch(cmd.Context(), manifest.Pairs, opts, concurrency, logger)
			if err != nil {
				return err
			}

			if out != "" {
				for _, o := range outcomes {
					if o.result == nil {
						continue
					}
					if err := writeOutputs(filepath.Join(out, o.pair.Name), o.result, logger); err != nil {
						return err
					}
				}
			}

			if err := printBatch(cmd.OutOrStdout(), outcomes, !root.noColor); err != nil {
				return err
			}
			failed := 0
			for _, o := range outcomes {
				if o.err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d pairs could not be compared", failed, len(outcomes))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "number of pairs compared at once")
	cmd.Flags().StringVarP(&out, "out", "o", "", "directory receiving one sub-directory of outputs per pair")
	opt.register(cmd)
	return cmd
}

// runBatch compares the pairs with at most limit comparisons in flight.
// Outcomes keep manifest order.
func runBatch(ctx context.Context, pairs []config.Pair, opts compare.CompareOptions, limit int, logger *slog.Logger) ([]pairOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit < 1 {
		limit = 1
	}
	outcomes := make([]pairOutcome, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = comparePair(pair, opts, logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func comparePair(pair config.Pair, opts compare.CompareOptions, logger *slog.Logger) pairOutcome {
	outcome := pairOutcome{pair: pair}
	left, err := readDocument(pair.Left)
	if err != nil {
		logger.Error("skipping pair", "pair", pair.Name, "error", err)
		outcome.err = err
		return outcome
	}
	right, err := readDocument(pair.Right)
	if err != nil {
		logger.Error("skipping pair", "pair", pair.Name, "error", err)
		outcome.err = err
		return outcome
	}
	opts.Logger = logger.With("pair", pair.Name)
	outcome.result = compare.CompareDocumentsWithOptions(left, right, opts)
	logger.Debug("pair compared", "pair", pair.Name, "changes", outcome.result.Summary.Changes)
	return outcome
}

func printBatch(w io.Writer, outcomes []pairOutcome, colored bool) error {
	table := tablewriter.NewWriter(w)
	table.Header("Pair", "Result", "Additions", "Deletions", "Changes", "Warnings")
	for _, o := range outcomes {
		var row []string
		if o.err != nil {
			row = []string{o.pair.Name, paint(resultFailed, colored), "-", "-", "-", truncate(o.err.Error())}
		} else {
			s := o.result.Summary
			row = []string{
				o.pair.Name,
				paint(resultOf(o.result), colored),
				strconv.Itoa(s.Additions),
				strconv.Itoa(s.Deletions),
				strconv.Itoa(s.Changes),
				strconv.Itoa(len(o.result.Warnings)),
			}
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
