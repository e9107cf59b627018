// Package compare is the entry point of the document comparison. It runs the
// parse, extract, align, structural diff, report and annotate stages and turns
// any failure into an "unchanged" result.
package compare

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/annotate"
	"github.com/benedoc-inc/docdiff/core/extract"
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/core/structure"
	"github.com/benedoc-inc/docdiff/types"
)

// DiffType tags a whole document
type DiffType string

const (
	DiffEqual    DiffType = "equal"
	DiffModified DiffType = "modified"
)

// DocumentDiff carries the annotated markup of one side
type DocumentDiff struct {
	Type    DiffType `json:"type"`
	Content string   `json:"content"`
}

// ComparisonResult represents the result of comparing two documents
type ComparisonResult struct {
	LeftDiffs  []DocumentDiff      `json:"left_diffs"`
	RightDiffs []DocumentDiff      `json:"right_diffs"`
	Summary    types.ChangeSummary `json:"summary"`
	Detailed   DetailedReport      `json:"detailed"`
	Warnings   []*types.Warning    `json:"warnings,omitempty"`
}

// DetailedReport lists changes at line, table and image granularity
type DetailedReport struct {
	Lines  []LineRow     `json:"lines"`
	Tables []TableReport `json:"tables"`
	Images []ImageReport `json:"images"`
}

// TableReport describes a changed table
type TableReport struct {
	TableOrdinal int                `json:"table_ordinal"` // 1-based
	Status       ChangeStatus       `json:"status"`
	RowCount     int                `json:"row_count"` // Of the right table, or the left one when removed
	ColumnCount  int                `json:"column_count"`
	CellChanges  []types.CellChange `json:"cell_changes,omitempty"`
}

// ImageReport describes a changed image
type ImageReport struct {
	ImageOrdinal int                  `json:"image_ordinal"` // 1-based
	Status       ChangeStatus         `json:"status"`
	LeftImage    *types.ImageSnapshot `json:"left_image,omitempty"`
	RightImage   *types.ImageSnapshot `json:"right_image,omitempty"`
}

// Identical reports whether no change was counted
func (r *ComparisonResult) Identical() bool {
	return r.Summary.Changes == 0
}

// Degraded reports whether the result is the unchanged fallback produced after
// an internal failure, as opposed to a comparison of identical documents
func (r *ComparisonResult) Degraded() bool {
	for _, w := range r.Warnings {
		if w.Level == types.WarningLevelError && types.IsFallbackCode(types.DiffErrorCode(w.Code)) {
			return true
		}
	}
	return false
}

// CompareOptions configures document comparison behavior.
// Start from DefaultCompareOptions; a zero value turns off normalisation and annotation.
type CompareOptions struct {
	// Alignment
	SimilarityThreshold float64        // Minimum similarity (exclusive) for a modified pair (default: 0.5)
	Strategy            align.Strategy // greedy or sequence (default: greedy)

	// Extraction
	Granularity      extract.Granularity // block or mixed (default: block)
	NormalizeUnicode bool                // NFC-normalise text before comparing (default: true)

	// Output
	QuickTextCheck bool // Skip the detailed report when the text content is identical
	Annotate       bool // Render annotated markup for both sides (default: true)

	Parser parse.Parser // Markup-to-tree collaborator (default: parse.Parse)
	Logger *slog.Logger // Stage logging (default: discarded)
}

// DefaultCompareOptions returns default comparison options
func DefaultCompareOptions() CompareOptions {
	return CompareOptions{
		SimilarityThreshold: align.DefaultSimilarityThreshold,
		Strategy:            align.StrategyGreedy,
		Granularity:         extract.GranularityBlock,
		NormalizeUnicode:    true,
		Annotate:            true,
	}
}

// Validate checks the option values
func (o CompareOptions) Validate() error {
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold >= 1 {
		return types.NewDiffErrorf(types.ErrCodeInvalidInput, "similarity threshold %v outside [0, 1)", o.SimilarityThreshold)
	}
	switch o.Granularity {
	case "", extract.GranularityBlock, extract.GranularityMixed:
	default:
		return types.NewDiffErrorf(types.ErrCodeInvalidInput, "unknown granularity %q", o.Granularity)
	}
	switch o.Strategy {
	case "", align.StrategyGreedy, align.StrategySequence:
	default:
		return types.NewDiffErrorf(types.ErrCodeInvalidInput, "unknown alignment strategy %q", o.Strategy)
	}
	return nil
}

func (o CompareOptions) withDefaults() CompareOptions {
	if o.SimilarityThreshold == 0 {
		o.SimilarityThreshold = align.DefaultSimilarityThreshold
	}
	if o.Strategy == "" {
		o.Strategy = align.StrategyGreedy
	}
	if o.Granularity == "" {
		o.Granularity = extract.GranularityBlock
	}
	if o.Parser == nil {
		o.Parser = parse.Parse
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// CompareDocuments compares two documents with the default options
func CompareDocuments(left, right string) *ComparisonResult {
	return CompareDocumentsWithOptions(left, right, DefaultCompareOptions())
}

// CompareDocumentsWithOptions compares two documents with custom options.
//
// It never fails: when any stage errors or panics, both sides are reported as
// equal with their original markup and the result carries one error-level
// warning holding the failure code (see Degraded).
func CompareDocumentsWithOptions(left, right string, opts CompareOptions) (result *ComparisonResult) {
	opts = opts.withDefaults()
	logger := opts.Logger

	defer func() {
		if r := recover(); r != nil {
			err := types.NewDiffErrorf(types.ErrCodeComparisonFailure, "comparison panicked: %v", r)
			logger.Error("comparison failed, reporting documents as unchanged", "error", err)
			result = fallbackResult(left, right, err)
		}
	}()

	if err := opts.Validate(); err != nil {
		logger.Error("invalid comparison options", "error", err)
		return fallbackResult(left, right, err)
	}

	result, err := compareDocuments(left, right, opts)
	if err != nil {
		if !types.IsPipelineError(err) {
			err = types.WrapError(types.ErrCodeComparisonFailure, "comparison failed", err)
		}
		code, _ := types.GetErrorCode(err)
		logger.Error("comparison failed, reporting documents as unchanged", "code", code, "error", err)
		return fallbackResult(left, right, err)
	}
	return result
}

// CompareAsync runs the comparison on its own goroutine. The channel receives
// exactly one result and is then closed. There is no cancellation; a caller
// that loses interest simply drops the channel.
func CompareAsync(left, right string, opts CompareOptions) <-chan *ComparisonResult {
	ch := make(chan *ComparisonResult, 1)
	go func() {
		defer close(ch)
		ch <- CompareDocumentsWithOptions(left, right, opts)
	}()
	return ch
}

func compareDocuments(left, right string, opts CompareOptions) (*ComparisonResult, error) {
	logger := opts.Logger
	warnings := types.NewWarningCollector(true)

	leftDoc, err := parseSide(opts.Parser, left, inline.SideLeft)
	if err != nil {
		return nil, err
	}
	rightDoc, err := parseSide(opts.Parser, right, inline.SideRight)
	if err != nil {
		return nil, err
	}

	docType := DiffModified
	if strings.TrimSpace(leftDoc.TextContent()) == strings.TrimSpace(rightDoc.TextContent()) {
		docType = DiffEqual
		if opts.QuickTextCheck {
			logger.Debug("text content identical, skipping detailed comparison")
			return equalResult(left, right), nil
		}
	}

	extractOpts := extract.Options{Granularity: opts.Granularity, NormalizeUnicode: opts.NormalizeUnicode}
	leftUnits, err := extractSide(leftDoc, extractOpts, inline.SideLeft)
	if err != nil {
		return nil, err
	}
	rightUnits, err := extractSide(rightDoc, extractOpts, inline.SideRight)
	if err != nil {
		return nil, err
	}
	logger.Debug("extracted units", "left", len(leftUnits), "right", len(rightUnits))

	records := align.Align(leftUnits, rightUnits, align.Options{
		Threshold: opts.SimilarityThreshold,
		Strategy:  opts.Strategy,
	})
	tables := structure.CompareTables(
		extract.FilterKind(leftUnits, types.UnitTable),
		extract.FilterKind(rightUnits, types.UnitTable),
	)
	images := structure.CompareImages(
		extract.FilterKind(leftUnits, types.UnitImage),
		extract.FilterKind(rightUnits, types.UnitImage),
	)
	logger.Debug("aligned units",
		"records", len(records), "table_changes", len(tables.Changes), "image_changes", len(images.Changes))

	lines, lineSummary := buildLineRows(records)
	result := &ComparisonResult{
		Summary: lineSummary.Add(tables.Summary).Add(images.Summary),
		Detailed: DetailedReport{
			Lines:  lines,
			Tables: tableReports(tables),
			Images: imageReports(images),
		},
	}

	leftContent, rightContent := left, right
	if opts.Annotate {
		leftContent = renderSide(annotate.Input{
			Side: inline.SideLeft, Doc: leftDoc, Units: leftUnits,
			Records: records, Tables: tables.Changes, Images: images.Changes,
		}, left, warnings, logger)
		rightContent = renderSide(annotate.Input{
			Side: inline.SideRight, Doc: rightDoc, Units: rightUnits,
			Records: records, Tables: tables.Changes, Images: images.Changes,
		}, right, warnings, logger)
	}
	result.LeftDiffs = []DocumentDiff{{Type: docType, Content: leftContent}}
	result.RightDiffs = []DocumentDiff{{Type: docType, Content: rightContent}}
	result.Warnings = warnings.Warnings()
	if warnings.HasWarnings() {
		logger.Warn("comparison finished with warnings", "count", warnings.Count())
	}

	logger.Debug("comparison finished",
		"additions", result.Summary.Additions, "deletions", result.Summary.Deletions)
	return result, nil
}

func parseSide(parser parse.Parser, markup string, side inline.Side) (doc *parse.Document, err error) {
	doc, err = parser(markup)
	if err != nil {
		if diffErr, ok := types.IsDiffError(err); ok {
			return nil, diffErr.WithContext("side", side.String())
		}
		return nil, types.WrapErrorf(types.ErrCodeParseFailure, err, "failed to parse %s document", side).
			WithContext("side", side.String())
	}
	if doc == nil || doc.Root == nil {
		return nil, types.NewDiffErrorf(types.ErrCodeParseFailure, "parser returned no tree for %s document", side).
			WithContext("side", side.String())
	}
	return doc, nil
}

func extractSide(doc *parse.Document, opts extract.Options, side inline.Side) ([]types.ComparableUnit, error) {
	units, err := extract.Extract(doc.Root, opts)
	if err != nil {
		if diffErr, ok := types.IsDiffError(err); ok {
			return nil, diffErr.WithContext("side", side.String())
		}
		return nil, types.WrapError(types.ErrCodeExtractionFailure, fmt.Sprintf("failed to extract %s document", side), err)
	}
	return units, nil
}

// renderSide annotates one side. A rendering failure keeps the report and
// falls back to the original markup for that side.
func renderSide(in annotate.Input, original string, warnings *types.WarningCollector, logger *slog.Logger) string {
	out, err := annotate.Render(in)
	if err != nil {
		logger.Error("annotation failed, using original markup", "side", in.Side.String(), "error", err)
		warnings.Add(types.WarningFromError(err).WithContext("side", in.Side.String()))
		return original
	}
	return out
}

func equalResult(left, right string) *ComparisonResult {
	return &ComparisonResult{
		LeftDiffs:  []DocumentDiff{{Type: DiffEqual, Content: left}},
		RightDiffs: []DocumentDiff{{Type: DiffEqual, Content: right}},
		Summary:    types.NewChangeSummary(0, 0),
		Detailed: DetailedReport{
			Lines:  []LineRow{},
			Tables: []TableReport{},
			Images: []ImageReport{},
		},
	}
}

func fallbackResult(left, right string, err error) *ComparisonResult {
	result := equalResult(left, right)
	result.Warnings = []*types.Warning{types.WarningFromError(err)}
	return result
}
