// Package docdiff compares two versions of an HTML rich-text document.
//
// It reports which lines, table cells and images were added, removed or
// modified, renders inline character diffs for modified text, and returns
// both documents annotated with change classes ready for side-by-side display.
//
// # Quick Start
//
//	import "github.com/benedoc-inc/docdiff"
//
//	result := docdiff.Compare(oldHTML, newHTML)
//	fmt.Println(result.Summary.Changes)
//	fmt.Println(result.LeftDiffs[0].Content) // annotated old document
//
// Comparison never fails: internal errors produce an "unchanged" result
// carrying an error-level warning (see ComparisonResult.Degraded).
//
// # Packages
//
//   - core/parse: Markup parsing and tree utilities
//   - core/extract: Comparable unit extraction
//   - core/align: Unit alignment (exact, similarity, leftovers)
//   - core/inline: Character diffs and their markup rendering
//   - core/structure: Table and image comparison
//   - core/annotate: Annotated document rendering
//   - core/compare: The comparison pipeline and reports
//   - config: YAML options and batch manifests
//   - types: Common data structures
package docdiff

import (
	"github.com/benedoc-inc/docdiff/core/compare"
	"github.com/benedoc-inc/docdiff/types"
)

// Re-export common types for convenience.
// Users can import just "github.com/benedoc-inc/docdiff" for basic usage.

// Result is the outcome of a comparison.
type Result = compare.ComparisonResult

// Options configures a comparison.
type Options = compare.CompareOptions

// Summary holds the addition, deletion and change counts.
type Summary = types.ChangeSummary

// Warning is a non-fatal finding attached to a result.
type Warning = types.Warning

// DefaultOptions returns the default comparison options.
func DefaultOptions() Options {
	return compare.DefaultCompareOptions()
}

// Compare compares two documents with the default options.
func Compare(left, right string) *Result {
	return compare.CompareDocuments(left, right)
}

// CompareWithOptions compares two documents with custom options.
func CompareWithOptions(left, right string, opts Options) *Result {
	return compare.CompareDocumentsWithOptions(left, right, opts)
}

// Version returns the library version.
func Version() string {
	return "0.3.0"
}
