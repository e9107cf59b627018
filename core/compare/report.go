package compare

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benedoc-inc/docdiff/core/structure"
)

// GenerateReport generates a human-readable report from a comparison result
func GenerateReport(result *ComparisonResult) string {
	var report strings.Builder

	report.WriteString("Document Comparison Report\n")
	report.WriteString(strings.Repeat("=", 50) + "\n\n")

	if result.Degraded() {
		report.WriteString("⚠️  Comparison FAILED, documents reported as unchanged\n\n")
		writeWarnings(&report, result)
		return report.String()
	}

	if result.Identical() {
		report.WriteString("✅ Documents are IDENTICAL\n")
		writeWarnings(&report, result)
		return report.String()
	}

	report.WriteString("❌ Documents are DIFFERENT\n\n")
	report.WriteString(fmt.Sprintf("Additions: %d\n", result.Summary.Additions))
	report.WriteString(fmt.Sprintf("Deletions: %d\n", result.Summary.Deletions))
	report.WriteString(fmt.Sprintf("Total Changes: %d\n\n", result.Summary.Changes))

	// Line changes
	changed := 0
	for _, row := range result.Detailed.Lines {
		if row.Status != StatusUnchanged {
			changed++
		}
	}
	if changed > 0 {
		report.WriteString("Line Changes:\n")
		report.WriteString(strings.Repeat("-", 30) + "\n")
		for _, row := range result.Detailed.Lines {
			if row.Status == StatusUnchanged {
				continue
			}
			switch row.Status {
			case StatusAdded:
				report.WriteString(fmt.Sprintf("  [%s] R%d: %q\n", row.Status, row.RightIndex, row.RightContent))
			case StatusRemoved:
				report.WriteString(fmt.Sprintf("  [%s] L%d: %q\n", row.Status, row.LeftIndex, row.LeftContent))
			default:
				report.WriteString(fmt.Sprintf("  [%s] L%d -> R%d: %q -> %q\n",
					row.Status, row.LeftIndex, row.RightIndex, row.LeftContent, row.RightContent))
				for _, d := range row.FormatChanges {
					report.WriteString(fmt.Sprintf("    - %s\n", d))
				}
				for _, d := range row.WhitespaceChanges {
					report.WriteString(fmt.Sprintf("    - %s\n", d))
				}
			}
		}
		report.WriteString("\n")
	}

	// Table changes
	if len(result.Detailed.Tables) > 0 {
		report.WriteString("Table Changes:\n")
		report.WriteString(strings.Repeat("-", 30) + "\n")
		for _, t := range result.Detailed.Tables {
			report.WriteString(fmt.Sprintf("  Table %d: %s (%d rows × %d columns)\n",
				t.TableOrdinal, t.Status, t.RowCount, t.ColumnCount))
			for _, c := range t.CellChanges {
				report.WriteString(fmt.Sprintf("    - row %d, col %d: %s", c.Row+1, c.Col+1, c.Kind))
				switch {
				case c.LeftContent != "" && c.RightContent != "" && c.LeftContent != c.RightContent:
					report.WriteString(fmt.Sprintf(" %q -> %q", c.LeftContent, c.RightContent))
				case c.RightContent != "":
					report.WriteString(fmt.Sprintf(" %q", c.RightContent))
				case c.LeftContent != "":
					report.WriteString(fmt.Sprintf(" %q", c.LeftContent))
				}
				if c.FormattingChanged {
					report.WriteString(" (formatting)")
				}
				report.WriteString("\n")
			}
		}
		report.WriteString("\n")
	}

	// Image changes
	if len(result.Detailed.Images) > 0 {
		report.WriteString("Image Changes:\n")
		report.WriteString(strings.Repeat("-", 30) + "\n")
		for _, img := range result.Detailed.Images {
			report.WriteString(fmt.Sprintf("  Image %d: %s\n", img.ImageOrdinal, img.Status))
			l, r := img.LeftImage, img.RightImage
			switch {
			case l != nil && r != nil:
				if l.Source != r.Source {
					report.WriteString(fmt.Sprintf("    Source: %s -> %s\n", l.Source, r.Source))
				}
				if structure.NormalizeDimension(l.Width) != structure.NormalizeDimension(r.Width) ||
					structure.NormalizeDimension(l.Height) != structure.NormalizeDimension(r.Height) {
					report.WriteString(fmt.Sprintf("    Size: %sx%s -> %sx%s\n",
						orDefault(l.Width), orDefault(l.Height), orDefault(r.Width), orDefault(r.Height)))
				}
				if l.AltText != r.AltText {
					report.WriteString(fmt.Sprintf("    Alt: %q -> %q\n", l.AltText, r.AltText))
				}
			case r != nil:
				report.WriteString(fmt.Sprintf("    Source: %s\n", r.Source))
			case l != nil:
				report.WriteString(fmt.Sprintf("    Source: %s\n", l.Source))
			}
		}
		report.WriteString("\n")
	}

	writeWarnings(&report, result)
	return report.String()
}

func writeWarnings(report *strings.Builder, result *ComparisonResult) {
	if len(result.Warnings) == 0 {
		return
	}
	report.WriteString("Warnings:\n")
	report.WriteString(strings.Repeat("-", 30) + "\n")
	for _, w := range result.Warnings {
		report.WriteString(fmt.Sprintf("  %s\n", w.Error()))
	}
	report.WriteString("\n")
}

// GenerateJSONReport generates a JSON report from a comparison result
func GenerateJSONReport(result *ComparisonResult) (string, error) {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal comparison result: %w", err)
	}
	return string(jsonBytes), nil
}
