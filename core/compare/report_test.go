package compare

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/benedoc-inc/docdiff/core/parse"
)

func TestGenerateReport(t *testing.T) {
	result := CompareDocuments(
		`<p>Hello world</p><p>a b</p><img src="a.png" width="100"><table><tr><td>x</td></tr></table>`,
		`<p>Hello there</p><p>a  b</p><img src="b.png" width="100px"><table><tr><td>y</td></tr><tr><td>z</td></tr></table><p>New line</p>`)

	report := GenerateReport(result)
	for _, want := range []string{
		"Document Comparison Report",
		"Documents are DIFFERENT",
		"Line Changes:",
		`[MODIFIED] L1 -> R1: "Hello world" -> "Hello there"`,
		"    - Spaces: 1 → 2",
		`[ADDED] R5: "New line"`,
		"Table Changes:",
		`row 1, col 1: cell-modified "x" -> "y"`,
		`row 2, col 1: row-added "z"`,
		"Image Changes:",
		"Source: a.png -> b.png",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(report, "Size:") {
		t.Error("equivalent image sizes should not be reported")
	}

	t.Logf("Report:\n%s", report)
}

func TestGenerateReport_Identical(t *testing.T) {
	report := GenerateReport(CompareDocuments("<p>same</p>", "<p>same</p>"))
	if !strings.Contains(report, "IDENTICAL") {
		t.Errorf("report = %s", report)
	}
}

func TestGenerateReport_Degraded(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Parser = func(string) (*parse.Document, error) { return nil, errors.New("boom") }
	report := GenerateReport(CompareDocumentsWithOptions("a", "b", opts))

	if !strings.Contains(report, "FAILED") || !strings.Contains(report, "PARSE_FAILURE") {
		t.Errorf("report = %s", report)
	}
	if strings.Contains(report, "IDENTICAL") {
		t.Error("a failed comparison must not read as identical")
	}
}

func TestGenerateJSONReport(t *testing.T) {
	result := CompareDocuments("<p>Hello world</p><p>Goodbye</p>", "<p>Hello there</p><p>Goodbye</p><p>New line</p>")

	jsonReport, err := GenerateJSONReport(result)
	if err != nil {
		t.Fatalf("Failed to generate JSON report: %v", err)
	}

	var decoded struct {
		LeftDiffs []DocumentDiff `json:"left_diffs"`
		Summary   struct {
			Additions int `json:"additions"`
			Deletions int `json:"deletions"`
			Changes   int `json:"changes"`
		} `json:"summary"`
		Detailed struct {
			Lines []struct {
				Status string `json:"status"`
			} `json:"lines"`
			Tables []json.RawMessage `json:"tables"`
		} `json:"detailed"`
	}
	if err := json.Unmarshal([]byte(jsonReport), &decoded); err != nil {
		t.Fatalf("Generated JSON is invalid: %v", err)
	}

	if decoded.Summary.Additions != 2 || decoded.Summary.Deletions != 1 || decoded.Summary.Changes != 3 {
		t.Errorf("summary = %+v", decoded.Summary)
	}
	if len(decoded.Detailed.Lines) != 3 || decoded.Detailed.Lines[0].Status != "MODIFIED" {
		t.Errorf("lines = %+v", decoded.Detailed.Lines)
	}
	if decoded.Detailed.Tables == nil {
		t.Error("tables should serialise as an empty list")
	}
	if len(decoded.LeftDiffs) != 1 || decoded.LeftDiffs[0].Type != DiffModified {
		t.Errorf("left diffs = %+v", decoded.LeftDiffs)
	}
}
