package compare

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/benedoc-inc/docdiff/core/align"
	"github.com/benedoc-inc/docdiff/core/parse"
	"github.com/benedoc-inc/docdiff/types"
)

func TestCompareDocuments_Identical(t *testing.T) {
	doc := `<h1>Title</h1><p>Hello <b>world</b></p><ul><li>one</li><li>two</li></ul>` +
		`<img src="a.png"><table><tr><td>1</td></tr></table>`
	result := CompareDocuments(doc, doc)

	if !result.Identical() || result.Summary != types.NewChangeSummary(0, 0) {
		t.Errorf("summary = %+v, want all zero", result.Summary)
	}
	if result.Degraded() || len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Detailed.Lines) == 0 {
		t.Fatal("expected line rows for an identical document")
	}
	for _, row := range result.Detailed.Lines {
		if row.Status != StatusUnchanged {
			t.Errorf("row %+v is not UNCHANGED", row)
		}
	}
	if len(result.Detailed.Tables) != 0 || len(result.Detailed.Images) != 0 {
		t.Errorf("identical document reported structural changes: %+v", result.Detailed)
	}
	if result.LeftDiffs[0].Type != DiffEqual || result.RightDiffs[0].Type != DiffEqual {
		t.Errorf("document tags = %s/%s, want equal", result.LeftDiffs[0].Type, result.RightDiffs[0].Type)
	}
}

func TestCompareDocuments_EndToEnd(t *testing.T) {
	result := CompareDocuments(
		"<p>Hello world</p><p>Goodbye</p>",
		"<p>Hello there</p><p>Goodbye</p><p>New line</p>")

	if result.Summary != types.NewChangeSummary(2, 1) || result.Summary.Changes != 3 {
		t.Errorf("summary = %+v, want {2 1 3}", result.Summary)
	}

	want := []struct {
		status      ChangeStatus
		left, right int
	}{
		{StatusModified, 1, 1},
		{StatusUnchanged, 2, 2},
		{StatusAdded, 0, 3},
	}
	lines := result.Detailed.Lines
	if len(lines) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(lines), len(want), lines)
	}
	for i, w := range want {
		if lines[i].Status != w.status || lines[i].LeftIndex != w.left || lines[i].RightIndex != w.right {
			t.Errorf("row %d = %s L%d R%d, want %s L%d R%d",
				i, lines[i].Status, lines[i].LeftIndex, lines[i].RightIndex, w.status, w.left, w.right)
		}
	}

	inlineDiff := lines[0].RenderedInlineDiff
	if !strings.Contains(inlineDiff, `<span class="git-inline-removed">world</span>`) ||
		!strings.Contains(inlineDiff, `<span class="git-inline-added">there</span>`) {
		t.Errorf("inline diff does not isolate the word: %s", inlineDiff)
	}
	if lines[2].RightContent != "New line" || lines[2].FormatChanges[0] != "Line added" {
		t.Errorf("added row = %+v", lines[2])
	}

	if result.LeftDiffs[0].Type != DiffModified {
		t.Errorf("left tag = %s, want modified", result.LeftDiffs[0].Type)
	}
	if !strings.Contains(result.RightDiffs[0].Content, `class="git-line-added"`) {
		t.Errorf("right rendering = %s", result.RightDiffs[0].Content)
	}
}

func TestCompareDocuments_CountSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"<p>Hello world</p><p>Goodbye</p>", "<p>Hello there</p><p>Goodbye</p><p>New line</p>"},
		{"<p>a</p><p>b</p><p>c</p>", "<p>c</p>"},
		{`<table><tr><td>1</td></tr></table><img src="x.png">`, `<table><tr><td>2</td><td>3</td></tr><tr><td>4</td></tr></table>`},
		{"line one\nline two", "<p>line one</p>line three"},
		{"", "<p>only right</p>"},
	}
	for _, p := range pairs {
		forward := CompareDocuments(p[0], p[1]).Summary
		backward := CompareDocuments(p[1], p[0]).Summary
		if forward.Additions != backward.Deletions || forward.Deletions != backward.Additions {
			t.Errorf("%q vs %q: forward %+v, backward %+v", p[0], p[1], forward, backward)
		}
	}
}

func TestCompareDocuments_WhitespaceOnly(t *testing.T) {
	result := CompareDocuments("<p>a b</p>", "<p>a  b</p>")
	if len(result.Detailed.Lines) != 1 {
		t.Fatalf("rows = %+v", result.Detailed.Lines)
	}
	row := result.Detailed.Lines[0]
	if row.Status != StatusModified || !row.WhitespaceChanged {
		t.Errorf("row = %+v", row)
	}
	if len(row.WhitespaceChanges) != 1 || row.WhitespaceChanges[0] != "Spaces: 1 → 2" {
		t.Errorf("whitespace descriptions = %q", row.WhitespaceChanges)
	}
}

func TestCompareDocuments_FormattingOnly(t *testing.T) {
	result := CompareDocuments(`<p>Title</p>`, `<p style="font-weight: bold">Title</p>`)
	if len(result.Detailed.Lines) != 1 {
		t.Fatalf("rows = %+v", result.Detailed.Lines)
	}
	row := result.Detailed.Lines[0]
	if row.Status != StatusFormattingOnly || row.ContentChanged || !row.FormattingChanged {
		t.Errorf("row = %+v", row)
	}
	if len(row.FormatChanges) != 1 || row.FormatChanges[0] != "Bold: OFF → ON" {
		t.Errorf("format descriptions = %q", row.FormatChanges)
	}
	if result.Summary != types.NewChangeSummary(1, 1) {
		t.Errorf("summary = %+v", result.Summary)
	}
	// Same text, so the document itself is tagged equal.
	if result.LeftDiffs[0].Type != DiffEqual {
		t.Errorf("tag = %s, want equal", result.LeftDiffs[0].Type)
	}
}

func TestCompareDocuments_ContentBeatsFormatting(t *testing.T) {
	result := CompareDocuments(`<p>Quarterly total</p>`, `<p style="font-weight: bold">Quarterly totals</p>`)
	row := result.Detailed.Lines[0]
	if row.Status != StatusModified || !row.ContentChanged || !row.FormattingChanged {
		t.Errorf("row = %+v", row)
	}
}

func TestDescribeFormatChanges_Order(t *testing.T) {
	left := types.FormattingSnapshot{Underline: true, FontFamily: "Arial"}
	right := types.FormattingSnapshot{Italic: true, FontSize: "12px", Color: "red"}
	got := describeFormatChanges(left, right)
	want := []string{
		"Italic: OFF → ON",
		"Underline: ON → OFF",
		"Font Size: default → 12px",
		"Color: default → red",
		"Font: Arial → default",
	}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("description %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompareDocuments_RemovedRowPlacement(t *testing.T) {
	result := CompareDocuments("<p>one</p><p>two</p><p>three</p>", "<p>one</p><p>three</p>")
	var got []string
	for _, row := range result.Detailed.Lines {
		got = append(got, string(row.Status)+":"+row.LeftContent)
	}
	want := "UNCHANGED:one REMOVED:two UNCHANGED:three"
	if strings.Join(got, " ") != want {
		t.Errorf("rows = %q, want %q", strings.Join(got, " "), want)
	}
}

func TestCompareDocuments_Tables(t *testing.T) {
	left := `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`
	right := `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr><tr><td>e</td><td>f</td></tr></table>`
	result := CompareDocuments(left, right)

	if len(result.Detailed.Tables) != 1 {
		t.Fatalf("tables = %+v", result.Detailed.Tables)
	}
	table := result.Detailed.Tables[0]
	if table.TableOrdinal != 1 || table.Status != StatusModified || len(table.CellChanges) != 2 {
		t.Errorf("table report = %+v", table)
	}
	for _, c := range table.CellChanges {
		if c.Kind != types.CellRowAdded {
			t.Errorf("cell change kind = %s, want row-added", c.Kind)
		}
	}
	if result.Summary.Additions != 2 || result.Summary.Deletions != 0 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if len(result.Detailed.Lines) != 0 {
		t.Errorf("tables should not produce line rows: %+v", result.Detailed.Lines)
	}
}

func TestCompareDocuments_Images(t *testing.T) {
	result := CompareDocuments(`<img src="a.png" width="100">`, `<img src="a.png" width="200">`)
	if len(result.Detailed.Images) != 1 {
		t.Fatalf("images = %+v", result.Detailed.Images)
	}
	img := result.Detailed.Images[0]
	if img.ImageOrdinal != 1 || img.Status != StatusModified {
		t.Errorf("image report = %+v", img)
	}
	if img.LeftImage == nil || img.LeftImage.Width != "100" || img.RightImage == nil || img.RightImage.Width != "200" {
		t.Errorf("snapshots = %+v / %+v", img.LeftImage, img.RightImage)
	}
	if result.Summary != types.NewChangeSummary(1, 1) {
		t.Errorf("summary = %+v, want {1 1 2}", result.Summary)
	}
}

func TestCompareDocuments_ImageInsideTableCell(t *testing.T) {
	left := `<p>Intro</p><table><tr><td><img src="a.png" width="100"></td></tr></table>`
	right := `<p>Intro</p><table><tr><td><img src="b.png" width="300"></td></tr></table>`
	result := CompareDocuments(left, right)

	if len(result.Detailed.Images) != 1 {
		t.Fatalf("images = %+v, want one", result.Detailed.Images)
	}
	img := result.Detailed.Images[0]
	if img.ImageOrdinal != 1 || img.Status != StatusModified {
		t.Errorf("image report = %+v", img)
	}
	if img.LeftImage.Source != "a.png" || img.RightImage.Source != "b.png" || img.RightImage.Width != "300" {
		t.Errorf("snapshots = %+v / %+v", img.LeftImage, img.RightImage)
	}
	if len(result.Detailed.Tables) != 0 {
		t.Errorf("an image change should not modify the table: %+v", result.Detailed.Tables)
	}
	if result.Summary != types.NewChangeSummary(1, 1) {
		t.Errorf("summary = %+v, want {1 1 2}", result.Summary)
	}
	if !strings.Contains(result.RightDiffs[0].Content, "git-image-modified") {
		t.Errorf("right side not annotated: %s", result.RightDiffs[0].Content)
	}
}

func TestCompareDocuments_ImageOrdinalsSpanTables(t *testing.T) {
	left := `<img src="top.png"><table><tr><td><img src="cell.png"></td></tr></table>`
	right := `<img src="top.png"><table><tr><td><img src="cell.png"></td></tr></table><img src="new.png">`
	result := CompareDocuments(left, right)

	if len(result.Detailed.Images) != 1 {
		t.Fatalf("images = %+v", result.Detailed.Images)
	}
	img := result.Detailed.Images[0]
	if img.ImageOrdinal != 3 || img.Status != StatusAdded || img.RightImage.Source != "new.png" {
		t.Errorf("image report = %+v", img)
	}
}

func TestCompareDocuments_NestedTableSeenThroughOuterCell(t *testing.T) {
	left := `<table><tr><td>outer<table><tr><td>inner</td></tr></table></td></tr></table>`
	right := `<table><tr><td>outer<table><tr><td>changed</td></tr></table></td></tr></table>`
	result := CompareDocuments(left, right)

	if len(result.Detailed.Tables) != 1 {
		t.Fatalf("tables = %+v, want only the outer table", result.Detailed.Tables)
	}
	table := result.Detailed.Tables[0]
	if table.TableOrdinal != 1 || table.Status != StatusModified || len(table.CellChanges) != 1 {
		t.Fatalf("table report = %+v", table)
	}
	c := table.CellChanges[0]
	if c.Kind != types.CellModified || c.Row != 0 || c.Col != 0 {
		t.Errorf("cell change = %+v", c)
	}
	if c.LeftContent != "outerinner" || c.RightContent != "outerchanged" {
		t.Errorf("cell contents = %q -> %q", c.LeftContent, c.RightContent)
	}
	if result.Summary != types.NewChangeSummary(1, 1) {
		t.Errorf("summary = %+v, want {1 1 2}", result.Summary)
	}
}

func TestCompareDocuments_FallbackOnParseFailure(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Parser = func(string) (*parse.Document, error) {
		return nil, errors.New("tree builder unavailable")
	}
	left, right := "<p>a</p>", "<p>b</p>"
	result := CompareDocumentsWithOptions(left, right, opts)

	assertFallback(t, result, left, right, types.ErrCodeParseFailure)
}

func TestCompareDocuments_FallbackOnPanic(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Parser = func(string) (*parse.Document, error) {
		panic("unexpected tree shape")
	}
	result := CompareDocumentsWithOptions("x", "y", opts)

	assertFallback(t, result, "x", "y", types.ErrCodeComparisonFailure)
}

func TestCompareDocuments_FallbackOnNilTree(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Parser = func(markup string) (*parse.Document, error) {
		return &parse.Document{Markup: markup}, nil
	}
	result := CompareDocumentsWithOptions("x", "y", opts)

	assertFallback(t, result, "x", "y", types.ErrCodeParseFailure)
}

func TestCompareDocuments_InvalidOptions(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.SimilarityThreshold = 1.5
	result := CompareDocumentsWithOptions("x", "y", opts)

	assertFallback(t, result, "x", "y", types.ErrCodeInvalidInput)
}

func TestCompareDocuments_ForeignErrorCodeBecomesComparisonFailure(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Parser = func(string) (*parse.Document, error) {
		return nil, types.NewDiffError(types.ErrCodeIOError, "markup source closed")
	}
	result := CompareDocumentsWithOptions("x", "y", opts)

	assertFallback(t, result, "x", "y", types.ErrCodeComparisonFailure)
}

func TestComparisonResult_Degraded(t *testing.T) {
	tests := []struct {
		name     string
		warnings []*types.Warning
		want     bool
	}{
		{"no warnings", nil, false},
		{"parse failure", []*types.Warning{types.WarningFromError(types.NewDiffError(types.ErrCodeParseFailure, "bad"))}, true},
		{"invalid input", []*types.Warning{types.WarningFromError(types.NewDiffError(types.ErrCodeInvalidInput, "bad"))}, true},
		{"render failure only", []*types.Warning{types.WarningFromError(types.NewDiffError(types.ErrCodeRenderFailure, "bad"))}, false},
		{"info level", []*types.Warning{{Level: types.WarningLevelInfo, Code: string(types.ErrCodeParseFailure)}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &ComparisonResult{Warnings: tt.warnings}
			if got := r.Degraded(); got != tt.want {
				t.Errorf("Degraded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func assertFallback(t *testing.T, result *ComparisonResult, left, right string, code types.DiffErrorCode) {
	t.Helper()
	if !result.Degraded() {
		t.Error("fallback result should be degraded")
	}
	if result.Summary != types.NewChangeSummary(0, 0) {
		t.Errorf("summary = %+v, want zero", result.Summary)
	}
	if result.LeftDiffs[0].Type != DiffEqual || result.LeftDiffs[0].Content != left {
		t.Errorf("left diff = %+v", result.LeftDiffs[0])
	}
	if result.RightDiffs[0].Type != DiffEqual || result.RightDiffs[0].Content != right {
		t.Errorf("right diff = %+v", result.RightDiffs[0])
	}
	if len(result.Detailed.Lines) != 0 || len(result.Detailed.Tables) != 0 || len(result.Detailed.Images) != 0 {
		t.Errorf("fallback detail should be empty: %+v", result.Detailed)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != string(code) {
		t.Fatalf("warnings = %v, want one %s", result.Warnings, code)
	}
	if result.Warnings[0].Level != types.WarningLevelError {
		t.Errorf("warning level = %s", result.Warnings[0].Level)
	}
}

func TestCompareDocuments_QuickTextCheck(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.QuickTextCheck = true
	result := CompareDocumentsWithOptions(`<p>Title</p>`, `<p><b>Title</b></p>`, opts)

	if !result.Identical() || len(result.Detailed.Lines) != 0 {
		t.Errorf("quick check should skip the detail: %+v", result)
	}
	if result.Degraded() {
		t.Error("quick check result is not a failure")
	}
	if result.RightDiffs[0].Content != `<p><b>Title</b></p>` {
		t.Errorf("content = %q", result.RightDiffs[0].Content)
	}
}

func TestCompareDocuments_AnnotateDisabled(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Annotate = false
	result := CompareDocumentsWithOptions("<p>a</p>", "<p>b</p>", opts)
	if result.LeftDiffs[0].Content != "<p>a</p>" || result.RightDiffs[0].Content != "<p>b</p>" {
		t.Errorf("diffs = %+v / %+v", result.LeftDiffs, result.RightDiffs)
	}
	if result.LeftDiffs[0].Type != DiffModified {
		t.Errorf("tag = %s, want modified", result.LeftDiffs[0].Type)
	}
}

func TestCompareDocuments_SequenceStrategy(t *testing.T) {
	opts := DefaultCompareOptions()
	opts.Strategy = align.StrategySequence
	result := CompareDocumentsWithOptions("<p>a</p><p>b</p>", "<p>b</p><p>a</p>", opts)
	if result.Degraded() {
		t.Fatalf("warnings: %v", result.Warnings)
	}
	// One unit keeps its place; the other is reported as moved content.
	if result.Summary != types.NewChangeSummary(1, 1) {
		t.Errorf("summary = %+v", result.Summary)
	}
}

func TestCompareAsync(t *testing.T) {
	ch := CompareAsync("<p>Hello world</p>", "<p>Hello there</p>", DefaultCompareOptions())
	result, ok := <-ch
	if !ok || result == nil {
		t.Fatal("no result received")
	}
	if result.Summary.Changes != 2 {
		t.Errorf("summary = %+v", result.Summary)
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after the result")
	}
}

func TestCompareDocuments_ConcurrentCallsAgree(t *testing.T) {
	left := "<p>Hello world</p><p>Goodbye</p><img src=\"a.png\">"
	right := "<p>Hello there</p><p>Goodbye</p><p>New line</p>"
	want, err := GenerateJSONReport(CompareDocuments(left, right))
	if err != nil {
		t.Fatalf("GenerateJSONReport: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = GenerateJSONReport(CompareDocuments(left, right))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if got != want {
			t.Errorf("concurrent call %d produced a different result", i)
		}
	}
}
