package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/benedoc-inc/docdiff/core/compare"
	"github.com/benedoc-inc/docdiff/types"
)

const (
	formatText  = "text"
	formatJSON  = "json"
	formatTable = "table"

	// maxCellWidth bounds content columns in terminal tables
	maxCellWidth = 40
)

var statusColors = map[string]color.Attribute{
	string(compare.StatusAdded):          color.FgGreen,
	string(compare.StatusRemoved):        color.FgRed,
	string(compare.StatusModified):       color.FgYellow,
	string(compare.StatusFormattingOnly): color.FgCyan,
	resultIdentical:                      color.FgGreen,
	resultDifferent:                      color.FgYellow,
	resultFailed:                         color.FgRed,
}

const (
	resultIdentical = "IDENTICAL"
	resultDifferent = "DIFFERENT"
	resultFailed    = "FAILED"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatTable:
		return nil
	}
	return types.NewDiffErrorf(types.ErrCodeInvalidInput, "unknown output format %q (want text, json or table)", format)
}

func printResult(w io.Writer, result *compare.ComparisonResult, format string, colored bool) error {
	switch format {
	case formatText:
		_, err := io.WriteString(w, compare.GenerateReport(result))
		return err
	case formatJSON:
		report, err := compare.GenerateJSONReport(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, report)
		return err
	case formatTable:
		return printTables(w, result, colored)
	}
	return checkFormat(format)
}

// printTables renders the summary and every changed line, table and image
func printTables(w io.Writer, result *compare.ComparisonResult, colored bool) error {
	s := result.Summary
	fmt.Fprintf(w, "%s  +%d -%d (%d changes)\n\n", paint(resultOf(result), colored), s.Additions, s.Deletions, s.Changes)

	lines := tablewriter.NewWriter(w)
	lines.Header("Left", "Right", "Status", "Before", "After", "Details")
	rows := 0
	for _, row := range result.Detailed.Lines {
		if row.Status == compare.StatusUnchanged {
			continue
		}
		details := append(append([]string{}, row.FormatChanges...), row.WhitespaceChanges...)
		if err := lines.Append([]string{
			lineRef(row.LeftIndex),
			lineRef(row.RightIndex),
			paint(string(row.Status), colored),
			truncate(row.LeftContent),
			truncate(row.RightContent),
			strings.Join(details, "; "),
		}); err != nil {
			return err
		}
		rows++
	}
	if rows > 0 {
		if err := lines.Render(); err != nil {
			return err
		}
	}

	if len(result.Detailed.Tables) == 0 && len(result.Detailed.Images) == 0 {
		return nil
	}
	structural := tablewriter.NewWriter(w)
	structural.Header("Element", "Status", "Details")
	for _, t := range result.Detailed.Tables {
		if err := structural.Append([]string{
			fmt.Sprintf("table %d", t.TableOrdinal),
			paint(string(t.Status), colored),
			fmt.Sprintf("%d rows × %d columns, %d cell changes", t.RowCount, t.ColumnCount, len(t.CellChanges)),
		}); err != nil {
			return err
		}
	}
	for _, img := range result.Detailed.Images {
		if err := structural.Append([]string{
			fmt.Sprintf("image %d", img.ImageOrdinal),
			paint(string(img.Status), colored),
			truncate(imageSource(img)),
		}); err != nil {
			return err
		}
	}
	return structural.Render()
}

func resultOf(result *compare.ComparisonResult) string {
	switch {
	case result.Degraded():
		return resultFailed
	case result.Identical():
		return resultIdentical
	}
	return resultDifferent
}

func paint(s string, colored bool) string {
	attr, ok := statusColors[s]
	if !ok || !colored {
		return s
	}
	c := color.New(attr, color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

// truncate flattens s to one line and cuts it to maxCellWidth display columns
func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, maxCellWidth, "…")
}

func lineRef(index int) string {
	if index == 0 {
		return "-"
	}
	return strconv.Itoa(index)
}

func imageSource(img compare.ImageReport) string {
	switch {
	case img.LeftImage != nil && img.RightImage != nil && img.LeftImage.Source != img.RightImage.Source:
		return img.LeftImage.Source + " -> " + img.RightImage.Source
	case img.RightImage != nil:
		return img.RightImage.Source
	case img.LeftImage != nil:
		return img.LeftImage.Source
	}
	return ""
}
