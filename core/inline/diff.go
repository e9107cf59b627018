// Package inline computes and renders character-level differences between the
// contents of two matched units.
package inline

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op is the operation of a diff segment
type Op int

const (
	OpEqual Op = iota
	OpInsert
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	default:
		return "equal"
	}
}

// Segment is one run of a diff
type Segment struct {
	Op   Op
	Text string
}

// newEngine returns a diff engine without a time budget, so results depend
// only on the input strings.
func newEngine() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	return dmp
}

// Diff returns the raw character diff of a and b
func Diff(a, b string) []Segment {
	dmp := newEngine()
	return toSegments(dmp.DiffMain(a, b, false))
}

// SemanticDiff returns the diff of a and b after semantic cleanup, which folds
// trivial single-character equalities into the surrounding edits.
func SemanticDiff(a, b string) []Segment {
	dmp := newEngine()
	diffs := dmp.DiffMain(a, b, false)
	return toSegments(dmp.DiffCleanupSemantic(diffs))
}

func toSegments(diffs []diffmatchpatch.Diff) []Segment {
	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		}
		segments = append(segments, Segment{Op: op, Text: d.Text})
	}
	return segments
}

// Similarity is the share of unchanged characters: the length of the equal
// runs of the raw diff divided by the longer of the two strings.
// Two empty strings are identical (1); one empty string shares nothing (0).
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	total := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > total {
		total = n
	}

	unchanged := 0
	for _, s := range Diff(a, b) {
		if s.Op == OpEqual {
			unchanged += utf8.RuneCountInString(s.Text)
		}
	}
	return float64(unchanged) / float64(total)
}

// Reconstruct joins the segments visible on one side: equal+delete for the
// left, equal+insert for the right.
func Reconstruct(segments []Segment, side Side) string {
	var out []byte
	for _, s := range segments {
		switch {
		case s.Op == OpEqual,
			s.Op == OpDelete && side == SideLeft,
			s.Op == OpInsert && side == SideRight:
			out = append(out, s.Text...)
		}
	}
	return string(out)
}
