// Package align pairs the comparable units of two documents into equal,
// modified, added and removed records.
package align

import (
	"github.com/benedoc-inc/docdiff/core/inline"
	"github.com/benedoc-inc/docdiff/types"
)

// DefaultSimilarityThreshold is the similarity a pair must exceed to count as a modification
const DefaultSimilarityThreshold = 0.5

// Kind classifies an alignment record
type Kind string

const (
	KindEqual    Kind = "equal"
	KindModified Kind = "modified"
	KindAdded    Kind = "added"
	KindRemoved  Kind = "removed"
)

// Strategy selects how exact matches are found
type Strategy string

const (
	// StrategyGreedy pairs each left unit with the first identical right unit
	StrategyGreedy Strategy = "greedy"
	// StrategySequence pairs identical units along their longest common
	// subsequence, so equal pairs never cross
	StrategySequence Strategy = "sequence"
)

// Options configures alignment
type Options struct {
	Threshold float64
	Strategy  Strategy
}

// DefaultOptions returns the default alignment options
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultSimilarityThreshold,
		Strategy:  StrategyGreedy,
	}
}

// Record pairs at most one left and one right unit.
// Left is nil for added records, Right is nil for removed ones.
type Record struct {
	Kind       Kind
	Left       *types.ComparableUnit
	Right      *types.ComparableUnit
	Similarity float64 // 1 for equal, the pass score for modified, 0 otherwise
}

// Align pairs left and right units. Every unit of either side appears in exactly
// one record. Records come out grouped by pass: equal, modified, removed, added.
//
// The similarity pass compares every unmatched left unit with every unmatched
// right unit of the same kind, so it is quadratic in the number of units.
func Align(left, right []types.ComparableUnit, opts Options) []Record {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultSimilarityThreshold
	}

	leftMatched := make([]bool, len(left))
	rightMatched := make([]bool, len(right))
	records := make([]Record, 0, len(left)+len(right))

	// Pass 1: exact matches
	var pairs []matchPair
	if opts.Strategy == StrategySequence {
		pairs = findLCSMatches(left, right)
	} else {
		pairs = findExactMatches(left, right)
	}
	for _, p := range pairs {
		leftMatched[p.i1] = true
		rightMatched[p.i2] = true
		records = append(records, Record{
			Kind:       KindEqual,
			Left:       &left[p.i1],
			Right:      &right[p.i2],
			Similarity: 1,
		})
	}

	// Pass 2: best similar unit of the same kind, first one wins a tie
	for i := range left {
		if leftMatched[i] {
			continue
		}
		best := -1
		bestScore := opts.Threshold
		for j := range right {
			if rightMatched[j] || right[j].Kind != left[i].Kind {
				continue
			}
			score := inline.Similarity(left[i].RawContent, right[j].RawContent)
			if score > bestScore {
				best = j
				bestScore = score
			}
		}
		if best < 0 {
			continue
		}
		leftMatched[i] = true
		rightMatched[best] = true
		records = append(records, Record{
			Kind:       KindModified,
			Left:       &left[i],
			Right:      &right[best],
			Similarity: bestScore,
		})
	}

	// Pass 3: leftovers
	for i := range left {
		if !leftMatched[i] {
			records = append(records, Record{Kind: KindRemoved, Left: &left[i]})
		}
	}
	for j := range right {
		if !rightMatched[j] {
			records = append(records, Record{Kind: KindAdded, Right: &right[j]})
		}
	}
	return records
}

// identical reports whether two units match exactly: same kind, same content,
// same formatting
func identical(a, b *types.ComparableUnit) bool {
	return a.Kind == b.Kind && a.RawContent == b.RawContent && a.Formatting.Equal(b.Formatting)
}

type matchPair struct {
	i1, i2 int
}

// findExactMatches gives each left unit the first unmatched identical right unit
func findExactMatches(left, right []types.ComparableUnit) []matchPair {
	matched := make([]bool, len(right))
	var pairs []matchPair
	for i := range left {
		for j := range right {
			if matched[j] || !identical(&left[i], &right[j]) {
				continue
			}
			matched[j] = true
			pairs = append(pairs, matchPair{i1: i, i2: j})
			break
		}
	}
	return pairs
}
